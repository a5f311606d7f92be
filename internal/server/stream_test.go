package server

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/mudra/internal/capture"
)

func TestStreamHandler_WritesMJPEGParts(t *testing.T) {
	preview := capture.NewPreview()
	fake := []byte{0xFF, 0xD8, 0x01, 0x02, 0xFF, 0xD9}
	preview.Store(fake, time.Now())

	ts := httptest.NewServer(NewStreamHandler(preview))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "multipart/x-mixed-replace; boundary=frame", resp.Header.Get("Content-Type"))
	assert.Eventually(t, preview.Wanted, time.Second, 5*time.Millisecond)

	r := bufio.NewReader(resp.Body)
	line, err := r.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "--frame\r\n", line)

	line, _ = r.ReadString('\n')
	assert.Equal(t, "Content-Type: image/jpeg\r\n", line)
	line, _ = r.ReadString('\n')
	assert.True(t, strings.HasPrefix(line, "Content-Length: 6"))
	r.ReadString('\n')

	body := make([]byte, len(fake))
	_, err = io.ReadFull(r, body)
	require.NoError(t, err)
	assert.Equal(t, fake, body)

	cancel()
	assert.Eventually(t, func() bool { return !preview.Wanted() }, 2*time.Second, 5*time.Millisecond)
}

func TestStreamHandler_MethodNotAllowed(t *testing.T) {
	h := NewStreamHandler(capture.NewPreview())
	req := httptest.NewRequest(http.MethodPost, "/api/stream", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
