package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/mudra/internal/store"
)

func TestAPI_SessionWorkflow(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer s.Close()

	start := time.Now()
	sess, err := s.Sessions().Start(25000, start)
	require.NoError(t, err)
	require.NoError(t, s.Events().Record(&store.Event{
		SessionID: sess.ID, Kind: store.EventGesture, Category: "OPEN_HAND", Strength: 1, OccurredAt: start,
	}))
	require.NoError(t, s.Sessions().End(sess.ID, start.Add(time.Second)))

	ts := httptest.NewServer(New(Config{Store: s}))
	defer ts.Close()
	client := ts.Client()

	resp, err := client.Get(ts.URL + "/api/sessions")
	require.NoError(t, err)
	var list struct {
		Sessions []struct {
			ID      string `json:"id"`
			EndedAt string `json:"ended_at"`
		} `json:"sessions"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	resp.Body.Close()
	require.Len(t, list.Sessions, 1)
	assert.Equal(t, sess.ID, list.Sessions[0].ID)
	assert.NotEmpty(t, list.Sessions[0].EndedAt)

	resp, err = client.Get(ts.URL + "/api/sessions/" + sess.ID + "/events")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var events struct {
		Events []struct {
			Category string `json:"category"`
		} `json:"events"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&events))
	require.Len(t, events.Events, 1)
	assert.Equal(t, "OPEN_HAND", events.Events[0].Category)
}
