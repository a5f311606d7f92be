package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func stubRunner(t *testing.T, err error) *[]string {
	t.Helper()
	var scripts []string
	prev := runner
	runner = func(s string) error {
		scripts = append(scripts, s)
		return err
	}
	t.Cleanup(func() { runner = prev })
	return &scripts
}

func TestHandle_Toggle(t *testing.T) {
	scripts := stubRunner(t, nil)

	resp := handle(strings.NewReader(`{"action":"toggle","gesture":"DOUBLE_PALM"}`))
	assert.True(t, resp.Success)
	assert.JSONEq(t, `{"toggled_by":"DOUBLE_PALM"}`, string(resp.Data))
	assert.Equal(t, []string{toggleScript}, *scripts)
}

func TestHandle_Errors(t *testing.T) {
	scripts := stubRunner(t, errors.New("not permitted"))

	resp := handle(strings.NewReader(`{"action":"toggle"}`))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "not permitted")

	resp = handle(strings.NewReader(`{"action":"explode"}`))
	assert.Equal(t, "unknown action: explode", resp.Error)

	resp = handle(strings.NewReader(`nope`))
	assert.Contains(t, resp.Error, "failed to decode request")
	assert.Len(t, *scripts, 1)
}
