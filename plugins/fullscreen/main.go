// Package main provides a plugin for macOS that toggles full-screen
// presentation of the frontmost window when the two-hand trigger fires.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Request represents the input from the plugin executor.
type Request struct {
	Action      string          `json:"action"`
	Gesture     string          `json:"gesture"`
	TimestampMs int64           `json:"timestamp_ms,omitempty"`
	Params      json.RawMessage `json:"params,omitempty"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// toggleScript presses ctrl+cmd+f, the system full-screen shortcut.
const toggleScript = `tell application "System Events" to keystroke "f" using {control down, command down}`

// runner executes an AppleScript. Swapped in tests.
var runner = runAppleScript

func main() {
	json.NewEncoder(os.Stdout).Encode(handle(os.Stdin))
}

func handle(r io.Reader) Response {
	var req Request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return Response{Error: fmt.Sprintf("failed to decode request: %v", err)}
	}

	switch req.Action {
	case "toggle":
		if err := runner(toggleScript); err != nil {
			return Response{Error: fmt.Sprintf("action %s failed: %v", req.Action, err)}
		}
	default:
		return Response{Error: fmt.Sprintf("unknown action: %s", req.Action)}
	}

	data, _ := json.Marshal(map[string]string{"toggled_by": req.Gesture})
	return Response{Success: true, Data: data}
}

// runAppleScript executes an AppleScript command and returns any error.
func runAppleScript(script string) error {
	cmd := exec.Command("osascript", "-e", script)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}
