package plugin

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrUnsupportedAction is returned when a plugin's manifest does not list
// the requested action.
var ErrUnsupportedAction = errors.New("action not supported by plugin")

// Dispatcher binds one plugin action to a gesture trigger.
type Dispatcher struct {
	manager *Manager
	exec    *Executor
	plugin  string
	action  string
}

// NewDispatcher returns a dispatcher that runs action on the named plugin.
func NewDispatcher(m *Manager, e *Executor, plugin, action string) *Dispatcher {
	return &Dispatcher{manager: m, exec: e, plugin: plugin, action: action}
}

// Target returns the bound plugin and action names.
func (d *Dispatcher) Target() (plugin, action string) {
	return d.plugin, d.action
}

// Fire runs the bound action for gesture. A plugin reporting failure is
// returned as an error.
func (d *Dispatcher) Fire(ctx context.Context, gesture string, at time.Time) (*Response, error) {
	p, err := d.manager.Get(d.plugin)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.plugin, err)
	}
	if !p.Manifest.Supports(d.action) {
		return nil, fmt.Errorf("%s/%s: %w", d.plugin, d.action, ErrUnsupportedAction)
	}

	resp, err := d.exec.Execute(ctx, p, &Request{
		Action:      d.action,
		Gesture:     gesture,
		TimestampMs: at.UnixMilli(),
	})
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return resp, fmt.Errorf("%s/%s: %s", d.plugin, d.action, resp.Error)
	}
	return resp, nil
}
