// File: internal/humanoid/executor.go
package humanoid

import (
	"context"
	"errors"
	"time"
)

// ErrNotVisible is returned by ElementGeometry when the selector matches
// nothing, or matches only elements that cannot be interacted with.
var ErrNotVisible = errors.New("humanoid: element not found or not visible")

// MouseEventType mirrors the CDP mouse event type strings.
type MouseEventType string

const (
	MouseMoved    MouseEventType = "mouseMoved"
	MousePressed  MouseEventType = "mousePressed"
	MouseReleased MouseEventType = "mouseReleased"
)

// MouseEvent is a single low-level pointer event to dispatch.
type MouseEvent struct {
	Type       MouseEventType
	X, Y       float64
	Button     string // "left" or "none"
	ClickCount int
}

// Vector is a 2D point in viewport coordinates.
type Vector struct {
	X, Y float64
}

// Geometry describes the border box of a located element.
type Geometry struct {
	X, Y          float64
	Width, Height float64
}

// Center returns the midpoint of the box.
func (g Geometry) Center() Vector {
	return Vector{X: g.X + g.Width/2, Y: g.Y + g.Height/2}
}

// Executor is the low-level surface the simulator drives. The production
// implementation dispatches raw CDP events; tests substitute a recorder.
type Executor interface {
	// Sleep pauses for d, respecting ctx cancellation.
	Sleep(ctx context.Context, d time.Duration) error
	// DispatchMouseEvent sends one pointer event.
	DispatchMouseEvent(ctx context.Context, ev MouseEvent) error
	// SendKeys emits the given characters as key events.
	SendKeys(ctx context.Context, keys string) error
	// PressKey presses and releases a named non-character key, e.g. "Enter".
	PressKey(ctx context.Context, key string) error
	// ElementGeometry locates the first visible element matching selector.
	// Returns ErrNotVisible when there is no interactable match.
	ElementGeometry(ctx context.Context, selector string) (*Geometry, error)
}
