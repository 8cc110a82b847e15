// Package lifecycle defines the contract with the external task-lifecycle
// manager: the separate authority that mirrors stack membership and owns
// animated-resize decisions. The layout engine only ever talks to it
// through the Manager interface or the asynchronous Notifier queue.
package lifecycle

import (
	"errors"

	"github.com/1broseidon/stackwm/internal/geometry"
)

// ErrUnavailable is returned when the task-lifecycle manager cannot be
// reached. Callers treat it as best-effort failure, never fatal.
var ErrUnavailable = errors.New("task-lifecycle manager unavailable")

// Manager is the synchronous remote surface of the task-lifecycle manager.
type Manager interface {
	// ResizeStack asks the manager to apply new bounds to a stack. A nil
	// bounds means fullscreen.
	ResizeStack(stackID int, bounds *geometry.Rect, allowResizeWhileDocked, preserveWindows, animate bool) error

	// MoveTasksToFullscreenStack migrates a stack's tasks to the fullscreen
	// workspace stack.
	MoveTasksToFullscreenStack(stackID int, onTop bool) error

	// NotifyPinnedAnimationEnded reports that the pinned stack's bounds
	// animation finished.
	NotifyPinnedAnimationEnded() error
}

// NopManager runs the engine without an external manager; every call
// succeeds and does nothing.
type NopManager struct{}

func (NopManager) ResizeStack(int, *geometry.Rect, bool, bool, bool) error { return nil }
func (NopManager) MoveTasksToFullscreenStack(int, bool) error              { return nil }
func (NopManager) NotifyPinnedAnimationEnded() error                       { return nil }

// ResizeRequest is one asynchronous resize notification. Bounds == nil
// requests fullscreen.
type ResizeRequest struct {
	StackID          int
	Bounds           *geometry.Rect
	AllowWhileDocked bool
}
