package stack

import (
	"fmt"
	"io"

	"github.com/1broseidon/stackwm/internal/display"
	"github.com/1broseidon/stackwm/internal/geometry"
)

// TaskConfig is the override configuration a task carries when its size
// class differs from the display default. The zero value means "no
// override".
type TaskConfig struct {
	Orientation    int
	ScreenWidthDp  int
	ScreenHeightDp int
	DensityDpi     int
}

// EmptyTaskConfig is the no-override configuration.
var EmptyTaskConfig = TaskConfig{}

// Window is one on-screen window belonging to a task. The layout engine
// only tracks the fields that feed visibility and animation decisions.
type Window struct {
	ID            int
	Hidden        bool
	Animating     bool
	AnimatingExit bool
	Layer         int
}

// Task is a window group: a unit of related windows with its own bounds.
// A task belongs to exactly one stack at a time; moving it between stacks
// is a transfer of the back-reference, never a copy.
type Task struct {
	ID              int
	UserID          int
	ShowForAllUsers bool
	Resizeable      bool
	OverrideConfig  TaskConfig

	stack   *Stack
	display *display.Display
	windows []*Window

	bounds          geometry.Rect
	tempInsetBounds *geometry.Rect
	frozenBounds    *geometry.Rect

	twoFingerScroll            bool
	scrollX, scrollY           int
	dragResizingChangeReported bool
}

// NewTask creates a detached task. It joins a stack via AddTask or
// PositionTask.
func NewTask(id, userID int) *Task {
	return &Task{ID: id, UserID: userID}
}

// Stack returns the stack currently containing this task, or nil.
func (t *Task) Stack() *Stack { return t.stack }

// Bounds returns the task's current bounds.
func (t *Task) Bounds() geometry.Rect { return t.bounds }

// Resize applies new bounds and override configuration. A nil bounds makes
// the task track its stack's effective bounds. A nil cfg clears the
// override. Reports whether the bounds actually changed; forced reports a
// change even when the rectangle is identical.
func (t *Task) Resize(bounds *geometry.Rect, cfg *TaskConfig, forced bool) bool {
	var next geometry.Rect
	if bounds == nil {
		if t.stack != nil {
			next = t.stack.Bounds()
		}
	} else {
		next = *bounds
	}

	changed := forced || next != t.bounds
	t.bounds = next
	if cfg != nil {
		t.OverrideConfig = *cfg
	} else {
		t.OverrideConfig = EmptyTaskConfig
	}
	return changed
}

// SetTempInsetBounds overrides the rectangle used for inset calculation
// while an adjustment is active. nil clears the override.
func (t *Task) SetTempInsetBounds(bounds *geometry.Rect) {
	if bounds == nil {
		t.tempInsetBounds = nil
		return
	}
	b := *bounds
	t.tempInsetBounds = &b
}

// TempInsetBounds returns the temporary inset override, or nil.
func (t *Task) TempInsetBounds() *geometry.Rect { return t.tempInsetBounds }

// TwoFingerScrollMode reports whether the task is a non-resizeable task
// being panned inside a split it cannot fill.
func (t *Task) TwoFingerScrollMode() bool { return t.twoFingerScroll }

// SetTwoFingerScrollMode marks the task as scrollable-in-place.
func (t *Task) SetTwoFingerScrollMode(on bool) { t.twoFingerScroll = on }

// ScrollBy accumulates a scroll offset and shifts the bounds with it.
func (t *Task) ScrollBy(dx, dy int) {
	t.scrollX += dx
	t.scrollY += dy
	t.bounds = t.bounds.Offset(dx, dy)
}

// Scroll re-applies the remembered scroll offset against a freshly
// computed base rectangle. Called after the containing stack resizes so a
// previously panned task keeps covering the stack area.
func (t *Task) Scroll(base geometry.Rect) {
	t.bounds = base.Offset(t.scrollX, t.scrollY)
}

// ResetScroll drops any accumulated scroll offset. A scroll is only
// meaningful relative to the stack it was made in.
func (t *Task) ResetScroll() {
	t.scrollX = 0
	t.scrollY = 0
}

// UpdateDisplayInfo points the task at the display its stack sits on.
func (t *Task) UpdateDisplayInfo(d *display.Display) {
	t.display = d
}

// PrepareFreezingBounds snapshots the current bounds before a surface
// freeze, so the frozen frame can be positioned while the new bounds
// settle.
func (t *Task) PrepareFreezingBounds() {
	b := t.bounds
	t.frozenBounds = &b
}

// FrozenBounds returns the snapshot taken by PrepareFreezingBounds, or nil.
func (t *Task) FrozenBounds() *geometry.Rect { return t.frozenBounds }

// AddWindow attaches a window to the task.
func (t *Task) AddWindow(w *Window) {
	t.windows = append(t.windows, w)
}

// RemoveWindow detaches a window from the task.
func (t *Task) RemoveWindow(w *Window) {
	for i, win := range t.windows {
		if win == w {
			t.windows = append(t.windows[:i], t.windows[i+1:]...)
			return
		}
	}
}

// Windows returns the task's windows.
func (t *Task) Windows() []*Window { return t.windows }

// Visible reports whether any window of the task is currently shown.
func (t *Task) Visible() bool {
	for _, w := range t.windows {
		if !w.Hidden {
			return true
		}
	}
	return false
}

// VisibleForUser reports whether the task is visible in the given user
// context, ignoring every other visibility aspect.
func (t *Task) VisibleForUser(isCurrentUser func(userID int) bool) bool {
	if !t.ShowForAllUsers && !isCurrentUser(t.UserID) {
		return false
	}
	return t.Visible()
}

// ResetDragResizingChangeReported clears the per-task flag tracking whether
// the latest drag-resize state was already delivered to its windows.
func (t *Task) ResetDragResizingChangeReported() {
	t.dragResizingChangeReported = false
}

// Dump writes a deterministic one-task report.
func (t *Task) Dump(w io.Writer, prefix string) {
	fmt.Fprintf(w, "%staskId=%d userId=%d bounds=%s windows=%d\n",
		prefix, t.ID, t.UserID, t.bounds, len(t.windows))
}
