package engine

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/1broseidon/stackwm/internal/config"
	"github.com/1broseidon/stackwm/internal/display"
	"github.com/1broseidon/stackwm/internal/geometry"
	"github.com/1broseidon/stackwm/internal/stack"
)

type resizeCall struct {
	stackID          int
	bounds           *geometry.Rect
	allowWhileDocked bool
}

type fakeManager struct {
	resized     []resizeCall
	movedToFull []int
	pinnedEnded int
}

func (m *fakeManager) ResizeStack(stackID int, bounds *geometry.Rect, allowResizeWhileDocked, preserveWindows, animate bool) error {
	var copied *geometry.Rect
	if bounds != nil {
		b := *bounds
		copied = &b
	}
	m.resized = append(m.resized, resizeCall{stackID, copied, allowResizeWhileDocked})
	return nil
}

func (m *fakeManager) MoveTasksToFullscreenStack(stackID int, onTop bool) error {
	m.movedToFull = append(m.movedToFull, stackID)
	return nil
}

func (m *fakeManager) NotifyPinnedAnimationEnded() error {
	m.pinnedEnded++
	return nil
}

func newEngine(t *testing.T) (*Engine, *fakeManager) {
	t.Helper()
	mgr := &fakeManager{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(config.DefaultConfig(), mgr, log), mgr
}

func attachLandscape(e *Engine) {
	e.AttachDisplay(display.Info{LogicalWidth: 1920, LogicalHeight: 1080, Rotation: 0})
}

func attachPortrait(e *Engine) {
	e.AttachDisplay(display.Info{LogicalWidth: 1000, LogicalHeight: 2000, Rotation: 0})
}

func visibleTask(id int) *stack.Task {
	task := stack.NewTask(id, 0)
	task.AddWindow(&stack.Window{ID: id * 100})
	return task
}

func TestCreateStackRequiresDisplay(t *testing.T) {
	e, _ := newEngine(t)
	if err := e.CreateStack(stack.FullscreenWorkspaceStackID); err == nil {
		t.Fatal("expected error without a display")
	}
}

func TestCreateStackRejectsDuplicate(t *testing.T) {
	e, _ := newEngine(t)
	attachLandscape(e)
	if err := e.CreateStack(stack.FullscreenWorkspaceStackID); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := e.CreateStack(stack.FullscreenWorkspaceStackID); err == nil {
		t.Fatal("expected error for duplicate stack")
	}
}

func TestResizeStackChangesAndFansOut(t *testing.T) {
	e, _ := newEngine(t)
	attachLandscape(e)
	if err := e.CreateStack(stack.FullscreenWorkspaceStackID); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := e.AddTask(stack.FullscreenWorkspaceStackID, visibleTask(1), true); err != nil {
		t.Fatalf("add task: %v", err)
	}

	bounds := geometry.XYWH(100, 100, 800, 600)
	changed, err := e.ResizeStack(stack.FullscreenWorkspaceStackID, &bounds)
	if err != nil {
		t.Fatalf("resize: %v", err)
	}
	if !changed {
		t.Fatal("expected first resize to report a change")
	}

	// Same bounds again is a no-op.
	changed, err = e.ResizeStack(stack.FullscreenWorkspaceStackID, &bounds)
	if err != nil {
		t.Fatalf("resize: %v", err)
	}
	if changed {
		t.Fatal("expected repeat resize to be a no-op")
	}

	// With no visible docked sibling the stack presents itself as
	// fullscreen; the requested rectangle survives in the raw bounds.
	infos := e.StackInfos()
	if len(infos) != 1 {
		t.Fatalf("stack count = %d", len(infos))
	}
	if infos[0].RawBounds != bounds || !infos[0].Fullscreen {
		t.Fatalf("info = %+v", infos[0])
	}

	// The member task adopted the stack rectangle.
	e.mu.Lock()
	taskBounds := e.stacks[stack.FullscreenWorkspaceStackID].Tasks()[0].Bounds()
	e.mu.Unlock()
	if taskBounds != bounds {
		t.Fatalf("task bounds = %v, want %v", taskBounds, bounds)
	}
}

func TestResizeUnknownStack(t *testing.T) {
	e, _ := newEngine(t)
	attachLandscape(e)
	if _, err := e.ResizeStack(99, nil); err == nil {
		t.Fatal("expected error for unknown stack")
	}
}

func TestDockedCreateSplitsAndNotifiesSibling(t *testing.T) {
	e, mgr := newEngine(t)
	attachLandscape(e)
	if err := e.CreateStack(stack.FullscreenWorkspaceStackID); err != nil {
		t.Fatalf("create fullscreen: %v", err)
	}
	if err := e.CreateStack(stack.DockedStackID); err != nil {
		t.Fatalf("create docked: %v", err)
	}

	// Middle snap on a 1920-wide display with a 20px divider.
	wantDocked := geometry.Rect{Left: 0, Top: 0, Right: 950, Bottom: 1080}
	infos := e.StackInfos()
	for _, info := range infos {
		if info.ID == stack.DockedStackID && info.Bounds != wantDocked {
			t.Fatalf("docked bounds = %v, want %v", info.Bounds, wantDocked)
		}
	}

	e.Flush()
	if len(mgr.resized) != 1 {
		t.Fatalf("resized calls = %d, want 1", len(mgr.resized))
	}
	call := mgr.resized[0]
	wantSibling := geometry.Rect{Left: 970, Top: 0, Right: 1920, Bottom: 1080}
	if call.stackID != stack.FullscreenWorkspaceStackID || !call.allowWhileDocked {
		t.Fatalf("call = %+v", call)
	}
	if call.bounds == nil || *call.bounds != wantSibling {
		t.Fatalf("sibling bounds = %v, want %v", call.bounds, wantSibling)
	}
}

func TestRemoveDockedRestoresSiblingFullscreen(t *testing.T) {
	e, mgr := newEngine(t)
	attachLandscape(e)
	if err := e.CreateStack(stack.FullscreenWorkspaceStackID); err != nil {
		t.Fatalf("create fullscreen: %v", err)
	}
	if err := e.CreateStack(stack.DockedStackID); err != nil {
		t.Fatalf("create docked: %v", err)
	}
	e.Flush()

	// The manager applies the complement it was notified of; mirror that
	// back so the sibling's raw bounds no longer cover the display.
	sibling := geometry.Rect{Left: 970, Top: 0, Right: 1920, Bottom: 1080}
	if _, err := e.ResizeStack(stack.FullscreenWorkspaceStackID, &sibling); err != nil {
		t.Fatalf("resize sibling: %v", err)
	}
	e.Flush()
	mgr.resized = nil

	if err := e.RemoveStack(stack.DockedStackID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	e.Flush()

	if len(mgr.resized) != 1 {
		t.Fatalf("resized calls = %d, want 1", len(mgr.resized))
	}
	if call := mgr.resized[0]; call.stackID != stack.FullscreenWorkspaceStackID || call.bounds != nil {
		t.Fatalf("call = %+v, want nil bounds for fullscreen restore", call)
	}
	if st := e.Status(); st.StackCount != 1 || st.DockedPresent {
		t.Fatalf("status = %+v", st)
	}
}

func TestRemoveStackDeferredWhileAnimating(t *testing.T) {
	e, _ := newEngine(t)
	attachLandscape(e)
	if err := e.CreateStack(stack.PinnedStackID); err != nil {
		t.Fatalf("create: %v", err)
	}
	task := stack.NewTask(1, 0)
	task.AddWindow(&stack.Window{ID: 100, Animating: true})
	if err := e.AddTask(stack.PinnedStackID, task, true); err != nil {
		t.Fatalf("add task: %v", err)
	}

	if err := e.RemoveStack(stack.PinnedStackID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	e.mu.Lock()
	s := e.stacks[stack.PinnedStackID]
	e.mu.Unlock()
	if s == nil {
		t.Fatal("animating stack must stay registered")
	}
	if !s.DeferDetach {
		t.Fatal("expected deferred detach")
	}
}

func TestRotateDisplaySwapsDimensions(t *testing.T) {
	e, mgr := newEngine(t)
	attachLandscape(e)
	if err := e.CreateStack(stack.FullscreenWorkspaceStackID); err != nil {
		t.Fatalf("create fullscreen: %v", err)
	}
	if err := e.CreateStack(stack.DockedStackID); err != nil {
		t.Fatalf("create docked: %v", err)
	}
	e.Flush()
	mgr.resized = nil

	if err := e.RotateDisplay(1); err != nil {
		t.Fatalf("rotate: %v", err)
	}
	st := e.Status()
	if st.DisplayWidth != 1080 || st.DisplayHeight != 1920 || st.Rotation != 1 {
		t.Fatalf("status after rotation = %+v", st)
	}

	// The docked stack re-snaps after rotation and reports its new bounds.
	e.Flush()
	found := false
	for _, call := range mgr.resized {
		if call.stackID == stack.DockedStackID {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a post-rotation resize for the docked stack")
	}

	// Same rotation again is a no-op.
	if err := e.RotateDisplay(1); err != nil {
		t.Fatalf("rotate: %v", err)
	}
}

func TestSetIMEAdjustsTopDockedStack(t *testing.T) {
	e, _ := newEngine(t)
	attachPortrait(e)
	if err := e.CreateStack(stack.FullscreenWorkspaceStackID); err != nil {
		t.Fatalf("create fullscreen: %v", err)
	}
	if err := e.CreateStack(stack.DockedStackID); err != nil {
		t.Fatalf("create docked: %v", err)
	}

	frame := geometry.Rect{Left: 0, Top: 1700, Right: 1000, Bottom: 2000}
	if err := e.SetIME(true, frame, geometry.Insets{}); err != nil {
		t.Fatalf("set ime: %v", err)
	}

	e.mu.Lock()
	docked := e.stacks[stack.DockedStackID]
	adjusted := docked.AdjustedBounds()
	adjustedForIme := docked.AdjustedForIme()
	e.mu.Unlock()
	if !adjustedForIme {
		t.Fatal("docked stack must adjust for the input surface")
	}
	// 990 raw bottom pulled up by the 300px overlap with the surface.
	want := geometry.Rect{Left: 0, Top: 0, Right: 1000, Bottom: 690}
	if adjusted != want {
		t.Fatalf("adjusted = %v, want %v", adjusted, want)
	}

	if err := e.SetIME(false, geometry.Rect{}, geometry.Insets{}); err != nil {
		t.Fatalf("clear ime: %v", err)
	}
	e.mu.Lock()
	adjustedForIme = docked.AdjustedForIme()
	adjusted = docked.AdjustedBounds()
	e.mu.Unlock()
	if adjustedForIme || !adjusted.IsEmpty() {
		t.Fatalf("adjustment must clear, got %v", adjusted)
	}
	if st := e.Status(); st.ImeVisible {
		t.Fatal("status must report the surface hidden")
	}
}

func TestSetMinimized(t *testing.T) {
	e, _ := newEngine(t)
	attachPortrait(e)

	if _, err := e.SetMinimized(0.5); err == nil {
		t.Fatal("expected error without a docked stack")
	}

	if err := e.CreateStack(stack.DockedStackID); err != nil {
		t.Fatalf("create docked: %v", err)
	}
	if err := e.AddTask(stack.DockedStackID, visibleTask(1), true); err != nil {
		t.Fatalf("add task: %v", err)
	}

	if _, err := e.SetMinimized(1.5); err == nil {
		t.Fatal("expected error for out-of-range amount")
	}

	relayout, err := e.SetMinimized(0.5)
	if err != nil {
		t.Fatalf("set minimized: %v", err)
	}
	if !relayout {
		t.Fatal("expected relayout for a visible docked stack")
	}

	// Unchanged amount needs no relayout.
	relayout, err = e.SetMinimized(0.5)
	if err != nil {
		t.Fatalf("set minimized: %v", err)
	}
	if relayout {
		t.Fatal("expected no relayout for an unchanged amount")
	}

	if st := e.Status(); st.MinimizeAmount != 0.5 {
		t.Fatalf("status amount = %v", st.MinimizeAmount)
	}
}

func TestSwitchUser(t *testing.T) {
	e, _ := newEngine(t)
	attachLandscape(e)
	e.SwitchUser(7)
	if st := e.Status(); st.CurrentUser != 7 {
		t.Fatalf("current user = %d", st.CurrentUser)
	}
}

func TestDumpStack(t *testing.T) {
	e, _ := newEngine(t)
	attachLandscape(e)
	if err := e.CreateStack(stack.FullscreenWorkspaceStackID); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := e.AddTask(stack.FullscreenWorkspaceStackID, visibleTask(4), true); err != nil {
		t.Fatalf("add task: %v", err)
	}

	dump, err := e.DumpStack(stack.FullscreenWorkspaceStackID)
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	if !strings.Contains(dump, "id=1") || !strings.Contains(dump, "taskId=4") {
		t.Fatalf("dump = %q", dump)
	}

	if _, err := e.DumpStack(42); err == nil {
		t.Fatal("expected error for unknown stack")
	}
}
