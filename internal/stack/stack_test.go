package stack

import (
	"io"
	"log/slog"
	"sort"
	"strings"
	"testing"

	"github.com/1broseidon/stackwm/internal/display"
	"github.com/1broseidon/stackwm/internal/dock"
	"github.com/1broseidon/stackwm/internal/geometry"
	"github.com/1broseidon/stackwm/internal/lifecycle"
)

type fakeRegistry struct {
	stacks map[int]*Stack
}

func (r *fakeRegistry) StackByID(id int) *Stack { return r.stacks[id] }

func (r *fakeRegistry) Stacks() []*Stack {
	ids := make([]int, 0, len(r.stacks))
	for id := range r.stacks {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]*Stack, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.stacks[id])
	}
	return out
}

type fakeManager struct {
	resized     []int
	movedToFull []int
	pinnedEnded int
	err         error
}

func (m *fakeManager) ResizeStack(stackID int, bounds *geometry.Rect, allowResizeWhileDocked, preserveWindows, animate bool) error {
	m.resized = append(m.resized, stackID)
	return m.err
}

func (m *fakeManager) MoveTasksToFullscreenStack(stackID int, onTop bool) error {
	m.movedToFull = append(m.movedToFull, stackID)
	return m.err
}

func (m *fakeManager) NotifyPinnedAnimationEnded() error {
	m.pinnedEnded++
	return m.err
}

type env struct {
	registry      *fakeRegistry
	manager       *fakeManager
	policy        *display.StaticPolicy
	posted        []lifecycle.ResizeRequest
	evicted       []*Window
	traversals    int
	splitCreate   SplitCreate
	clearedCreate bool
}

func newEnv() *env {
	return &env{
		registry:    &fakeRegistry{stacks: map[int]*Stack{}},
		manager:     &fakeManager{},
		policy:      &display.StaticPolicy{},
		splitCreate: SplitCreate{OnTopOrLeft: true},
	}
}

func (e *env) deps() Deps {
	return Deps{
		Registry:         e.registry,
		Manager:          e.manager,
		Policy:           e.policy,
		Log:              slog.New(slog.NewTextHandler(io.Discard, nil)),
		PostResize:       func(r lifecycle.ResizeRequest) { e.posted = append(e.posted, r) },
		IsCurrentUser:    func(userID int) bool { return userID == 0 },
		EvictWindow:      func(w *Window) { e.evicted = append(e.evicted, w) },
		RequestTraversal: func() { e.traversals++ },
		SplitCreate:      func() SplitCreate { return e.splitCreate },
		ClearSplitCreateBounds: func() {
			e.splitCreate.Bounds = nil
			e.clearedCreate = true
		},
		MinimizeThickness: 80,
	}
}

func (e *env) newStack(id int, d *display.Display) *Stack {
	s := New(id, e.deps())
	e.registry.stacks[id] = s
	if d != nil {
		s.Attach(d)
	}
	return s
}

func landscapeDisplay() *display.Display {
	return display.New(0, display.Info{LogicalWidth: 1920, LogicalHeight: 1080}, 20)
}

func portraitDisplay() *display.Display {
	return display.New(0, display.Info{LogicalWidth: 1000, LogicalHeight: 2000}, 20)
}

func visibleTask(id, userID int) *Task {
	t := NewTask(id, userID)
	t.AddWindow(&Window{ID: id * 100})
	return t
}

func TestAttachWithoutDockedStackIsFullscreen(t *testing.T) {
	e := newEnv()
	d := landscapeDisplay()
	s := e.newStack(FullscreenWorkspaceStackID, d)

	if !s.RawFullscreen() {
		t.Fatalf("expected fullscreen after attach with no docked stack")
	}
	if got, want := s.RawBounds(), d.LogicalRect(); got != want {
		t.Fatalf("expected raw bounds %v, got %v", want, got)
	}
}

func TestAttachTwicePanics(t *testing.T) {
	e := newEnv()
	s := e.newStack(FullscreenWorkspaceStackID, landscapeDisplay())

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on second attach")
		}
	}()
	s.Attach(landscapeDisplay())
}

func TestSetBoundsIdempotent(t *testing.T) {
	e := newEnv()
	s := e.newStack(FullscreenWorkspaceStackID, landscapeDisplay())

	r := geometry.XYWH(0, 0, 950, 1080)
	if !s.SetBounds(&r, nil, nil, nil) {
		t.Fatalf("first SetBounds must report a change")
	}
	if s.SetBounds(&r, nil, nil, nil) {
		t.Fatalf("same bounds, fullscreen flag and rotation must report no change")
	}
}

func TestSetBoundsFullscreenAgainIsUnchanged(t *testing.T) {
	e := newEnv()
	s := e.newStack(FullscreenWorkspaceStackID, landscapeDisplay())

	if s.SetBounds(nil, nil, nil, nil) {
		t.Fatalf("stack is already fullscreen, expected no change")
	}
}

func TestDockedAttachUsesMiddleSnapTarget(t *testing.T) {
	e := newEnv()
	d := landscapeDisplay()
	docked := e.newStack(DockedStackID, d)

	// Middle divider position for 1920 wide, divider 20: (1920-20)/2 = 950.
	want := geometry.Rect{Left: 0, Top: 0, Right: 950, Bottom: 1080}
	if got := docked.RawBounds(); got != want {
		t.Fatalf("expected docked bounds %v, got %v", want, got)
	}
}

func TestDockedAttachResizesSiblings(t *testing.T) {
	e := newEnv()
	d := landscapeDisplay()
	e.newStack(FullscreenWorkspaceStackID, d)
	e.newStack(DockedStackID, d)

	if len(e.posted) != 1 {
		t.Fatalf("expected one posted resize, got %d", len(e.posted))
	}
	req := e.posted[0]
	if req.StackID != FullscreenWorkspaceStackID || !req.AllowWhileDocked {
		t.Fatalf("unexpected request %+v", req)
	}
	// Complement of the docked half: left edge = 950 + divider 20.
	want := geometry.Rect{Left: 970, Top: 0, Right: 1920, Bottom: 1080}
	if req.Bounds == nil || *req.Bounds != want {
		t.Fatalf("expected sibling bounds %v, got %v", want, req.Bounds)
	}
}

func TestDockedDetachRestoresSiblingsFullscreen(t *testing.T) {
	e := newEnv()
	d := landscapeDisplay()
	sibling := e.newStack(FullscreenWorkspaceStackID, d)
	docked := e.newStack(DockedStackID, d)

	r := geometry.Rect{Left: 970, Top: 0, Right: 1920, Bottom: 1080}
	sibling.SetBounds(&r, nil, nil, nil)
	e.posted = nil

	docked.Detach()

	if len(e.posted) != 1 {
		t.Fatalf("expected one posted resize, got %d", len(e.posted))
	}
	req := e.posted[0]
	if req.StackID != FullscreenWorkspaceStackID || req.Bounds != nil || !req.AllowWhileDocked {
		t.Fatalf("expected fullscreen restore for sibling, got %+v", req)
	}
	if docked.Display() != nil {
		t.Fatalf("detach must release the display")
	}
}

func TestDetachEvictsWindows(t *testing.T) {
	e := newEnv()
	s := e.newStack(FullscreenWorkspaceStackID, landscapeDisplay())

	task := visibleTask(1, 0)
	s.AddTask(task, true)
	s.Detach()

	if len(e.evicted) != 1 {
		t.Fatalf("expected 1 evicted window, got %d", len(e.evicted))
	}
	if e.traversals != 1 {
		t.Fatalf("eviction must request a traversal")
	}
}

func TestHiddenDockedStackFallsBackToFullscreen(t *testing.T) {
	e := newEnv()
	d := landscapeDisplay()
	sibling := e.newStack(FullscreenWorkspaceStackID, d)
	docked := e.newStack(DockedStackID, d)

	r := geometry.Rect{Left: 970, Top: 0, Right: 1920, Bottom: 1080}
	sibling.SetBounds(&r, nil, nil, nil)

	// Docked stack has no visible window: siblings represent themselves
	// as fullscreen so a dismissing dock does not leave them shrunk.
	if got := sibling.Bounds(); got != d.LogicalRect() {
		t.Fatalf("expected fullscreen fallback, got %v", got)
	}
	if !sibling.IsFullscreen() {
		t.Fatalf("expected IsFullscreen fallback")
	}

	docked.AddTask(visibleTask(1, 0), true)

	if got := sibling.Bounds(); got != r {
		t.Fatalf("docked visible again, expected %v, got %v", r, got)
	}
	if sibling.IsFullscreen() {
		t.Fatalf("docked visible again, stack is not fullscreen")
	}
}

func TestSetBoundsSkipsTaskWithoutConfig(t *testing.T) {
	e := newEnv()
	s := e.newStack(FullscreenWorkspaceStackID, landscapeDisplay())

	t1 := NewTask(1, 0)
	t2 := NewTask(2, 0)
	s.AddTask(t1, true)
	s.AddTask(t2, true)

	stackBounds := geometry.XYWH(0, 0, 960, 1080)
	b1 := geometry.XYWH(0, 0, 960, 540)
	b2 := geometry.XYWH(0, 540, 960, 540)
	cfg := &TaskConfig{ScreenWidthDp: 320}

	changed := s.SetBounds(&stackBounds,
		map[int]*TaskConfig{1: cfg},
		map[int]*geometry.Rect{1: &b1, 2: &b2}, nil)

	if !changed {
		t.Fatalf("stack bounds changed, expected true")
	}
	if got := t1.Bounds(); got != b1 {
		t.Fatalf("configured task must resize, got %v", got)
	}
	if got := t2.Bounds(); !got.IsEmpty() {
		t.Fatalf("task without config must keep previous bounds, got %v", got)
	}
}

func TestPositionTaskKeepsHiddenTasksBelow(t *testing.T) {
	e := newEnv()
	s := e.newStack(FullscreenWorkspaceStackID, landscapeDisplay())

	shown := NewTask(1, 0)
	hidden := NewTask(2, 7) // user 7 is not the current user
	s.AddTask(shown, true)
	s.AddTask(hidden, true) // wants top, must be clamped below shown

	tasks := s.Tasks()
	if tasks[0] != hidden || tasks[1] != shown {
		t.Fatalf("hidden task must stay below shown task")
	}

	// A shown task inserted at the bottom is clamped above hidden ones.
	shown2 := NewTask(3, 0)
	s.AddTask(shown2, false)
	tasks = s.Tasks()
	if tasks[0] != hidden || tasks[1] != shown2 {
		t.Fatalf("shown task must not go below hidden tasks, order %v", ids(tasks))
	}
}

func ids(tasks []*Task) []int {
	out := make([]int, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestRemoveLastTaskLowersStack(t *testing.T) {
	e := newEnv()
	d := landscapeDisplay()
	s := e.newStack(FullscreenWorkspaceStackID, d)
	other := e.newStack(HomeStackID, d)
	_ = other

	task := NewTask(1, 0)
	s.AddTask(task, true)
	if order := d.StackOrder(); order[len(order)-1] != FullscreenWorkspaceStackID {
		t.Fatalf("adding to top must raise the stack, order %v", order)
	}

	s.RemoveTask(task)
	if order := d.StackOrder(); order[0] != FullscreenWorkspaceStackID {
		t.Fatalf("removing the last task must lower the stack, order %v", order)
	}
	if !d.NeedsLayout() {
		t.Fatalf("removal must request a layout pass")
	}
}

func TestRemoveTaskPurgesExitingTokens(t *testing.T) {
	e := newEnv()
	s := e.newStack(FullscreenWorkspaceStackID, landscapeDisplay())

	task := NewTask(1, 0)
	s.AddTask(task, true)
	win := &Window{ID: 10, AnimatingExit: true}
	s.AddExitingToken(&ExitingToken{TaskID: 1, Window: win})

	s.RemoveTask(task)

	if len(s.ExitingTokens()) != 0 {
		t.Fatalf("expected exiting tokens purged")
	}
	if win.AnimatingExit {
		t.Fatalf("purged window must stop animating exit")
	}
}

func TestSwitchUserStablePartition(t *testing.T) {
	e := newEnv()
	s := e.newStack(FullscreenWorkspaceStackID, landscapeDisplay())

	// Insert directly to control the starting order.
	a := NewTask(1, 0) // current user
	b := NewTask(2, 7) // other user
	c := NewTask(3, 0) // current user
	d := NewTask(4, 8) // other user
	s.tasks = []*Task{a, b, c, d}

	s.SwitchUser()

	if got := ids(s.Tasks()); got[0] != 2 || got[1] != 4 || got[2] != 1 || got[3] != 3 {
		t.Fatalf("expected stable partition [2 4 1 3], got %v", got)
	}
}

func TestDockedSplitBoundsPanicsWithoutDockedStack(t *testing.T) {
	e := newEnv()
	s := e.newStack(FullscreenWorkspaceStackID, landscapeDisplay())
	r := geometry.XYWH(0, 0, 950, 1080)
	s.SetBounds(&r, nil, nil, nil)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic when no docked stack is attached")
		}
	}()
	s.DockedSplitBounds(false)
}

func TestDockedSplitBoundsHiddenDockedGivesDisplayRect(t *testing.T) {
	e := newEnv()
	d := landscapeDisplay()
	sibling := e.newStack(FullscreenWorkspaceStackID, d)
	e.newStack(DockedStackID, d)

	if got := sibling.DockedSplitBounds(false); got != d.LogicalRect() {
		t.Fatalf("hidden docked stack, expected display rect, got %v", got)
	}
}

func TestResetDockedToMiddle(t *testing.T) {
	e := newEnv()
	create := geometry.XYWH(0, 0, 400, 1080)
	e.splitCreate.Bounds = &create
	d := landscapeDisplay()
	docked := e.newStack(DockedStackID, d)
	docked.AddTask(visibleTask(1, 0), true)
	e.posted = nil

	docked.ResetDockedToMiddle()

	if !e.clearedCreate {
		t.Fatalf("expected explicit creation bounds cleared")
	}
	if len(e.posted) != 1 {
		t.Fatalf("expected one posted resize, got %d", len(e.posted))
	}
	req := e.posted[0]
	if req.StackID != DockedStackID || !req.AllowWhileDocked || req.Bounds == nil {
		t.Fatalf("unexpected request %+v", req)
	}
	want := geometry.Rect{Left: 0, Top: 0, Right: 950, Bottom: 1080}
	if *req.Bounds != want {
		t.Fatalf("expected middle split %v, got %v", want, *req.Bounds)
	}
}

func TestResetDockedToMiddlePanicsOnNonDocked(t *testing.T) {
	e := newEnv()
	s := e.newStack(FullscreenWorkspaceStackID, landscapeDisplay())

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for a non-docked stack")
		}
	}()
	s.ResetDockedToMiddle()
}

func TestRotationRemapsAndPostsDockedBounds(t *testing.T) {
	e := newEnv()
	d := display.New(0, display.Info{LogicalWidth: 2000, LogicalHeight: 1000}, 20)
	docked := e.newStack(DockedStackID, d)
	e.posted = nil

	// Landscape middle split: (2000-20)/2 = 990, docked on the left.
	if got := docked.RawBounds(); got != (geometry.Rect{Right: 990, Bottom: 1000}) {
		t.Fatalf("unexpected docked bounds before rotation: %v", got)
	}

	d.SetInfo(display.Info{LogicalWidth: 1000, LogicalHeight: 2000, Rotation: display.Rotation90})
	docked.UpdateDisplayInfo(nil)
	if len(e.posted) != 0 {
		t.Fatalf("bounds update must be deferred until configuration settles")
	}

	docked.UpdateBoundsAfterRotation()

	if len(e.posted) != 1 {
		t.Fatalf("expected one posted resize, got %d", len(e.posted))
	}
	req := e.posted[0]
	// Quarter turn maps the left half to the top half; the middle target
	// in portrait is (2000-20)/2 = 990 as well, so the snap is stable.
	want := geometry.Rect{Left: 0, Top: 0, Right: 1000, Bottom: 990}
	if req.StackID != DockedStackID || req.Bounds == nil || *req.Bounds != want {
		t.Fatalf("expected rotated bounds %v, got %+v", want, req)
	}
}

func TestRotationRepositionsDisallowedDockSide(t *testing.T) {
	e := newEnv()
	e.policy.DisallowedSides = []dock.Side{dock.SideTop}
	d := display.New(0, display.Info{LogicalWidth: 2000, LogicalHeight: 1000}, 20)
	docked := e.newStack(DockedStackID, d)
	e.posted = nil

	d.SetInfo(display.Info{LogicalWidth: 1000, LogicalHeight: 2000, Rotation: display.Rotation90})
	docked.UpdateDisplayInfo(nil)
	docked.UpdateBoundsAfterRotation()

	if len(e.posted) != 1 {
		t.Fatalf("expected one posted resize, got %d", len(e.posted))
	}
	// Top is disallowed, so the stack is translated to the bottom edge
	// before snapping: top = middle target 990 + divider 20.
	want := geometry.Rect{Left: 0, Top: 1010, Right: 1000, Bottom: 2000}
	if got := *e.posted[0].Bounds; got != want {
		t.Fatalf("expected bottom-docked bounds %v, got %v", want, got)
	}
}

func TestSetSizeForwardsToManager(t *testing.T) {
	e := newEnv()
	s := e.newStack(FullscreenWorkspaceStackID, landscapeDisplay())

	if !s.SetSize(geometry.XYWH(0, 0, 800, 600)) {
		t.Fatalf("expected SetSize to accept while attached")
	}
	if len(e.manager.resized) != 1 || e.manager.resized[0] != FullscreenWorkspaceStackID {
		t.Fatalf("expected forward to lifecycle manager, got %v", e.manager.resized)
	}

	s.Detach()
	if s.SetSize(geometry.XYWH(0, 0, 800, 600)) {
		t.Fatalf("expected SetSize to refuse when detached")
	}
}

func TestSetSizeSwallowsManagerFailure(t *testing.T) {
	e := newEnv()
	e.manager.err = lifecycle.ErrUnavailable
	s := e.newStack(FullscreenWorkspaceStackID, landscapeDisplay())

	if !s.SetSize(geometry.XYWH(0, 0, 800, 600)) {
		t.Fatalf("manager failure must not abort the animation")
	}
}

func TestPinnedAnimationEndNotifiesManager(t *testing.T) {
	e := newEnv()
	s := e.newStack(PinnedStackID, landscapeDisplay())

	s.OnAnimationStart()
	if !s.DragResizing() {
		t.Fatalf("animation start must set drag-resizing")
	}
	s.OnAnimationEnd()
	if s.DragResizing() {
		t.Fatalf("animation end must clear drag-resizing")
	}
	if e.manager.pinnedEnded != 1 {
		t.Fatalf("expected pinned animation end notification")
	}
	if e.traversals != 1 {
		t.Fatalf("animation end must request a traversal")
	}
}

func TestKeyguardHidesNonExemptStacks(t *testing.T) {
	e := newEnv()
	d := landscapeDisplay()
	freeform := e.newStack(FreeformWorkspaceStackID, d)
	freeform.AddTask(visibleTask(1, 0), true)

	if !freeform.Visible() {
		t.Fatalf("expected visible without keyguard")
	}
	e.policy.Keyguard = true
	if freeform.Visible() {
		t.Fatalf("keyguard must hide a non-exempt stack")
	}
}

func TestBackdropLowestLayerWins(t *testing.T) {
	e := newEnv()
	s := e.newStack(FullscreenWorkspaceStackID, landscapeDisplay())

	high := &Window{ID: 1, Layer: 30}
	low := &Window{ID: 2, Layer: 10}

	s.SetAnimationBackground(high, 0xff000000)
	s.SetAnimationBackground(low, 0x80000000)
	if got := s.AnimationBackdrop().Layer(); got != 9 {
		t.Fatalf("expected backdrop below the lowest window layer, got %d", got)
	}
	s.SetAnimationBackground(high, 0xff000000) // higher layer, must not steal
	if got := s.AnimationBackdrop().Layer(); got != 9 {
		t.Fatalf("higher-layer window must not take the backdrop, got %d", got)
	}

	s.ResetAnimationBackground()
	if s.AnimationBackdrop().Dimming() {
		t.Fatalf("reset must hide the backdrop")
	}
}

func TestDumpIsDeterministic(t *testing.T) {
	e := newEnv()
	s := e.newStack(DockedStackID, landscapeDisplay())
	s.AddTask(visibleTask(1, 0), true)

	var a, b strings.Builder
	s.Dump(&a, "  ")
	s.Dump(&b, "  ")
	if a.String() != b.String() {
		t.Fatalf("dump must be deterministic")
	}
	if !strings.Contains(a.String(), "id=3") || !strings.Contains(a.String(), "taskId=1") {
		t.Fatalf("dump missing expected fields:\n%s", a.String())
	}
}

func TestPrepareFreezingTaskBounds(t *testing.T) {
	e := newEnv()
	s := e.newStack(FullscreenWorkspaceStackID, landscapeDisplay())
	task := NewTask(1, 0)
	s.AddTask(task, true)
	r := geometry.XYWH(10, 10, 100, 100)
	task.Resize(&r, nil, false)

	s.PrepareFreezingTaskBounds()

	if task.FrozenBounds() == nil || *task.FrozenBounds() != r {
		t.Fatalf("expected frozen bounds %v, got %v", r, task.FrozenBounds())
	}
}

func TestIsAnimating(t *testing.T) {
	e := newEnv()
	s := e.newStack(FullscreenWorkspaceStackID, landscapeDisplay())
	task := NewTask(1, 0)
	win := &Window{ID: 1}
	task.AddWindow(win)
	s.AddTask(task, true)

	if s.IsAnimating() {
		t.Fatalf("no animation expected")
	}
	win.AnimatingExit = true
	if !s.IsAnimating() {
		t.Fatalf("exit animation must count as animating")
	}
}
