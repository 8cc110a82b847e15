// Package stack implements the window-group stack: the entity that owns a
// rectangle of screen space, contains an ordered list of window groups
// (tasks), and keeps both consistent across rotation, split-screen layout
// changes, input-surface avoidance and minimize animation.
//
// All methods assume the engine's layout lock is held. None of them call
// into the task-lifecycle manager synchronously except the explicitly
// remote animation paths; geometry fan-out goes through Deps.PostResize.
package stack

import (
	"io"
	"log/slog"

	"github.com/1broseidon/stackwm/internal/display"
	"github.com/1broseidon/stackwm/internal/dock"
	"github.com/1broseidon/stackwm/internal/geometry"
	"github.com/1broseidon/stackwm/internal/lifecycle"
	"github.com/1broseidon/stackwm/internal/snap"
)

// Registry is read access to the engine's stack map, shared with the
// task-lifecycle manager's view of the world.
type Registry interface {
	StackByID(id int) *Stack
	Stacks() []*Stack
}

// SplitCreate is the pending docked-stack creation state: which side of
// the divider the docked stack goes to, and an optional explicit rectangle
// requested by the creator.
type SplitCreate struct {
	OnTopOrLeft bool
	Bounds      *geometry.Rect
}

// ExitingToken tracks a window kept on screen for its exit animation after
// its task stopped owning it.
type ExitingToken struct {
	TaskID  int
	Window  *Window
	Exiting bool
}

// Deps are the injected collaborators of a stack. Zero fields get inert
// defaults from New so tests can populate only what they exercise.
type Deps struct {
	Registry Registry
	Manager  lifecycle.Manager
	Policy   display.Policy
	Log      *slog.Logger

	// PostResize enqueues an asynchronous resize notification for the
	// task-lifecycle manager. Asynchronous so the layout lock is never
	// held while the manager's lock is taken.
	PostResize func(lifecycle.ResizeRequest)

	// IsCurrentUser reports whether a user id belongs to the active user
	// context.
	IsCurrentUser func(userID int) bool

	// EvictWindow removes a window from the system during detach.
	EvictWindow func(*Window)

	// RequestTraversal schedules a layout/placement pass.
	RequestTraversal func()

	// SplitCreate returns the pending docked-creation state;
	// ClearSplitCreateBounds drops its explicit rectangle.
	SplitCreate            func() SplitCreate
	ClearSplitCreateBounds func()

	// MinimizeThickness is the strip left visible by a fully minimized
	// left- or right-docked stack.
	MinimizeThickness int

	// SnapFractions configures the divider snap calculator.
	SnapFractions []float64
}

// Stack owns the bounds of one window-group stack.
type Stack struct {
	id   int
	deps Deps

	display *display.Display
	tasks   []*Task // oldest at index 0, order mirrored by the lifecycle manager

	bounds     geometry.Rect
	fullscreen bool
	rotation   int // rotation bounds were last computed under

	// Adjustment engine state, see adjust.go.
	adjustedBounds    geometry.Rect
	pendingAdjusted   geometry.Rect
	lastContentBounds geometry.Rect
	adjustedForIme    bool
	imeSurface        InputSurface
	minimizeAmount    float64

	dragResizing bool

	// Bounds carried across a rotation until configuration settles.
	pendingRotation   bool
	preRotationBounds geometry.Rect

	backdrop      Backdrop
	backdropOwner *Window

	exiting []*ExitingToken

	// DeferDetach delays Detach until the current animation completes.
	DeferDetach bool
}

// New creates a detached stack. It becomes usable after Attach.
func New(id int, deps Deps) *Stack {
	if deps.Log == nil {
		deps.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if deps.Policy == nil {
		deps.Policy = &display.StaticPolicy{}
	}
	if deps.Registry == nil {
		deps.Registry = emptyRegistry{}
	}
	if deps.PostResize == nil {
		deps.PostResize = func(lifecycle.ResizeRequest) {}
	}
	if deps.IsCurrentUser == nil {
		deps.IsCurrentUser = func(int) bool { return true }
	}
	if deps.EvictWindow == nil {
		deps.EvictWindow = func(*Window) {}
	}
	if deps.RequestTraversal == nil {
		deps.RequestTraversal = func() {}
	}
	if deps.SplitCreate == nil {
		deps.SplitCreate = func() SplitCreate { return SplitCreate{} }
	}
	if deps.ClearSplitCreateBounds == nil {
		deps.ClearSplitCreateBounds = func() {}
	}
	s := &Stack{id: id, deps: deps, fullscreen: true}
	return s
}

type emptyRegistry struct{}

func (emptyRegistry) StackByID(int) *Stack { return nil }
func (emptyRegistry) Stacks() []*Stack     { return nil }

func (s *Stack) ID() int { return s.id }

// Display returns the display the stack is attached to, or nil.
func (s *Stack) Display() *display.Display { return s.display }

// Tasks returns the membership sequence, oldest first.
func (s *Stack) Tasks() []*Task { return s.tasks }

// SetBounds updates the stack bounds and the bounds of every member task.
// A nil stackBounds means fullscreen. configs, taskBounds and
// taskTempInsets are keyed by task id; a task without a configuration
// entry indicates desynchronization with the task-lifecycle manager and is
// skipped with an error log. Reports whether the stack bounds changed.
func (s *Stack) SetBounds(stackBounds *geometry.Rect, configs map[int]*TaskConfig,
	taskBounds map[int]*geometry.Rect, taskTempInsets map[int]*geometry.Rect) bool {

	if !s.setBounds(stackBounds) {
		return false
	}

	for i := len(s.tasks) - 1; i >= 0; i-- {
		task := s.tasks[i]
		cfg := configs[task.ID]
		if cfg == nil {
			s.deps.Log.Error("no configuration for task, mismatch with lifecycle manager",
				"stack", s.id, "task", task.ID)
			continue
		}
		if task.TwoFingerScrollMode() {
			// A panned non-resizeable task may no longer cover the stack
			// after the resize. Apply the new bounds, then re-apply the
			// scroll against them.
			task.Resize(taskBounds[task.ID], cfg, false)
			task.Scroll(task.Bounds())
		} else {
			task.Resize(taskBounds[task.ID], cfg, false)
			task.SetTempInsetBounds(taskTempInsets[task.ID])
		}
	}
	return true
}

func (s *Stack) setBounds(bounds *geometry.Rect) bool {
	oldFullscreen := s.fullscreen
	rotation := display.Rotation0
	if s.display != nil {
		rotation = s.display.Info().Rotation
		s.fullscreen = bounds == nil
		if s.fullscreen {
			logical := s.display.LogicalRect()
			bounds = &logical
		}
	}

	if bounds == nil {
		// Fullscreen needs a display to take bounds from.
		return false
	}
	if s.bounds == *bounds && oldFullscreen == s.fullscreen && s.rotation == rotation {
		return false
	}

	if s.display != nil {
		s.backdrop.SetBounds(*bounds)
	}

	s.bounds = *bounds
	s.rotation = rotation

	s.updateAdjustedBounds()
	return true
}

// RawBounds returns the unadjusted bounds, ignoring docked-stack
// visibility and active adjustments. Most callers want Bounds.
func (s *Stack) RawBounds() geometry.Rect { return s.bounds }

// RawFullscreen reports the stored fullscreen flag, ignoring docked-stack
// visibility. Most callers want IsFullscreen.
func (s *Stack) RawFullscreen() bool { return s.fullscreen }

// Rotation returns the rotation the bounds were last computed under.
func (s *Stack) Rotation() int { return s.rotation }

// useCurrentBounds reports whether the stored bounds can be handed out
// as-is. They cannot when they were shrunk to make room for a docked stack
// that is no longer visible.
func (s *Stack) useCurrentBounds() bool {
	if s.fullscreen || !ResizeableByDocked(s.id) || s.display == nil {
		return true
	}
	docked := s.deps.Registry.StackByID(DockedStackID)
	return docked != nil && docked.display == s.display && docked.Visible()
}

/// Bounds returns the effective bounds: the adjusted bounds while an
// adjustment is active, otherwise the raw bounds, or the full display
// rectangle when the docked sibling the bounds were shrunk for is hidden.
func (s *Stack) Bounds() geometry.Rect {
	if s.useCurrentBounds() {
		if !s.adjustedBounds.IsEmpty() {
			return s.adjustedBounds
		}
		return s.bounds
	}
	return s.display.LogicalRect()
}

/// IsFullscreen mirrors Bounds' hidden-docked fallback: a stack shrunk for
// a hidden docked sibling represents itself as fullscreen.
func (s *Stack) IsFullscreen() bool {
	if s.useCurrentBounds() {
		return s.fullscreen
	}
	return true
}

// AdjustedBounds returns the active adjustment override; empty when no
// adjustment is in effect.
func (s *Stack) AdjustedBounds() geometry.Rect { return s.adjustedBounds }

// UpdateDisplayInfo re-evaluates bounds after the display configuration
// changed. bounds, when non-nil, is applied directly; a fullscreen stack
// follows the display; any other stack defers to UpdateBoundsAfterRotation
// if the rotation changed, because the new configuration may not be fully
// settled yet.
func (s *Stack) UpdateDisplayInfo(bounds *geometry.Rect) {
	s.pendingRotation = false
	if s.display == nil {
		return
	}
	for i := len(s.tasks) - 1; i >= 0; i-- {
		s.tasks[i].UpdateDisplayInfo(s.display)
	}
	switch {
	case bounds != nil:
		s.setBounds(bounds)
	case s.fullscreen:
		s.setBounds(nil)
	default:
		s.pendingRotation = true
		s.preRotationBounds = s.bounds
		if s.rotation == s.display.Info().Rotation {
			b := s.preRotationBounds
			s.setBounds(&b)
		}
	}
}

// UpdateBoundsAfterRotation finishes the deferred part of a rotation once
// configuration has settled: it maps the carried bounds into the new
// coordinate space, corrects and re-snaps a docked stack, and posts the
// result to the task-lifecycle manager instead of applying it directly, so
// the layout lock and the manager's lock are never held together.
func (s *Stack) UpdateBoundsAfterRotation() {
	if !s.pendingRotation {
		return
	}
	s.pendingRotation = false

	newRotation := s.display.Info().Rotation
	r := s.display.RotateBounds(s.rotation, newRotation, s.preRotationBounds)
	if s.id == DockedStackID {
		r = s.repositionDockedAfterRotation(r)
		r = s.snapDockedAfterRotation(r)
	}
	s.preRotationBounds = r

	b := r
	s.deps.PostResize(lifecycle.ResizeRequest{StackID: s.id, Bounds: &b})
}

// repositionDockedAfterRotation translates the docked stack to the
// opposite display edge when the policy disallows the side the rotation
// left it on. Translation only, never a resize.
func (s *Stack) repositionDockedAfterRotation(r geometry.Rect) geometry.Rect {
	side := s.DockSideFor(r)
	if s.deps.Policy.DockSideAllowed(side) {
		return r
	}
	logical := s.display.LogicalRect()
	switch dock.InvertSide(side) {
	case dock.SideLeft:
		return r.Offset(-r.Left, 0)
	case dock.SideRight:
		return r.Offset(logical.Right-r.Right, 0)
	case dock.SideTop:
		return r.Offset(0, -r.Top)
	case dock.SideBottom:
		return r.Offset(0, logical.Bottom-r.Bottom)
	}
	return r
}

// snapDockedAfterRotation moves the docked bounds to the nearest
// non-dismissing divider target in the new orientation.
func (s *Stack) snapDockedAfterRotation(r geometry.Rect) geometry.Rect {
	info := s.display.Info()
	dividerSize := s.display.DividerWidth()
	side := s.DockSideFor(r)
	position := dock.PositionForBounds(r, side, dividerSize)

	insets := s.deps.Policy.StableInsets(info.Rotation, info.LogicalWidth, info.LogicalHeight)
	calc := snap.New(s.deps.SnapFractions, info.LogicalWidth, info.LogicalHeight,
		dividerSize, info.Portrait(), insets)
	target := calc.NonDismissingTargetFor(position)

	return dock.BoundsForPosition(target.Position, side, info.LogicalWidth, info.LogicalHeight, dividerSize)
}

// IsAnimating reports whether any member window is animating or still on
// screen for its exit animation.
func (s *Stack) IsAnimating() bool {
	for i := len(s.tasks) - 1; i >= 0; i-- {
		for _, w := range s.tasks[i].windows {
			if w.Animating || w.AnimatingExit {
				return true
			}
		}
	}
	return false
}

// AddTask puts a task at the top or bottom of the stack.
func (s *Stack) AddTask(task *Task, toTop bool) {
	s.addTask(task, toTop, task.ShowForAllUsers)
}

func (s *Stack) addTask(task *Task, toTop, showForAllUsers bool) {
	position := 0
	if toTop {
		position = len(s.tasks)
	}
	s.PositionTask(task, position, showForAllUsers)
}

// PositionTask inserts or moves a task to position, clamped so that tasks
// hidden from the current user always sit below every task that is shown.
func (s *Stack) PositionTask(task *Task, position int, showForAllUsers bool) {
	canShowTask := showForAllUsers || s.deps.IsCurrentUser(task.UserID)
	s.removeFromTasks(task)

	stackSize := len(s.tasks)
	minPosition := 0
	maxPosition := stackSize
	if canShowTask {
		minPosition = s.computeMinPosition(minPosition, stackSize)
	} else {
		maxPosition = s.computeMaxPosition(maxPosition)
	}
	position = min(max(position, minPosition), maxPosition)

	s.tasks = append(s.tasks, nil)
	copy(s.tasks[position+1:], s.tasks[position:])
	s.tasks[position] = task

	// Moving across stacks invalidates any scroll made in the old one.
	if task.stack != s {
		task.ResetScroll()
	}
	task.stack = s
	task.UpdateDisplayInfo(s.display)

	if position == len(s.tasks)-1 && s.display != nil {
		s.display.MoveStack(s.id, true)
	}
	s.deps.Log.Debug("position task", "stack", s.id, "task", task.ID, "position", position)
}

// computeMinPosition finds the lowest position a shown task may take: just
// above every task that cannot be shown.
func (s *Stack) computeMinPosition(minPosition, size int) int {
	for minPosition < size {
		t := s.tasks[minPosition]
		if t.ShowForAllUsers || s.deps.IsCurrentUser(t.UserID) {
			break
		}
		minPosition++
	}
	return minPosition
}

// computeMaxPosition finds the highest position a hidden task may take:
// just below every task that can be shown.
func (s *Stack) computeMaxPosition(maxPosition int) int {
	for maxPosition > 0 {
		t := s.tasks[maxPosition-1]
		if !(t.ShowForAllUsers || s.deps.IsCurrentUser(t.UserID)) {
			break
		}
		maxPosition--
	}
	return maxPosition
}

// MoveTaskToTop raises a task above its stack siblings.
func (s *Stack) MoveTaskToTop(task *Task) {
	s.removeFromTasks(task)
	s.AddTask(task, true)
}

// MoveTaskToBottom lowers a task below its stack siblings.
func (s *Stack) MoveTaskToBottom(task *Task) {
	s.removeFromTasks(task)
	s.AddTask(task, false)
}

// RemoveTask deletes a task from the stack. Removing the last task lowers
// the stack below its siblings. Exit-animation tokens referencing the task
// are purged.
func (s *Stack) RemoveTask(task *Task) {
	s.removeFromTasks(task)
	if s.display != nil {
		if len(s.tasks) == 0 {
			s.display.MoveStack(s.id, false)
		}
		s.display.RequestLayout()
	}
	for i := len(s.exiting) - 1; i >= 0; i-- {
		if s.exiting[i].TaskID == task.ID {
			s.exiting[i].Exiting = false
			if w := s.exiting[i].Window; w != nil {
				w.AnimatingExit = false
			}
			s.exiting = append(s.exiting[:i], s.exiting[i+1:]...)
		}
	}
}

func (s *Stack) removeFromTasks(task *Task) {
	for i, t := range s.tasks {
		if t == task {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return
		}
	}
}

// AddExitingToken records a window kept alive for its exit animation.
func (s *Stack) AddExitingToken(tok *ExitingToken) {
	tok.Exiting = true
	s.exiting = append(s.exiting, tok)
}

// ExitingTokens returns the pending exit-animation tokens.
func (s *Stack) ExitingTokens() []*ExitingToken { return s.exiting }

// Attach binds the stack to a display and computes its initial bounds: the
// split rectangle when the stack is docked or dock-adjacent to an existing
// docked stack, fullscreen otherwise. Attaching the docked stack resizes
// every dock-adjacent sibling to the complement region. Attach panics if
// the stack is already attached; that is a caller contract violation.
func (s *Stack) Attach(d *display.Display) {
	if s.display != nil {
		panic("stack: Attach: already attached to a display")
	}
	s.display = d
	d.AttachStack(s.id)

	var bounds *geometry.Rect
	docked := s.deps.Registry.StackByID(DockedStackID)
	if s.id == DockedStackID || (docked != nil && ResizeableByDocked(s.id)) {
		// A docked stack occupies a dedicated region, so it constrains
		// the initial size of every stack created while it exists.
		var dockedBounds geometry.Rect
		if docked != nil {
			dockedBounds = docked.RawBounds()
		}
		sc := s.deps.SplitCreate()
		b := s.splitBounds(s.id == DockedStackID, dockedBounds, sc.OnTopOrLeft, sc.Bounds)
		bounds = &b
	}

	s.UpdateDisplayInfo(bounds)

	if s.id == DockedStackID {
		s.resizeDockAdjacentStacks(false, s.bounds)
	}
}

// Detach evicts every member window, restores dock-adjacent siblings to
// fullscreen when this was the docked stack, and releases the display.
// A detached stack is never reattached; create a fresh one instead.
func (s *Stack) Detach() {
	evicted := false
	for i := len(s.tasks) - 1; i >= 0; i-- {
		for _, w := range s.tasks[i].windows {
			s.deps.EvictWindow(w)
			evicted = true
		}
	}
	if evicted {
		s.deps.RequestTraversal()
	}

	if s.id == DockedStackID {
		// Siblings were only shrunk to make room for this stack.
		s.resizeDockAdjacentStacks(true, geometry.Rect{})
	}

	if s.display != nil {
		s.display.DetachStack(s.id)
	}
	s.display = nil
	s.backdropOwner = nil
	s.backdrop.Hide()
}

// DockedSplitBounds returns the rectangle this stack should occupy given
// the current docked split. Panics when no docked stack is attached; that
// query is a caller contract violation. A hidden docked stack (unless
// ignoreVisibility) yields the full display rectangle, and an
// indeterminate dock side falls back to the last-known bounds with an
// error log.
func (s *Stack) DockedSplitBounds(ignoreVisibility bool) geometry.Rect {
	if (s.id != DockedStackID && !ResizeableByDocked(s.id)) || s.display == nil {
		return s.bounds
	}

	docked := s.deps.Registry.StackByID(DockedStackID)
	if docked == nil {
		panic("stack: DockedSplitBounds: no docked stack attached")
	}
	if !ignoreVisibility && !docked.Visible() {
		// The docked stack is mid-dismissal. Treat it as occupying no
		// space and let everyone have the whole display.
		return s.display.LogicalRect()
	}

	dockedSide := docked.DockSide()
	if dockedSide == dock.SideInvalid {
		s.deps.Log.Error("no valid dock side for docked stack", "stack", s.id)
		return s.bounds
	}

	var createBounds *geometry.Rect
	if s.id == DockedStackID {
		createBounds = s.deps.SplitCreate().Bounds
	}
	return s.splitBounds(s.id == DockedStackID, docked.RawBounds(), dockedSide.TopOrLeft(), createBounds)
}

func (s *Stack) splitBounds(isDocked bool, dockedBounds geometry.Rect, onTopOrLeft bool, createBounds *geometry.Rect) geometry.Rect {
	return dock.SplitBounds(dock.SplitParams{
		DisplayRect:     s.display.LogicalRect(),
		Docked:          isDocked,
		DockedBounds:    dockedBounds,
		CreateBounds:    createBounds,
		DividerWidth:    s.display.DividerWidth(),
		DockOnTopOrLeft: onTopOrLeft,
		MiddlePosition:  s.middleDividerPosition(),
	})
}

func (s *Stack) middleDividerPosition() int {
	info := s.display.Info()
	insets := s.deps.Policy.StableInsets(info.Rotation, info.LogicalWidth, info.LogicalHeight)
	calc := snap.New(s.deps.SnapFractions, info.LogicalWidth, info.LogicalHeight,
		s.display.DividerWidth(), info.Portrait(), insets)
	return calc.MiddleTarget().Position
}

// resizeDockAdjacentStacks posts an asynchronous resize for every
// dock-adjacent stack whose bounds differ from the target: fullscreen when
// the docked stack left, the complement region while it is present.
func (s *Stack) resizeDockAdjacentStacks(fullscreen bool, dockedBounds geometry.Rect) {
	target := s.display.LogicalRect()
	if !fullscreen {
		sc := s.deps.SplitCreate()
		target = s.splitBounds(false, dockedBounds, sc.OnTopOrLeft, nil)
	}

	for _, other := range s.deps.Registry.Stacks() {
		if !ResizeableByDocked(other.id) || other.bounds == target {
			continue
		}
		req := lifecycle.ResizeRequest{StackID: other.id, AllowWhileDocked: true}
		if !fullscreen {
			b := target
			req.Bounds = &b
		}
		s.deps.PostResize(req)
	}
}

// ResetDockedToMiddle drops any explicit creation rectangle and posts a
// resize moving the docked stack back to the middle divider target. Panics
// when called on a non-docked stack.
func (s *Stack) ResetDockedToMiddle() {
	if s.id != DockedStackID {
		panic("stack: ResetDockedToMiddle: not the docked stack")
	}
	s.deps.ClearSplitCreateBounds()
	b := s.DockedSplitBounds(true)
	s.deps.PostResize(lifecycle.ResizeRequest{StackID: DockedStackID, Bounds: &b, AllowWhileDocked: true})
}

// SwitchUser stable-partitions the membership for a new user context:
// tasks visible to the now-current user keep their relative order but move
// above every task that is not.
func (s *Stack) SwitchUser() {
	var hidden, shown []*Task
	for _, t := range s.tasks {
		if t.ShowForAllUsers || s.deps.IsCurrentUser(t.UserID) {
			shown = append(shown, t)
		} else {
			hidden = append(hidden, t)
		}
	}
	s.tasks = append(hidden, shown...)
}

// DockSide reports which display edge the stack is anchored to, or
// SideInvalid for stacks outside the docked split.
func (s *Stack) DockSide() dock.Side {
	return s.DockSideFor(s.bounds)
}

// DockSideFor derives the dock side for an arbitrary candidate rectangle:
// top or bottom in portrait, left or right in landscape, picked by which
// display edge the rectangle is closer to.
func (s *Stack) DockSideFor(bounds geometry.Rect) dock.Side {
	if s.id != DockedStackID && !ResizeableByDocked(s.id) {
		return dock.SideInvalid
	}
	if s.display == nil {
		return dock.SideInvalid
	}
	logical := s.display.LogicalRect()
	if s.display.Info().Portrait() {
		if bounds.Top-logical.Top <= logical.Bottom-bounds.Bottom {
			return dock.SideTop
		}
		return dock.SideBottom
	}
	if bounds.Left-logical.Left <= logical.Right-bounds.Right {
		return dock.SideLeft
	}
	return dock.SideRight
}

// Visible reports whether the stack shows anything: at least one
// non-hidden window, and not suppressed by the keyguard.
func (s *Stack) Visible() bool {
	if s.deps.Policy.KeyguardShowing() && !AllowedOverLockscreen(s.id) {
		return false
	}
	for i := len(s.tasks) - 1; i >= 0; i-- {
		if s.tasks[i].Visible() {
			return true
		}
	}
	return false
}

// VisibleForUser reports whether the stack is visible in the current user
// context, ignoring every other visibility aspect.
func (s *Stack) VisibleForUser() bool {
	for i := len(s.tasks) - 1; i >= 0; i-- {
		if s.tasks[i].VisibleForUser(s.deps.IsCurrentUser) {
			return true
		}
	}
	return false
}

// DragResizing reports whether an interactive resize is in progress.
func (s *Stack) DragResizing() bool { return s.dragResizing }

func (s *Stack) setDragResizing(resizing bool) {
	if s.dragResizing == resizing {
		return
	}
	s.dragResizing = resizing
	for i := len(s.tasks) - 1; i >= 0; i-- {
		s.tasks[i].ResetDragResizingChangeReported()
	}
}

// PrepareFreezingTaskBounds snapshots every member task's bounds ahead of
// a surface freeze.
func (s *Stack) PrepareFreezingTaskBounds() {
	for i := len(s.tasks) - 1; i >= 0; i-- {
		s.tasks[i].PrepareFreezingBounds()
	}
}

// SetAnimationBackground gives the backdrop to win if no window owns it or
// win sits at a lower layer than the current owner. color's alpha channel
// sets the backdrop opacity.
func (s *Stack) SetAnimationBackground(win *Window, color uint32) {
	if s.backdropOwner != nil && win.Layer >= s.backdropOwner.Layer {
		return
	}
	s.backdropOwner = win
	s.backdrop.Show(win.Layer-1, float64((color>>24)&0xff)/255)
}

// ResetAnimationBackground releases the backdrop.
func (s *Stack) ResetAnimationBackground() {
	s.backdropOwner = nil
	s.backdrop.Hide()
}

// AnimationBackdrop exposes the backdrop for diagnostics.
func (s *Stack) AnimationBackdrop() *Backdrop { return &s.backdrop }

// AnimatedBoundsUser is the capability set a bounds-animation driver needs
// from the entity whose bounds it animates.
type AnimatedBoundsUser interface {
	// SetSize proposes an intermediate rectangle. Reports whether the
	// animation may continue.
	SetSize(bounds geometry.Rect) bool
	OnAnimationStart()
	OnAnimationEnd()
	// MoveToFullscreen asks for the member tasks to migrate to the
	// fullscreen workspace stack.
	MoveToFullscreen()
	// FullscreenBounds is the target rectangle of a fullscreen animation.
	FullscreenBounds() geometry.Rect
}

var _ AnimatedBoundsUser = (*Stack)(nil)

// SetSize forwards an animated intermediate rectangle to the
// task-lifecycle manager, which is authoritative for animated bounds. A
// delivery failure is logged and swallowed; the animation driver has no
// synchronous recovery path.
func (s *Stack) SetSize(bounds geometry.Rect) bool {
	if s.display == nil {
		return false
	}
	if s.deps.Manager != nil {
		if err := s.deps.Manager.ResizeStack(s.id, &bounds, false, true, false); err != nil {
			s.deps.Log.Warn("animated resize not delivered", "stack", s.id, "error", err)
		}
	}
	return true
}

// OnAnimationStart marks the whole stack as drag-resizing.
func (s *Stack) OnAnimationStart() {
	s.setDragResizing(true)
}

// OnAnimationEnd clears the drag-resize state, requests a placement pass,
// and for the pinned stack reports the animation end to the task-lifecycle
// manager.
func (s *Stack) OnAnimationEnd() {
	s.setDragResizing(false)
	s.deps.RequestTraversal()
	if s.id == PinnedStackID && s.deps.Manager != nil {
		if err := s.deps.Manager.NotifyPinnedAnimationEnded(); err != nil {
			s.deps.Log.Warn("pinned animation end not delivered", "error", err)
		}
	}
}

// MoveToFullscreen migrates the member tasks to the fullscreen workspace
// stack via the task-lifecycle manager.
func (s *Stack) MoveToFullscreen() {
	if s.deps.Manager == nil {
		return
	}
	if err := s.deps.Manager.MoveTasksToFullscreenStack(s.id, true); err != nil {
		s.deps.Log.Warn("move to fullscreen not delivered", "stack", s.id, "error", err)
	}
}

// FullscreenBounds returns the display content rectangle.
func (s *Stack) FullscreenBounds() geometry.Rect {
	return s.display.ContentRect()
}
