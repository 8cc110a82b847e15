// Package engine ties the layout core together: it owns the single layout
// lock, the display, the stack registry and the outbound resize queue.
// Every public method takes the lock; the stack and display packages
// assume it is held.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/1broseidon/stackwm/internal/config"
	"github.com/1broseidon/stackwm/internal/display"
	"github.com/1broseidon/stackwm/internal/dock"
	"github.com/1broseidon/stackwm/internal/geometry"
	"github.com/1broseidon/stackwm/internal/lifecycle"
	"github.com/1broseidon/stackwm/internal/stack"
)

// Engine is the layout authority for one display.
type Engine struct {
	mu  sync.Mutex
	log *slog.Logger
	cfg *config.Config

	manager  lifecycle.Manager
	notifier *lifecycle.Notifier

	display *display.Display
	policy  *display.StaticPolicy

	stacks      map[int]*stack.Stack
	splitCreate stack.SplitCreate
	currentUser int

	ime *imeState

	startTime time.Time
}

// imeState is the engine's view of the input surface, handed to stacks as
// their InputSurface.
type imeState struct {
	frame  geometry.Rect
	insets geometry.Insets
}

func (s *imeState) Frame() geometry.Rect           { return s.frame }
func (s *imeState) ContentInsets() geometry.Insets { return s.insets }

// New creates an engine without a display; AttachDisplay makes it usable.
func New(cfg *config.Config, manager lifecycle.Manager, log *slog.Logger) *Engine {
	e := &Engine{
		log:     log,
		cfg:     cfg,
		manager: manager,
		policy: &display.StaticPolicy{
			Insets:          cfg.StableInsets.Insets(),
			DisallowedSides: cfg.DisallowedDockSides(),
		},
		stacks:      map[int]*stack.Stack{},
		splitCreate: stack.SplitCreate{OnTopOrLeft: cfg.DockedCreateTopOrLeft},
		startTime:   time.Now(),
	}
	e.notifier = lifecycle.NewNotifier(manager, log, 0)
	return e
}

// Run drains the outbound resize queue until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) {
	e.notifier.Run(ctx)
}

// Flush synchronously delivers pending resize notifications. Used on
// shutdown and by tests.
func (e *Engine) Flush() {
	e.notifier.Drain()
}

// AttachDisplay installs the display the engine lays out. The stable
// insets come from the policy for the given rotation.
func (e *Engine) AttachDisplay(info display.Info) {
	e.mu.Lock()
	defer e.mu.Unlock()

	d := display.New(0, info, e.cfg.DividerWidth)
	d.SetStableInsets(e.policy.StableInsets(info.Rotation, info.LogicalWidth, info.LogicalHeight))
	e.display = d
	e.log.Info("display attached",
		"width", info.LogicalWidth, "height", info.LogicalHeight, "rotation", info.Rotation)
}

// Display returns the attached display, or nil.
func (e *Engine) Display() *display.Display {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.display
}

// StackByID is the registry lookup injected into stacks. The layout lock
// must already be held; stacks only call this from within engine
// operations.
func (e *Engine) StackByID(id int) *stack.Stack { return e.stacks[id] }

// Stacks returns the registered stacks ordered by id. Like StackByID it
// assumes the layout lock is already held.
func (e *Engine) Stacks() []*stack.Stack {
	ids := make([]int, 0, len(e.stacks))
	for id := range e.stacks {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]*stack.Stack, 0, len(ids))
	for _, id := range ids {
		out = append(out, e.stacks[id])
	}
	return out
}

func (e *Engine) stackDeps() stack.Deps {
	return stack.Deps{
		Registry:   e,
		Manager:    e.manager,
		Policy:     e.policy,
		Log:        e.log,
		PostResize: e.notifier.Post,
		IsCurrentUser: func(userID int) bool {
			return userID == e.currentUser
		},
		EvictWindow: func(w *stack.Window) {
			e.log.Debug("evicting window", "window", w.ID)
		},
		RequestTraversal: func() {
			if e.display != nil {
				e.display.RequestLayout()
			}
		},
		SplitCreate: func() stack.SplitCreate {
			return e.splitCreate
		},
		ClearSplitCreateBounds: func() {
			e.splitCreate.Bounds = nil
		},
		MinimizeThickness: e.cfg.MinimizeThickness,
		SnapFractions:     e.cfg.SnapFractions,
	}
}

// SetBaseInsets replaces the rotation-0 stable insets, normally sourced
// from live display struts instead of the configured values.
func (e *Engine) SetBaseInsets(in geometry.Insets) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.policy.Insets = in
	if e.display != nil {
		info := e.display.Info()
		e.display.SetStableInsets(e.policy.StableInsets(info.Rotation, info.LogicalWidth, info.LogicalHeight))
	}
}

// SetDockedCreateMode records where the next docked stack goes and an
// optional explicit rectangle for it.
func (e *Engine) SetDockedCreateMode(onTopOrLeft bool, bounds *geometry.Rect) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.splitCreate.OnTopOrLeft = onTopOrLeft
	e.splitCreate.Bounds = bounds
}

// CreateStack creates a stack and attaches it to the display.
func (e *Engine) CreateStack(id int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.display == nil {
		return fmt.Errorf("no display attached")
	}
	if _, ok := e.stacks[id]; ok {
		return fmt.Errorf("stack %d already exists", id)
	}

	s := stack.New(id, e.stackDeps())
	e.stacks[id] = s
	s.Attach(e.display)
	e.log.Info("stack created", "stack", id, "bounds", s.RawBounds(), "fullscreen", s.RawFullscreen())
	return nil
}

// RemoveStack detaches and forgets a stack.
func (e *Engine) RemoveStack(id int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.stacks[id]
	if !ok {
		return fmt.Errorf("no stack %d", id)
	}
	if s.IsAnimating() {
		// Keep the stack alive until its animation completes; the caller
		// retries after the animation-end callback.
		s.DeferDetach = true
		e.log.Info("stack removal deferred until animation ends", "stack", id)
		return nil
	}
	s.Detach()
	delete(e.stacks, id)
	e.log.Info("stack removed", "stack", id)
	return nil
}

// ResizeStack applies new bounds to a stack and fans them out to its
// tasks. nil bounds means fullscreen. Reports whether anything changed.
func (e *Engine) ResizeStack(id int, bounds *geometry.Rect) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.stacks[id]
	if !ok {
		return false, fmt.Errorf("no stack %d", id)
	}

	// The engine is its own task-configuration authority here: every
	// member task keeps its override and adopts the stack rectangle.
	configs := map[int]*stack.TaskConfig{}
	taskBounds := map[int]*geometry.Rect{}
	for _, t := range s.Tasks() {
		cfg := t.OverrideConfig
		configs[t.ID] = &cfg
		taskBounds[t.ID] = bounds
	}
	return s.SetBounds(bounds, configs, taskBounds, nil), nil
}

// RotateDisplay rotates the display to the given quarter-turn rotation,
// updates every stack's view of it, then runs the deferred
// after-rotation pass once all stacks have seen the new configuration.
func (e *Engine) RotateDisplay(rotation int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.display == nil {
		return fmt.Errorf("no display attached")
	}
	info := e.display.Info()
	if rotation == info.Rotation {
		return nil
	}

	delta := (rotation - info.Rotation + 4) % 4
	next := display.Info{
		LogicalWidth:  info.LogicalWidth,
		LogicalHeight: info.LogicalHeight,
		Rotation:      rotation,
	}
	if delta%2 == 1 {
		next.LogicalWidth, next.LogicalHeight = next.LogicalHeight, next.LogicalWidth
	}
	e.display.SetInfo(next)
	e.display.SetStableInsets(e.policy.StableInsets(rotation, next.LogicalWidth, next.LogicalHeight))

	for _, s := range e.Stacks() {
		s.UpdateDisplayInfo(nil)
	}
	// Deferred second phase: configuration is settled now that every
	// stack has the new display info.
	for _, s := range e.Stacks() {
		s.UpdateBoundsAfterRotation()
	}
	e.log.Info("display rotated", "rotation", rotation,
		"width", next.LogicalWidth, "height", next.LogicalHeight)
	return nil
}

// SetIME shows or hides the input surface. Top- and bottom-docked split
// stacks adjust around it while it is visible.
func (e *Engine) SetIME(visible bool, frame geometry.Rect, insets geometry.Insets) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.display == nil {
		return fmt.Errorf("no display attached")
	}

	if !visible {
		e.ime = nil
		for _, s := range e.Stacks() {
			if s.AdjustedForIme() {
				s.ClearImeAdjustment()
			}
		}
		return nil
	}

	e.ime = &imeState{frame: frame, insets: insets}
	for _, s := range e.Stacks() {
		side := s.DockSide()
		if side == dock.SideTop || side == dock.SideBottom {
			s.SetImeAdjustment(e.ime)
		}
	}
	return nil
}

// SetMinimized drives the minimize-dock animation on the docked stack.
// Reports whether a relayout is needed.
func (e *Engine) SetMinimized(amount float64) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if amount < 0 || amount > 1 {
		return false, fmt.Errorf("minimize amount %v out of range [0,1]", amount)
	}
	docked, ok := e.stacks[stack.DockedStackID]
	if !ok {
		return false, fmt.Errorf("no docked stack")
	}
	return docked.SetMinimizeAmount(amount), nil
}

// SwitchUser changes the active user context and repartitions every
// stack's membership for it.
func (e *Engine) SwitchUser(userID int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.currentUser = userID
	for _, s := range e.Stacks() {
		s.SwitchUser()
	}
	e.log.Info("switched user", "user", userID)
}

// AddTask creates a task in a stack. The task-lifecycle manager mirrors
// this membership; the engine only keeps the layout side.
func (e *Engine) AddTask(stackID int, task *stack.Task, toTop bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.stacks[stackID]
	if !ok {
		return fmt.Errorf("no stack %d", stackID)
	}
	s.AddTask(task, toTop)
	return nil
}

// Status is a snapshot of the engine for diagnostics.
type Status struct {
	DisplayWidth   int
	DisplayHeight  int
	Rotation       int
	StackCount     int
	DockedPresent  bool
	MinimizeAmount float64
	ImeVisible     bool
	CurrentUser    int
	UptimeSeconds  int64
}

// StackInfo is a per-stack snapshot for diagnostics.
type StackInfo struct {
	ID             int
	Fullscreen     bool
	Bounds         geometry.Rect
	RawBounds      geometry.Rect
	AdjustedBounds geometry.Rect
	TaskCount      int
	DockSide       string
	DragResizing   bool
}

// Status reports the engine snapshot.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := Status{
		StackCount:    len(e.stacks),
		CurrentUser:   e.currentUser,
		ImeVisible:    e.ime != nil,
		UptimeSeconds: int64(time.Since(e.startTime).Seconds()),
	}
	if e.display != nil {
		info := e.display.Info()
		st.DisplayWidth = info.LogicalWidth
		st.DisplayHeight = info.LogicalHeight
		st.Rotation = info.Rotation
	}
	if docked, ok := e.stacks[stack.DockedStackID]; ok {
		st.DockedPresent = true
		st.MinimizeAmount = docked.MinimizeAmount()
	}
	return st
}

// StackInfos reports per-stack snapshots ordered by id.
func (e *Engine) StackInfos() []StackInfo {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]StackInfo, 0, len(e.stacks))
	for _, s := range e.Stacks() {
		out = append(out, StackInfo{
			ID:             s.ID(),
			Fullscreen:     s.IsFullscreen(),
			Bounds:         s.Bounds(),
			RawBounds:      s.RawBounds(),
			AdjustedBounds: s.AdjustedBounds(),
			TaskCount:      len(s.Tasks()),
			DockSide:       s.DockSide().String(),
			DragResizing:   s.DragResizing(),
		})
	}
	return out
}

// DumpStack returns the deterministic diagnostic dump of one stack.
func (e *Engine) DumpStack(id int) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.stacks[id]
	if !ok {
		return "", fmt.Errorf("no stack %d", id)
	}
	var b strings.Builder
	s.Dump(&b, "")
	return b.String(), nil
}
