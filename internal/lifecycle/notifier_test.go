package lifecycle

import (
	"io"
	"log/slog"
	"testing"

	"github.com/1broseidon/stackwm/internal/geometry"
)

type recordingManager struct {
	resizes []ResizeRequest
	err     error
}

func (m *recordingManager) ResizeStack(stackID int, bounds *geometry.Rect, allowResizeWhileDocked, preserveWindows, animate bool) error {
	m.resizes = append(m.resizes, ResizeRequest{StackID: stackID, Bounds: bounds, AllowWhileDocked: allowResizeWhileDocked})
	return m.err
}

func (m *recordingManager) MoveTasksToFullscreenStack(stackID int, onTop bool) error {
	return m.err
}

func (m *recordingManager) NotifyPinnedAnimationEnded() error {
	return m.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNotifierDeliversInOrder(t *testing.T) {
	mgr := &recordingManager{}
	n := NewNotifier(mgr, discardLogger(), 8)

	b1 := geometry.XYWH(0, 0, 100, 100)
	b2 := geometry.XYWH(0, 0, 200, 200)
	n.Post(ResizeRequest{StackID: 1, Bounds: &b1})
	n.Post(ResizeRequest{StackID: 1, Bounds: &b2, AllowWhileDocked: true})
	n.Post(ResizeRequest{StackID: 3, Bounds: nil})

	n.Drain()

	if len(mgr.resizes) != 3 {
		t.Fatalf("expected 3 deliveries, got %d", len(mgr.resizes))
	}
	if *mgr.resizes[0].Bounds != b1 || *mgr.resizes[1].Bounds != b2 {
		t.Fatalf("deliveries out of order: %v", mgr.resizes)
	}
	if !mgr.resizes[1].AllowWhileDocked {
		t.Fatalf("allow-while-docked flag lost in transit")
	}
	if mgr.resizes[2].Bounds != nil {
		t.Fatalf("nil bounds must survive as fullscreen request")
	}
}

func TestNotifierDropsWhenFull(t *testing.T) {
	mgr := &recordingManager{}
	n := NewNotifier(mgr, discardLogger(), 1)

	n.Post(ResizeRequest{StackID: 1})
	n.Post(ResizeRequest{StackID: 2}) // dropped, queue full
	n.Drain()

	if len(mgr.resizes) != 1 || mgr.resizes[0].StackID != 1 {
		t.Fatalf("expected only the first request delivered, got %v", mgr.resizes)
	}
}

func TestNotifierDeliveryFailureIsSwallowed(t *testing.T) {
	mgr := &recordingManager{err: ErrUnavailable}
	n := NewNotifier(mgr, discardLogger(), 4)

	n.Post(ResizeRequest{StackID: 1})
	n.Drain() // must not panic

	if len(mgr.resizes) != 1 {
		t.Fatalf("expected delivery attempt despite error")
	}
}
