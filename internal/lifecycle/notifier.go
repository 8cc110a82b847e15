package lifecycle

import (
	"context"
	"log/slog"
)

const defaultQueueDepth = 256

// Notifier delivers resize requests to the task-lifecycle manager from a
// separate goroutine, in the order they were posted. Posting never blocks
// and never takes the manager's lock, which keeps the layout lock and the
// manager's lock from ever being held together.
type Notifier struct {
	mgr Manager
	log *slog.Logger
	ch  chan ResizeRequest
}

// NewNotifier creates a notifier delivering to mgr. depth <= 0 selects the
// default queue depth.
func NewNotifier(mgr Manager, log *slog.Logger, depth int) *Notifier {
	if depth <= 0 {
		depth = defaultQueueDepth
	}
	return &Notifier{
		mgr: mgr,
		log: log,
		ch:  make(chan ResizeRequest, depth),
	}
}

// Post enqueues a resize request. If the queue is full the request is
// dropped with a log entry; the manager applies last-received state per
// stack, so a later request supersedes the dropped one.
func (n *Notifier) Post(req ResizeRequest) {
	select {
	case n.ch <- req:
	default:
		n.log.Warn("resize queue full, dropping notification",
			"stack", req.StackID, "bounds", req.Bounds)
	}
}

// Run drains the queue until ctx is cancelled. Delivery failures are
// logged and otherwise ignored; the poster has no synchronous recovery
// path.
func (n *Notifier) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-n.ch:
			n.deliver(req)
		}
	}
}

// Drain synchronously delivers everything currently queued. Used by tests
// and by shutdown to flush pending notifications.
func (n *Notifier) Drain() {
	for {
		select {
		case req := <-n.ch:
			n.deliver(req)
		default:
			return
		}
	}
}

func (n *Notifier) deliver(req ResizeRequest) {
	err := n.mgr.ResizeStack(req.StackID, req.Bounds, req.AllowWhileDocked, true, false)
	if err != nil {
		n.log.Warn("resize notification failed",
			"stack", req.StackID, "error", err)
	}
}
