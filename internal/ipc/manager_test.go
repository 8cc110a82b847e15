package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"net"
	"path/filepath"
	"testing"

	"github.com/1broseidon/stackwm/internal/geometry"
	"github.com/1broseidon/stackwm/internal/lifecycle"
)

// fakeManagerSocket accepts one connection at a time and records the
// requests it saw, answering each with OK.
func fakeManagerSocket(t *testing.T) (string, <-chan Request) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mgr.sock")
	ln, err := net.Listen("unix", path)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	seen := make(chan Request, 8)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			line, err := bufio.NewReader(conn).ReadBytes('\n')
			if err == nil {
				var req Request
				if json.Unmarshal(line, &req) == nil {
					seen <- req
				}
				resp, _ := NewOKResponse(nil)
				out, _ := resp.Marshal()
				conn.Write(append(out, '\n'))
			}
			conn.Close()
		}
	}()
	return path, seen
}

func TestManagerClientResizeStack(t *testing.T) {
	path, seen := fakeManagerSocket(t)
	mc := NewManagerClient(path)

	bounds := geometry.Rect{Left: 0, Top: 0, Right: 950, Bottom: 1080}
	if err := mc.ResizeStack(1, &bounds, true, true, false); err != nil {
		t.Fatalf("ResizeStack: %v", err)
	}

	req := <-seen
	if req.Command != CommandManagerResizeStack {
		t.Fatalf("command = %q", req.Command)
	}
	var p ManagerResizePayload
	if err := json.Unmarshal(req.Payload, &p); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if p.StackID != 1 || !p.AllowWhileDocked || !p.PreserveWindows || p.Animate {
		t.Fatalf("payload = %+v", p)
	}
	if p.Bounds == nil || p.Bounds.Rect() != bounds {
		t.Fatalf("bounds = %+v", p.Bounds)
	}
}

func TestManagerClientFullscreenResizeOmitsBounds(t *testing.T) {
	path, seen := fakeManagerSocket(t)
	mc := NewManagerClient(path)

	if err := mc.ResizeStack(1, nil, false, true, false); err != nil {
		t.Fatalf("ResizeStack: %v", err)
	}

	var p ManagerResizePayload
	req := <-seen
	if err := json.Unmarshal(req.Payload, &p); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if p.Bounds != nil {
		t.Fatalf("expected nil bounds, got %+v", p.Bounds)
	}
}

func TestManagerClientUnavailable(t *testing.T) {
	mc := NewManagerClient(filepath.Join(t.TempDir(), "absent.sock"))
	err := mc.ResizeStack(1, nil, false, true, false)
	if !errors.Is(err, lifecycle.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestManagerClientPinnedAnimationEnded(t *testing.T) {
	path, seen := fakeManagerSocket(t)
	mc := NewManagerClient(path)

	if err := mc.NotifyPinnedAnimationEnded(); err != nil {
		t.Fatalf("NotifyPinnedAnimationEnded: %v", err)
	}
	if req := <-seen; req.Command != CommandManagerPinnedAnimEnded {
		t.Fatalf("command = %q", req.Command)
	}
}
