package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/stackwm/internal/geometry"
	"github.com/1broseidon/stackwm/internal/lifecycle"
)

// ManagerClient speaks to the external task-lifecycle manager over its
// unix socket. It satisfies lifecycle.Manager so the engine never holds
// the layout lock across a manager call.
type ManagerClient struct {
	socketPath string
	timeout    time.Duration
}

var _ lifecycle.Manager = (*ManagerClient)(nil)

// NewManagerClient creates a client for the manager socket at path.
func NewManagerClient(socketPath string) *ManagerClient {
	return &ManagerClient{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

func (m *ManagerClient) send(req *Request) error {
	conn, err := net.DialTimeout("unix", m.socketPath, m.timeout)
	if err != nil {
		return fmt.Errorf("dial %s: %w", m.socketPath, lifecycle.ErrUnavailable)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(m.timeout)); err != nil {
		return fmt.Errorf("failed to set deadline: %w", err)
	}

	reqBytes, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	reqBytes = append(reqBytes, '\n')

	if _, err := conn.Write(reqBytes); err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}

	respBytes, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Status == "ERROR" {
		return fmt.Errorf("manager error: %s", resp.Error)
	}
	return nil
}

// ResizeStack asks the manager to resize a stack's tasks. Nil bounds
// means fullscreen.
func (m *ManagerClient) ResizeStack(stackID int, bounds *geometry.Rect, allowResizeWhileDocked, preserveWindows, animate bool) error {
	p := ManagerResizePayload{
		StackID:          stackID,
		AllowWhileDocked: allowResizeWhileDocked,
		PreserveWindows:  preserveWindows,
		Animate:          animate,
	}
	if bounds != nil {
		r := NewRectPayload(*bounds)
		p.Bounds = &r
	}
	payload, err := marshalPayload(p)
	if err != nil {
		return err
	}
	return m.send(&Request{Command: CommandManagerResizeStack, Payload: payload})
}

// MoveTasksToFullscreenStack asks the manager to migrate a stack's tasks
// to the fullscreen stack.
func (m *ManagerClient) MoveTasksToFullscreenStack(stackID int, onTop bool) error {
	payload, err := marshalPayload(ManagerMoveToFullPayload{StackID: stackID, OnTop: onTop})
	if err != nil {
		return err
	}
	return m.send(&Request{Command: CommandManagerMoveToFull, Payload: payload})
}

// NotifyPinnedAnimationEnded tells the manager the pinned stack finished
// its bounds animation.
func (m *ManagerClient) NotifyPinnedAnimationEnded() error {
	return m.send(&Request{Command: CommandManagerPinnedAnimEnded})
}
