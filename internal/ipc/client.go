package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/stackwm/internal/geometry"
	"github.com/1broseidon/stackwm/internal/runtimepath"
)

// Client is used to send IPC requests to the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client on the standard socket path.
func NewClient() (*Client, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, err
	}
	return NewClientWithSocket(socketPath), nil
}

// NewClientWithSocket creates a new IPC client on an explicit socket path.
func NewClientWithSocket(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon (is it running?): %w", err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return nil, fmt.Errorf("failed to set deadline: %w", err)
	}

	reqBytes, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	reqBytes = append(reqBytes, '\n')

	if _, err := conn.Write(reqBytes); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respBytes, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

func marshalPayload(payload interface{}) (json.RawMessage, error) {
	bytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return bytes, nil
}

// GetStatus retrieves the daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetStatus})
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}
	return &status, nil
}

// GetStacks retrieves the per-stack snapshots
func (c *Client) GetStacks() ([]StackInfo, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetStacks})
	if err != nil {
		return nil, err
	}

	var data StacksData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse stacks data: %w", err)
	}
	return data.Stacks, nil
}

// DumpStack retrieves the diagnostic dump of one stack
func (c *Client) DumpStack(stackID int) (string, error) {
	payload, err := marshalPayload(StackIDPayload{StackID: stackID})
	if err != nil {
		return "", err
	}

	resp, err := c.sendRequest(&Request{Command: CommandDumpStack, Payload: payload})
	if err != nil {
		return "", err
	}

	var data DumpData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return "", fmt.Errorf("failed to parse dump data: %w", err)
	}
	return data.Dump, nil
}

// CreateStack creates and attaches a stack
func (c *Client) CreateStack(stackID int) error {
	payload, err := marshalPayload(StackIDPayload{StackID: stackID})
	if err != nil {
		return err
	}

	_, err = c.sendRequest(&Request{Command: CommandCreateStack, Payload: payload})
	return err
}

// RemoveStack detaches and removes a stack
func (c *Client) RemoveStack(stackID int) error {
	payload, err := marshalPayload(StackIDPayload{StackID: stackID})
	if err != nil {
		return err
	}

	_, err = c.sendRequest(&Request{Command: CommandRemoveStack, Payload: payload})
	return err
}

// ResizeStack resizes a stack. Nil bounds means fullscreen. Returns
// whether the layout changed.
func (c *Client) ResizeStack(stackID int, bounds *geometry.Rect) (bool, error) {
	p := ResizeStackPayload{StackID: stackID}
	if bounds != nil {
		r := NewRectPayload(*bounds)
		p.Bounds = &r
	}
	payload, err := marshalPayload(p)
	if err != nil {
		return false, err
	}

	resp, err := c.sendRequest(&Request{Command: CommandResizeStack, Payload: payload})
	if err != nil {
		return false, err
	}

	var data map[string]bool
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return false, fmt.Errorf("failed to parse resize data: %w", err)
	}
	return data["changed"], nil
}

// RotateDisplay rotates the display to the given quarter turn (0-3)
func (c *Client) RotateDisplay(rotation int) error {
	payload, err := marshalPayload(RotatePayload{Rotation: rotation})
	if err != nil {
		return err
	}

	_, err = c.sendRequest(&Request{Command: CommandRotateDisplay, Payload: payload})
	return err
}

// SetMinimized sets the docked stack minimize amount. Returns whether a
// relayout is needed.
func (c *Client) SetMinimized(amount float64) (bool, error) {
	payload, err := marshalPayload(SetMinimizedPayload{Amount: amount})
	if err != nil {
		return false, err
	}

	resp, err := c.sendRequest(&Request{Command: CommandSetMinimized, Payload: payload})
	if err != nil {
		return false, err
	}

	var data map[string]bool
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return false, fmt.Errorf("failed to parse minimize data: %w", err)
	}
	return data["relayout"], nil
}

// SetIme reports input-surface visibility to the daemon
func (c *Client) SetIme(visible bool, frame geometry.Rect, insets geometry.Insets) error {
	p := SetImePayload{
		Visible: visible,
		Frame:   NewRectPayload(frame),
		Insets: InsetsPayload{
			Left: insets.Left, Top: insets.Top,
			Right: insets.Right, Bottom: insets.Bottom,
		},
	}
	payload, err := marshalPayload(p)
	if err != nil {
		return err
	}

	_, err = c.sendRequest(&Request{Command: CommandSetIme, Payload: payload})
	return err
}

// SwitchUser changes the current user
func (c *Client) SwitchUser(userID int) error {
	payload, err := marshalPayload(SwitchUserPayload{UserID: userID})
	if err != nil {
		return err
	}

	_, err = c.sendRequest(&Request{Command: CommandSwitchUser, Payload: payload})
	return err
}

// Ping checks if the daemon is running
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
