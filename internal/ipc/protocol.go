package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/stackwm/internal/geometry"
)

// CommandType represents different IPC command types
type CommandType string

// Commands served by the stackwm daemon.
const (
	CommandGetStatus     CommandType = "GET_STATUS"
	CommandGetStacks     CommandType = "GET_STACKS"
	CommandDumpStack     CommandType = "DUMP_STACK"
	CommandCreateStack   CommandType = "CREATE_STACK"
	CommandRemoveStack   CommandType = "REMOVE_STACK"
	CommandResizeStack   CommandType = "RESIZE_STACK"
	CommandRotateDisplay CommandType = "ROTATE_DISPLAY"
	CommandSetMinimized  CommandType = "SET_MINIMIZED"
	CommandSetIme        CommandType = "SET_IME"
	CommandSwitchUser    CommandType = "SWITCH_USER"
)

// Commands spoken to the external task-lifecycle manager's socket. Same
// wire shape, different listener.
const (
	CommandManagerResizeStack     CommandType = "MANAGER_RESIZE_STACK"
	CommandManagerMoveToFull      CommandType = "MANAGER_MOVE_TASKS_TO_FULLSCREEN"
	CommandManagerPinnedAnimEnded CommandType = "MANAGER_PINNED_ANIMATION_ENDED"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// RectPayload is a rectangle on the wire.
type RectPayload struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// Rect converts the payload to a geometry rectangle.
func (r RectPayload) Rect() geometry.Rect {
	return geometry.Rect{Left: r.Left, Top: r.Top, Right: r.Right, Bottom: r.Bottom}
}

// NewRectPayload converts a geometry rectangle to its wire form.
func NewRectPayload(r geometry.Rect) RectPayload {
	return RectPayload{Left: r.Left, Top: r.Top, Right: r.Right, Bottom: r.Bottom}
}

// InsetsPayload is an inset block on the wire.
type InsetsPayload struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// Insets converts the payload to geometry insets.
func (i InsetsPayload) Insets() geometry.Insets {
	return geometry.Insets{Left: i.Left, Top: i.Top, Right: i.Right, Bottom: i.Bottom}
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	DisplayWidth   int     `json:"display_width"`
	DisplayHeight  int     `json:"display_height"`
	Rotation       int     `json:"rotation"`
	StackCount     int     `json:"stack_count"`
	DockedPresent  bool    `json:"docked_present"`
	MinimizeAmount float64 `json:"minimize_amount"`
	ImeVisible     bool    `json:"ime_visible"`
	CurrentUser    int     `json:"current_user"`
	UptimeSeconds  int64   `json:"uptime_seconds"`
	DaemonRunning  bool    `json:"daemon_running"`
}

// StackInfo represents one stack in GET_STACKS
type StackInfo struct {
	ID             int         `json:"id"`
	Fullscreen     bool        `json:"fullscreen"`
	Bounds         RectPayload `json:"bounds"`
	RawBounds      RectPayload `json:"raw_bounds"`
	AdjustedBounds RectPayload `json:"adjusted_bounds"`
	TaskCount      int         `json:"task_count"`
	DockSide       string      `json:"dock_side"`
	DragResizing   bool        `json:"drag_resizing"`
}

// StacksData represents the data returned by GET_STACKS
type StacksData struct {
	Stacks []StackInfo `json:"stacks"`
}

// DumpData represents the data returned by DUMP_STACK
type DumpData struct {
	Dump string `json:"dump"`
}

// StackIDPayload addresses a single stack (DUMP_STACK, CREATE_STACK,
// REMOVE_STACK).
type StackIDPayload struct {
	StackID int `json:"stack_id"`
}

// ResizeStackPayload represents the payload for RESIZE_STACK. A nil
// Bounds means fullscreen.
type ResizeStackPayload struct {
	StackID int          `json:"stack_id"`
	Bounds  *RectPayload `json:"bounds,omitempty"`
}

// RotatePayload represents the payload for ROTATE_DISPLAY, in quarter
// turns (0-3).
type RotatePayload struct {
	Rotation int `json:"rotation"`
}

// SetMinimizedPayload represents the payload for SET_MINIMIZED.
type SetMinimizedPayload struct {
	Amount float64 `json:"amount"`
}

// SetImePayload represents the payload for SET_IME.
type SetImePayload struct {
	Visible bool          `json:"visible"`
	Frame   RectPayload   `json:"frame"`
	Insets  InsetsPayload `json:"insets"`
}

// SwitchUserPayload represents the payload for SWITCH_USER.
type SwitchUserPayload struct {
	UserID int `json:"user_id"`
}

// ManagerResizePayload represents the payload for MANAGER_RESIZE_STACK.
type ManagerResizePayload struct {
	StackID          int          `json:"stack_id"`
	Bounds           *RectPayload `json:"bounds,omitempty"`
	AllowWhileDocked bool         `json:"allow_while_docked"`
	PreserveWindows  bool         `json:"preserve_windows"`
	Animate          bool         `json:"animate"`
}

// ManagerMoveToFullPayload represents the payload for
// MANAGER_MOVE_TASKS_TO_FULLSCREEN.
type ManagerMoveToFullPayload struct {
	StackID int  `json:"stack_id"`
	OnTop   bool `json:"on_top"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
