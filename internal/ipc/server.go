package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"os"
	"sync"

	"github.com/1broseidon/stackwm/internal/engine"
	"github.com/1broseidon/stackwm/internal/geometry"
	"github.com/1broseidon/stackwm/internal/runtimepath"
)

// Server handles IPC requests over a unix socket and drives the layout
// engine.
type Server struct {
	socketPath string
	listener   net.Listener
	engine     *engine.Engine

	mu           sync.Mutex
	shuttingDown bool
}

// NewServer creates a new IPC server for the given engine.
func NewServer(eng *engine.Engine) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, err
	}
	return NewServerWithSocket(eng, socketPath)
}

// NewServerWithSocket creates a new IPC server on an explicit socket path.
func NewServerWithSocket(eng *engine.Engine, socketPath string) (*Server, error) {
	// Remove stale socket if it exists
	if err := os.Remove(socketPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to remove stale socket: %w", err)
	}

	return &Server{
		socketPath: socketPath,
		engine:     eng,
	}, nil
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to listen on socket: %w", err)
	}

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.listener = listener
	log.Printf("IPC server listening on %s", s.socketPath)

	go s.acceptLoop()
	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.mu.Lock()
			shuttingDown := s.shuttingDown
			s.mu.Unlock()
			if shuttingDown {
				return
			}
			log.Printf("Failed to accept connection: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection processes a single client connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	line, err := reader.ReadBytes('\n')
	if err != nil {
		log.Printf("Failed to read request: %v", err)
		return
	}

	req, err := ParseRequest(line)
	if err != nil {
		log.Printf("Failed to parse request: %v", err)
		s.sendError(conn, "invalid request format")
		return
	}

	resp := s.handleCommand(req)
	respBytes, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}

	respBytes = append(respBytes, '\n')
	if _, err := conn.Write(respBytes); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

// handleCommand dispatches a command to the appropriate handler
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetStacks:
		return s.handleGetStacks()
	case CommandDumpStack:
		return s.handleDumpStack(req.Payload)
	case CommandCreateStack:
		return s.handleCreateStack(req.Payload)
	case CommandRemoveStack:
		return s.handleRemoveStack(req.Payload)
	case CommandResizeStack:
		return s.handleResizeStack(req.Payload)
	case CommandRotateDisplay:
		return s.handleRotateDisplay(req.Payload)
	case CommandSetMinimized:
		return s.handleSetMinimized(req.Payload)
	case CommandSetIme:
		return s.handleSetIme(req.Payload)
	case CommandSwitchUser:
		return s.handleSwitchUser(req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("unknown command: %s", req.Command))
	}
}

func (s *Server) handleGetStatus() *Response {
	st := s.engine.Status()
	data := StatusData{
		DisplayWidth:   st.DisplayWidth,
		DisplayHeight:  st.DisplayHeight,
		Rotation:       st.Rotation,
		StackCount:     st.StackCount,
		DockedPresent:  st.DockedPresent,
		MinimizeAmount: st.MinimizeAmount,
		ImeVisible:     st.ImeVisible,
		CurrentUser:    st.CurrentUser,
		UptimeSeconds:  st.UptimeSeconds,
		DaemonRunning:  true,
	}

	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleGetStacks() *Response {
	infos := s.engine.StackInfos()
	data := StacksData{Stacks: make([]StackInfo, 0, len(infos))}
	for _, info := range infos {
		data.Stacks = append(data.Stacks, StackInfo{
			ID:             info.ID,
			Fullscreen:     info.Fullscreen,
			Bounds:         NewRectPayload(info.Bounds),
			RawBounds:      NewRectPayload(info.RawBounds),
			AdjustedBounds: NewRectPayload(info.AdjustedBounds),
			TaskCount:      info.TaskCount,
			DockSide:       info.DockSide,
			DragResizing:   info.DragResizing,
		})
	}

	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleDumpStack(payload json.RawMessage) *Response {
	var p StackIDPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse("invalid payload for DUMP_STACK")
	}

	dump, err := s.engine.DumpStack(p.StackID)
	if err != nil {
		return NewErrorResponse(err.Error())
	}

	resp, err := NewOKResponse(DumpData{Dump: dump})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleCreateStack(payload json.RawMessage) *Response {
	var p StackIDPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse("invalid payload for CREATE_STACK")
	}

	if err := s.engine.CreateStack(p.StackID); err != nil {
		return NewErrorResponse(err.Error())
	}

	resp, err := NewOKResponse(nil)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleRemoveStack(payload json.RawMessage) *Response {
	var p StackIDPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse("invalid payload for REMOVE_STACK")
	}

	if err := s.engine.RemoveStack(p.StackID); err != nil {
		return NewErrorResponse(err.Error())
	}

	resp, err := NewOKResponse(nil)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleResizeStack(payload json.RawMessage) *Response {
	var p ResizeStackPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse("invalid payload for RESIZE_STACK")
	}

	var bounds *geometry.Rect
	if p.Bounds != nil {
		r := p.Bounds.Rect()
		bounds = &r
	}

	changed, err := s.engine.ResizeStack(p.StackID, bounds)
	if err != nil {
		return NewErrorResponse(err.Error())
	}

	resp, err := NewOKResponse(map[string]bool{"changed": changed})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleRotateDisplay(payload json.RawMessage) *Response {
	var p RotatePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse("invalid payload for ROTATE_DISPLAY")
	}

	if err := s.engine.RotateDisplay(p.Rotation); err != nil {
		return NewErrorResponse(err.Error())
	}

	resp, err := NewOKResponse(nil)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleSetMinimized(payload json.RawMessage) *Response {
	var p SetMinimizedPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse("invalid payload for SET_MINIMIZED")
	}

	relayout, err := s.engine.SetMinimized(p.Amount)
	if err != nil {
		return NewErrorResponse(err.Error())
	}

	resp, err := NewOKResponse(map[string]bool{"relayout": relayout})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleSetIme(payload json.RawMessage) *Response {
	var p SetImePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse("invalid payload for SET_IME")
	}

	if err := s.engine.SetIME(p.Visible, p.Frame.Rect(), p.Insets.Insets()); err != nil {
		return NewErrorResponse(err.Error())
	}

	resp, err := NewOKResponse(nil)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleSwitchUser(payload json.RawMessage) *Response {
	var p SwitchUserPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse("invalid payload for SWITCH_USER")
	}

	s.engine.SwitchUser(p.UserID)

	resp, err := NewOKResponse(nil)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// sendError sends an error response to the connection
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	respBytes, err := resp.Marshal()
	if err != nil {
		return
	}
	respBytes = append(respBytes, '\n')
	conn.Write(respBytes)
}

// Stop shuts down the IPC server
func (s *Server) Stop() error {
	s.mu.Lock()
	s.shuttingDown = true
	s.mu.Unlock()

	if s.listener != nil {
		if err := s.listener.Close(); err != nil {
			return fmt.Errorf("failed to close listener: %w", err)
		}
	}

	if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove socket: %w", err)
	}

	return nil
}
