package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/stackwm/internal/geometry"
)

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, GetStatusOutput, error) {
	st, err := s.client.GetStatus()
	if err != nil {
		return nil, GetStatusOutput{}, err
	}
	return nil, GetStatusOutput{
		DisplayWidth:   st.DisplayWidth,
		DisplayHeight:  st.DisplayHeight,
		Rotation:       st.Rotation,
		StackCount:     st.StackCount,
		DockedPresent:  st.DockedPresent,
		MinimizeAmount: st.MinimizeAmount,
		ImeVisible:     st.ImeVisible,
		CurrentUser:    st.CurrentUser,
		UptimeSeconds:  st.UptimeSeconds,
	}, nil
}

func (s *Server) handleListStacks(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListStacksInput) (*mcpsdk.CallToolResult, ListStacksOutput, error) {
	infos, err := s.client.GetStacks()
	if err != nil {
		return nil, ListStacksOutput{}, err
	}

	out := ListStacksOutput{Stacks: make([]StackEntry, 0, len(infos))}
	for _, info := range infos {
		entry := StackEntry{
			ID:           info.ID,
			Fullscreen:   info.Fullscreen,
			Bounds:       info.Bounds.Rect().String(),
			RawBounds:    info.RawBounds.Rect().String(),
			TaskCount:    info.TaskCount,
			DockSide:     info.DockSide,
			DragResizing: info.DragResizing,
		}
		if adjusted := info.AdjustedBounds.Rect(); !adjusted.IsEmpty() {
			entry.AdjustedBounds = adjusted.String()
		}
		out.Stacks = append(out.Stacks, entry)
	}
	return nil, out, nil
}

func (s *Server) handleDumpStack(_ context.Context, _ *mcpsdk.CallToolRequest, args DumpStackInput) (*mcpsdk.CallToolResult, DumpStackOutput, error) {
	dump, err := s.client.DumpStack(args.StackID)
	if err != nil {
		return nil, DumpStackOutput{}, err
	}
	return nil, DumpStackOutput{Dump: dump}, nil
}

func (s *Server) handleCreateStack(_ context.Context, _ *mcpsdk.CallToolRequest, args CreateStackInput) (*mcpsdk.CallToolResult, CreateStackOutput, error) {
	if err := s.client.CreateStack(args.StackID); err != nil {
		return nil, CreateStackOutput{}, err
	}
	return nil, CreateStackOutput{StackID: args.StackID}, nil
}

func (s *Server) handleRemoveStack(_ context.Context, _ *mcpsdk.CallToolRequest, args RemoveStackInput) (*mcpsdk.CallToolResult, RemoveStackOutput, error) {
	if err := s.client.RemoveStack(args.StackID); err != nil {
		return nil, RemoveStackOutput{}, err
	}
	return nil, RemoveStackOutput{StackID: args.StackID, Removed: true}, nil
}

func (s *Server) handleResizeStack(_ context.Context, _ *mcpsdk.CallToolRequest, args ResizeStackInput) (*mcpsdk.CallToolResult, ResizeStackOutput, error) {
	var bounds *geometry.Rect
	edges := []*int{args.Left, args.Top, args.Right, args.Bottom}
	given := 0
	for _, e := range edges {
		if e != nil {
			given++
		}
	}
	switch given {
	case 0:
		// Fullscreen request.
	case 4:
		bounds = &geometry.Rect{
			Left: *args.Left, Top: *args.Top,
			Right: *args.Right, Bottom: *args.Bottom,
		}
	default:
		return nil, ResizeStackOutput{}, fmt.Errorf("resize_stack needs either all four edges or none, got %d", given)
	}

	changed, err := s.client.ResizeStack(args.StackID, bounds)
	if err != nil {
		return nil, ResizeStackOutput{}, err
	}
	return nil, ResizeStackOutput{Changed: changed}, nil
}

func (s *Server) handleRotateDisplay(_ context.Context, _ *mcpsdk.CallToolRequest, args RotateDisplayInput) (*mcpsdk.CallToolResult, RotateDisplayOutput, error) {
	if args.Rotation < 0 || args.Rotation > 3 {
		return nil, RotateDisplayOutput{}, fmt.Errorf("rotation %d out of range [0,3]", args.Rotation)
	}
	if err := s.client.RotateDisplay(args.Rotation); err != nil {
		return nil, RotateDisplayOutput{}, err
	}
	return nil, RotateDisplayOutput{Rotation: args.Rotation}, nil
}

func (s *Server) handleSetMinimized(_ context.Context, _ *mcpsdk.CallToolRequest, args SetMinimizedInput) (*mcpsdk.CallToolResult, SetMinimizedOutput, error) {
	relayout, err := s.client.SetMinimized(args.Amount)
	if err != nil {
		return nil, SetMinimizedOutput{}, err
	}
	return nil, SetMinimizedOutput{Relayout: relayout}, nil
}
