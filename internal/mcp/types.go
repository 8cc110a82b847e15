package mcp

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// GetStatusOutput is the output for the get_status tool.
type GetStatusOutput struct {
	DisplayWidth   int     `json:"display_width"`
	DisplayHeight  int     `json:"display_height"`
	Rotation       int     `json:"rotation"`
	StackCount     int     `json:"stack_count"`
	DockedPresent  bool    `json:"docked_present"`
	MinimizeAmount float64 `json:"minimize_amount"`
	ImeVisible     bool    `json:"ime_visible"`
	CurrentUser    int     `json:"current_user"`
	UptimeSeconds  int64   `json:"uptime_seconds"`
}

// ListStacksInput is the input for the list_stacks tool.
type ListStacksInput struct{}

// StackEntry describes a single stack in list_stacks output.
type StackEntry struct {
	ID             int    `json:"id"`
	Fullscreen     bool   `json:"fullscreen"`
	Bounds         string `json:"bounds"`
	RawBounds      string `json:"raw_bounds"`
	AdjustedBounds string `json:"adjusted_bounds,omitempty"`
	TaskCount      int    `json:"task_count"`
	DockSide       string `json:"dock_side"`
	DragResizing   bool   `json:"drag_resizing"`
}

// ListStacksOutput is the output for the list_stacks tool.
type ListStacksOutput struct {
	Stacks []StackEntry `json:"stacks"`
}

// DumpStackInput is the input for the dump_stack tool.
type DumpStackInput struct {
	StackID int `json:"stack_id" jsonschema:"required,Stack id to dump (0=home 1=fullscreen 2=freeform 3=docked 4=pinned)"`
}

// DumpStackOutput is the output for the dump_stack tool.
type DumpStackOutput struct {
	Dump string `json:"dump"`
}

// ResizeStackInput is the input for the resize_stack tool.
type ResizeStackInput struct {
	StackID int  `json:"stack_id" jsonschema:"required,Stack id to resize"`
	Left    *int `json:"left,omitempty" jsonschema:"Left edge; omit all four edges to make the stack fullscreen"`
	Top     *int `json:"top,omitempty" jsonschema:"Top edge"`
	Right   *int `json:"right,omitempty" jsonschema:"Right edge"`
	Bottom  *int `json:"bottom,omitempty" jsonschema:"Bottom edge"`
}

// ResizeStackOutput is the output for the resize_stack tool.
type ResizeStackOutput struct {
	Changed bool `json:"changed"`
}

// RotateDisplayInput is the input for the rotate_display tool.
type RotateDisplayInput struct {
	Rotation int `json:"rotation" jsonschema:"required,Target rotation in quarter turns (0-3)"`
}

// RotateDisplayOutput is the output for the rotate_display tool.
type RotateDisplayOutput struct {
	Rotation int `json:"rotation"`
}

// SetMinimizedInput is the input for the set_minimized tool.
type SetMinimizedInput struct {
	Amount float64 `json:"amount" jsonschema:"required,Minimize progress for the docked stack between 0 (restored) and 1 (minimized)"`
}

// SetMinimizedOutput is the output for the set_minimized tool.
type SetMinimizedOutput struct {
	Relayout bool `json:"relayout"`
}

// CreateStackInput is the input for the create_stack tool.
type CreateStackInput struct {
	StackID int `json:"stack_id" jsonschema:"required,Stack id to create (0=home 1=fullscreen 2=freeform 3=docked 4=pinned, 5+ dynamic)"`
}

// CreateStackOutput is the output for the create_stack tool.
type CreateStackOutput struct {
	StackID int `json:"stack_id"`
}

// RemoveStackInput is the input for the remove_stack tool.
type RemoveStackInput struct {
	StackID int `json:"stack_id" jsonschema:"required,Stack id to remove"`
}

// RemoveStackOutput is the output for the remove_stack tool.
type RemoveStackOutput struct {
	StackID int  `json:"stack_id"`
	Removed bool `json:"removed"`
}
