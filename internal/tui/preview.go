package tui

import (
	"fmt"
	"strings"

	"github.com/1broseidon/stackwm/internal/ipc"
)

// renderStackPreview draws the stacks' effective bounds scaled onto a
// character canvas framed by the display outline.
func renderStackPreview(stacks []ipc.StackInfo, displayW, displayH, width, height int) string {
	if displayW <= 0 || displayH <= 0 || width < 5 || height < 3 {
		return ""
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	// Fullscreen stacks cover the whole frame; draw them first so split
	// stacks stay readable on top.
	for _, s := range stacks {
		if s.Fullscreen {
			drawStack(canvas, s, displayW, displayH, width, height)
		}
	}
	for _, s := range stacks {
		if !s.Fullscreen {
			drawStack(canvas, s, displayW, displayH, width, height)
		}
	}

	drawDisplayBorder(canvas, width, height)

	lines := make([]string, height)
	for i, row := range canvas {
		lines[i] = string(row)
	}
	return strings.Join(lines, "\n")
}

func drawStack(canvas [][]rune, s ipc.StackInfo, displayW, displayH, canvasW, canvasH int) {
	r := s.Bounds.Rect()
	if r.IsEmpty() {
		return
	}

	x1 := r.Left * canvasW / displayW
	y1 := r.Top * canvasH / displayH
	x2 := r.Right * canvasW / displayW
	y2 := r.Bottom * canvasH / displayH

	// Clamp inside the display border
	if x1 < 1 {
		x1 = 1
	}
	if y1 < 1 {
		y1 = 1
	}
	if x2 >= canvasW-1 {
		x2 = canvasW - 2
	}
	if y2 >= canvasH-1 {
		y2 = canvasH - 2
	}
	if x2 <= x1 || y2 <= y1 {
		return
	}

	for x := x1; x <= x2; x++ {
		canvas[y1][x] = '─'
		canvas[y2][x] = '─'
	}
	for y := y1; y <= y2; y++ {
		canvas[y][x1] = '│'
		canvas[y][x2] = '│'
	}
	canvas[y1][x1] = '┌'
	canvas[y1][x2] = '┐'
	canvas[y2][x1] = '└'
	canvas[y2][x2] = '┘'

	label := fmt.Sprintf("%d", s.ID)
	if s.DockSide != "invalid" {
		label += " " + s.DockSide
	}
	centerY := (y1 + y2) / 2
	startX := (x1+x2)/2 - len(label)/2
	for i, ch := range label {
		x := startX + i
		if centerY > y1 && centerY < y2 && x > x1 && x < x2 {
			canvas[centerY][x] = ch
		}
	}
}

func drawDisplayBorder(canvas [][]rune, width, height int) {
	for x := 0; x < width; x++ {
		canvas[0][x] = '═'
		canvas[height-1][x] = '═'
	}
	for y := 0; y < height; y++ {
		canvas[y][0] = '║'
		canvas[y][width-1] = '║'
	}
	canvas[0][0] = '╔'
	canvas[0][width-1] = '╗'
	canvas[height-1][0] = '╚'
	canvas[height-1][width-1] = '╝'
}
