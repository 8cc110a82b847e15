package stack

import (
	"fmt"
	"io"
)

// Dump writes a deterministic diagnostic report of the stack: identity and
// bounds state, every member task top-down, the animation backdrop if it
// is dimming, and any pending exit-animation tokens.
func (s *Stack) Dump(w io.Writer, prefix string) {
	fmt.Fprintf(w, "%sid=%d\n", prefix, s.id)
	fmt.Fprintf(w, "%sdeferDetach=%v\n", prefix, s.DeferDetach)
	fmt.Fprintf(w, "%sfullscreen=%v\n", prefix, s.fullscreen)
	fmt.Fprintf(w, "%sbounds=%s\n", prefix, s.bounds)
	if !s.adjustedBounds.IsEmpty() {
		fmt.Fprintf(w, "%sadjustedBounds=%s\n", prefix, s.adjustedBounds)
	}
	if s.minimizeAmount != 0 {
		fmt.Fprintf(w, "%sminimizeAmount=%.2f\n", prefix, s.minimizeAmount)
	}
	for i := len(s.tasks) - 1; i >= 0; i-- {
		s.tasks[i].Dump(w, prefix+"  ")
	}
	if s.backdrop.Dimming() {
		fmt.Fprintf(w, "%sanimationBackdrop: layer=%d alpha=%.2f bounds=%s\n",
			prefix, s.backdrop.Layer(), s.backdrop.Alpha(), s.backdrop.Bounds())
	}
	if len(s.exiting) > 0 {
		fmt.Fprintf(w, "%sexiting tokens:\n", prefix)
		for i := len(s.exiting) - 1; i >= 0; i-- {
			tok := s.exiting[i]
			fmt.Fprintf(w, "%s  #%d task=%d exiting=%v\n", prefix, i, tok.TaskID, tok.Exiting)
		}
	}
}
