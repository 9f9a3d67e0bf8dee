package report

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingDashboard indicates no dashboard identifier could be
	// resolved from the caller's input.
	ErrMissingDashboard = errors.New("no dashboard specified")

	// ErrEmptyPanelSet indicates flattening produced zero renderable
	// panel instances.
	ErrEmptyPanelSet = errors.New("dashboard contains no renderable panels")
)

// RenderError wraps the first render-backend failure of a run. An empty
// image payload counts as a failure the same as a transport error.
type RenderError struct {
	RenderID string
	Title    string
	Err      error
}

func (e *RenderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("rendering panel %s (%s) returned no image data", e.RenderID, e.Title)
	}
	return fmt.Sprintf("rendering panel %s (%s): %v", e.RenderID, e.Title, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
