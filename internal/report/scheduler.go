package report

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// RenderRequest is one call to the render backend: exactly one panel
// instance, its time range, pixel size, and the variable bindings in
// effect for it.
type RenderRequest struct {
	DashboardUID string

	PanelID  string
	From     string
	To       string
	Width    int
	Height   int
	Theme    string
	Timezone string
	// Variables are the scope bindings, ordered by name for a stable URL.
	Variables []VariablePair
}

// VariablePair is one variableName=value pair passed to the backend.
type VariablePair struct {
	Name  string
	Value string
}

// RenderBackend rasterizes a single panel instance into image bytes. It
// must honor ctx cancellation. Retries, if any, belong to the backend.
type RenderBackend interface {
	RenderPanel(ctx context.Context, req RenderRequest) ([]byte, error)
}

// FetchFunc fetches the image for one instance.
type FetchFunc func(ctx context.Context, inst RenderInstance) ([]byte, error)

// Scheduler fetches panel images under a bounded worker pool. Results are
// stored by submission index; progress is reported strictly in submission
// order even when fetches complete out of order.
type Scheduler struct {
	// Concurrency is the worker pool bound. Values below 1 act as 1.
	Concurrency int
	Fetch       FetchFunc
	Progress    ProgressFunc
}

// Run fetches every instance and returns the results in submission order.
// The first fetch failure (by completion order) cancels the remaining work
// and is returned; no partial results are surfaced. When ctx is cancelled
// the returned error is ctx.Err(), letting callers tell cancellation apart
// from failure.
func (s *Scheduler) Run(ctx context.Context, insts []RenderInstance) ([]RenderResult, error) {
	n := len(insts)
	if n == 0 {
		return nil, nil
	}

	limit := s.Concurrency
	if limit < 1 {
		limit = 1
	}
	if limit > n {
		limit = n
	}

	results := make([]RenderResult, n)

	var (
		next atomic.Int64 // next unclaimed task index

		mu        sync.Mutex
		completed = make([]bool, n)
		flushNext int // next index to announce
	)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < limit; w++ {
		g.Go(func() error {
			for {
				if err := gctx.Err(); err != nil {
					return err
				}
				i := int(next.Add(1)) - 1
				if i >= n {
					return nil
				}
				inst := insts[i]

				img, err := s.Fetch(gctx, inst)
				if err := gctx.Err(); err != nil {
					return err
				}
				if err != nil {
					return &RenderError{RenderID: inst.RenderID, Title: inst.Title, Err: err}
				}
				if len(img) == 0 {
					return &RenderError{RenderID: inst.RenderID, Title: inst.Title}
				}

				mu.Lock()
				results[i] = RenderResult{Title: inst.Title, Image: img}
				completed[i] = true
				// Announce the longest contiguous prefix of completed
				// tasks that has not been announced yet.
				for flushNext < n && completed[flushNext] {
					s.Progress.emit(fmt.Sprintf("Rendered panel %d/%d: %s", flushNext+1, n, insts[flushNext].Title))
					flushNext++
				}
				mu.Unlock()
			}
		})
	}

	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	return results, nil
}
