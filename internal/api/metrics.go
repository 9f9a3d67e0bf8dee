package api

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rcourtman/dashreport/internal/report"
)

var (
	reportsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dashreport_reports_generated_total",
		Help: "Reports generated successfully.",
	})
	reportsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dashreport_reports_failed_total",
		Help: "Report runs that ended in an error.",
	})
	reportsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dashreport_reports_cancelled_total",
		Help: "Report runs cancelled by the caller.",
	})
	panelsRendered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dashreport_panels_rendered_total",
		Help: "Panel images fetched from the render backend.",
	})
	renderDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dashreport_panel_render_seconds",
		Help:    "Render backend latency per panel.",
		Buckets: prometheus.DefBuckets,
	})
)

// instrumentedBackend decorates a render backend with panel counters and
// latency observations.
type instrumentedBackend struct {
	next report.RenderBackend
}

func (b instrumentedBackend) RenderPanel(ctx context.Context, req report.RenderRequest) ([]byte, error) {
	start := time.Now()
	img, err := b.next.RenderPanel(ctx, req)
	renderDuration.Observe(time.Since(start).Seconds())
	if err == nil {
		panelsRendered.Inc()
	}
	return img, err
}
