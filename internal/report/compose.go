package report

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"path/filepath"
	"sort"
	"time"
)

// Canvas is the external document collaborator the driver paints on. Any
// implementation offering page management, image placement, and positioned
// text satisfies the engine; the production one wraps fpdf.
type Canvas interface {
	AddPage()
	// PageSize reports the current page dimensions in document units.
	PageSize() (w, h float64)
	SetFont(family, style string, size float64)
	SetTextColor(r, g, b int)
	// Text draws a single line anchored at (x, y) with the given
	// horizontal alignment relative to the anchor.
	Text(x, y float64, text string, align Align)
	// Image places image bytes into the given rectangle.
	Image(data []byte, x, y, w, h float64)
	Save(path string) error
}

// CanvasFactory opens a new empty document with the given page
// orientation ("P" or "L").
type CanvasFactory func(orientation string) Canvas

// Generator sequences the full report pipeline: tree normalization,
// repeat expansion, concurrent image fetching, layout, and composition
// onto the canvas.
type Generator struct {
	Backend   RenderBackend
	Settings  *Settings
	Progress  ProgressFunc
	NewCanvas CanvasFactory
	OutputDir string

	// Concurrency bounds the render fetch pool. Values below 1 act as 1.
	Concurrency int

	// now is a test hook.
	now func() time.Time
}

// Generate runs one report. On success the PDF is saved and the outcome
// carries its file name. Cancellation through ctx yields a cancelled
// outcome with a nil error and no file; every other failure aborts the
// run with no partial output.
func (g *Generator) Generate(ctx context.Context, in Input) (*Outcome, error) {
	tree := NormalizeTree(in.Panels)
	insts := Flatten(tree, in.Variables)
	if len(insts) == 0 {
		return nil, ErrEmptyPanelSet
	}

	g.Progress.emit(fmt.Sprintf("Rendering %d panels", len(insts)))

	sched := &Scheduler{
		Concurrency: g.Concurrency,
		Fetch:       g.fetchInstance(in),
		Progress:    g.Progress,
	}
	results, err := sched.Run(ctx, insts)
	if err != nil {
		if ctx.Err() != nil {
			g.Progress.emit("Report generation cancelled")
			return &Outcome{Cancelled: true}, nil
		}
		return nil, err
	}

	logo := LoadLogo(g.Settings.Logo)

	canvas := g.NewCanvas(g.Settings.Orientation)
	pageW, pageH := canvas.PageSize()
	plan := PlanLayout(g.Settings, pageW, pageH, logo)

	perPage := g.Settings.PanelsPerPage
	if perPage < 1 {
		perPage = 1
	}
	totalPages := (len(results) + perPage - 1) / perPage

	for page := 0; page < totalPages; page++ {
		canvas.AddPage()
		start := page * perPage
		end := start + perPage
		if end > len(results) {
			end = len(results)
		}
		for slot, res := range results[start:end] {
			g.paintSlot(canvas, plan, slot, res)
		}
		g.paintBand(canvas, plan, PlacementHeader, logo, page+1, totalPages)
		g.paintBand(canvas, plan, PlacementFooter, logo, page+1, totalPages)
	}

	if err := ctx.Err(); err != nil {
		g.Progress.emit("Report generation cancelled")
		return &Outcome{Cancelled: true}, nil
	}

	fileName := ReportFileName(in.Title, g.nowFunc()())
	path := filepath.Join(g.OutputDir, fileName)
	if err := canvas.Save(path); err != nil {
		return nil, fmt.Errorf("saving report: %w", err)
	}

	g.Progress.emit("Report saved: " + fileName)
	return &Outcome{
		FileName: fileName,
		Pages:    totalPages,
		Panels:   len(results),
	}, nil
}

// fetchInstance adapts the render backend to the scheduler, building one
// request per instance with the scope bindings ordered by name.
func (g *Generator) fetchInstance(in Input) FetchFunc {
	return func(ctx context.Context, inst RenderInstance) ([]byte, error) {
		names := make([]string, 0, len(inst.Scope))
		for name := range inst.Scope {
			names = append(names, name)
		}
		sort.Strings(names)

		vars := make([]VariablePair, 0, len(names))
		for _, name := range names {
			vars = append(vars, VariablePair{Name: name, Value: inst.Scope[name].Value})
		}

		return g.Backend.RenderPanel(ctx, RenderRequest{
			DashboardUID: in.UID,

			PanelID:   inst.RenderID,
			From:      in.From,
			To:        in.To,
			Width:     g.Settings.PanelWidth,
			Height:    g.Settings.PanelHeight,
			Theme:     g.Settings.Theme,
			Timezone:  g.Settings.Timezone,
			Variables: vars,
		})
	}
}

// paintSlot draws one panel into its slot: the title band when enabled,
// then the image aspect-fitted and centered in the remaining area.
func (g *Generator) paintSlot(c Canvas, plan LayoutPlan, slot int, res RenderResult) {
	s := g.Settings
	x, y := plan.SlotRect(slot)

	titleH := plan.TitleBandHeight(s)
	if titleH > 0 {
		c.SetFont(s.TitleFont.Family, s.TitleFont.Style, s.TitleFont.Size)
		c.SetTextColor(s.TitleFont.Color[0], s.TitleFont.Color[1], s.TitleFont.Color[2])
		c.Text(x, y+s.TitleFont.Size, res.Title, AlignLeft)
	}

	areaY := y + titleH
	areaH := plan.SlotHeight - titleH

	srcW, srcH := imageSize(res.Image)
	w, h := FitRect(srcW, srcH, plan.SlotWidth, areaH)
	if w <= 0 || h <= 0 {
		return
	}
	c.Image(res.Image, x+(plan.SlotWidth-w)/2, areaY+(areaH-h)/2, w, h)
}

// paintBand draws every branding element assigned to the placement:
// logo, page-number label, and custom texts, each horizontally positioned
// by its own alignment and vertically centered within the band.
func (g *Generator) paintBand(c Canvas, plan LayoutPlan, placement Placement, logo *LogoAsset, page, totalPages int) {
	s := g.Settings

	bandH := plan.HeaderHeight
	bandTop := plan.Margin
	if placement == PlacementFooter {
		bandH = plan.FooterHeight
		bandTop = plan.PageHeight - plan.Margin - bandH
	}
	if bandH <= 0 {
		return
	}

	if logo != nil && s.Logo != nil && s.Logo.Placement == placement {
		x := alignedX(plan, s.Logo.Align, logo.FittedW)
		y := bandTop + (bandH-logo.FittedH)/2
		c.Image(logo.Data, x, y, logo.FittedW, logo.FittedH)
	}

	font := s.BrandingFont
	if s.PageNumbers != nil && s.PageNumbers.Placement == placement {
		c.SetFont(font.Family, font.Style, font.Size)
		c.SetTextColor(font.Color[0], font.Color[1], font.Color[2])
		label := pageLabel(s.PageNumbers.Locale, page, totalPages)
		c.Text(anchorX(plan, s.PageNumbers.Align), textBaseline(bandTop, bandH, font.Size), label, s.PageNumbers.Align)
	}

	for _, ct := range s.CustomTexts {
		if ct.Placement != placement {
			continue
		}
		size := ct.FontSize
		if size <= 0 {
			size = font.Size
		}
		c.SetFont(font.Family, font.Style, size)
		c.SetTextColor(font.Color[0], font.Color[1], font.Color[2])
		c.Text(anchorX(plan, ct.Align), textBaseline(bandTop, bandH, size), ct.Text, ct.Align)
	}
}

// anchorX maps an alignment to the text anchor the canvas aligns around:
// the left margin, the page center, or the right margin.
func anchorX(plan LayoutPlan, align Align) float64 {
	switch align {
	case AlignCenter:
		return plan.PageWidth / 2
	case AlignRight:
		return plan.PageWidth - plan.Margin
	default:
		return plan.Margin
	}
}

// textBaseline vertically centers a text line of the given size in a band.
func textBaseline(bandTop, bandH, size float64) float64 {
	return bandTop + bandH/2 + size*0.35
}

func (g *Generator) nowFunc() func() time.Time {
	if g.now != nil {
		return g.now
	}
	return time.Now
}

func imageSize(data []byte) (w, h float64) {
	dim, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0
	}
	return float64(dim.Width), float64(dim.Height)
}
