package report

import (
	"bytes"
	"fmt"
	"image"
	"math"
	"os"

	_ "image/jpeg"
	_ "image/png"

	"github.com/rs/zerolog/log"
)

// minSlotDim keeps slot geometry positive when margins and branding bands
// exceed the page size.
const minSlotDim = 1.0

// titleBandPadding is added to the title font size when reserving the
// title band at the top of each slot.
const titleBandPadding = 4.0

// LayoutPlan is the per-run page geometry. The grid is constant across
// pages; only which panels occupy the final page's slots varies.
type LayoutPlan struct {
	PageWidth  float64
	PageHeight float64
	Margin     float64
	Spacing    float64

	Columns int
	Rows    int

	SlotWidth  float64
	SlotHeight float64

	HeaderHeight float64
	FooterHeight float64
}

// determineGridColumns returns the column count for a page: one column for
// up to three panels per page, two beyond that.
func determineGridColumns(panelsPerPage int) int {
	if panelsPerPage < 4 {
		return 1
	}
	return 2
}

// PlanLayout derives the page grid from the resolved settings, the page
// dimensions reported by the canvas, and the loaded logo (nil when absent).
func PlanLayout(s *Settings, pageW, pageH float64, logo *LogoAsset) LayoutPlan {
	cols := determineGridColumns(s.PanelsPerPage)
	rows := int(math.Ceil(float64(s.PanelsPerPage) / float64(cols)))
	if rows < 1 {
		rows = 1
	}

	header := bandReservedHeight(s, PlacementHeader, logo)
	footer := bandReservedHeight(s, PlacementFooter, logo)

	slotW := (pageW - 2*s.Margin - s.Spacing*float64(cols-1)) / float64(cols)
	slotH := (pageH - 2*s.Margin - header - footer - s.Spacing*float64(rows-1)) / float64(rows)
	if slotW < minSlotDim {
		slotW = minSlotDim
	}
	if slotH < minSlotDim {
		slotH = minSlotDim
	}

	return LayoutPlan{
		PageWidth:    pageW,
		PageHeight:   pageH,
		Margin:       s.Margin,
		Spacing:      s.Spacing,
		Columns:      cols,
		Rows:         rows,
		SlotWidth:    slotW,
		SlotHeight:   slotH,
		HeaderHeight: header,
		FooterHeight: footer,
	}
}

// SlotRect returns the top-left corner of the slot at position i on a
// page, in row-major order.
func (p LayoutPlan) SlotRect(i int) (x, y float64) {
	col := i % p.Columns
	row := i / p.Columns
	x = p.Margin + float64(col)*(p.SlotWidth+p.Spacing)
	y = p.Margin + p.HeaderHeight + float64(row)*(p.SlotHeight+p.Spacing)
	return x, y
}

// TitleBandHeight is the height reserved at each slot's top for the panel
// title, or 0 when titles are disabled.
func (p LayoutPlan) TitleBandHeight(s *Settings) float64 {
	if !s.ShowTitles {
		return 0
	}
	return s.TitleFont.Size + titleBandPadding
}

// bandReservedHeight computes the reserved height of a branding band: the
// maximum of the fitted logo height, the page-number line height, and each
// custom text's own height, for elements assigned to that placement, plus
// the band padding on both sides. A band nothing targets reserves exactly
// zero.
func bandReservedHeight(s *Settings, placement Placement, logo *LogoAsset) float64 {
	band := s.Header
	if placement == PlacementFooter {
		band = s.Footer
	}

	content := 0.0
	if logo != nil && s.Logo != nil && s.Logo.Placement == placement {
		if logo.FittedH > content {
			content = logo.FittedH
		}
	}
	if s.PageNumbers != nil && s.PageNumbers.Placement == placement {
		if band.LineHeight > content {
			content = band.LineHeight
		}
	}
	for _, ct := range s.CustomTexts {
		if ct.Placement != placement {
			continue
		}
		h := ct.FontSize
		if h <= 0 {
			h = band.LineHeight
		}
		if h > content {
			content = h
		}
	}

	if content == 0 {
		return 0
	}
	return content + 2*band.Padding
}

// FitRect scales a source rectangle uniformly to the largest size fitting
// the target box. Zero or negative dimensions on either side yield a
// zero-sized placement.
func FitRect(srcW, srcH, maxW, maxH float64) (w, h float64) {
	if srcW <= 0 || srcH <= 0 || maxW <= 0 || maxH <= 0 {
		return 0, 0
	}
	scale := maxW / srcW
	if s := maxH / srcH; s < scale {
		scale = s
	}
	return srcW * scale, srcH * scale
}

// alignedX returns the x coordinate to hand the canvas for content of the
// given width: left-aligned content starts at the left margin, centered
// content is centered on the page, right-aligned content ends at the right
// margin.
func alignedX(plan LayoutPlan, align Align, contentW float64) float64 {
	switch align {
	case AlignCenter:
		return plan.PageWidth/2 - contentW/2
	case AlignRight:
		return plan.PageWidth - plan.Margin - contentW
	default:
		return plan.Margin
	}
}

// pageLabel formats the page-number label for a two-letter language code.
// Unrecognized codes fall back to English.
func pageLabel(locale string, page, total int) string {
	switch locale {
	case "de":
		return fmt.Sprintf("Seite %d von %d", page, total)
	default:
		return fmt.Sprintf("Page %d of %d", page, total)
	}
}

// LogoAsset is a logo image loaded from disk with its fitted display size
// already computed against the configured bounding box.
type LogoAsset struct {
	Data    []byte
	FittedW float64
	FittedH float64
}

// LoadLogo reads and measures the configured logo. Failure to load or
// decode is recoverable: the report proceeds without a logo.
func LoadLogo(cfg *LogoSettings) *LogoAsset {
	if cfg == nil || cfg.Path == "" {
		return nil
	}
	data, err := os.ReadFile(cfg.Path)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.Path).Msg("Failed to load logo, continuing without it")
		return nil
	}
	dim, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.Path).Msg("Failed to decode logo image, continuing without it")
		return nil
	}
	w, h := FitRect(float64(dim.Width), float64(dim.Height), cfg.Width, cfg.Height)
	if w <= 0 || h <= 0 {
		return nil
	}
	return &LogoAsset{Data: data, FittedW: w, FittedH: h}
}
