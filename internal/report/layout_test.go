package report

import (
	"math"
	"testing"
)

func TestDetermineGridColumns(t *testing.T) {
	for n := 1; n <= 3; n++ {
		if got := determineGridColumns(n); got != 1 {
			t.Errorf("determineGridColumns(%d) = %d, want 1", n, got)
		}
	}
	for _, n := range []int{4, 5, 6, 9, 20} {
		if got := determineGridColumns(n); got != 2 {
			t.Errorf("determineGridColumns(%d) = %d, want 2", n, got)
		}
	}
}

func TestPlanLayout_SlotGeometry(t *testing.T) {
	s := &Settings{
		PanelsPerPage: 4,
		Spacing:       4,
		Margin:        10,
	}

	plan := PlanLayout(s, 210, 297, nil)

	if plan.Columns != 2 || plan.Rows != 2 {
		t.Fatalf("grid = %dx%d, want 2x2", plan.Columns, plan.Rows)
	}
	wantW := (210.0 - 2*10 - 4) / 2
	wantH := (297.0 - 2*10 - 4) / 2
	if math.Abs(plan.SlotWidth-wantW) > 1e-9 {
		t.Errorf("slot width = %f, want %f", plan.SlotWidth, wantW)
	}
	if math.Abs(plan.SlotHeight-wantH) > 1e-9 {
		t.Errorf("slot height = %f, want %f", plan.SlotHeight, wantH)
	}
	if plan.HeaderHeight != 0 || plan.FooterHeight != 0 {
		t.Errorf("no branding configured, bands = %f/%f, want 0/0", plan.HeaderHeight, plan.FooterHeight)
	}
}

func TestPlanLayout_DegenerateGeometryFloored(t *testing.T) {
	s := &Settings{
		PanelsPerPage: 1,
		Margin:        500, // margins exceed the page
	}

	plan := PlanLayout(s, 210, 297, nil)
	if plan.SlotWidth <= 0 || plan.SlotHeight <= 0 {
		t.Errorf("slot geometry must stay positive, got %fx%f", plan.SlotWidth, plan.SlotHeight)
	}
}

func TestPlanLayout_SlotRect(t *testing.T) {
	s := &Settings{
		PanelsPerPage: 4,
		Spacing:       4,
		Margin:        10,
	}
	plan := PlanLayout(s, 210, 297, nil)

	x0, y0 := plan.SlotRect(0)
	if x0 != 10 || y0 != 10 {
		t.Errorf("slot 0 at (%f, %f), want (10, 10)", x0, y0)
	}
	x1, _ := plan.SlotRect(1)
	if math.Abs(x1-(10+plan.SlotWidth+4)) > 1e-9 {
		t.Errorf("slot 1 x = %f", x1)
	}
	_, y2 := plan.SlotRect(2)
	if math.Abs(y2-(10+plan.SlotHeight+4)) > 1e-9 {
		t.Errorf("slot 2 y = %f", y2)
	}
}

func TestBandReservedHeight_ZeroWhenUnassigned(t *testing.T) {
	s := &Settings{
		Header: BandSettings{Padding: 2, LineHeight: 5},
		Footer: BandSettings{Padding: 2, LineHeight: 5},
		PageNumbers: &PageNumberSettings{
			Placement: PlacementFooter,
		},
	}

	if got := bandReservedHeight(s, PlacementHeader, nil); got != 0 {
		t.Errorf("header with nothing assigned = %f, want exactly 0", got)
	}
	if got := bandReservedHeight(s, PlacementFooter, nil); got <= 0 {
		t.Errorf("footer with page numbers = %f, want > 0", got)
	}
}

func TestBandReservedHeight_IncludesPaddingAndMax(t *testing.T) {
	s := &Settings{
		Footer: BandSettings{Padding: 3, LineHeight: 5},
		PageNumbers: &PageNumberSettings{
			Placement: PlacementFooter,
		},
		CustomTexts: []CustomText{
			{Text: "a", Placement: PlacementFooter, FontSize: 12},
			{Text: "b", Placement: PlacementFooter}, // falls back to line height
		},
	}

	// max(5, 12, 5) + padding on both sides
	want := 12.0 + 2*3
	if got := bandReservedHeight(s, PlacementFooter, nil); got != want {
		t.Errorf("footer height = %f, want %f", got, want)
	}
}

func TestBandReservedHeight_Logo(t *testing.T) {
	s := &Settings{
		Header: BandSettings{Padding: 2, LineHeight: 5},
		Logo:   &LogoSettings{Path: "logo.png", Placement: PlacementHeader},
	}
	logo := &LogoAsset{FittedW: 30, FittedH: 10}

	want := 10.0 + 2*2
	if got := bandReservedHeight(s, PlacementHeader, logo); got != want {
		t.Errorf("header with logo = %f, want %f", got, want)
	}
	// Logo assigned to the header reserves nothing in the footer.
	if got := bandReservedHeight(s, PlacementFooter, logo); got != 0 {
		t.Errorf("footer = %f, want 0", got)
	}
}

func TestFitRect(t *testing.T) {
	tests := []struct {
		srcW, srcH, maxW, maxH float64
		wantW, wantH           float64
	}{
		{100, 50, 50, 50, 50, 25},
		{50, 100, 50, 50, 25, 50},
		{100, 100, 50, 25, 25, 25},
		{10, 10, 100, 100, 100, 100}, // scales up
		{0, 50, 50, 50, 0, 0},
		{100, 50, 0, 50, 0, 0},
		{-5, 50, 50, 50, 0, 0},
	}
	for _, tt := range tests {
		w, h := FitRect(tt.srcW, tt.srcH, tt.maxW, tt.maxH)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("FitRect(%v,%v,%v,%v) = %v,%v; want %v,%v",
				tt.srcW, tt.srcH, tt.maxW, tt.maxH, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestPageLabel(t *testing.T) {
	if got := pageLabel("en", 2, 5); got != "Page 2 of 5" {
		t.Errorf("en label = %q", got)
	}
	if got := pageLabel("de", 2, 5); got != "Seite 2 von 5" {
		t.Errorf("de label = %q", got)
	}
	if got := pageLabel("xx", 1, 1); got != "Page 1 of 1" {
		t.Errorf("unknown locale must fall back to English, got %q", got)
	}
	if got := pageLabel("", 3, 3); got != "Page 3 of 3" {
		t.Errorf("empty locale must fall back to English, got %q", got)
	}
}

func TestTitleBandHeight(t *testing.T) {
	s := &Settings{ShowTitles: true, TitleFont: FontSpec{Size: 11}}
	plan := LayoutPlan{}
	if got := plan.TitleBandHeight(s); got != 15 {
		t.Errorf("title band = %f, want font size + 4", got)
	}
	s.ShowTitles = false
	if got := plan.TitleBandHeight(s); got != 0 {
		t.Errorf("disabled titles reserve %f, want 0", got)
	}
}

func TestAlignedX(t *testing.T) {
	plan := LayoutPlan{PageWidth: 200, Margin: 10}
	if got := alignedX(plan, AlignLeft, 40); got != 10 {
		t.Errorf("left = %f", got)
	}
	if got := alignedX(plan, AlignCenter, 40); got != 80 {
		t.Errorf("center = %f", got)
	}
	if got := alignedX(plan, AlignRight, 40); got != 150 {
		t.Errorf("right = %f", got)
	}
}
