package report

// Panel type discriminator used by dashboard definitions. Anything that is
// not a row is treated as a leaf visualization panel.
const TypeRow = "row"

// PanelNode is one node of a dashboard's panel tree as fetched. The legacy
// schema nests row children inline under "panels"; the current schema emits
// children as flat siblings carrying a back-reference to the row id.
type PanelNode struct {
	ID          int64                    `json:"id,omitempty"`
	Type        string                   `json:"type"`
	Title       string                   `json:"title,omitempty"`
	Repeat      string                   `json:"repeat,omitempty"`
	Collapsed   bool                     `json:"collapsed,omitempty"`
	RowParentID int64                    `json:"rowId,omitempty"`
	Scoped      map[string]VariableValue `json:"scopedVars,omitempty"`
	Children    []*PanelNode             `json:"panels,omitempty"`
}

// IsRow reports whether the node is a structural row grouping.
func (p *PanelNode) IsRow() bool {
	return p.Type == TypeRow
}

// VariableValue is a single selected value of a template variable. Text is
// the display form and may be empty, in which case Value doubles as both.
type VariableValue struct {
	Value string `json:"value"`
	Text  string `json:"text,omitempty"`
}

// Display returns the human-readable form of the value.
func (v VariableValue) Display() string {
	if v.Text != "" {
		return v.Text
	}
	return v.Value
}

// VariableValueMap maps a variable name to its ordered selected values.
// Value order within a name is significant: it drives repeat render order.
type VariableValueMap map[string][]VariableValue

// VariableDefinition is one template variable as declared by the dashboard,
// together with the live session selection. Options is the declared option
// list used to expand wildcard selections.
type VariableDefinition struct {
	Name     string
	Options  []VariableValue
	Defaults []VariableValue
	Session  []VariableValue
}

// Scope is the set of variable bindings in effect at a point of the panel
// tree. It is treated as immutable: extension always copies.
type Scope map[string]VariableValue

// Has reports whether name is bound in the scope.
func (s Scope) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// With returns a copy of the scope with name bound to v.
func (s Scope) With(name string, v VariableValue) Scope {
	next := make(Scope, len(s)+1)
	for k, val := range s {
		next[k] = val
	}
	next[name] = v
	return next
}

// Merge returns a copy of the scope with every binding from overrides
// applied on top. A nil or empty overrides map returns the scope unchanged.
func (s Scope) Merge(overrides map[string]VariableValue) Scope {
	if len(overrides) == 0 {
		return s
	}
	next := make(Scope, len(s)+len(overrides))
	for k, v := range s {
		next[k] = v
	}
	for k, v := range overrides {
		next[k] = v
	}
	return next
}

// RenderInstance is the immutable projection of one leaf panel for one
// repeat combination: exactly one image is fetched per instance.
type RenderInstance struct {
	// RenderID is the original panel id plus the clone suffix accumulated
	// through repeat expansion, e.g. "4clone2". Unique across a run.
	RenderID string
	// PanelID is the original numeric panel id.
	PanelID int64
	// Title is the panel title with variable references resolved.
	Title string
	// Scope holds the variable bindings for this instance.
	Scope Scope
	// Index is the emission order position, which is also the slot the
	// scheduler stores the result under.
	Index int
}

// RenderResult is one successfully fetched panel image.
type RenderResult struct {
	Title string
	Image []byte
}

// Placement selects the page band a branding element is painted in.
type Placement string

const (
	PlacementHeader Placement = "header"
	PlacementFooter Placement = "footer"
)

// Align is the horizontal alignment of a branding element within the page.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// FontSpec describes the font used for panel titles and branding text.
type FontSpec struct {
	Family string
	Style  string
	Size   float64
	Color  [3]int
}

// BandSettings configures one branding band (header or footer).
type BandSettings struct {
	// Padding is added above and below the band content.
	Padding float64
	// LineHeight is the text line height used for page numbers and for
	// custom texts that do not set their own font size.
	LineHeight float64
}

// LogoSettings describes an optional logo image placed in a branding band.
// Width and Height bound the box the logo is scaled into, preserving its
// aspect ratio.
type LogoSettings struct {
	Path      string
	Width     float64
	Height    float64
	Placement Placement
	Align     Align
}

// PageNumberSettings configures the page-number label.
type PageNumberSettings struct {
	Placement Placement
	Align     Align
	// Locale is a two-letter language code selecting the label wording.
	// Unrecognized codes fall back to English.
	Locale string
}

// CustomText is one free-form branding text element.
type CustomText struct {
	Text      string
	Placement Placement
	Align     Align
	// FontSize of 0 uses the placement's configured line height.
	FontSize float64
}

// Settings is the fully resolved layout configuration consumed by the
// engine. Callers must default every field before handing it over; the
// engine never fills gaps.
type Settings struct {
	PanelsPerPage int
	Spacing       float64
	Margin        float64
	// Orientation is "P" (portrait) or "L" (landscape).
	Orientation string

	// PanelWidth and PanelHeight are the pixel dimensions requested from
	// the render backend for every panel image.
	PanelWidth  int
	PanelHeight int

	ShowTitles bool
	TitleFont  FontSpec

	Header BandSettings
	Footer BandSettings

	Logo        *LogoSettings
	PageNumbers *PageNumberSettings
	CustomTexts []CustomText

	BrandingFont FontSpec

	Theme    string
	Timezone string
}

// Input bundles everything one report run consumes. Panels is the raw tree
// as fetched; Variables must already be merged and wildcard-expanded.
type Input struct {
	UID       string
	Title     string
	Panels    []*PanelNode
	Variables VariableValueMap
	From      string
	To        string
}

// Outcome is the terminal state of a run. Cancelled runs carry no file
// name and are not errors.
type Outcome struct {
	FileName  string
	Cancelled bool
	Pages     int
	Panels    int
}
