package report

import (
	"testing"
)

func TestNormalizeTree_LegacyAndFlatShapesMatch(t *testing.T) {
	legacy := []*PanelNode{
		{ID: 1, Type: TypeRow, Title: "Overview", Children: []*PanelNode{
			{ID: 2, Type: "graph"},
			{ID: 3, Type: "graph"},
		}},
	}

	flat := []*PanelNode{
		{ID: 1, Type: TypeRow, Title: "Overview"},
		{ID: 2, Type: "graph"},
		{ID: 3, Type: "graph"},
	}

	a := NormalizeTree(legacy)
	b := NormalizeTree(flat)

	if len(a) != 1 || len(b) != 1 {
		t.Fatalf("expected one top-level row each, got %d and %d", len(a), len(b))
	}
	if len(a[0].Children) != 2 || len(b[0].Children) != 2 {
		t.Fatalf("expected two children each, got %d and %d", len(a[0].Children), len(b[0].Children))
	}
	for i := range a[0].Children {
		if a[0].Children[i].ID != b[0].Children[i].ID {
			t.Errorf("child %d: legacy id %d != flat id %d", i, a[0].Children[i].ID, b[0].Children[i].ID)
		}
	}
}

func TestNormalizeTree_BackReferenceBeatsActiveRow(t *testing.T) {
	panels := []*PanelNode{
		{ID: 1, Type: TypeRow},
		{ID: 2, Type: TypeRow},
		// Declared back-reference to row 1 even though row 2 is active.
		{ID: 3, Type: "graph", RowParentID: 1},
	}

	out := NormalizeTree(panels)
	if len(out) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(out))
	}
	if len(out[0].Children) != 1 || out[0].Children[0].ID != 3 {
		t.Errorf("panel 3 should attach to row 1, got children %v", out[0].Children)
	}
	if len(out[1].Children) != 0 {
		t.Errorf("row 2 should stay empty, got %d children", len(out[1].Children))
	}
}

func TestNormalizeTree_CollapsedRowKeepsEmbeddedChildren(t *testing.T) {
	panels := []*PanelNode{
		{ID: 1, Type: TypeRow, Collapsed: true, Children: []*PanelNode{
			{ID: 2, Type: "graph"},
		}},
		// A collapsed row is not an active row: this panel has nowhere to
		// attach and stays top-level.
		{ID: 3, Type: "graph"},
	}

	out := NormalizeTree(panels)
	if len(out) != 2 {
		t.Fatalf("expected row + orphan at top level, got %d entries", len(out))
	}
	if len(out[0].Children) != 1 || out[0].Children[0].ID != 2 {
		t.Errorf("collapsed row lost its embedded children: %v", out[0].Children)
	}
	if out[1].ID != 3 {
		t.Errorf("orphan panel should be top-level, got id %d", out[1].ID)
	}
}

func TestNormalizeTree_PanelBeforeAnyRowIsTopLevel(t *testing.T) {
	panels := []*PanelNode{
		{ID: 10, Type: "graph"},
		{ID: 1, Type: TypeRow},
		{ID: 11, Type: "graph"},
	}

	out := NormalizeTree(panels)
	if len(out) != 2 {
		t.Fatalf("expected panel + row at top level, got %d", len(out))
	}
	if out[0].ID != 10 {
		t.Errorf("leading panel should stay top-level")
	}
	if len(out[1].Children) != 1 || out[1].Children[0].ID != 11 {
		t.Errorf("trailing panel should join the active row")
	}
}

func TestNormalizeTree_DuplicateRowIDKeepsFirst(t *testing.T) {
	first := &PanelNode{ID: 1, Type: TypeRow, Title: "first"}
	second := &PanelNode{ID: 1, Type: TypeRow, Title: "second", Collapsed: true}
	panels := []*PanelNode{
		first,
		second,
		{ID: 2, Type: "graph", RowParentID: 1},
	}

	NormalizeTree(panels)
	if len(first.Children) != 1 {
		t.Errorf("back-reference should resolve to the first row occurrence")
	}
	if len(second.Children) != 0 {
		t.Errorf("second occurrence should receive nothing")
	}
}

func TestNormalizeTree_RowWithNoChildren(t *testing.T) {
	out := NormalizeTree([]*PanelNode{{ID: 1, Type: TypeRow}})
	if len(out) != 1 {
		t.Fatalf("expected the row to survive, got %d entries", len(out))
	}
	if len(out[0].Children) != 0 {
		t.Errorf("childless row should have an empty children sequence")
	}
}
