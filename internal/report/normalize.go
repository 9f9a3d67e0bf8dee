package report

import (
	"github.com/rs/zerolog/log"
)

// NormalizeTree reconciles the two historical panel schemas into one
// canonical row-grouped tree. Legacy dashboards nest row children inline;
// current ones emit children as flat siblings, either carrying an explicit
// back-reference to their row or simply following it in document order.
//
// Rows with no children end up with an empty children slice; that is a
// valid dashboard, not an error.
func NormalizeTree(panels []*PanelNode) []*PanelNode {
	rows := make(map[int64]*PanelNode)
	for _, p := range panels {
		if !p.IsRow() || p.ID == 0 {
			continue
		}
		if _, dup := rows[p.ID]; dup {
			// Duplicate row ids are almost certainly an authoring bug.
			// Keep the first occurrence so output stays deterministic.
			log.Warn().Int64("rowId", p.ID).Msg("Duplicate row id in dashboard, keeping first occurrence")
			continue
		}
		rows[p.ID] = p
	}

	var out []*PanelNode
	var activeRow *PanelNode

	for _, p := range panels {
		switch {
		case p.IsRow():
			activeRow = nil
			if !p.Collapsed {
				activeRow = p
			}
			out = append(out, p)
		case p.RowParentID != 0 && rows[p.RowParentID] != nil:
			row := rows[p.RowParentID]
			row.Children = append(row.Children, p)
		case activeRow != nil:
			activeRow.Children = append(activeRow.Children, p)
		default:
			out = append(out, p)
		}
	}

	return out
}
