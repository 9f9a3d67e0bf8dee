package grafana

import (
	"github.com/rcourtman/dashreport/internal/report"
)

// Dashboard is a fetched dashboard definition reduced to what the report
// engine consumes.
type Dashboard struct {
	UID       string
	Title     string
	Panels    []*report.PanelNode
	Variables []report.VariableDefinition
	From      string
	To        string
}

// dashboardResponse mirrors the dashboard-by-uid API payload. Template
// variable values arrive in heterogeneous shapes; normalization happens
// when mapping to the engine model.
type dashboardResponse struct {
	Dashboard dashboardJSON `json:"dashboard"`
}

type dashboardJSON struct {
	UID        string              `json:"uid"`
	Title      string              `json:"title"`
	Panels     []*report.PanelNode `json:"panels"`
	Templating struct {
		List []templateVarJSON `json:"list"`
	} `json:"templating"`
	Time struct {
		From string `json:"from"`
		To   string `json:"to"`
	} `json:"time"`
}

type templateVarJSON struct {
	Name    string `json:"name"`
	Current struct {
		Value any `json:"value"`
		Text  any `json:"text"`
	} `json:"current"`
	Options []struct {
		Value    any  `json:"value"`
		Text     any  `json:"text"`
		Selected bool `json:"selected"`
	} `json:"options"`
}

func (r dashboardResponse) toModel(uid string) *Dashboard {
	d := r.Dashboard
	if d.UID == "" {
		d.UID = uid
	}

	vars := make([]report.VariableDefinition, 0, len(d.Templating.List))
	for _, tv := range d.Templating.List {
		def := report.VariableDefinition{
			Name:    tv.Name,
			Session: report.NormalizeEntries(tv.Current.Value, tv.Current.Text),
		}
		for _, opt := range tv.Options {
			entries := report.NormalizeEntries(opt.Value, opt.Text)
			def.Options = append(def.Options, entries...)
			if opt.Selected {
				def.Defaults = append(def.Defaults, entries...)
			}
		}
		vars = append(vars, def)
	}

	return &Dashboard{
		UID:       d.UID,
		Title:     d.Title,
		Panels:    d.Panels,
		Variables: vars,
		From:      d.Time.From,
		To:        d.Time.To,
	}
}

// Input assembles the engine input for the dashboard: the raw panel tree,
// the resolved variable values (manual overrides applied on top of the
// session selection and dashboard defaults), and the effective time range.
// Empty from/to fall back to the dashboard's own time range.
func (d *Dashboard) Input(manual report.VariableValueMap, from, to string) report.Input {
	if from == "" {
		from = d.From
	}
	if to == "" {
		to = d.To
	}
	return report.Input{
		UID:       d.UID,
		Title:     d.Title,
		Panels:    d.Panels,
		Variables: report.ResolveValues(d.Variables, manual),
		From:      from,
		To:        to,
	}
}
