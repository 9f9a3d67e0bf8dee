package config

import (
	"testing"
	"time"

	"github.com/rcourtman/dashreport/internal/report"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Concurrency != 1 {
		t.Errorf("default concurrency = %d, want 1", cfg.Concurrency)
	}
	if cfg.Timeout != 60*time.Second {
		t.Errorf("default timeout = %v", cfg.Timeout)
	}
	if cfg.Layout == nil {
		t.Fatal("layout settings must always be resolved")
	}
	if cfg.Layout.PanelsPerPage != 2 || cfg.Layout.Orientation != "P" {
		t.Errorf("layout defaults = %+v", cfg.Layout)
	}
	if !cfg.Layout.ShowTitles {
		t.Error("titles default on")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DASHREPORT_PANELS_PER_PAGE", "6")
	t.Setenv("DASHREPORT_ORIENTATION", "landscape")
	t.Setenv("DASHREPORT_CONCURRENCY", "4")
	t.Setenv("DASHREPORT_SHOW_TITLES", "false")
	t.Setenv("DASHREPORT_PAGE_NUMBERS", "true")
	t.Setenv("DASHREPORT_LOCALE", "de")
	t.Setenv("DASHREPORT_FOOTER_TEXT", "Confidential")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Layout.PanelsPerPage != 6 {
		t.Errorf("panels per page = %d", cfg.Layout.PanelsPerPage)
	}
	if cfg.Layout.Orientation != "L" {
		t.Errorf("orientation = %q", cfg.Layout.Orientation)
	}
	if cfg.Concurrency != 4 {
		t.Errorf("concurrency = %d", cfg.Concurrency)
	}
	if cfg.Layout.ShowTitles {
		t.Error("titles should be off")
	}
	if cfg.Layout.PageNumbers == nil || cfg.Layout.PageNumbers.Locale != "de" {
		t.Errorf("page numbers = %+v", cfg.Layout.PageNumbers)
	}
	if len(cfg.Layout.CustomTexts) != 1 || cfg.Layout.CustomTexts[0].Placement != report.PlacementFooter {
		t.Errorf("custom texts = %+v", cfg.Layout.CustomTexts)
	}
}

func TestLoad_InvalidTimeout(t *testing.T) {
	t.Setenv("DASHREPORT_RENDER_TIMEOUT", "soon")
	if _, err := Load(); err == nil {
		t.Fatal("expected an error for an unparseable timeout")
	}
}
