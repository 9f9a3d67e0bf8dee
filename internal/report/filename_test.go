package report

import (
	"testing"
	"time"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Cluster Overview", "cluster-overview"},
		{"  CPU / Memory (live)  ", "cpu-memory-live"},
		{"Überblick", "berblick"},
		{"___", "dashboard"},
		{"", "dashboard"},
		{"already-slugged", "already-slugged"},
		{"MiXeD CaSe 42", "mixed-case-42"},
	}
	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestReportFileName(t *testing.T) {
	now := time.Date(2026, 8, 29, 9, 5, 7, 0, time.UTC)
	got := ReportFileName("My Dashboard", now)
	want := "my-dashboard-20260829-090507.pdf"
	if got != want {
		t.Errorf("ReportFileName = %q, want %q", got, want)
	}

	// Stable for identical input.
	if again := ReportFileName("My Dashboard", now); again != got {
		t.Errorf("file name must be deterministic, got %q then %q", got, again)
	}
}
