// Package config resolves the application configuration and the fully
// defaulted layout settings the report engine consumes.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rcourtman/dashreport/internal/report"
)

// Config is the resolved application configuration.
type Config struct {
	// GrafanaURL is the dashboard server base URL.
	GrafanaURL string
	// APIToken authenticates dashboard and render calls.
	APIToken string
	// Listen is the serve-mode bind address.
	Listen string
	// OutputDir receives generated report files.
	OutputDir string
	// Concurrency bounds the render fetch pool.
	Concurrency int
	// Timeout for each render backend call.
	Timeout time.Duration

	LogLevel  string
	LogFormat string

	Layout *report.Settings
}

// Load builds the configuration from environment variables on top of
// defaults. Every layout field comes out resolved; the engine never sees
// partial settings.
func Load() (*Config, error) {
	cfg := &Config{
		GrafanaURL:  envString("DASHREPORT_SERVER_URL", ""),
		APIToken:    envString("DASHREPORT_API_TOKEN", ""),
		Listen:      envString("DASHREPORT_LISTEN", ":7575"),
		OutputDir:   envString("DASHREPORT_OUTPUT_DIR", "."),
		Concurrency: envInt("DASHREPORT_CONCURRENCY", 1),
		LogLevel:    envString("DASHREPORT_LOG_LEVEL", "info"),
		LogFormat:   envString("DASHREPORT_LOG_FORMAT", "auto"),
		Layout:      DefaultSettings(),
	}

	timeout, err := envDuration("DASHREPORT_RENDER_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.Timeout = timeout

	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}

	applyLayoutEnv(cfg.Layout)
	return cfg, nil
}

// DefaultSettings returns the baseline layout configuration: two panels
// per A4 portrait page, titles on, no branding elements.
func DefaultSettings() *report.Settings {
	return &report.Settings{
		PanelsPerPage: 2,
		Spacing:       4,
		Margin:        10,
		Orientation:   "P",
		PanelWidth:    1000,
		PanelHeight:   500,
		ShowTitles:    true,
		TitleFont: report.FontSpec{
			Family: "Arial",
			Style:  "B",
			Size:   11,
			Color:  [3]int{44, 62, 80},
		},
		BrandingFont: report.FontSpec{
			Family: "Arial",
			Size:   9,
			Color:  [3]int{127, 140, 141},
		},
		Header: report.BandSettings{Padding: 2, LineHeight: 5},
		Footer: report.BandSettings{Padding: 2, LineHeight: 5},
		Theme:  "light",
	}
}

func applyLayoutEnv(s *report.Settings) {
	s.PanelsPerPage = envInt("DASHREPORT_PANELS_PER_PAGE", s.PanelsPerPage)
	s.PanelWidth = envInt("DASHREPORT_PANEL_WIDTH", s.PanelWidth)
	s.PanelHeight = envInt("DASHREPORT_PANEL_HEIGHT", s.PanelHeight)
	s.Orientation = normalizeOrientation(envString("DASHREPORT_ORIENTATION", s.Orientation))
	s.Theme = envString("DASHREPORT_THEME", s.Theme)
	s.Timezone = envString("DASHREPORT_TIMEZONE", s.Timezone)

	if v, ok := os.LookupEnv("DASHREPORT_SHOW_TITLES"); ok {
		s.ShowTitles = parseBool(v, s.ShowTitles)
	}
	if logoPath := envString("DASHREPORT_LOGO_PATH", ""); logoPath != "" {
		s.Logo = &report.LogoSettings{
			Path:      logoPath,
			Width:     envFloat("DASHREPORT_LOGO_WIDTH", 40),
			Height:    envFloat("DASHREPORT_LOGO_HEIGHT", 12),
			Placement: parsePlacement(envString("DASHREPORT_LOGO_PLACEMENT", "header")),
			Align:     parseAlign(envString("DASHREPORT_LOGO_ALIGN", "left")),
		}
	}
	if v, ok := os.LookupEnv("DASHREPORT_PAGE_NUMBERS"); ok && parseBool(v, false) {
		s.PageNumbers = &report.PageNumberSettings{
			Placement: parsePlacement(envString("DASHREPORT_PAGE_NUMBER_PLACEMENT", "footer")),
			Align:     parseAlign(envString("DASHREPORT_PAGE_NUMBER_ALIGN", "center")),
			Locale:    envString("DASHREPORT_LOCALE", "en"),
		}
	}
	if text := envString("DASHREPORT_FOOTER_TEXT", ""); text != "" {
		s.CustomTexts = append(s.CustomTexts, report.CustomText{
			Text:      text,
			Placement: report.PlacementFooter,
			Align:     report.AlignLeft,
		})
	}
	if text := envString("DASHREPORT_HEADER_TEXT", ""); text != "" {
		s.CustomTexts = append(s.CustomTexts, report.CustomText{
			Text:      text,
			Placement: report.PlacementHeader,
			Align:     report.AlignCenter,
		})
	}
}

func normalizeOrientation(v string) string {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "L", "LANDSCAPE":
		return "L"
	default:
		return "P"
	}
}

func parsePlacement(v string) report.Placement {
	if strings.EqualFold(strings.TrimSpace(v), "footer") {
		return report.PlacementFooter
	}
	return report.PlacementHeader
}

func parseAlign(v string) report.Align {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "center":
		return report.AlignCenter
	case "right":
		return report.AlignRight
	default:
		return report.AlignLeft
	}
}

func parseBool(v string, fallback bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return b
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return fallback
	}
	return f
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
