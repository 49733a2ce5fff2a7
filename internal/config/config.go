package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Config holds the application configuration
type Config struct {
	Theme            Theme
	ThemePreset      ThemePreset
	HighContrast     bool
	SideBySide       bool
	ShowLineNo       bool
	SyntaxHighlight  bool
	Intraline        bool
	TabSize          int
	IgnoreWhitespace bool
	LogLevel         string
	LogFile          string
	Keybindings      Keybindings
}

// ThemePreset describes a named theme configuration.
type ThemePreset string

const (
	PresetDefault  ThemePreset = "default"
	PresetSolarize ThemePreset = "solarized"
	PresetDracula  ThemePreset = "dracula"
)

// Keybindings maps semantic actions to one or more key sequences.
type Keybindings map[string][]string

// Theme defines the color scheme for the application
type Theme struct {
	AddedBg      lipgloss.Color
	AddedFg      lipgloss.Color
	RemovedBg    lipgloss.Color
	RemovedFg    lipgloss.Color
	UnchangedFg  lipgloss.Color
	LineNumberFg lipgloss.Color
	FocusBg      lipgloss.Color
	BorderFg     lipgloss.Color
	TitleFg      lipgloss.Color
	TitleBg      lipgloss.Color
	HelpFg       lipgloss.Color
	WarningFg    lipgloss.Color
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		ThemePreset:     PresetDefault,
		Theme:           ThemeForPreset(PresetDefault, false),
		ShowLineNo:      true,
		SyntaxHighlight: true,
		Intraline:       true,
		TabSize:         4,
		LogLevel:        "warn",
		Keybindings:     DefaultKeybindings(),
	}
}

// Load returns the defaults with LINEDIFF_* environment overrides applied.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("LINEDIFF_THEME"); v != "" {
		preset, err := ParsePreset(v)
		if err != nil {
			return nil, err
		}
		cfg.ThemePreset = preset
	}
	cfg.HighContrast = envBool("LINEDIFF_HIGH_CONTRAST", cfg.HighContrast)
	cfg.SideBySide = envBool("LINEDIFF_SIDE_BY_SIDE", cfg.SideBySide)
	cfg.SyntaxHighlight = envBool("LINEDIFF_SYNTAX", cfg.SyntaxHighlight)
	cfg.IgnoreWhitespace = envBool("LINEDIFF_IGNORE_WHITESPACE", cfg.IgnoreWhitespace)
	cfg.TabSize = envInt("LINEDIFF_TAB_SIZE", cfg.TabSize)
	cfg.LogLevel = envDefault("LINEDIFF_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = os.Getenv("LINEDIFF_LOG_FILE")

	cfg.Theme = ThemeForPreset(cfg.ThemePreset, cfg.HighContrast)
	return cfg, nil
}

// ParsePreset maps a user supplied name onto a preset.
func ParsePreset(name string) (ThemePreset, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", string(PresetDefault):
		return PresetDefault, nil
	case string(PresetSolarize), "solarize":
		return PresetSolarize, nil
	case string(PresetDracula):
		return PresetDracula, nil
	default:
		return "", fmt.Errorf("unknown theme: %s", name)
	}
}

// DefaultTheme returns the default color theme
func DefaultTheme() Theme {
	return Theme{
		AddedBg:      lipgloss.Color("#2D4A2B"),
		AddedFg:      lipgloss.Color("#A8E6A3"),
		RemovedBg:    lipgloss.Color("#4A2D2D"),
		RemovedFg:    lipgloss.Color("#E6A3A3"),
		UnchangedFg:  lipgloss.Color("#B0B0B0"),
		LineNumberFg: lipgloss.Color("#666666"),
		FocusBg:      lipgloss.Color("#33334D"),
		BorderFg:     lipgloss.Color("#3A3A3A"),
		TitleFg:      lipgloss.Color("#FFFFFF"),
		TitleBg:      lipgloss.Color("#5F5FAF"),
		HelpFg:       lipgloss.Color("#888888"),
		WarningFg:    lipgloss.Color("#E5C07B"),
	}
}

// ThemeForPreset resolves a preset name to a concrete Theme, optionally
// applying a high-contrast variation.
func ThemeForPreset(preset ThemePreset, highContrast bool) Theme {
	switch preset {
	case PresetSolarize:
		return applyContrast(Theme{
			AddedBg:      lipgloss.Color("#073642"),
			AddedFg:      lipgloss.Color("#859900"),
			RemovedBg:    lipgloss.Color("#3C1F1E"),
			RemovedFg:    lipgloss.Color("#DC322F"),
			UnchangedFg:  lipgloss.Color("#93A1A1"),
			LineNumberFg: lipgloss.Color("#586E75"),
			FocusBg:      lipgloss.Color("#0B4050"),
			BorderFg:     lipgloss.Color("#657B83"),
			TitleFg:      lipgloss.Color("#EEE8D5"),
			TitleBg:      lipgloss.Color("#586E75"),
			HelpFg:       lipgloss.Color("#93A1A1"),
			WarningFg:    lipgloss.Color("#B58900"),
		}, highContrast)
	case PresetDracula:
		return applyContrast(Theme{
			AddedBg:      lipgloss.Color("#244443"),
			AddedFg:      lipgloss.Color("#50FA7B"),
			RemovedBg:    lipgloss.Color("#402036"),
			RemovedFg:    lipgloss.Color("#FF79C6"),
			UnchangedFg:  lipgloss.Color("#F8F8F2"),
			LineNumberFg: lipgloss.Color("#6272A4"),
			FocusBg:      lipgloss.Color("#44475A"),
			BorderFg:     lipgloss.Color("#44475A"),
			TitleFg:      lipgloss.Color("#F8F8F2"),
			TitleBg:      lipgloss.Color("#6272A4"),
			HelpFg:       lipgloss.Color("#BD93F9"),
			WarningFg:    lipgloss.Color("#F1FA8C"),
		}, highContrast)
	default:
		return applyContrast(DefaultTheme(), highContrast)
	}
}

// DefaultKeybindings returns the built-in keybinding map.
func DefaultKeybindings() Keybindings {
	return Keybindings{
		"quit":                {"ctrl+c", "q"},
		"toggle_help":         {"?", "h"},
		"toggle_stats":        {"s"},
		"toggle_side_by_side": {"v"},
		"toggle_syntax":       {"c"},
		"toggle_line_numbers": {"ctrl+n"},
		"scroll_down":         {"j", "down"},
		"scroll_up":           {"k", "up"},
		"page_down":           {"d", "pgdown"},
		"page_up":             {"u", "pgup"},
		"go_top":              {"g", "home"},
		"go_bottom":           {"G", "end"},
		"go_focus":            {"f", "."},
		"reload":              {"r"},
	}
}

// MergeKeybindings overlays user overrides onto defaults.
func MergeKeybindings(overrides Keybindings) Keybindings {
	defaults := DefaultKeybindings()
	for action, keys := range overrides {
		if len(keys) == 0 {
			continue
		}
		defaults[action] = keys
	}
	return defaults
}

func applyContrast(theme Theme, highContrast bool) Theme {
	if !highContrast {
		return theme
	}

	boost := func(c lipgloss.Color, factor float64) lipgloss.Color {
		return lipgloss.Color(adjustBrightness(string(c), factor))
	}

	return Theme{
		AddedBg:      boost(theme.AddedBg, 0.15),
		AddedFg:      boost(theme.AddedFg, 0.25),
		RemovedBg:    boost(theme.RemovedBg, 0.15),
		RemovedFg:    boost(theme.RemovedFg, 0.25),
		UnchangedFg:  boost(theme.UnchangedFg, 0.2),
		LineNumberFg: boost(theme.LineNumberFg, 0.2),
		FocusBg:      boost(theme.FocusBg, 0.2),
		BorderFg:     boost(theme.BorderFg, 0.2),
		TitleFg:      boost(theme.TitleFg, 0.2),
		TitleBg:      boost(theme.TitleBg, 0.2),
		HelpFg:       boost(theme.HelpFg, 0.2),
		WarningFg:    boost(theme.WarningFg, 0.2),
	}
}

func adjustBrightness(hex string, factor float64) string {
	if len(hex) != 7 || hex[0] != '#' {
		return hex
	}

	var r, g, b int
	if _, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return hex
	}

	scale := func(value int) int {
		return min(int(float64(value)*(1+factor)), 255)
	}

	return fmt.Sprintf("#%02x%02x%02x", scale(r), scale(g), scale(b))
}

func envDefault(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func envInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return def
}
