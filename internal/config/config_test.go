package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"LINEDIFF_THEME", "LINEDIFF_HIGH_CONTRAST", "LINEDIFF_TAB_SIZE", "LINEDIFF_LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ThemePreset != PresetDefault || cfg.TabSize != 4 || !cfg.ShowLineNo {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("log level = %q", cfg.LogLevel)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("LINEDIFF_THEME", "Dracula")
	t.Setenv("LINEDIFF_HIGH_CONTRAST", "true")
	t.Setenv("LINEDIFF_TAB_SIZE", "2")
	t.Setenv("LINEDIFF_SIDE_BY_SIDE", "1")
	t.Setenv("LINEDIFF_LOG_LEVEL", "debug")
	t.Setenv("LINEDIFF_IGNORE_WHITESPACE", "not-a-bool")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ThemePreset != PresetDracula || !cfg.HighContrast || !cfg.SideBySide {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if cfg.TabSize != 2 || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected values %+v", cfg)
	}
	if cfg.IgnoreWhitespace {
		t.Fatalf("invalid bool should keep the default")
	}
	if cfg.Theme == ThemeForPreset(PresetDracula, false) {
		t.Fatalf("high contrast should change the theme")
	}
}

func TestLoadUnknownTheme(t *testing.T) {
	t.Setenv("LINEDIFF_THEME", "neon")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown theme")
	}
}

func TestAdjustBrightness(t *testing.T) {
	tests := []struct {
		in     string
		factor float64
		want   string
	}{
		{"#808080", 0.5, "#c0c0c0"},
		{"#f0f0f0", 0.5, "#ffffff"},
		{"red", 0.5, "red"},
	}
	for _, tt := range tests {
		if got := adjustBrightness(tt.in, tt.factor); got != tt.want {
			t.Fatalf("adjustBrightness(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMergeKeybindings(t *testing.T) {
	kb := MergeKeybindings(Keybindings{"quit": {"x"}, "reload": nil})
	if len(kb["quit"]) != 1 || kb["quit"][0] != "x" {
		t.Fatalf("override not applied: %v", kb["quit"])
	}
	if len(kb["reload"]) == 0 {
		t.Fatalf("empty override must keep the default")
	}
}
