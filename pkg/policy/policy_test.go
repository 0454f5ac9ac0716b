package policy

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/relengkit/attributor/pkg/errors"
)

func TestDefaultTables(t *testing.T) {
	p := Default()

	tests := []struct {
		name string
		got  bool
		want bool
	}{
		{"CC0-1.0 is notice exempt", p.IsNoticeExempt("CC0-1.0"), true},
		{"MPL-2.0 is notice exempt", p.IsNoticeExempt("MPL-2.0"), true},
		{"MIT is not notice exempt", p.IsNoticeExempt("MIT"), false},
		{"exempt license skips text file", p.SkipsTextFile("Unlicense"), true},
		{"GPL-3.0-or-later skips text file", p.SkipsTextFile("GPL-3.0-or-later"), true},
		{"Apache-2.0 does not skip text file", p.SkipsTextFile("Apache-2.0"), false},
		{"libloot is own crate", p.IsOwnCrate("libloot"), true},
		{"serde is not own crate", p.IsOwnCrate("serde"), false},
		{"redox target excluded", p.IsExcludedTarget(`cfg(target_os = "redox")`), true},
		{"empty target not excluded", p.IsExcludedTarget(""), false},
		{"windows target not excluded", p.IsExcludedTarget(`cfg(windows)`), false},
		{"whitelisted pair", p.AllowsEmptyNotices("serde", "1.0.219"), true},
		{"version drift invalidates", p.AllowsEmptyNotices("serde", "1.0.220"), false},
		{"unknown crate not whitelisted", p.AllowsEmptyNotices("rand", "0.8.5"), false},
		{"all exempt", p.AllNoticeExempt([]string{"CC0-1.0", "Zlib"}), true},
		{"mixed not all exempt", p.AllNoticeExempt([]string{"CC0-1.0", "MIT"}), false},
		{"empty list all exempt", p.AllNoticeExempt(nil), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestDefaultOverrides(t *testing.T) {
	p := Default()

	lines, ok := p.OverrideNotices("hashlink")
	if !ok {
		t.Fatal("expected override for hashlink")
	}
	if len(lines) != 1 || lines[0] != "Copyright (c) 2015 The Rust Project Developers" {
		t.Errorf("unexpected hashlink override: %v", lines)
	}

	if _, ok := p.OverrideNotices("serde"); ok {
		t.Error("serde should have no override")
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	p, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if !p.IsNoticeExempt("Zlib") {
		t.Error("defaults should survive empty path")
	}
}

func TestLoadOverlay(t *testing.T) {
	content := `
[licenses]
notice_exempt = ["WTFPL"]

[[licenses.rewrite]]
match = "BSD"
replace = "BSD-3-Clause"

[crates]
own = ["mycrate"]

[[crates.no_notices]]
name = "widget"
version = "0.1.0"

[crates.notice_overrides]
widget = ["Copyright (c) 2020 Widget Authors"]

[platforms]
excluded = ["cfg(target_os = \"haiku\")"]
`
	path := filepath.Join(t.TempDir(), "policy.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	// Present keys replace defaults wholesale
	if !p.IsNoticeExempt("WTFPL") {
		t.Error("overlay notice_exempt should apply")
	}
	if p.IsNoticeExempt("CC0-1.0") {
		t.Error("overlay should replace the exempt set, not merge")
	}
	if !p.IsOwnCrate("mycrate") || p.IsOwnCrate("libloot") {
		t.Error("overlay own crates should replace defaults")
	}
	if !p.AllowsEmptyNotices("widget", "0.1.0") {
		t.Error("overlay whitelist should apply")
	}
	if p.AllowsEmptyNotices("serde", "1.0.219") {
		t.Error("overlay should replace the whitelist")
	}
	if !p.IsExcludedTarget(`cfg(target_os = "haiku")`) {
		t.Error("overlay excluded targets should apply")
	}
	if p.IsExcludedTarget(`cfg(target_os = "redox")`) {
		t.Error("overlay should replace excluded targets")
	}
	if len(p.Rewrites) != 1 || p.Rewrites[0].Match != "BSD" {
		t.Errorf("overlay rewrites should replace defaults: %v", p.Rewrites)
	}

	// Absent keys keep defaults
	if !p.SkipsTextFile("GPL-3.0-only") {
		t.Error("absent no_text_file key should keep defaults")
	}
	if len(p.DefaultPlatforms) != 2 {
		t.Errorf("absent platforms.default should keep defaults: %v", p.DefaultPlatforms)
	}
	if len(p.BumpRules) != 2 {
		t.Errorf("absent bump.rules should keep defaults: %v", p.BumpRules)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
		if !apperrors.Is(err, apperrors.ErrCodeInvalidConfig) {
			t.Errorf("want INVALID_CONFIG, got %v", err)
		}
	})

	t.Run("malformed toml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.toml")
		if err := os.WriteFile(path, []byte("[licenses\n"), 0644); err != nil {
			t.Fatal(err)
		}
		_, err := Load(path)
		if !apperrors.Is(err, apperrors.ErrCodeInvalidConfig) {
			t.Errorf("want INVALID_CONFIG, got %v", err)
		}
	})

	t.Run("empty rewrite match", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rewrite.toml")
		content := "[[licenses.rewrite]]\nmatch = \"\"\nreplace = \"MIT\"\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		_, err := Load(path)
		if !apperrors.Is(err, apperrors.ErrCodeInvalidConfig) {
			t.Errorf("want INVALID_CONFIG, got %v", err)
		}
	})

	t.Run("invalid bump pattern", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bump.toml")
		content := "[[bump.rules]]\npath = \"Cargo.toml\"\npattern = \"(\"\nreplace = \"x\"\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		_, err := Load(path)
		if !apperrors.Is(err, apperrors.ErrCodeInvalidConfig) {
			t.Errorf("want INVALID_CONFIG, got %v", err)
		}
	})

	t.Run("incomplete whitelist pair", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pair.toml")
		content := "[[crates.no_notices]]\nname = \"widget\"\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		_, err := Load(path)
		if !apperrors.Is(err, apperrors.ErrCodeInvalidConfig) {
			t.Errorf("want INVALID_CONFIG, got %v", err)
		}
	})
}
