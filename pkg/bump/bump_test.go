package bump

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/relengkit/attributor/pkg/errors"
	"github.com/relengkit/attributor/pkg/policy"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	manifest := writeFile(t, dir, "Cargo.toml", `[package]
name = "libloot"
version = "0.27.0"

[dependencies]
other = { version = "1.2.3" }
`)
	pkgJSON := writeFile(t, dir, "package.json", `{
  "name": "@loot/libloot",
  "version": "0.27.0",
  "private": false
}
`)

	rules := []policy.BumpRule{
		{Path: manifest, Pattern: `^version = "\d+\.\d+\.\d+"`, Replace: `version = "{version}"`},
		{Path: pkgJSON, Pattern: `"version": "\d+\.\d+\.\d+",`, Replace: `"version": "{version}",`},
	}

	results, err := Run("0.28.1", rules, false)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Run() returned %d results, want 2", len(results))
	}

	for _, r := range results {
		if r.Replacements != 1 {
			t.Errorf("%s: replacements = %d, want 1", r.Path, r.Replacements)
		}
		if !r.Changed {
			t.Errorf("%s: expected Changed", r.Path)
		}
	}

	got := readFile(t, manifest)
	if !strings.Contains(got, "version = \"0.28.1\"\n") {
		t.Errorf("Cargo.toml not updated:\n%s", got)
	}
	// The anchored pattern must leave the dependency version alone.
	if !strings.Contains(got, `other = { version = "1.2.3" }`) {
		t.Errorf("dependency version was clobbered:\n%s", got)
	}

	if got := readFile(t, pkgJSON); !strings.Contains(got, `"version": "0.28.1",`) {
		t.Errorf("package.json not updated:\n%s", got)
	}
}

func TestRunPlaceholders(t *testing.T) {
	dir := t.TempDir()
	header := writeFile(t, dir, "version.h", `LIBLOOT_VERSION_MAJOR = 0;
LIBLOOT_VERSION_MINOR = 27;
LIBLOOT_VERSION_PATCH = 0;
`)

	rules := []policy.BumpRule{
		{Path: header, Pattern: `LIBLOOT_VERSION_MAJOR = \d+;`, Replace: `LIBLOOT_VERSION_MAJOR = {major};`},
		{Path: header, Pattern: `LIBLOOT_VERSION_MINOR = \d+;`, Replace: `LIBLOOT_VERSION_MINOR = {minor};`},
		{Path: header, Pattern: `LIBLOOT_VERSION_PATCH = \d+;`, Replace: `LIBLOOT_VERSION_PATCH = {patch};`},
	}

	if _, err := Run("1.28.3", rules, false); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := `LIBLOOT_VERSION_MAJOR = 1;
LIBLOOT_VERSION_MINOR = 28;
LIBLOOT_VERSION_PATCH = 3;
`
	if got := readFile(t, header); got != want {
		t.Errorf("header = %q, want %q", got, want)
	}
}

func TestRunDryRun(t *testing.T) {
	dir := t.TempDir()
	content := "version = \"0.27.0\"\n"
	manifest := writeFile(t, dir, "Cargo.toml", content)

	rules := []policy.BumpRule{
		{Path: manifest, Pattern: `^version = "\d+\.\d+\.\d+"`, Replace: `version = "{version}"`},
	}

	results, err := Run("0.28.0", rules, true)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if results[0].Replacements != 1 {
		t.Errorf("replacements = %d, want 1", results[0].Replacements)
	}
	if results[0].Changed {
		t.Error("dry run must not report Changed")
	}
	if got := readFile(t, manifest); got != content {
		t.Errorf("dry run modified the file:\n%s", got)
	}
}

func TestRunMissingFile(t *testing.T) {
	rules := []policy.BumpRule{
		{Path: filepath.Join(t.TempDir(), "absent.toml"), Pattern: `x`, Replace: `y`},
	}

	results, err := Run("1.0.0", rules, false)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !results[0].Missing {
		t.Error("expected Missing for absent file")
	}
}

func TestRunNoMatches(t *testing.T) {
	dir := t.TempDir()
	manifest := writeFile(t, dir, "Cargo.toml", "[package]\nname = \"x\"\n")

	rules := []policy.BumpRule{
		{Path: manifest, Pattern: `^version = "\d+\.\d+\.\d+"`, Replace: `version = "{version}"`},
	}

	results, err := Run("1.0.0", rules, false)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if results[0].Replacements != 0 {
		t.Errorf("replacements = %d, want 0", results[0].Replacements)
	}
	if results[0].Changed {
		t.Error("no matches must not report Changed")
	}
}

func TestRunInvalidVersion(t *testing.T) {
	tests := []string{
		"",
		"1",
		"1.2",
		"1.2.3.4",
		"v1.2.3",
		"1.2.3-rc.1",
		"1.2.3+build",
		"a.b.c",
	}

	for _, version := range tests {
		t.Run(version, func(t *testing.T) {
			_, err := Run(version, nil, false)
			if err == nil {
				t.Fatalf("Run(%q) expected error", version)
			}
			if code := apperrors.GetCode(err); code != apperrors.ErrCodeInvalidVersion {
				t.Errorf("error code = %v, want %v", code, apperrors.ErrCodeInvalidVersion)
			}
		})
	}
}

func TestRunInvalidPattern(t *testing.T) {
	rules := []policy.BumpRule{{Path: "x", Pattern: `[`, Replace: `y`}}

	_, err := Run("1.0.0", rules, false)
	if err == nil {
		t.Fatal("expected error for invalid pattern")
	}
	if code := apperrors.GetCode(err); code != apperrors.ErrCodeInvalidConfig {
		t.Errorf("error code = %v, want %v", code, apperrors.ErrCodeInvalidConfig)
	}
}
