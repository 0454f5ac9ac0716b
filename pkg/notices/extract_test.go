package notices

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/relengkit/attributor/pkg/cargo"
	"github.com/relengkit/attributor/pkg/policy"
)

// writeCrate lays out a fake crate directory and returns the package
// pointing at its manifest. Keys ending in "/" become directories whose
// value is ignored; nested paths are created as needed.
func writeCrate(t *testing.T, name string, files map[string]string) cargo.Package {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	return cargo.Package{
		Name:         name,
		Version:      "1.0.0",
		ManifestPath: filepath.Join(root, "Cargo.toml"),
	}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  []string
	}{
		{
			name: "single license file",
			files: map[string]string{
				"LICENSE": "MIT License\n\nCopyright (c) 2019 Jane Doe\n\nPermission is hereby granted...\n",
			},
			want: []string{"Copyright (c) 2019 Jane Doe"},
		},
		{
			name: "trims surrounding whitespace",
			files: map[string]string{
				"LICENSE": "   Copyright (c) 2019 Jane Doe\t\n",
			},
			want: []string{"Copyright (c) 2019 Jane Doe"},
		},
		{
			name: "matches by year without (c)",
			files: map[string]string{
				"COPYING": "Copyright 2015 The Rust Project Developers\n",
			},
			want: []string{"Copyright 2015 The Rust Project Developers"},
		},
		{
			name: "matches copyright sign",
			files: map[string]string{
				"LICENSE.txt": "Copyright © Example Corp\n",
			},
			want: []string{"Copyright © Example Corp"},
		},
		{
			name: "ignores grant boilerplate",
			files: map[string]string{
				"LICENSE": "Copyright (c) 2019 Jane Doe\n\nThe above copyright notice and this permission notice shall be included\n",
			},
			want: []string{"Copyright (c) 2019 Jane Doe"},
		},
		{
			name: "ignores unrelated files",
			files: map[string]string{
				"README.md":  "Copyright (c) 2019 Jane Doe\n",
				"src/lib.rs": "// Copyright (c) 2019 Jane Doe\n",
			},
			want: nil,
		},
		{
			name: "candidate name is case insensitive",
			files: map[string]string{
				"License-MIT": "Copyright (c) 2019 Jane Doe\n",
			},
			want: []string{"Copyright (c) 2019 Jane Doe"},
		},
		{
			name: "deduplicates across files and sorts",
			files: map[string]string{
				"LICENSE-MIT":    "Copyright (c) 2019 Jane Doe\n",
				"LICENSE-APACHE": "Copyright (c) 2019 Jane Doe\nCopyright (c) 2017 Another One\n",
			},
			want: []string{
				"Copyright (c) 2017 Another One",
				"Copyright (c) 2019 Jane Doe",
			},
		},
		{
			name: "scans license directories one level deep",
			files: map[string]string{
				"LICENSES/MIT.txt":          "Copyright (c) 2019 Jane Doe\n",
				"LICENSES/nested/EXTRA.txt": "Copyright (c) 2020 Hidden Person\n",
				"LICENSES/Apache-2.0.txt":   "Copyright 2018 Example Corp\n",
			},
			want: []string{
				"Copyright (c) 2019 Jane Doe",
				"Copyright 2018 Example Corp",
			},
		},
		{
			name:  "no candidates yields empty",
			files: map[string]string{"src/lib.rs": "fn main() {}\n"},
			want:  nil,
		},
	}

	pol := policy.Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg := writeCrate(t, "example", tt.files)
			got, err := Extract(pkg, pol)
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractOverride(t *testing.T) {
	// Overridden crates never touch the filesystem, so a manifest path
	// that does not exist must not matter.
	pkg := cargo.Package{
		Name:         "hashlink",
		Version:      "0.10.0",
		ManifestPath: "/does/not/exist/Cargo.toml",
	}
	got, err := Extract(pkg, policy.Default())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	want := []string{"Copyright (c) 2015 The Rust Project Developers"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %q, want %q", got, want)
	}
}

func TestExtractMissingDirectory(t *testing.T) {
	pkg := cargo.Package{
		Name:         "example",
		Version:      "1.0.0",
		ManifestPath: "/does/not/exist/Cargo.toml",
	}
	if _, err := Extract(pkg, policy.Default()); err == nil {
		t.Fatal("Extract() expected error for missing crate directory")
	}
}

func TestIsNoticeLine(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"Copyright (c) 2019 Jane Doe", true},
		{"Copyright (C) 2017 Oliver Hamlet", true},
		{"Copyright © Example Corp", true},
		{"Copyright 2015 The Rust Project Developers", true},
		{"copyright (c) lowercase works", true},
		{"Copyright by Someone", false},
		{"(c) 2020 no copyright word", false},
		{"THE SOFTWARE IS PROVIDED \"AS IS\"", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isNoticeLine(tt.line); got != tt.want {
			t.Errorf("isNoticeLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}
