package cargo

import (
	"testing"

	apperrors "github.com/relengkit/attributor/pkg/errors"
)

// metadataSample mirrors the cargo metadata JSON surface: normal
// dependency kinds and unconditional targets are serialized as null,
// and a manifest without a license field yields a null license.
const metadataSample = `{
  "packages": [
    {
      "name": "app",
      "version": "0.5.0",
      "license": "GPL-3.0-or-later",
      "manifest_path": "/work/app/Cargo.toml",
      "dependencies": [
        {"name": "serde", "kind": null, "target": null},
        {"name": "tempfile", "kind": "dev", "target": null},
        {"name": "winapi", "kind": null, "target": "cfg(windows)"}
      ]
    },
    {
      "name": "serde",
      "version": "1.0.219",
      "license": "MIT OR Apache-2.0",
      "manifest_path": "/registry/serde-1.0.219/Cargo.toml",
      "dependencies": []
    },
    {
      "name": "mystery",
      "version": "0.1.0",
      "license": null,
      "manifest_path": "/registry/mystery-0.1.0/Cargo.toml",
      "dependencies": []
    }
  ],
  "workspace_members": ["app 0.5.0"],
  "version": 1
}`

func TestDecodeMetadata(t *testing.T) {
	g, err := decodeMetadata([]byte(metadataSample))
	if err != nil {
		t.Fatalf("decodeMetadata error: %v", err)
	}

	if g.Len() != 3 {
		t.Fatalf("Len = %d, want 3", g.Len())
	}

	app, ok := g.Package("app")
	if !ok {
		t.Fatal("package app not found")
	}
	if app.Version != "0.5.0" {
		t.Errorf("Version = %q, want %q", app.Version, "0.5.0")
	}
	if app.License != "GPL-3.0-or-later" {
		t.Errorf("License = %q, want %q", app.License, "GPL-3.0-or-later")
	}
	if app.ManifestPath != "/work/app/Cargo.toml" {
		t.Errorf("ManifestPath = %q", app.ManifestPath)
	}
	if len(app.Dependencies) != 3 {
		t.Fatalf("Dependencies = %d, want 3", len(app.Dependencies))
	}

	// null kind decodes to the normal kind
	if app.Dependencies[0].Kind != KindNormal {
		t.Errorf("null kind = %q, want normal", app.Dependencies[0].Kind)
	}
	if app.Dependencies[1].Kind != KindDev {
		t.Errorf("dev kind = %q", app.Dependencies[1].Kind)
	}

	// null target decodes to empty, cfg targets survive verbatim
	if app.Dependencies[0].Target != "" {
		t.Errorf("null target = %q, want empty", app.Dependencies[0].Target)
	}
	if app.Dependencies[2].Target != "cfg(windows)" {
		t.Errorf("target = %q, want cfg(windows)", app.Dependencies[2].Target)
	}

	// null license decodes to empty
	mystery, _ := g.Package("mystery")
	if mystery.License != "" {
		t.Errorf("null license = %q, want empty", mystery.License)
	}

	if _, ok := g.Package("absent"); ok {
		t.Error("lookup of absent package should fail")
	}

	// metadata order is preserved
	pkgs := g.Packages()
	if pkgs[0].Name != "app" || pkgs[1].Name != "serde" || pkgs[2].Name != "mystery" {
		t.Errorf("unexpected package order: %v", pkgs)
	}
}

func TestDecodeMetadataInvalid(t *testing.T) {
	_, err := decodeMetadata([]byte("not json"))
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	if !apperrors.Is(err, apperrors.ErrCodeMetadata) {
		t.Errorf("want METADATA_ERROR, got %v", err)
	}
}
