package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTenantsFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tenants.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write tenants file: %v", err)
	}
	return path
}

func TestLoadTenants(t *testing.T) {
	path := writeTenantsFile(t, `
tenants:
  - slug: valley
    id: t-valley
    name: Valley Motors
  - slug: summit
    id: t-summit
    name: Summit Auto Group
`)

	registry, err := LoadTenants(path)
	if err != nil {
		t.Fatalf("LoadTenants() error = %v", err)
	}
	if registry.Open() {
		t.Error("registry with entries reports open")
	}

	tenant, ok := registry.BySlug("valley")
	if !ok {
		t.Fatal("valley not found by slug")
	}
	if tenant.ID != "t-valley" || tenant.Name != "Valley Motors" {
		t.Errorf("tenant = %+v", tenant)
	}

	tenant, ok = registry.ByID("t-summit")
	if !ok {
		t.Fatal("t-summit not found by id")
	}
	if tenant.Slug != "summit" {
		t.Errorf("Slug = %q", tenant.Slug)
	}

	if _, ok := registry.BySlug("ghost"); ok {
		t.Error("unknown slug resolved")
	}
}

func TestLoadTenantsMissingFileIsOpen(t *testing.T) {
	registry, err := LoadTenants(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadTenants() error = %v", err)
	}
	if !registry.Open() {
		t.Error("missing file should yield an open registry")
	}

	// Open registries treat the slug as the tenant id.
	tenant, ok := registry.BySlug("anything")
	if !ok || tenant.ID != "anything" {
		t.Errorf("BySlug = %+v, %v", tenant, ok)
	}
	tenant, ok = registry.ByID("whatever")
	if !ok || tenant.Slug != "whatever" {
		t.Errorf("ByID = %+v, %v", tenant, ok)
	}
}

func TestLoadTenantsRejectsBadEntries(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing id", "tenants:\n  - slug: valley\n    name: Valley\n"},
		{"missing slug", "tenants:\n  - id: t-valley\n    name: Valley\n"},
		{"not yaml", "tenants: [unclosed\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadTenants(writeTenantsFile(t, tt.content)); err == nil {
				t.Error("LoadTenants() accepted a bad file")
			}
		})
	}
}
