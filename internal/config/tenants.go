package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tenant describes one dealership tenant: the public URL slug and the
// internal identifier used as the storage key prefix and signed into
// tokens.
type Tenant struct {
	Slug string `yaml:"slug"`
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// TenantRegistry maps tenant slugs and ids. When no registry file is
// configured the registry is open: slugs map to themselves, which is
// what single-tenant dev setups want.
type TenantRegistry struct {
	tenants []Tenant
	bySlug  map[string]*Tenant
	byID    map[string]*Tenant
}

// tenantsFile is the YAML structure of the registry file.
type tenantsFile struct {
	Tenants []Tenant `yaml:"tenants"`
}

// LoadTenants reads the YAML tenant registry. A missing file is not an
// error; it yields an open registry.
func LoadTenants(path string) (*TenantRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return newRegistry(nil), nil
		}
		return nil, fmt.Errorf("read tenants file: %w", err)
	}

	var file tenantsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse tenants file: %w", err)
	}

	for _, t := range file.Tenants {
		if t.Slug == "" || t.ID == "" {
			return nil, fmt.Errorf("tenants file: entry %q missing slug or id", t.Name)
		}
	}
	return newRegistry(file.Tenants), nil
}

// NewTenantRegistry builds a registry from explicit entries; tests use
// this to avoid touching the filesystem.
func NewTenantRegistry(tenants ...Tenant) *TenantRegistry {
	return newRegistry(tenants)
}

func newRegistry(tenants []Tenant) *TenantRegistry {
	r := &TenantRegistry{
		tenants: tenants,
		bySlug:  make(map[string]*Tenant, len(tenants)),
		byID:    make(map[string]*Tenant, len(tenants)),
	}
	for i := range r.tenants {
		t := &r.tenants[i]
		r.bySlug[t.Slug] = t
		r.byID[t.ID] = t
	}
	return r
}

// Open reports whether the registry accepts arbitrary slugs.
func (r *TenantRegistry) Open() bool {
	return len(r.tenants) == 0
}

// BySlug resolves a public slug to a tenant. In an open registry the
// slug doubles as the tenant id.
func (r *TenantRegistry) BySlug(slug string) (*Tenant, bool) {
	if r.Open() {
		return &Tenant{Slug: slug, ID: slug}, true
	}
	t, ok := r.bySlug[slug]
	return t, ok
}

// ByID resolves an internal tenant id.
func (r *TenantRegistry) ByID(id string) (*Tenant, bool) {
	if r.Open() {
		return &Tenant{Slug: id, ID: id}, true
	}
	t, ok := r.byID[id]
	return t, ok
}
