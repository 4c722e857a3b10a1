package config

import (
	"reflect"
	"testing"
)

func TestParseAPIKeys(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[string]string
	}{
		{"empty", "", map[string]string{}},
		{"single pair", "abc:valley", map[string]string{"abc": "valley"}},
		{
			"multiple with spaces",
			"abc:valley, def:summit",
			map[string]string{"abc": "valley", "def": "summit"},
		},
		{"missing slug", "abc:", map[string]string{}},
		{"missing key", ":valley", map[string]string{}},
		{"no separator", "abc", map[string]string{}},
		{
			"mixed valid and invalid",
			"abc:valley,broken,def:summit",
			map[string]string{"abc": "valley", "def": "summit"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{APIKeys: tt.raw}
			if got := cfg.ParseAPIKeys(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseAPIKeys() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsDev(t *testing.T) {
	for _, env := range []string{"development", "dev"} {
		if !(&Config{Env: env}).IsDev() {
			t.Errorf("IsDev() = false for Env=%q", env)
		}
	}
	if (&Config{Env: "production"}).IsDev() {
		t.Error("IsDev() = true for Env=production")
	}
}
