package hunlint

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestDecodeConfig(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		want    Config
		wantErr bool
	}{
		{"empty", "", DefaultConfig(), false},
		{"overrides", `
affix: en.aff
dictionary: en.dic
workers: 4
compound_limit: 10
keep_longest_common_affix: true
listen: 127.0.0.1:9000
allowed_origins: ["https://example.org"]
`, Config{
			Affix:                  "en.aff",
			Dictionary:             "en.dic",
			Workers:                4,
			CompoundLimit:          10,
			KeepLongestCommonAffix: true,
			Listen:                 "127.0.0.1:9000",
			AllowedOrigins:         []string{"https://example.org"},
		}, false},
		{"partial", "workers: 2\n", func() Config { c := DefaultConfig(); c.Workers = 2; return c }(), false},
		{"unknown key", "affixes: en.aff\n", Config{}, true},
		{"negative limit", "compound_limit: -1\n", Config{}, true},
		{"bad type", "workers: many\n", Config{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeConfig(strings.NewReader(tt.yaml))
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeConfig error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.Affix != tt.want.Affix || got.Dictionary != tt.want.Dictionary || got.Workers != tt.want.Workers ||
				got.CompoundLimit != tt.want.CompoundLimit || got.KeepLongestCommonAffix != tt.want.KeepLongestCommonAffix ||
				got.Listen != tt.want.Listen || !slices.Equal(got.AllowedOrigins, tt.want.AllowedOrigins) {
				t.Errorf("DecodeConfig = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hunlint.yaml")
	if err := os.WriteFile(path, []byte("affix: de.aff\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Affix != "de.aff" || cfg.Listen != DefaultConfig().Listen {
		t.Errorf("LoadConfig = %+v", cfg)
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should fail")
	}
}
