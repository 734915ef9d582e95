package hunlint

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by the commands. Command-line flags
// override the values read from the file.
type Config struct {
	// Affix is the path of the .aff file.
	Affix string `yaml:"affix"`
	// Dictionary is the path of the .dic file.
	Dictionary string `yaml:"dictionary"`
	// Workers bounds batch parallelism; 0 means one per CPU.
	Workers int `yaml:"workers"`
	// CompoundLimit bounds the compounds listed per rule.
	CompoundLimit int `yaml:"compound_limit"`
	// KeepLongestCommonAffix widens reduced conditions to the longest
	// ending shared by their stems.
	KeepLongestCommonAffix bool `yaml:"keep_longest_common_affix"`
	// Listen is the server address.
	Listen string `yaml:"listen"`
	// AllowedOrigins lists the CORS origins accepted by the server.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() Config {
	return Config{
		CompoundLimit:  100,
		Listen:         ":8080",
		AllowedOrigins: []string{"*"},
	}
}

// LoadConfig reads a YAML config file over DefaultConfig. Unknown keys are
// rejected.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return DecodeConfig(f)
}

// DecodeConfig reads a YAML config over DefaultConfig.
func DecodeConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if cfg.CompoundLimit < 0 {
		return Config{}, fmt.Errorf("decode config: compound_limit must not be negative")
	}
	return cfg, nil
}
