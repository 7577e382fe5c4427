// Package config loads the engine's runtime configuration from a TOML
// file: collator locale, catalog DSN, and codec tuning knobs. Mirrors
// the teacher's DBConfig/NewDBConfig value-object style, generalized
// from "just a DB connection" to the full set of knobs this engine
// needs.
package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"corpussearch/blacklab/internal/catalog"
)

// Config is the top-level value object decoded from a TOML file.
type Config struct {
	Collator CollatorConfig `toml:"collator"`
	Catalog  CatalogConfig  `toml:"catalog"`
	Codec    CodecConfig    `toml:"codec"`
}

// CollatorConfig picks the locale internal/collate builds its
// case-sensitive/insensitive comparators from.
type CollatorConfig struct {
	Locale string `toml:"locale"`
}

// CatalogConfig is the segment-catalog connection: which backend
// ("mysql" or "postgres") and its DSN fields.
type CatalogConfig struct {
	Backend  string `toml:"backend"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Addr     string `toml:"addr"`
	Port     string `toml:"port"`
	DB       string `toml:"db"`
}

// DSN converts the TOML-loaded fields into catalog.DSN.
func (c CatalogConfig) DSN() catalog.DSN {
	return catalog.DSN{User: c.User, Password: c.Password, Addr: c.Addr, Port: c.Port, DB: c.DB}
}

// CodecConfig holds two codec tuning knobs loaded from the [codec] table
// (with defaults from Default). Nothing in internal/codec reads them: the
// tokens width of a doc is chosen by codec.WidthFor from the doc's largest
// term id alone, and the codec has no merge step.
type CodecConfig struct {
	TokensWidthThreshold int `toml:"tokens_width_threshold"`
	MergeBatchSize       int `toml:"merge_batch_size"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		Collator: CollatorConfig{Locale: "en"},
		Catalog:  CatalogConfig{Backend: "mysql"},
		Codec:    CodecConfig{TokensWidthThreshold: 256, MergeBatchSize: 32},
	}
}

// Load reads and decodes a TOML config file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
