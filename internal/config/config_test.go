package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOverridesDefaultsFromTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blacklab.toml")
	body := `
[collator]
locale = "nl"

[catalog]
backend = "postgres"
user = "reader"
password = "hunter2"
addr = "db.internal"
port = "5432"
db = "corpus"

[codec]
tokens_width_threshold = 512
merge_batch_size = 64
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Collator.Locale != "nl" {
		t.Fatalf("got locale %q, want nl", cfg.Collator.Locale)
	}
	if cfg.Catalog.Backend != "postgres" || cfg.Catalog.DB != "corpus" {
		t.Fatalf("got catalog %+v", cfg.Catalog)
	}
	if cfg.Codec.TokensWidthThreshold != 512 || cfg.Codec.MergeBatchSize != 64 {
		t.Fatalf("got codec %+v", cfg.Codec)
	}
}

func TestDefaultUsesMySQLBackend(t *testing.T) {
	cfg := Default()
	if cfg.Catalog.Backend != "mysql" {
		t.Fatalf("got backend %q, want mysql", cfg.Catalog.Backend)
	}
}
