package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("JWT_SECRET", "0123456789abcdef")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Store.Backend != BackendMemory {
		t.Errorf("backend = %q, want memory", cfg.Store.Backend)
	}
	if cfg.Recommend.DefaultLimit != 5 || cfg.Recommend.MaxLimit != 50 {
		t.Errorf("limits = %d/%d, want 5/50", cfg.Recommend.DefaultLimit, cfg.Recommend.MaxLimit)
	}
	if cfg.Recommend.ExplicitWeight != 0.6 || cfg.Recommend.ImplicitWeight != 0.4 {
		t.Errorf("weights = %v/%v", cfg.Recommend.ExplicitWeight, cfg.Recommend.ImplicitWeight)
	}
	if cfg.Media.PresignTTL != 5*time.Minute {
		t.Errorf("presign ttl = %v", cfg.Media.PresignTTL)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := chdirTemp(t)
	yml := []byte("server:\n  port: \"9000\"\nstore:\n  backend: sqlite\n  sqlite_path: /tmp/x.db\nrecommend:\n  default_limit: 7\n")
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, yml, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("JWT_SECRET", "0123456789abcdef")
	t.Setenv("PORT", "9100")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "9100" {
		t.Errorf("env should win over file: port = %q", cfg.Server.Port)
	}
	if cfg.Store.Backend != BackendSQLite || cfg.Store.SQLitePath != "/tmp/x.db" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Recommend.DefaultLimit != 7 {
		t.Errorf("default limit = %d, want 7", cfg.Recommend.DefaultLimit)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "https://b.example" {
		t.Errorf("cors origins = %v", cfg.Server.CORSOrigins)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	chdirTemp(t)
	t.Setenv("JWT_SECRET", "0123456789abcdef")
	t.Setenv("STORE_BACKEND", "postgres")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for unknown backend")
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	chdirTemp(t)
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for missing jwt secret")
	}
}

func TestLoadScoringWeights(t *testing.T) {
	dir := chdirTemp(t)
	t.Setenv("JWT_SECRET", "0123456789abcdef")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	r := cfg.Recommend
	if r.SpeciesPoints != 2 {
		t.Errorf("species points = %v, want 2", r.SpeciesPoints)
	}
	if r.ImplicitSpecies != 0.40 || r.ImplicitSize != 0.20 || r.ImplicitAgeClass != 0.15 ||
		r.ImplicitSex != 0.15 || r.ImplicitCompatibility != 0.10 {
		t.Errorf("implicit weights = %+v", r)
	}

	yml := []byte("recommend:\n  species_points: 3\n  implicit_species: 0.5\n  implicit_size: 0.2\n  implicit_age_class: 0.1\n  implicit_sex: 0.1\n  implicit_compatibility: 0.1\n")
	path := filepath.Join(dir, "weights.yaml")
	if err := os.WriteFile(path, yml, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load with custom weights: %v", err)
	}
	if cfg.Recommend.SpeciesPoints != 3 || cfg.Recommend.ImplicitSpecies != 0.5 {
		t.Errorf("recommend = %+v", cfg.Recommend)
	}
}

func TestLoadRejectsImplicitWeightsNotSummingToOne(t *testing.T) {
	dir := chdirTemp(t)
	t.Setenv("JWT_SECRET", "0123456789abcdef")
	path := filepath.Join(dir, "weights.yaml")
	if err := os.WriteFile(path, []byte("recommend:\n  implicit_species: 0.9\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for implicit weights summing to 1.5")
	}
}
