package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("expected defaults to load, got %v", err)
	}

	if cfg.HTTPAddr != ":8000" {
		t.Fatalf("expected default addr :8000, got %q", cfg.HTTPAddr)
	}
	if cfg.RegistrySource != "csv" || cfg.RegistrySourcePath != DefaultSourceURL {
		t.Fatalf("expected csv source from %s, got %s from %s", DefaultSourceURL, cfg.RegistrySource, cfg.RegistrySourcePath)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:3000" {
		t.Fatalf("expected localhost:3000 CORS origin, got %v", cfg.CORSOrigins)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Fatalf("expected 10s request timeout, got %s", cfg.RequestTimeout)
	}
}

func TestFromEnvWildcardCORS(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "http://a.example, *")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.CORSAllowAll {
		t.Fatalf("expected wildcard origin to enable CORSAllowAll")
	}
}

func TestFromEnvPostgresRequiresDatabaseURL(t *testing.T) {
	t.Setenv("REGISTRY_SOURCE", "postgres")
	t.Setenv("DATABASE_URL", "")

	if _, err := FromEnv(); err == nil {
		t.Fatalf("expected error when postgres source has no DATABASE_URL")
	}
}

func TestFromEnvRejectsUnknownSource(t *testing.T) {
	t.Setenv("REGISTRY_SOURCE", "sqlite")

	if _, err := FromEnv(); err == nil {
		t.Fatalf("expected error for unsupported source")
	}
}

func TestFromEnvMinIOSourceRequiresEndpoint(t *testing.T) {
	t.Setenv("REGISTRY_SOURCE", "minio")
	t.Setenv("MINIO_ENDPOINT", "")

	if _, err := FromEnv(); err == nil {
		t.Fatalf("expected error when minio source has no endpoint")
	}
}

func TestFromEnvRejectsPostgresImportSource(t *testing.T) {
	t.Setenv("IMPORT_SOURCE", "postgres")

	if _, err := FromEnv(); err == nil {
		t.Fatalf("expected error when importing from the import target")
	}
}
