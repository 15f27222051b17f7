package config

import (
	"strings"
	"testing"
)

func TestCompilePatternsAnchored(t *testing.T) {
	compiled, err := CompilePatterns([]string{DefaultExtensionPattern})
	if err != nil {
		t.Fatalf("CompilePatterns: %v", err)
	}
	re := compiled[0]

	for _, name := range []string{"main.c", "app.cpp", "x.py", "Index.java", "style.css", "q.sql", "notes.txt"} {
		if !re.MatchString(name) {
			t.Errorf("%s should match", name)
		}
	}
	for _, name := range []string{"README.md", "main.go", "archive.py.bak", "txt"} {
		if re.MatchString(name) {
			t.Errorf("%s should not match", name)
		}
	}
}

func TestCompilePatternsMatchesFromStart(t *testing.T) {
	compiled, err := CompilePatterns([]string{`lib`})
	if err != nil {
		t.Fatal(err)
	}
	if !compiled[0].MatchString("libfoo.c") || compiled[0].MatchString("mylib.c") {
		t.Fatal("pattern should only match at the start of the name")
	}
}

func TestCompilePatternsInvalid(t *testing.T) {
	if _, err := CompilePatterns([]string{`([a-z`}); err == nil {
		t.Fatal("expected error for invalid pattern")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("REFERENCE_CORPUS_DIR", "")
	t.Setenv("EXTENSION_PATTERNS", "")
	t.Setenv("MIN_TOKEN_LENGTH", "")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.ExtensionPatterns) != 1 || cfg.ExtensionPatterns[0] != DefaultExtensionPattern {
		t.Fatalf("ExtensionPatterns = %v", cfg.ExtensionPatterns)
	}
	if cfg.MinTokenLength != 1 {
		t.Fatalf("MinTokenLength = %d, want 1", cfg.MinTokenLength)
	}
	if err := cfg.ValidateAnalysis(); err == nil || !strings.Contains(err.Error(), "REFERENCE_CORPUS_DIR") {
		t.Fatalf("expected missing reference error, got %v", err)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("REFERENCE_CORPUS_DIR", "/srv/corpus")
	t.Setenv("EXTENSION_PATTERNS", `.*\.go$, .*\.rs$`)
	t.Setenv("MIN_TOKEN_LENGTH", "2")
	t.Setenv("CHECK_TIMEOUT_MINUTES", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ReferenceCorpusDir != "/srv/corpus" {
		t.Fatalf("ReferenceCorpusDir = %q", cfg.ReferenceCorpusDir)
	}
	if len(cfg.ExtensionPatterns) != 2 || cfg.ExtensionPatterns[1] != `.*\.rs$` {
		t.Fatalf("ExtensionPatterns = %v", cfg.ExtensionPatterns)
	}
	if cfg.MinTokenLength != 2 || cfg.CheckTimeout.Minutes() != 5 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if err := cfg.ValidateAnalysis(); err != nil {
		t.Fatalf("ValidateAnalysis: %v", err)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			MongoURI:                "mongodb://localhost:27017",
			MongoDBName:             "aegis",
			RedisHost:               "localhost:6379",
			ReferenceCorpusDir:      "/srv/corpus",
			WorkspaceDir:            "/tmp/ws",
			ExtensionPatterns:       []string{DefaultExtensionPattern},
			MinTokenLength:          1,
			JWTSecret:               "secret",
			MaxConcurrentChecks:     2,
			CheckTimeout:            1,
			StreamRetentionDuration: 1,
		}
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"no mongo", func(c *Config) { c.MongoURI = "" }, "MONGO_URI"},
		{"no jwt", func(c *Config) { c.JWTSecret = "" }, "JWT_SECRET"},
		{"no patterns", func(c *Config) { c.ExtensionPatterns = nil }, "EXTENSION_PATTERNS"},
		{"bad pattern", func(c *Config) { c.ExtensionPatterns = []string{"("} }, "invalid extension pattern"},
		{"token length", func(c *Config) { c.MinTokenLength = 0 }, "MIN_TOKEN_LENGTH"},
		{"concurrency", func(c *Config) { c.MaxConcurrentChecks = 0 }, "MAX_CONCURRENT_CHECKS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Validate() = %v, want error containing %q", err, tt.want)
			}
		})
	}
}
