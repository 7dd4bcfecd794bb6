package secrets

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromValue(t *testing.T) {
	secret, err := Load(Source{Name: "api key", Value: "  inline-secret  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secret != "inline-secret" {
		t.Fatalf("expected trimmed value, got %q", secret)
	}
}

func TestLoadFromFileTakesPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("file-secret\n"), 0o600); err != nil {
		t.Fatalf("write secret file: %v", err)
	}

	secret, err := Load(Source{Name: "api key", Value: "inline-secret", File: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secret != "file-secret" {
		t.Fatalf("file must win over inline value, got %q", secret)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("JOBMATCH_TEST_SECRET", "env-secret")

	secret, err := Load(Source{Name: "api key", Env: "JOBMATCH_TEST_SECRET", Value: "inline-secret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secret != "env-secret" {
		t.Fatalf("env must win over inline value, got %q", secret)
	}
}

func TestLoadEmptyEnvFallsBack(t *testing.T) {
	t.Setenv("JOBMATCH_TEST_SECRET", "   ")

	secret, err := Load(Source{Name: "api key", Env: "JOBMATCH_TEST_SECRET", Value: "inline-secret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secret != "inline-secret" {
		t.Fatalf("blank env must fall back to value, got %q", secret)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(Source{Name: "api key"}); err == nil {
		t.Fatal("expected error for empty source")
	}

	if _, err := Load(Source{Name: "api key", File: "/nonexistent/key"}); err == nil {
		t.Fatal("expected error for unreadable file")
	}

	empty := filepath.Join(t.TempDir(), "empty")
	if err := os.WriteFile(empty, []byte("  \n"), 0o600); err != nil {
		t.Fatalf("write empty file: %v", err)
	}
	if _, err := Load(Source{Name: "api key", File: empty}); err == nil {
		t.Fatal("expected error for empty secret file")
	}
}
