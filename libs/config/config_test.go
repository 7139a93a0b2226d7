package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestPort(t *testing.T) {
	t.Setenv("TEST_PORT", "8081")
	if p, err := Port("TEST_PORT", "80"); err != nil || p != "8081" {
		t.Fatalf("expected 8081, got %q (%v)", p, err)
	}

	t.Setenv("TEST_PORT", "99999")
	if _, err := Port("TEST_PORT", "80"); err == nil {
		t.Fatal("expected error for out of range port")
	}
}

func TestParse(t *testing.T) {
	type settings struct {
		Name    string   `env:"TEST_NAME" envDefault:"site"`
		Workers int      `env:"TEST_WORKERS" envDefault:"2"`
		Origins []string `env:"TEST_ORIGINS" envSeparator:","`
	}
	t.Setenv("TEST_WORKERS", "4")
	t.Setenv("TEST_ORIGINS", "https://a.example,https://b.example")

	got, err := Parse[settings]()
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := settings{Name: "site", Workers: 4, Origins: []string{"https://a.example", "https://b.example"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("wanted %+v, got %+v", want, got)
	}
}

func TestLoadDotenv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("DOTENV_ONLY=from-file\nDOTENV_SET=from-file\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("DOTENV_SET", "from-env")
	t.Cleanup(func() { _ = os.Unsetenv("DOTENV_ONLY") })

	if err := LoadDotenv(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("LoadDotenv failed: %v", err)
	}
	if got := os.Getenv("DOTENV_ONLY"); got != "from-file" {
		t.Fatalf("expected from-file, got %q", got)
	}
	if got := os.Getenv("DOTENV_SET"); got != "from-env" {
		t.Fatalf("existing variable overwritten: %q", got)
	}
}

func TestList(t *testing.T) {
	got := List(" a, ,b ,")
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("unexpected list: %v", got)
	}
	if !Truthy("Yes") || Truthy("off") {
		t.Fatal("Truthy mismatch")
	}
}
