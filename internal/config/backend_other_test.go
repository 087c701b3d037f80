//go:build !darwin

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileBackendRoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "skillagent", "config.json")

	b := newFileBackend(p)
	if err := b.SetInt("server.port", 4100); err != nil {
		t.Fatalf("SetInt: %v", err)
	}
	if err := b.SetString("llm.model", "gpt-4o"); err != nil {
		t.Fatalf("SetString: %v", err)
	}
	if err := b.SetFloat("llm.temperature", 0.3); err != nil {
		t.Fatalf("SetFloat: %v", err)
	}

	reloaded := newFileBackend(p)
	port, ok, err := reloaded.GetInt("server.port")
	if err != nil || !ok || port != 4100 {
		t.Errorf("GetInt = %d, %v, %v", port, ok, err)
	}
	model, ok, _ := reloaded.GetString("llm.model")
	if !ok || model != "gpt-4o" {
		t.Errorf("GetString = %q, %v", model, ok)
	}
	temp, ok, err := reloaded.GetFloat("llm.temperature")
	if err != nil || !ok || temp != 0.3 {
		t.Errorf("GetFloat = %v, %v, %v", temp, ok, err)
	}

	if err := reloaded.Delete("llm.model"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := newFileBackend(p).GetString("llm.model"); ok {
		t.Error("expected key to be deleted")
	}
}

func TestFileBackendHandEditedValues(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.json")
	body := `{"server.port": "9001", "llm.max_tokens": 512.5, "llm.temperature": "0.7"}`
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	b := newFileBackend(p)
	if port, _, err := b.GetInt("server.port"); err != nil || port != 9001 {
		t.Errorf("quoted int = %d, %v", port, err)
	}
	if _, _, err := b.GetInt("llm.max_tokens"); err == nil {
		t.Error("expected error for fractional int")
	}
	if temp, _, err := b.GetFloat("llm.temperature"); err != nil || temp != 0.7 {
		t.Errorf("quoted float = %v, %v", temp, err)
	}
}

func TestFileBackendCorruptFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(p, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	b := newFileBackend(p)
	if _, ok, _ := b.GetString("llm.model"); ok {
		t.Error("corrupt file should read as empty")
	}
	if err := b.SetString("llm.model", "x"); err != nil {
		t.Fatalf("SetString over corrupt file: %v", err)
	}
	if v, _, _ := newFileBackend(p).GetString("llm.model"); v != "x" {
		t.Errorf("after rewrite = %q", v)
	}
}

func TestSecretsFileRoundTrip(t *testing.T) {
	f := secretsFile{path: filepath.Join(t.TempDir(), "secrets.json")}

	if _, err := f.get(keychainService, "llm_api_key"); err == nil {
		t.Error("expected error before the file exists")
	}
	if err := f.set(keychainService, "llm_api_key", "sk-1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := f.set(keychainService, "youtube_api_key", "yt-1"); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := f.get(keychainService, "llm_api_key")
	if err != nil || got != "sk-1" {
		t.Errorf("get = %q, %v", got, err)
	}
	if _, err := f.get(keychainService, "github_client_secret"); err == nil {
		t.Error("expected error for missing account")
	}

	info, err := os.Stat(f.path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("secrets file mode = %o, want 600", perm)
	}
}
