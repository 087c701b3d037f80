//go:build !darwin

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// secretsFile stands in for the Keychain off macOS: a 0600 JSON document
// mapping service -> account -> value.
type secretsFile struct {
	path string
}

func platformSecrets() secretsFile {
	return secretsFile{path: filepath.Join(defaultDataDir(), "secrets.json")}
}

func keychainExec(service, account string) ([]byte, error) {
	v, err := platformSecrets().get(service, account)
	return []byte(v), err
}

func keychainSet(service, account, value string) error {
	return platformSecrets().set(service, account, value)
}

func (f secretsFile) load() (map[string]map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, err
	}
	var secrets map[string]map[string]string
	if err := json.Unmarshal(data, &secrets); err != nil {
		return nil, fmt.Errorf("parsing secrets file: %w", err)
	}
	return secrets, nil
}

func (f secretsFile) get(service, account string) (string, error) {
	secrets, err := f.load()
	if err != nil {
		return "", fmt.Errorf("secrets file not available: %w", err)
	}
	val, ok := secrets[service][account]
	if !ok {
		return "", fmt.Errorf("no secret for %s/%s", service, account)
	}
	return val, nil
}

// set stores value, keeping every other entry. An unreadable file is
// replaced.
func (f secretsFile) set(service, account, value string) error {
	secrets, err := f.load()
	if err != nil || secrets == nil {
		secrets = make(map[string]map[string]string)
	}
	if secrets[service] == nil {
		secrets[service] = make(map[string]string)
	}
	secrets[service][account] = value

	out, err := json.MarshalIndent(secrets, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(f.path, out)
}
