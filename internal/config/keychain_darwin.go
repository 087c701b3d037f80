//go:build darwin

package config

import "os/exec"

// On macOS every secret setting lives in the login Keychain as a generic
// password under keychainService, one account per secret: api_token,
// llm_api_key, youtube_api_key and github_client_secret.
// `skillagent config set-secret` writes them; Load reads them.

func keychainExec(service, account string) ([]byte, error) {
	return security("find-generic-password", "-s", service, "-a", account, "-w").Output()
}

// keychainSet creates the item or, with -U, updates it in place.
func keychainSet(service, account, value string) error {
	return security("add-generic-password", "-U", "-s", service, "-a", account, "-w", value).Run()
}

func security(args ...string) *exec.Cmd {
	return exec.Command("security", args...)
}
