package config

// ConfigBackend persists the settings `skillagent config set` writes
// between daemon runs: the port and CORS origin of the API, the LLM model
// and sampling, the YouTube and GitHub endpoints. It holds UserDefaults on
// macOS and a JSON file everywhere else. Secrets never pass through it;
// they go to the Keychain or the secrets file. A key that was never set
// reports ok=false and Load keeps the built-in default.
type ConfigBackend interface {
	GetString(key string) (val string, ok bool, err error)
	GetInt(key string) (val int, ok bool, err error)
	GetFloat(key string) (val float64, ok bool, err error)
	SetString(key, val string) error
	SetInt(key string, val int) error
	SetFloat(key string, val float64) error
	Delete(key string) error
}

const appName = "skillagent"
