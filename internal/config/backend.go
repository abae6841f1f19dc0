package config

// ConfigBackend is the platform-native store behind "helene config set".
// Each getter reports ok=false for a key that was never written; err is
// reserved for a value that exists but cannot be read as the asked type.
type ConfigBackend interface {
	GetString(key string) (val string, ok bool, err error)
	GetInt(key string) (val int, ok bool, err error)
	GetBool(key string) (val bool, ok bool, err error)
	SetString(key, val string) error
	SetInt(key string, val int) error
	SetBool(key string, val bool) error
	Delete(key string) error
}
