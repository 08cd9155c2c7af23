package env

import "os"

// Prefix namespaces every variable the services read.
const Prefix = "BABYDEALS_"

// Get returns BABYDEALS_<key>, then the bare key, then fallback.
func Get(key, fallback string) string {
	if val := os.Getenv(Prefix + key); val != "" {
		return val
	}
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// InstanceID identifies the running process in logs. Heroku-style dyno
// names win over the configured id.
func InstanceID() string {
	if dyno := os.Getenv("DYNO"); dyno != "" {
		return dyno
	}
	return Get("INSTANCE_ID", "local")
}
