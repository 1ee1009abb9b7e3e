package config

import "os"

// SecretSource represents where a sensitive setting comes from.
type SecretSource string

const (
	SourceEnv     SecretSource = "env"
	SourceConfig  SecretSource = "config"
	SourceDefault SecretSource = "default"
	SourceNone    SecretSource = "none"
)

// SecretStatus represents the status of a sensitive setting.
type SecretStatus struct {
	Name   string       `json:"name"`
	Source SecretSource `json:"source"`
	IsSet  bool         `json:"is_set"`
	Masked string       `json:"masked,omitempty"` // e.g., "sec...com"
}

// CheckSecrets returns the status of the settings that identify the user
// to remote services.
func CheckSecrets(cfg *Config) []SecretStatus {
	ua := checkSecret("EDGAR User-Agent", cfg.EDGAR.UserAgent, "STOCKSTRIP_EDGAR_USER_AGENT")
	if ua.Source == SourceConfig && isDefaultUserAgent(cfg.EDGAR.UserAgent) {
		ua.Source = SourceDefault
	}
	return []SecretStatus{
		ua,
		checkSecret("Redis password", cfg.Scratch.RedisPassword, "STOCKSTRIP_SCRATCH_REDIS_PASSWORD"),
	}
}

func isDefaultUserAgent(ua string) bool {
	return ua == "stockstrip/1.0 (github.com/seenimoa/stockstrip)"
}

// checkSecret checks if a value is set and where it came from.
func checkSecret(name, value, envVar string) SecretStatus {
	status := SecretStatus{
		Name:  name,
		IsSet: value != "",
	}

	if value != "" {
		if os.Getenv(envVar) != "" {
			status.Source = SourceEnv
		} else {
			status.Source = SourceConfig
		}
		status.Masked = maskSecret(value)
	} else {
		status.Source = SourceNone
	}

	return status
}

// maskSecret masks a value for display, showing only first 3 and last 3 chars.
func maskSecret(s string) string {
	if len(s) <= 8 {
		return "***"
	}
	return s[:3] + "..." + s[len(s)-3:]
}
