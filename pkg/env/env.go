package env

import (
	"os"
	"strings"
)

// Get reads an environment variable, falling back when it is unset or
// blank. Meant for knobs read before config parsing (log format and the
// like); everything else goes through pkg/config.
func Get(key, fallback string) string {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	return val
}
