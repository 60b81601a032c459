package configloader

import (
	"fmt"
	"os"
	"strconv"

	"github.com/yaklabco/snapline/pkg/config"
)

// envVarPrefix is the prefix for all snapline environment variables.
const envVarPrefix = "SNAPLINE_"

// LoadFromEnv applies environment variable overrides to the configuration.
// SNAPLINE_RECORD accepts the strconv.ParseBool forms plus the bare "1"
// convention used on the command line.
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	if value := os.Getenv(envVarPrefix + "RECORD"); value != "" {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %sRECORD: %q (expected true/false/1/0)", envVarPrefix, value)
		}
		cfg.Record = b
	}

	if value := os.Getenv(envVarPrefix + "LABEL"); value != "" {
		cfg.Label = value
	}

	if value := os.Getenv(envVarPrefix + "LOG_LEVEL"); value != "" {
		cfg.LogLevel = value
	}

	return nil
}

// ListEnvVars returns the supported environment variables with their
// descriptions, for help output.
func ListEnvVars() map[string]string {
	return map[string]string{
		"SNAPLINE_RECORD":    "Force re-recording of all snapshots: true or false",
		"SNAPLINE_LABEL":     "Wrapper name for appended snapshot closures",
		"SNAPLINE_LOG_LEVEL": "Log verbosity: debug, info, warn, or error",
	}
}
