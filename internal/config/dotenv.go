// ABOUTME: Optional .env file support
// ABOUTME: Seeds the process environment before configuration is parsed
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

const (
	// EnvFileVar names the dotenv file to load
	EnvFileVar = "STS_BRIDGE_ENV_FILE"

	defaultEnvFile = ".env"
)

// LoadDotEnv loads KEY=value pairs from path into the environment.
// Variables already set are left alone. A missing default file is not an error;
// a missing file that was asked for explicitly is.
func LoadDotEnv(path string) error {
	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvFileVar)
		explicit = path != ""
	}
	if path == "" {
		path = defaultEnvFile
	}

	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}
