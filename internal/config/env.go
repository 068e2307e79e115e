package config

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/joho/godotenv"
)

// EnvFile returns the optional dotenv file path, $XDG_CONFIG_HOME/tb-cli/.env.
func EnvFile() string {
	return filepath.Join(ConfigDir(), ".env")
}

// LoadEnvFile loads TB_* settings from path without overriding variables
// already present in the environment. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = EnvFile()
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}
