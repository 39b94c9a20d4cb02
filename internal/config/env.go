package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
)

// envPaths are tried in order; the first file found is loaded.
var envPaths = []string{".env", "../.env", "../../.env"}

// LoadEnv loads the nearest .env file into the process environment.
// Variables that are already set are left alone.
func LoadEnv() error {
	for _, path := range envPaths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return eris.Wrapf(err, "config: load %s", path)
		}
		return nil
	}
	return nil
}
