package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv reads .env.local and .env from the working directory, in
// that order of precedence. Variables already present in the OS
// environment are never overwritten, so deployment env always wins over
// file contents. Returns the names of the files actually read, for
// startup logging.
func LoadDotEnv() []string {
	var loaded []string
	for _, name := range []string{".env.local", ".env"} {
		if _, err := os.Stat(name); err == nil {
			loaded = append(loaded, name)
		}
	}
	if len(loaded) > 0 {
		_ = godotenv.Load(loaded...)
	}
	return loaded
}
