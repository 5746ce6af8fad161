package config

import (
	"errors"
	"io/fs"
	"log"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads a local .env file into the environment if one exists.
// Variables already set in the environment take precedence.
func LoadDotEnv(paths ...string) error {
	err := godotenv.Load(paths...)
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		log.Println("No .env file found (using environment variables)")
		return nil
	}
	return err
}
