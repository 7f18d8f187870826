package config

import (
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/joy095/marketplace/logger"
)

var loadOnce sync.Once

// LoadEnv loads the .env file once. Missing files are fine in production
// where everything comes from real environment variables.
func LoadEnv() {
	loadOnce.Do(func() {
		if err := godotenv.Load(); err != nil {
			if _, statErr := os.Stat(".env"); statErr == nil {
				logger.WarnLogger.Warnf("Failed to load .env file: %v", err)
			}
		}
	})
}
