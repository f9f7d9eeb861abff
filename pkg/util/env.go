package util

import "os"

// GetEnv reads an environment variable with a fallback default
func GetEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

// GetPort figures out which port to listen on
func GetPort() string {
	// container env var first
	port := os.Getenv("PORT")
	if port == "" {
		// default for local dev
		port = "8080"
	}
	return port
}

// GetSeedFile returns the path to the optional seed data file, or "" if
// seeding is disabled
func GetSeedFile() string {
	return os.Getenv("SEED_FILE")
}
