// Package config loads typed configuration structs from environment
// variables, caching each struct type so it is parsed at most once per
// process.
//
// It wraps github.com/joho/godotenv (optional .env file) and
// github.com/caarlos0/env/v11 (struct-tag parsing).
//
// # Usage
//
//	type VaultConfig struct {
//	    StorePath  string `env:"ALLONE_STORE_PATH" envDefault:"~/.allone/keys"`
//	    Iterations int    `env:"ALLONE_PBKDF2_ITERATIONS" envDefault:"100000"`
//	}
//
//	var cfg VaultConfig
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatal(err)
//	}
//
// Subsequent Load calls for the same struct type are served from the cache.
// Reset exists for tests that need to re-parse after mutating the environment.
package config
