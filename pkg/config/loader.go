package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	mu     sync.RWMutex
	cached = make(map[string]any)

	dotenvOnce sync.Once
)

// Load parses environment variables into v based on its `env` struct tags.
// The first call for a given struct type does the work; later calls for the
// same type return the cached copy. A default .env file is loaded once per
// process if present.
func Load[T any](v *T) error {
	dotenvOnce.Do(func() {
		// A missing .env file is fine; the environment may be set directly.
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}

	name := typeName[T]()

	mu.RLock()
	if c, ok := cached[name]; ok {
		*v = c.(T)
		mu.RUnlock()
		return nil
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()

	// Another goroutine may have parsed while we waited for the write lock.
	if c, ok := cached[name]; ok {
		*v = c.(T)
		return nil
	}

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	cached[name] = *v
	return nil
}

// MustLoad is Load but panics on failure. Intended for configuration the
// process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("config: failed to load required configuration: %v", err))
	}
}

// Reset drops all cached configuration. Tests use it after mutating the
// environment.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	cached = make(map[string]any)
}

func typeName[T any]() string {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		return fmt.Sprintf("%T", *new(T))
	}
	return t.String()
}
