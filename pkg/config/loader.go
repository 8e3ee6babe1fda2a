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
	cacheMu sync.RWMutex
	cached  = make(map[string]any)
	parses  = make(map[string]*sync.Once)

	dotenvOnce sync.Once
)

// Load parses environment variables into v based on `env` field tags. A .env
// file in the working directory is loaded into the environment first, once per
// process. Each config type is parsed exactly once; later calls for the same
// type return the cached value, so every package reading the same config sees
// identical settings regardless of call order.
//
// Example:
//
//	type WorkerConfig struct {
//		PollInterval time.Duration `env:"NOTIFY_QUEUE_POLL_INTERVAL" envDefault:"250ms"`
//		MaxAttempts  int           `env:"NOTIFY_QUEUE_MAX_ATTEMPTS" envDefault:"3"`
//	}
//
//	var cfg WorkerConfig
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T) error {
	dotenvOnce.Do(func() {
		// A missing .env file is fine; real env vars still apply.
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}

	key := typeKey[T]()

	cacheMu.RLock()
	if val, ok := cached[key]; ok {
		*v = val.(T)
		cacheMu.RUnlock()
		return nil
	}
	cacheMu.RUnlock()

	cacheMu.Lock()
	once, ok := parses[key]
	if !ok {
		once = new(sync.Once)
		parses[key] = once
	}
	cacheMu.Unlock()

	var parseErr error
	once.Do(func() {
		if err := env.Parse(v); err != nil {
			parseErr = errors.Join(ErrParsingConfig, err)
			return
		}
		cacheMu.Lock()
		cached[key] = *v
		cacheMu.Unlock()
	})
	if parseErr != nil {
		return parseErr
	}

	// The once may have run on another goroutine; read the result back so
	// concurrent callers all observe the parsed value.
	cacheMu.RLock()
	defer cacheMu.RUnlock()
	if val, ok := cached[key]; ok {
		*v = val.(T)
		return nil
	}
	return ErrConfigNotLoaded
}

// MustLoad is Load for configs the process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

func typeKey[T any]() string {
	var zero T
	if t := reflect.TypeOf(zero); t != nil {
		return t.String()
	}
	return fmt.Sprintf("%T", *new(T))
}
