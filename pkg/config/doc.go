// Package config loads typed configuration from environment variables.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11:
//
//   - LoadEnv reads one or more .env files into the process environment
//     (the default .env in the working directory when called without paths).
//   - Load parses the environment into a struct annotated with `env` tags and
//     caches the result per type, so each config is parsed once per process.
//   - A config type that implements Validator is validated right after
//     parsing; a config that fails validation is never cached.
//
// Configuration problems are meant to stop the process at startup.
//
// # Usage
//
//	type ServerConfig struct {
//	    Addr string `env:"BIND_URL" envDefault:":8080"`
//	}
//
//	func (c ServerConfig) Validate() error {
//	    if c.Addr == "" {
//	        return errors.New("BIND_URL is empty")
//	    }
//	    return nil
//	}
//
//	var cfg ServerConfig
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatalf("config: %v", err)
//	}
//
// # Errors
//
//   - ErrParsingConfig: env vars could not be parsed into the struct.
//   - ErrInvalidConfig: parsing succeeded but Validate returned an error.
//   - ErrNilPointer: nil pointer passed to Load.
//
// # Testing
//
// ResetCache clears every cached type so the next Load re-parses after the
// test changed the environment.
package config
