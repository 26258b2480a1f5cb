package config

import (
	"log"
	"os"
	"strings"
)

// Environment selects where configuration is read from
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

var environments = map[string]Environment{
	"development": Development,
	"test":        Test,
	"production":  Production,
}

// GetEnvironment reads ENV. CI=true wins so pipelines never load a .env file.
// Unknown values fall back to development.
func GetEnvironment() Environment {
	if os.Getenv("CI") == "true" {
		return CI
	}

	name := strings.ToLower(strings.TrimSpace(os.Getenv("ENV")))
	if env, ok := environments[name]; ok {
		return env
	}
	if name != "" {
		log.Printf("[Config] Unknown ENV %q, using development", name)
	}
	return Development
}

// IsProduction reports whether secrets files and release mode apply
func IsProduction() bool {
	return GetEnvironment() == Production
}
