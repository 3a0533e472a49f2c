// Package config loads server configuration from the environment and wires
// the trust syndication service from it.
package config

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusweb/trust-syndication/pkg/trustsyndication"
	"github.com/campusweb/trust-syndication/pkg/trustsyndication/repo/memory"
	repopg "github.com/campusweb/trust-syndication/pkg/trustsyndication/repo/postgres"
)

// ServerConfig represents server configuration for the trust syndication
// service.
type ServerConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"` // development, production, testing

	// Database configuration
	DatabaseType string `env:"DATABASE_TYPE" env-default:"memory"` // "memory", "postgres"
	DatabaseURL  string `env:"DATABASE_URL"`

	// Site settings: the site name is served as content_authority, the base
	// URL prefixes content item paths in the feed.
	SiteName string `env:"SITE_NAME" env-default:"Campus Web"`
	BaseURL  string `env:"BASE_URL" env-default:"http://localhost:8080"`

	// JWTSecret enables permission gating of the manage/view endpoints.
	// Empty (development) skips the checks.
	JWTSecret string `env:"JWT_SECRET"`

	// DeveloperContacts is a comma-separated email list seeding the static
	// developer directory when the memory store is used.
	DeveloperContacts string `env:"DEVELOPER_CONTACTS"`
}

// LoadServerConfig reads configuration from environment variables.
func LoadServerConfig() (*ServerConfig, error) {
	var cfg ServerConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}
	if c.DatabaseType != "memory" && c.DatabaseType != "postgres" {
		return errors.New("database_type must be 'memory' or 'postgres'")
	}
	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		return errors.New("database_url is required when using postgres")
	}
	return nil
}

// BuildService creates a Service instance from the server configuration.
func (c *ServerConfig) BuildService(ctx context.Context) (trustsyndication.Service, error) {
	options := []trustsyndication.Option{
		trustsyndication.WithSiteName(func() string { return c.SiteName }),
		trustsyndication.WithBaseURL(c.BaseURL),
	}

	switch c.DatabaseType {
	case "postgres":
		pool, err := pgxpool.New(ctx, c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create connection pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}

		repo := repopg.NewWithPool(pool)
		options = append(options,
			trustsyndication.WithMetadataStore(repo),
			trustsyndication.WithContentStore(repo.ContentStore()),
			trustsyndication.WithTopicResolver(repo.TopicResolver()),
			trustsyndication.WithContactDirectory(repo),
		)

	default:
		repo := memory.New()
		options = append(options,
			trustsyndication.WithMetadataStore(repo),
			trustsyndication.WithContentStore(repo.ContentStore()),
			trustsyndication.WithTopicResolver(repo.TopicResolver()),
		)
		if directory := c.staticDirectory(); len(directory) > 0 {
			options = append(options, trustsyndication.WithContactDirectory(directory))
		} else {
			options = append(options, trustsyndication.WithContactDirectory(repo))
		}
	}

	return trustsyndication.New(options...)
}

// staticDirectory parses DEVELOPER_CONTACTS into contacts. The display name
// falls back to the email local part.
func (c *ServerConfig) staticDirectory() trustsyndication.StaticContactDirectory {
	var directory trustsyndication.StaticContactDirectory
	for _, email := range strings.Split(c.DeveloperContacts, ",") {
		email = strings.TrimSpace(email)
		if email == "" {
			continue
		}
		name := email
		if at := strings.Index(email, "@"); at > 0 {
			name = email[:at]
		}
		directory = append(directory, trustsyndication.Contact{
			ID:    email,
			Name:  name,
			Email: email,
		})
	}
	return directory
}
