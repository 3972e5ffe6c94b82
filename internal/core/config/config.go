// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-15

// Package config handles loading trello2gh tool configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultDateFormat is the Go time layout used in comment headers.
const DefaultDateFormat = "2006-01-02 15:04 MST"

// Config is the root configuration structure.
type Config struct {
	// GitHub configures access to the target repository.
	GitHub GitHubConfig `mapstructure:"github"`

	// Trello configures retrieval of board exports by URL.
	Trello TrelloConfig `mapstructure:"trello"`

	// Output controls how migrated content is rendered.
	Output OutputConfig `mapstructure:"output"`

	// Migration contains default migration behavior.
	Migration MigrationConfig `mapstructure:"migration"`
}

// GitHubConfig holds GitHub connection settings.
type GitHubConfig struct {
	Token      string `mapstructure:"token"`
	APIURL     string `mapstructure:"api_url"`
	GraphQLURL string `mapstructure:"graphql_url"`
}

// TrelloConfig holds Trello API credentials.
type TrelloConfig struct {
	APIKey string `mapstructure:"api_key"`
	Token  string `mapstructure:"token"`
}

// OutputConfig holds rendering settings.
type OutputConfig struct {
	DateFormat string `mapstructure:"date_format"`
	Timezone   string `mapstructure:"timezone"`
}

// MigrationConfig holds default migration settings.
type MigrationConfig struct {
	SkipArchived bool `mapstructure:"skip_archived"`
}

// Load reads the config file at path, if any, then applies environment
// overrides. A .env file in the working directory is loaded first; variables
// already set in the environment win over it.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("github.token", "")
	v.SetDefault("github.api_url", "")
	v.SetDefault("github.graphql_url", "")
	v.SetDefault("trello.api_key", "")
	v.SetDefault("trello.token", "")
	v.SetDefault("output.date_format", DefaultDateFormat)
	v.SetDefault("output.timezone", "")
	v.SetDefault("migration.skip_archived", false)

	_ = v.BindEnv("github.token", "GITHUB_TOKEN", "GH_TOKEN")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Apply defaults
	cfg.applyDefaults()

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Location returns the time zone comment dates are shown in.
func (c *Config) Location() (*time.Location, error) {
	if c.Output.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Output.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid output.timezone %q: %w", c.Output.Timezone, err)
	}
	return loc, nil
}

// FindConfigPath searches for a config file in standard locations.
func FindConfigPath(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}

	// Search in common locations
	candidates := []string{
		".trello2gh.yaml",
		".trello2gh.yml",
		".trello2gh.toml",
		".github/trello2gh.yaml",
		".github/trello2gh.yml",
	}

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			abs, _ := filepath.Abs(c)
			return abs
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		userConfig := filepath.Join(configDir, "trello2gh", "config.yaml")
		if _, err := os.Stat(userConfig); err == nil {
			return userConfig
		}
	}

	return ""
}

// applyDefaults sets default values for unset fields.
func (c *Config) applyDefaults() {
	if c.Output.DateFormat == "" {
		c.Output.DateFormat = DefaultDateFormat
	}
	c.GitHub.APIURL = strings.TrimSpace(c.GitHub.APIURL)
	if c.GitHub.APIURL != "" && !strings.HasSuffix(c.GitHub.APIURL, "/") {
		c.GitHub.APIURL += "/"
	}
	if c.GitHub.APIURL != "" && c.GitHub.GraphQLURL == "" {
		c.GitHub.GraphQLURL = enterpriseGraphQLURL(c.GitHub.APIURL)
	}
}

// enterpriseGraphQLURL derives the GraphQL endpoint of a GitHub Enterprise
// Server from its REST base URL.
func enterpriseGraphQLURL(apiURL string) string {
	base := strings.TrimSuffix(apiURL, "/")
	base = strings.TrimSuffix(base, "/v3")
	base = strings.TrimSuffix(base, "/api")
	return base + "/api/graphql"
}
