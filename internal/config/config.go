// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"os"
	"strings"
)

// Config holds everything the process needs to start
type Config struct {
	// DiscordToken is the bot token. Required.
	DiscordToken string

	// GuildID restricts tracking to one guild; empty tracks every guild
	GuildID string

	// VoiceChannelIDs restricts tracking to specific voice channels; empty
	// tracks all of them
	VoiceChannelIDs []string

	// SkipUnnamed drops members without a server nickname instead of falling
	// back to their account username
	SkipUnnamed bool

	// RedisAddr is the Redis host:port for snapshot persistence
	RedisAddr string

	// RedisPassword is the Redis password, if any
	RedisPassword string

	// HTTPAddr is the web server listen address
	HTTPAddr string
}

// Load reads configuration from the environment
func Load() (*Config, error) {
	token := os.Getenv("DISCORD_TOKEN")
	if token == "" {
		return nil, errors.New("DISCORD_TOKEN environment variable is required")
	}

	cfg := &Config{
		DiscordToken:    token,
		GuildID:         os.Getenv("GUILD_ID"),
		VoiceChannelIDs: splitList(os.Getenv("VOICE_CHANNEL_IDS")),
		SkipUnnamed:     os.Getenv("SKIP_UNNAMED") == "true",
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		HTTPAddr:        getEnv("HTTP_ADDR", ":3000"),
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// splitList splits a comma-separated list, dropping empty items
func splitList(value string) []string {
	if value == "" {
		return nil
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
