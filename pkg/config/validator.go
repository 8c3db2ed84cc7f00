package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	if c.Discord.Token == "" {
		errors = append(errors, ValidationError{
			Field:   "discord.token",
			Message: "bot token is required",
		})
	}

	if c.Discord.OwnerID != "" {
		if _, err := strconv.ParseInt(c.Discord.OwnerID, 10, 64); err != nil {
			errors = append(errors, ValidationError{
				Field:   "discord.owner_id",
				Message: "owner_id must be a Discord snowflake",
			})
		}
	}

	if c.Discord.StatWebhook != "" {
		parsed, err := url.Parse(c.Discord.StatWebhook)
		if err != nil || !strings.HasPrefix(parsed.Scheme, "http") {
			errors = append(errors, ValidationError{
				Field:   "discord.stat_webhook",
				Message: "invalid webhook URL",
			})
		}
	}

	if c.Database.URL == "" {
		errors = append(errors, ValidationError{
			Field:   "database.url",
			Message: "PostgreSQL connection string is required",
		})
	} else if _, err := url.Parse(c.Database.URL); err != nil {
		errors = append(errors, ValidationError{
			Field:   "database.url",
			Message: "invalid database URL",
		})
	}

	if len(c.Bot.Prefixes) == 0 {
		errors = append(errors, ValidationError{
			Field:   "bot.prefixes",
			Message: "at least one default prefix is required",
		})
	}
	for _, prefix := range c.Bot.Prefixes {
		if strings.TrimSpace(prefix) == "" {
			errors = append(errors, ValidationError{
				Field:   "bot.prefixes",
				Message: "prefixes must not be blank",
			})
			break
		}
	}

	if c.HTTP.RateLimit <= 0 {
		errors = append(errors, ValidationError{
			Field:   "http.rate_limit",
			Message: "rate_limit must be positive",
		})
	}

	switch c.Log.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		errors = append(errors, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("unknown log level: %s", c.Log.Level),
		})
	}

	// Twitch credentials are optional, but must come as a pair
	if (c.Twitch.ClientID == "") != (c.Twitch.ClientSecret == "") {
		errors = append(errors, ValidationError{
			Field:   "twitch",
			Message: "client_id and client_secret must both be set",
		})
	}

	return errors
}
