package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Discord struct {
		Token       string `yaml:"token"`
		OwnerID     string `yaml:"owner_id"`
		StatWebhook string `yaml:"stat_webhook"`
	} `yaml:"discord"`

	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`

	Bot struct {
		Prefixes      []string `yaml:"prefixes"`
		PrefixesFile  string   `yaml:"prefixes_file"`
		BlacklistFile string   `yaml:"blacklist_file"`
	} `yaml:"bot"`

	Twitch struct {
		ClientID     string `yaml:"client_id"`
		ClientSecret string `yaml:"client_secret"`
	} `yaml:"twitch"`

	HTTP struct {
		UserAgent string  `yaml:"user_agent"`
		RateLimit float64 `yaml:"rate_limit"`
	} `yaml:"http"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

func LoadConfig(path string) (*Config, error) {
	// If no path provided, try default locations
	if path == "" {
		locations := []string{
			"config.yaml",
			"config.yml",
			filepath.Join(os.Getenv("HOME"), ".config/akane/config.yaml"),
			"/etc/akane/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path == "" {
		return getDefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %v", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %v", err)
	}

	mergeWithEnv(&config)
	applyDefaults(&config)

	return &config, nil
}

func getDefaultConfig() (*Config, error) {
	config := &Config{}
	applyDefaults(config)
	mergeWithEnv(config)
	return config, nil
}

func applyDefaults(config *Config) {
	if len(config.Bot.Prefixes) == 0 {
		config.Bot.Prefixes = []string{"a!", "A!"}
	}
	if config.Bot.PrefixesFile == "" {
		config.Bot.PrefixesFile = "prefixes.json"
	}
	if config.Bot.BlacklistFile == "" {
		config.Bot.BlacklistFile = "blacklist.json"
	}
	if config.HTTP.UserAgent == "" {
		config.HTTP.UserAgent = "Akane Discord bot"
	}
	if config.HTTP.RateLimit == 0 {
		config.HTTP.RateLimit = 2.0
	}
	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
}

func mergeWithEnv(config *Config) {
	if token := os.Getenv("DISCORD_TOKEN"); token != "" {
		config.Discord.Token = token
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		config.Database.URL = dbURL
	}
	if clientID := os.Getenv("TWITCH_CLIENT_ID"); clientID != "" {
		config.Twitch.ClientID = clientID
	}
	if secret := os.Getenv("TWITCH_CLIENT_SECRET"); secret != "" {
		config.Twitch.ClientSecret = secret
	}
}
