package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultForbidden is used when the config names no forbidden phrases.
var DefaultForbidden = []string{
	"remus",
	"sirius",
	"slash",
	"wolfstar",
	"remus lupin",
	"sirius black",
	"erotic fiction",
	"erotic fan fiction",
	"smut",
	"erotica",
}

type Config struct {
	TypeGuilds  []string `yaml:"type_guilds"`
	ColorGuilds []string `yaml:"color_guilds"`
	// ColorPositions maps a guild ID to the stacking position of new color roles.
	ColorPositions map[string]int `yaml:"color_positions"`
	ColorFile      string         `yaml:"color_file"`

	OpenAI struct {
		Model         string   `yaml:"model"`
		MaxTokens     int      `yaml:"max_tokens"`
		Temperature   float64  `yaml:"temperature"`
		Forbidden     []string `yaml:"forbidden"`
		ForbiddenFile string   `yaml:"forbidden_file"`
	} `yaml:"openai"`

	Delays struct {
		RoleSpacing float64 `yaml:"role_spacing"`
	} `yaml:"delays"`

	Propaganda struct {
		Template  string `yaml:"template"`
		MaxPhrase int    `yaml:"max_phrase"`
	} `yaml:"propaganda"`

	Petpet struct {
		MaxBytes       int64   `yaml:"max_bytes"`
		TimeoutSeconds float64 `yaml:"timeout_seconds"`
	} `yaml:"petpet"`

	Cache struct {
		Prefix     string  `yaml:"prefix"`
		TTLMinutes float64 `yaml:"ttl_minutes"`
		Size       int     `yaml:"size"`
	} `yaml:"cache"`
}

// Secrets are read from the environment, never from the config file.
type Secrets struct {
	DiscordToken string
	OpenAIKey    string
	RedisURL     string
}

func defaults() *Config {
	config := &Config{}
	config.ColorFile = "colors.csv"
	config.OpenAI.Model = "gpt-4o-mini"
	config.OpenAI.MaxTokens = 256
	config.OpenAI.Temperature = 0.7
	config.Delays.RoleSpacing = 0.25
	config.Propaganda.MaxPhrase = 15
	config.Petpet.MaxBytes = 10 * 1024 * 1024
	config.Petpet.TimeoutSeconds = 15
	config.Cache.Prefix = "logician"
	config.Cache.TTLMinutes = 60
	config.Cache.Size = 256
	return config
}

// LoadConfig reads the YAML config at path over the defaults. A missing file
// yields the defaults.
func LoadConfig(path string) (*Config, error) {
	config := defaults()

	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return config, nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(file, config)
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Delays.RoleSpacing < 0 {
		errs = append(errs, fmt.Errorf("delays.role_spacing must not be negative, got %v", c.Delays.RoleSpacing))
	}
	if c.OpenAI.MaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("openai.max_tokens must be positive, got %d", c.OpenAI.MaxTokens))
	}
	if c.OpenAI.Temperature < 0 || c.OpenAI.Temperature > 2 {
		errs = append(errs, fmt.Errorf("openai.temperature must be within [0, 2], got %v", c.OpenAI.Temperature))
	}
	if c.Propaganda.MaxPhrase <= 0 {
		errs = append(errs, fmt.Errorf("propaganda.max_phrase must be positive, got %d", c.Propaganda.MaxPhrase))
	}
	return errors.Join(errs...)
}

func (c *Config) RoleSpacing() time.Duration {
	return time.Duration(c.Delays.RoleSpacing * float64(time.Second))
}

func (c *Config) PetpetTimeout() time.Duration {
	return time.Duration(c.Petpet.TimeoutSeconds * float64(time.Second))
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLMinutes * float64(time.Minute))
}

// ForbiddenPhrases merges the inline list with the forbidden file, one phrase
// per line. Blank lines and lines starting with # are skipped.
func (c *Config) ForbiddenPhrases() ([]string, error) {
	var phrases []string
	add := func(p string) {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" && !strings.HasPrefix(p, "#") {
			phrases = append(phrases, p)
		}
	}

	for _, p := range c.OpenAI.Forbidden {
		add(p)
	}

	if c.OpenAI.ForbiddenFile != "" {
		f, err := os.Open(c.OpenAI.ForbiddenFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open forbidden phrase file: %w", err)
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			add(scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read forbidden phrase file: %w", err)
		}
	}

	if len(phrases) == 0 {
		return append([]string(nil), DefaultForbidden...), nil
	}
	return phrases, nil
}

// LoadSecrets loads .env files into the environment and reads the bot's
// secrets from it. The returned error only reports a missing or unreadable
// .env file; the secrets are read from the environment regardless.
func LoadSecrets(envFiles ...string) (Secrets, error) {
	err := godotenv.Load(envFiles...)
	return Secrets{
		DiscordToken: os.Getenv("DISCORD_TOKEN"),
		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
		RedisURL:     os.Getenv("REDIS_URL"),
	}, err
}
