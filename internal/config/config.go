// Package config loads the watcher configuration from the environment,
// with an optional .env file for development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/wfarner/vinylalert/internal/condition"
	"github.com/wfarner/vinylalert/internal/currency"
)

type Config struct {
	DiscogsToken string
	UserAgent    string

	// Country is the buyer's market code; Currency the base currency all
	// prices are normalized into.
	Country  string
	Currency string

	// Exactly one wantlist source: a local JSON file or a Discogs list.
	WantlistPath string
	ListID       int

	PollInterval time.Duration
	CachePath    string
	LogLevel     string

	PushbulletToken string
	TelegramToken   string
	TelegramChatID  int64

	// Global acceptance defaults; wantlist entries may override them.
	MinSellerRating      *float64
	MinSellerSales       *int
	MinMediaCondition    string
	MinSleeveCondition   string
	AcceptGenericSleeve  bool
	AcceptNoSleeve       bool
	AcceptUngradedSleeve bool
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		DiscogsToken:       os.Getenv("DISCOGS_TOKEN"),
		UserAgent:          envString("USER_AGENT", "vinylalert/1.0"),
		Country:            envString("COUNTRY", "DE"),
		Currency:           envString("CURRENCY", "EUR"),
		WantlistPath:       os.Getenv("WANTLIST_PATH"),
		CachePath:          envString("CACHE_PATH", "vinylalert_cache.json"),
		LogLevel:           envString("LOG_LEVEL", "info"),
		PushbulletToken:    os.Getenv("PUSHBULLET_TOKEN"),
		TelegramToken:      os.Getenv("TELEGRAM_BOT_TOKEN"),
		MinMediaCondition:  envString("MIN_MEDIA_CONDITION", "VG+"),
		MinSleeveCondition: envString("MIN_SLEEVE_CONDITION", "VG+"),
	}

	var err error
	if cfg.ListID, err = envInt("LIST_ID", 0); err != nil {
		return Config{}, err
	}

	pollSeconds, err := envInt("POLL_SECONDS", 60)
	if err != nil {
		return Config{}, err
	}
	cfg.PollInterval = time.Duration(pollSeconds) * time.Second

	chatID, err := envInt("TELEGRAM_CHAT_ID", 0)
	if err != nil {
		return Config{}, err
	}
	cfg.TelegramChatID = int64(chatID)

	if v := os.Getenv("MIN_SELLER_RATING"); v != "" {
		rating, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, fmt.Errorf("MIN_SELLER_RATING: %w", err)
		}
		cfg.MinSellerRating = &rating
	}
	if v := os.Getenv("MIN_SELLER_SALES"); v != "" {
		sales, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("MIN_SELLER_SALES: %w", err)
		}
		cfg.MinSellerSales = &sales
	}

	cfg.AcceptGenericSleeve = envBool("ACCEPT_GENERIC_SLEEVE")
	cfg.AcceptNoSleeve = envBool("ACCEPT_NO_SLEEVE")
	cfg.AcceptUngradedSleeve = envBool("ACCEPT_UNGRADED_SLEEVE")

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.DiscogsToken == "" {
		return fmt.Errorf("DISCOGS_TOKEN is required")
	}
	if c.Country == "" {
		return fmt.Errorf("COUNTRY must not be empty")
	}
	if !currency.Supported(c.Currency) {
		return fmt.Errorf("unsupported base currency %q", c.Currency)
	}
	if c.WantlistPath == "" && c.ListID == 0 {
		return fmt.Errorf("set WANTLIST_PATH or LIST_ID")
	}
	if c.WantlistPath != "" && c.ListID != 0 {
		return fmt.Errorf("WANTLIST_PATH and LIST_ID are mutually exclusive")
	}
	if c.PushbulletToken == "" && c.TelegramToken == "" {
		return fmt.Errorf("configure at least one notifier (PUSHBULLET_TOKEN or TELEGRAM_BOT_TOKEN)")
	}
	if c.TelegramToken != "" && c.TelegramChatID == 0 {
		return fmt.Errorf("TELEGRAM_CHAT_ID is required with TELEGRAM_BOT_TOKEN")
	}
	if c.PollInterval < 10*time.Second {
		return fmt.Errorf("POLL_SECONDS must be at least 10")
	}
	for _, grade := range []string{c.MinMediaCondition, c.MinSleeveCondition} {
		if _, err := condition.Rank(grade); err != nil {
			return err
		}
	}
	return nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envBool(key string) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	}
	return false
}
