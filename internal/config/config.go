package config

import (
	"log"
	"os"
	"strings"
)

type Config struct {
	Port      string
	DBDSN     string
	RedisAddr string
	LogFile   string
	// AdminKeyHash is a bcrypt hash of the write-endpoint key.
	// Empty disables the guard (local dev).
	AdminKeyHash string
	Rules        RuleData
}

// RuleData holds the word lists and extension sets the rule engine
// checks against. Kept out of the rules package so they can be
// swapped without touching rule logic.
type RuleData struct {
	InappropriateWords  []string
	HomeRestrictedWords []string
	TechnologyKeywords  []string
	ImageExtensions     []string
}

func DefaultRuleData() RuleData {
	return RuleData{
		InappropriateWords:  []string{"fake", "counterfeit", "replica", "stolen", "illegal"},
		HomeRestrictedWords: []string{"industrial", "commercial", "hazardous", "flammable", "toxic"},
		TechnologyKeywords: []string{
			"smart", "digital", "wireless", "electronic", "tech",
			"audio", "video", "computer", "phone", "laptop", "tablet", "camera",
		},
		ImageExtensions: []string{".jpg", ".jpeg", ".png", ".gif", ".webp"},
	}
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "shopshelf.db" // sqlite file in project root
	}
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./shopshelf.log"
	}

	rules := DefaultRuleData()
	if v := csvEnv("INAPPROPRIATE_WORDS"); v != nil {
		rules.InappropriateWords = v
	}
	if v := csvEnv("HOME_RESTRICTED_WORDS"); v != nil {
		rules.HomeRestrictedWords = v
	}
	if v := csvEnv("TECH_KEYWORDS"); v != nil {
		rules.TechnologyKeywords = v
	}
	if v := csvEnv("IMAGE_EXTENSIONS"); v != nil {
		rules.ImageExtensions = v
	}

	cfg := Config{
		Port:         port,
		DBDSN:        dsn,
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		LogFile:      logFile,
		AdminKeyHash: os.Getenv("ADMIN_KEY_HASH"),
		Rules:        rules,
	}
	log.Printf("[config] PORT=%s DB_DSN=%s REDIS_ADDR=%s LOG_FILE=%s admin_guard=%v",
		cfg.Port, cfg.DBDSN, cfg.RedisAddr, cfg.LogFile, cfg.AdminKeyHash != "")
	return cfg
}

// csvEnv returns nil when the variable is unset so callers can keep defaults.
func csvEnv(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
