package main

import (
	"log"
	"os"
	"strings"
)

// Config is the typed view over environment variables, loaded once at
// startup. Fails fast on missing required secrets, extended with the
// chat session secret and listen address.
type Config struct {
	DBHost string
	DBUser string
	DBPass string
	DBName string
	DBPort string

	JWTSecret         string
	ChatSessionSecret string

	ListenAddr string
}

const devFallbackChatSecret = "local-dev-secret"

// normalizeListenAddr applies the ":port" default and the bare-port
// normalization gin's Engine.Run expects.
func normalizeListenAddr(raw string) string {
	if raw == "" {
		return ":8080"
	}
	if !strings.HasPrefix(raw, ":") {
		return ":" + raw
	}
	return raw
}

// resolveChatSessionSecret trims the configured secret and falls back
// to a fixed development value (logging a warning) when unset, per
// spec.md §6's "missing -> dev fallback" contract.
func resolveChatSessionSecret(raw string) (secret string, usedFallback bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return devFallbackChatSecret, true
	}
	return trimmed, false
}

func loadConfig() *Config {
	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPass:     os.Getenv("DB_PASS"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     os.Getenv("DB_PORT"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		ListenAddr: normalizeListenAddr(os.Getenv("PORT")),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is missing in environment")
	}

	secret, usedFallback := resolveChatSessionSecret(os.Getenv("CHAT_SESSION_SECRET"))
	if usedFallback {
		log.Println("CHAT_SESSION_SECRET not set; using development fallback secret")
	}
	cfg.ChatSessionSecret = secret

	if cfg.DBHost == "" || cfg.DBUser == "" || cfg.DBPass == "" || cfg.DBName == "" || cfg.DBPort == "" {
		log.Fatalf("DATABASE ENV MISSING — check .env file")
	}

	return cfg
}
