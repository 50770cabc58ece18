// /internal/config/config.go
package config

import (
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config reúne tudo o que a aplicação lê do ambiente.
type Config struct {
	Port                  string
	Env                   string
	DatabaseURL           string
	SessionSecret         []byte
	FreeStatusTransitions bool
	CORSOrigins           []string
	PixKey                string
	EnvFileLoaded         bool
}

const (
	DefaultPort        = "8080"
	DefaultDatabaseURL = "database/database.db"
	DefaultPixKey      = "pix@urbanfood.com"
)

// Load carrega o .env (se existir) e monta a configuração.
func Load() (*Config, error) {
	loaded := godotenv.Load() == nil
	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}
	cfg.EnvFileLoaded = loaded
	return cfg, nil
}

// FromEnv lê apenas as variáveis de ambiente, sem tocar no .env.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", DefaultPort),
		Env:         getEnv("APP_ENV", "development"),
		DatabaseURL: getEnv("DATABASE_URL", DefaultDatabaseURL),
	}

	free, err := getBool("ORDER_STATUS_FREE_TRANSITIONS", false)
	if err != nil {
		return nil, err
	}
	cfg.FreeStatusTransitions = free

	for _, origin := range strings.Split(os.Getenv("CORS_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}

	secret := os.Getenv("SESSION_SECRET")
	switch {
	case secret != "":
		cfg.SessionSecret = []byte(secret)
	case cfg.IsProduction():
		return nil, errors.New("SESSION_SECRET é obrigatório em produção")
	default:
		// Sem segredo em desenvolvimento: as sessões não sobrevivem a um restart.
		cfg.SessionSecret = make([]byte, 32)
		if _, err := rand.Read(cfg.SessionSecret); err != nil {
			return nil, fmt.Errorf("gerando segredo de sessão: %w", err)
		}
	}

	// A chave padrão serve só para desenvolvimento: em produção o cliente
	// pagaria para uma chave que não é da loja.
	cfg.PixKey = strings.TrimSpace(os.Getenv("PIX_KEY"))
	if cfg.PixKey == "" {
		if cfg.IsProduction() {
			return nil, errors.New("PIX_KEY é obrigatório em produção")
		}
		cfg.PixKey = DefaultPixKey
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s inválido (%q): %w", key, raw, err)
	}
	return v, nil
}
