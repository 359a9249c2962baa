package config

import (
	"fmt"
	"log"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	Env      string `env:"ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	Timezone string `env:"TIMEZONE" envDefault:"America/Fortaleza"`

	DatabaseURL   string        `env:"DB_URL,required,notEmpty"`
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	SlotHoldTTL   time.Duration `env:"SLOT_HOLD_TTL" envDefault:"30s"`

	JWTSecret      string   `env:"JWT_SECRET,required,notEmpty"`
	JWTExpiryHours int      `env:"JWT_EXPIRY_HOURS" envDefault:"24"`
	CORSOrigins    []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:3000"`
	AdminEmails    []string `env:"ADMIN_EMAILS" envSeparator:","`

	PixKey          string  `env:"PIX_KEY" envDefault:"+5585997410934"`
	PixMerchantName string  `env:"PIX_MERCHANT_NAME" envDefault:"Harley Deyson Girao"`
	PixMerchantCity string  `env:"PIX_MERCHANT_CITY" envDefault:"Caucaia"`
	BarberShare     float64 `env:"BARBER_SHARE" envDefault:"0.60"`
	CatalogFile     string  `env:"CATALOG_FILE"`

	TwilioAccountSID     string `env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken      string `env:"TWILIO_AUTH_TOKEN"`
	TwilioPhoneNumber    string `env:"TWILIO_PHONE_NUMBER"`
	TwilioWhatsAppNumber string `env:"TWILIO_WHATSAPP_NUMBER"`
	ReminderCron         string `env:"REMINDER_CRON" envDefault:"0 9 * * *"`
}

// Load reads a .env file when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	return Parse()
}

// Parse builds the config from the process environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.BarberShare < 0 || cfg.BarberShare > 1 {
		return nil, fmt.Errorf("BARBER_SHARE must be between 0 and 1, got %v", cfg.BarberShare)
	}
	if cfg.JWTExpiryHours <= 0 {
		cfg.JWTExpiryHours = 24
	}
	for i, email := range cfg.AdminEmails {
		cfg.AdminEmails[i] = strings.ToLower(strings.TrimSpace(email))
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Location resolves the shop's timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) TwilioEnabled() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != ""
}
