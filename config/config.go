package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	Postgres      Postgres
	Telegram      Telegram
	Redis         Redis
	API           API
	Session       Session
	Jobs          Jobs
	GoogleDrive   GoogleDrive
	Navigator     Navigator
	TradesPerPage int `env:"TRADES_PER_PAGE" envDefault:"10"`
}

type Postgres struct {
	Host            string `env:"PG_HOST"`
	Port            int    `env:"PG_PORT"`
	DbName          string `env:"PG_DB_NAME"`
	Password        string `env:"PG_PASSWORD"`
	User            string `env:"PG_USER"`
	MaxOpenConns    int    `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
	ConnMaxLifetime int    `env:"PG_CONN_MAX_LIFETIME" envDefault:"300"`
	MaxIdleConns    int    `env:"PG_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxIdleTime int    `env:"PG_CONN_MAX_IDLE_TIME" envDefault:"60"`
	MigrationDir    string `env:"PG_MIGRATION_DIR" envDefault:"migrations"`
}

type Telegram struct {
	Token            string        `env:"TELEGRAM_TOKEN"`
	UpdTimeout       time.Duration `env:"TELEGRAM_UPD_TIMEOUT" envDefault:"10s"`
	FileLimitInBytes int           `env:"TELEGRAM_FILE_LIMIT_IN_BYTES" envDefault:"52428800"`
}

type Redis struct {
	Host     string `env:"REDIS_HOST"`
	Port     int    `env:"REDIS_PORT"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type API struct {
	Debug       bool `env:"API_DEBUG" envDefault:"false"`
	TerminalApi TerminalApi
}

// TerminalApi is the trading backend. A zero timeout means requests are not bounded by the client.
type TerminalApi struct {
	Url     string        `env:"TERMINAL_API_URL" envDefault:"http://localhost:5000/api"`
	Timeout time.Duration `env:"TERMINAL_API_TIMEOUT" envDefault:"0s"`
}

type Session struct {
	TokenTTL time.Duration `env:"SESSION_TOKEN_TTL" envDefault:"0s"`
	StateTTL time.Duration `env:"SESSION_STATE_TTL" envDefault:"30m"`
}

type Jobs struct {
	DigestCrontab            string        `env:"DIGEST_CRONTAB" envDefault:"0 0 9 * * *"`
	DeleteOldReportsInterval time.Duration `env:"DELETE_OLD_REPORTS_INTERVAL" envDefault:"1h"`
}

type GoogleDrive struct {
	CredentialsFile string        `env:"GOOGLE_DRIVE_CREDENTIALS_FILE"`
	FileTTL         time.Duration `env:"GOOGLE_DRIVE_FILE_TTL" envDefault:"24h"`
}

type Navigator struct {
	Buffer int `env:"NAVIGATOR_BUFFER" envDefault:"64"`
}

func MustLoad() *Config {
	_ = godotenv.Load(".env")

	cfg := &Config{}

	opts := env.Options{RequiredIfNoDef: true}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		log.Fatalf("parse config error: %s", err)
	}

	return cfg
}
