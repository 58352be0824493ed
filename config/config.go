package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Env               string `env:"ENV"`
	LogLevel          string `env:"LOG_LEVEL"`
	Postgres          Postgres
	Telegram          Telegram
	Redis             Redis
	Divination        Divination
	Pagination        Pagination
	Imggen            Imggen
	Jobs              Jobs
	BooksPerPage      int           `env:"BOOKS_PER_PAGE" envDefault:"3"`
	SessionExpiration time.Duration `env:"SESSION_EXPIRATION" envDefault:"2h"`
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
}

type Telegram struct {
	Token      string        `env:"TELEGRAM_TOKEN"`
	UpdTimeout time.Duration `env:"TELEGRAM_UPD_TIMEOUT" envDefault:"10s"`
}

type Redis struct {
	Host     string `env:"REDIS_HOST"`
	Port     int    `env:"REDIS_PORT"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB"`
}

type Divination struct {
	RevealDelay time.Duration `env:"DIVINATION_REVEAL_DELAY" envDefault:"1s"`
	Locale      string        `env:"DIVINATION_LOCALE" envDefault:"russian"`
}

type Pagination struct {
	LineWidth  int `env:"PAGINATION_LINE_WIDTH" envDefault:"55"`
	PageHeight int `env:"PAGINATION_PAGE_HEIGHT" envDefault:"50"`
}

type Imggen struct {
	AuthorFontPath string `env:"IMGGEN_AUTHOR_FONT_PATH" envDefault:"fonts/Ubuntu-Bold.ttf"`
	TitleFontPath  string `env:"IMGGEN_TITLE_FONT_PATH" envDefault:"fonts/Ubuntu-Bold.ttf"`
	QuoteFontPath  string `env:"IMGGEN_QUOTE_FONT_PATH" envDefault:"fonts/georgiai.ttf"`
}

type Jobs struct {
	BansRefreshInterval time.Duration `env:"BANS_REFRESH_INTERVAL" envDefault:"5m"`
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
