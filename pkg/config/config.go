package config

import (
	"time"
)

type DB struct {
	Url string `envconfig:"URL" default:"file:ratesync.db?cache=shared&_fk=1"`
}

type Log struct {
	Level      string `envconfig:"LEVEL" default:"info"`
	Format     string `envconfig:"FORMAT" default:"text"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[ratesync]"`
}

type Server struct {
	Scheme string `envconfig:"SCHEME" default:"http"`
	Host   string `envconfig:"HOST" default:"localhost"`
	Port   int    `envconfig:"PORT" default:"3000"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

//revive:disable
type OpenExchangeRates struct {
	ApiUrl            string        `envconfig:"API_URL" default:"https://openexchangerates.org/api"`
	HTTPTimeout       time.Duration `envconfig:"HTTP_TIMEOUT" default:"15s"`
	MaxRetries        int           `envconfig:"MAX_RETRIES" default:"2"`
	RetryDelay        time.Duration `envconfig:"RETRY_DELAY" default:"1s"`
	RequestsPerMinute int           `envconfig:"REQUESTS_PER_MINUTE" default:"60"`
	BurstSize         int           `envconfig:"BURST_SIZE" default:"1"`
}

//revive:enable
type Providers struct {
	OpenExchangeRates *OpenExchangeRates `envconfig:"OXR"`
}

type CurrencyCache struct {
	TTL    time.Duration `envconfig:"TTL" default:"24h"`
	Prefix string        `envconfig:"PREFIX" default:"ratesync:"`
	Url    string        `envconfig:"URL"`
}

type Sync struct {
	RetentionDays int `envconfig:"RETENTION_DAYS" default:"1"`
}

type App struct {
	Env           string         `envconfig:"APP_ENV" default:"development"`
	Server        *Server        `envconfig:"SERVER"`
	Log           *Log           `envconfig:"LOG"`
	DB            *DB            `envconfig:"DATABASE"`
	RateLimit     *RateLimit     `envconfig:"RATE_LIMIT"`
	Providers     *Providers     `envconfig:"PROVIDER"`
	CurrencyCache *CurrencyCache `envconfig:"CURRENCY_CACHE"`
	Sync          *Sync          `envconfig:"SYNC"`
}
