package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Mongo   MongoConfig
	Redis   RedisConfig
	Carrier CarrierConfig

	// RefreshWorkers sizes the status-refresh worker pool.
	RefreshWorkers int `env:"REFRESH_WORKERS, default=4"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=storefront"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// CredentialProfile is one carrier account. COD orders must ship under a
// COD-enabled contract, so the two profiles are configured independently.
type CredentialProfile struct {
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
}

// Configured reports whether the profile carries usable credentials.
func (p CredentialProfile) Configured() bool {
	return p.Username != "" && p.Password != ""
}

type CarrierConfig struct {
	// Mode selects the carrier environment: "test" or "live".
	Mode string `env:"CARRIER_MODE, default=test"`

	// Explicit endpoint overrides. When empty, the per-mode defaults
	// below are applied by Load.
	DispatcherURL string `env:"CARRIER_DISPATCHER_URL"`
	ReportingURL  string `env:"CARRIER_REPORTING_URL"`

	Language       string `env:"CARRIER_LANGUAGE, default=TR"`
	TimeoutSeconds int    `env:"CARRIER_TIMEOUT_SECONDS, default=30"`

	Normal CredentialProfile `env:", prefix=CARRIER_"`
	COD    CredentialProfile `env:", prefix=CARRIER_COD_"`

	// SelectedCredit and CreditRule are the carrier-contract pair
	// submitted for card collection on COD shipments.
	SelectedCredit string `env:"CARRIER_SELECTED_CREDIT, default=1"`
	CreditRule     string `env:"CARRIER_CREDIT_RULE,     default=1"`

	// CashOnlyCOD forces cash collection and suppresses the credit-rule
	// pair, for accounts contractually restricted to cash.
	CashOnlyCOD bool `env:"CARRIER_CASH_ONLY_COD, default=false"`

	// RawXMLFallback switches the transport to the hand-built XML writer
	// that preserves exact field casing. Last resort, off by default.
	RawXMLFallback bool `env:"CARRIER_RAW_XML_FALLBACK, default=false"`
}

const (
	testDispatcherURL = "https://testwebservices.yurticikargo.com/KOPSWebServices/ShippingOrderDispatcherServices"
	testReportingURL  = "https://testwebservices.yurticikargo.com/KOPSWebServices/WsReportWithReferenceServices"
	liveDispatcherURL = "https://webservices.yurticikargo.com/KOPSWebServices/ShippingOrderDispatcherServices"
	liveReportingURL  = "https://webservices.yurticikargo.com/KOPSWebServices/WsReportWithReferenceServices"
)

// Load reads configuration from environment variables using go-envconfig
// and applies the per-mode carrier endpoint defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if cfg.Carrier.DispatcherURL == "" {
		if cfg.Carrier.Mode == "live" {
			cfg.Carrier.DispatcherURL = liveDispatcherURL
		} else {
			cfg.Carrier.DispatcherURL = testDispatcherURL
		}
	}
	if cfg.Carrier.ReportingURL == "" {
		if cfg.Carrier.Mode == "live" {
			cfg.Carrier.ReportingURL = liveReportingURL
		} else {
			cfg.Carrier.ReportingURL = testReportingURL
		}
	}

	return &cfg, nil
}
