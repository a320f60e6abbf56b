package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Payment  PaymentConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	APIKey string
}

// PaymentConfig holds payment gateway configuration.
type PaymentConfig struct {
	// EnabledGateways lists the gateway names orders may be paid through.
	EnabledGateways []string
	// DefaultGateway is used when a request does not name one.
	DefaultGateway string
	// RequestTimeout bounds outbound initiation calls to remote gateways.
	RequestTimeout time.Duration
	// ResultURL is the frontend page shoppers land on after payment.
	ResultURL string

	MoMo  MoMoConfig
	VNPay VNPayConfig
}

// MoMoConfig holds MoMo gateway credentials and endpoints.
type MoMoConfig struct {
	PartnerCode string
	PartnerName string
	StoreID     string
	AccessKey   string
	SecretKey   string
	Endpoint    string
	RedirectURL string
	IPNURL      string
}

// VNPayConfig holds VNPay gateway credentials and endpoints.
type VNPayConfig struct {
	TmnCode   string
	SecretKey string
	BaseURL   string
	ReturnURL string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "skincareshop"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 25),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 5),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			APIKey: getEnv("API_KEY", ""),
		},
		Payment: PaymentConfig{
			EnabledGateways: getEnvAsSlice("PAYMENT_GATEWAYS", []string{"vnpay"}),
			DefaultGateway:  getEnv("PAYMENT_DEFAULT_GATEWAY", "vnpay"),
			RequestTimeout:  time.Duration(getEnvAsInt("PAYMENT_REQUEST_TIMEOUT", 10)) * time.Second,
			ResultURL:       getEnv("PAYMENT_RESULT_URL", "http://localhost:5173/orders"),
			MoMo: MoMoConfig{
				PartnerCode: getEnv("MOMO_PARTNER_CODE", ""),
				PartnerName: getEnv("MOMO_PARTNER_NAME", "SkinCare Shop"),
				StoreID:     getEnv("MOMO_STORE_ID", "SkinCareShopOnline"),
				AccessKey:   getEnv("MOMO_ACCESS_KEY", ""),
				SecretKey:   getEnv("MOMO_SECRET_KEY", ""),
				Endpoint:    getEnv("MOMO_ENDPOINT", "https://test-payment.momo.vn/v2/gateway/api/create"),
				RedirectURL: getEnv("MOMO_REDIRECT_URL", ""),
				IPNURL:      getEnv("MOMO_IPN_URL", ""),
			},
			VNPay: VNPayConfig{
				// Defaults are the VNPay sandbox terminal; production
				// deployments must override both.
				TmnCode:   getEnv("VNPAY_TMN_CODE", "K2035S4C"),
				SecretKey: getEnv("VNPAY_SECRET_KEY", "6E93KTQ6EHNWFUIIIGJW3S9URPTN4MOU"),
				BaseURL:   getEnv("VNPAY_BASE_URL", "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html"),
				ReturnURL: getEnv("VNPAY_RETURN_URL", "http://localhost:8080/api/vn-pay/return"),
			},
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Database.Port)
	}

	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Database.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.Database.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.Database.MinConnections > c.Database.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	if c.Auth.APIKey == "" {
		return fmt.Errorf("API key is required")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	return c.Payment.validate()
}

func (p *PaymentConfig) validate() error {
	if len(p.EnabledGateways) == 0 {
		return fmt.Errorf("at least one payment gateway must be enabled")
	}

	enabled := map[string]bool{}
	for _, name := range p.EnabledGateways {
		switch name {
		case "momo", "vnpay":
			enabled[name] = true
		default:
			return fmt.Errorf("unknown payment gateway: %s", name)
		}
	}

	if !enabled[p.DefaultGateway] {
		return fmt.Errorf("default payment gateway %q is not enabled", p.DefaultGateway)
	}

	if p.RequestTimeout <= 0 {
		return fmt.Errorf("payment request timeout must be positive")
	}

	if enabled["momo"] {
		if p.MoMo.PartnerCode == "" || p.MoMo.AccessKey == "" || p.MoMo.SecretKey == "" {
			return fmt.Errorf("MoMo partner code, access key and secret key are required when momo is enabled")
		}
		if p.MoMo.Endpoint == "" {
			return fmt.Errorf("MoMo endpoint is required when momo is enabled")
		}
	}

	if enabled["vnpay"] {
		if p.VNPay.TmnCode == "" || p.VNPay.SecretKey == "" {
			return fmt.Errorf("VNPay terminal code and secret key are required when vnpay is enabled")
		}
		if p.VNPay.BaseURL == "" {
			return fmt.Errorf("VNPay base URL is required when vnpay is enabled")
		}
	}

	return nil
}

// GatewayEnabled reports whether the named gateway may be used for payment.
func (p *PaymentConfig) GatewayEnabled(name string) bool {
	for _, n := range p.EnabledGateways {
		if n == name {
			return true
		}
	}
	return false
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsSlice retrieves a comma-separated environment variable or returns a default value.
func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, p := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
