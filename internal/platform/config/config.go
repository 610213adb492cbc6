package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	JWTSecret string
	JWTExpiry time.Duration
	JWTIssuer string

	// Operator wallet and swap pair settings
	AdminWalletAddress string
	AdminWalletSeed    string
	IOUCurrency        string
	IssuerAddress      string
	BaseAsset          string
	QuoteAsset         string

	// XRPL node access
	XRPLRPCURL     string
	XRPLFaucetURL  string
	XRPLTimeout    time.Duration
	XRPLMaxRetries uint
	XRPLRateLimit  float64
	XRPLRateBurst  int

	// Event publishing; an empty URL disables the broker
	RabbitURL      string
	RabbitExchange string

	// Upstream market data; an empty URL disables the poller
	PriceFeedURL          string
	PriceFeedTokenURL     string
	PriceFeedClientID     string
	PriceFeedClientSecret string
	PriceFeedInterval     time.Duration
	PriceFeedSpread       decimal.Decimal

	// Formatted as "<count>-<period>", e.g. "5-M" for 5 per minute
	LoginRateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "api-server")
	viper.SetDefault("ADMIN_WALLET_ADDRESS", "")
	viper.SetDefault("ADMIN_WALLET_SEED", "")
	viper.SetDefault("IOU_CURRENCY", "KRW")
	viper.SetDefault("ISSUER_ADDRESS", "")
	viper.SetDefault("BASE_ASSET", "XRP")
	viper.SetDefault("QUOTE_ASSET", "KRW")
	viper.SetDefault("XRPL_RPC_URL", "https://s.altnet.rippletest.net:51234")
	viper.SetDefault("XRPL_FAUCET_URL", "https://faucet.altnet.rippletest.net/accounts")
	viper.SetDefault("XRPL_TIMEOUT", "10s")
	viper.SetDefault("XRPL_MAX_RETRIES", 3)
	viper.SetDefault("XRPL_RATE_LIMIT", 10.0)
	viper.SetDefault("XRPL_RATE_BURST", 5)
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("RABBITMQ_EXCHANGE", "swap.events")
	viper.SetDefault("PRICE_FEED_URL", "")
	viper.SetDefault("PRICE_FEED_TOKEN_URL", "")
	viper.SetDefault("PRICE_FEED_CLIENT_ID", "")
	viper.SetDefault("PRICE_FEED_CLIENT_SECRET", "")
	viper.SetDefault("PRICE_FEED_INTERVAL", "1m")
	viper.SetDefault("PRICE_FEED_SPREAD", "0.001")
	viper.SetDefault("LOGIN_RATE_LIMIT", "5-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiry, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiry = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiry)
	}
	cfg.JWTExpiry = jwtExpiry
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.AdminWalletAddress = viper.GetString("ADMIN_WALLET_ADDRESS")
	cfg.AdminWalletSeed = viper.GetString("ADMIN_WALLET_SEED")
	if cfg.AdminWalletAddress == "" || cfg.AdminWalletSeed == "" {
		log.Println("Warning: ADMIN_WALLET_ADDRESS or ADMIN_WALLET_SEED not set. Swap settlement will fail until both are configured.")
	}

	cfg.IOUCurrency = viper.GetString("IOU_CURRENCY")
	cfg.IssuerAddress = viper.GetString("ISSUER_ADDRESS")
	if cfg.IssuerAddress == "" {
		// The operator issues tokens from its own account unless told otherwise
		cfg.IssuerAddress = cfg.AdminWalletAddress
	}
	cfg.BaseAsset = viper.GetString("BASE_ASSET")
	cfg.QuoteAsset = viper.GetString("QUOTE_ASSET")

	cfg.XRPLRPCURL = viper.GetString("XRPL_RPC_URL")
	cfg.XRPLFaucetURL = viper.GetString("XRPL_FAUCET_URL")
	xrplTimeoutStr := viper.GetString("XRPL_TIMEOUT")
	xrplTimeout, err := time.ParseDuration(xrplTimeoutStr)
	if err != nil {
		xrplTimeout = 10 * time.Second
		log.Printf("Warning: Invalid value for XRPL_TIMEOUT ('%s'). Defaulting to %s.\n", xrplTimeoutStr, xrplTimeout)
	}
	cfg.XRPLTimeout = xrplTimeout
	cfg.XRPLMaxRetries = viper.GetUint("XRPL_MAX_RETRIES")
	cfg.XRPLRateLimit = viper.GetFloat64("XRPL_RATE_LIMIT")
	cfg.XRPLRateBurst = viper.GetInt("XRPL_RATE_BURST")

	cfg.RabbitURL = viper.GetString("RABBITMQ_URL")
	cfg.RabbitExchange = viper.GetString("RABBITMQ_EXCHANGE")

	cfg.PriceFeedURL = viper.GetString("PRICE_FEED_URL")
	cfg.PriceFeedTokenURL = viper.GetString("PRICE_FEED_TOKEN_URL")
	cfg.PriceFeedClientID = viper.GetString("PRICE_FEED_CLIENT_ID")
	cfg.PriceFeedClientSecret = viper.GetString("PRICE_FEED_CLIENT_SECRET")
	feedIntervalStr := viper.GetString("PRICE_FEED_INTERVAL")
	feedInterval, err := time.ParseDuration(feedIntervalStr)
	if err != nil {
		feedInterval = time.Minute
		log.Printf("Warning: Invalid value for PRICE_FEED_INTERVAL ('%s'). Defaulting to %s.\n", feedIntervalStr, feedInterval)
	}
	cfg.PriceFeedInterval = feedInterval

	feedSpreadStr := viper.GetString("PRICE_FEED_SPREAD")
	feedSpread, err := decimal.NewFromString(feedSpreadStr)
	if err != nil || feedSpread.IsNegative() {
		feedSpread = decimal.RequireFromString("0.001")
		log.Printf("Warning: Invalid value for PRICE_FEED_SPREAD ('%s'). Defaulting to %s.\n", feedSpreadStr, feedSpread)
	}
	cfg.PriceFeedSpread = feedSpread

	cfg.LoginRateLimit = viper.GetString("LOGIN_RATE_LIMIT")

	return cfg, nil
}
