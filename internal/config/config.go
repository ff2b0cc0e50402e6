package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"time"    // For durations

	"github.com/joho/godotenv" // For loading .env files
)

// DepositNetwork is one fixed receive address published to depositors
type DepositNetwork struct {
	Key      string `json:"network"`  // Short key sent by clients, e.g. TRC20
	Label    string `json:"label"`    // Human label, e.g. TRC-20 (USDT)
	Currency string `json:"currency"` // Label attached to the created transaction
	Address  string `json:"address"`  // Platform receive address
}

// Config holds the application configuration
type Config struct {
	AppPort       string        // Application port
	RelayPort     string        // Port of the standalone relay binary
	DBUser        string        // Database user
	DBPassword    string        // Database password
	DBHost        string        // Database host
	DBPort        string        // Database port
	DBName        string        // Database name
	JWTSecret     string        // JWT secret key
	TokenTTL      time.Duration // Session token lifetime
	RedisAddr     string        // Redis server address
	RedisPass     string        // Redis password
	RedisDB       int           // Redis database number
	IsProd        bool          // Is production environment
	LogLevel      string        // logrus level name
	PublicURL     string        // Site origin used in referral links
	DefaultLocale string        // ru or en
	AdminEmail    string        // Granted the admin role by cmd/migrate

	TelegramBotToken string        // Relay secret: bot token
	TelegramChatID   string        // Relay secret: operator chat
	RelayURL         string        // Remote relay endpoint, used instead of direct Telegram when set
	NotifyTimeout    time.Duration // Budget for one detached notification

	DepositNetworks []DepositNetwork // Receive addresses, one per supported network
}

// DSN returns the MySQL data source name
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	return &Config{
		AppPort:       getEnv("APP_PORT", "8080"),
		RelayPort:     getEnv("RELAY_PORT", "8081"),
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBHost:        getEnv("DB_HOST", "127.0.0.1"),
		DBPort:        getEnv("DB_PORT", "3306"),
		DBName:        os.Getenv("DB_NAME"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		TokenTTL:      getEnvAsDuration("TOKEN_TTL", 24*time.Hour),
		RedisAddr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPass:     os.Getenv("REDIS_PASS"),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		IsProd:        os.Getenv("IS_PROD") == "true",
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		PublicURL:     getEnv("PUBLIC_URL", "http://localhost:5173"),
		DefaultLocale: getEnv("DEFAULT_LOCALE", "ru"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),

		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   os.Getenv("TELEGRAM_CHAT_ID"),
		RelayURL:         os.Getenv("RELAY_URL"),
		NotifyTimeout:    getEnvAsDuration("NOTIFY_TIMEOUT", 10*time.Second),

		DepositNetworks: loadDepositNetworks(),
	}
}

// loadDepositNetworks returns the networks that have an address configured, in display order
func loadDepositNetworks() []DepositNetwork {
	all := []DepositNetwork{
		{Key: "TRC20", Label: "TRC-20 (USDT)", Currency: "USDT (TRC-20)"},
		{Key: "ERC20", Label: "ERC-20 (USDT)", Currency: "USDT (ERC-20)"},
		{Key: "BEP20", Label: "BEP-20 (USDT)", Currency: "USDT (BEP-20)"},
		{Key: "BTC", Label: "Bitcoin (BTC)", Currency: "BTC"},
	}
	var out []DepositNetwork
	for _, n := range all {
		if addr := os.Getenv("DEPOSIT_ADDRESS_" + n.Key); addr != "" {
			n.Address = addr
			out = append(out, n)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := time.ParseDuration(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}
