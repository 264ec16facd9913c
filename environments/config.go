package environments

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Gateway  GatewayConfig
	Campaign CampaignConfig
	Auth     AuthConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// GatewayConfig points at the automation gateway that fronts the remote
// messaging protocol (login, user lookup, DM send, engagement actions).
type GatewayConfig struct {
	URL     string
	AuthKey string
	Timeout time.Duration
}

// CampaignConfig holds the documented defaults for a run; the control
// surface can override them per campaign via the settings endpoints.
type CampaignConfig struct {
	TotalQuota           int
	PerAccountQuota      int
	DelayBetweenMessages int
	DelayBetweenAccounts int
	AutoEngage           bool
	AutoLike             bool
	AutoStory            bool
	AutoComment          bool
	AutoFollow           bool
	UseInteractiveLogin  bool
	MessageTemplate      string
}

type AuthConfig struct {
	CampaignAPIKey string
	AdminAPIKey    string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: GetEnv("SERVER_PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     GetEnv("DB_HOST", "localhost"),
			Port:     GetEnv("DB_PORT", "3306"),
			User:     GetEnv("DB_USER", "igbot"),
			Password: GetEnv("DB_PASSWORD", "igbot123"),
			DBName:   GetEnv("DB_NAME", "instagram_bot"),
		},
		Redis: RedisConfig{
			Host:     GetEnv("REDIS_HOST", "localhost"),
			Port:     GetEnv("REDIS_PORT", "6379"),
			Password: GetEnv("REDIS_PASSWORD", ""),
			DB:       GetEnvAsInt("REDIS_DB", 0),
		},
		Gateway: GatewayConfig{
			URL:     GetEnv("GATEWAY_URL", "http://localhost:9000"),
			AuthKey: GetEnv("GATEWAY_AUTH_KEY", ""),
			Timeout: GetEnvAsDuration("GATEWAY_TIMEOUT", 45*time.Second),
		},
		Campaign: CampaignConfig{
			TotalQuota:           GetEnvAsInt("CAMPAIGN_TOTAL_QUOTA", 100),
			PerAccountQuota:      GetEnvAsInt("CAMPAIGN_PER_ACCOUNT_QUOTA", 25),
			DelayBetweenMessages: GetEnvAsInt("CAMPAIGN_DELAY_BETWEEN_MESSAGES_SECONDS", 20),
			DelayBetweenAccounts: GetEnvAsInt("CAMPAIGN_DELAY_BETWEEN_ACCOUNTS_MINUTES", 2),
			AutoEngage:           GetEnvAsBool("CAMPAIGN_AUTO_ENGAGE", true),
			AutoLike:             GetEnvAsBool("CAMPAIGN_AUTO_LIKE", true),
			AutoStory:            GetEnvAsBool("CAMPAIGN_AUTO_STORY", true),
			AutoComment:          GetEnvAsBool("CAMPAIGN_AUTO_COMMENT", false),
			AutoFollow:           GetEnvAsBool("CAMPAIGN_AUTO_FOLLOW", false),
			UseInteractiveLogin:  GetEnvAsBool("CAMPAIGN_USE_INTERACTIVE_LOGIN", true),
			MessageTemplate:      GetEnv("CAMPAIGN_MESSAGE_TEMPLATE", "Hello <FIRSTNAME>! How are you?"),
		},
		Auth: AuthConfig{
			CampaignAPIKey: GetEnv("CAMPAIGN_API_KEY", ""),
			AdminAPIKey:    GetEnv("ADMIN_API_KEY", ""),
		},
	}
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func GetEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func GetEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
