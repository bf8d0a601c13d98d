package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Network is one of the four named chain environments.
type Network string

const (
	NetworkMainnet  Network = "mainnet"
	NetworkTestnet  Network = "testnet"
	NetworkDevnet   Network = "devnet"
	NetworkLocalnet Network = "localnet"
)

// Default RPC and Walrus endpoints per network. Env vars override any of these.
var networkDefaults = map[Network]struct {
	rpcURL        string
	publisherURL  string
	aggregatorURL string
}{
	NetworkMainnet: {
		rpcURL:        "https://fullnode.mainnet.sui.io:443",
		publisherURL:  "https://publisher.walrus.space",
		aggregatorURL: "https://aggregator.walrus.space",
	},
	NetworkTestnet: {
		rpcURL:        "https://fullnode.testnet.sui.io:443",
		publisherURL:  "https://publisher.walrus-testnet.walrus.space",
		aggregatorURL: "https://aggregator.walrus-testnet.walrus.space",
	},
	NetworkDevnet: {
		rpcURL:        "https://fullnode.devnet.sui.io:443",
		publisherURL:  "https://publisher.walrus-testnet.walrus.space",
		aggregatorURL: "https://aggregator.walrus-testnet.walrus.space",
	},
	NetworkLocalnet: {
		rpcURL:        "http://127.0.0.1:9000",
		publisherURL:  "http://127.0.0.1:31415",
		aggregatorURL: "http://127.0.0.1:31416",
	},
}

// Config holds application configuration loaded from environment.
type Config struct {
	Server  ServerConfig
	Chain   ChainConfig
	Walrus  WalrusConfig
	Archive ArchiveConfig
	Redis   RedisConfig
	Session SessionConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string
	ReadTimeout        int
	WriteTimeout       int
	CORSAllowedOrigins string // comma-separated, or "*" for all
}

// ChainConfig holds network selection and contract identifiers.
type ChainConfig struct {
	Network      Network
	RPCURL       string
	PackageID    string // marketplace Move package
	ModuleName   string // entry-point module within the package
	FactoryID    string // shared factory object
	ClockID      string // shared clock object
	MockMode     bool   // serve fixture data, build no-op transactions
	APITimeout   time.Duration
	RoleCacheTTL time.Duration
}

// WalrusConfig holds object-storage endpoints and upload retry policy.
type WalrusConfig struct {
	PublisherURL   string
	AggregatorURL  string
	EpochDays      int // storage epoch length used to size upload duration
	UploadAttempts int
	UploadDelay    time.Duration
	UploadTimeout  time.Duration
	MaxFileSize    int64
}

// ArchiveConfig holds the optional S3 creative-archive settings.
// Archiving is disabled when Bucket is empty.
type ArchiveConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SessionConfig holds wallet-session token settings.
type SessionConfig struct {
	Secret      string
	ExpireHours int
}

// Load reads configuration from environment, with optional .env file.
// Missing contract identifiers are not an error here; transaction building
// reports them when a request actually needs them.
func Load() (*Config, error) {
	_ = godotenv.Load()

	network := Network(strings.ToLower(getEnv("CHAIN_NETWORK", string(NetworkTestnet))))
	defaults, ok := networkDefaults[network]
	if !ok {
		return nil, fmt.Errorf("unknown network %q (want mainnet, testnet, devnet or localnet)", network)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			ReadTimeout:        getEnvInt("READ_TIMEOUT_SEC", 30),
			WriteTimeout:       getEnvInt("WRITE_TIMEOUT_SEC", 30),
			CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		},
		Chain: ChainConfig{
			Network:      network,
			RPCURL:       getEnv("CHAIN_RPC_URL", defaults.rpcURL),
			PackageID:    getEnv("MARKETPLACE_PACKAGE_ID", ""),
			ModuleName:   getEnv("MARKETPLACE_MODULE", "marketplace"),
			FactoryID:    getEnv("MARKETPLACE_FACTORY_ID", ""),
			ClockID:      getEnv("CLOCK_OBJECT_ID", "0x6"),
			MockMode:     getEnvBool("MOCK_MODE", false),
			APITimeout:   time.Duration(getEnvInt("API_TIMEOUT_SEC", 15)) * time.Second,
			RoleCacheTTL: time.Duration(getEnvInt("ROLE_CACHE_TTL_SEC", 300)) * time.Second,
		},
		Walrus: WalrusConfig{
			PublisherURL:   getEnv("WALRUS_PUBLISHER_URL", defaults.publisherURL),
			AggregatorURL:  getEnv("WALRUS_AGGREGATOR_URL", defaults.aggregatorURL),
			EpochDays:      getEnvInt("WALRUS_EPOCH_DAYS", 14),
			UploadAttempts: getEnvInt("WALRUS_UPLOAD_ATTEMPTS", 3),
			UploadDelay:    time.Duration(getEnvInt("WALRUS_UPLOAD_DELAY_SEC", 2)) * time.Second,
			UploadTimeout:  time.Duration(getEnvInt("WALRUS_UPLOAD_TIMEOUT_SEC", 60)) * time.Second,
			MaxFileSize:    int64(getEnvInt("WALRUS_MAX_FILE_MB", 10)) * 1024 * 1024,
		},
		Archive: ArchiveConfig{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Bucket:          getEnv("CREATIVE_ARCHIVE_BUCKET", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Session: SessionConfig{
			Secret:      getEnv("SESSION_SECRET", "change-me-in-production"),
			ExpireHours: getEnvInt("SESSION_EXPIRE_HOURS", 24),
		},
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
