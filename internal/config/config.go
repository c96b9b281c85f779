package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type MySQL struct {
	User     string
	Password string
	Host     string
	Port     string
	Database string
	LogLevel string
}

type Config struct {
	Port             string
	MySQL            MySQL
	RedisAddr        string
	RabbitURL        string
	OrderExchange    string
	ShippingFee      int64
	ShippingMethod   string
	CacheTTL         time.Duration
	WarmupProductIDs []uint64
}

func Load() *Config {
	return &Config{
		Port: getenv("PORT", "8080"),
		MySQL: MySQL{
			User:     getenv("MYSQL_USER", "root"),
			Password: os.Getenv("MYSQL_PASSWORD"),
			Host:     getenv("MYSQL_HOST", "localhost"),
			Port:     getenv("MYSQL_PORT", "3306"),
			Database: getenv("MYSQL_DATABASE", "storefront"),
			LogLevel: getenv("DB_LOG_LEVEL", "warn"),
		},
		RedisAddr:        getenv("REDIS_HOST", "localhost") + ":" + getenv("REDIS_PORT", "6379"),
		RabbitURL:        os.Getenv("RABBITMQ_URL"),
		OrderExchange:    getenv("ORDER_EXCHANGE", "order.exchange"),
		ShippingFee:      getenvInt("SHIPPING_FEE", 30000),
		ShippingMethod:   getenv("SHIPPING_METHOD", "standard"),
		CacheTTL:         getenvDuration("CACHE_TTL", 30*time.Second),
		WarmupProductIDs: parseIDs(os.Getenv("WARMUP_PRODUCT_IDS")),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}

func parseIDs(s string) []uint64 {
	var ids []uint64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if id, err := strconv.ParseUint(part, 10, 64); err == nil && id > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}
