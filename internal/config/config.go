package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	AppPort string

	// DBDriver is "mysql" or "sqlite".
	DBDriver   string
	MySQLHost  string
	MySQLPort  string
	MySQLDB    string
	MySQLUser  string
	MySQLPass  string
	SQLitePath string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs    int
	LoanLockTTLSecs int

	KafkaBrokers []string
	KafkaTopic   string

	LogLevel  string
	LogFormat string

	MinPrincipalMinor int64
	PaymentRetryMax   int
}

var defaults = map[string]any{
	"APP_PORT":                "8080",
	"DB_DRIVER":               "mysql",
	"MYSQL_HOST":              "mysql",
	"MYSQL_PORT":              "3306",
	"MYSQL_DB":                "microlend",
	"MYSQL_USER":              "microlend",
	"MYSQL_PASS":              "microlend",
	"SQLITE_PATH":             "microlend.db",
	"REDIS_ADDR":              "redis:6379",
	"REDIS_DB":                0,
	"IDEMPOTENCY_TTL_SECONDS": 300,
	"LOAN_LOCK_TTL_SECONDS":   15,
	"KAFKA_BROKERS":           "",
	"KAFKA_TOPIC":             "microlend.events",
	"LOG_LEVEL":               "info",
	"LOG_FORMAT":              "json",
	"MIN_PRINCIPAL_MINOR":     10_000,
	"PAYMENT_RETRY_MAX":       3,
}

// Load reads the environment, optionally layered over the file named by CONFIG_FILE.
func Load() *Config {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	// an empty REDIS_ADDR or KAFKA_BROKERS switches that backend off
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()
	v.SetDefault("CONFIG_FILE", "")
	if f := v.GetString("CONFIG_FILE"); f != "" {
		v.SetConfigFile(f)
		// a missing file leaves env and defaults in charge
		_ = v.ReadInConfig()
	}
	return FromViper(v)
}

func FromViper(v *viper.Viper) *Config {
	return &Config{
		AppPort:           v.GetString("APP_PORT"),
		DBDriver:          strings.ToLower(v.GetString("DB_DRIVER")),
		MySQLHost:         v.GetString("MYSQL_HOST"),
		MySQLPort:         v.GetString("MYSQL_PORT"),
		MySQLDB:           v.GetString("MYSQL_DB"),
		MySQLUser:         v.GetString("MYSQL_USER"),
		MySQLPass:         v.GetString("MYSQL_PASS"),
		SQLitePath:        v.GetString("SQLITE_PATH"),
		RedisAddr:         v.GetString("REDIS_ADDR"),
		RedisDB:           v.GetInt("REDIS_DB"),
		IdempTTLSecs:      v.GetInt("IDEMPOTENCY_TTL_SECONDS"),
		LoanLockTTLSecs:   v.GetInt("LOAN_LOCK_TTL_SECONDS"),
		KafkaBrokers:      splitList(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:        v.GetString("KAFKA_TOPIC"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		LogFormat:         v.GetString("LOG_FORMAT"),
		MinPrincipalMinor: v.GetInt64("MIN_PRINCIPAL_MINOR"),
		PaymentRetryMax:   v.GetInt("PAYMENT_RETRY_MAX"),
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case "mysql":
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		// ensure port is valid
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.MinPrincipalMinor <= 0 {
		return errors.New("MIN_PRINCIPAL_MINOR must be positive")
	}
	if c.LoanLockTTLSecs <= 0 {
		return errors.New("LOAN_LOCK_TTL_SECONDS must be positive")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "sqlite" {
		return c.SQLitePath
	}
	return c.MySQLDSN()
}
