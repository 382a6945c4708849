package config

import "os"

type Config struct {
	// Database
	DatabaseURL string // full DSN override; discrete fields below otherwise
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	// Seeded admin user: overrides the default password at first sync.
	AdminPassword string

	// Identity resolution: user name assumed when X-User-Id is absent or
	// unknown. Empty disables the fallback entirely.
	IdentityFallbackUser string

	// Server
	Port        string
	CORSOrigins string
}

func Load() *Config {
	cfg := &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", ""),
		DBName:      getEnv("DB_NAME", "mbgestordb"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),

		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		IdentityFallbackUser: "admin",

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}

	// Distinguish "unset" from "set empty": an empty value switches the
	// trusted-header fallback off.
	if v, ok := os.LookupEnv("IDENTITY_FALLBACK_USER"); ok {
		cfg.IdentityFallbackUser = v
	}

	return cfg
}

func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
