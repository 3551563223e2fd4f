package core

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Debug        bool
		TestMode     bool
		Env          string
		Build        string
		AppName      string
		RollbarToken string
		Server       ServerConfig
		Database     DatabaseConfig
		Report       ReportConfig
	}

	ServerConfig struct {
		Host            string
		Address         string
		DebugHost       string
		ShutdownTimeout time.Duration
	}

	DatabaseConfig struct {
		Host            string
		Port            int
		User            string
		Password        string
		Name            string
		MaxOpenConns    int
		MaxIdleConns    int
		ConnMaxLifetime time.Duration
	}

	ReportConfig struct {
		// TrendLimit is the default number of historical periods returned
		// by trend queries.
		TrendLimit int
		// ConsistentSnapshot wraps the queries that make up one report in a
		// single read-only transaction. Off by default: a submission landing
		// mid-request may then produce a report whose summary and trend
		// sections disagree.
		ConsistentSnapshot bool
	}
)

func (c DatabaseConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// NewConfig loads the app configuration from defaults, an optional
// config/.env.<env> file and environment variables, in increasing precedence.
func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Shule")
	v.SetDefault("build", "dev")
	v.SetDefault("address", ":8080")
	v.SetDefault("debugHost", "0.0.0.0:4000")
	v.SetDefault("shutdownTimeout", 5*time.Second)
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", 3306)
	v.SetDefault("db_username", "shule")
	v.SetDefault("db_password", "")
	v.SetDefault("db_database", "shule")
	v.SetDefault("dbMaxOpenConns", 20)
	v.SetDefault("dbMaxIdleConns", 5)
	v.SetDefault("dbConnMaxLifetime", 5*time.Minute)
	v.SetDefault("trendLimit", 5)
	v.SetDefault("consistentReports", false)

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}

	// load config/.env.<env> if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err = godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Debug:        v.GetBool("debug"),
		TestMode:     env == "TEST",
		Env:          env,
		Build:        v.GetString("build"),
		AppName:      v.GetString("appName"),
		RollbarToken: v.GetString("rollbar_token"),
		Server: ServerConfig{
			Host:            v.GetString("host"),
			Address:         v.GetString("address"),
			DebugHost:       v.GetString("debugHost"),
			ShutdownTimeout: v.GetDuration("shutdownTimeout"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("db_host"),
			Port:            v.GetInt("db_port"),
			User:            v.GetString("db_username"),
			Password:        v.GetString("db_password"),
			Name:            v.GetString("db_database"),
			MaxOpenConns:    v.GetInt("dbMaxOpenConns"),
			MaxIdleConns:    v.GetInt("dbMaxIdleConns"),
			ConnMaxLifetime: v.GetDuration("dbConnMaxLifetime"),
		},
		Report: ReportConfig{
			TrendLimit:         v.GetInt("trendLimit"),
			ConsistentSnapshot: v.GetBool("consistentReports"),
		},
	}
}
