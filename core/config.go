package core

import (
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Address         string
		Host            string
		DebugHost       string
		ShutdownTimeout time.Duration
		DisableReqLogs  bool
	}

	DatabaseConfig struct {
		Engine     string // inmem | postgres
		Host       string
		Port       int
		User       string
		Password   string
		Name       string
		DisableTLS bool
	}

	GuidanceConfig struct {
		Provider     string // template | gemini
		GeminiAPIKey string
		Model        string
		Delay        time.Duration // template provider only
	}

	Config struct {
		AppName          string
		Env              string
		Build            string
		Debug            bool
		TestMode         bool
		Timezone         string
		NegativeWindow   time.Duration
		SeedMockData     bool
		RollbarToken     string
		SendgridApiKey   string
		DefaultFromEmail string

		Server   ServerConfig
		Database DatabaseConfig
		Guidance GuidanceConfig
	}
)

// NewConfig reads the configuration from defaults, an optional `config/.env.<env>` file and the environment.
// ENV selects the environment: DEV (local; default), TEST, QA, PROD.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Tafakari")
	v.SetDefault("build", "develop")
	v.SetDefault("timezone", "Local")
	v.SetDefault("negativeWindow", 72*time.Hour)
	v.SetDefault("seedMockData", true)
	v.SetDefault("rollbarToken", "")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("defaultFromEmail", "noreply@localhost")

	v.SetDefault("serverAddress", ":8000")
	v.SetDefault("serverHost", "localhost")
	v.SetDefault("serverDebugHost", ":4000")
	v.SetDefault("serverShutdownTimeout", 5*time.Second)
	v.SetDefault("serverDisableReqLogs", false)

	v.SetDefault("databaseEngine", "inmem")
	v.SetDefault("databaseHost", "localhost")
	v.SetDefault("databasePort", 5432)
	v.SetDefault("databaseUser", "tafakari")
	v.SetDefault("databasePassword", "")
	v.SetDefault("databaseName", "tafakari")
	v.SetDefault("databaseDisableTLS", true)

	v.SetDefault("guidanceProvider", "template")
	v.SetDefault("guidanceGeminiApiKey", "")
	v.SetDefault("guidanceModel", "gemini-2.5-flash")
	v.SetDefault("guidanceDelay", 1500*time.Millisecond)

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}
	if env == "TEST" {
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	if wd, err := os.Getwd(); err == nil {
		dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
		if _, err := os.Stat(dotEnvPath); err == nil {
			if err := godotenv.Load(dotEnvPath); err != nil {
				log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
			}
		} else if !os.IsNotExist(err) {
			log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
		}
	}
	v.AutomaticEnv()

	return &Config{
		AppName:          v.GetString("appName"),
		Env:              env,
		Build:            v.GetString("build"),
		Debug:            v.GetBool("debug"),
		TestMode:         v.GetBool("testMode"),
		Timezone:         v.GetString("timezone"),
		NegativeWindow:   v.GetDuration("negativeWindow"),
		SeedMockData:     v.GetBool("seedMockData"),
		RollbarToken:     v.GetString("rollbarToken"),
		SendgridApiKey:   v.GetString("sendgridApiKey"),
		DefaultFromEmail: v.GetString("defaultFromEmail"),
		Server: ServerConfig{
			Address:         v.GetString("serverAddress"),
			Host:            v.GetString("serverHost"),
			DebugHost:       v.GetString("serverDebugHost"),
			ShutdownTimeout: v.GetDuration("serverShutdownTimeout"),
			DisableReqLogs:  v.GetBool("serverDisableReqLogs"),
		},
		Database: DatabaseConfig{
			Engine:     strings.ToLower(v.GetString("databaseEngine")),
			Host:       v.GetString("databaseHost"),
			Port:       v.GetInt("databasePort"),
			User:       v.GetString("databaseUser"),
			Password:   v.GetString("databasePassword"),
			Name:       v.GetString("databaseName"),
			DisableTLS: v.GetBool("databaseDisableTLS"),
		},
		Guidance: GuidanceConfig{
			Provider:     strings.ToLower(v.GetString("guidanceProvider")),
			GeminiAPIKey: v.GetString("guidanceGeminiApiKey"),
			Model:        v.GetString("guidanceModel"),
			Delay:        v.GetDuration("guidanceDelay"),
		},
	}
}

// Location resolves Timezone; unknown names fall back to the local timezone.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func (c *Config) DefaultFromAddress() mail.Address {
	addr, err := mail.ParseAddress(c.DefaultFromEmail)
	if err != nil {
		return mail.Address{Name: c.AppName, Address: c.DefaultFromEmail}
	}
	if addr.Name == "" {
		addr.Name = c.AppName
	}
	return *addr
}

func (dc DatabaseConfig) Address() string {
	return net.JoinHostPort(dc.Host, strconv.Itoa(dc.Port))
}
