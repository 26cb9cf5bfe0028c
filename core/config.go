package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	BackendConfig struct {
		URL     string
		Timeout time.Duration
	}

	ServerConfig struct {
		Address         string
		Host            string
		DebugHost       string
		ShutdownTimeout time.Duration
		DisableReqLogs  bool
	}

	SessionConfig struct {
		CookieName string
		TTL        time.Duration
		Store      string // inmem | redis
		// SweepInterval is how often expired browser sessions are evicted.
		SweepInterval time.Duration
	}

	RedisConfig struct {
		Addr     string
		Password string
		DB       int
	}

	Config struct {
		Env                 string
		Build               string
		Debug               bool
		TestMode            bool
		AppName             string
		SecretKey           string
		RollbarToken        string
		CommonPasswordsPath string

		Backend BackendConfig
		Server  ServerConfig
		Session SessionConfig
		Redis   RedisConfig
	}
)

func setDefaults(v *viper.Viper) {
	v.SetTypeByDefaultValue(true)
	v.SetDefault("build", "develop")
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Eduport Admin")
	v.SetDefault("secretKey", "t9c!k2$w-vq3@r8e=hz&pm0x(b)7#y1^a6d_u+n5go4fj%sl")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("commonPasswordsPath", filepath.Join("assets", "common-passwords.txt.gz"))

	v.SetDefault("backendURL", "https://eduport-backend-production.up.railway.app/admin")
	v.SetDefault("backendTimeout", 30*time.Second)

	v.SetDefault("serverAddress", ":8000")
	v.SetDefault("serverHost", "localhost")
	v.SetDefault("serverDebugHost", ":4000")
	v.SetDefault("serverShutdownTimeout", 5*time.Second)
	v.SetDefault("serverDisableReqLogs", false)

	v.SetDefault("sessionCookieName", "eduport_session")
	v.SetDefault("sessionTTL", 7*24*time.Hour)
	v.SetDefault("sessionStore", "inmem")
	v.SetDefault("sessionSweepInterval", 5*time.Minute)

	v.SetDefault("redisAddr", "localhost:6379")
	v.SetDefault("redisPassword", "")
	v.SetDefault("redisDB", 0)
}

// NewConfig loads the configuration of the current ENV.
// Values are read from the environment (prefixed by ENV, eg. `PROD_BACKENDURL`),
// falling back to `config/.env.<env>` then to the defaults.
func NewConfig() *Config {
	v := viper.New()
	setDefaults(v)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Env:                 env,
		Build:               v.GetString("build"),
		Debug:               v.GetBool("debug"),
		TestMode:            v.GetBool("testMode"),
		AppName:             v.GetString("appName"),
		SecretKey:           v.GetString("secretKey"),
		RollbarToken:        v.GetString("rollbarToken"),
		CommonPasswordsPath: v.GetString("commonPasswordsPath"),
		Backend: BackendConfig{
			URL:     strings.TrimRight(v.GetString("backendURL"), "/"),
			Timeout: v.GetDuration("backendTimeout"),
		},
		Server: ServerConfig{
			Address:         v.GetString("serverAddress"),
			Host:            v.GetString("serverHost"),
			DebugHost:       v.GetString("serverDebugHost"),
			ShutdownTimeout: v.GetDuration("serverShutdownTimeout"),
			DisableReqLogs:  v.GetBool("serverDisableReqLogs"),
		},
		Session: SessionConfig{
			CookieName:    v.GetString("sessionCookieName"),
			TTL:           v.GetDuration("sessionTTL"),
			Store:         strings.ToLower(v.GetString("sessionStore")),
			SweepInterval: v.GetDuration("sessionSweepInterval"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redisAddr"),
			Password: v.GetString("redisPassword"),
			DB:       v.GetInt("redisDB"),
		},
	}
}

// NewTestConfig returns the configuration used by tests.
func NewTestConfig() *Config {
	conf := NewConfig()
	conf.Env = "TEST"
	conf.TestMode = true
	conf.Debug = false
	conf.Server.DisableReqLogs = true
	conf.Session.Store = "inmem"
	return conf
}
