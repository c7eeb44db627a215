package config

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server       Server
	Database     Database
	LLM          LLM
	Behavior     Behavior
	Session      Session
	GeminiApiKey string
	OpenAIApiKey string
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type LLM struct {
	Provider string // "gemini" or "openai"
	Timeout  time.Duration
}

type Behavior struct {
	ApiURL  string
	Timeout time.Duration
}

type Session struct {
	IdleTimeout time.Duration
	SweepSpec   string // cron spec for the idle-session sweeper
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LLM_PROVIDER", "gemini")
	viper.SetDefault("EVALUATOR_TIMEOUT_SECONDS", 20)
	viper.SetDefault("BEHAVIOR_TIMEOUT_SECONDS", 30)
	viper.SetDefault("SESSION_IDLE_TIMEOUT_MINUTES", 120)
	viper.SetDefault("SWEEP_CRON_SPEC", "@every 15m")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.GeminiApiKey = viper.GetString("GEMINI_API_KEY")
	config.OpenAIApiKey = viper.GetString("OPENAI_API_KEY")
	config.LLM.Provider = viper.GetString("LLM_PROVIDER")
	config.LLM.Timeout = time.Duration(viper.GetInt("EVALUATOR_TIMEOUT_SECONDS")) * time.Second

	config.Behavior.ApiURL = viper.GetString("BEHAVIOR_API_URL")
	config.Behavior.Timeout = time.Duration(viper.GetInt("BEHAVIOR_TIMEOUT_SECONDS")) * time.Second

	config.Session.IdleTimeout = time.Duration(viper.GetInt("SESSION_IDLE_TIMEOUT_MINUTES")) * time.Minute
	config.Session.SweepSpec = viper.GetString("SWEEP_CRON_SPEC")

	log.Info().Str("port", config.Server.Port).Str("llm_provider", config.LLM.Provider).Msg("Config loaded")
	return &config, nil
}
