package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const DefaultConfigPath = "./config/config.yaml"

type Postgres struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"database"`
	SSLMode  string `mapstructure:"sslmode"`
	// URL takes precedence over the discrete fields when set (hosted databases hand out a DSN).
	URL string `mapstructure:"url"`
}

func (p Postgres) ConnStr() string {
	if p.URL != "" {
		return p.URL
	}

	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s", p.Host, p.User, p.Password, p.DBName, p.Port, p.SSLMode)
}

type Catalog struct {
	Driver     string `mapstructure:"driver"`
	SQLitePath string `mapstructure:"sqlitePath"`
}

type LLM struct {
	Provider   string        `mapstructure:"provider"`
	Model      string        `mapstructure:"model"`
	APIKey     string        `mapstructure:"apiKey"`
	BaseURL    string        `mapstructure:"baseURL"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"maxRetries"`
}

type Ollama struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

func (o *Ollama) Address() string {
	return fmt.Sprintf("http://%s:%s", o.Host, o.Port)
}

type Images struct {
	StorageBaseURL string `mapstructure:"storageBaseURL"`
	RelativePrefix string `mapstructure:"relativePrefix"`
	Placeholder    string `mapstructure:"placeholder"`
}

type Server struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	AllowedOrigins  []string      `mapstructure:"allowedOrigins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
}

func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type Log struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	Postgres Postgres `mapstructure:"postgres"`
	Catalog  Catalog  `mapstructure:"catalog"`
	LLM      LLM      `mapstructure:"llm"`
	Ollama   Ollama   `mapstructure:"ollama"`
	Images   Images   `mapstructure:"images"`
	Server   Server   `mapstructure:"server"`
	Log      Log      `mapstructure:"log"`
}

func (c *Config) Validate() error {
	switch c.Catalog.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported catalog driver %q", c.Catalog.Driver)
	}

	switch c.LLM.Provider {
	case "openai":
		if c.LLM.APIKey == "" {
			return errors.New("llm.apiKey (or OPENAI_API_KEY) is required for the openai provider")
		}
	case "ollama":
	default:
		return fmt.Errorf("unsupported llm provider %q", c.LLM.Provider)
	}

	if c.LLM.Model == "" {
		return errors.New("llm.model is required")
	}
	if c.LLM.Timeout <= 0 {
		return errors.New("llm.timeout must be positive")
	}
	if c.Images.StorageBaseURL == "" {
		return errors.New("images.storageBaseURL is required")
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.allowedOrigins", []string{"*"})
	v.SetDefault("server.shutdownTimeout", 10*time.Second)

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.database", "postgres")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.url", "")

	v.SetDefault("catalog.driver", "postgres")
	v.SetDefault("catalog.sqlitePath", "catalog.db")

	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.apiKey", "")
	v.SetDefault("llm.baseURL", "")
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("llm.maxRetries", 2)

	v.SetDefault("ollama.host", "localhost")
	v.SetDefault("ollama.port", "11434")

	v.SetDefault("images.storageBaseURL", "https://storage.vibe-eats.app/storage/v1/object/public/images")
	v.SetDefault("images.relativePrefix", "/")
	v.SetDefault("images.placeholder", "/placeholder.svg")

	v.SetDefault("log.level", "info")
}

// Load reads the yaml file at path (if it exists), a .env file in the working
// directory (if it exists) and the environment, in increasing precedence.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	_ = v.BindEnv("llm.apiKey", "LLM_APIKEY", "OPENAI_API_KEY")
	_ = v.BindEnv("postgres.url", "POSTGRES_URL", "DATABASE_URL")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func LoadConfig() *Config {
	config, err := Load(DefaultConfigPath)
	if err != nil {
		log.Fatal(err)
	}

	return config
}
