package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/m2tx/session_chat/internal/llm"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

const (
	BackendMemory  = "memory"
	BackendMongoDB = "mongodb"
)

// Config holds the runtime configuration of the chatbot.
type Config struct {
	Model           string        `mapstructure:"model"` // Format: "provider:model" (e.g., "gemini:gemini-2.0-flash")
	GoogleAPIKey    string        `mapstructure:"google_api_key"`
	OpenAIAPIKey    string        `mapstructure:"openai_api_key"`
	AnthropicAPIKey string        `mapstructure:"anthropic_api_key"`
	SystemPrompt    string        `mapstructure:"system_prompt"`
	PromptFile      string        `mapstructure:"prompt_file"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	HistoryBackend  string        `mapstructure:"history_backend"` // "memory" or "mongodb"
	MongoURI        string        `mapstructure:"mongodb_uri"`
	MongoDB         string        `mapstructure:"mongodb_db"`
	MongoCollection string        `mapstructure:"mongodb_collection"`
	HTTPPort        string        `mapstructure:"http_port"`
	LogLevel        string        `mapstructure:"log_level"`
}

// ConfigurationError reports a missing or invalid setting. It is fatal at startup.
type ConfigurationError struct {
	Key string
	Env string
	Msg string
}

func (e *ConfigurationError) Error() string {
	if e.Env != "" {
		return fmt.Sprintf("%s: %s not found in environment variables. Please set it or create a .env file.", e.Key, e.Env)
	}
	return fmt.Sprintf("%s: %s", e.Key, e.Msg)
}

// NewDefaultConfig returns a new Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Model:           "gemini:gemini-2.0-flash",
		RequestTimeout:  60 * time.Second,
		HistoryBackend:  BackendMemory,
		MongoURI:        "mongodb://localhost:27017",
		MongoDB:         "agent_sessions",
		MongoCollection: "sessions",
		HTTPPort:        "8080",
		LogLevel:        "info",
	}
}

// SetDefaults registers defaults and environment bindings on v.
func SetDefaults(v *viper.Viper) {
	def := NewDefaultConfig()

	v.SetEnvPrefix("CHATBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("model", def.Model)
	v.SetDefault("request_timeout", def.RequestTimeout)
	v.SetDefault("history_backend", def.HistoryBackend)
	v.SetDefault("mongodb_uri", def.MongoURI)
	v.SetDefault("mongodb_db", def.MongoDB)
	v.SetDefault("mongodb_collection", def.MongoCollection)
	v.SetDefault("http_port", def.HTTPPort)
	v.SetDefault("log_level", def.LogLevel)

	// provider keys keep the names the SDKs use
	_ = v.BindEnv("google_api_key", "GOOGLE_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("openai_api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("anthropic_api_key", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("model", "CHATBOT_MODEL", "MODEL")
	_ = v.BindEnv("http_port", "CHATBOT_HTTP_PORT", "HTTP_PORT")
	_ = v.BindEnv("mongodb_uri", "CHATBOT_MONGODB_URI", "MONGODB_URI")
	_ = v.BindEnv("mongodb_db", "CHATBOT_MONGODB_DB", "MONGODB_DB")
}

// LoadDotEnv loads variables from a .env file without overriding the
// environment. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := gotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}

// Load reads the configuration from v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks settings that do not depend on which command runs.
func (c *Config) Validate() error {
	if _, _, err := llm.ParseModel(c.Model); err != nil {
		return &ConfigurationError{Key: "model", Msg: err.Error()}
	}

	switch c.HistoryBackend {
	case BackendMemory, BackendMongoDB:
	default:
		return &ConfigurationError{Key: "history_backend", Msg: fmt.Sprintf("unsupported backend %q (use %s or %s)", c.HistoryBackend, BackendMemory, BackendMongoDB)}
	}

	if c.RequestTimeout < 0 {
		return &ConfigurationError{Key: "request_timeout", Msg: "must not be negative"}
	}

	return nil
}

// Provider returns the provider part of the model string.
func (c *Config) Provider() string {
	provider, _, _ := llm.ParseModel(c.Model)
	return provider
}

// ModelName returns the model part of the model string.
func (c *Config) ModelName() string {
	_, name, _ := llm.ParseModel(c.Model)
	return name
}

// APIKey returns the key for the selected provider.
func (c *Config) APIKey() (string, error) {
	var key, env string
	switch c.Provider() {
	case llm.ProviderGemini:
		key, env = c.GoogleAPIKey, "GOOGLE_API_KEY"
	case llm.ProviderOpenAI:
		key, env = c.OpenAIAPIKey, "OPENAI_API_KEY"
	case llm.ProviderAnthropic:
		key, env = c.AnthropicAPIKey, "ANTHROPIC_API_KEY"
	default:
		return "", &ConfigurationError{Key: "model", Msg: fmt.Sprintf("unsupported provider: %s", c.Provider())}
	}

	if key == "" {
		return "", &ConfigurationError{Key: strings.ToLower(env), Env: env}
	}

	return key, nil
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
