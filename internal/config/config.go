package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	ASR      ASRConfig      `mapstructure:"asr"`
	ImageGen ImageGenConfig `mapstructure:"imagegen"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port"`
	Mode string     `mapstructure:"mode"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Path            string        `mapstructure:"path"`
	URL             string        `mapstructure:"url"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN returns the connection string for the configured driver.
func (c *DatabaseConfig) DSN() string {
	if c.Driver == "postgres" {
		return c.URL
	}
	return c.Path
}

// ASRConfig configures the speech-to-text vendor. Either APIKey (bearer
// auth) or AppKey+AppSecret (token-exchange auth) must be set; the
// transcription endpoint is required for the upload path to start.
type ASRConfig struct {
	APIKey     string        `mapstructure:"api_key"`
	AppKey     string        `mapstructure:"app_key"`
	AppSecret  string        `mapstructure:"app_secret"`
	BaseURL    string        `mapstructure:"base_url"`
	TokenURL   string        `mapstructure:"token_url"`
	Model      string        `mapstructure:"model"`
	Language   string        `mapstructure:"language"`
	SampleRate int           `mapstructure:"sample_rate"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// Configured reports whether any ASR credential is present.
func (c *ASRConfig) Configured() bool {
	return c.APIKey != "" || (c.AppKey != "" && c.AppSecret != "")
}

// ImageGenConfig configures the text-to-image vendor. An empty APIKey
// soft-disables the integration; the pipeline then proceeds without images.
type ImageGenConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Size    string        `mapstructure:"size"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Configured reports whether the image generation vendor is usable.
func (c *ImageGenConfig) Configured() bool {
	return c.APIKey != ""
}

// StorageConfig configures the durable asset store. An empty endpoint or
// bucket soft-disables re-hosting; vendor URLs are then returned as-is.
type StorageConfig struct {
	Type      string `mapstructure:"type"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	PublicURL string `mapstructure:"public_url"`
}

// Configured reports whether the durable asset store is usable.
func (c *StorageConfig) Configured() bool {
	return c.Endpoint != "" && c.Bucket != ""
}

type PipelineConfig struct {
	MaxAudioSeconds int `mapstructure:"max_audio_seconds"`
}

func Load(configPath string) (*Config, error) {
	// Load .env file if present (local development)
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("server.port", 5000)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/love-tree.db")
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("asr.base_url", "https://dashscope.aliyuncs.com/api/v1/services/aigc/asr/transcription")
	v.SetDefault("asr.model", "paraformer-realtime-v1")
	v.SetDefault("asr.language", "zh-CN")
	v.SetDefault("asr.sample_rate", 16000)
	v.SetDefault("asr.timeout", 30*time.Second)
	v.SetDefault("imagegen.base_url", "https://dashscope.aliyuncs.com/api/v1/services/aigc/multimodal-generation/generation")
	v.SetDefault("imagegen.model", "qwen-image-plus")
	v.SetDefault("imagegen.size", "1024*1024")
	v.SetDefault("imagegen.timeout", 90*time.Second)
	v.SetDefault("storage.use_ssl", true)
	v.SetDefault("storage.bucket", "")
	v.SetDefault("pipeline.max_audio_seconds", 60)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for sensitive data
	v.BindEnv("database.url", "DATABASE_URL")
	v.BindEnv("asr.api_key", "ASR_API_KEY")
	v.BindEnv("asr.app_key", "ASR_APP_KEY")
	v.BindEnv("asr.app_secret", "ASR_APP_SECRET")
	v.BindEnv("asr.base_url", "ASR_BASE_URL")
	v.BindEnv("asr.token_url", "ASR_TOKEN_URL")
	v.BindEnv("imagegen.api_key", "IMAGEGEN_API_KEY")
	v.BindEnv("imagegen.base_url", "IMAGEGEN_BASE_URL")
	v.BindEnv("storage.endpoint", "STORAGE_ENDPOINT")
	v.BindEnv("storage.access_key", "STORAGE_ACCESS_KEY")
	v.BindEnv("storage.secret_key", "STORAGE_SECRET_KEY")
	v.BindEnv("storage.bucket", "STORAGE_BUCKET")
	v.BindEnv("storage.public_url", "STORAGE_PUBLIC_URL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
