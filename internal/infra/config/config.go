package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Dataset  DatasetConfig  `yaml:"dataset"`
	FAQ      FAQConfig      `yaml:"faq"`
	Feedback FeedbackConfig `yaml:"feedback"`
	Speech   SpeechConfig   `yaml:"speech"`
	Auth     AuthConfig     `yaml:"auth"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
	Retry        RetryConfig     `yaml:"retry"`
	CORS         CORSConfig      `yaml:"cors"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for idempotent requests.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// DatasetConfig points at the FAQ spreadsheet.
type DatasetConfig struct {
	Path     string         `yaml:"path"`
	Sheet    string         `yaml:"sheet"`
	Watch    bool           `yaml:"watch"`
	Strict   bool           `yaml:"strict"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// FAQConfig controls matching and answer formatting.
type FAQConfig struct {
	Policy              string      `yaml:"policy"`
	SimilarityThreshold float64     `yaml:"similarityThreshold"`
	DefaultSteps        int         `yaml:"defaultSteps"`
	AllowedSteps        []int       `yaml:"allowedSteps"`
	FallbackMessage     string      `yaml:"fallbackMessage"`
	TopRecommendations  int         `yaml:"topRecommendations"`
	ExampleCount        int         `yaml:"exampleCount"`
	Redis               RedisConfig `yaml:"redis"`
}

// FeedbackConfig selects where thumbs-up/down entries are written.
type FeedbackConfig struct {
	Path     string         `yaml:"path"`
	Queue    int            `yaml:"queue"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// SpeechConfig wires text-to-speech and speech recognition.
type SpeechConfig struct {
	TTS      TTSConfig     `yaml:"tts"`
	STT      STTConfig     `yaml:"stt"`
	AudioTTL time.Duration `yaml:"audioTtl"`
	MaxChars int           `yaml:"maxChars"`
	Storage  StorageConfig `yaml:"storage"`
}

// TTSConfig points at a Google Translate TTS compatible endpoint.
type TTSConfig struct {
	Enabled     bool          `yaml:"enabled"`
	BaseURL     string        `yaml:"baseUrl"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxAttempts uint          `yaml:"maxAttempts"`
}

// STTConfig points at a Whisper compatible transcription endpoint.
type STTConfig struct {
	Enabled bool          `yaml:"enabled"`
	BaseURL string        `yaml:"baseUrl"`
	APIKey  string        `yaml:"apiKey"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// StorageConfig selects the audio artifact store.
type StorageConfig struct {
	Driver    string `yaml:"driver"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Prefix    string `yaml:"prefix"`
}

// AuthConfig guards the analytics endpoints.
type AuthConfig struct {
	Secret    string           `yaml:"secret"`
	TokenTTL  time.Duration    `yaml:"tokenTtl"`
	Operators []OperatorConfig `yaml:"operators"`
}

// OperatorConfig is one analytics login.
type OperatorConfig struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"passwordHash"`
}

// RedisConfig contains connection information for the trending counters.
type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// Load reads configuration from .env, a YAML file and environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load() // a missing .env is fine

	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_ENABLED"); v != "" {
		cfg.HTTP.Retry.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RETRY_MAX_ATTEMPTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Retry.MaxAttempts = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_BASE_BACKOFF"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.Retry.BaseBackoff = parsed
		}
	}
	if v := os.Getenv("HTTP_CORS_ORIGINS"); v != "" {
		cfg.HTTP.CORS.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("DATASET_PATH"); v != "" {
		cfg.Dataset.Path = v
	}
	if v := os.Getenv("DATASET_SHEET"); v != "" {
		cfg.Dataset.Sheet = v
	}
	if v := os.Getenv("DATASET_WATCH"); v != "" {
		cfg.Dataset.Watch = parseBool(v)
	}
	if v := os.Getenv("DATASET_STRICT"); v != "" {
		cfg.Dataset.Strict = parseBool(v)
	}
	if v := os.Getenv("DATASET_POSTGRES_DSN"); v != "" {
		cfg.Dataset.Postgres.DSN = v
	}
	if v := os.Getenv("FAQ_POLICY"); v != "" {
		cfg.FAQ.Policy = v
	}
	if v := os.Getenv("FAQ_SIMILARITY_THRESHOLD"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.FAQ.SimilarityThreshold = parsed
		}
	}
	if v := os.Getenv("FAQ_DEFAULT_STEPS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.FAQ.DefaultSteps = parsed
		}
	}
	if v := os.Getenv("FAQ_FALLBACK_MESSAGE"); v != "" {
		cfg.FAQ.FallbackMessage = v
	}
	if v := os.Getenv("FAQ_RECOMMENDATIONS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.FAQ.TopRecommendations = parsed
		}
	}
	if v := os.Getenv("FAQ_REDIS_ENABLED"); v != "" {
		cfg.FAQ.Redis.Enabled = parseBool(v)
	}
	if v := os.Getenv("FAQ_REDIS_ADDR"); v != "" {
		cfg.FAQ.Redis.Addr = v
	}
	if v := os.Getenv("FEEDBACK_PATH"); v != "" {
		cfg.Feedback.Path = v
	}
	if v := os.Getenv("FEEDBACK_POSTGRES_DSN"); v != "" {
		cfg.Feedback.Postgres.DSN = v
	}
	if v := os.Getenv("FEEDBACK_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Feedback.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("SPEECH_TTS_ENABLED"); v != "" {
		cfg.Speech.TTS.Enabled = parseBool(v)
	}
	if v := os.Getenv("SPEECH_TTS_BASE_URL"); v != "" {
		cfg.Speech.TTS.BaseURL = v
	}
	if v := os.Getenv("SPEECH_STT_ENABLED"); v != "" {
		cfg.Speech.STT.Enabled = parseBool(v)
	}
	if v := os.Getenv("SPEECH_STT_BASE_URL"); v != "" {
		cfg.Speech.STT.BaseURL = v
	}
	if v := os.Getenv("SPEECH_STT_API_KEY"); v != "" {
		cfg.Speech.STT.APIKey = v
	}
	if v := os.Getenv("SPEECH_STT_MODEL"); v != "" {
		cfg.Speech.STT.Model = v
	}
	if v := os.Getenv("SPEECH_AUDIO_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Speech.AudioTTL = parsed
		}
	}
	if v := os.Getenv("SPEECH_STORAGE_DRIVER"); v != "" {
		cfg.Speech.Storage.Driver = v
	}
	if v := os.Getenv("R2_ENDPOINT"); v != "" {
		cfg.Speech.Storage.Endpoint = v
	}
	if v := os.Getenv("R2_ACCESS_KEY"); v != "" {
		cfg.Speech.Storage.AccessKey = v
	}
	if v := os.Getenv("R2_SECRET_KEY"); v != "" {
		cfg.Speech.Storage.SecretKey = v
	}
	if v := os.Getenv("R2_BUCKET"); v != "" {
		cfg.Speech.Storage.Bucket = v
	}
	if v := os.Getenv("AUTH_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}
	if v := os.Getenv("AUTH_TOKEN_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Auth.TokenTTL = parsed
		}
	}
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 3,
				BaseBackoff: 150 * time.Millisecond,
				Exclude: []string{
					"/api/v1/feedback",
					"/api/v1/speech",
					"/api/v1/answers/voice",
					"/api/v1/auth/login",
				},
			},
		},
		Dataset: DatasetConfig{
			Path:  "data/legal_faq.xlsx",
			Watch: true,
			Postgres: PostgresConfig{
				MaxConns: 4,
			},
		},
		FAQ: FAQConfig{
			Policy:             "hybrid",
			DefaultSteps:       5,
			AllowedSteps:       []int{5, 6, 7},
			TopRecommendations: 5,
			ExampleCount:       5,
		},
		Feedback: FeedbackConfig{
			Path:  "data/feedback.csv",
			Queue: 64,
			Postgres: PostgresConfig{
				MaxConns: 4,
			},
		},
		Speech: SpeechConfig{
			TTS: TTSConfig{
				Enabled:     true,
				BaseURL:     "https://translate.google.com/translate_tts",
				Timeout:     10 * time.Second,
				MaxAttempts: 3,
			},
			STT: STTConfig{
				BaseURL: "https://api.openai.com/v1",
				Model:   "whisper-1",
				Timeout: 30 * time.Second,
			},
			AudioTTL: 15 * time.Minute,
			MaxChars: 3000,
			Storage: StorageConfig{
				Driver: "memory",
				Region: "auto",
				Prefix: "audio/",
			},
		},
		Auth: AuthConfig{
			TokenTTL: 12 * time.Hour,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if strings.TrimSpace(c.Dataset.Path) == "" && strings.TrimSpace(c.Dataset.Postgres.DSN) == "" {
		return errors.New("dataset.path cannot be empty")
	}
	switch strings.ToLower(c.FAQ.Policy) {
	case "substring", "similarity", "hybrid":
	default:
		return fmt.Errorf("faq.policy %q must be substring, similarity or hybrid", c.FAQ.Policy)
	}
	if c.FAQ.SimilarityThreshold < 0 || c.FAQ.SimilarityThreshold > 1 {
		return errors.New("faq.similarityThreshold must be within [0, 1]")
	}
	if len(c.FAQ.AllowedSteps) == 0 {
		return errors.New("faq.allowedSteps cannot be empty")
	}
	defaultAllowed := false
	for _, n := range c.FAQ.AllowedSteps {
		if n <= 0 {
			return errors.New("faq.allowedSteps must be positive")
		}
		if n == c.FAQ.DefaultSteps {
			defaultAllowed = true
		}
	}
	if !defaultAllowed {
		return errors.New("faq.defaultSteps must be one of faq.allowedSteps")
	}
	if c.FAQ.TopRecommendations < 0 {
		return errors.New("faq.topRecommendations cannot be negative")
	}
	if c.FAQ.Redis.Enabled && strings.TrimSpace(c.FAQ.Redis.Addr) == "" {
		return errors.New("faq.redis.addr cannot be empty when redis is enabled")
	}
	if strings.TrimSpace(c.Feedback.Path) == "" && strings.TrimSpace(c.Feedback.Postgres.DSN) == "" {
		return errors.New("feedback.path cannot be empty")
	}
	if c.Speech.TTS.Enabled && strings.TrimSpace(c.Speech.TTS.BaseURL) == "" {
		return errors.New("speech.tts.baseUrl cannot be empty when tts is enabled")
	}
	if c.Speech.STT.Enabled && strings.TrimSpace(c.Speech.STT.APIKey) == "" {
		return errors.New("speech.stt.apiKey cannot be empty when stt is enabled")
	}
	if c.Speech.AudioTTL <= 0 {
		return errors.New("speech.audioTtl must be positive")
	}
	switch c.Speech.Storage.Driver {
	case "memory":
	case "r2":
		if c.Speech.Storage.Endpoint == "" || c.Speech.Storage.Bucket == "" {
			return errors.New("speech.storage endpoint and bucket are required for the r2 driver")
		}
	case "valkey":
		if strings.TrimSpace(c.FAQ.Redis.Addr) == "" {
			return errors.New("faq.redis.addr is required for the valkey audio driver")
		}
	default:
		return fmt.Errorf("speech.storage.driver %q must be memory, r2 or valkey", c.Speech.Storage.Driver)
	}
	if len(c.Auth.Operators) > 0 && strings.TrimSpace(c.Auth.Secret) == "" {
		return errors.New("auth.secret cannot be empty when operators are configured")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	return nil
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
