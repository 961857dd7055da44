package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"stt-token-server/internal/domain/token"
)

// トークンプロバイダー
const (
	ProviderSpeechmatics = "speechmatics"
	ProviderLocal        = "local"
)

// Config アプリケーション全体の設定
type Config struct {
	Server        ServerConfig
	Token         TokenConfig
	Docs          DocsConfig
	OpenTelemetry OpenTelemetryConfig
	Environment   string
}

// ServerConfig サーバー設定
type ServerConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	BodyLimit       string // echoのBodyLimit形式 (例: "100K")
}

// TokenConfig トークン発行設定
type TokenConfig struct {
	APIKey         string
	Provider       string // "speechmatics", "local"
	Type           string // "rt", "batch"
	DefaultTTL     int    // 秒単位
	MaxTTL         int    // 秒単位、0は上限なし
	RequestTimeout time.Duration
	ProviderURL    string
	ClientRef      string
}

// DocsConfig APIドキュメント設定
type DocsConfig struct {
	Enabled bool
}

// OpenTelemetryConfig OpenTelemetry設定
type OpenTelemetryConfig struct {
	Enabled         bool
	ServiceName     string
	ServiceVersion  string
	OTLPEndpoint    string
	OTLPInsecure    bool
	TraceExporter   string // "otlp", "stdout"
	MetricsExporter string // "otlp", "stdout"
}

// Load 設定を読み込む
func Load() (*Config, error) {
	// .envファイルを読み込む（存在しない場合は無視）
	_ = godotenv.Load()

	// 整数の設定値は解釈できない場合に起動を中止する
	port, portErr := getEnvAsInt("PORT", 8080)
	defaultTTL, defaultTTLErr := getEnvAsInt("TOKEN_DEFAULT_TTL", 3600)
	maxTTL, maxTTLErr := getEnvAsInt("TOKEN_MAX_TTL", 0)
	if err := errors.Join(portErr, defaultTTLErr, maxTTLErr); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:            port,
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			BodyLimit:       getEnv("SERVER_BODY_LIMIT", "100K"),
		},
		Token: TokenConfig{
			APIKey:         getEnv("API_KEY", ""),
			Provider:       getEnv("TOKEN_PROVIDER", ProviderSpeechmatics),
			Type:           getEnv("TOKEN_TYPE", "rt"),
			DefaultTTL:     defaultTTL,
			MaxTTL:         maxTTL,
			RequestTimeout: getEnvAsDuration("TOKEN_REQUEST_TIMEOUT", 10*time.Second),
			ProviderURL:    getEnv("SPEECHMATICS_MP_URL", "https://mp.speechmatics.com"),
			ClientRef:      getEnv("TOKEN_CLIENT_REF", ""),
		},
		Docs: DocsConfig{
			Enabled: getEnvAsBool("DOCS_ENABLED", false),
		},
		OpenTelemetry: OpenTelemetryConfig{
			Enabled:         getEnvAsBool("OTEL_ENABLED", false),
			ServiceName:     getEnv("OTEL_SERVICE_NAME", "stt-token-server"),
			ServiceVersion:  getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			OTLPEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			OTLPInsecure:    getEnvAsBool("OTEL_EXPORTER_OTLP_INSECURE", true),
			TraceExporter:   getEnv("OTEL_TRACES_EXPORTER", "otlp"),
			MetricsExporter: getEnv("OTEL_METRICS_EXPORTER", "otlp"),
		},
	}

	// 必須設定の検証
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate 設定の検証
func (c *Config) validate() error {
	if c.Token.APIKey == "" {
		return fmt.Errorf("API_KEY is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535: %d", c.Server.Port)
	}
	switch c.Token.Provider {
	case ProviderSpeechmatics, ProviderLocal:
	default:
		return fmt.Errorf("unsupported TOKEN_PROVIDER: %s", c.Token.Provider)
	}
	if _, err := token.NewTokenType(c.Token.Type); err != nil {
		return fmt.Errorf("unsupported TOKEN_TYPE: %w", err)
	}
	if c.Token.DefaultTTL <= 0 {
		return fmt.Errorf("TOKEN_DEFAULT_TTL must be positive: %d", c.Token.DefaultTTL)
	}
	if c.Token.MaxTTL < 0 {
		return fmt.Errorf("TOKEN_MAX_TTL must not be negative: %d", c.Token.MaxTTL)
	}
	if c.Token.MaxTTL > 0 && c.Token.DefaultTTL > c.Token.MaxTTL {
		return fmt.Errorf("TOKEN_DEFAULT_TTL (%d) exceeds TOKEN_MAX_TTL (%d)", c.Token.DefaultTTL, c.Token.MaxTTL)
	}
	return nil
}

// Address サーバーの待ち受けアドレスを返す
func (c *ServerConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// getEnv 環境変数を取得（デフォルト値付き）
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt 環境変数を整数として取得
// 未設定の場合はデフォルト値、整数でない場合はエラーを返す
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %q", key, valueStr)
	}
	return value, nil
}

// getEnvAsBool 環境変数を真偽値として取得
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration 環境変数を時間として取得
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
