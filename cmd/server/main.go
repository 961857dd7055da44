package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tokenapp "stt-token-server/internal/application/token"
	"stt-token-server/internal/domain/token"
	"stt-token-server/internal/infrastructure/config"
	"stt-token-server/internal/infrastructure/jwtsigner"
	otelinfra "stt-token-server/internal/infrastructure/observability/otel"
	"stt-token-server/internal/infrastructure/speechmatics"
	"stt-token-server/internal/presentation/rest"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		stop()
		log.Fatalf("%v", err)
	}
}

// run 設定を読み込み、サーバーを起動してctxのキャンセルまで待機する
func run(ctx context.Context) error {
	// 設定の読み込み（ポートを開く前に検証する）
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// OpenTelemetryの初期化
	tracerShutdown, err := otelinfra.InitTracer(&cfg.OpenTelemetry)
	if err != nil {
		return fmt.Errorf("failed to initialize tracer: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerShutdown(shutdownCtx); err != nil {
			log.Printf("Failed to shutdown tracer: %v", err)
		}
	}()

	meterShutdown, err := otelinfra.InitMeter(&cfg.OpenTelemetry)
	if err != nil {
		return fmt.Errorf("failed to initialize meter: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterShutdown(shutdownCtx); err != nil {
			log.Printf("Failed to shutdown meter: %v", err)
		}
	}()

	// ロガーとメトリクスの初期化
	logger := otelinfra.NewLogger()
	metrics, err := otelinfra.NewMetrics(cfg.OpenTelemetry.ServiceName)
	if err != nil {
		return fmt.Errorf("failed to create metrics: %w", err)
	}

	// トークン発行元の初期化
	issuer := newIssuer(cfg)

	// アプリケーションサービスの初期化
	tokenService, err := tokenapp.NewTokenApplicationService(issuer, &cfg.Token, logger, metrics)
	if err != nil {
		return fmt.Errorf("failed to create token service: %w", err)
	}

	// REST APIルーターの初期化
	router, err := rest.NewRouter(cfg, logger, metrics, tokenService)
	if err != nil {
		return fmt.Errorf("failed to create router: %w", err)
	}

	address := cfg.Server.Address()
	errCh := make(chan error, 1)

	// REST APIサーバーを別ゴルーチンで起動
	go func() {
		logger.Info(ctx, "Server starting", map[string]interface{}{
			"address":  address,
			"provider": cfg.Token.Provider,
		})
		errCh <- router.Start(address)
	}()

	// シグナルまたは起動エラーを待機
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "Shutting down server", nil)

	// グレースフルシャットダウン
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := router.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "Error shutting down server", err, nil)
	}

	logger.Info(context.Background(), "Server stopped", nil)
	return nil
}

// newIssuer 設定に応じたトークン発行元を返す
func newIssuer(cfg *config.Config) token.Issuer {
	switch cfg.Token.Provider {
	case config.ProviderLocal:
		return jwtsigner.NewSigner(cfg.OpenTelemetry.ServiceName)
	default:
		return speechmatics.NewClient(
			cfg.Token.ProviderURL,
			speechmatics.WithClientRef(cfg.Token.ClientRef),
			speechmatics.WithHTTPClient(&http.Client{Timeout: cfg.Token.RequestTimeout}),
		)
	}
}
