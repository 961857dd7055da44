package rest

import (
	"context"
	"errors"
	"net/http"

	tokenapp "stt-token-server/internal/application/token"
	"stt-token-server/internal/infrastructure/config"
	otelinfra "stt-token-server/internal/infrastructure/observability/otel"
	"stt-token-server/internal/presentation/rest/handler"
	restmiddleware "stt-token-server/internal/presentation/rest/middleware"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Router REST APIルーター
type Router struct {
	echo *echo.Echo
}

// NewRouter 新しいRouterを作成
func NewRouter(
	cfg *config.Config,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
	tokenService *tokenapp.TokenApplicationService,
) (*Router, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = restmiddleware.NewRequestValidator()

	// ミドルウェアチェーンの外側で発生したエラーも同じ形式で返す
	e.HTTPErrorHandler = restmiddleware.HTTPErrorHandler(logger)

	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Server.IdleTimeout = cfg.Server.IdleTimeout

	// ミドルウェアの設定
	setupMiddleware(e, cfg, logger, metrics)

	// ハンドラーの作成
	tokenHandler := handler.NewTokenHandler(tokenService)
	healthHandler := handler.NewHealthHandler()

	// ルーティングの設定
	setupRoutes(e, tokenHandler, healthHandler)

	if cfg.Docs.Enabled {
		SetupSwagger(e)
	}

	return &Router{echo: e}, nil
}

// setupMiddleware ミドルウェアを設定
func setupMiddleware(e *echo.Echo, cfg *config.Config, logger *otelinfra.Logger, metrics *otelinfra.Metrics) {
	// リカバリーミドルウェア
	e.Use(middleware.Recover())

	// リクエストIDの設定
	e.Use(middleware.RequestID())

	// トレーシングミドルウェア
	e.Use(restmiddleware.TracingMiddleware(cfg.OpenTelemetry.ServiceName))

	// ログミドルウェア
	e.Use(restmiddleware.LoggingMiddleware(logger))

	// メトリクスミドルウェア
	e.Use(restmiddleware.MetricsMiddleware(metrics))

	// CORS設定（任意のオリジンを許可。エラーレスポンスにもヘッダーを付与する）
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// エラーハンドリングミドルウェア
	e.Use(restmiddleware.ErrorHandlerMiddleware(logger))

	// リクエストボディサイズの制限
	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// セキュリティヘッダー
	e.Use(restmiddleware.SecurityHeadersMiddleware())
}

// setupRoutes ルーティングを設定
func setupRoutes(e *echo.Echo, tokenHandler *handler.TokenHandler, healthHandler *handler.HealthHandler) {
	// ヘルスチェックエンドポイント（認証不要）
	e.GET("/health", healthHandler.Check)

	// トークン発行エンドポイント
	api := e.Group("/api")
	api.POST("/token", tokenHandler.GenerateToken)
}

// ServeHTTP http.Handlerとして振る舞う
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.echo.ServeHTTP(w, req)
}

// Start サーバーを起動
// Shutdownによる停止ではnilを返す
func (r *Router) Start(address string) error {
	if err := r.echo.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 新規接続の受付を停止し、処理中のリクエストをctxの期限まで待つ
func (r *Router) Shutdown(ctx context.Context) error {
	return r.echo.Shutdown(ctx)
}
