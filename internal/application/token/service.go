package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"stt-token-server/internal/domain/token"
	"stt-token-server/internal/infrastructure/config"
	otelinfra "stt-token-server/internal/infrastructure/observability/otel"
)

// TokenApplicationService トークン発行アプリケーションサービス
type TokenApplicationService struct {
	issuer         token.Issuer
	apiKey         string
	tokenType      token.TokenType
	defaultTTL     int
	maxTTL         int
	requestTimeout time.Duration
	logger         *otelinfra.Logger
	metrics        *otelinfra.Metrics
	tracer         trace.Tracer
	now            func() time.Time
}

// NewTokenApplicationService 新しいTokenApplicationServiceを作成
func NewTokenApplicationService(
	issuer token.Issuer,
	cfg *config.TokenConfig,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
) (*TokenApplicationService, error) {
	tokenType, err := token.NewTokenType(cfg.Type)
	if err != nil {
		return nil, err
	}

	return &TokenApplicationService{
		issuer:         issuer,
		apiKey:         cfg.APIKey,
		tokenType:      tokenType,
		defaultTTL:     cfg.DefaultTTL,
		maxTTL:         cfg.MaxTTL,
		requestTimeout: cfg.RequestTimeout,
		logger:         logger,
		metrics:        metrics,
		tracer:         otelinfra.Tracer("token-service"),
		now:            time.Now,
	}, nil
}

// GenerateToken 外部発行元に委譲して一時トークンを生成
func (s *TokenApplicationService) GenerateToken(ctx context.Context, req *GenerateTokenRequest) (*GenerateTokenResponse, error) {
	ctx, span := s.tracer.Start(ctx, "TokenApplicationService.GenerateToken")
	defer span.End()

	seconds := s.defaultTTL
	if req.TTL != nil {
		seconds = *req.TTL
	}

	span.SetAttributes(
		attribute.String("token_type", s.tokenType.String()),
		attribute.Int("ttl", seconds),
	)

	ttl, err := token.NewTTL(seconds, s.maxTTL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.logger.Warn(ctx, "Rejected token request", map[string]interface{}{
			"ttl":   seconds,
			"error": err.Error(),
		})
		s.metrics.RecordIssueFailure(ctx, s.tokenType.String(), "invalid_ttl")
		return nil, err
	}

	issueCtx := ctx
	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		issueCtx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}

	start := time.Now()
	tokenValue, err := s.issuer.Issue(issueCtx, token.IssueParams{
		Type:   s.tokenType,
		APIKey: s.apiKey,
		TTL:    ttl,
	})
	s.metrics.RecordIssueDuration(ctx, s.tokenType.String(), time.Since(start).Seconds())

	if err == nil && tokenValue == "" {
		err = token.ErrEmptyToken
	}
	if err != nil {
		if !errors.Is(err, token.ErrIssuanceFailed) {
			err = fmt.Errorf("%w: %w", token.ErrIssuanceFailed, err)
		}
		reason := "issuer_error"
		if errors.Is(err, context.DeadlineExceeded) {
			reason = "timeout"
		}
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.logger.Error(ctx, "Failed to generate token", err, map[string]interface{}{
			"ttl":        ttl.Seconds(),
			"token_type": s.tokenType.String(),
			"reason":     reason,
		})
		s.metrics.RecordIssueFailure(ctx, s.tokenType.String(), reason)
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.metrics.RecordTokenIssued(ctx, s.tokenType.String(), ttl.Seconds())
	s.logger.Info(ctx, "Token issued", map[string]interface{}{
		"ttl":        ttl.Seconds(),
		"token_type": s.tokenType.String(),
	})

	return &GenerateTokenResponse{
		Token:     tokenValue,
		ExpiresIn: ttl.Seconds(),
		IssuedAt:  s.now(),
	}, nil
}
