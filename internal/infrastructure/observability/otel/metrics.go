package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics メトリクス定義
type Metrics struct {
	// 発行済みトークン数
	TokensIssued metric.Int64Counter

	// トークン発行失敗数
	IssueFailures metric.Int64Counter

	// 発行元呼び出しの所要時間
	IssueDuration metric.Float64Histogram

	// 要求されたTTLの分布
	RequestedTTL metric.Int64Histogram

	// リクエスト数
	RequestCount metric.Int64Counter

	// レスポンス時間
	ResponseTime metric.Float64Histogram

	// エラー率
	ErrorCount metric.Int64Counter
}

// NewMetrics 新しいMetricsを作成
func NewMetrics(meterName string) (*Metrics, error) {
	meter := Meter(meterName)

	tokensIssued, err := meter.Int64Counter(
		"tokens_issued_total",
		metric.WithDescription("Total number of issued tokens"),
	)
	if err != nil {
		return nil, err
	}

	issueFailures, err := meter.Int64Counter(
		"token_issue_failures_total",
		metric.WithDescription("Total number of failed token issuances"),
	)
	if err != nil {
		return nil, err
	}

	issueDuration, err := meter.Float64Histogram(
		"token_issue_duration_seconds",
		metric.WithDescription("Duration of calls to the token issuer in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	requestedTTL, err := meter.Int64Histogram(
		"token_requested_ttl_seconds",
		metric.WithDescription("Requested token ttl in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	requestCount, err := meter.Int64Counter(
		"requests_total",
		metric.WithDescription("Total number of requests"),
	)
	if err != nil {
		return nil, err
	}

	responseTime, err := meter.Float64Histogram(
		"response_time_seconds",
		metric.WithDescription("Response time in seconds"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"errors_total",
		metric.WithDescription("Total number of errors"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		TokensIssued:  tokensIssued,
		IssueFailures: issueFailures,
		IssueDuration: issueDuration,
		RequestedTTL:  requestedTTL,
		RequestCount:  requestCount,
		ResponseTime:  responseTime,
		ErrorCount:    errorCount,
	}, nil
}

// RecordTokenIssued トークン発行を記録
func (m *Metrics) RecordTokenIssued(ctx context.Context, tokenType string, ttlSeconds int) {
	attrs := metric.WithAttributes(attribute.String("token_type", tokenType))
	m.TokensIssued.Add(ctx, 1, attrs)
	m.RequestedTTL.Record(ctx, int64(ttlSeconds), attrs)
}

// RecordIssueFailure トークン発行失敗を記録
func (m *Metrics) RecordIssueFailure(ctx context.Context, tokenType, reason string) {
	m.IssueFailures.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("token_type", tokenType),
			attribute.String("reason", reason),
		),
	)
}

// RecordIssueDuration 発行元呼び出しの所要時間を記録
func (m *Metrics) RecordIssueDuration(ctx context.Context, tokenType string, duration float64) {
	m.IssueDuration.Record(ctx, duration,
		metric.WithAttributes(
			attribute.String("token_type", tokenType),
		),
	)
}

// RecordRequest リクエストを記録
func (m *Metrics) RecordRequest(ctx context.Context, method, path string) {
	m.RequestCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("method", method),
			attribute.String("path", path),
		),
	)
}

// RecordResponseTime レスポンス時間を記録
func (m *Metrics) RecordResponseTime(ctx context.Context, method, path string, duration float64) {
	m.ResponseTime.Record(ctx, duration,
		metric.WithAttributes(
			attribute.String("method", method),
			attribute.String("path", path),
		),
	)
}

// RecordError エラーを記録
func (m *Metrics) RecordError(ctx context.Context, errorType string) {
	m.ErrorCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("error_type", errorType),
		),
	)
}
