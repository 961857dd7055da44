package speechmatics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"stt-token-server/internal/domain/token"
)

// 一時キー発行エンドポイント
const apiKeysPath = "/v1/api_keys"

// エラー応答から保持する最大バイト数
const maxErrorBodyBytes = 4096

// Client Speechmatics管理APIで一時キーを発行するクライアント
type Client struct {
	baseURL    string
	clientRef  string
	httpClient *http.Client
}

// Option Clientの設定オプション
type Option func(*Client)

// WithHTTPClient HTTPクライアントを差し替える
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithClientRef 発行キーに付与するクライアント参照を設定
func WithClientRef(ref string) Option {
	return func(c *Client) {
		c.clientRef = ref
	}
}

// NewClient 新しいClientを作成
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type issueRequest struct {
	TTL       int    `json:"ttl"`
	ClientRef string `json:"client_ref,omitempty"`
}

type issueResponse struct {
	APIKeyID string `json:"apikey_id"`
	KeyValue string `json:"key_value"`
}

// Issue 一時キーを発行する
// リトライは行わず、失敗はすべてtoken.ErrIssuanceFailedでラップして返す
func (c *Client) Issue(ctx context.Context, params token.IssueParams) (string, error) {
	tracer := otel.Tracer("speechmatics-client")
	ctx, span := tracer.Start(ctx, "speechmatics.Issue",
		trace.WithSpanKind(trace.SpanKindClient),
	)
	defer span.End()

	span.SetAttributes(
		attribute.String("token.type", params.Type.String()),
		attribute.Int("token.ttl", params.TTL.Seconds()),
	)

	tokenValue, err := c.issue(ctx, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	return tokenValue, nil
}

func (c *Client) issue(ctx context.Context, params token.IssueParams) (string, error) {
	body, err := json.Marshal(issueRequest{
		TTL:       params.TTL.Seconds(),
		ClientRef: c.clientRef,
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to encode request: %v", token.ErrIssuanceFailed, err)
	}

	endpoint := c.baseURL + apiKeysPath + "?" + url.Values{"type": {params.Type.String()}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", token.ErrIssuanceFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+params.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: request failed: %w", token.ErrIssuanceFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return "", fmt.Errorf("%w: unexpected status %d: %s",
			token.ErrIssuanceFailed, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var out issueResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", token.ErrIssuanceFailed, err)
	}
	if out.KeyValue == "" {
		return "", fmt.Errorf("%w: %w", token.ErrIssuanceFailed, token.ErrEmptyToken)
	}

	return out.KeyValue, nil
}
