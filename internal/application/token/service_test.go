package token

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric/noop"

	"stt-token-server/internal/domain/token"
	"stt-token-server/internal/infrastructure/config"
	otelinfra "stt-token-server/internal/infrastructure/observability/otel"
)

// MockIssuer モックトークン発行元
type MockIssuer struct {
	mock.Mock
}

func (m *MockIssuer) Issue(ctx context.Context, params token.IssueParams) (string, error) {
	args := m.Called(ctx, params)
	return args.String(0), args.Error(1)
}

func intPtr(v int) *int {
	return &v
}

func newTestService(t *testing.T, issuer token.Issuer, cfg *config.TokenConfig) (*TokenApplicationService, *bytes.Buffer) {
	t.Helper()
	otel.SetMeterProvider(noop.NewMeterProvider())

	var buf bytes.Buffer
	logger := otelinfra.NewLoggerWithWriter(&buf)
	metrics, err := otelinfra.NewMetrics("test")
	require.NoError(t, err)

	service, err := NewTokenApplicationService(issuer, cfg, logger, metrics)
	require.NoError(t, err)
	return service, &buf
}

func defaultTokenConfig() *config.TokenConfig {
	return &config.TokenConfig{
		APIKey:         "server-api-key",
		Provider:       config.ProviderSpeechmatics,
		Type:           "rt",
		DefaultTTL:     3600,
		RequestTimeout: time.Second,
	}
}

func TestTokenApplicationService_GenerateToken(t *testing.T) {
	tests := []struct {
		name          string
		ttl           *int
		maxTTL        int
		wantExpiresIn int
	}{
		{
			name:          "正常系: TTL未指定でデフォルト値",
			ttl:           nil,
			wantExpiresIn: 3600,
		},
		{
			name:          "正常系: TTL指定",
			ttl:           intPtr(60),
			wantExpiresIn: 60,
		},
		{
			name:          "正常系: 上限以内",
			ttl:           intPtr(7200),
			maxTTL:        7200,
			wantExpiresIn: 7200,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultTokenConfig()
			cfg.MaxTTL = tt.maxTTL

			issuer := new(MockIssuer)
			issuer.On("Issue", mock.Anything, mock.MatchedBy(func(p token.IssueParams) bool {
				return p.Type == token.TokenTypeRealtime &&
					p.APIKey == "server-api-key" &&
					p.TTL.Seconds() == tt.wantExpiresIn
			})).Return("issued-token", nil).Once()

			service, logs := newTestService(t, issuer, cfg)
			issuedAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
			service.now = func() time.Time { return issuedAt }

			resp, err := service.GenerateToken(context.Background(), &GenerateTokenRequest{TTL: tt.ttl})
			require.NoError(t, err)
			assert.Equal(t, "issued-token", resp.Token)
			assert.Equal(t, tt.wantExpiresIn, resp.ExpiresIn)
			assert.Equal(t, issuedAt, resp.IssuedAt)
			assert.Contains(t, logs.String(), "Token issued")
			assert.NotContains(t, logs.String(), "server-api-key")

			issuer.AssertExpectations(t)
		})
	}
}

func TestTokenApplicationService_GenerateToken_InvalidTTL(t *testing.T) {
	tests := []struct {
		name   string
		ttl    int
		maxTTL int
	}{
		{
			name: "異常系: ゼロ",
			ttl:  0,
		},
		{
			name: "異常系: 負の値",
			ttl:  -1,
		},
		{
			name:   "異常系: 上限超過",
			ttl:    86401,
			maxTTL: 86400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultTokenConfig()
			cfg.MaxTTL = tt.maxTTL

			issuer := new(MockIssuer)
			service, _ := newTestService(t, issuer, cfg)

			resp, err := service.GenerateToken(context.Background(), &GenerateTokenRequest{TTL: intPtr(tt.ttl)})
			require.Error(t, err)
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, token.ErrInvalidTTL)

			issuer.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything)
		})
	}
}

func TestTokenApplicationService_GenerateToken_IssuerFailure(t *testing.T) {
	tests := []struct {
		name       string
		tokenValue string
		issuerErr  error
		wantLog    string
	}{
		{
			name:      "異常系: 発行元エラー",
			issuerErr: errors.New("upstream rejected key: permission denied"),
			wantLog:   "upstream rejected key: permission denied",
		},
		{
			name:      "異常系: ラップ済みの発行エラー",
			issuerErr: token.ErrIssuanceFailed,
			wantLog:   "token issuance failed",
		},
		{
			name:       "異常系: 空のトークン",
			tokenValue: "",
			issuerErr:  nil,
			wantLog:    "issuer returned empty token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issuer := new(MockIssuer)
			issuer.On("Issue", mock.Anything, mock.Anything).Return(tt.tokenValue, tt.issuerErr).Once()

			service, logs := newTestService(t, issuer, defaultTokenConfig())

			resp, err := service.GenerateToken(context.Background(), &GenerateTokenRequest{})
			require.Error(t, err)
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, token.ErrIssuanceFailed)
			assert.Contains(t, logs.String(), "Failed to generate token")
			assert.Contains(t, logs.String(), tt.wantLog)

			issuer.AssertExpectations(t)
		})
	}
}

func TestTokenApplicationService_GenerateToken_Timeout(t *testing.T) {
	cfg := defaultTokenConfig()
	cfg.RequestTimeout = 20 * time.Millisecond

	issuer := new(MockIssuer)
	issuer.On("Issue", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			<-ctx.Done()
		}).
		Return("", context.DeadlineExceeded).Once()

	service, logs := newTestService(t, issuer, cfg)

	start := time.Now()
	_, err := service.GenerateToken(context.Background(), &GenerateTokenRequest{})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.ErrorIs(t, err, token.ErrIssuanceFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, logs.String(), `"reason":"timeout"`)
}

func TestNewTokenApplicationService_InvalidType(t *testing.T) {
	otel.SetMeterProvider(noop.NewMeterProvider())
	metrics, err := otelinfra.NewMetrics("test")
	require.NoError(t, err)

	cfg := defaultTokenConfig()
	cfg.Type = "offline"

	service, err := NewTokenApplicationService(new(MockIssuer), cfg, otelinfra.NewLoggerWithWriter(&bytes.Buffer{}), metrics)
	assert.Error(t, err)
	assert.Nil(t, service)
}
