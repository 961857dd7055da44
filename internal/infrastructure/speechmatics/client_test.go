package speechmatics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stt-token-server/internal/domain/token"
)

func newParams(t *testing.T, ttl int) token.IssueParams {
	t.Helper()
	tokenTTL, err := token.NewTTL(ttl, 0)
	require.NoError(t, err)
	return token.IssueParams{
		Type:   token.TokenTypeRealtime,
		APIKey: "secret-api-key",
		TTL:    tokenTTL,
	}
}

func TestClient_Issue_Success(t *testing.T) {
	var gotReq issueRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/api_keys", r.URL.Path)
		assert.Equal(t, "rt", r.URL.Query().Get("type"))
		assert.Equal(t, "Bearer secret-api-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"apikey_id":"id-1","key_value":"temporary-key"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", WithClientRef("web-client"))

	got, err := client.Issue(context.Background(), newParams(t, 60))
	require.NoError(t, err)
	assert.Equal(t, "temporary-key", got)
	assert.Equal(t, 60, gotReq.TTL)
	assert.Equal(t, "web-client", gotReq.ClientRef)
}

func TestClient_Issue_Errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
		wantEmpty  bool
	}{
		{
			name:       "異常系: 認証エラー",
			status:     http.StatusUnauthorized,
			body:       `{"code":401,"error":"Permission Denied"}`,
			wantDetail: "unexpected status 401",
		},
		{
			name:       "異常系: サーバーエラー",
			status:     http.StatusInternalServerError,
			body:       "internal error",
			wantDetail: "unexpected status 500",
		},
		{
			name:       "異常系: 不正なJSON",
			status:     http.StatusCreated,
			body:       "not-json",
			wantDetail: "failed to decode response",
		},
		{
			name:      "異常系: 空のキー",
			status:    http.StatusCreated,
			body:      `{"apikey_id":"id-1","key_value":""}`,
			wantEmpty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL)

			got, err := client.Issue(context.Background(), newParams(t, 3600))
			require.Error(t, err)
			assert.Empty(t, got)
			assert.ErrorIs(t, err, token.ErrIssuanceFailed)
			if tt.wantEmpty {
				assert.ErrorIs(t, err, token.ErrEmptyToken)
			} else {
				assert.Contains(t, err.Error(), tt.wantDetail)
			}
		})
	}
}

func TestClient_Issue_ContextTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Issue(ctx, newParams(t, 60))
	require.Error(t, err)
	assert.ErrorIs(t, err, token.ErrIssuanceFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_Issue_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(url, WithHTTPClient(&http.Client{Timeout: time.Second}))

	_, err := client.Issue(context.Background(), newParams(t, 60))
	require.Error(t, err)
	assert.ErrorIs(t, err, token.ErrIssuanceFailed)
}
