package handler

import (
	"context"

	"stt-token-server/internal/domain/token"

	"github.com/stretchr/testify/mock"
)

// MockIssuer モックトークン発行元
type MockIssuer struct {
	mock.Mock
}

func (m *MockIssuer) Issue(ctx context.Context, params token.IssueParams) (string, error) {
	args := m.Called(ctx, params)
	return args.String(0), args.Error(1)
}
