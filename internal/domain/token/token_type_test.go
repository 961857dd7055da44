package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TokenType
		wantErr bool
	}{
		{
			name:  "正常系: rt",
			input: "rt",
			want:  TokenTypeRealtime,
		},
		{
			name:  "正常系: batch",
			input: "batch",
			want:  TokenTypeBatch,
		},
		{
			name:    "異常系: 無効な値",
			input:   "real-time",
			wantErr: true,
		},
		{
			name:    "異常系: 空文字列",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTokenType(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Valid())
		})
	}
}

func TestTokenType_Valid(t *testing.T) {
	assert.True(t, TokenTypeRealtime.Valid())
	assert.True(t, TokenTypeBatch.Valid())
	assert.Equal(t, "rt", TokenTypeRealtime.String())
	assert.False(t, TokenType("other").Valid())
}
