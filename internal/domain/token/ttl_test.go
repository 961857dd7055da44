package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTTL(t *testing.T) {
	tests := []struct {
		name       string
		seconds    int
		maxSeconds int
		wantErr    bool
	}{
		{
			name:       "正常系: 上限なし",
			seconds:    3600,
			maxSeconds: 0,
		},
		{
			name:       "正常系: 上限ちょうど",
			seconds:    600,
			maxSeconds: 600,
		},
		{
			name:       "正常系: 上限なしで非常に長い期間",
			seconds:    10 * 365 * 24 * 3600,
			maxSeconds: 0,
		},
		{
			name:       "正常系: Durationで表現できる最大値",
			seconds:    int(MaxTTLSeconds),
			maxSeconds: 0,
		},
		{
			name:       "異常系: Durationで表現できる範囲を超える",
			seconds:    int(MaxTTLSeconds) + 1,
			maxSeconds: 0,
			wantErr:    true,
		},
		{
			name:       "異常系: ゼロ",
			seconds:    0,
			maxSeconds: 0,
			wantErr:    true,
		},
		{
			name:       "異常系: 負の値",
			seconds:    -60,
			maxSeconds: 0,
			wantErr:    true,
		},
		{
			name:       "異常系: 上限超過",
			seconds:    601,
			maxSeconds: 600,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTTL(tt.seconds, tt.maxSeconds)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidTTL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.seconds, got.Seconds())
			assert.Equal(t, time.Duration(tt.seconds)*time.Second, got.Duration())
			assert.Positive(t, got.Duration())
		})
	}
}
