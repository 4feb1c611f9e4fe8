package section

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCookieConstants(t *testing.T) {
	require.Equal(t, Cookie(0x1c849388), EncodingCookie)
	require.Equal(t, Cookie(0x1c849389), CompressionCookie)
	require.NotEqual(t, EncodingCookie.Base(), CompressionCookie.Base())
}

func TestCookie_BaseAndVersion(t *testing.T) {
	tests := []struct {
		name    string
		cookie  Cookie
		base    int32
		version uint8
	}{
		{"encoding v8", EncodingCookie, EncodingCookieBase, 8},
		{"compression v8", CompressionCookie, CompressionCookieBase, 8},
		{"encoding v0", NewCookie(EncodingCookieBase, 0), EncodingCookieBase, 0},
		{"compression v15", NewCookie(CompressionCookieBase, 15), CompressionCookieBase, 15},
		{"version nibble truncated", NewCookie(EncodingCookieBase, 0x19), EncodingCookieBase, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.base, tt.cookie.Base())
			require.Equal(t, tt.version, tt.cookie.Version())
		})
	}
}

func TestCookie_IsSupportedVersion(t *testing.T) {
	require.True(t, EncodingCookie.IsSupportedVersion())
	require.True(t, CompressionCookie.IsSupportedVersion())

	for v := uint8(0); v < 16; v++ {
		if v == FormatVersion {
			continue
		}
		require.False(t, NewCookie(EncodingCookieBase, v).IsSupportedVersion(), "version %d", v)
	}
}

func TestCookie_String(t *testing.T) {
	require.Equal(t, "0x1c849388(v8)", EncodingCookie.String())
}
