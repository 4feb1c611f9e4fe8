package errs

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStrerror(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{CodeInvalidArgument, "Invalid argument"},
		{CodeOutOfMemory, "Out of memory"},
		{CodeCompressInit, "Deflate initialisation failed"},
		{CodeCompressFailed, "Deflate failed"},
		{CodeDecompressInit, "Inflate initialisation failed"},
		{CodeDecompressFailed, "Inflate failed"},
		{CodeCompressionCookieMismatch, "Compression cookie mismatch"},
		{CodeEncodingCookieMismatch, "Encoding cookie mismatch"},
		{CodeUnknown, "Unknown error"},
		{Code(22), "Unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			require.Equal(t, tt.want, Strerror(tt.code))
			require.Equal(t, tt.want, tt.code.String())
		})
	}
}

func TestCodesAreOutsideSystemRange(t *testing.T) {
	for code := range descriptions {
		require.Greater(t, int32(code), int32(codeBase))
	}
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("%w: envelope shorter than header", ErrInvalidArgument)

	require.Equal(t, CodeInvalidArgument, CodeOf(wrapped))
	require.ErrorIs(t, wrapped, ErrInvalidArgument)
	require.NotErrorIs(t, wrapped, ErrOutOfMemory)
	require.Equal(t, "Invalid argument: envelope shorter than header", wrapped.Error())

	require.Equal(t, CodeUnknown, CodeOf(nil))
	require.Equal(t, CodeUnknown, CodeOf(io.EOF))

	joined := errors.Join(io.ErrUnexpectedEOF, fmt.Errorf("%w", ErrDecompressFailed))
	require.Equal(t, CodeDecompressFailed, CodeOf(joined))
}
