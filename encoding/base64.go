package encoding

import (
	"fmt"

	"github.com/arloliu/hdrlog/errs"
)

const (
	base64Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"
	base64Pad      = '='

	invalidSymbol = 0xFF
	padSymbol     = 0xFE
)

// base64Lookup maps an ASCII byte to its 6-bit value, padSymbol for '=' and
// invalidSymbol for anything outside the alphabet.
var base64Lookup = func() [256]byte {
	var table [256]byte
	for i := range table {
		table[i] = invalidSymbol
	}
	for i := 0; i < len(base64Alphabet); i++ {
		table[base64Alphabet[i]] = byte(i)
	}
	table[base64Pad] = padSymbol

	return table
}()

// Base64EncodedLen returns the encoded length of n raw bytes: ceil(n/3)*4.
func Base64EncodedLen(n int) int {
	return (n + 2) / 3 * 4
}

// Base64DecodedLen returns the decoded length of n symbols: (n/4)*3.
//
// The result includes the zero bytes produced by padding symbols.
func Base64DecodedLen(n int) int {
	return n / 4 * 3
}

// Base64EncodeInto encodes src into dst using the standard alphabet with '=' padding.
//
// dst must be exactly Base64EncodedLen(len(src)) bytes long.
func Base64EncodeInto(dst, src []byte) error {
	if len(dst) != Base64EncodedLen(len(src)) {
		return fmt.Errorf("%w: base64 output is %d bytes, want %d",
			errs.ErrInvalidArgument, len(dst), Base64EncodedLen(len(src)))
	}

	i, j := 0, 0
	for ; len(src)-i >= 3; i, j = i+3, j+4 {
		v := uint32(src[i])<<16 | uint32(src[i+1])<<8 | uint32(src[i+2])
		encodeBlock(dst[j:j+4], v)
	}

	switch len(src) - i {
	case 2:
		v := uint32(src[i])<<16 | uint32(src[i+1])<<8
		encodeBlock(dst[j:j+4], v)
		dst[j+3] = base64Pad
	case 1:
		v := uint32(src[i]) << 16
		encodeBlock(dst[j:j+4], v)
		dst[j+2] = base64Pad
		dst[j+3] = base64Pad
	}

	return nil
}

func encodeBlock(dst []byte, v uint32) {
	dst[0] = base64Alphabet[v>>18&0x3F]
	dst[1] = base64Alphabet[v>>12&0x3F]
	dst[2] = base64Alphabet[v>>6&0x3F]
	dst[3] = base64Alphabet[v&0x3F]
}

// Base64Encode returns the base64 text of src.
func Base64Encode(src []byte) []byte {
	dst := make([]byte, Base64EncodedLen(len(src)))
	_ = Base64EncodeInto(dst, src)

	return dst
}

// Base64DecodeInto decodes src into dst.
//
// src must be a positive multiple of 4 symbols long and dst exactly
// Base64DecodedLen(len(src)) bytes long. Every symbol must belong to the standard
// alphabet or be '='.
//
// In lenient mode '=' decodes as zero wherever it appears. In strict mode '=' is only
// accepted as the last one or two symbols of the final group.
func Base64DecodeInto(dst, src []byte, strict bool) error {
	if len(src) < 4 || len(src)%4 != 0 {
		return fmt.Errorf("%w: base64 input length %d is not a positive multiple of 4",
			errs.ErrInvalidArgument, len(src))
	}

	if len(dst) != Base64DecodedLen(len(src)) {
		return fmt.Errorf("%w: base64 output is %d bytes, want %d",
			errs.ErrInvalidArgument, len(dst), Base64DecodedLen(len(src)))
	}

	last := len(src) - 4
	for i, j := 0, 0; i < len(src); i, j = i+4, j+3 {
		var v uint32
		for k := 0; k < 4; k++ {
			c := src[i+k]
			s := base64Lookup[c]
			switch s {
			case invalidSymbol:
				return fmt.Errorf("%w: invalid base64 symbol %q at offset %d",
					errs.ErrInvalidArgument, c, i+k)
			case padSymbol:
				if strict && !validPadding(src[i:i+4], k, i == last) {
					return fmt.Errorf("%w: misplaced base64 padding at offset %d",
						errs.ErrInvalidArgument, i+k)
				}
				s = 0
			}
			v = v<<6 | uint32(s)
		}

		dst[j] = byte(v >> 16)
		dst[j+1] = byte(v >> 8)
		dst[j+2] = byte(v)
	}

	return nil
}

// validPadding reports whether the '=' at position k of group is legal: it must sit in
// the final group, at position 2 or 3, and only be followed by more padding.
func validPadding(group []byte, k int, final bool) bool {
	if !final || k < 2 {
		return false
	}

	for _, c := range group[k:] {
		if c != base64Pad {
			return false
		}
	}

	return true
}

// Base64Decode decodes strict base64 text and returns exactly the encoded bytes,
// without the zero bytes that stand for padding.
func Base64Decode(src []byte) ([]byte, error) {
	dst := make([]byte, Base64DecodedLen(len(src)))
	if err := Base64DecodeInto(dst, src, true); err != nil {
		return nil, err
	}

	return dst[:Base64Unpadded(src)], nil
}

// Base64Unpadded returns the number of payload bytes in a decoded buffer of
// encoded, excluding the bytes contributed by trailing padding.
func Base64Unpadded(encoded []byte) int {
	n := Base64DecodedLen(len(encoded))
	for i := len(encoded) - 1; i >= 0 && i >= len(encoded)-2 && encoded[i] == base64Pad; i-- {
		n--
	}

	return n
}
