// Package encoding provides the base64 transcoder used to embed compressed histogram
// envelopes in text log lines.
//
// The transcoder uses the standard 64-symbol alphabet (A-Z, a-z, 0-9, '+', '/') with
// '=' padding. It is a pure, block-local transform: every 3 input bytes map to 4
// symbols, and a final group of 1 or 2 bytes is padded with "==" or "=".
//
// # Sizes
//
// Callers supply exactly sized buffers, which lets log readers reuse scratch space
// across lines:
//
//	dst := make([]byte, encoding.Base64EncodedLen(len(raw)))   // ceil(n/3)*4
//	_ = encoding.Base64EncodeInto(dst, raw)
//
//	out := make([]byte, encoding.Base64DecodedLen(len(text)))  // (n/4)*3
//	err := encoding.Base64DecodeInto(out, text, false)
//
// A decoded buffer always has (n/4)*3 bytes; the bytes standing for padding decode as
// zero. Base64Unpadded reports how many of them are payload.
//
// # Padding
//
// In lenient mode '=' is accepted anywhere and decodes as zero, which is how older log
// writers and readers behave. Strict mode only accepts '=' as the final one or two
// symbols of the input.
package encoding
