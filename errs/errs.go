// Package errs defines the closed set of error kinds reported by the hdrlog codec.
//
// Every codec failure wraps exactly one of the sentinel errors below, so callers can
// branch with errors.Is or recover the numeric code with CodeOf:
//
//	h, err := decoder.Decode(data)
//	if errors.Is(err, errs.ErrCompressionCookieMismatch) {
//	    // not an hdrlog envelope
//	}
//
// Codes occupy their own numeric range, starting at 30001, and never overlap with
// operating system error numbers.
package errs

import "errors"

// Code identifies a codec error kind.
type Code int32

const codeBase Code = 30000

const (
	CodeUnknown                   Code = 0
	CodeInvalidArgument           Code = codeBase + 1 // malformed sizes, bad cookie version, malformed base64
	CodeOutOfMemory               Code = codeBase + 2 // allocation or growth bound exceeded
	CodeCompressInit              Code = codeBase + 3 // compression engine could not be created
	CodeCompressFailed            Code = codeBase + 4 // compression step failed
	CodeDecompressInit            Code = codeBase + 5 // decompression engine could not be created
	CodeDecompressFailed          Code = codeBase + 6 // decompression step failed
	CodeCompressionCookieMismatch Code = codeBase + 7 // envelope cookie base tag mismatch
	CodeEncodingCookieMismatch    Code = codeBase + 8 // metadata cookie base tag mismatch
)

var descriptions = map[Code]string{
	CodeInvalidArgument:           "Invalid argument",
	CodeOutOfMemory:               "Out of memory",
	CodeCompressInit:              "Deflate initialisation failed",
	CodeCompressFailed:            "Deflate failed",
	CodeDecompressInit:            "Inflate initialisation failed",
	CodeDecompressFailed:          "Inflate failed",
	CodeCompressionCookieMismatch: "Compression cookie mismatch",
	CodeEncodingCookieMismatch:    "Encoding cookie mismatch",
}

// Strerror returns the human readable description of code.
func Strerror(code Code) string {
	if desc, ok := descriptions[code]; ok {
		return desc
	}

	return "Unknown error"
}

// String implements fmt.Stringer.
func (c Code) String() string {
	return Strerror(c)
}

// Error is a codec error of a single kind.
type Error struct {
	Code Code
}

// Error implements the error interface.
func (e *Error) Error() string {
	return Strerror(e.Code)
}

var (
	ErrInvalidArgument           = &Error{Code: CodeInvalidArgument}
	ErrOutOfMemory               = &Error{Code: CodeOutOfMemory}
	ErrCompressInit              = &Error{Code: CodeCompressInit}
	ErrCompressFailed            = &Error{Code: CodeCompressFailed}
	ErrDecompressInit            = &Error{Code: CodeDecompressInit}
	ErrDecompressFailed          = &Error{Code: CodeDecompressFailed}
	ErrCompressionCookieMismatch = &Error{Code: CodeCompressionCookieMismatch}
	ErrEncodingCookieMismatch    = &Error{Code: CodeEncodingCookieMismatch}
)

// CodeOf returns the code of the first *Error found in err's chain,
// or CodeUnknown when err is nil or carries no codec error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return CodeUnknown
}
