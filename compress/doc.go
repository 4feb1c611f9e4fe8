// Package compress provides the stream codecs used for compressed histogram log archives.
//
// Interval logs are plain text and compress well. A log may be stored as-is or wrapped
// in one of the supported container formats:
//   - None: plain text
//   - Gzip: klauspost/compress/gzip, readable by any gzip tool
//   - Zstd: klauspost/compress/zstd, or valyala/gozstd when built with the gozstd tag and cgo
//   - S2: klauspost/compress/s2 framed stream
//   - LZ4: pierrec/lz4 frame format
//
// Readers do not need to know how a log was stored: Detect inspects the leading magic
// bytes and NewStreamReader unwraps the right container.
//
//	br := bufio.NewReader(f)
//	ctype, err := compress.Detect(br)
//	if err != nil {
//	    return err
//	}
//	r, err := compress.NewStreamReader(br, ctype)
//
// Writers returned by NewStreamWriter must be closed to finish the container; closing
// them never closes the underlying writer.
package compress
