// Package blob encodes histograms into compression envelopes and decodes them back.
//
// An envelope is an 8-byte section.CompressionHeader followed by a zlib stream. The
// stream carries the 32-byte section.EncodingHeader and then every count of the
// histogram as a big-endian int64, in index order:
//
//	enc, _ := blob.NewEncoder()
//	data, err := enc.Encode(h)
//
//	dec, _ := blob.NewDecoder()
//	decoded, err := dec.Decode(data)
//
// # Memory
//
// Counts are staged through a fixed chunk (512 counts by default), so the uncompressed
// form of a histogram is never materialized. The output buffer starts small and doubles
// as the compressor emits bytes, up to WithMaxBufferSize. On decode the counts array is
// allocated by the histogram.Factory only after the encoding header has been inflated
// and its cookie checked, and WithMaxCountsLen bounds it.
//
// # Errors
//
// Every failure wraps one errs sentinel; see Encoder.EncodeTo and Decoder.DecodeInto.
// No partially built histogram or buffer is returned on error.
package blob
