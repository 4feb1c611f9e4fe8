package logio

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/arloliu/hdrlog/blob"
	"github.com/arloliu/hdrlog/encoding"
	"github.com/arloliu/hdrlog/format"
	"github.com/arloliu/hdrlog/histogram"
	"github.com/arloliu/hdrlog/internal/options"
	"github.com/arloliu/hdrlog/internal/pool"
)

// Stats counts what a Reader has seen so far.
type Stats struct {
	// Lines is the number of lines read, header included.
	Lines int
	// Records is the number of records yielded.
	Records int
	// Skipped is the number of data lines dropped because their payload did not decode.
	Skipped int
	// Filtered is the number of data lines dropped by the tag filter.
	Filtered int
}

// Sink consumes the records of a log.
type Sink interface {
	Report(rec Record) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(rec Record) error

func (f SinkFunc) Report(rec Record) error {
	return f(rec)
}

// Reader parses a histogram interval log. It is not safe for concurrent use.
type Reader struct {
	cfg ReaderConfig
	br  *bufio.Reader

	header     Header
	headerRead bool
	// held is a data line read while looking for the end of the header
	held    bool
	heldNum int

	line *pool.ByteBuffer

	rec   Record
	stats Stats
	err   error
	done  bool
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader, opts ...ReaderOption) (*Reader, error) {
	cfg := defaultReaderConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	if cfg.decoder == nil {
		dec, err := blob.NewDecoder()
		if err != nil {
			return nil, err
		}
		cfg.decoder = dec
	}

	return &Reader{
		cfg:  *cfg,
		br:   bufio.NewReader(r),
		line: pool.NewBoundedByteBuffer(pool.ScratchBufferDefaultSize, cfg.maxLineLength),
	}, nil
}

// ReadHeader scans the comment lines at the start of the log. It reads the input
// only on the first call and returns the same header afterwards.
//
// The header ends at the first line that is not a comment. When that line is the
// CSV legend it is consumed; otherwise it is kept as the first data line.
func (r *Reader) ReadHeader() (Header, error) {
	if r.headerRead {
		return r.header, r.err
	}
	r.headerRead = true

	for {
		line, err := r.readLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				r.done = true
				return r.header, nil
			}
			r.err = err

			return r.header, err
		}

		if isComment(line) {
			r.header.scanComment(line)
			continue
		}

		if isLegend(line) {
			r.header.HasLegend = true
		} else {
			r.held = true
			r.heldNum = r.stats.Lines
		}

		return r.header, nil
	}
}

// Header returns the header read so far.
func (r *Reader) Header() Header {
	return r.header
}

// Next advances to the next record, reading the header first if needed. It returns
// false at the end of the log or on error; check Err to tell them apart.
func (r *Reader) Next() bool {
	if !r.headerRead {
		if _, err := r.ReadHeader(); err != nil {
			return false
		}
	}

	for !r.done && r.err == nil {
		line, lineNum, err := r.nextLine()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				r.err = err
			}
			r.done = true

			return false
		}

		if isBlank(line) || isComment(line) {
			continue
		}

		ok, err := r.parseRecord(line, lineNum)
		if err != nil {
			r.err = err
			return false
		}
		if ok {
			r.stats.Records++
			return true
		}
	}

	return false
}

// Record returns the current record. Its Payload is only valid until the next call to Next.
func (r *Reader) Record() Record {
	return r.rec
}

// Err returns the error that stopped the reader, or nil at a clean end of log.
func (r *Reader) Err() error {
	return r.err
}

// Stats returns the counters of the reader.
func (r *Reader) Stats() Stats {
	return r.stats
}

// Scan reads the whole log and hands every record to sink. It stops at the first
// error of the log, the sink or ctx.
func (r *Reader) Scan(ctx context.Context, sink Sink) (Stats, error) {
	for {
		if err := ctx.Err(); err != nil {
			return r.stats, err
		}

		if !r.Next() {
			return r.stats, r.Err()
		}

		if err := sink.Report(r.Record()); err != nil {
			return r.stats, fmt.Errorf("line %d: report: %w", r.rec.Line, err)
		}
	}
}

func (r *Reader) nextLine() ([]byte, int, error) {
	if r.held {
		r.held = false
		return r.line.Bytes(), r.heldNum, nil
	}

	line, err := r.readLine()

	return line, r.stats.Lines, err
}

// readLine reads one line into the line buffer. The returned slice aliases the buffer.
func (r *Reader) readLine() ([]byte, error) {
	r.line.Reset()

	for {
		chunk, err := r.br.ReadSlice('\n')
		if _, werr := r.line.Write(chunk); werr != nil {
			return nil, fmt.Errorf("line %d: %w", r.stats.Lines+1, werr)
		}

		switch {
		case err == nil:
			r.stats.Lines++
			return r.line.Bytes(), nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF):
			if r.line.Len() == 0 {
				return nil, io.EOF
			}
			r.stats.Lines++

			return r.line.Bytes(), nil
		default:
			return nil, err
		}
	}
}

// parseRecord parses and decodes one data line. It returns false for lines that were
// filtered out or skipped under format.SkipInvalid.
func (r *Reader) parseRecord(line []byte, lineNum int) (bool, error) {
	dl, err := splitDataLine(line)
	if err != nil {
		return false, fmt.Errorf("line %d: %w", lineNum, err)
	}

	rec := Record{Line: lineNum, Payload: dl.payload}
	if err := dl.parseStamps(&rec); err != nil {
		return false, fmt.Errorf("line %d: %w", lineNum, err)
	}

	if r.cfg.tags != nil && !r.cfg.tags.Match(dl.tag) {
		r.stats.Filtered++
		return false, nil
	}
	rec.Tag = string(dl.tag)

	h, err := r.decodePayload(rec.Payload)
	if err != nil {
		if r.cfg.policy == format.AbortOnInvalid {
			return false, fmt.Errorf("line %d: %w", lineNum, err)
		}

		r.stats.Skipped++
		r.cfg.logger.Warn("skipping undecodable histogram",
			zap.Int("line", lineNum),
			zap.String("tag", rec.Tag),
			zap.Error(err))

		return false, nil
	}

	rec.Histogram = h
	r.rec = rec

	return true, nil
}

// decodePayload stages the raw envelope in a scratch buffer; the decoder copies the
// counts out, so the buffer goes back to the pool before returning.
func (r *Reader) decodePayload(text []byte) (histogram.Mutable, error) {
	payload := pool.GetScratchBuffer()
	defer pool.PutScratchBuffer(payload)

	if err := payload.ResizeZeroed(encoding.Base64DecodedLen(len(text))); err != nil {
		return nil, err
	}

	if err := encoding.Base64DecodeInto(payload.Bytes(), text, r.cfg.strictBase64); err != nil {
		return nil, err
	}

	return r.cfg.decoder.Decode(payload.Bytes())
}
