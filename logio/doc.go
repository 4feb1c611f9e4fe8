// Package logio reads and writes histogram interval logs.
//
// An interval log is a text file made of a comment header followed by one line per
// interval histogram:
//
//	#[Histogram log format version 1.2]
//	#[StartTime: 1441812123.250 (seconds since epoch), 2015-09-09T15:22:03.25Z]
//	"StartTimestamp","Interval_Length","Interval_Max","Interval_Compressed_Histogram"
//	0.127,1.007,2.769,HISTiQAAAJ94...
//	Tag=db,1.134,0.999,0.863,HISTiQAAAKd4...
//
// Each data line carries three seconds.fraction stamps and the base64 text of a
// compression envelope (see package blob). An optional leading Tag=NAME field labels
// the interval.
//
// # Reading
//
// Reader scans the header once, then yields one Record per data line:
//
//	r, err := logio.NewReader(f, logio.WithFailurePolicy(format.AbortOnInvalid))
//	if err != nil {
//	    return err
//	}
//	for r.Next() {
//	    rec := r.Record()
//	    fmt.Println(rec.Begin, rec.Histogram.TotalCount())
//	}
//	if err := r.Err(); err != nil {
//	    return err
//	}
//
// A line that does not have the data line shape stops the scan with
// errs.ErrInvalidArgument and its line number. A well formed line whose payload cannot
// be decoded is skipped by default (format.SkipInvalid) or stops the scan under
// format.AbortOnInvalid.
//
// # Writing
//
// Writer emits the header and encodes histograms into data lines that Reader accepts.
package logio
