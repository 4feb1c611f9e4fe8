package blob

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/hdrlog/histogram"
)

// handBuiltPayload lays out a flyweight field by field, independently of the section
// package: cookie, sigfigs, lowest, highest, total, then big-endian counts.
func handBuiltPayload(sigFigs int32, lowest, highest, total int64, counts []int64) []byte {
	buf := make([]byte, 0, 32+len(counts)*8)
	buf = binary.BigEndian.AppendUint32(buf, 0x1c849388)
	buf = binary.BigEndian.AppendUint32(buf, uint32(sigFigs))
	buf = binary.BigEndian.AppendUint64(buf, uint64(lowest))
	buf = binary.BigEndian.AppendUint64(buf, uint64(highest))
	buf = binary.BigEndian.AppendUint64(buf, uint64(total))
	for _, c := range counts {
		buf = binary.BigEndian.AppendUint64(buf, uint64(c))
	}

	return buf
}

func TestEncoder_GoldenFlyweightLayout(t *testing.T) {
	h, err := histogram.NewHDR(1, 3600000000, 3)
	require.NoError(t, err)
	require.NoError(t, h.RecordValues(0, 1, 5))

	enc, err := NewEncoder()
	require.NoError(t, err)
	data, err := enc.Encode(h)
	require.NoError(t, err)

	require.Equal(t, []byte{0x1c, 0x84, 0x93, 0x89}, data[:4])
	require.Equal(t, uint32(len(data)-8), binary.BigEndian.Uint32(data[4:8]))

	inflated := inflateAll(t, data[8:])
	require.Len(t, inflated, 32+23552*8)

	require.Equal(t, uint32(0x1c849388), binary.BigEndian.Uint32(inflated[0:4]))
	require.Equal(t, uint32(3), binary.BigEndian.Uint32(inflated[4:8]))
	require.Equal(t, uint64(1), binary.BigEndian.Uint64(inflated[8:16]))
	require.Equal(t, uint64(3600000000), binary.BigEndian.Uint64(inflated[16:24]))
	require.Equal(t, uint64(3), binary.BigEndian.Uint64(inflated[24:32]))

	// counts start right after the total count
	require.Equal(t, uint64(1), binary.BigEndian.Uint64(inflated[32:40]), "counts[0]")
	require.Equal(t, uint64(1), binary.BigEndian.Uint64(inflated[40:48]), "counts[1]")
	require.Equal(t, uint64(0), binary.BigEndian.Uint64(inflated[48:56]), "counts[2]")
	require.Equal(t, uint64(1), binary.BigEndian.Uint64(inflated[72:80]), "counts[5]")

	require.Equal(t, handBuiltPayload(3, 1, 3600000000, 3, h.Counts()), inflated)
}

func TestDecoder_HandBuiltEnvelope(t *testing.T) {
	counts := make([]int64, 23552)
	counts[0], counts[1], counts[5] = 1, 1, 1

	data := buildEnvelope(t, handBuiltPayload(3, 1, 3600000000, 3, counts))

	dec, err := NewDecoder()
	require.NoError(t, err)
	h, err := dec.Decode(data)
	require.NoError(t, err)

	require.Equal(t, int64(3), h.TotalCount())
	require.Equal(t, []int64{1, 1, 0, 0, 0, 1}, h.Counts()[:6])
	require.Equal(t, counts, h.Counts())
}
