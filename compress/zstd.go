package compress

// zstdMagic is the zstd frame magic number, little-endian 0xFD2FB528.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// zstdLevel is the compression level used by both zstd implementations.
const zstdLevel = 3
