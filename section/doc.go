// Package section defines the packed binary layouts of the hdrlog wire format.
//
// A serialized histogram is made of two layers, each introduced by its own cookie:
//
//	┌──────────────────────────────────────────────┐
//	│ CompressionHeader (8 bytes)                  │
//	│  - cookie  0x1c849389 (base 0x1c849309, v8)  │
//	│  - length of the compressed payload          │
//	├──────────────────────────────────────────────┤
//	│ compressed payload (zlib stream) of:         │
//	│ ┌──────────────────────────────────────────┐ │
//	│ │ EncodingHeader (32 bytes)                │ │
//	│ │  - cookie 0x1c849388 (base 0x1c849308)   │ │
//	│ │  - significant figures                   │ │
//	│ │  - lowest / highest trackable value      │ │
//	│ │  - total count                           │ │
//	│ ├──────────────────────────────────────────┤ │
//	│ │ counts: int64 × counts_len               │ │
//	│ └──────────────────────────────────────────┘ │
//	└──────────────────────────────────────────────┘
//
// All integers are big-endian and there is no padding between fields.
//
// # Cookies
//
// A cookie is base_tag + (version << 4). Each layer validates its own cookie: a base
// tag mismatch is reported as errs.ErrCompressionCookieMismatch or
// errs.ErrEncodingCookieMismatch whatever the version nibble says, and a matching base
// tag with an unknown version is errs.ErrInvalidArgument.
package section
