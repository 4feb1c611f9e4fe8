package hash

import "github.com/cespare/xxhash/v2"

// TagID computes the xxHash64 identifier of a log record tag.
func TagID(tag string) uint64 {
	return xxhash.Sum64String(tag)
}

// TagIDBytes is TagID for a tag still held in a line buffer; it does not allocate.
func TagIDBytes(tag []byte) uint64 {
	return xxhash.Sum64(tag)
}

// TagSet is a set of tags keyed by identifier. Each identifier keeps the names that
// hash to it, so a colliding tag is never mistaken for a member.
type TagSet map[uint64][]string

// NewTagSet builds a set from tag names. Duplicates are ignored.
func NewTagSet(tags ...string) TagSet {
	set := make(TagSet, len(tags))
	for _, tag := range tags {
		id := TagID(tag)
		if !set.matchID(id, tag) {
			set[id] = append(set[id], tag)
		}
	}

	return set
}

// Contains reports whether some tag with the given identifier is in the set.
func (s TagSet) Contains(id uint64) bool {
	_, ok := s[id]
	return ok
}

// Match reports whether tag is in the set.
func (s TagSet) Match(tag []byte) bool {
	for _, name := range s[TagIDBytes(tag)] {
		if name == string(tag) {
			return true
		}
	}

	return false
}

func (s TagSet) matchID(id uint64, tag string) bool {
	for _, name := range s[id] {
		if name == tag {
			return true
		}
	}

	return false
}
