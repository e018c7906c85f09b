// Binary encoding for dictionary blobs.
//
// Patterns are arbitrary bytes (not necessarily UTF-8), so they are stored as
// length-prefixed byte strings rather than JSON.
//
// Format v1 (little-endian):
//
//	version:      uint8 (1)
//	updatedAt:    int64 (unix seconds)
//	patternCount: uint32
//	per pattern:
//	  len:  uint32
//	  text: [len]byte
package bbolt

import (
	"encoding/binary"
	"fmt"
)

const (
	formatV1   = 1
	headerSize = 1 + 8 + 4
)

// encodePatterns encodes a pattern list and its timestamp. A single buffer is
// pre-allocated to avoid repeated growth.
func encodePatterns(patterns [][]byte, updatedAt int64) []byte {
	totalSize := headerSize
	for _, p := range patterns {
		totalSize += 4 + len(p)
	}

	buf := make([]byte, totalSize)
	buf[0] = formatV1
	offset := 1
	binary.LittleEndian.PutUint64(buf[offset:], uint64(updatedAt))
	offset += 8
	binary.LittleEndian.PutUint32(buf[offset:], uint32(len(patterns)))
	offset += 4

	for _, p := range patterns {
		binary.LittleEndian.PutUint32(buf[offset:], uint32(len(p)))
		offset += 4
		copy(buf[offset:], p)
		offset += len(p)
	}
	return buf
}

// decodePatterns decodes a blob written by encodePatterns.
// Every read is bounds-checked to avoid panics on corrupt data.
func decodePatterns(data []byte) ([][]byte, int64, error) {
	if len(data) < headerSize {
		return nil, 0, fmt.Errorf("dictionary blob too short: %d bytes", len(data))
	}
	if data[0] != formatV1 {
		return nil, 0, fmt.Errorf("unsupported dictionary format version %d", data[0])
	}

	offset := 1
	updatedAt := int64(binary.LittleEndian.Uint64(data[offset:]))
	offset += 8
	count := binary.LittleEndian.Uint32(data[offset:])
	offset += 4

	// Each pattern needs at least its 4-byte length prefix.
	if uint64(count)*4 > uint64(len(data)-offset) {
		return nil, 0, fmt.Errorf("pattern count %d exceeds blob size %d", count, len(data))
	}

	patterns := make([][]byte, count)
	for i := uint32(0); i < count; i++ {
		if offset+4 > len(data) {
			return nil, 0, fmt.Errorf("truncated at pattern %d length (offset %d)", i, offset)
		}
		n := int(binary.LittleEndian.Uint32(data[offset:]))
		offset += 4

		if n < 0 || offset+n > len(data) {
			return nil, 0, fmt.Errorf("truncated at pattern %d text (offset %d, need %d)", i, offset, n)
		}
		p := make([]byte, n)
		copy(p, data[offset:offset+n])
		patterns[i] = p
		offset += n
	}

	if offset != len(data) {
		return nil, 0, fmt.Errorf("%d trailing bytes after %d patterns", len(data)-offset, count)
	}
	return patterns, updatedAt, nil
}
