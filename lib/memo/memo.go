// Package memo encodes timestamp data into the fixed-size Zcash shielded
// memo field: the zots magic header followed by the 32-byte hash, zero
// padded to the full field size.
package memo

import (
	"bytes"

	"github.com/zopentimestamps/zots/lib/proof"
)

// Size is the Zcash shielded memo field size in bytes.
const Size = 512

// HashOffset is the byte offset within the memo where the hash begins.
const HashOffset = 8

// CreateTimestampMemo builds a full memo field for a hash:
// magic (8 bytes) + hash (32 bytes) + zero padding to 512 bytes.
func CreateTimestampMemo(hash proof.Hash256) [Size]byte {
	var m [Size]byte
	copy(m[:HashOffset], proof.ZotsMagic[:])
	copy(m[HashOffset:HashOffset+32], hash[:])
	return m
}

// ParseTimestampMemo extracts the hash from a memo field. Memos are
// third-party-controlled data, so a memo that is not ours is an expected
// outcome, not an error: ok is false for inputs shorter than 40 bytes or
// with a non-matching magic header.
func ParseTimestampMemo(m []byte) (proof.Hash256, bool) {
	if len(m) < HashOffset+32 {
		return proof.Hash256{}, false
	}
	if !bytes.Equal(m[:HashOffset], proof.ZotsMagic[:]) {
		return proof.Hash256{}, false
	}
	var h proof.Hash256
	copy(h[:], m[HashOffset:HashOffset+32])
	return h, true
}
