package proof

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

// The compact encoding wraps a fixed binary layout of the proof in
// bech32 with the "zots" human-readable part, so every compact proof
// starts with "zots1" and carries the bech32 checksum. It is a pure
// transport encoding: the same logical content as the JSON form, nothing
// added and nothing dropped.
//
// Payload layout:
//
//	version     1 byte
//	algorithm   1 byte
//	hash        32 bytes
//	count       1 byte
//	per attestation:
//	  network      1 byte
//	  txid         32 bytes (internal order)
//	  block height 4 bytes LE
//	  block time   4 bytes LE
//	  memo offset  2 bytes LE

// CompactHRP is the bech32 human-readable part of compact proof strings.
const CompactHRP = "zots"

const compactPrefix = CompactHRP + "1"

const attestationWireSize = 1 + 32 + 4 + 4 + 2

// IsCompactFormat reports whether s looks like a compact proof string.
// It is a cheap prefix check: it never fails on garbage input, it only
// returns false.
func IsCompactFormat(s string) bool {
	return strings.HasPrefix(s, compactPrefix)
}

// ToCompact encodes the proof as a compact zots1... string. Encoding is
// deterministic: the same proof always yields the same string.
func (p *TimestampProof) ToCompact() (string, error) {
	hash, err := p.HashBytes()
	if err != nil {
		return "", err
	}
	if len(p.Attestations) > 255 {
		return "", fmt.Errorf("%w: too many attestations (%d)", ErrInvalidProof, len(p.Attestations))
	}

	payload := make([]byte, 0, 35+len(p.Attestations)*attestationWireSize)
	payload = append(payload, p.Version, byte(p.HashAlgorithm))
	payload = append(payload, hash[:]...)
	payload = append(payload, byte(len(p.Attestations)))

	for _, att := range p.Attestations {
		payload = append(payload, att.Network.toByte())
		payload = append(payload, att.Txid[:]...)
		payload = binary.LittleEndian.AppendUint32(payload, att.BlockHeight)
		payload = binary.LittleEndian.AppendUint32(payload, att.BlockTime)
		payload = binary.LittleEndian.AppendUint16(payload, att.MemoOffset)
	}

	grouped, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidProof, err)
	}
	encoded, err := bech32.Encode(CompactHRP, grouped)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidProof, err)
	}
	return encoded, nil
}

// FromCompact decodes a compact zots1... string back into a proof. It
// fails with ErrInvalidProof on a missing prefix, a checksum failure, or
// a structurally malformed payload.
func FromCompact(s string) (*TimestampProof, error) {
	if !IsCompactFormat(s) {
		return nil, fmt.Errorf("%w: missing %s prefix", ErrInvalidProof, compactPrefix)
	}

	// Compact proofs exceed the 90-character bech32 address limit, so
	// decode without it; the checksum is still verified.
	hrp, grouped, err := bech32.DecodeNoLimit(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProof, err)
	}
	if hrp != CompactHRP {
		return nil, fmt.Errorf("%w: unexpected prefix %q", ErrInvalidProof, hrp)
	}
	payload, err := bech32.ConvertBits(grouped, 5, 8, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProof, err)
	}

	if len(payload) < 35 {
		return nil, fmt.Errorf("%w: payload too small (%d bytes)", ErrInvalidProof, len(payload))
	}
	version := payload[0]
	if version != ProofVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidProof, version)
	}
	algo, err := hashAlgorithmFromByte(payload[1])
	if err != nil {
		return nil, err
	}
	var hash Hash256
	copy(hash[:], payload[2:34])
	count := int(payload[34])

	offset := 35
	if len(payload) != offset+count*attestationWireSize {
		return nil, fmt.Errorf("%w: payload length %d does not match %d attestations",
			ErrInvalidProof, len(payload), count)
	}

	p := NewWithAlgorithm(hash, algo)
	for i := 0; i < count; i++ {
		entry := payload[offset : offset+attestationWireSize]
		network, err := networkFromByte(entry[0])
		if err != nil {
			return nil, err
		}
		var txid [32]byte
		copy(txid[:], entry[1:33])
		p.AddAttestation(ZcashAttestation{
			Network:     network,
			Txid:        txid,
			BlockHeight: binary.LittleEndian.Uint32(entry[33:37]),
			BlockTime:   binary.LittleEndian.Uint32(entry[37:41]),
			MemoOffset:  binary.LittleEndian.Uint16(entry[41:43]),
		})
		offset += attestationWireSize
	}
	return p, nil
}

func hashAlgorithmFromByte(b byte) (HashAlgorithm, error) {
	switch b {
	case byte(Sha256):
		return Sha256, nil
	case byte(Blake3):
		return Blake3, nil
	default:
		return Sha256, fmt.Errorf("%w: unknown hash algorithm byte 0x%02x", ErrInvalidProof, b)
	}
}
