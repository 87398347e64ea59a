// Package proof implements the zots timestamp proof format: a versioned
// record binding a 32-byte hash to Zcash blockchain attestations, with a
// JSON on-disk encoding and a compact bech32 string encoding for
// embedding in text, QR codes, and Nostr events.
package proof

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// ZotsMagic tags zots-related data. It heads every timestamp memo and the
// binary payload of the compact encoding.
var ZotsMagic = [8]byte{0x00, 0x7A, 0x4F, 0x54, 0x53, 0x00, 0x00, 0x01}

// ProofVersion is the only supported proof format version. Any other
// value is a hard parse error; there is no migration path.
const ProofVersion uint8 = 1

// Network identifies the Zcash network an attestation was broadcast on.
type Network uint8

const (
	Mainnet Network = iota
	Testnet
)

// Name returns the canonical lowercase network name.
func (n Network) Name() string {
	if n == Testnet {
		return "testnet"
	}
	return "mainnet"
}

func (n Network) String() string {
	return n.Name()
}

// ExplorerURL returns the block explorer base URL for the network.
func (n Network) ExplorerURL() string {
	if n == Testnet {
		return "https://testnet.zcashexplorer.app"
	}
	return "https://explorer.zec.rocks"
}

func (n Network) toByte() byte {
	if n == Testnet {
		return 0x01
	}
	return 0x00
}

func networkFromByte(b byte) (Network, error) {
	switch b {
	case 0x00:
		return Mainnet, nil
	case 0x01:
		return Testnet, nil
	default:
		return Mainnet, fmt.Errorf("%w: unknown network byte 0x%02x", ErrInvalidProof, b)
	}
}

// ParseNetwork parses a network name ("mainnet" or "testnet").
func ParseNetwork(s string) (Network, error) {
	switch s {
	case "mainnet", "main":
		return Mainnet, nil
	case "testnet", "test":
		return Testnet, nil
	default:
		return Mainnet, fmt.Errorf("%w: unknown network %q", ErrInvalidProof, s)
	}
}

func (n Network) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Name())
}

func (n *Network) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: network must be a string", ErrInvalidProof)
	}
	net, err := ParseNetwork(s)
	if err != nil {
		return err
	}
	*n = net
	return nil
}

// ZcashAttestation records one blockchain confirmation of a hash. It is
// immutable once constructed and owned by the proof that holds it.
//
// The txid is held in internal (consensus) byte order; Zcash displays
// txids byte-reversed, so TxidHex reverses on the way out and
// NewAttestationFromHex reverses on the way in.
type ZcashAttestation struct {
	Network     Network
	Txid        [32]byte
	BlockHeight uint32
	BlockTime   uint32
	MemoOffset  uint16
}

// NewAttestation builds an attestation from internal-order txid bytes.
func NewAttestation(network Network, txid [32]byte, blockHeight, blockTime uint32, memoOffset uint16) ZcashAttestation {
	return ZcashAttestation{
		Network:     network,
		Txid:        txid,
		BlockHeight: blockHeight,
		BlockTime:   blockTime,
		MemoOffset:  memoOffset,
	}
}

// NewAttestationFromHex builds an attestation from a display-order txid
// hex string, as shown by explorers and stored in proof JSON.
func NewAttestationFromHex(network Network, txidHex string, blockHeight, blockTime uint32, memoOffset uint16) (ZcashAttestation, error) {
	txid, err := txidFromDisplayHex(txidHex)
	if err != nil {
		return ZcashAttestation{}, err
	}
	return NewAttestation(network, txid, blockHeight, blockTime, memoOffset), nil
}

func txidFromDisplayHex(s string) ([32]byte, error) {
	if len(s) != 64 {
		return [32]byte{}, fmt.Errorf("%w: txid must be 64 hex chars, got %d", ErrInvalidProof, len(s))
	}
	if _, err := hex.DecodeString(s); err != nil {
		return [32]byte{}, fmt.Errorf("%w: invalid txid hex: %v", ErrInvalidProof, err)
	}
	h, err := chainhash.NewHashFromStr(s)
	if err != nil {
		return [32]byte{}, fmt.Errorf("%w: invalid txid: %v", ErrInvalidProof, err)
	}
	return [32]byte(*h), nil
}

// TxidBytes returns the txid in internal byte order.
func (a ZcashAttestation) TxidBytes() [32]byte {
	return a.Txid
}

// TxidHex returns the txid as a display-order hex string.
func (a ZcashAttestation) TxidHex() string {
	h := chainhash.Hash(a.Txid)
	return h.String()
}

// Timestamp returns the block time as a UTC time.
func (a ZcashAttestation) Timestamp() time.Time {
	return time.Unix(int64(a.BlockTime), 0).UTC()
}

// ExplorerLink returns the block explorer URL for the attested transaction.
func (a ZcashAttestation) ExplorerLink() string {
	return fmt.Sprintf("%s/tx/%s", a.Network.ExplorerURL(), a.TxidHex())
}

type attestationJSON struct {
	Network     Network `json:"network"`
	Txid        string  `json:"txid"`
	BlockHeight uint32  `json:"block_height"`
	BlockTime   uint32  `json:"block_time"`
	MemoOffset  uint16  `json:"memo_offset"`
}

func (a ZcashAttestation) MarshalJSON() ([]byte, error) {
	return json.Marshal(attestationJSON{
		Network:     a.Network,
		Txid:        a.TxidHex(),
		BlockHeight: a.BlockHeight,
		BlockTime:   a.BlockTime,
		MemoOffset:  a.MemoOffset,
	})
}

func (a *ZcashAttestation) UnmarshalJSON(data []byte) error {
	var aux attestationJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("%w: malformed attestation: %v", ErrInvalidProof, err)
	}
	txid, err := txidFromDisplayHex(aux.Txid)
	if err != nil {
		return err
	}
	*a = ZcashAttestation{
		Network:     aux.Network,
		Txid:        txid,
		BlockHeight: aux.BlockHeight,
		BlockTime:   aux.BlockTime,
		MemoOffset:  aux.MemoOffset,
	}
	return nil
}

// TimestampProof binds a hash to an ordered list of blockchain
// attestations. It is a value type: every consumer works on its own copy
// and no locking is needed across distinct proofs.
type TimestampProof struct {
	Version       uint8              `json:"version"`
	HashAlgorithm HashAlgorithm      `json:"hash_algorithm"`
	Hash          string             `json:"hash"`
	Attestations  []ZcashAttestation `json:"attestations"`
}

// New creates a pending proof (no attestations) for a hash using the
// default SHA-256 algorithm.
func New(hash Hash256) *TimestampProof {
	return NewWithAlgorithm(hash, Sha256)
}

// NewWithAlgorithm creates a pending proof recording the algorithm that
// produced the hash.
func NewWithAlgorithm(hash Hash256, algorithm HashAlgorithm) *TimestampProof {
	return &TimestampProof{
		Version:       ProofVersion,
		HashAlgorithm: algorithm,
		Hash:          hash.Hex(),
		Attestations:  []ZcashAttestation{},
	}
}

// AddAttestation appends an attestation in discovery order. It performs
// no validation against the proof hash: attestations may be recorded
// speculatively while a confirmation is awaited, and the check is
// deferred to verification.
func (p *TimestampProof) AddAttestation(att ZcashAttestation) {
	p.Attestations = append(p.Attestations, att)
}

// IsConfirmed reports whether at least one attestation has been recorded
// locally. It does not imply cryptographic validity.
func (p *TimestampProof) IsConfirmed() bool {
	return len(p.Attestations) > 0
}

// HashBytes decodes the proof hash into its 32-byte form.
func (p *TimestampProof) HashBytes() (Hash256, error) {
	raw, err := hex.DecodeString(p.Hash)
	if err != nil {
		return Hash256{}, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
	if len(raw) != 32 {
		return Hash256{}, fmt.Errorf("%w: hash must be 32 bytes, got %d", ErrInvalidHash, len(raw))
	}
	var h Hash256
	copy(h[:], raw)
	return h, nil
}

// Serialize encodes the proof as pretty-printed JSON with a stable field
// order for readability and diffability.
func (p *TimestampProof) Serialize() ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal proof: %w", err)
	}
	return data, nil
}

// Deserialize parses and validates proof JSON. Only ProofVersion is
// accepted, the hash must decode to exactly 32 bytes, and every
// attestation txid must decode to exactly 32 bytes; any failure is
// reported before a value is returned.
func Deserialize(data []byte) (*TimestampProof, error) {
	var p TimestampProof
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProof, err)
	}
	if p.Version != ProofVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidProof, p.Version)
	}
	if _, err := p.HashBytes(); err != nil {
		return nil, err
	}
	if p.Attestations == nil {
		p.Attestations = []ZcashAttestation{}
	}
	return &p, nil
}

// Save writes the proof JSON to a file. By convention proof files use the
// .zots suffix.
func (p *TimestampProof) Save(path string) error {
	data, err := p.Serialize()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write proof: %w", err)
	}
	return nil
}

// Load reads and validates a proof file.
func Load(path string) (*TimestampProof, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read proof: %w", err)
	}
	return Deserialize(data)
}
