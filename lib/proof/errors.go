package proof

import "errors"

// Sentinel errors for proof operations. Callers match them with errors.Is;
// wrapped messages carry the specific reason.
var (
	// ErrInvalidProof indicates a malformed proof: bad JSON or compact
	// structure, an unsupported version, or a malformed attestation.
	ErrInvalidProof = errors.New("invalid proof format")

	// ErrInvalidHash indicates a hash string of the wrong length or with
	// non-hex content.
	ErrInvalidHash = errors.New("invalid hash format")

	// ErrHashMismatch indicates that a recomputed hash does not equal the
	// hash recorded in a proof.
	ErrHashMismatch = errors.New("hash mismatch")

	// ErrNotConfirmed indicates a proof with zero attestations where a
	// confirmation was required.
	ErrNotConfirmed = errors.New("proof not yet confirmed")

	// ErrTxNotFound indicates the attested transaction could not be found
	// on chain.
	ErrTxNotFound = errors.New("transaction not found")

	// ErrNetwork indicates a transport failure in the wallet collaborator.
	ErrNetwork = errors.New("network error")
)
