// Package verify implements the verification state machine that ties a
// locally held timestamp proof to its on-chain attestation.
//
// The flow is: load proof -> optional local hash recompute against the
// original data -> check attestations -> fetch and decrypt the attested
// transaction's memos via the external wallet collaborator -> compare the
// extracted memo hash to the proof hash. Locally detectable failures stop
// the machine before any chain call is made.
package verify

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/zopentimestamps/zots/lib/proof"
)

// Status classifies the outcome of a verification run. Callers are
// expected to render each status distinctly; the reasons are deliberately
// not collapsed into one generic failure.
type Status int

const (
	// StatusValid: the decrypted on-chain memo hash equals the proof hash.
	StatusValid Status = iota
	// StatusPending: the proof has no attestations yet. A normal
	// intermediate state, not a failure.
	StatusPending
	// StatusHashMismatch: the supplied original data does not hash to the
	// proof hash. On-chain checks are never attempted in this case.
	StatusHashMismatch
	// StatusTxNotFound: the attested transaction does not exist on chain.
	StatusTxNotFound
	// StatusMemoMismatch: the transaction was found and decrypted but no
	// memo carries the proof hash.
	StatusMemoMismatch
	// StatusError: the wallet collaborator failed (transport, decryption
	// machinery); the underlying error is preserved.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusPending:
		return "pending"
	case StatusHashMismatch:
		return "hash mismatch"
	case StatusTxNotFound:
		return "transaction not found"
	case StatusMemoMismatch:
		return "memo hash does not match"
	default:
		return "error"
	}
}

// MemoCheck is the wallet collaborator's report for one transaction
// lookup. TxFound and MemoHash are kept separate so "no such transaction"
// stays distinguishable from "decrypted but no matching memo".
type MemoCheck struct {
	TxFound  bool
	Valid    bool
	MemoHash *proof.Hash256
	Reason   string
}

// MemoSource is the slice of the external wallet capability the state
// machine needs: fetch the raw transaction for a txid and decrypt its
// memo outputs. Implementations may suspend for network I/O; the core
// adds no retries and no timeouts around the call.
type MemoSource interface {
	FetchAndDecryptMemo(ctx context.Context, txid [32]byte, expected proof.Hash256, knownBlockHeight uint32) (MemoCheck, error)
}

// Options configures a verification run.
type Options struct {
	// Original is the data the proof is checked against: a path to the
	// original file, or a 40/64-char hex identifier. Empty skips the
	// local recompute step.
	Original string
}

// Result is the classified outcome of a verification run, carrying the
// canonical attestation's metadata for display.
type Result struct {
	Status    Status
	Reason    string
	Hash      string
	Algorithm proof.HashAlgorithm

	// HashChecked is true when an original file/hash was supplied and
	// recomputed locally.
	HashChecked bool

	Network      string
	BlockHeight  uint32
	Timestamp    time.Time
	Txid         string
	ExplorerLink string
}

// Proof runs the verification state machine for p. Classified outcomes
// (pending, mismatch, not found) are reported in the Result with a nil
// error; the error return is reserved for malformed proofs, unreadable
// original files, and wallet collaborator failures.
func Proof(ctx context.Context, p *proof.TimestampProof, source MemoSource, opts Options) (*Result, error) {
	hash, err := p.HashBytes()
	if err != nil {
		return nil, err
	}

	res := &Result{
		Status:    StatusValid,
		Hash:      p.Hash,
		Algorithm: p.HashAlgorithm,
	}

	// Recompute with the proof's own recorded algorithm, never a guessed
	// one. A mismatch means the proof does not refer to the supplied
	// data, so on-chain state is irrelevant.
	if opts.Original != "" {
		recomputed, err := recompute(opts.Original, p.HashAlgorithm)
		if err != nil {
			return nil, err
		}
		res.HashChecked = true
		if recomputed != hash {
			res.Status = StatusHashMismatch
			res.Reason = fmt.Sprintf("expected %s, got %s", hash.Hex(), recomputed.Hex())
			return res, nil
		}
	}

	if !p.IsConfirmed() {
		res.Status = StatusPending
		res.Reason = "no attestations recorded"
		return res, nil
	}

	// First attestation is canonical; the rest are retained but not
	// specially processed.
	att := p.Attestations[0]
	res.Network = att.Network.Name()
	res.BlockHeight = att.BlockHeight
	res.Timestamp = att.Timestamp()
	res.Txid = att.TxidHex()
	res.ExplorerLink = att.ExplorerLink()

	if source == nil {
		return nil, errors.New("verify: nil memo source")
	}

	check, err := source.FetchAndDecryptMemo(ctx, att.Txid, hash, att.BlockHeight)
	if err != nil {
		res.Status = StatusError
		res.Reason = err.Error()
		return res, fmt.Errorf("%w: %v", proof.ErrNetwork, err)
	}

	if !check.TxFound {
		res.Status = StatusTxNotFound
		res.Reason = reasonOr(check.Reason, "transaction not found on chain")
		return res, nil
	}

	// The collaborator's verdict is advisory; validity is decided here by
	// comparing the extracted memo hash bit-for-bit against the proof
	// hash. Metadata alone never suffices.
	if check.MemoHash == nil || *check.MemoHash != hash {
		res.Status = StatusMemoMismatch
		res.Reason = reasonOr(check.Reason, "no decrypted memo carries the proof hash")
		return res, nil
	}

	res.Status = StatusValid
	return res, nil
}

// recompute hashes the original input: an existing file path is streamed,
// anything else is treated as a hex identifier.
func recompute(original string, algorithm proof.HashAlgorithm) (proof.Hash256, error) {
	if _, err := os.Stat(original); err == nil {
		return proof.HashFile(original, algorithm)
	}
	return proof.HashFromHex(original, algorithm)
}

func reasonOr(reason, fallback string) string {
	if reason != "" {
		return reason
	}
	return fallback
}
