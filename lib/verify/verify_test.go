package verify

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/zopentimestamps/zots/lib/proof"
)

// fakeSource scripts the wallet collaborator's answer and records whether
// it was consulted at all.
type fakeSource struct {
	check  MemoCheck
	err    error
	calls  int
	gotTx  [32]byte
	gotExp proof.Hash256
}

func (f *fakeSource) FetchAndDecryptMemo(_ context.Context, txid [32]byte, expected proof.Hash256, _ uint32) (MemoCheck, error) {
	f.calls++
	f.gotTx = txid
	f.gotExp = expected
	return f.check, f.err
}

func fillHash(b byte) proof.Hash256 {
	var h proof.Hash256
	for i := range h {
		h[i] = b
	}
	return h
}

func confirmedProof(hash proof.Hash256) *proof.TimestampProof {
	p := proof.New(hash)
	p.AddAttestation(proof.NewAttestation(proof.Testnet, fillHash(0xCD), 3721456, 1734567890, 8))
	return p
}

func TestVerifyValid(t *testing.T) {
	hash := proof.Sha256.HashBytes([]byte("hello world"))
	p := confirmedProof(hash)
	src := &fakeSource{check: MemoCheck{TxFound: true, Valid: true, MemoHash: &hash}}

	res, err := Proof(context.Background(), p, src, Options{})
	if err != nil {
		t.Fatalf("Proof failed: %v", err)
	}
	if res.Status != StatusValid {
		t.Errorf("Status = %v, want valid", res.Status)
	}
	if src.gotTx != fillHash(0xCD) || src.gotExp != hash {
		t.Error("wallet collaborator called with wrong txid or expected hash")
	}
	if res.Network != "testnet" || res.BlockHeight != 3721456 {
		t.Errorf("attestation metadata not carried: %+v", res)
	}
}

func TestVerifyPending(t *testing.T) {
	// A proof without attestations is a normal intermediate state.
	src := &fakeSource{}
	res, err := Proof(context.Background(), proof.New(fillHash(0x01)), src, Options{})
	if err != nil {
		t.Fatalf("Proof failed: %v", err)
	}
	if res.Status != StatusPending {
		t.Errorf("Status = %v, want pending", res.Status)
	}
	if src.calls != 0 {
		t.Error("pending proof must not trigger a chain lookup")
	}
}

func TestVerifyHashMismatchStopsEarly(t *testing.T) {
	hash := proof.Sha256.HashBytes([]byte("hello world"))
	p := confirmedProof(hash)

	path := filepath.Join(t.TempDir(), "tampered.txt")
	if err := os.WriteFile(path, []byte("goodbye world"), 0644); err != nil {
		t.Fatal(err)
	}

	src := &fakeSource{check: MemoCheck{TxFound: true, Valid: true, MemoHash: &hash}}
	res, err := Proof(context.Background(), p, src, Options{Original: path})
	if err != nil {
		t.Fatalf("Proof failed: %v", err)
	}
	if res.Status != StatusHashMismatch {
		t.Errorf("Status = %v, want hash mismatch", res.Status)
	}
	if src.calls != 0 {
		t.Error("hash mismatch must stop the machine before any chain call")
	}
	if !res.HashChecked {
		t.Error("HashChecked should be set when an original was supplied")
	}
}

func TestVerifyMatchingFileProceeds(t *testing.T) {
	content := []byte("hello world")
	hash := proof.Sha256.HashBytes(content)
	p := confirmedProof(hash)

	path := filepath.Join(t.TempDir(), "original.txt")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	src := &fakeSource{check: MemoCheck{TxFound: true, Valid: true, MemoHash: &hash}}
	res, err := Proof(context.Background(), p, src, Options{Original: path})
	if err != nil {
		t.Fatalf("Proof failed: %v", err)
	}
	if res.Status != StatusValid {
		t.Errorf("Status = %v, want valid", res.Status)
	}
	if src.calls != 1 {
		t.Errorf("collaborator calls = %d, want 1", src.calls)
	}
}

func TestVerifyHexOriginal(t *testing.T) {
	hash := proof.Sha256.HashBytes([]byte("hello world"))
	p := confirmedProof(hash)

	src := &fakeSource{check: MemoCheck{TxFound: true, Valid: true, MemoHash: &hash}}
	res, err := Proof(context.Background(), p, src, Options{Original: hash.Hex()})
	if err != nil {
		t.Fatalf("Proof failed: %v", err)
	}
	if res.Status != StatusValid {
		t.Errorf("Status = %v, want valid", res.Status)
	}
}

func TestVerifyTxNotFound(t *testing.T) {
	hash := fillHash(0x02)
	p := confirmedProof(hash)
	src := &fakeSource{check: MemoCheck{TxFound: false}}

	res, err := Proof(context.Background(), p, src, Options{})
	if err != nil {
		t.Fatalf("Proof failed: %v", err)
	}
	// "not found" stays distinguishable from "pending" and from a memo
	// mismatch.
	if res.Status != StatusTxNotFound {
		t.Errorf("Status = %v, want transaction not found", res.Status)
	}
}

func TestVerifyMemoMismatch(t *testing.T) {
	hash := fillHash(0x03)
	other := fillHash(0x04)
	p := confirmedProof(hash)
	src := &fakeSource{check: MemoCheck{TxFound: true, MemoHash: &other, Reason: "no memo matched"}}

	res, err := Proof(context.Background(), p, src, Options{})
	if err != nil {
		t.Fatalf("Proof failed: %v", err)
	}
	if res.Status != StatusMemoMismatch {
		t.Errorf("Status = %v, want memo mismatch", res.Status)
	}
	if res.Reason != "no memo matched" {
		t.Errorf("Reason = %q, collaborator reason should pass through", res.Reason)
	}
}

func TestVerifyCollaboratorVerdictNotTrusted(t *testing.T) {
	// Even when the collaborator claims valid, the local bit-for-bit
	// comparison decides.
	hash := fillHash(0x05)
	other := fillHash(0x06)
	p := confirmedProof(hash)
	src := &fakeSource{check: MemoCheck{TxFound: true, Valid: true, MemoHash: &other}}

	res, err := Proof(context.Background(), p, src, Options{})
	if err != nil {
		t.Fatalf("Proof failed: %v", err)
	}
	if res.Status != StatusMemoMismatch {
		t.Errorf("Status = %v, want memo mismatch", res.Status)
	}
}

func TestVerifyTransportError(t *testing.T) {
	p := confirmedProof(fillHash(0x07))
	src := &fakeSource{err: errors.New("lightwalletd unreachable")}

	res, err := Proof(context.Background(), p, src, Options{})
	if !errors.Is(err, proof.ErrNetwork) {
		t.Errorf("error = %v, want ErrNetwork", err)
	}
	if res == nil || res.Status != StatusError {
		t.Errorf("result = %+v, want status error", res)
	}
	if res != nil && res.Reason != "lightwalletd unreachable" {
		t.Errorf("Reason = %q, collaborator message must pass through intact", res.Reason)
	}
}
