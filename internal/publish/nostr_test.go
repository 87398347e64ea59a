package publish

import (
	"testing"

	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip19"

	"github.com/zopentimestamps/zots/lib/proof"
)

func testPublisher(t *testing.T) *Publisher {
	t.Helper()

	sk := nostr.GeneratePrivateKey()
	nsec, err := nip19.EncodePrivateKey(sk)
	if err != nil {
		t.Fatalf("failed to encode test key: %v", err)
	}

	p, err := NewPublisher(nsec, []string{"wss://relay.example.com"})
	if err != nil {
		t.Fatalf("NewPublisher failed: %v", err)
	}
	return p
}

func TestNewPublisherRejectsNonSecretKeys(t *testing.T) {
	// An npub is a public key, not something we can sign with.
	sk := nostr.GeneratePrivateKey()
	pk, err := nostr.GetPublicKey(sk)
	if err != nil {
		t.Fatal(err)
	}
	npub, err := nip19.EncodePublicKey(pk)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := NewPublisher(npub, []string{"wss://relay.example.com"}); err == nil {
		t.Fatal("npub must be rejected")
	}
	if _, err := NewPublisher("not a key", []string{"wss://relay.example.com"}); err == nil {
		t.Fatal("garbage must be rejected")
	}
}

func TestBuildEvent(t *testing.T) {
	hash := proof.Sha256.HashBytes([]byte("publish me"))
	tp := proof.New(hash)
	tp.AddAttestation(proof.NewAttestation(proof.Testnet, [32]byte{0xCD}, 3721456, 1734567890, 8))

	p := testPublisher(t)
	event, err := p.BuildEvent(tp)
	if err != nil {
		t.Fatalf("BuildEvent failed: %v", err)
	}

	if event.Kind != KindTimestampProof {
		t.Errorf("kind = %d, want %d", event.Kind, KindTimestampProof)
	}
	if d := event.Tags.GetD(); d != tp.Hash {
		t.Errorf("d tag = %q, want the proof hash", d)
	}

	ok, err := event.CheckSignature()
	if err != nil || !ok {
		t.Fatalf("event signature invalid: ok=%v err=%v", ok, err)
	}

	// The content is the compact proof and must decode back.
	decoded, err := proof.FromCompact(event.Content)
	if err != nil {
		t.Fatalf("content is not a valid compact proof: %v", err)
	}
	if decoded.Hash != tp.Hash {
		t.Errorf("decoded hash %q does not match", decoded.Hash)
	}
}
