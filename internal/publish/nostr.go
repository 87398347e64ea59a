package publish

import (
	"context"
	"fmt"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip19"

	"github.com/zopentimestamps/zots/internal/logger"
	"github.com/zopentimestamps/zots/lib/proof"
)

// KindTimestampProof is the parameterized replaceable event kind
// (NIP-78 application data) used for published proofs.
const KindTimestampProof = 30078

// PublishResult reports where a proof landed.
type PublishResult struct {
	EventID   string   `json:"event_id"`
	Npub      string   `json:"npub"`
	Relays    []string `json:"relays"`
	FailedAt  []string `json:"failed_relays,omitempty"`
	Published int      `json:"published"`
}

// Publisher mirrors proofs to nostr relays so anyone holding the hash can
// retrieve the attestation without the original proof file.
type Publisher struct {
	secretKey string
	publicKey string
	relays    []string
}

// NewPublisher decodes a bech32 nsec secret key and prepares a publisher
// for the given relay set.
func NewPublisher(nsec string, relays []string) (*Publisher, error) {
	if len(relays) == 0 {
		return nil, fmt.Errorf("no relays configured")
	}

	prefix, value, err := nip19.Decode(nsec)
	if err != nil {
		return nil, fmt.Errorf("invalid nostr secret key: %v", err)
	}
	if prefix != "nsec" {
		return nil, fmt.Errorf("expected an nsec key, got %s", prefix)
	}
	secretKey := value.(string)

	publicKey, err := nostr.GetPublicKey(secretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to derive public key: %v", err)
	}

	return &Publisher{
		secretKey: secretKey,
		publicKey: publicKey,
		relays:    relays,
	}, nil
}

// BuildEvent wraps a proof in a signed kind 30078 event. The "d" tag is
// the proof hash, so republishing the same hash replaces the old event.
func (p *Publisher) BuildEvent(tp *proof.TimestampProof) (*nostr.Event, error) {
	compact, err := tp.ToCompact()
	if err != nil {
		return nil, err
	}

	event := &nostr.Event{
		PubKey:    p.publicKey,
		CreatedAt: nostr.Timestamp(time.Now().Unix()),
		Kind:      KindTimestampProof,
		Tags: nostr.Tags{
			nostr.Tag{"d", tp.Hash},
			nostr.Tag{"zots-proof", compact},
			nostr.Tag{"zots-algo", tp.HashAlgorithm.Name()},
		},
		Content: compact,
	}

	if err := event.Sign(p.secretKey); err != nil {
		return nil, fmt.Errorf("failed to sign event: %v", err)
	}
	return event, nil
}

// Publish signs and sends the proof to every configured relay. It succeeds
// if at least one relay accepts the event.
func (p *Publisher) Publish(ctx context.Context, tp *proof.TimestampProof) (*PublishResult, error) {
	event, err := p.BuildEvent(tp)
	if err != nil {
		return nil, err
	}

	npub, err := nip19.EncodePublicKey(p.publicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to encode public key: %v", err)
	}

	result := &PublishResult{
		EventID: event.ID,
		Npub:    npub,
	}

	for _, url := range p.relays {
		relay, err := nostr.RelayConnect(ctx, url)
		if err != nil {
			logger.Errorf("Failed to connect to relay %s: %v", url, err)
			result.FailedAt = append(result.FailedAt, url)
			continue
		}

		if err := relay.Publish(ctx, *event); err != nil {
			logger.Errorf("Relay %s rejected event: %v", url, err)
			result.FailedAt = append(result.FailedAt, url)
		} else {
			result.Relays = append(result.Relays, url)
			result.Published++
		}
		relay.Close()
	}

	if result.Published == 0 {
		return nil, fmt.Errorf("%w: no relay accepted the event", proof.ErrNetwork)
	}
	return result, nil
}

// Fetch looks up a previously published proof by its hash on the
// configured relays and returns the first one found.
func Fetch(ctx context.Context, hash string, relays []string) (*proof.TimestampProof, error) {
	filter := nostr.Filter{
		Kinds: []int{KindTimestampProof},
		Tags:  nostr.TagMap{"d": []string{hash}},
		Limit: 1,
	}

	for _, url := range relays {
		relay, err := nostr.RelayConnect(ctx, url)
		if err != nil {
			logger.Errorf("Failed to connect to relay %s: %v", url, err)
			continue
		}

		events, err := relay.QuerySync(ctx, filter)
		relay.Close()
		if err != nil {
			logger.Errorf("Query on relay %s failed: %v", url, err)
			continue
		}

		for _, event := range events {
			tp, err := proof.FromCompact(event.Content)
			if err != nil {
				continue
			}
			if tp.Hash == hash {
				return tp, nil
			}
		}
	}

	return nil, fmt.Errorf("%w: no proof for hash %s found on any relay", proof.ErrNetwork, hash)
}
