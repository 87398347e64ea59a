package wallet

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/zopentimestamps/zots/lib/memo"
	"github.com/zopentimestamps/zots/lib/proof"
	"github.com/zopentimestamps/zots/lib/verify"
)

const confirmationPollInterval = 15 * time.Second

var commandID int

func generateCommandID() int {
	commandID++
	return commandID
}

// Client talks JSON over the walletd unix socket. walletd answers one
// command per connection and closes it, so every call dials fresh.
type Client struct {
	socketPath string
}

func NewClient(socketPath string) *Client {
	return &Client{socketPath: socketPath}
}

func (c *Client) SendCommand(ctx context.Context, command string, args []string) (json.RawMessage, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect to walletd: %v", proof.ErrNetwork, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	cmd := Command{
		ID:      generateCommandID(),
		Command: command,
		Args:    args,
	}

	cmdData, err := json.Marshal(cmd)
	if err != nil {
		return nil, fmt.Errorf("error marshaling command: %v", err)
	}

	_, err = conn.Write(cmdData)
	if err != nil {
		return nil, fmt.Errorf("%w: error writing command: %v", proof.ErrNetwork, err)
	}

	// walletd closes the connection after the response, so read to EOF.
	responseData, err := io.ReadAll(conn)
	if err != nil {
		return nil, fmt.Errorf("%w: error reading response: %v", proof.ErrNetwork, err)
	}

	var response Response
	err = json.Unmarshal(responseData, &response)
	if err != nil {
		return nil, fmt.Errorf("error unmarshaling response: %v", err)
	}

	if response.Error != "" {
		return nil, fmt.Errorf("walletd: %s", response.Error)
	}

	return response.Result, nil
}

// CreateMemoTransaction asks walletd to broadcast a shielded transaction
// whose memo embeds the given hash.
func (c *Client) CreateMemoTransaction(ctx context.Context, hash proof.Hash256) (*TxResult, error) {
	result, err := c.SendCommand(ctx, "stamp", []string{hash.Hex()})
	if err != nil {
		return nil, err
	}

	var tx TxResult
	if err := json.Unmarshal(result, &tx); err != nil {
		return nil, fmt.Errorf("invalid stamp result: %v", err)
	}
	if _, err := txidBytes(tx.Txid); err != nil {
		return nil, err
	}
	return &tx, nil
}

// WaitConfirmation polls walletd until the transaction is mined or
// maxAttempts polls have passed.
func (c *Client) WaitConfirmation(ctx context.Context, txid string, maxAttempts int) (*TxStatus, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		result, err := c.SendCommand(ctx, "status", []string{txid})
		if err != nil {
			return nil, err
		}

		var status TxStatus
		if err := json.Unmarshal(result, &status); err != nil {
			return nil, fmt.Errorf("invalid status result: %v", err)
		}
		if status.Confirmed {
			return &status, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(confirmationPollInterval):
		}
	}

	return nil, fmt.Errorf("%w: transaction %s not mined after %d polls", proof.ErrNotConfirmed, txid, maxAttempts)
}

// FetchAndDecryptMemo asks walletd for the decrypted memo of txid and
// compares its embedded hash against expected. It satisfies
// verify.MemoSource.
func (c *Client) FetchAndDecryptMemo(ctx context.Context, txid [32]byte, expected proof.Hash256, knownBlockHeight uint32) (verify.MemoCheck, error) {
	displayTxid := chainhash.Hash(txid).String()
	args := []string{displayTxid, fmt.Sprintf("%d", knownBlockHeight)}

	result, err := c.SendCommand(ctx, "memo", args)
	if err != nil {
		return verify.MemoCheck{}, err
	}

	var memoResult MemoResult
	if err := json.Unmarshal(result, &memoResult); err != nil {
		return verify.MemoCheck{}, fmt.Errorf("invalid memo result: %v", err)
	}

	if !memoResult.Found {
		return verify.MemoCheck{TxFound: false, Reason: "transaction not found on chain"}, nil
	}

	memoData, err := hex.DecodeString(memoResult.Memo)
	if err != nil {
		return verify.MemoCheck{}, fmt.Errorf("invalid memo hex from walletd: %v", err)
	}

	embedded, ok := memo.ParseTimestampMemo(memoData)
	if !ok {
		return verify.MemoCheck{
			TxFound: true,
			Valid:   false,
			Reason:  "transaction memo does not carry a timestamp",
		}, nil
	}

	check := verify.MemoCheck{
		TxFound:  true,
		Valid:    embedded == expected,
		MemoHash: &embedded,
	}
	if !check.Valid {
		check.Reason = "memo hash does not match proof hash"
	}
	return check, nil
}

func (c *Client) Balance(ctx context.Context) (*BalanceResult, error) {
	result, err := c.SendCommand(ctx, "balance", nil)
	if err != nil {
		return nil, err
	}

	var balance BalanceResult
	if err := json.Unmarshal(result, &balance); err != nil {
		return nil, fmt.Errorf("invalid balance result: %v", err)
	}
	return &balance, nil
}

func (c *Client) Sync(ctx context.Context) (*SyncResult, error) {
	result, err := c.SendCommand(ctx, "sync", nil)
	if err != nil {
		return nil, err
	}

	var sync SyncResult
	if err := json.Unmarshal(result, &sync); err != nil {
		return nil, fmt.Errorf("invalid sync result: %v", err)
	}
	return &sync, nil
}

func txidBytes(displayHex string) ([32]byte, error) {
	var out [32]byte
	if len(displayHex) != 64 {
		return out, fmt.Errorf("walletd returned malformed txid %q", displayHex)
	}
	h, err := chainhash.NewHashFromStr(displayHex)
	if err != nil {
		return out, fmt.Errorf("walletd returned malformed txid %q: %v", displayHex, err)
	}
	copy(out[:], h[:])
	return out, nil
}

// TxidBytes converts walletd's display-order txid hex into internal byte order.
func (t *TxResult) TxidBytes() ([32]byte, error) {
	return txidBytes(t.Txid)
}
