package wallet

import "encoding/json"

// Command is one request to the walletd socket. The ID ties the response
// back to the request; walletd closes the connection after answering.
type Command struct {
	ID      int      `json:"id"`
	Command string   `json:"command"`
	Args    []string `json:"args"`
}

type Response struct {
	ID     int             `json:"id"`
	Error  string          `json:"error,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
}

// TxResult is walletd's answer to a stamp command.
type TxResult struct {
	Txid string `json:"txid"`
}

// TxStatus is walletd's answer to a status command.
type TxStatus struct {
	Confirmed   bool   `json:"confirmed"`
	BlockHeight uint32 `json:"block_height"`
	BlockTime   uint32 `json:"block_time"`
}

// MemoResult is walletd's answer to a memo command. Memo holds the raw
// decrypted memo bytes hex encoded, empty when the transaction carries none.
type MemoResult struct {
	Found       bool   `json:"found"`
	Memo        string `json:"memo,omitempty"`
	BlockHeight uint32 `json:"block_height,omitempty"`
	BlockTime   uint32 `json:"block_time,omitempty"`
}

type BalanceResult struct {
	Total     uint64 `json:"total"`
	Spendable uint64 `json:"spendable"`
}

type SyncResult struct {
	Height uint32 `json:"height"`
	Synced bool   `json:"synced"`
}
