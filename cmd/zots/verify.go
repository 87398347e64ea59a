package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/zopentimestamps/zots/lib/proof"
	"github.com/zopentimestamps/zots/lib/verify"
)

var verifyFile string

func init() {
	verifyCmd.Flags().StringVarP(&verifyFile, "file", "f", "", "Original file or hash to check against the proof")
}

var verifyCmd = &cobra.Command{
	Use:   "verify [proof]",
	Short: "Verify a timestamp proof against the Zcash blockchain",
	Long: `Verify a proof file (or a compact zots1... string) by fetching the
attested transaction and comparing its decrypted memo against the proof
hash. Pass --file to also check that the original data still matches.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		tp, err := loadProofArg(args[0])
		if err != nil {
			exitErr("Error loading proof: %v", err)
		}

		client := newWalletClient()
		result, err := verify.Proof(context.Background(), tp, client, verify.Options{Original: verifyFile})
		if result == nil {
			exitErr("Error verifying proof: %v", err)
		}

		output := struct {
			Status       string `json:"status"`
			Reason       string `json:"reason,omitempty"`
			Hash         string `json:"hash"`
			Algorithm    string `json:"algorithm"`
			HashChecked  bool   `json:"hash_checked"`
			Network      string `json:"network,omitempty"`
			BlockHeight  uint32 `json:"block_height,omitempty"`
			Timestamp    string `json:"timestamp,omitempty"`
			Txid         string `json:"txid,omitempty"`
			ExplorerLink string `json:"explorer_link,omitempty"`
		}{
			Status:       result.Status.String(),
			Reason:       result.Reason,
			Hash:         result.Hash,
			Algorithm:    result.Algorithm.Name(),
			HashChecked:  result.HashChecked,
			Network:      result.Network,
			BlockHeight:  result.BlockHeight,
			Txid:         result.Txid,
			ExplorerLink: result.ExplorerLink,
		}
		if !result.Timestamp.IsZero() {
			output.Timestamp = result.Timestamp.Format("2006-01-02 15:04:05 MST")
		}

		outputJSON(output)

		switch result.Status {
		case verify.StatusValid, verify.StatusPending:
		default:
			os.Exit(1)
		}
	},
}

// loadProofArg accepts a compact string or a proof file path.
func loadProofArg(arg string) (*proof.TimestampProof, error) {
	if proof.IsCompactFormat(arg) {
		return proof.FromCompact(arg)
	}
	return proof.Load(arg)
}
