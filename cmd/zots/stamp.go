package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zopentimestamps/zots/internal/config"
	historydb "github.com/zopentimestamps/zots/internal/database"
	"github.com/zopentimestamps/zots/internal/logger"
	"github.com/zopentimestamps/zots/lib/proof"
)

var (
	stampHash   string
	stampAlgo   string
	stampOutput string
	stampNoWait bool
)

func init() {
	stampCmd.Flags().StringVar(&stampHash, "hash", "", "Timestamp a precomputed hash instead of a file")
	stampCmd.Flags().StringVar(&stampAlgo, "algo", "", "Hash algorithm: sha256 or blake3 (default from config)")
	stampCmd.Flags().StringVarP(&stampOutput, "output", "o", "", "Proof output path")
	stampCmd.Flags().BoolVar(&stampNoWait, "no-wait", false, "Broadcast and exit without waiting for confirmation")
}

var stampCmd = &cobra.Command{
	Use:   "stamp [file]",
	Short: "Timestamp a file or hash on the Zcash blockchain",
	Long: `Hash the given file (or take a hash directly with --hash), embed it
in a shielded transaction memo and write a proof file once the
transaction is known.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 && stampHash == "" {
			exitErr("Provide a file to stamp or --hash")
		}
		if len(args) == 1 && stampHash != "" {
			exitErr("Provide either a file or --hash, not both")
		}

		algorithm, err := config.HashAlgorithm()
		if err != nil {
			exitErr("Error reading configured algorithm: %v", err)
		}
		if stampAlgo != "" {
			algorithm, err = proof.ParseHashAlgorithm(stampAlgo)
			if err != nil {
				exitErr("Error: %v", err)
			}
		}

		var hash proof.Hash256
		var filePath string
		if stampHash != "" {
			hash, err = proof.HashFromHex(stampHash, algorithm)
		} else {
			filePath = args[0]
			hash, err = proof.HashFile(filePath, algorithm)
		}
		if err != nil {
			exitErr("Error hashing input: %v", err)
		}

		network, err := config.Network()
		if err != nil {
			exitErr("Error reading configured network: %v", err)
		}

		openHistoryDB()

		client := newWalletClient()
		ctx := context.Background()

		tx, err := client.CreateMemoTransaction(ctx, hash)
		if err != nil {
			exitErr("Error creating transaction: %v", err)
		}
		logger.Infof("Broadcast stamp transaction %s for hash %s", tx.Txid, hash.Hex())

		tp := proof.NewWithAlgorithm(hash, algorithm)
		status := "pending"

		outputPath := stampOutput
		if outputPath == "" {
			outputPath = defaultProofPath(filePath, hash)
		}

		record := &historydb.StampRecord{
			Hash:      hash.Hex(),
			Algorithm: algorithm.Name(),
			FilePath:  filePath,
			ProofPath: outputPath,
			Network:   network.Name(),
			Txid:      tx.Txid,
		}
		if err := historydb.SaveStamp(record); err != nil {
			logger.Errorf("Failed to record stamp: %v", err)
		}

		if !stampNoWait {
			fmt.Println("Waiting for confirmation...")
			confirmation, err := client.WaitConfirmation(ctx, tx.Txid, viper.GetInt("confirmation_attempts"))
			if err != nil {
				exitErr("Error waiting for confirmation: %v\nThe transaction is broadcast; stamp again later with --hash to retry, or keep the txid %s", err, tx.Txid)
			}

			txid, err := tx.TxidBytes()
			if err != nil {
				exitErr("Error: %v", err)
			}
			tp.AddAttestation(proof.NewAttestation(network, txid,
				confirmation.BlockHeight, confirmation.BlockTime, 0))
			status = "confirmed"

			if err := historydb.MarkConfirmed(hash.Hex(), tx.Txid,
				confirmation.BlockHeight, confirmation.BlockTime); err != nil {
				logger.Errorf("Failed to mark stamp confirmed: %v", err)
			}
		}

		if err := tp.Save(outputPath); err != nil {
			exitErr("Error writing proof file: %v", err)
		}

		result := struct {
			Hash      string `json:"hash"`
			Algorithm string `json:"algorithm"`
			Txid      string `json:"txid"`
			Status    string `json:"status"`
			ProofPath string `json:"proof_path"`
			Compact   string `json:"compact,omitempty"`
		}{
			Hash:      hash.Hex(),
			Algorithm: algorithm.Name(),
			Txid:      tx.Txid,
			Status:    status,
			ProofPath: outputPath,
		}
		if compact, err := tp.ToCompact(); err == nil {
			result.Compact = compact
		}

		outputJSON(result)
	},
}

func defaultProofPath(filePath string, hash proof.Hash256) string {
	if filePath != "" {
		return filePath + ".zots"
	}
	return filepath.Join(".", hash.Hex()[:16]+".zots")
}
