package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/zopentimestamps/zots/internal/config"
	"github.com/zopentimestamps/zots/internal/wallet"
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Interact with the timestamping wallet daemon",
}

func init() {
	walletCmd.AddCommand(walletBalanceCmd)
	walletCmd.AddCommand(walletSyncCmd)
	walletCmd.AddCommand(walletBackupSeedCmd)
	walletCmd.AddCommand(walletShowSeedCmd)
}

var walletBalanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the shielded balance available for stamping",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		client := newWalletClient()
		balance, err := client.Balance(context.Background())
		if err != nil {
			exitErr("Error getting balance: %v", err)
		}
		outputJSON(balance)
	},
}

var walletSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Trigger a chain sync and report the wallet height",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		client := newWalletClient()
		status, err := client.Sync(context.Background())
		if err != nil {
			exitErr("Error syncing wallet: %v", err)
		}
		outputJSON(status)
	},
}

var walletBackupSeedCmd = &cobra.Command{
	Use:   "backup-seed",
	Short: "Encrypt the seed phrase from " + config.SeedEnvVar + " to disk",
	Long: `Validate the seed phrase in ` + config.SeedEnvVar + ` and store it
password-encrypted under the data directory so the environment variable
does not have to be kept around.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		phrase, err := config.SeedPhrase()
		if err != nil {
			exitErr("Error: %v", err)
		}

		password, err := promptPassword("Encryption password: ")
		if err != nil {
			exitErr("Error reading password: %v", err)
		}

		dataDir, err := config.EnsureDataDir()
		if err != nil {
			exitErr("Error: %v", err)
		}

		path := filepath.Join(dataDir, "seed.enc")
		if err := wallet.SaveEncryptedSeed(path, phrase, password); err != nil {
			exitErr("Error saving encrypted seed: %v", err)
		}
		fmt.Println("Encrypted seed written to", path)
	},
}

var walletShowSeedCmd = &cobra.Command{
	Use:   "show-seed",
	Short: "Decrypt and print the backed up seed phrase",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		password, err := promptPassword("Encryption password: ")
		if err != nil {
			exitErr("Error reading password: %v", err)
		}

		dataDir, err := config.EnsureDataDir()
		if err != nil {
			exitErr("Error: %v", err)
		}

		phrase, err := wallet.LoadEncryptedSeed(filepath.Join(dataDir, "seed.enc"), password)
		if err != nil {
			exitErr("Error: %v", err)
		}
		fmt.Println(phrase)
	},
}

func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(password), nil
}
