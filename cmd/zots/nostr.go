package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zopentimestamps/zots/internal/publish"
	"github.com/zopentimestamps/zots/lib/proof"
)

// NostrKeyEnvVar holds the bech32 nsec key used to sign published proofs.
const NostrKeyEnvVar = "ZOTS_NOSTR_NSEC"

var nostrCmd = &cobra.Command{
	Use:   "nostr",
	Short: "Mirror proofs on nostr relays",
}

func init() {
	nostrCmd.AddCommand(nostrPublishCmd)
	nostrCmd.AddCommand(nostrFetchCmd)
}

var nostrPublishCmd = &cobra.Command{
	Use:   "publish [proof]",
	Short: "Publish a confirmed proof to the configured relays",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		tp, err := loadProofArg(args[0])
		if err != nil {
			exitErr("Error loading proof: %v", err)
		}
		if !tp.IsConfirmed() {
			exitErr("Proof has no attestations yet; wait for confirmation before publishing")
		}

		nsec := os.Getenv(NostrKeyEnvVar)
		if nsec == "" {
			exitErr("%s environment variable not set", NostrKeyEnvVar)
		}

		publisher, err := publish.NewPublisher(nsec, viper.GetStringSlice("nostr_relays"))
		if err != nil {
			exitErr("Error: %v", err)
		}

		result, err := publisher.Publish(context.Background(), tp)
		if err != nil {
			exitErr("Error publishing proof: %v", err)
		}
		outputJSON(result)
	},
}

var nostrFetchOutput string

func init() {
	nostrFetchCmd.Flags().StringVarP(&nostrFetchOutput, "output", "o", "", "Write the fetched proof to a file")
}

var nostrFetchCmd = &cobra.Command{
	Use:   "fetch [hash]",
	Short: "Fetch a published proof by its hash",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		hash, err := proof.HashFromHexDefault(args[0])
		if err != nil {
			exitErr("Error: %v", err)
		}

		tp, err := publish.Fetch(context.Background(), hash.Hex(), viper.GetStringSlice("nostr_relays"))
		if err != nil {
			exitErr("Error fetching proof: %v", err)
		}

		if nostrFetchOutput != "" {
			if err := tp.Save(nostrFetchOutput); err != nil {
				exitErr("Error writing proof file: %v", err)
			}
		}

		data, err := tp.Serialize()
		if err != nil {
			exitErr("Error serializing proof: %v", err)
		}
		os.Stdout.Write(append(data, '\n'))
	},
}
