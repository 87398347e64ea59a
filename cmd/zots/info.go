package main

import (
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [proof]",
	Short: "Show the contents of a timestamp proof",
	Long:  `Print the attestations in a proof file or compact string without touching the network.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		tp, err := loadProofArg(args[0])
		if err != nil {
			exitErr("Error loading proof: %v", err)
		}

		type attestationInfo struct {
			Network      string `json:"network"`
			Txid         string `json:"txid"`
			BlockHeight  uint32 `json:"block_height"`
			Timestamp    string `json:"timestamp"`
			ExplorerLink string `json:"explorer_link"`
		}

		output := struct {
			Hash         string            `json:"hash"`
			Algorithm    string            `json:"algorithm"`
			Confirmed    bool              `json:"confirmed"`
			Attestations []attestationInfo `json:"attestations"`
		}{
			Hash:         tp.Hash,
			Algorithm:    tp.HashAlgorithm.Name(),
			Confirmed:    tp.IsConfirmed(),
			Attestations: []attestationInfo{},
		}

		for _, att := range tp.Attestations {
			output.Attestations = append(output.Attestations, attestationInfo{
				Network:      att.Network.Name(),
				Txid:         att.TxidHex(),
				BlockHeight:  att.BlockHeight,
				Timestamp:    att.Timestamp().Format("2006-01-02 15:04:05 MST"),
				ExplorerLink: att.ExplorerLink(),
			})
		}

		outputJSON(output)
	},
}
