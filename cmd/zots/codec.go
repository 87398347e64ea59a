package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zopentimestamps/zots/lib/proof"
)

var encodeCmd = &cobra.Command{
	Use:   "encode [proof-file]",
	Short: "Encode a proof file as a compact zots1... string",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		tp, err := proof.Load(args[0])
		if err != nil {
			exitErr("Error loading proof: %v", err)
		}

		compact, err := tp.ToCompact()
		if err != nil {
			exitErr("Error encoding proof: %v", err)
		}

		fmt.Println(compact)
	},
}

var decodeOutput string

func init() {
	decodeCmd.Flags().StringVarP(&decodeOutput, "output", "o", "", "Write the decoded proof to a file instead of stdout")
}

var decodeCmd = &cobra.Command{
	Use:   "decode [zots1-string]",
	Short: "Decode a compact string back into a JSON proof",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		tp, err := proof.FromCompact(args[0])
		if err != nil {
			exitErr("Error decoding proof: %v", err)
		}

		if decodeOutput != "" {
			if err := tp.Save(decodeOutput); err != nil {
				exitErr("Error writing proof file: %v", err)
			}
			fmt.Fprintf(os.Stderr, "Wrote %s\n", decodeOutput)
			return
		}

		data, err := tp.Serialize()
		if err != nil {
			exitErr("Error serializing proof: %v", err)
		}
		fmt.Println(string(data))
	},
}
