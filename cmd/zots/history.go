package main

import (
	"github.com/spf13/cobra"

	historydb "github.com/zopentimestamps/zots/internal/database"
)

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of records to show, 0 for all")
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previously created timestamps",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		openHistoryDB()

		records, err := historydb.ListStamps(historyLimit)
		if err != nil {
			exitErr("Error reading history: %v", err)
		}

		outputJSON(records)
	},
}
