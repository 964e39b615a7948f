package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"partsrecv/internal/database"
	"partsrecv/internal/services"
)

var importCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Import PWB+ purchase order exports",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Open(cfg)
		if err != nil {
			return err
		}
		feeds := services.NewFeedService(db)
		for _, path := range args {
			po, err := feeds.ImportFile(path)
			if err != nil {
				return err
			}
			fmt.Printf("imported %s: PO %s / GM control %s, %d lines\n",
				path, po.PBSPO, po.GMControl, len(po.Lines))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
