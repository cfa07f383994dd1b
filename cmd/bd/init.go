package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/steveyegge/beads/internal/config"
	"github.com/steveyegge/beads/internal/storage/sqlite"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a new issue database at the configured path",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := dbPath
		if path == "" {
			path = config.DBPath()
		}
		s, err := sqlite.Open(cmd.Context(), path, config.LockTimeout())
		if err != nil {
			return err
		}
		defer s.Close()
		fmt.Printf("Initialized issue database at %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
