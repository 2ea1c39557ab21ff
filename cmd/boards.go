// File: cmd/boards.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Ma63d/youmind-skill/internal/boards"
)

var boardsCmd = &cobra.Command{
	Use:   "boards",
	Short: "List the boards in the local library",
	RunE: func(cmd *cobra.Command, args []string) error {
		library, err := boards.LoadLibrary(cfg.Youmind.LibraryFile)
		if err != nil {
			return err
		}

		all := library.List()
		if len(all) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No boards in the library yet.")
			return nil
		}
		for _, b := range all {
			fmt.Fprintln(cmd.OutOrStdout(), b.Describe(b.ID == library.ActiveBoardID))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(boardsCmd)
}
