// File: cmd/ask.go
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Ma63d/youmind-skill/internal/boards"
	"github.com/Ma63d/youmind-skill/internal/observability"
	"github.com/Ma63d/youmind-skill/internal/skill"
)

var (
	askQuestion    string
	askBoardURL    string
	askBoardID     string
	askShowBrowser bool
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Submit a question to a board chat and print the answer",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := observability.Logger()

		library, err := boards.LoadLibrary(cfg.Youmind.LibraryFile)
		if err != nil {
			return err
		}

		boardURL, err := library.Resolve(askBoardURL, askBoardID)
		if err != nil {
			printBoardHelp(cmd, library)
			return err
		}

		if !strings.HasPrefix(boardURL, cfg.Youmind.BoardURLPrefix) {
			logger.Warn("board URL does not look like a board link",
				zap.String("url", boardURL),
				zap.String("expected_prefix", cfg.Youmind.BoardURLPrefix))
		}

		if askShowBrowser {
			cfg.Browser.ShowBrowser = true
		}

		asker := skill.New(cfg, logger)
		answer, err := asker.Ask(cmd.Context(), askQuestion, boardURL)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		frame := strings.Repeat("=", 60)
		fmt.Fprintln(out, frame)
		fmt.Fprintf(out, "Question: %s\n", askQuestion)
		fmt.Fprintln(out, frame)
		fmt.Fprintln(out)
		fmt.Fprintln(out, answer)
		fmt.Fprintln(out)
		fmt.Fprintln(out, frame)
		return nil
	},
}

func printBoardHelp(cmd *cobra.Command, library *boards.Library) {
	all := library.List()
	if len(all) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No boards in the local library; pass --board-url or add boards to", cfg.Youmind.LibraryFile)
		return
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "Available boards:")
	for _, b := range all {
		fmt.Fprintln(cmd.ErrOrStderr(), " ", b.Describe(b.ID == library.ActiveBoardID))
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "Select one with --board-id, or pass --board-url directly.")
}

func init() {
	askCmd.Flags().StringVarP(&askQuestion, "question", "q", "", "question to ask (required)")
	askCmd.Flags().StringVar(&askBoardURL, "board-url", "", "board URL to ask on")
	askCmd.Flags().StringVar(&askBoardID, "board-id", "", "board ID from the local library")
	askCmd.Flags().BoolVar(&askShowBrowser, "show-browser", false, "run Chrome with a visible window")
	_ = askCmd.MarkFlagRequired("question")

	rootCmd.AddCommand(askCmd)
}
