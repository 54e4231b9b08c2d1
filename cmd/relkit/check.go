package main

import (
	"fmt"
	"io"
	"os"

	"github.com/4thel00z/relkit/internal"
	"github.com/spf13/cobra"
)

func NewCheckCommitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-commit [file]",
		Short: "Validate a commit message",
		Long: `Checks that a commit message follows the conventional format the release
classifier understands. Reads the message from a file, or from stdin when
no file is given. Runs as the commit-msg hook installed by install-hook.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCheckCommit,
	}
}

func runCheckCommit(cmd *cobra.Command, args []string) error {
	var data []byte
	var err error
	if len(args) > 0 {
		data, err = os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
	}

	message := internal.CleanCommitMessage(string(data))
	return internal.ValidateCommitMessage(message)
}
