package main

import (
	"fmt"

	"github.com/4thel00z/relkit/internal"
	"github.com/spf13/cobra"
)

func NewUninstallHookCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall-hook",
		Short: "Remove the commit-msg validation hook",
		Long:  `Removes the commit-msg hook installed by relkit. Restores any backed-up original hook.`,
		RunE:  runUninstallHook,
	}
}

func runUninstallHook(cmd *cobra.Command, _ []string) error {
	repoPath, _ := cmd.Flags().GetString("repo")

	if repoPath == "" {
		repoPath = "."
	}
	root, err := internal.FindRepoRoot(repoPath)
	if err != nil {
		return err
	}

	if err := internal.UninstallHook(root); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Removed commit-msg hook")
	return nil
}
