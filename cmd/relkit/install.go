package main

import (
	"fmt"

	"github.com/4thel00z/relkit/internal"
	"github.com/spf13/cobra"
)

func NewInstallHookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install-hook",
		Short: "Install the commit-msg validation hook",
		Long:  `Installs a commit-msg hook that rejects commit messages the release classifier cannot understand.`,
		RunE:  runInstallHook,
	}

	cmd.Flags().Bool("force", false, "Overwrite an existing hook (backs up the original)")
	return cmd
}

func runInstallHook(cmd *cobra.Command, _ []string) error {
	repoPath, _ := cmd.Flags().GetString("repo")
	force, _ := cmd.Flags().GetBool("force")

	if repoPath == "" {
		repoPath = "."
	}
	root, err := internal.FindRepoRoot(repoPath)
	if err != nil {
		return err
	}

	if err := internal.InstallHook(root, force); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Installed commit-msg hook")
	return nil
}
