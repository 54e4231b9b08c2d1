package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/4thel00z/relkit/internal"
	"github.com/spf13/cobra"
)

func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a repository for release automation",
		Long:  `Creates a git repository if none exists and writes a default .relkit.yaml.`,
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, _ []string) error {
	repoPath, _ := cmd.Flags().GetString("repo")
	if repoPath == "" {
		repoPath = "."
	}

	start, err := filepath.Abs(repoPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	root, err := internal.FindRepoRoot(start)
	if err != nil {
		if _, initErr := internal.InitRepository(start); initErr != nil {
			return initErr
		}
		root = start
		fmt.Fprintf(cmd.OutOrStdout(), "Initialized empty repository at %s\n", root)
	}

	cfgPath := internal.ConfigPath(root)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("already initialized at %s", cfgPath)
	}

	if err := internal.SaveConfig(root, internal.DefaultConfig()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", cfgPath)
	return nil
}
