package main

import (
	"encoding/json"
	"fmt"

	"github.com/4thel00z/relkit/internal"
	"github.com/spf13/cobra"
)

func NewTagCmd(tagUC *internal.TagUseCase) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag [version]",
		Short: "Tag HEAD with a release version",
		Long:  `Creates a v-prefixed release tag at HEAD. Without a version argument the next version is derived from commit history.`,
		Args:  cobra.MaximumNArgs(1),
		RunE:  makeTagRunner(tagUC),
	}

	cmd.Flags().StringP("message", "m", "", "Tag message (defaults to \"Release v<version>\")")
	cmd.Flags().Bool("lightweight", false, "Create a lightweight tag instead of an annotated one")
	return cmd
}

func makeTagRunner(tagUC *internal.TagUseCase) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		message, _ := cmd.Flags().GetString("message")
		lightweight, _ := cmd.Flags().GetBool("lightweight")
		repoPath, _ := cmd.Flags().GetString("repo")
		asJSON, _ := cmd.Flags().GetBool("json")

		version := ""
		if len(args) > 0 {
			version = args[0]
		}

		out, err := tagUC.Execute(cmd.Context(), internal.TagInput{
			RepoPath: repoPath, Version: version, Message: message, Lightweight: lightweight,
		})
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"name":    out.Name,
				"version": out.Version,
				"hash":    out.Hash,
			})
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Tagged %s at %s\n", out.Name, out.Hash[:7])
		return nil
	}
}
