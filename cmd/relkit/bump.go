package main

import (
	"encoding/json"
	"fmt"

	"github.com/4thel00z/relkit/internal"
	"github.com/spf13/cobra"
)

func NewBumpCmd(planUC *internal.PlanUseCase) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bump",
		Short: "Determine the next version from commit history",
		Long:  `Classifies every commit since the last release tag and reports the resulting version bump.`,
		RunE:  makeBumpRunner(planUC),
	}

	cmd.Flags().String("current-version", "", "Override the current version instead of reading the latest tag")
	cmd.Flags().String("format", "bump-type", "Output format (bump-type|new-version|json)")
	cmd.Flags().BoolP("verbose", "v", false, "Show per-commit classification on stderr")
	cmd.Flags().Bool("fail-on-none", false, "Exit non-zero when no commit warrants a bump")
	return cmd
}

func makeBumpRunner(planUC *internal.PlanUseCase) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		current, _ := cmd.Flags().GetString("current-version")
		format, _ := cmd.Flags().GetString("format")
		verbose, _ := cmd.Flags().GetBool("verbose")
		failOnNone, _ := cmd.Flags().GetBool("fail-on-none")
		repoPath, _ := cmd.Flags().GetString("repo")
		asJSON, _ := cmd.Flags().GetBool("json")

		out, err := planUC.Execute(cmd.Context(), internal.PlanInput{
			RepoPath: repoPath, CurrentVersion: current,
		})
		if err != nil {
			return err
		}
		if failOnNone && out.BumpLevel == internal.BumpNone {
			return fmt.Errorf("no version bump required (%d commits classified none)", out.CommitCount)
		}

		if verbose {
			since := out.LastTag
			if since == "" {
				since = "start of history"
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Analyzing %d commits since %s\n", out.CommitCount, since)
			for _, r := range out.Commits {
				fmt.Fprintf(cmd.ErrOrStderr(), "  %-5s  %s\n", r.Level, r.Message)
			}
		}

		if asJSON || format == "json" {
			return outputPlanJSON(cmd, out)
		}

		switch format {
		case "bump-type":
			fmt.Fprintln(cmd.OutOrStdout(), out.BumpLevel)
		case "new-version":
			fmt.Fprintln(cmd.OutOrStdout(), out.NextVersion)
		default:
			return fmt.Errorf("unknown format %q", format)
		}
		return nil
	}
}

func outputPlanJSON(cmd *cobra.Command, out *internal.PlanOutput) error {
	var lastTag any
	if out.LastTag != "" {
		lastTag = out.LastTag
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"current_version": out.CurrentVersion,
		"bump_type":       out.BumpLevel.String(),
		"new_version":     out.NextVersion,
		"commit_count":    out.CommitCount,
		"last_tag":        lastTag,
	})
}
