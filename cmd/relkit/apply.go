package main

import (
	"encoding/json"
	"fmt"

	"github.com/4thel00z/relkit/internal"
	"github.com/spf13/cobra"
)

func NewApplyCmd(applyUC *internal.ApplyUseCase) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply [version]",
		Short: "Write a version into the project manifests",
		Long: `Rewrites the package version in the configured manifest files. The version
argument may be explicit (1.2.3), a bump keyword (major|minor|patch), or
auto to derive it from commit history. Auto is the default.`,
		Args: cobra.MaximumNArgs(1),
		RunE: makeApplyRunner(applyUC),
	}

	cmd.Flags().StringArray("manifest", nil, "Manifest file to update, relative to the repo root (repeatable, overrides config)")
	cmd.Flags().Bool("workspace-deps", false, "Also rewrite workspace dependency pins to the new version")
	cmd.Flags().Bool("dry-run", false, "Show what would change without writing")
	cmd.Flags().Bool("commit", false, "Stage and commit the updated manifests")
	return cmd
}

func makeApplyRunner(applyUC *internal.ApplyUseCase) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		manifests, _ := cmd.Flags().GetStringArray("manifest")
		workspaceDeps, _ := cmd.Flags().GetBool("workspace-deps")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		doCommit, _ := cmd.Flags().GetBool("commit")
		repoPath, _ := cmd.Flags().GetString("repo")
		asJSON, _ := cmd.Flags().GetBool("json")

		version := ""
		if len(args) > 0 {
			version = args[0]
		}

		out, err := applyUC.Execute(cmd.Context(), internal.ApplyInput{
			RepoPath:      repoPath,
			Version:       version,
			Manifests:     manifests,
			WorkspaceDeps: workspaceDeps,
			DryRun:        dryRun,
			Commit:        doCommit,
		})
		if err != nil {
			return err
		}

		if asJSON {
			if err := outputApplyJSON(cmd, out); err != nil {
				return err
			}
			if out.UpdatedCount == 0 {
				return fmt.Errorf("no manifest files were updated")
			}
			return nil
		}

		for _, f := range out.Files {
			if f.Note != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %s\n", f.Path, f.Note)
			}
		}

		for _, f := range out.Files {
			if !f.Updated {
				continue
			}
			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "Would update %s: %s -> %s\n", f.Path, f.OldVersion, f.NewVersion)
				fmt.Fprint(cmd.OutOrStdout(), f.Diff)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s: %s -> %s\n", f.Path, f.OldVersion, f.NewVersion)
			}
		}
		for _, d := range out.Dependencies {
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s dependency in %s\n", d.Package, d.Path)
		}

		if out.UpdatedCount == 0 {
			return fmt.Errorf("no manifest files were updated")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Successfully updated %d file(s) to %s\n", out.UpdatedCount, out.Version)
		if out.CommitHash != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "[%s] chore(release): bump version to %s\n", out.CommitHash[:7], out.Version)
		}
		return nil
	}
}

func outputApplyJSON(cmd *cobra.Command, out *internal.ApplyOutput) error {
	files := make([]map[string]any, 0, len(out.Files))
	for _, f := range out.Files {
		entry := map[string]any{
			"path":        f.Path,
			"updated":     f.Updated,
			"new_version": f.NewVersion,
		}
		if f.OldVersion != "" {
			entry["old_version"] = f.OldVersion
		}
		if f.Note != "" {
			entry["note"] = f.Note
		}
		files = append(files, entry)
	}

	deps := make([]map[string]any, 0, len(out.Dependencies))
	for _, d := range out.Dependencies {
		deps = append(deps, map[string]any{
			"path":    d.Path,
			"package": d.Package,
		})
	}

	payload := map[string]any{
		"version":       out.Version,
		"files":         files,
		"dependencies":  deps,
		"updated_count": out.UpdatedCount,
	}
	if out.CommitHash != "" {
		payload["commit"] = out.CommitHash
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
