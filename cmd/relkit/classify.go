package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/4thel00z/relkit/internal"
	"github.com/spf13/cobra"
)

func NewClassifyCmd(classifyUC *internal.ClassifyUseCase) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify [message...]",
		Short: "Classify commit messages into bump levels",
		Long:  `Maps commit messages to the version bump they call for. Messages come from the arguments, from stdin, or with --last from the commit log.`,
		RunE:  makeClassifyRunner(classifyUC),
	}

	cmd.Flags().IntP("last", "n", 0, "Classify the last N commits from the log instead")
	return cmd
}

func makeClassifyRunner(classifyUC *internal.ClassifyUseCase) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		last, _ := cmd.Flags().GetInt("last")
		repoPath, _ := cmd.Flags().GetString("repo")
		asJSON, _ := cmd.Flags().GetBool("json")

		input := internal.ClassifyInput{RepoPath: repoPath, Last: last}
		if last == 0 {
			if len(args) > 0 {
				input.Messages = args
			} else {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				msg := strings.TrimSpace(string(data))
				if msg == "" {
					return fmt.Errorf("no commit message given")
				}
				input.Messages = []string{msg}
			}
		}

		out, err := classifyUC.Execute(cmd.Context(), input)
		if err != nil {
			return err
		}

		if asJSON {
			return outputClassifyJSON(cmd, out)
		}

		if len(out.Results) == 1 {
			fmt.Fprintln(cmd.OutOrStdout(), out.Results[0].Level)
			return nil
		}

		for _, r := range out.Results {
			fmt.Fprintf(cmd.OutOrStdout(), "%-5s  %s\n", r.Level, r.Message)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "aggregate: %s\n", out.Aggregate)
		return nil
	}
}

func outputClassifyJSON(cmd *cobra.Command, out *internal.ClassifyOutput) error {
	results := make([]map[string]any, 0, len(out.Results))
	for _, r := range out.Results {
		results = append(results, map[string]any{
			"message": r.Message,
			"level":   r.Level.String(),
		})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"results":   results,
		"aggregate": out.Aggregate.String(),
	})
}
