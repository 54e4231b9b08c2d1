package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/4thel00z/relkit/internal"
	"github.com/spf13/cobra"
)

func NewTasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks [file]",
		Short: "Extract open tasks from a markdown document",
		Long:  `Lists unchecked checkboxes, numbered entries and bullets found in the task sections of a markdown file. Reads stdin when no file is given.`,
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTasks,
	}

	cmd.Flags().String("section", "", "Only parse the section whose header contains this text")
	cmd.Flags().Bool("checkbox-only", false, "Collect unchecked checkboxes and nothing else")
	cmd.Flags().Int("max-depth", 0, "Maximum nesting depth to collect")
	cmd.Flags().Bool("all-bullets", false, "Treat every bullet in matching sections as a task")
	return cmd
}

func runTasks(cmd *cobra.Command, args []string) error {
	section, _ := cmd.Flags().GetString("section")
	checkboxOnly, _ := cmd.Flags().GetBool("checkbox-only")
	maxDepth, _ := cmd.Flags().GetInt("max-depth")
	allBullets, _ := cmd.Flags().GetBool("all-bullets")
	asJSON, _ := cmd.Flags().GetBool("json")

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

	tasks := internal.ParseTasks(string(data), internal.TaskListOptions{
		Section:      section,
		CheckboxOnly: checkboxOnly,
		MaxDepth:     maxDepth,
		AllBullets:   allBullets,
	})

	if asJSON {
		if tasks == nil {
			tasks = []string{}
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"tasks": tasks,
			"count": len(tasks),
		})
	}

	for _, task := range tasks {
		fmt.Fprintln(cmd.OutOrStdout(), task)
	}
	return nil
}
