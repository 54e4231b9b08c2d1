package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/4thel00z/relkit/internal"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func NewWatchCmd(planUC *internal.PlanUseCase) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the repository and report the pending bump",
		Long:  `Watches the git ref store and re-evaluates the pending version bump whenever commits or tags land.`,
		RunE:  makeWatchRunner(planUC),
	}

	cmd.Flags().Duration("debounce", 500*time.Millisecond, "Debounce window for batching changes")
	return cmd
}

func makeWatchRunner(planUC *internal.PlanUseCase) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		repoPath, _ := cmd.Flags().GetString("repo")
		debounce, _ := cmd.Flags().GetDuration("debounce")

		if repoPath == "" {
			repoPath = "."
		}
		root, err := internal.FindRepoRoot(repoPath)
		if err != nil {
			return err
		}
		gitPath := filepath.Join(root, ".git")

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		defer watcher.Close()

		if err := addWatchDirs(watcher, gitPath); err != nil {
			return fmt.Errorf("add watch dirs: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for changes...\n", root)

		var lastLine string
		report := func() {
			line := planLine(cmd, planUC, root)
			if line == "" || line == lastLine {
				return
			}
			lastLine = line
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		report()

		timer := time.NewTimer(0)
		if !timer.Stop() {
			<-timer.C
		}
		pending := false

		for {
			select {
			case <-cmd.Context().Done():
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if shouldIgnoreEvent(event) {
					continue
				}
				// go-git creates ref directories lazily; pick them up.
				if event.Op&fsnotify.Create != 0 {
					if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
						_ = watcher.Add(event.Name)
					}
				}
				if !pending {
					timer.Reset(debounce)
					pending = true
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "watch error: %v\n", err)
			case <-timer.C:
				pending = false
				report()
			}
		}
	}
}

func planLine(cmd *cobra.Command, planUC *internal.PlanUseCase, root string) string {
	out, err := planUC.Execute(cmd.Context(), internal.PlanInput{RepoPath: root})
	if errors.Is(err, internal.ErrNoCommits) {
		return "no unreleased commits"
	}
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "plan: %v\n", err)
		return ""
	}
	return fmt.Sprintf("%s -> %s (%s, %d commits)", out.CurrentVersion, out.NextVersion, out.BumpLevel, out.CommitCount)
}

func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}

		if info.IsDir() {
			base := filepath.Base(path)
			if strings.HasPrefix(base, ".") && path != root {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
}

func shouldIgnoreEvent(event fsnotify.Event) bool {
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0
}
