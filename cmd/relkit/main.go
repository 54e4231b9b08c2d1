package main

import (
	"context"
	"fmt"
	"os"

	"github.com/4thel00z/relkit/internal"
	"github.com/charmbracelet/fang"
)

// version is set via ldflags at build time
var version = "dev"

func main() {
	ctx := context.Background()

	if tryExternalCommand(ctx) {
		return
	}

	app := newApp()
	rootCmd := NewRootCmd(version, app)
	if err := fang.Execute(ctx, rootCmd); err != nil {
		os.Exit(1)
	}
}

func tryExternalCommand(ctx context.Context) bool {
	if len(os.Args) < 2 {
		return false
	}

	cmd := os.Args[1]
	if cmd == "" || cmd[0] == '-' {
		return false
	}

	if _, err := findExternal(cmd); err != nil {
		return false
	}

	if err := executeExternal(ctx, cmd, os.Args[2:], version); err != nil {
		fmt.Fprintf(os.Stderr, "relkit %s: %v\n", cmd, err)
		os.Exit(1)
	}

	return true
}

type app struct {
	planUC     *internal.PlanUseCase
	classifyUC *internal.ClassifyUseCase
	applyUC    *internal.ApplyUseCase
	tagUC      *internal.TagUseCase
}

func newApp() *app {
	historyFor := func(root string) (internal.HistoryReader, error) {
		return internal.NewGitRepository(root)
	}
	releaseFor := func(root string) (internal.ReleaseRepository, error) {
		return internal.NewGitRepository(root)
	}

	return &app{
		planUC:     internal.NewPlanUseCase(historyFor),
		classifyUC: internal.NewClassifyUseCase(historyFor),
		applyUC:    internal.NewApplyUseCase(releaseFor),
		tagUC:      internal.NewTagUseCase(releaseFor),
	}
}
