package v1

import (
	"context"
	"fmt"

	"github.com/4thel00z/relkit/internal"
)

// Client provides programmatic access to release planning and versioning.
type Client struct {
	planUC     *internal.PlanUseCase
	classifyUC *internal.ClassifyUseCase
	applyUC    *internal.ApplyUseCase
	tagUC      *internal.TagUseCase

	repoPath    string
	dryRun      bool
	lightweight bool
	commit      bool
}

// New creates a new Client with the given options.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	historyFor := func(root string) (internal.HistoryReader, error) {
		return internal.NewGitRepository(root)
	}
	releaseFor := func(root string) (internal.ReleaseRepository, error) {
		return internal.NewGitRepository(root)
	}

	return &Client{
		planUC:      internal.NewPlanUseCase(historyFor),
		classifyUC:  internal.NewClassifyUseCase(historyFor),
		applyUC:     internal.NewApplyUseCase(releaseFor),
		tagUC:       internal.NewTagUseCase(releaseFor),
		repoPath:    cfg.repoPath,
		dryRun:      cfg.dryRun,
		lightweight: cfg.lightweight,
		commit:      cfg.commit,
	}, nil
}

// Plan computes the pending version bump from commit history.
func (c *Client) Plan(ctx context.Context) (*ReleasePlan, error) {
	out, err := c.planUC.Execute(ctx, internal.PlanInput{RepoPath: c.repoPath})
	if err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}

	return &ReleasePlan{
		CurrentVersion: out.CurrentVersion,
		BumpType:       out.BumpLevel.String(),
		NewVersion:     out.NextVersion,
		CommitCount:    out.CommitCount,
		LastTag:        out.LastTag,
	}, nil
}

// Classify maps commit messages to the bump levels they call for.
func (c *Client) Classify(ctx context.Context, messages ...string) (*ClassifyReport, error) {
	out, err := c.classifyUC.Execute(ctx, internal.ClassifyInput{Messages: messages})
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}

	results := make([]Classification, 0, len(out.Results))
	for _, r := range out.Results {
		results = append(results, Classification{
			Message: r.Message,
			Level:   r.Level.String(),
		})
	}

	return &ClassifyReport{
		Results:   results,
		Aggregate: out.Aggregate.String(),
	}, nil
}

// ClassifyLog classifies the last n commits from the repository log.
func (c *Client) ClassifyLog(ctx context.Context, n int) (*ClassifyReport, error) {
	out, err := c.classifyUC.Execute(ctx, internal.ClassifyInput{RepoPath: c.repoPath, Last: n})
	if err != nil {
		return nil, fmt.Errorf("classify log: %w", err)
	}

	results := make([]Classification, 0, len(out.Results))
	for _, r := range out.Results {
		results = append(results, Classification{
			Message: r.Message,
			Level:   r.Level.String(),
		})
	}

	return &ClassifyReport{
		Results:   results,
		Aggregate: out.Aggregate.String(),
	}, nil
}

// Apply writes a version into the configured manifests. The version may
// be explicit, a bump keyword (major|minor|patch), or empty to derive it
// from commit history.
func (c *Client) Apply(ctx context.Context, version string) (*ApplyResult, error) {
	out, err := c.applyUC.Execute(ctx, internal.ApplyInput{
		RepoPath: c.repoPath,
		Version:  version,
		DryRun:   c.dryRun,
		Commit:   c.commit,
	})
	if err != nil {
		return nil, fmt.Errorf("apply: %w", err)
	}

	files := make([]ManifestUpdate, 0, len(out.Files))
	for _, f := range out.Files {
		files = append(files, ManifestUpdate{
			Path:       f.Path,
			OldVersion: f.OldVersion,
			NewVersion: f.NewVersion,
			Updated:    f.Updated,
			Note:       f.Note,
		})
	}

	deps := make([]DependencyUpdate, 0, len(out.Dependencies))
	for _, d := range out.Dependencies {
		deps = append(deps, DependencyUpdate{Path: d.Path, Package: d.Package})
	}

	return &ApplyResult{
		Version:      out.Version,
		Files:        files,
		Dependencies: deps,
		UpdatedCount: out.UpdatedCount,
		Commit:       out.CommitHash,
	}, nil
}

// Tag tags HEAD with a release version. An empty version derives the
// next one from commit history.
func (c *Client) Tag(ctx context.Context, version string) (*TagRef, error) {
	out, err := c.tagUC.Execute(ctx, internal.TagInput{
		RepoPath:    c.repoPath,
		Version:     version,
		Lightweight: c.lightweight,
	})
	if err != nil {
		return nil, fmt.Errorf("tag: %w", err)
	}

	return &TagRef{Name: out.Name, Version: out.Version, Hash: out.Hash}, nil
}

// Close releases any resources held by the client.
func (c *Client) Close() error {
	return nil
}
