package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var ErrNoCommits = errors.New("no commits found since last release")

// HistoryReader is the read side of a release repository.
type HistoryReader interface {
	CommitsSince(ctx context.Context, tag string) ([]*Commit, error)
	LatestReleaseTag(ctx context.Context) (*Tag, error)
	Log(ctx context.Context, limit int) ([]*Commit, error)
}

// ReleaseWriter is the write side of a release repository.
type ReleaseWriter interface {
	Stage(ctx context.Context, paths ...string) error
	Commit(ctx context.Context, message string) (*Commit, error)
	CreateTag(ctx context.Context, name, message string, annotated bool) (*Tag, error)
}

type ReleaseRepository interface {
	HistoryReader
	ReleaseWriter
}

// Use case input/output DTOs

type PlanInput struct {
	RepoPath       string
	CurrentVersion string
}

type PlanOutput struct {
	CurrentVersion string
	BumpLevel      BumpLevel
	NextVersion    string
	CommitCount    int
	LastTag        string
	Commits        []ClassifyResult
}

type ClassifyInput struct {
	Messages []string
	RepoPath string
	Last     int
}

type ClassifyResult struct {
	Message string
	Level   BumpLevel
}

type ClassifyOutput struct {
	Results   []ClassifyResult
	Aggregate BumpLevel
}

type ApplyInput struct {
	RepoPath string
	Version  string
	// Manifests overrides the configured manifest list when non-empty.
	Manifests     []string
	WorkspaceDeps bool
	DryRun        bool
	Commit        bool
}

type ApplyOutput struct {
	Version      string
	Files        []ManifestUpdate
	Dependencies []DependencyUpdate
	UpdatedCount int
	CommitHash   string
}

type TagInput struct {
	RepoPath    string
	Version     string
	Message     string
	Lightweight bool
}

type TagOutput struct {
	Name    string
	Version string
	Hash    string
}

// Use cases

type PlanUseCase struct {
	repoFor func(root string) (HistoryReader, error)
}

func NewPlanUseCase(repoFor func(root string) (HistoryReader, error)) *PlanUseCase {
	return &PlanUseCase{repoFor: repoFor}
}

func (uc *PlanUseCase) Execute(ctx context.Context, input PlanInput) (*PlanOutput, error) {
	root, err := resolveRoot(input.RepoPath)
	if err != nil {
		return nil, err
	}

	cfg, err := LoadConfig(root)
	if err != nil {
		return nil, err
	}

	repo, err := uc.repoFor(root)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	return resolvePlan(ctx, repo, cfg, input.CurrentVersion)
}

type ClassifyUseCase struct {
	repoFor func(root string) (HistoryReader, error)
}

func NewClassifyUseCase(repoFor func(root string) (HistoryReader, error)) *ClassifyUseCase {
	return &ClassifyUseCase{repoFor: repoFor}
}

func (uc *ClassifyUseCase) Execute(ctx context.Context, input ClassifyInput) (*ClassifyOutput, error) {
	messages := input.Messages

	if input.Last > 0 {
		root, err := resolveRoot(input.RepoPath)
		if err != nil {
			return nil, err
		}

		repo, err := uc.repoFor(root)
		if err != nil {
			return nil, fmt.Errorf("open repository: %w", err)
		}

		commits, err := repo.Log(ctx, input.Last)
		if err != nil {
			return nil, err
		}

		messages = make([]string, len(commits))
		for i, c := range commits {
			messages[i] = c.Message
		}
	}

	out := &ClassifyOutput{Results: make([]ClassifyResult, len(messages))}
	for i, msg := range messages {
		out.Results[i] = ClassifyResult{Message: firstLine(msg), Level: Classify(msg)}
	}
	out.Aggregate = Aggregate(messages)

	return out, nil
}

type ApplyUseCase struct {
	repoFor func(root string) (ReleaseRepository, error)
}

func NewApplyUseCase(repoFor func(root string) (ReleaseRepository, error)) *ApplyUseCase {
	return &ApplyUseCase{repoFor: repoFor}
}

func (uc *ApplyUseCase) Execute(ctx context.Context, input ApplyInput) (*ApplyOutput, error) {
	// Git is only required when the target version has to be derived from
	// history or the result gets committed. A plain "apply 1.2.3" works in
	// a bare directory.
	needsGit := input.Commit || isVersionKeyword(input.Version)

	start := input.RepoPath
	if start == "" {
		start = "."
	}

	root, err := FindRepoRoot(start)
	if err != nil {
		if needsGit {
			return nil, err
		}
		root, err = filepath.Abs(start)
		if err != nil {
			return nil, fmt.Errorf("resolve path: %w", err)
		}
	}

	cfg, err := LoadConfig(root)
	if err != nil {
		return nil, err
	}

	var repo ReleaseRepository
	if needsGit {
		repo, err = uc.repoFor(root)
		if err != nil {
			return nil, fmt.Errorf("open repository: %w", err)
		}
	}

	version, err := resolveTargetVersion(ctx, repo, cfg, input.Version)
	if err != nil {
		return nil, err
	}

	out := &ApplyOutput{Version: version}

	manifests := cfg.Manifests
	if len(input.Manifests) > 0 {
		manifests = input.Manifests
	}

	type ownedPackage struct {
		name string
		path string
	}
	var (
		packages []ownedPackage
		depFiles []string
		touched  []string
	)

	for _, m := range manifests {
		path := filepath.Join(root, m)

		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			out.Files = append(out.Files, ManifestUpdate{Path: m, NewVersion: version, Note: "file not found"})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read manifest: %w", err)
		}

		content := string(data)
		name, hasName := ManifestPackageName(content)

		// A workspace root without its own [package] section has no
		// version to bump but still holds member version pins.
		if IsWorkspaceRoot(content) && !hasName {
			out.Files = append(out.Files, ManifestUpdate{Path: m, NewVersion: version, Note: "workspace root without package section"})
			depFiles = append(depFiles, m)
			continue
		}

		upd, err := UpdateManifestFile(path, version, input.DryRun)
		if err != nil {
			return nil, err
		}
		upd.Path = m
		out.Files = append(out.Files, *upd)
		depFiles = append(depFiles, m)

		if upd.Updated {
			out.UpdatedCount++
			touched = append(touched, m)
			if hasName {
				packages = append(packages, ownedPackage{name: name, path: m})
			}
		}
	}

	if cfg.WorkspaceDeps || input.WorkspaceDeps {
		for _, m := range depFiles {
			for _, pkg := range packages {
				if pkg.path == m {
					continue
				}
				ok, err := UpdateDependencyFile(filepath.Join(root, m), pkg.name, version, input.DryRun)
				if err != nil {
					return nil, err
				}
				if ok {
					out.Dependencies = append(out.Dependencies, DependencyUpdate{Path: m, Package: pkg.name})
					touched = append(touched, m)
				}
			}
		}
	}

	if input.Commit && !input.DryRun && out.UpdatedCount > 0 {
		if err := repo.Stage(ctx, dedupe(touched)...); err != nil {
			return nil, err
		}

		commit, err := repo.Commit(ctx, fmt.Sprintf("chore(release): bump version to %s", version))
		if err != nil {
			return nil, err
		}
		out.CommitHash = commit.Hash
	}

	return out, nil
}

type TagUseCase struct {
	repoFor func(root string) (ReleaseRepository, error)
}

func NewTagUseCase(repoFor func(root string) (ReleaseRepository, error)) *TagUseCase {
	return &TagUseCase{repoFor: repoFor}
}

func (uc *TagUseCase) Execute(ctx context.Context, input TagInput) (*TagOutput, error) {
	root, err := resolveRoot(input.RepoPath)
	if err != nil {
		return nil, err
	}

	cfg, err := LoadConfig(root)
	if err != nil {
		return nil, err
	}

	repo, err := uc.repoFor(root)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	version := input.Version
	switch version {
	case "", "auto":
		plan, err := resolvePlan(ctx, repo, cfg, "")
		if err != nil {
			return nil, err
		}
		version = plan.NextVersion
	default:
		version, err = NormalizeTargetVersion(version)
		if err != nil {
			return nil, err
		}
	}

	name := "v" + version
	message := input.Message
	if message == "" {
		message = "Release " + name
	}

	tag, err := repo.CreateTag(ctx, name, message, !input.Lightweight)
	if err != nil {
		return nil, err
	}

	return &TagOutput{Name: tag.Name, Version: version, Hash: tag.Hash}, nil
}

// helpers

func resolveRoot(path string) (string, error) {
	if path == "" {
		path = "."
	}
	return FindRepoRoot(path)
}

// currentVersion picks the version the bump starts from: an explicit
// override, the latest release tag, then the configured default.
func currentVersion(ctx context.Context, repo HistoryReader, cfg *Config, override string) (string, string, error) {
	var lastTag string

	tag, err := repo.LatestReleaseTag(ctx)
	switch {
	case errors.Is(err, ErrNoTags):
	case err != nil:
		return "", "", err
	default:
		lastTag = tag.Name
	}

	current := override
	if current == "" {
		current = lastTag
	}
	if current == "" {
		current = cfg.DefaultVersion
	}

	return current, lastTag, nil
}

func resolvePlan(ctx context.Context, repo HistoryReader, cfg *Config, currentOverride string) (*PlanOutput, error) {
	current, lastTag, err := currentVersion(ctx, repo, cfg, currentOverride)
	if err != nil {
		return nil, err
	}

	// Prerelease suffixes show up in the current version but the bump is
	// computed from the base triple.
	display := strings.TrimPrefix(current, "v")
	ver, err := ParseVersion(TrimPrerelease(display))
	if err != nil {
		return nil, err
	}

	commits, err := repo.CommitsSince(ctx, lastTag)
	if err != nil {
		return nil, err
	}
	if len(commits) == 0 {
		return nil, ErrNoCommits
	}

	messages := make([]string, len(commits))
	results := make([]ClassifyResult, len(commits))
	for i, c := range commits {
		messages[i] = c.Message
		results[i] = ClassifyResult{Message: firstLine(c.Message), Level: Classify(c.Message)}
	}
	level := Aggregate(messages)

	return &PlanOutput{
		CurrentVersion: display,
		BumpLevel:      level,
		NextVersion:    ver.Bump(level).String(),
		CommitCount:    len(commits),
		LastTag:        lastTag,
		Commits:        results,
	}, nil
}

func resolveTargetVersion(ctx context.Context, repo HistoryReader, cfg *Config, target string) (string, error) {
	switch target {
	case "", "auto":
		plan, err := resolvePlan(ctx, repo, cfg, "")
		if err != nil {
			return "", err
		}
		return plan.NextVersion, nil
	case "major", "minor", "patch":
		level, err := ParseBumpLevel(target)
		if err != nil {
			return "", err
		}

		current, _, err := currentVersion(ctx, repo, cfg, "")
		if err != nil {
			return "", err
		}

		ver, err := ParseVersion(TrimPrerelease(strings.TrimPrefix(current, "v")))
		if err != nil {
			return "", err
		}
		return ver.Bump(level).String(), nil
	default:
		return NormalizeTargetVersion(target)
	}
}

func isVersionKeyword(target string) bool {
	switch target {
	case "", "auto", "major", "minor", "patch":
		return true
	}
	return false
}

func dedupe(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	var out []string
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
