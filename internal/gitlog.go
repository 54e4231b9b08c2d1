package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/filesystem"
	"golang.org/x/mod/semver"
)

const (
	DefaultBranch = "main"
	DefaultAuthor = "relkit"
	DefaultEmail  = "relkit@local"

	gitDirName = ".git"
)

var (
	ErrNotRepository = errors.New("not a git repository")
	ErrNoTags        = errors.New("no release tags found")
)

// Commit is one history entry as seen by the classifier.
type Commit struct {
	Hash      string
	Message   string
	Author    string
	Timestamp time.Time
}

// Tag points a release name at a commit.
type Tag struct {
	Name string
	Hash string
}

type GitRepository struct {
	repo     *git.Repository
	worktree *git.Worktree
	rootPath string
}

// FindRepoRoot walks upward from startDir until it finds a directory
// containing .git.
func FindRepoRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve path: %w", err)
	}

	for {
		info, err := os.Stat(filepath.Join(dir, gitDirName))
		if err == nil && info.IsDir() {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotRepository
		}
		dir = parent
	}
}

func NewGitRepository(rootPath string) (*GitRepository, error) {
	gitPath := filepath.Join(rootPath, gitDirName)
	if _, err := os.Stat(gitPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotRepository, rootPath)
	}

	fs := osfs.New(gitPath)
	storage := filesystem.NewStorage(fs, cache.NewObjectLRUDefault())
	wt := osfs.New(rootPath)

	repo, err := git.Open(storage, wt)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("get worktree: %w", err)
	}

	return &GitRepository{
		repo:     repo,
		worktree: worktree,
		rootPath: rootPath,
	}, nil
}

func InitRepository(rootPath string) (*GitRepository, error) {
	gitPath := filepath.Join(rootPath, gitDirName)
	if err := os.MkdirAll(gitPath, 0755); err != nil {
		return nil, fmt.Errorf("create .git directory: %w", err)
	}

	fs := osfs.New(gitPath)
	storage := filesystem.NewStorage(fs, cache.NewObjectLRUDefault())
	wt := osfs.New(rootPath)

	repo, err := git.Init(storage, wt)
	if err != nil {
		return nil, fmt.Errorf("init repository: %w", err)
	}

	cfg, err := repo.Config()
	if err != nil {
		return nil, fmt.Errorf("get config: %w", err)
	}
	cfg.Init.DefaultBranch = DefaultBranch
	if err := repo.SetConfig(cfg); err != nil {
		return nil, fmt.Errorf("set config: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("get worktree: %w", err)
	}

	return &GitRepository{
		repo:     repo,
		worktree: worktree,
		rootPath: rootPath,
	}, nil
}

func (r *GitRepository) Root() string {
	return r.rootPath
}

// HistoryReader implementation

// CommitsSince returns every commit reachable from HEAD but not from
// tagName. An empty tagName returns the full history.
func (r *GitRepository) CommitsSince(ctx context.Context, tagName string) ([]*Commit, error) {
	head, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("get HEAD: %w", err)
	}

	headCommit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("get HEAD commit: %w", err)
	}

	var seen map[plumbing.Hash]bool
	if tagName != "" {
		tagHash, err := r.tagCommitHash(tagName)
		if err != nil {
			return nil, err
		}

		tagCommit, err := r.repo.CommitObject(tagHash)
		if err != nil {
			return nil, fmt.Errorf("get tag commit: %w", err)
		}

		seen = make(map[plumbing.Hash]bool)
		iter := object.NewCommitPreorderIter(tagCommit, nil, nil)
		err = iter.ForEach(func(c *object.Commit) error {
			seen[c.Hash] = true
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk tag history: %w", err)
		}
	}

	var commits []*Commit
	iter := object.NewCommitPreorderIter(headCommit, seen, nil)
	err = iter.ForEach(func(c *object.Commit) error {
		commits = append(commits, r.toCommit(c))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return commits, nil
}

// LatestReleaseTag returns the highest semver tag in the repository.
// Tag names may carry a leading "v"; anything that does not parse as a
// version is ignored.
func (r *GitRepository) LatestReleaseTag(ctx context.Context) (*Tag, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer iter.Close()

	var latest *Tag
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		if !semver.IsValid(canonicalTag(name)) {
			return nil
		}
		if latest == nil || semver.Compare(canonicalTag(name), canonicalTag(latest.Name)) > 0 {
			latest = &Tag{Name: name}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if latest == nil {
		return nil, ErrNoTags
	}

	hash, err := r.tagCommitHash(latest.Name)
	if err != nil {
		return nil, err
	}
	latest.Hash = hash.String()

	return latest, nil
}

func (r *GitRepository) Log(ctx context.Context, limit int) ([]*Commit, error) {
	iter, err := r.repo.Log(&git.LogOptions{})
	if err != nil {
		return nil, fmt.Errorf("get log: %w", err)
	}
	defer iter.Close()

	var commits []*Commit
	count := 0

	err = iter.ForEach(func(c *object.Commit) error {
		if limit > 0 && count >= limit {
			return io.EOF
		}
		commits = append(commits, r.toCommit(c))
		count++
		return nil
	})
	if err != nil && err != io.EOF {
		return nil, err
	}

	return commits, nil
}

// ReleaseWriter implementation

func (r *GitRepository) Stage(ctx context.Context, paths ...string) error {
	for _, p := range paths {
		rel := p
		if filepath.IsAbs(p) {
			var err error
			rel, err = filepath.Rel(r.rootPath, p)
			if err != nil {
				return fmt.Errorf("get relative path: %w", err)
			}
		}
		if _, err := r.worktree.Add(rel); err != nil {
			return fmt.Errorf("stage %s: %w", rel, err)
		}
	}
	return nil
}

func (r *GitRepository) Commit(ctx context.Context, message string) (*Commit, error) {
	hash, err := r.worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  DefaultAuthor,
			Email: DefaultEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	commit, err := r.repo.CommitObject(hash)
	if err != nil {
		return nil, fmt.Errorf("get commit: %w", err)
	}

	return r.toCommit(commit), nil
}

// CreateTag tags HEAD. An annotated tag requires a message; without
// annotated the tag is a lightweight ref.
func (r *GitRepository) CreateTag(ctx context.Context, name, message string, annotated bool) (*Tag, error) {
	head, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("get HEAD: %w", err)
	}

	var opts *git.CreateTagOptions
	if annotated {
		opts = &git.CreateTagOptions{
			Tagger: &object.Signature{
				Name:  DefaultAuthor,
				Email: DefaultEmail,
				When:  time.Now(),
			},
			Message: message,
		}
	}

	if _, err := r.repo.CreateTag(name, head.Hash(), opts); err != nil {
		return nil, fmt.Errorf("create tag %s: %w", name, err)
	}

	return &Tag{Name: name, Hash: head.Hash().String()}, nil
}

// helpers

// tagCommitHash resolves a tag name to the commit it points at,
// dereferencing annotated tag objects.
func (r *GitRepository) tagCommitHash(name string) (plumbing.Hash, error) {
	ref, err := r.repo.Tag(name)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolve tag %q: %w", name, err)
	}

	if obj, err := r.repo.TagObject(ref.Hash()); err == nil {
		commit, err := obj.Commit()
		if err != nil {
			return plumbing.ZeroHash, fmt.Errorf("dereference tag %q: %w", name, err)
		}
		return commit.Hash, nil
	}

	return ref.Hash(), nil
}

func (r *GitRepository) toCommit(c *object.Commit) *Commit {
	return &Commit{
		Hash:      c.Hash.String(),
		Message:   strings.TrimSpace(c.Message),
		Author:    c.Author.Name,
		Timestamp: c.Author.When,
	}
}

func canonicalTag(name string) string {
	return "v" + strings.TrimPrefix(name, "v")
}
