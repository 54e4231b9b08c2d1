package internal

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func setupRepo(t *testing.T) *GitRepository {
	t.Helper()

	repo, err := InitRepository(t.TempDir())
	if err != nil {
		t.Fatalf("init repo: %v", err)
	}
	return repo
}

func commitFile(t *testing.T, repo *GitRepository, name, content, message string) *Commit {
	t.Helper()
	ctx := context.Background()

	if err := os.WriteFile(filepath.Join(repo.Root(), name), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	if err := repo.Stage(ctx, name); err != nil {
		t.Fatalf("stage %s: %v", name, err)
	}

	commit, err := repo.Commit(ctx, message)
	if err != nil {
		t.Fatalf("commit %q: %v", message, err)
	}
	return commit
}

func TestFindRepoRoot(t *testing.T) {
	repo := setupRepo(t)

	nested := filepath.Join(repo.Root(), "crates", "core")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	root, err := FindRepoRoot(nested)
	if err != nil {
		t.Fatalf("find root: %v", err)
	}
	if root != repo.Root() {
		t.Errorf("root = %q, want %q", root, repo.Root())
	}
}

func TestFindRepoRootNotFound(t *testing.T) {
	_, err := FindRepoRoot(t.TempDir())
	if !errors.Is(err, ErrNotRepository) {
		t.Errorf("expected ErrNotRepository, got %v", err)
	}
}

func TestNewGitRepositoryMissing(t *testing.T) {
	_, err := NewGitRepository(t.TempDir())
	if !errors.Is(err, ErrNotRepository) {
		t.Errorf("expected ErrNotRepository, got %v", err)
	}
}

func TestCommitsSinceFullHistory(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	commitFile(t, repo, "a.txt", "a", "feat: first")
	commitFile(t, repo, "b.txt", "b", "fix: second")
	commitFile(t, repo, "c.txt", "c", "chore: third")

	commits, err := repo.CommitsSince(ctx, "")
	if err != nil {
		t.Fatalf("commits since: %v", err)
	}
	if len(commits) != 3 {
		t.Fatalf("expected 3 commits, got %d", len(commits))
	}
	if commits[0].Message != "chore: third" {
		t.Errorf("newest message = %q, want %q", commits[0].Message, "chore: third")
	}
}

func TestCommitsSinceTag(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	commitFile(t, repo, "a.txt", "a", "feat: before tag")
	commitFile(t, repo, "b.txt", "b", "fix: also before tag")

	if _, err := repo.CreateTag(ctx, "v0.1.0", "", false); err != nil {
		t.Fatalf("create tag: %v", err)
	}

	commitFile(t, repo, "c.txt", "c", "feat: after tag")
	commitFile(t, repo, "d.txt", "d", "docs: also after tag")

	commits, err := repo.CommitsSince(ctx, "v0.1.0")
	if err != nil {
		t.Fatalf("commits since: %v", err)
	}
	if len(commits) != 2 {
		t.Fatalf("expected 2 commits, got %d", len(commits))
	}
	if commits[0].Message != "docs: also after tag" {
		t.Errorf("newest message = %q, want %q", commits[0].Message, "docs: also after tag")
	}
	if commits[1].Message != "feat: after tag" {
		t.Errorf("oldest message = %q, want %q", commits[1].Message, "feat: after tag")
	}
}

func TestCommitsSinceAnnotatedTag(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	commitFile(t, repo, "a.txt", "a", "feat: before tag")

	if _, err := repo.CreateTag(ctx, "v0.1.0", "Release v0.1.0", true); err != nil {
		t.Fatalf("create tag: %v", err)
	}

	commitFile(t, repo, "b.txt", "b", "fix: after tag")

	commits, err := repo.CommitsSince(ctx, "v0.1.0")
	if err != nil {
		t.Fatalf("commits since: %v", err)
	}
	if len(commits) != 1 {
		t.Fatalf("expected 1 commit, got %d", len(commits))
	}
	if commits[0].Message != "fix: after tag" {
		t.Errorf("message = %q, want %q", commits[0].Message, "fix: after tag")
	}
}

func TestCommitsSinceTagAtHead(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	commitFile(t, repo, "a.txt", "a", "feat: only commit")
	if _, err := repo.CreateTag(ctx, "v1.0.0", "", false); err != nil {
		t.Fatalf("create tag: %v", err)
	}

	commits, err := repo.CommitsSince(ctx, "v1.0.0")
	if err != nil {
		t.Fatalf("commits since: %v", err)
	}
	if len(commits) != 0 {
		t.Errorf("expected 0 commits, got %d", len(commits))
	}
}

func TestCommitsSinceUnknownTag(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	commitFile(t, repo, "a.txt", "a", "feat: something")

	_, err := repo.CommitsSince(ctx, "v9.9.9")
	if err == nil {
		t.Error("expected error for unknown tag")
	}
}

func TestCommitMessagePreservesBody(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	message := "feat: add parser\n\nBREAKING CHANGE: output format changed"
	commitFile(t, repo, "a.txt", "a", message)

	commits, err := repo.CommitsSince(ctx, "")
	if err != nil {
		t.Fatalf("commits since: %v", err)
	}
	if len(commits) != 1 {
		t.Fatalf("expected 1 commit, got %d", len(commits))
	}
	if commits[0].Message != message {
		t.Errorf("message = %q, want %q", commits[0].Message, message)
	}
}

func TestLatestReleaseTag(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	commitFile(t, repo, "a.txt", "a", "feat: one")
	if _, err := repo.CreateTag(ctx, "v0.2.0", "", false); err != nil {
		t.Fatalf("tag v0.2.0: %v", err)
	}

	head := commitFile(t, repo, "b.txt", "b", "feat: two")
	if _, err := repo.CreateTag(ctx, "v0.10.0", "", false); err != nil {
		t.Fatalf("tag v0.10.0: %v", err)
	}
	if _, err := repo.CreateTag(ctx, "nightly", "", false); err != nil {
		t.Fatalf("tag nightly: %v", err)
	}

	latest, err := repo.LatestReleaseTag(ctx)
	if err != nil {
		t.Fatalf("latest tag: %v", err)
	}

	// Semver order, not lexical: 0.10.0 beats 0.2.0.
	if latest.Name != "v0.10.0" {
		t.Errorf("latest = %q, want %q", latest.Name, "v0.10.0")
	}
	if latest.Hash != head.Hash {
		t.Errorf("hash = %q, want %q", latest.Hash, head.Hash)
	}
}

func TestLatestReleaseTagBareNames(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	commitFile(t, repo, "a.txt", "a", "feat: one")
	if _, err := repo.CreateTag(ctx, "1.2.3", "", false); err != nil {
		t.Fatalf("tag 1.2.3: %v", err)
	}
	commitFile(t, repo, "b.txt", "b", "feat: two")
	if _, err := repo.CreateTag(ctx, "v1.10.0", "", false); err != nil {
		t.Fatalf("tag v1.10.0: %v", err)
	}

	latest, err := repo.LatestReleaseTag(ctx)
	if err != nil {
		t.Fatalf("latest tag: %v", err)
	}
	if latest.Name != "v1.10.0" {
		t.Errorf("latest = %q, want %q", latest.Name, "v1.10.0")
	}
}

func TestLatestReleaseTagNone(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	commitFile(t, repo, "a.txt", "a", "feat: untagged")

	_, err := repo.LatestReleaseTag(ctx)
	if !errors.Is(err, ErrNoTags) {
		t.Errorf("expected ErrNoTags, got %v", err)
	}
}

func TestLatestReleaseTagAnnotated(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	head := commitFile(t, repo, "a.txt", "a", "feat: one")
	if _, err := repo.CreateTag(ctx, "v1.0.0", "Release v1.0.0", true); err != nil {
		t.Fatalf("create tag: %v", err)
	}

	latest, err := repo.LatestReleaseTag(ctx)
	if err != nil {
		t.Fatalf("latest tag: %v", err)
	}

	// Annotated tags dereference to the tagged commit.
	if latest.Hash != head.Hash {
		t.Errorf("hash = %q, want %q", latest.Hash, head.Hash)
	}
}

func TestCreateTagDuplicate(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	commitFile(t, repo, "a.txt", "a", "feat: one")
	if _, err := repo.CreateTag(ctx, "v1.0.0", "", false); err != nil {
		t.Fatalf("create tag: %v", err)
	}

	_, err := repo.CreateTag(ctx, "v1.0.0", "", false)
	if err == nil {
		t.Error("expected error for duplicate tag")
	}
}

func TestLogLimit(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	commitFile(t, repo, "a.txt", "a", "feat: one")
	commitFile(t, repo, "b.txt", "b", "feat: two")
	commitFile(t, repo, "c.txt", "c", "feat: three")

	commits, err := repo.Log(ctx, 2)
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if len(commits) != 2 {
		t.Fatalf("expected 2 commits, got %d", len(commits))
	}
	if commits[0].Message != "feat: three" {
		t.Errorf("newest message = %q, want %q", commits[0].Message, "feat: three")
	}
}

func TestStageAbsolutePath(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	path := filepath.Join(repo.Root(), "Cargo.toml")
	if err := os.WriteFile(path, []byte("[package]\nname = \"x\"\nversion = \"0.1.0\"\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := repo.Stage(ctx, path); err != nil {
		t.Fatalf("stage: %v", err)
	}

	commit, err := repo.Commit(ctx, "chore: add manifest")
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if commit.Hash == "" {
		t.Error("commit hash is empty")
	}
	if commit.Author != DefaultAuthor {
		t.Errorf("author = %q, want %q", commit.Author, DefaultAuthor)
	}
}
