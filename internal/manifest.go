package internal

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// ManifestUpdate describes what happened to one manifest file.
type ManifestUpdate struct {
	Path       string
	OldVersion string
	NewVersion string
	Updated    bool
	Note       string
	Diff       string
}

// DependencyUpdate records a rewritten dependency reference.
type DependencyUpdate struct {
	Path    string
	Package string
}

var (
	// Cargo.toml: the first version key after the [package] header.
	cargoVersionPattern = regexp.MustCompile(`(?ms)^\[package\].*?^version\s*=\s*"([^"]+)"`)
	// package.json style: a top-level looking "version" key.
	jsonVersionPattern = regexp.MustCompile(`(?m)^\s*"version"\s*:\s*"([^"]+)"`)

	cargoPackageNamePattern = regexp.MustCompile(`(?ms)^\[package\].*?^name\s*=\s*"([^"]+)"`)

	targetVersionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+(-[a-zA-Z0-9.-]+)?$`)
)

var manifestVersionPatterns = []*regexp.Regexp{
	cargoVersionPattern,
	jsonVersionPattern,
}

// NormalizeTargetVersion strips one leading "v" and validates the result
// as X.Y.Z with an optional prerelease suffix. Unlike ParseVersion this is
// the write-side check, so prerelease targets are allowed.
func NormalizeTargetVersion(s string) (string, error) {
	v := strings.TrimPrefix(s, "v")
	if !targetVersionPattern.MatchString(v) {
		return "", fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}
	return v, nil
}

// UpdateVersionContent rewrites the first package version field found in
// content and returns the new content, the old version and whether a
// field was found. Only the first match is touched.
func UpdateVersionContent(content, newVersion string) (string, string, bool) {
	for _, p := range manifestVersionPatterns {
		loc := p.FindStringSubmatchIndex(content)
		if loc == nil {
			continue
		}
		old := content[loc[2]:loc[3]]
		return content[:loc[2]] + newVersion + content[loc[3]:], old, true
	}
	return content, "", false
}

// UpdateDependencyContent rewrites every inline-table dependency entry for
// pkg, e.g. `pkg = { version = "1.2.3", path = "../pkg" }`.
func UpdateDependencyContent(content, pkg, newVersion string) (string, bool) {
	p := regexp.MustCompile(`(?m)^(` + regexp.QuoteMeta(pkg) + `\s*=\s*\{[^}]*version\s*=\s*)"[^"]+"`)
	if !p.MatchString(content) {
		return content, false
	}
	return p.ReplaceAllString(content, `${1}"`+newVersion+`"`), true
}

// ManifestPackageName extracts the package name from the [package] section.
func ManifestPackageName(content string) (string, bool) {
	m := cargoPackageNamePattern.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// IsWorkspaceRoot reports whether content declares a [workspace] section.
func IsWorkspaceRoot(content string) bool {
	return strings.Contains(content, "[workspace]")
}

// UpdateManifestFile applies UpdateVersionContent to the file at path.
// With dryRun set nothing is written; the returned update still carries
// the old version and a line diff of what would change.
func UpdateManifestFile(path, newVersion string, dryRun bool) (*ManifestUpdate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	content := string(data)
	updated, old, ok := UpdateVersionContent(content, newVersion)

	upd := &ManifestUpdate{Path: path, NewVersion: newVersion}
	if !ok {
		upd.Note = "no version field found"
		return upd, nil
	}

	upd.OldVersion = old
	upd.Updated = true
	upd.Diff = DiffPreview(content, updated)

	if !dryRun {
		if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
			return nil, fmt.Errorf("write manifest: %w", err)
		}
	}
	return upd, nil
}

// UpdateDependencyFile applies UpdateDependencyContent to the file at path.
func UpdateDependencyFile(path, pkg, newVersion string, dryRun bool) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	updated, ok := UpdateDependencyContent(string(data), pkg, newVersion)
	if !ok {
		return false, nil
	}

	if !dryRun {
		if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
			return false, fmt.Errorf("write manifest: %w", err)
		}
	}
	return true, nil
}

// DiffPreview renders the changed lines between two file contents as a
// compact -/+ listing.
func DiffPreview(before, after string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		default:
			continue
		}
		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			fmt.Fprintf(&sb, "%s%s\n", prefix, line)
		}
	}
	return sb.String()
}
