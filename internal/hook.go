package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const HookMarker = "# relkit: managed commit-msg hook"

const hookName = "commit-msg"

// HookScript returns the shell shim written into .git/hooks. The hook
// hands the commit message file to relkit for validation.
func HookScript() string {
	return fmt.Sprintf("#!/bin/sh\n%s\nexec relkit check-commit \"$1\"\n", HookMarker)
}

// IsManagedHook checks whether the given script content was written by
// relkit.
func IsManagedHook(content string) bool {
	return strings.Contains(content, HookMarker)
}

func hookPath(root string) string {
	return filepath.Join(root, gitDirName, "hooks", hookName)
}

// InstallHook writes the commit-msg hook into the repository at root. An
// existing foreign hook is only replaced with force, which moves it to a
// .bak file first.
func InstallHook(root string, force bool) error {
	path := hookPath(root)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create hooks directory: %w", err)
	}

	existing, err := os.ReadFile(path)
	if err == nil && !IsManagedHook(string(existing)) {
		if !force {
			return fmt.Errorf("%s hook already exists (rerun with --force to back it up)", hookName)
		}
		if err := os.WriteFile(path+".bak", existing, 0755); err != nil {
			return fmt.Errorf("back up existing hook: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(HookScript()), 0755); err != nil {
		return fmt.Errorf("write hook: %w", err)
	}
	return nil
}

// UninstallHook removes a managed commit-msg hook and restores any backup
// left behind by InstallHook.
func UninstallHook(root string) error {
	path := hookPath(root)

	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("no %s hook installed", hookName)
	}
	if err != nil {
		return fmt.Errorf("read hook: %w", err)
	}

	if !IsManagedHook(string(content)) {
		return fmt.Errorf("%s hook was not installed by relkit", hookName)
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove hook: %w", err)
	}

	if _, err := os.Stat(path + ".bak"); err == nil {
		if err := os.Rename(path+".bak", path); err != nil {
			return fmt.Errorf("restore original hook: %w", err)
		}
	}
	return nil
}

// Git-generated messages that bypass validation.
var generatedPrefixes = []string{"Merge ", "Revert ", "fixup! ", "squash! "}

// CleanCommitMessage strips comment lines and everything below the
// scissors marker from a commit message file.
func CleanCommitMessage(raw string) string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if strings.HasPrefix(line, "#") {
			if strings.Contains(line, ">8") {
				break
			}
			continue
		}
		lines = append(lines, line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// ValidateCommitMessage checks that a commit message follows the
// conventional format the release classifier understands.
func ValidateCommitMessage(message string) error {
	msg := strings.TrimSpace(message)
	if msg == "" {
		return fmt.Errorf("empty commit message")
	}

	for _, prefix := range generatedPrefixes {
		if strings.HasPrefix(msg, prefix) {
			return nil
		}
	}

	line := firstLine(msg)
	m := headerPattern.FindStringSubmatch(line)
	if m == nil {
		return fmt.Errorf("%q does not follow the conventional format <type>[(scope)][!]: <description>", line)
	}

	if _, ok := typeToBump[strings.ToLower(m[1])]; !ok {
		return fmt.Errorf("unknown commit type %q", m[1])
	}

	return nil
}
