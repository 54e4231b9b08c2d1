package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestClassifyCmdSingleMessage(t *testing.T) {
	cases := []struct {
		message string
		want    string
	}{
		{"feat: add parser", "minor"},
		{"fix: close handle", "patch"},
		{"feat!: drop old api", "major"},
		{"chore: tidy imports", "none"},
		{"random text", "none"},
	}

	for _, tc := range cases {
		root := NewRootCmd("test", newApp())
		root.SetArgs([]string{"classify", tc.message})
		var out bytes.Buffer
		root.SetOut(&out)
		if err := root.Execute(); err != nil {
			t.Fatalf("classify %q: %v", tc.message, err)
		}
		if got := strings.TrimSpace(out.String()); got != tc.want {
			t.Errorf("classify %q = %q, want %q", tc.message, got, tc.want)
		}
	}
}

func TestClassifyCmdMultipleMessages(t *testing.T) {
	root := NewRootCmd("test", newApp())
	root.SetArgs([]string{"classify", "fix: a leak", "chore: cleanup"})
	var out bytes.Buffer
	root.SetOut(&out)
	if err := root.Execute(); err != nil {
		t.Fatalf("classify: %v", err)
	}

	output := out.String()
	if !strings.Contains(output, "fix: a leak") {
		t.Errorf("output = %q, want per-message line for fix", output)
	}
	if !strings.Contains(output, "aggregate: patch") {
		t.Errorf("output = %q, want 'aggregate: patch'", output)
	}
}

func TestClassifyCmdStdin(t *testing.T) {
	root := NewRootCmd("test", newApp())
	root.SetArgs([]string{"classify"})
	root.SetIn(strings.NewReader("fix: repair the seal\n"))
	var out bytes.Buffer
	root.SetOut(&out)
	if err := root.Execute(); err != nil {
		t.Fatalf("classify stdin: %v", err)
	}

	if got := strings.TrimSpace(out.String()); got != "patch" {
		t.Errorf("classify = %q, want %q", got, "patch")
	}
}

func TestClassifyCmdStdinEmpty(t *testing.T) {
	root := NewRootCmd("test", newApp())
	root.SetArgs([]string{"classify"})
	root.SetIn(strings.NewReader(""))
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)

	if err := root.Execute(); err == nil {
		t.Fatal("expected error for empty stdin")
	}
}

func TestClassifyCmdBreakingFooter(t *testing.T) {
	root := NewRootCmd("test", newApp())
	root.SetArgs([]string{"classify"})
	root.SetIn(strings.NewReader("fix: adjust defaults\n\nBREAKING CHANGE: renamed the config key\n"))
	var out bytes.Buffer
	root.SetOut(&out)
	if err := root.Execute(); err != nil {
		t.Fatalf("classify: %v", err)
	}

	if got := strings.TrimSpace(out.String()); got != "major" {
		t.Errorf("classify = %q, want %q", got, "major")
	}
}

func TestClassifyCmdJSON(t *testing.T) {
	root := NewRootCmd("test", newApp())
	root.SetArgs([]string{"classify", "--json", "feat: add parser", "fix: a leak"})
	var out bytes.Buffer
	root.SetOut(&out)
	if err := root.Execute(); err != nil {
		t.Fatalf("classify --json: %v", err)
	}

	var result struct {
		Results []struct {
			Message string `json:"message"`
			Level   string `json:"level"`
		} `json:"results"`
		Aggregate string `json:"aggregate"`
	}
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatalf("parse JSON: %v", err)
	}

	if len(result.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(result.Results))
	}
	if result.Results[0].Level != "minor" {
		t.Errorf("results[0].level = %q, want minor", result.Results[0].Level)
	}
	if result.Aggregate != "minor" {
		t.Errorf("aggregate = %q, want minor", result.Aggregate)
	}
}

func TestClassifyCmdFromLog(t *testing.T) {
	a, repo, dir := setupE2E(t)

	writeRepoFile(t, dir, "one.rs", "pub fn one() {}\n")
	commitPaths(t, repo, "fix: first repair", "one.rs")
	writeRepoFile(t, dir, "two.rs", "pub fn two() {}\n")
	commitPaths(t, repo, "feat: second feature", "two.rs")

	root := NewRootCmd("test", a)
	root.SetArgs([]string{"classify", "--repo", dir, "-n", "2"})
	var out bytes.Buffer
	root.SetOut(&out)
	if err := root.Execute(); err != nil {
		t.Fatalf("classify -n 2: %v", err)
	}

	output := out.String()
	if !strings.Contains(output, "feat: second feature") {
		t.Errorf("output = %q, want newest commit line", output)
	}
	if !strings.Contains(output, "fix: first repair") {
		t.Errorf("output = %q, want older commit line", output)
	}
	if !strings.Contains(output, "aggregate: minor") {
		t.Errorf("output = %q, want 'aggregate: minor'", output)
	}
}
