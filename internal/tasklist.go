package internal

import (
	"regexp"
	"strings"
)

// TaskListOptions controls how tasks are extracted from a markdown body.
type TaskListOptions struct {
	// Section restricts parsing to headers containing this text
	// (case-insensitive substring match).
	Section string
	// CheckboxOnly ignores numbered and plain bullet items.
	CheckboxOnly bool
	// MaxDepth is the deepest indentation level parsed, counted in tabs
	// or two-space steps. Zero keeps top-level items only.
	MaxDepth int
	// AllBullets disables section filtering entirely.
	AllBullets bool
}

var defaultTaskSections = []string{
	"tasks",
	"sub-issues",
	"implementation tasks",
	"sub-tasks",
	"subtasks",
}

var (
	taskHeaderPattern   = regexp.MustCompile(`^##\s+`)
	taskCheckboxPattern = regexp.MustCompile(`^-\s*\[\s*\]\s*`)
	taskNumberedPattern = regexp.MustCompile(`^\d+\.\s+`)
	taskBulletPattern   = regexp.MustCompile(`^[\*-]\s+`)
)

// ParseTasks extracts task items from a markdown body. Unchecked
// checkboxes, numbered items and plain bullets count as tasks; checked
// boxes never do. Unless AllBullets is set, only items under a recognized
// "## ..." task section header are collected.
func ParseTasks(body string, opts TaskListOptions) []string {
	var tasks []string

	useSectionFilter := !opts.AllBullets
	targetSection := strings.ToLower(opts.Section)
	inTaskSection := !useSectionFilter

	for _, line := range strings.Split(body, "\n") {
		stripped := strings.TrimLeft(line, " \t")
		indent := line[:len(line)-len(stripped)]

		// Tabs count one level each, otherwise two spaces per level.
		var depth int
		if strings.Contains(indent, "\t") {
			depth = strings.Count(indent, "\t")
		} else {
			depth = len(indent) / 2
		}
		if depth > opts.MaxDepth {
			continue
		}

		trimmed := strings.TrimSpace(stripped)
		if trimmed == "" {
			continue
		}

		if useSectionFilter && taskHeaderPattern.MatchString(trimmed) {
			header := strings.ToLower(strings.TrimSpace(taskHeaderPattern.ReplaceAllString(trimmed, "")))
			if targetSection != "" {
				inTaskSection = strings.Contains(header, targetSection)
			} else {
				inTaskSection = false
				for _, sec := range defaultTaskSections {
					if strings.Contains(header, sec) {
						inTaskSection = true
						break
					}
				}
			}
			continue
		}

		if !inTaskSection {
			continue
		}

		switch {
		case taskCheckboxPattern.MatchString(trimmed):
			if task := strings.TrimSpace(taskCheckboxPattern.ReplaceAllString(trimmed, "")); task != "" {
				tasks = append(tasks, task)
			}
		case opts.CheckboxOnly:
			continue
		case taskNumberedPattern.MatchString(trimmed):
			if task := strings.TrimSpace(taskNumberedPattern.ReplaceAllString(trimmed, "")); task != "" {
				tasks = append(tasks, task)
			}
		case taskBulletPattern.MatchString(trimmed):
			task := strings.TrimSpace(taskBulletPattern.ReplaceAllString(trimmed, ""))
			// Checked boxes reach this branch as "[x] ..." and are dropped.
			if task != "" && !strings.HasPrefix(task, "[") {
				tasks = append(tasks, task)
			}
		}
	}

	return tasks
}
