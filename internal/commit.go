package internal

import (
	"fmt"
	"regexp"
	"strings"
)

// BumpLevel is the magnitude of a semantic version increment. Levels are
// ordered, so the highest one across a commit range can be picked with >.
type BumpLevel int

const (
	BumpNone BumpLevel = iota
	BumpPatch
	BumpMinor
	BumpMajor
)

func (l BumpLevel) String() string {
	switch l {
	case BumpMajor:
		return "major"
	case BumpMinor:
		return "minor"
	case BumpPatch:
		return "patch"
	default:
		return "none"
	}
}

func ParseBumpLevel(s string) (BumpLevel, error) {
	switch strings.ToLower(s) {
	case "none":
		return BumpNone, nil
	case "patch":
		return BumpPatch, nil
	case "minor":
		return BumpMinor, nil
	case "major":
		return BumpMajor, nil
	}
	return BumpNone, fmt.Errorf("unknown bump level %q", s)
}

// Conventional emoji commit header:
// optional marker glyph, optional whitespace, type, optional (scope),
// optional bang, colon, non-empty description.
var headerPattern = regexp.MustCompile(
	`^[\x{1F300}-\x{1FAFF}\x{2600}-\x{26FF}\x{2700}-\x{27BF}]?\s*` +
		`(\w+)` +
		`(?:\([^)]+\))?` +
		`(!)?` +
		`:\s*(.+)`,
)

// Markers that force a major bump when they open any line of the message.
var breakingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)^BREAKING[- ]CHANGE:`),
	regexp.MustCompile(`(?m)^\x{1F6A8}\s`),
	regexp.MustCompile(`(?m)^\x{1F4A5}\s`),
}

var typeToBump = map[string]BumpLevel{
	"feat":     BumpMinor,
	"feature":  BumpMinor,
	"fix":      BumpPatch,
	"bugfix":   BumpPatch,
	"perf":     BumpPatch,
	"revert":   BumpPatch,
	"docs":     BumpNone,
	"style":    BumpNone,
	"refactor": BumpNone,
	"test":     BumpNone,
	"build":    BumpNone,
	"ci":       BumpNone,
	"chore":    BumpNone,
}

// Classify maps one full commit message (subject plus body) to the bump
// level it calls for. Messages that do not follow the conventional format
// classify as BumpNone; classification never fails.
func Classify(message string) BumpLevel {
	for _, p := range breakingPatterns {
		if p.MatchString(message) {
			return BumpMajor
		}
	}

	line := firstLine(message)
	m := headerPattern.FindStringSubmatch(line)
	if m == nil {
		return BumpNone
	}

	// A bang anywhere in the line counts as breaking unless it is the
	// "!:" form. Plain containment, so a bang inside the description
	// triggers it too.
	if strings.Contains(line, "!") && !strings.Contains(line, "!:") {
		return BumpMajor
	}

	// The "!:" form is breaking as well, but only when the bang sits in
	// the header position right before the colon.
	if m[2] == "!" {
		return BumpMajor
	}

	return typeToBump[strings.ToLower(m[1])]
}

// Aggregate classifies every message and returns the highest level found.
// Scanning stops early on a major bump since nothing outranks it. An empty
// sequence aggregates to BumpNone.
func Aggregate(messages []string) BumpLevel {
	highest := BumpNone
	for _, msg := range messages {
		if level := Classify(msg); level > highest {
			highest = level
			if highest == BumpMajor {
				break
			}
		}
	}
	return highest
}

func firstLine(message string) string {
	line, _, _ := strings.Cut(message, "\n")
	return strings.TrimSpace(line)
}
