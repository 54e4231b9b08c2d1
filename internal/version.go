package internal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidVersion = errors.New("invalid version format")

// Version is a plain semantic version triple.
type Version struct {
	Major int
	Minor int
	Patch int
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// ParseVersion parses MAJOR.MINOR.PATCH, tolerating one leading "v".
// Each component must be a non-negative base-10 integer, so prerelease
// suffixes are rejected here; strip them with TrimPrerelease first.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(strings.TrimPrefix(s, "v"), ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}

	var nums [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
		}
		nums[i] = n
	}

	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// Bump applies level to v, resetting the lower components to zero.
func (v Version) Bump(level BumpLevel) Version {
	switch level {
	case BumpMajor:
		return Version{Major: v.Major + 1}
	case BumpMinor:
		return Version{Major: v.Major, Minor: v.Minor + 1}
	case BumpPatch:
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
	default:
		return v
	}
}

// NextVersion parses current, applies level and renders the result without
// a leading "v".
func NextVersion(current string, level BumpLevel) (string, error) {
	v, err := ParseVersion(current)
	if err != nil {
		return "", err
	}
	return v.Bump(level).String(), nil
}

// TrimPrerelease drops everything from the first hyphen on, leaving the
// numeric triple (and any "v" prefix) untouched.
func TrimPrerelease(s string) string {
	base, _, _ := strings.Cut(s, "-")
	return base
}
