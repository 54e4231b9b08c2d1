package v1

// ReleasePlan describes the version bump pending in a repository.
type ReleasePlan struct {
	CurrentVersion string `json:"current_version"`
	BumpType       string `json:"bump_type"`
	NewVersion     string `json:"new_version"`
	CommitCount    int    `json:"commit_count"`
	LastTag        string `json:"last_tag,omitempty"`
}

// Classification maps one commit message to its bump level.
type Classification struct {
	Message string `json:"message"`
	Level   string `json:"level"`
}

// ClassifyReport holds per-message classifications and their aggregate.
type ClassifyReport struct {
	Results   []Classification `json:"results"`
	Aggregate string           `json:"aggregate"`
}

// ManifestUpdate reports one manifest file touched by Apply.
type ManifestUpdate struct {
	Path       string `json:"path"`
	OldVersion string `json:"old_version,omitempty"`
	NewVersion string `json:"new_version"`
	Updated    bool   `json:"updated"`
	Note       string `json:"note,omitempty"`
}

// DependencyUpdate reports a workspace dependency pin rewritten by Apply.
type DependencyUpdate struct {
	Path    string `json:"path"`
	Package string `json:"package"`
}

// ApplyResult summarizes an Apply run.
type ApplyResult struct {
	Version      string             `json:"version"`
	Files        []ManifestUpdate   `json:"files"`
	Dependencies []DependencyUpdate `json:"dependencies,omitempty"`
	UpdatedCount int                `json:"updated_count"`
	Commit       string             `json:"commit,omitempty"`
}

// TagRef names a release tag and the commit it points at.
type TagRef struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Hash    string `json:"hash"`
}
