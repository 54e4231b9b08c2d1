package v1

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	repoPath    string
	dryRun      bool
	lightweight bool
	commit      bool
}

// WithRepoPath pins the repository root instead of discovering it from
// the working directory.
func WithRepoPath(path string) Option {
	return func(c *clientConfig) {
		c.repoPath = path
	}
}

// WithDryRun previews manifest changes without writing them.
func WithDryRun() Option {
	return func(c *clientConfig) {
		c.dryRun = true
	}
}

// WithLightweightTags creates lightweight tags instead of annotated ones.
func WithLightweightTags() Option {
	return func(c *clientConfig) {
		c.lightweight = true
	}
}

// WithReleaseCommits commits updated manifests after Apply.
func WithReleaseCommits() Option {
	return func(c *clientConfig) {
		c.commit = true
	}
}
