package version

import "fmt"

// Set at build time, e.g.
// go build -ldflags "-X Beamcalc/internal/version.Version=1.2.0"
var (
	// Version is the semantic version of the service
	Version = "0.3.0"

	// BuildTime is the time the binary was built (set via ldflags)
	BuildTime = "unknown"

	// GitCommit is the git commit hash (set via ldflags)
	GitCommit = "unknown"
)

// String is the one-line form printed by the version command.
func String() string {
	return fmt.Sprintf("beamcalc v%s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
