package buildinfo

import "fmt"

var (
	// Version is set via ldflags at release time.
	Version = "dev"
	// Commit is set via ldflags at release time.
	Commit = "none"
	// Date is set via ldflags at release time.
	Date = "unknown"
)

// String returns the version line shown by `acc --version`.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
