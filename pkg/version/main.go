// Package version holds the build metadata for linkcheck.
// It is the single source of truth for the tool name and version, which the
// config package uses to derive the default user agent.
package version

const Name = "linkcheck"

type VersionInfo struct {
	Version   string `json:"Version"`
	GitCommit string `json:"GitCommit"`
	BuildDate string `json:"BuildDate"`
}

var Version = VersionInfo{
	Version:   "0.1.0",
	GitCommit: "",
	BuildDate: "",
}
