// Package buildinfo exposes the version metadata stamped into the binary.
//
// Release builds overwrite the defaults with ldflags, for example:
//
//	go build -ldflags "-X github.com/repovault/repovault/buildinfo.version=v1.2.0"
package buildinfo

// Info describes one build of the binary.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildTime string `json:"build_time"`
}

var (
	version   = "dev"
	gitCommit = "unknown"
	buildTime = "unknown"
)

// Get returns the stamped build metadata.
func Get() Info {
	return Info{
		Version:   version,
		GitCommit: gitCommit,
		BuildTime: buildTime,
	}
}
