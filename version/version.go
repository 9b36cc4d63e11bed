package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set at build time via -ldflags, for example:
//
//	go build -ldflags "-X github.com/Kagamine/DataProtection/version.Version=1.2.0"
var (
	// Version is the semantic version of the build. "dev" when not set.
	Version = "dev"

	// Commit is the VCS revision the build was produced from.
	Commit = ""

	// BuildTime is the build timestamp in RFC 3339 form.
	BuildTime = ""
)

// Info describes the running build.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
	GoVersion string `json:"go_version"`
	Modified  bool   `json:"modified,omitempty"`
}

// Get assembles build information. Fields not provided through ldflags
// are filled from the build info embedded in the binary, when present.
func Get() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = setting.Value
			}
		case "vcs.time":
			if info.BuildTime == "" {
				info.BuildTime = setting.Value
			}
		case "vcs.modified":
			info.Modified = setting.Value == "true"
		}
	}
	return info
}

// Short returns a compact build tag such as "1.2.0+3f9c2ab", suitable
// for log fields and telemetry attributes. Locally modified builds are
// suffixed with "-dirty".
func (i Info) Short() string {
	if i.Commit == "" {
		return i.Version
	}
	commit := i.Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	s := fmt.Sprintf("%s+%s", i.Version, commit)
	if i.Modified {
		s += "-dirty"
	}
	return s
}

// String returns a one-line human-readable build description.
func (i Info) String() string {
	s := i.Short()
	if i.BuildTime != "" {
		s += " built " + i.BuildTime
	}
	return s + " (" + i.GoVersion + ")"
}
