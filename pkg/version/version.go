// Package version reports how the filekit binary was built.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set at build time, e.g.
//
//	go build -ldflags "-X 'filekit/pkg/version.Version=1.2.3' -X 'filekit/pkg/version.Commit=abcdefg'"
//
// Unset values fall back to the module and VCS data embedded by the Go toolchain.
var (
	Version   = ""
	Commit    = ""
	BuildTime = ""
)

// AppName is stamped on every log line and on the version output.
const AppName = "filekit"

// Info describes the running binary.
type Info struct {
	Version   string `yaml:"version"`
	GitCommit string `yaml:"commit"`
	BuildTime string `yaml:"buildTime"`
	Modified  bool   `yaml:"modified,omitempty"`
	GoVersion string `yaml:"goVersion"`
	Platform  string `yaml:"platform"`
}

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// Get returns the build information, preferring ldflags values.
func Get() Info {
	info := Info{
		Version:   Version,
		GitCommit: Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	if bi, ok := readBuildInfo(); ok {
		if info.Version == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.GitCommit == "" {
					info.GitCommit = s.Value
				}
			case "vcs.time":
				if info.BuildTime == "" {
					info.BuildTime = s.Value
				}
			case "vcs.modified":
				info.Modified = s.Value == "true"
			}
		}
	}

	info.Version = orDefault(info.Version, "dev")
	info.GitCommit = orDefault(info.GitCommit, "none")
	info.BuildTime = orDefault(info.BuildTime, "unknown")
	return info
}

// Short is the commit abbreviated to 7 characters.
func (i Info) Short() string {
	if len(i.GitCommit) > 7 {
		return i.GitCommit[:7]
	}
	return i.GitCommit
}

// String renders a single line, e.g.
// filekit version 1.2.3 (commit: abcdefg) built at 2026-04-27T15:04:05Z with go1.24.2 on linux/amd64
func (i Info) String() string {
	commit := i.Short()
	if i.Modified {
		commit += "-dirty"
	}
	return fmt.Sprintf("%s version %s (commit: %s) built at %s with %s on %s",
		AppName, i.Version, commit, i.BuildTime, i.GoVersion, i.Platform)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
