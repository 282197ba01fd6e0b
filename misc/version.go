// Package misc provides program identification used across the code base.
package misc

import (
	"runtime/debug"
	"sync"
)

const appName = "deckc"

// set by linker during official builds
var (
	version string
	gitHash string
)

var readBuildInfo = sync.OnceFunc(func() {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if len(version) == 0 {
		version = bi.Main.Version
	}
	if len(gitHash) == 0 {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				gitHash = s.Value
				break
			}
		}
	}
})

// GetAppName returns short program name used in logs, temporary file names
// and reports.
func GetAppName() string {
	return appName
}

// GetVersion returns program version.
func GetVersion() string {
	readBuildInfo()
	if len(version) == 0 {
		return "(devel)"
	}
	return version
}

// GetGitHash returns VCS revision program was built from.
func GetGitHash() string {
	readBuildInfo()
	if len(gitHash) == 0 {
		return "unknown"
	}
	return gitHash
}
