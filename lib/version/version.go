package version

import (
	"fmt"
	"runtime"
)

// Version follows SemVer; the rest is set by the build with `-ldflags -X`.
var (
	Version   string = "0.1.0"
	GitCommit string
	GitState  string
	BuildDate string
)

func ToDetailVersion() string {
	commit := GitCommit
	if GitState == "dirty" {
		commit += "+dirty"
	}

	return fmt.Sprintf("tokenpoll %s git=%s build=%s %s", Version, commit, BuildDate, runtime.Version())
}
