// Package version reports build metadata for the relay binary. Release
// builds stamp the variables below with -ldflags, for example
//
//	-X translator/internal/version.Version=v1.4.0
//
// Local builds fall back to the VCS revision Go records in the binary.
package version

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/google/uuid"
)

const unknown = "unknown"

var (
	Version   = unknown
	BuildDate = unknown
	GitCommit = unknown
)

// Info describes this binary and the process running it.
type Info struct {
	Version    string `json:"version"`
	GitCommit  string `json:"git_commit"`
	BuildDate  string `json:"build_date"`
	GoVersion  string `json:"go_version"`
	InstanceID string `json:"instance_id"`
	Hostname   string `json:"hostname"`
}

var (
	once sync.Once
	info Info
)

// GetInfo returns the process-wide Info. The instance ID is generated once.
func GetInfo() Info {
	once.Do(func() {
		info = Info{
			Version:    Version,
			GitCommit:  GitCommit,
			BuildDate:  BuildDate,
			GoVersion:  runtime.Version(),
			InstanceID: uuid.NewString(),
			Hostname:   hostname(),
		}
		if info.GitCommit == unknown || info.BuildDate == unknown {
			fillFromBuildInfo(&info)
		}
	})
	return info
}

// fillFromBuildInfo uses the vcs settings embedded by the go tool for
// whichever fields -ldflags left unset.
func fillFromBuildInfo(i *Info) {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && i.GitCommit == unknown && s.Value != "":
			i.GitCommit = shortRevision(s.Value)
		case s.Key == "vcs.time" && i.BuildDate == unknown && s.Value != "":
			i.BuildDate = s.Value
		}
	}
}

func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil || h == "" {
		return unknown
	}
	return h
}

func (i Info) String() string {
	return fmt.Sprintf("translator %s (commit %s, built %s, %s)", i.Version, i.GitCommit, i.BuildDate, i.GoVersion)
}

// UserAgent identifies the relay to the translation provider.
func (i Info) UserAgent() string {
	return fmt.Sprintf("translator/%s (+%s)", i.Version, i.GoVersion)
}
