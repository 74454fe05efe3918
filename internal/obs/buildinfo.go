package obs

import (
	"runtime/debug"
	"sync"
)

var (
	buildOnce sync.Once
	buildRev  string
)

// BuildRevision returns the VCS revision embedded at build time, if any.
func BuildRevision() string {
	buildOnce.Do(func() {
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				buildRev = s.Value
				return
			}
		}
	})
	return buildRev
}
