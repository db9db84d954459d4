package version

import "runtime/debug"

// Overridden at build time with -ldflags "-X github.com/keshon/sandbox-bot/internal/version.Version=...".
var (
	AppName = "sandbox-bot"
	Version = "dev"
)

// String returns the version with the VCS revision appended when the binary
// carries build info.
func String() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Version
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			return Version + "+" + s.Value[:7]
		}
	}
	return Version
}
