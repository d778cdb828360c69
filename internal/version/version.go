package version

// Version is the build version, overridden at link time via
// -ldflags "-X github.com/stashkeep/stash-api/internal/version.Version=...".
var Version = "dev"
