package version

// Version is the release of commonsmeta, overridden at build time via -ldflags.
var Version = "v0.3.1"
