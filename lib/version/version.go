package version

// Version is set with -ldflags on release builds.
var Version = "v0.1.0-HEAD"
