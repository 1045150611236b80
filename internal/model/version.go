package model

// Version is the current release, overridden with -ldflags at build time.
var Version = "v0.3.0"
