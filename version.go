package lcm

// Version is the release of this build. Overridden with -ldflags "-X".
var Version = "0.1.0-dev"
