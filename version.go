package parley

// Version is overridden at build time with -ldflags "-X github.com/aretw0/parley.Version=...".
var Version = "dev"
