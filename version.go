package outliner

// Version is the release of the library and its command, set at link time for
// builds from a tag.
var Version = "0.1.0-dev"
