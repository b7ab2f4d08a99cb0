package version

// Version is the current version of kplan.
const Version = "0.1.0"
