package version

// Version is the current commithelper release.
const Version = "0.1.0"

// FullVersion returns the version with the v prefix, as tagged in git.
func FullVersion() string {
	return "v" + Version
}
