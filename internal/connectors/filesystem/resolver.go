package filesystem

import (
	"path/filepath"
	"strings"
)

// ResolvePath converts a corpus location to a clean local path.
// Handles file:// URIs, a leading ~ and bare paths.
func ResolvePath(location string, home string) string {
	location = strings.TrimSpace(location)

	// Strip file:// prefix for local paths
	location = strings.TrimPrefix(location, "file://")

	if home != "" && (location == "~" || strings.HasPrefix(location, "~/")) {
		location = filepath.Join(home, strings.TrimPrefix(location, "~"))
	}

	if location == "" {
		return ""
	}
	return filepath.Clean(location)
}
