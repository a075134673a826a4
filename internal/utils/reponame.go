package utils

import (
	"path"
	"strings"
)

// DeriveRepoName returns the display name for a repository link: the last
// path segment of the URL, with any trailing slash and ".git" suffix removed.
func DeriveRepoName(rawURL string) string {
	trimmed := strings.TrimRight(rawURL, "/")
	name := path.Base(trimmed)
	name = strings.TrimSuffix(name, ".git")
	if name == "." || name == "/" {
		return ""
	}
	return name
}
