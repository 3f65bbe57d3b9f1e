package collection

import (
	"regexp"
	"strings"
)

// userIDPrefixLen is how many leading characters of the owner's user ID are
// prepended to a derived collection name. Keeps names unique per user without
// leaking the full identifier.
const userIDPrefixLen = 10

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	invalidChars  = regexp.MustCompile(`[^\w-]+`)
	hyphenRun     = regexp.MustCompile(`-{2,}`)
)

// Slugify converts a project name into a URL-safe collection name fragment:
// lowercase, trimmed, whitespace runs collapsed to a single hyphen, characters
// outside [A-Za-z0-9_-] stripped, repeated hyphens collapsed.
//
// Slugify("The Great Gatsby!") == "the-great-gatsby".
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = whitespaceRun.ReplaceAllString(s, "-")
	s = invalidChars.ReplaceAllString(s, "")
	s = hyphenRun.ReplaceAllString(s, "-")
	return s
}

// Derive builds the per-user collection name: the first userIDPrefixLen
// characters of userID, a hyphen, then the slugified project name.
// The derivation is stable; callers that need compatibility with existing
// collections must not change it.
func Derive(userID, projectName string) string {
	prefix := userID
	if len(prefix) > userIDPrefixLen {
		prefix = prefix[:userIDPrefixLen]
	}
	return prefix + "-" + Slugify(projectName)
}
