package gateway

import (
	"regexp"
	"strings"
)

// MatchEndpoint reports whether path (the full request path, prefix
// included) matches any of the declared endpoint patterns. Patterns are
// written relative to the API prefix ("/content/*", "/markers"); an empty
// pattern list admits every endpoint.
//
// A pattern matches exactly, or as a wildcard where "*" spans any sequence
// of characters. A trailing slash on the request path is tolerated.
func MatchEndpoint(prefix, path string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, pattern := range patterns {
		p := strings.TrimSpace(pattern)
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		full := prefix + p
		if path == full {
			return true
		}
		if re, err := compilePattern(full); err == nil && re.MatchString(path) {
			return true
		}
	}
	return false
}

// compilePattern turns a wildcard pattern into an anchored regexp, quoting
// every literal segment so dots in paths stay literal.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	parts := strings.Split(pattern, "*")
	for i, part := range parts {
		parts[i] = regexp.QuoteMeta(part)
	}
	return regexp.Compile("^" + strings.Join(parts, ".*") + "/?$")
}
