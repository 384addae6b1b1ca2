package sqlite

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

const memoryPath = ":memory:"

// parseDSN turns a sqlite:// DSN into the path modernc expects. The query
// string is carried over untouched; relative paths are anchored at ".".
func parseDSN(dsn string) (string, error) {
	rest, ok := strings.CutPrefix(dsn, "sqlite://")
	if !ok {
		return "", fmt.Errorf("invalid sqlite DSN scheme, expected sqlite://")
	}

	path, query, hasQuery := strings.Cut(rest, "?")
	if path == "" {
		return "", fmt.Errorf("sqlite DSN has no path")
	}

	if path != memoryPath {
		unescaped, err := url.PathUnescape(path)
		if err != nil {
			return "", fmt.Errorf("unescaping path: %w", err)
		}
		path = unescaped
		if !filepath.IsAbs(path) && !strings.HasPrefix(path, "./") {
			path = "./" + path
		}
	}

	if hasQuery {
		return path + "?" + query, nil
	}
	return path, nil
}

// isMemory reports whether a parsed DSN names an in-memory database.
func isMemory(driverDSN string) bool {
	path, _, _ := strings.Cut(driverDSN, "?")
	return path == memoryPath
}
