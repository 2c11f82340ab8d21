// Package topic validates hierarchical topic paths such as
// "algorithms/trees/binary_trees".
package topic

import (
	"fmt"
	"strings"
)

// ValidatePath checks a slash-delimited topic path: no leading or trailing
// slash, at least one non-empty segment.
func ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("topic path is empty")
	}
	if strings.Trim(path, "/") != path {
		return fmt.Errorf("topic path %q must not have leading or trailing slashes", path)
	}
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			return fmt.Errorf("topic path %q contains an empty segment", path)
		}
	}
	return nil
}

// Segments splits a validated path into its segments.
func Segments(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
