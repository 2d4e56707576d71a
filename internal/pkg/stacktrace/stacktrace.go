// Package stacktrace trims goroutine dumps down to the frames worth logging.
package stacktrace

import "strings"

// InternalPaths returns the "internal/<pkg>/<file>.go:<line>" locations found
// in a raw stack trace as produced by runtime/debug.Stack.
func InternalPaths(stack []byte) []string {
	var paths []string
	for line := range strings.Lines(string(stack)) {
		line = strings.TrimSpace(line)
		idx := strings.Index(line, "/internal/")
		if idx == -1 || !strings.Contains(line, ".go:") {
			continue
		}

		loc := line[idx+1:]
		if sp := strings.IndexByte(loc, ' '); sp != -1 {
			loc = loc[:sp]
		}
		paths = append(paths, loc)
	}
	return paths
}
