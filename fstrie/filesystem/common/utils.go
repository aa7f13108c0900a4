package common

import (
	"os"
	"path/filepath"
	"strings"
)

// SplitLastSegment splits path into the prefix before its last segment and the
// segment itself, using the host separator. Trailing separators are stripped
// from the prefix unless the prefix is the root, so repeated splitting always
// ends at the root ("/", a volume such as `C:\`) or at "" for relative paths.
func SplitLastSegment(path string) (head, tail string) {
	vol := filepath.VolumeName(path)
	rest := path[len(vol):]

	i := len(rest) - 1
	for i >= 0 && !os.IsPathSeparator(rest[i]) {
		i--
	}
	head, tail = rest[:i+1], rest[i+1:]

	if trimmed := strings.TrimRightFunc(head, isSeparator); trimmed != "" {
		head = trimmed
	}
	return vol + head, tail
}

// JoinPath joins components with the host separator. The first component is
// the root label and is kept as is.
func JoinPath(components []string) string {
	return filepath.Join(components...)
}

func isSeparator(r rune) bool {
	return r < 0x80 && os.IsPathSeparator(uint8(r))
}
