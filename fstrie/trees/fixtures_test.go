package trees

import (
	"path/filepath"
	"strings"
)

// memReader is an in-memory DirectoryReader. Directories map to their entry
// names, listed in the order given; any other known path is a file.
type memReader struct {
	dirs     map[string][]string
	files    map[string]bool
	listErrs map[string]error
	statErrs map[string]error
	listed   []string
}

func newMemReader(paths ...string) *memReader {
	r := &memReader{
		dirs:     map[string][]string{},
		files:    map[string]bool{},
		listErrs: map[string]error{},
		statErrs: map[string]error{},
	}
	for _, p := range paths {
		r.add(p)
	}
	return r
}

// add registers p; a trailing slash marks a directory. Parents are created.
func (r *memReader) add(p string) {
	isDir := strings.HasSuffix(p, "/")
	p = filepath.Clean(p)
	if isDir {
		if _, ok := r.dirs[p]; !ok {
			r.dirs[p] = nil
		}
	} else {
		r.files[p] = true
	}

	for p != "/" {
		parent := filepath.Dir(p)
		children, ok := r.dirs[parent]
		name := filepath.Base(p)
		seen := false
		for _, c := range children {
			if c == name {
				seen = true
			}
		}
		if !seen {
			r.dirs[parent] = append(children, name)
		}
		if ok {
			return
		}
		p = parent
	}
}

func (r *memReader) IsDirectory(path string) (bool, error) {
	if err := r.statErrs[path]; err != nil {
		return false, err
	}
	_, ok := r.dirs[path]
	return ok, nil
}

func (r *memReader) ListChildren(path string) ([]string, error) {
	r.listed = append(r.listed, path)
	if err := r.listErrs[path]; err != nil {
		return nil, err
	}
	return append([]string(nil), r.dirs[path]...), nil
}

func (r *memReader) JoinPath(components []string) string {
	return filepath.Join(components...)
}
