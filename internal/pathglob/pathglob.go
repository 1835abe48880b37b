// Package pathglob expands image path specs (literal paths or globs)
// strictly beneath an allow-listed set of root directories.
//
// A spec that resolves outside every allowed root yields zero matches, not
// an error: traversal attempts look exactly like typos and neither should
// reveal anything about the filesystem outside the sandbox.
package pathglob

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ErrScanLimit reports that expansion visited more files than allowed.
var ErrScanLimit = errors.New("file scan limit exceeded")

// Options bounds one expansion.
type Options struct {
	// Recursive matches the spec's base name pattern anywhere under the
	// spec's directory instead of in that directory only.
	Recursive bool
	// AllowedRoots is the sandbox. Empty means nothing matches.
	AllowedRoots []string
	// MaxFilesScanned caps directory entries visited before failing.
	MaxFilesScanned int
	// MaxMatches caps the returned paths per spec.
	MaxMatches int
}

// Expand resolves spec relative to baseDir and returns the matching regular
// files, sorted, capped at MaxMatches. Only paths inside AllowedRoots are
// returned.
func Expand(spec, baseDir string, opts Options) ([]string, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}

	pattern := filepath.FromSlash(spec)
	if !filepath.IsAbs(pattern) {
		pattern = filepath.Join(baseDir, pattern)
	}
	pattern = filepath.Clean(pattern)

	roots, err := cleanRoots(opts.AllowedRoots)
	if err != nil {
		return nil, err
	}

	dir, base := splitPattern(pattern)
	if !insideAny(dir, roots) {
		return nil, nil
	}

	scanned := 0
	var matches []string
	add := func(path string, info fs.DirEntry) error {
		scanned++
		if opts.MaxFilesScanned > 0 && scanned > opts.MaxFilesScanned {
			return fmt.Errorf("%w: more than %d files visited", ErrScanLimit, opts.MaxFilesScanned)
		}
		if info != nil && !info.Type().IsRegular() {
			return nil
		}
		if !insideAny(path, roots) {
			return nil
		}
		matches = append(matches, path)
		return nil
	}

	if opts.Recursive {
		err = filepath.WalkDir(dir, func(path string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				if errors.Is(walkErr, fs.ErrNotExist) {
					return nil
				}
				return walkErr
			}
			if entry.IsDir() {
				return nil
			}
			ok, matchErr := filepath.Match(base, entry.Name())
			if matchErr != nil {
				return matchErr
			}
			if !ok {
				scanned++
				if opts.MaxFilesScanned > 0 && scanned > opts.MaxFilesScanned {
					return fmt.Errorf("%w: more than %d files visited", ErrScanLimit, opts.MaxFilesScanned)
				}
				return nil
			}
			return add(path, entry)
		})
		if errors.Is(err, fs.ErrNotExist) {
			err = nil
		}
	} else if hasMeta(base) {
		var globbed []string
		globbed, err = filepath.Glob(pattern)
		if err == nil {
			for _, path := range globbed {
				info, statErr := os.Lstat(path)
				if statErr != nil {
					continue
				}
				if !info.Mode().IsRegular() {
					scanned++
					continue
				}
				if addErr := add(path, nil); addErr != nil {
					err = addErr
					break
				}
			}
		}
	} else {
		info, statErr := os.Lstat(pattern)
		if statErr == nil && info.Mode().IsRegular() {
			err = add(pattern, nil)
		}
	}
	if err != nil {
		return nil, err
	}

	slices.Sort(matches)
	if opts.MaxMatches > 0 && len(matches) > opts.MaxMatches {
		matches = matches[:opts.MaxMatches]
	}
	return matches, nil
}

func cleanRoots(roots []string) ([]string, error) {
	out := make([]string, 0, len(roots))
	for _, root := range roots {
		root = strings.TrimSpace(root)
		if root == "" {
			continue
		}
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("resolve allowed root %q: %w", root, err)
		}
		out = append(out, filepath.Clean(abs))
	}
	return out, nil
}

// splitPattern separates the fixed directory prefix from the first segment
// containing glob metacharacters.
func splitPattern(pattern string) (dir, base string) {
	dir = pattern
	base = ""
	segments := strings.Split(pattern, string(filepath.Separator))
	for i, segment := range segments {
		if hasMeta(segment) {
			dir = strings.Join(segments[:i], string(filepath.Separator))
			base = segments[len(segments)-1]
			if dir == "" {
				dir = string(filepath.Separator)
			}
			return dir, base
		}
	}
	return filepath.Dir(pattern), filepath.Base(pattern)
}

func hasMeta(segment string) bool {
	return strings.ContainsAny(segment, "*?[")
}

func insideAny(path string, roots []string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	abs = filepath.Clean(abs)
	for _, root := range roots {
		rel, err := filepath.Rel(root, abs)
		if err != nil {
			continue
		}
		if rel == "." || (!strings.HasPrefix(rel, ".."+string(filepath.Separator)) && rel != "..") {
			return true
		}
	}
	return false
}
