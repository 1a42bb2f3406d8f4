// Package scan discovers candidate executables among files, directories, and
// shortcut targets.
package scan

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mcdonaldj/icograb/internal/adapters/lnkresolver"
	"github.com/mcdonaldj/icograb/internal/adapters/osfs"
	"github.com/mcdonaldj/icograb/internal/ports"
)

// ShortcutExt is the extension of Windows shortcut files.
const ShortcutExt = ".lnk"

// Options configures a Find call.
type Options struct {
	// Extensions are the target file extensions, compared case-insensitively.
	Extensions []string
	// Recursive scans nested subdirectories. The immediate contents of a
	// directory input are always scanned.
	Recursive bool
	// ResolveShortcuts follows .lnk files to their targets.
	ResolveShortcuts bool
}

// Result is the outcome of a Find call. Matches are deduplicated and sorted.
// Missing and Unresolved record which inputs were skipped and why.
type Result struct {
	Matches    []string
	Missing    []string // input paths that do not exist
	Unresolved []string // shortcuts whose target could not be resolved
}

// Service collects matching file paths with injected dependencies.
type Service struct {
	fs        ports.FileSystem
	shortcuts ports.ShortcutResolver
}

// NewService creates a new collector with the given dependencies.
func NewService(fs ports.FileSystem, shortcuts ports.ShortcutResolver) *Service {
	return &Service{
		fs:        fs,
		shortcuts: shortcuts,
	}
}

// NewDefaultService creates a collector with real production dependencies.
func NewDefaultService() *Service {
	return NewService(osfs.New(), lnkresolver.New())
}

// Find returns the set of files under the input paths whose extension is in
// opts.Extensions. Directory inputs are scanned one level deep unless
// opts.Recursive is set. Inputs that do not exist are skipped, not fatal.
func (s *Service) Find(inputs []string, opts Options) Result {
	wanted := make(map[string]bool, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		wanted[strings.ToLower(ext)] = true
	}

	matches := make(map[string]bool)
	var res Result

	for _, input := range inputs {
		info, err := s.fs.Stat(input)
		if err != nil {
			res.Missing = append(res.Missing, input)
			continue
		}

		if !info.IsDir() {
			s.consider(input, wanted, opts, matches, &res)
			continue
		}

		if opts.Recursive {
			_ = s.fs.Walk(input, func(path string, fi os.FileInfo, err error) error {
				if err != nil || fi.IsDir() {
					return nil
				}
				s.consider(path, wanted, opts, matches, &res)
				return nil
			})
			continue
		}

		dirents, err := s.fs.ReadDir(input)
		if err != nil {
			res.Missing = append(res.Missing, input)
			continue
		}
		for _, ent := range dirents {
			if ent.IsDir() {
				continue
			}
			s.consider(filepath.Join(input, ent.Name()), wanted, opts, matches, &res)
		}
	}

	res.Matches = make([]string, 0, len(matches))
	for path := range matches {
		res.Matches = append(res.Matches, path)
	}
	sort.Strings(res.Matches)
	return res
}

// consider applies the extension and shortcut rules to one candidate file.
func (s *Service) consider(path string, wanted map[string]bool, opts Options, matches map[string]bool, res *Result) {
	ext := strings.ToLower(filepath.Ext(path))
	if wanted[ext] {
		matches[path] = true
		return
	}

	if !opts.ResolveShortcuts || ext != ShortcutExt {
		return
	}
	target, err := s.shortcuts.Resolve(path)
	if err != nil {
		res.Unresolved = append(res.Unresolved, path)
		return
	}
	if wanted[strings.ToLower(filepath.Ext(target))] {
		matches[target] = true
	}
}
