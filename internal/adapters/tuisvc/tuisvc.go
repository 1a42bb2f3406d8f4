// Package tuisvc implements ports.TUIService over the scan and extract services.
package tuisvc

import (
	"github.com/mcdonaldj/icograb/internal/adapters/exec7z"
	"github.com/mcdonaldj/icograb/internal/extract"
	"github.com/mcdonaldj/icograb/internal/ports"
	"github.com/mcdonaldj/icograb/internal/scan"
)

// Service provides the operations the TUI needs, backed by real dependencies.
type Service struct {
	scanner   *scan.Service
	extractor *extract.Service
	tool      ports.ArchiveTool
	outputDir string
}

// New creates a TUI service driving the 7-Zip binary at zipPath and writing
// icons into outputDir. Non-fatal listing-parse warnings are delivered to warn.
func New(zipPath, outputDir string, warn func(msg string)) *Service {
	return &Service{
		scanner:   scan.NewDefaultService(),
		extractor: extract.NewDefaultService(zipPath, warn),
		tool:      exec7z.New(exec7z.WithPath(zipPath), exec7z.WithWarn(warn)),
		outputDir: outputDir,
	}
}

// Discover scans the given paths for executables and pre-lists their icon
// entries. Listing failures mark the item instead of failing discovery.
func (s *Service) Discover(paths []string, recursive bool) ([]ports.ExeItem, error) {
	res := s.scanner.Find(paths, scan.Options{
		Extensions:       []string{".exe"},
		Recursive:        recursive,
		ResolveShortcuts: true,
	})

	items := make([]ports.ExeItem, 0, len(res.Matches))
	for _, exe := range res.Matches {
		entries, err := s.tool.ListIcons(exe)
		if err != nil {
			items = append(items, ports.ExeItem{Path: exe, ListFailed: true})
			continue
		}
		item := ports.ExeItem{Path: exe, IconCount: len(entries)}
		if len(entries) > 0 {
			// Entries are sorted largest-first.
			item.LargestSize = entries[0].Size
		}
		items = append(items, item)
	}
	return items, nil
}

// Extract extracts the icons of one executable into the output directory.
func (s *Service) Extract(exePath string, largestOnly bool) (int, error) {
	run, err := s.extractor.Run([]string{exePath}, extract.Options{
		OutputDir:   s.outputDir,
		LargestOnly: largestOnly,
	})
	if err != nil {
		return 0, err
	}
	return run.Icons, nil
}

// OutputDir returns the directory extracted icons are written to.
func (s *Service) OutputDir() string {
	return s.outputDir
}

// Compile-time check that Service implements ports.TUIService.
var _ ports.TUIService = (*Service)(nil)
