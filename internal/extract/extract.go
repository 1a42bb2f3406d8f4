// Package extract orchestrates icon extraction: staging-directory lifecycle,
// per-entry extraction and renaming, and collision-free moves into the output
// directory.
package extract

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/mcdonaldj/icograb/internal/adapters/exec7z"
	"github.com/mcdonaldj/icograb/internal/adapters/osfs"
	"github.com/mcdonaldj/icograb/internal/manifest"
	"github.com/mcdonaldj/icograb/internal/ports"
	"github.com/mcdonaldj/icograb/internal/sniff"
)

// StagingDirName is the staging subdirectory created under the output directory.
const StagingDirName = "temp-output"

var (
	// ErrUnknownFormat marks an extension-less extraction whose image format
	// could not be identified. The entry is dropped.
	ErrUnknownFormat = errors.New("could not identify image format")

	// ErrMissingOutput marks an extraction that reported success but left no
	// file at the expected staging path.
	ErrMissingOutput = errors.New("extracted file not found in staging directory")
)

// IconResult is the outcome for one attempted entry.
type IconResult struct {
	Entry ports.IconEntry
	Path  string // final output path, empty on failure
	Err   error  // nil on success
}

// FileResult is the outcome for one executable.
type FileResult struct {
	Exe     string
	Icons   []IconResult // one per attempted entry
	Count   int          // successful extractions
	NoIcons bool
	ListErr error
}

// RunResult summarizes a whole run.
type RunResult struct {
	Files       []FileResult
	Icons       int
	Executables int
}

// Options configures a Run call.
type Options struct {
	OutputDir   string
	LargestOnly bool
	Manifest    bool
	// OnFile, when set, is called after each executable is processed.
	OnFile func(FileResult)
}

// Service performs icon extraction with injected dependencies.
type Service struct {
	tool ports.ArchiveTool
	fs   ports.FileSystem
}

// NewService creates a new extraction service with the given dependencies.
func NewService(tool ports.ArchiveTool, fs ports.FileSystem) *Service {
	return &Service{
		tool: tool,
		fs:   fs,
	}
}

// NewDefaultService creates an extraction service driving the 7-Zip binary at
// zipPath against the real filesystem. Non-fatal listing-parse warnings are
// delivered to warn.
func NewDefaultService(zipPath string, warn func(msg string)) *Service {
	return NewService(exec7z.New(exec7z.WithPath(zipPath), exec7z.WithWarn(warn)), osfs.New())
}

// Run processes the executables in order: prepares the staging directory,
// extracts each executable's icons into the output directory, and removes the
// staging directory again. Per-executable failures are recorded in the result,
// never aborting the run.
func (s *Service) Run(exes []string, opts Options) (run RunResult, err error) {
	run = RunResult{Executables: len(exes)}

	staging, err := s.PrepareStaging(opts.OutputDir)
	if err != nil {
		return run, err
	}
	// Staging is removed however the run ends; by then it is empty again.
	defer func() {
		if rerr := s.RemoveStaging(staging); rerr != nil && err == nil {
			err = fmt.Errorf("removing staging dir: %w", rerr)
		}
	}()

	var m *manifest.Manifest
	if opts.Manifest {
		if m, err = manifest.Load(opts.OutputDir); err != nil {
			return run, fmt.Errorf("loading manifest: %w", err)
		}
	}

	for _, exe := range exes {
		fr := s.processFile(exe, staging, opts)
		run.Files = append(run.Files, fr)
		run.Icons += fr.Count

		if m != nil {
			s.record(m, fr)
		}
		if opts.OnFile != nil {
			opts.OnFile(fr)
		}
	}

	if m != nil {
		if err := m.Save(opts.OutputDir); err != nil {
			return run, fmt.Errorf("saving manifest: %w", err)
		}
	}
	return run, nil
}

// processFile lists one executable's icon entries and extracts them. Listing
// failures and empty listings are recorded, not returned.
func (s *Service) processFile(exe, staging string, opts Options) FileResult {
	entries, err := s.tool.ListIcons(exe)
	if err != nil {
		return FileResult{Exe: exe, ListErr: err}
	}
	if len(entries) == 0 {
		return FileResult{Exe: exe, NoIcons: true}
	}
	return s.ExtractIcons(exe, entries, opts.OutputDir, staging, opts.LargestOnly)
}

// PrepareStaging creates a fresh staging directory under outputDir. A leftover
// staging directory from a prior run is renamed aside to a timestamped trash
// name first, so its contents stay recoverable.
func (s *Service) PrepareStaging(outputDir string) (string, error) {
	staging := filepath.Join(outputDir, StagingDirName)
	if _, err := s.fs.Stat(staging); err == nil {
		trash := fmt.Sprintf("%s-trashed-%s", staging, time.Now().Format("20060102-150405"))
		if err := s.fs.Rename(staging, trash); err != nil {
			return "", fmt.Errorf("moving stale staging dir aside: %w", err)
		}
	}
	if err := s.fs.MkdirAll(staging, 0755); err != nil {
		return "", fmt.Errorf("creating staging dir: %w", err)
	}
	return staging, nil
}

// RemoveStaging removes the staging directory. It must be empty by the time
// the run completes.
func (s *Service) RemoveStaging(staging string) error {
	return s.fs.Remove(staging)
}

// ExtractIcons extracts the listed entries of one executable, moving each
// staged file into outputDir under a collision-free name derived from the
// executable's stem. With largestOnly set it stops after the first success;
// entries arrive sorted largest-first, so that is the biggest icon available.
func (s *Service) ExtractIcons(exePath string, entries []ports.IconEntry, outputDir, staging string, largestOnly bool) FileResult {
	result := FileResult{Exe: exePath}
	stem := strings.TrimSuffix(filepath.Base(exePath), filepath.Ext(exePath))

	for _, entry := range entries {
		staged, err := s.extractOne(exePath, entry, staging)
		if err != nil {
			result.Icons = append(result.Icons, IconResult{Entry: entry, Err: err})
			continue
		}

		target, err := s.freeTarget(outputDir, stem, filepath.Ext(staged))
		if err != nil {
			_ = s.fs.Remove(staged)
			result.Icons = append(result.Icons, IconResult{Entry: entry, Err: err})
			continue
		}
		if err := s.fs.Rename(staged, target); err != nil {
			// Drop the staged file so the staging dir stays empty.
			_ = s.fs.Remove(staged)
			result.Icons = append(result.Icons, IconResult{Entry: entry, Err: fmt.Errorf("moving icon to output dir: %w", err)})
			continue
		}

		result.Icons = append(result.Icons, IconResult{Entry: entry, Path: target})
		result.Count++
		if largestOnly {
			break
		}
	}
	return result
}

// extractOne pulls one entry into the staging directory and returns the path
// of the staged file. When the entry's name has no extension the image format
// is sniffed from the file header and the file renamed accordingly.
func (s *Service) extractOne(exePath string, entry ports.IconEntry, staging string) (string, error) {
	if err := s.tool.Extract(exePath, entry.Path, staging); err != nil {
		return "", err
	}

	staged := filepath.Join(staging, baseName(entry.Path))
	if _, err := s.fs.Stat(staged); err != nil {
		return "", fmt.Errorf("%w: %s", ErrMissingOutput, staged)
	}
	if filepath.Ext(staged) != "" {
		return staged, nil
	}

	data, err := s.fs.ReadFile(staged)
	if err != nil {
		_ = s.fs.Remove(staged)
		return "", err
	}
	ext, err := sniff.DetectExtension(data)
	if err != nil {
		// Drop the unidentifiable file so the staging dir stays empty.
		_ = s.fs.Remove(staged)
		return "", fmt.Errorf("%w for %s: %v", ErrUnknownFormat, staged, err)
	}

	renamed := staged + ext
	if err := s.fs.Rename(staged, renamed); err != nil {
		_ = s.fs.Remove(staged)
		return "", err
	}
	return renamed, nil
}

// freeTarget returns the first free output path for stem+ext, probing
// "stem (2)", "stem (3)", ... on collision. A name counts as free only when
// Stat reports not-exist; any other probe failure is returned so an existing
// file is never overwritten on the strength of a failed Stat.
func (s *Service) freeTarget(outputDir, stem, ext string) (string, error) {
	target := filepath.Join(outputDir, stem+ext)
	for n := 2; ; n++ {
		_, err := s.fs.Stat(target)
		if errors.Is(err, fs.ErrNotExist) {
			return target, nil
		}
		if err != nil {
			return "", fmt.Errorf("probing output name %s: %w", target, err)
		}
		target = filepath.Join(outputDir, fmt.Sprintf("%s (%d)%s", stem, n, ext))
	}
}

// record appends manifest records for the successful icons of one file result.
func (s *Service) record(m *manifest.Manifest, fr FileResult) {
	for _, ic := range fr.Icons {
		if ic.Err != nil {
			continue
		}
		rec := manifest.Record{
			Icon:      filepath.Base(ic.Path),
			Source:    fr.Exe,
			SizeBytes: ic.Entry.Size,
			CreatedAt: time.Now(),
		}
		if info, err := s.fs.Stat(ic.Path); err == nil {
			rec.SizeBytes = info.Size()
		}
		if sum, err := manifest.ComputeSHA256(ic.Path); err == nil {
			rec.SHA256 = sum
		}
		m.Add(rec)
	}
}

// baseName returns the last component of an internal archive path, which may
// use either slash flavor regardless of the host OS.
func baseName(internal string) string {
	if i := strings.LastIndexAny(internal, `\/`); i >= 0 {
		return internal[i+1:]
	}
	return internal
}

// FormatSize formats bytes in human-readable form.
func FormatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
