// Package exec7z provides an archive-tool adapter driving the 7-Zip binary
// using exec.Command.
package exec7z

import (
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/mcdonaldj/icograb/internal/ports"
)

// installPaths are the fixed install locations checked when 7z is not on PATH,
// 64-bit first.
var installPaths = []string{
	`C:\Program Files\7-Zip\7z.exe`,
	`C:\Program Files (x86)\7-Zip\7z.exe`,
}

// Locate finds the 7-Zip binary: a PATH lookup first, then the default
// 64-bit and 32-bit install locations. No side effects.
func Locate() (string, error) {
	if path, err := exec.LookPath("7z"); err == nil {
		return path, nil
	}
	for _, path := range installPaths {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("7-Zip not found on PATH or in default install locations")
}

// Client implements ports.ArchiveTool using exec.Command.
type Client struct {
	// zipPath is the path to the 7z binary. Defaults to "7z".
	zipPath string
	// warn receives non-fatal parse warnings. Defaults to a no-op.
	warn func(msg string)
}

// Option is a functional option for configuring Client.
type Option func(*Client)

// WithPath sets a custom path to the 7z binary.
func WithPath(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.zipPath = path
		}
	}
}

// WithWarn sets a sink for non-fatal listing-parse warnings.
func WithWarn(fn func(msg string)) Option {
	return func(c *Client) {
		if fn != nil {
			c.warn = fn
		}
	}
}

// New creates a new 7-Zip adapter.
func New(opts ...Option) *Client {
	c := &Client{
		zipPath: "7z",
		warn:    func(string) {},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// iconLine matches listing lines whose internal path has an ICON directory
// component, on either slash flavor.
var iconLine = regexp.MustCompile(`.+[\\/]ICON[\\/]\S+`)

// ListIcons runs "7z l" against the executable and returns the icon resource
// entries found in its listing, sorted by size descending.
func (c *Client) ListIcons(exePath string) ([]ports.IconEntry, error) {
	out, err := exec.Command(c.zipPath, "l", exePath).Output()
	if err != nil {
		return nil, fmt.Errorf("7z list failed for %s: %w", exePath, err)
	}

	entries, malformed := ParseListing(string(out))
	for _, line := range malformed {
		c.warn(fmt.Sprintf("skipping unparseable listing line from %s: %q", exePath, line))
	}
	return entries, nil
}

// ParseListing extracts icon entries from raw "7z l" output. The last
// whitespace-delimited field of a matching line is the internal entry path and
// the third field from the end is the uncompressed size:
//
//	.....       270398       270376  .rsrc\1033\ICON\1.ico
//
// Entries are returned sorted by size descending, stable for equal sizes.
// Matching lines that cannot be parsed are returned in malformed.
func ParseListing(out string) (entries []ports.IconEntry, malformed []string) {
	for _, line := range strings.Split(out, "\n") {
		if !iconLine.MatchString(line) {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 3 {
			malformed = append(malformed, line)
			continue
		}
		size, err := strconv.ParseInt(fields[len(fields)-3], 10, 64)
		if err != nil {
			malformed = append(malformed, line)
			continue
		}

		entries = append(entries, ports.IconEntry{
			Path: fields[len(fields)-1],
			Size: size,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Size > entries[j].Size
	})
	return entries, malformed
}

// Extract runs "7z e" to pull one internal entry out of the executable into
// destDir. The extracted file is named by the entry's base name.
func (c *Client) Extract(exePath, internalPath, destDir string) error {
	cmd := exec.Command(c.zipPath, "e", exePath, internalPath, "-o"+destDir, "-y")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("7z extract of %s from %s failed: %w: %s",
			internalPath, exePath, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Compile-time check that Client implements ports.ArchiveTool.
var _ ports.ArchiveTool = (*Client)(nil)
