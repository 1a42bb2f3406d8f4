// Package lnkresolver resolves Windows .lnk shortcut files by parsing the
// shell link binary format directly, so resolution also works off-Windows.
package lnkresolver

import (
	"fmt"
	"path/filepath"

	lnk "github.com/parsiya/golnk"

	"github.com/mcdonaldj/icograb/internal/ports"
)

// LnkResolver implements ports.ShortcutResolver using the golnk parser.
type LnkResolver struct{}

// New creates a new LnkResolver adapter.
func New() *LnkResolver {
	return &LnkResolver{}
}

// Resolve returns the absolute target path of the shortcut. The link-info
// base path is preferred; shortcuts carrying only a relative path are
// resolved against the shortcut's own directory.
func (r *LnkResolver) Resolve(lnkPath string) (string, error) {
	f, err := lnk.File(lnkPath)
	if err != nil {
		return "", fmt.Errorf("parsing shortcut %s: %w", lnkPath, err)
	}

	target := f.LinkInfo.LocalBasePath
	if target == "" {
		target = f.LinkInfo.LocalBasePathUnicode
	}
	if target == "" && f.StringData.RelativePath != "" {
		target = filepath.Join(filepath.Dir(lnkPath), f.StringData.RelativePath)
	}
	if target == "" {
		return "", fmt.Errorf("shortcut %s has no resolvable target", lnkPath)
	}

	abs, err := filepath.Abs(target)
	if err != nil {
		return "", err
	}
	return abs, nil
}

// Compile-time check that LnkResolver implements ports.ShortcutResolver.
var _ ports.ShortcutResolver = (*LnkResolver)(nil)
