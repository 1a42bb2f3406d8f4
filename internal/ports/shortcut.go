package ports

// ShortcutResolver abstracts Windows .lnk shortcut resolution so the path
// collector can run against a fake resolver in non-Windows test environments.
// Production code uses the LnkResolver adapter; tests use MockShortcutResolver.
type ShortcutResolver interface {
	// Resolve returns the absolute target path of the shortcut file,
	// or an error if the shortcut has no resolvable target.
	Resolve(lnkPath string) (string, error)
}
