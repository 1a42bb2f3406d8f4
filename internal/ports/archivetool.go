package ports

// IconEntry describes one icon resource inside an executable: its internal
// archive path as reported by the tool's listing, and its declared
// (uncompressed) byte size.
type IconEntry struct {
	Path string
	Size int64
}

// ArchiveTool abstracts the external archive utility for testability.
// Production code uses the exec7z adapter; tests use MockArchiveTool.
type ArchiveTool interface {
	// ListIcons enumerates the icon resource entries inside an executable,
	// sorted by size descending (ties keep listing order).
	ListIcons(exePath string) ([]IconEntry, error)

	// Extract pulls one internal entry out of the executable into destDir.
	// The extracted file is named by the entry's base name.
	Extract(exePath, internalPath, destDir string) error
}
