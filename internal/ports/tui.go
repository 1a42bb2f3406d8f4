package ports

// ExeItem contains discovered-executable metadata for display.
type ExeItem struct {
	Path        string
	IconCount   int
	LargestSize int64
	ListFailed  bool
}

// TUIService provides operations needed by the TUI.
// This abstraction allows the TUI to be tested without 7-Zip or a real filesystem.
type TUIService interface {
	// Discover scans the given paths for executables and pre-lists their
	// icon entries.
	Discover(paths []string, recursive bool) ([]ExeItem, error)

	// Extract extracts the icons of one executable into the output directory.
	// Returns the number of icons extracted.
	Extract(exePath string, largestOnly bool) (int, error)

	// OutputDir returns the directory extracted icons are written to.
	OutputDir() string
}
