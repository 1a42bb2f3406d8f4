package mocks

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mcdonaldj/icograb/internal/ports"
)

// MockArchiveTool implements ports.ArchiveTool for testing. Extract writes
// the configured payload into destDir, the way 7z would.
type MockArchiveTool struct {
	// Icons stores listable entries by executable path.
	Icons map[string][]ports.IconEntry
	// Payloads stores the bytes written on extraction, by internal entry path.
	// Entries without a payload get a default placeholder.
	Payloads map[string][]byte
	// EntryErrs simulates per-entry extraction failures.
	EntryErrs map[string]error
	// ExtractCalls records every Extract invocation's internal path, in order.
	ExtractCalls []string
	// Errors allows simulating errors for whole operations.
	Errors struct {
		List    error
		Extract error
	}
}

// NewMockArchiveTool creates a new mock archive tool.
func NewMockArchiveTool() *MockArchiveTool {
	return &MockArchiveTool{
		Icons:     make(map[string][]ports.IconEntry),
		Payloads:  make(map[string][]byte),
		EntryErrs: make(map[string]error),
	}
}

// ListIcons returns the configured entries sorted by size descending.
func (m *MockArchiveTool) ListIcons(exePath string) ([]ports.IconEntry, error) {
	if m.Errors.List != nil {
		return nil, m.Errors.List
	}
	entries := append([]ports.IconEntry(nil), m.Icons[exePath]...)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Size > entries[j].Size
	})
	return entries, nil
}

// Extract writes the entry's payload into destDir under its base name.
func (m *MockArchiveTool) Extract(exePath, internalPath, destDir string) error {
	m.ExtractCalls = append(m.ExtractCalls, internalPath)
	if m.Errors.Extract != nil {
		return m.Errors.Extract
	}
	if err, ok := m.EntryErrs[internalPath]; ok {
		return err
	}

	payload := m.Payloads[internalPath]
	if payload == nil {
		payload = []byte("mock icon data")
	}

	name := internalPath
	if i := strings.LastIndexAny(name, `\/`); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		return fmt.Errorf("invalid internal path %q", internalPath)
	}
	return os.WriteFile(filepath.Join(destDir, name), payload, 0644)
}

// Compile-time check that MockArchiveTool implements ports.ArchiveTool.
var _ ports.ArchiveTool = (*MockArchiveTool)(nil)
