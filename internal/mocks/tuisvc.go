package mocks

import (
	"github.com/mcdonaldj/icograb/internal/ports"
)

// MockTUIService implements ports.TUIService for testing.
type MockTUIService struct {
	// Items is returned by Discover.
	Items []ports.ExeItem
	// ExtractCounts maps executable paths to the icon count Extract reports.
	ExtractCounts map[string]int
	// ExtractCalls records every Extract invocation, in order.
	ExtractCalls []string
	// Output is returned by OutputDir.
	Output string
	// Errors allows simulating errors for specific operations.
	Errors struct {
		Discover error
		Extract  error
	}
}

// NewMockTUIService creates a new mock TUI service.
func NewMockTUIService() *MockTUIService {
	return &MockTUIService{
		ExtractCounts: make(map[string]int),
		Output:        "/test/icons",
	}
}

// Discover returns the configured items.
func (m *MockTUIService) Discover(paths []string, recursive bool) ([]ports.ExeItem, error) {
	if m.Errors.Discover != nil {
		return nil, m.Errors.Discover
	}
	return m.Items, nil
}

// Extract records the call and returns the configured count.
func (m *MockTUIService) Extract(exePath string, largestOnly bool) (int, error) {
	m.ExtractCalls = append(m.ExtractCalls, exePath)
	if m.Errors.Extract != nil {
		return 0, m.Errors.Extract
	}
	return m.ExtractCounts[exePath], nil
}

// OutputDir returns the configured output directory.
func (m *MockTUIService) OutputDir() string {
	return m.Output
}

// Compile-time check that MockTUIService implements ports.TUIService.
var _ ports.TUIService = (*MockTUIService)(nil)
