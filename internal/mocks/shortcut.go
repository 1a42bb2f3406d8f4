package mocks

import (
	"fmt"

	"github.com/mcdonaldj/icograb/internal/ports"
)

// MockShortcutResolver implements ports.ShortcutResolver for testing.
type MockShortcutResolver struct {
	// Targets maps shortcut paths to their resolved targets.
	Targets map[string]string
	// ResolveCalls records every Resolve invocation, in order.
	ResolveCalls []string
	// Err is returned by every Resolve call when set.
	Err error
}

// NewMockShortcutResolver creates a new mock shortcut resolver.
func NewMockShortcutResolver() *MockShortcutResolver {
	return &MockShortcutResolver{
		Targets: make(map[string]string),
	}
}

// Resolve returns the configured target for the shortcut.
func (m *MockShortcutResolver) Resolve(lnkPath string) (string, error) {
	m.ResolveCalls = append(m.ResolveCalls, lnkPath)
	if m.Err != nil {
		return "", m.Err
	}
	target, ok := m.Targets[lnkPath]
	if !ok {
		return "", fmt.Errorf("shortcut %s has no resolvable target", lnkPath)
	}
	return target, nil
}

// Compile-time check that MockShortcutResolver implements ports.ShortcutResolver.
var _ ports.ShortcutResolver = (*MockShortcutResolver)(nil)
