package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/mcdonaldj/icograb/internal/mocks"
	"github.com/mcdonaldj/icograb/internal/ports"
)

func testItems() []ports.ExeItem {
	return []ports.ExeItem{
		{Path: "/apps/alpha.exe", IconCount: 3, LargestSize: 270398},
		{Path: "/apps/beta.exe", IconCount: 1, LargestSize: 1024},
		{Path: "/apps/gamma.exe"},
	}
}

func TestNewModelWithService(t *testing.T) {
	svc := mocks.NewMockTUIService()
	svc.Items = testItems()

	m, err := NewModelWithService(svc, []string{"/apps"}, false)
	if err != nil {
		t.Fatalf("NewModelWithService failed: %v", err)
	}
	if len(m.items) != 3 {
		t.Errorf("items = %d, expected 3", len(m.items))
	}
	if m.cursor != 0 {
		t.Errorf("cursor = %d, expected 0", m.cursor)
	}
}

func TestNewModelWithServiceDiscoverError(t *testing.T) {
	svc := mocks.NewMockTUIService()
	svc.Errors.Discover = errors.New("scan failed")

	if _, err := NewModelWithService(svc, []string{"/apps"}, false); err == nil {
		t.Error("expected the discover error to surface")
	}
}

func TestModelNavigation(t *testing.T) {
	svc := mocks.NewMockTUIService()
	svc.Items = testItems()
	m, _ := NewModelWithService(svc, nil, false)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(*Model)
	if m.cursor != 1 {
		t.Errorf("cursor = %d, expected 1", m.cursor)
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(*Model)
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(*Model)
	if m.cursor != 2 {
		t.Errorf("cursor = %d, expected 2 (at boundary)", m.cursor)
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = updated.(*Model)
	if m.cursor != 1 {
		t.Errorf("cursor = %d, expected 1", m.cursor)
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = updated.(*Model)
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = updated.(*Model)
	if m.cursor != 0 {
		t.Errorf("cursor = %d, expected 0 (at boundary)", m.cursor)
	}
}

func TestModelLargestToggle(t *testing.T) {
	svc := mocks.NewMockTUIService()
	svc.Items = testItems()
	m, _ := NewModelWithService(svc, nil, false)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	m = updated.(*Model)
	if !m.largestOnly {
		t.Error("expected largest-only mode on after toggle")
	}
	if !strings.Contains(m.statusMsg, "largest-only mode on") {
		t.Errorf("statusMsg = %q", m.statusMsg)
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	m = updated.(*Model)
	if m.largestOnly {
		t.Error("expected largest-only mode off after second toggle")
	}
}

func TestModelExtract(t *testing.T) {
	svc := mocks.NewMockTUIService()
	svc.Items = testItems()
	svc.ExtractCounts["/apps/alpha.exe"] = 3
	m, _ := NewModelWithService(svc, nil, false)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(*Model)
	if !m.extracting {
		t.Error("expected extracting state after enter")
	}
	if cmd == nil {
		t.Fatal("expected an extraction command")
	}

	msg := cmd()
	done, ok := msg.(extractDoneMsg)
	if !ok {
		t.Fatalf("cmd returned %T, expected extractDoneMsg", msg)
	}
	if done.count != 3 || done.err != nil {
		t.Errorf("done = %+v", done)
	}
	if len(svc.ExtractCalls) != 1 || svc.ExtractCalls[0] != "/apps/alpha.exe" {
		t.Errorf("ExtractCalls = %v", svc.ExtractCalls)
	}

	updated, _ = m.Update(done)
	m = updated.(*Model)
	if m.extracting {
		t.Error("expected extracting cleared after done message")
	}
	if m.statusErr {
		t.Error("expected a success status")
	}
	if !strings.Contains(m.statusMsg, "extracted 3 icon(s) from alpha.exe") {
		t.Errorf("statusMsg = %q", m.statusMsg)
	}
	if !strings.Contains(m.statusMsg, svc.Output) {
		t.Errorf("statusMsg = %q, expected the output dir", m.statusMsg)
	}
}

func TestModelExtractNothingToExtract(t *testing.T) {
	svc := mocks.NewMockTUIService()
	svc.Items = testItems()
	m, _ := NewModelWithService(svc, nil, false)
	m.cursor = 2 // gamma.exe has no icons

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(*Model)
	if cmd != nil {
		t.Error("expected no command for an iconless executable")
	}
	if !m.statusErr || !strings.Contains(m.statusMsg, "nothing to extract") {
		t.Errorf("statusMsg = %q, statusErr = %v", m.statusMsg, m.statusErr)
	}
}

func TestModelExtractError(t *testing.T) {
	svc := mocks.NewMockTUIService()
	svc.Items = testItems()
	svc.Errors.Extract = errors.New("7z failed")
	m, _ := NewModelWithService(svc, nil, false)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected an extraction command")
	}
	done := cmd().(extractDoneMsg)

	updated, _ := m.Update(done)
	m = updated.(*Model)
	if !m.statusErr {
		t.Error("expected an error status")
	}
	if !strings.Contains(m.statusMsg, "extraction failed for alpha.exe") {
		t.Errorf("statusMsg = %q", m.statusMsg)
	}
}

func TestModelExtractIgnoredWhileBusy(t *testing.T) {
	svc := mocks.NewMockTUIService()
	svc.Items = testItems()
	m, _ := NewModelWithService(svc, nil, false)
	m.extracting = true

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected enter to be ignored during an extraction")
	}
}

func TestModelView(t *testing.T) {
	svc := mocks.NewMockTUIService()
	svc.Items = testItems()
	m, _ := NewModelWithService(svc, nil, false)
	m.width = 80
	m.height = 24

	view := m.View()
	if !strings.Contains(view, "icograb") {
		t.Error("view should contain the title")
	}
	if !strings.Contains(view, "alpha.exe") {
		t.Error("view should contain the executable names")
	}
	if !strings.Contains(view, "264.1 KB") {
		t.Error("view should contain the largest icon size")
	}
	if !strings.Contains(view, "no icons") {
		t.Error("view should flag iconless executables")
	}

	m.largestOnly = true
	if !strings.Contains(m.View(), "largest only") {
		t.Error("title should reflect largest-only mode")
	}
}

func TestModelViewEmpty(t *testing.T) {
	svc := mocks.NewMockTUIService()
	m, _ := NewModelWithService(svc, nil, false)

	if !strings.Contains(m.View(), "No executables found.") {
		t.Error("expected the empty placeholder")
	}
}

func TestModelWindowSize(t *testing.T) {
	svc := mocks.NewMockTUIService()
	m, _ := NewModelWithService(svc, nil, false)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 50})
	m = updated.(*Model)

	if m.width != 100 || m.height != 50 {
		t.Errorf("size = %dx%d, expected 100x50", m.width, m.height)
	}
}

func TestModelQuit(t *testing.T) {
	svc := mocks.NewMockTUIService()
	svc.Items = testItems()
	m, _ := NewModelWithService(svc, nil, false)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = updated.(*Model)
	if !m.quitting {
		t.Error("expected quitting state")
	}
	if cmd == nil {
		t.Error("expected tea.Quit command")
	}
	if m.View() != "" {
		t.Error("expected an empty view while quitting")
	}
}

func TestWithTeatest(t *testing.T) {
	svc := mocks.NewMockTUIService()
	svc.Items = testItems()
	m, err := NewModelWithService(svc, nil, false)
	if err != nil {
		t.Fatal(err)
	}

	tm := teatest.NewTestModel(t, m)
	tm.Send(tea.WindowSizeMsg{Width: 80, Height: 24})
	tm.Send(tea.KeyMsg{Type: tea.KeyDown})
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	tm.WaitFinished(t, teatest.WithFinalTimeout(time.Second))
}
