package mocks

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mcdonaldj/icograb/internal/ports"
)

func TestMockArchiveToolListSortsDescending(t *testing.T) {
	tool := NewMockArchiveTool()
	tool.Icons["/apps/app.exe"] = []ports.IconEntry{
		{Path: `ICON\small`, Size: 10},
		{Path: `ICON\big`, Size: 100},
		{Path: `ICON\mid`, Size: 50},
	}

	entries, err := tool.ListIcons("/apps/app.exe")
	if err != nil {
		t.Fatalf("ListIcons failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d, expected 3", len(entries))
	}
	if entries[0].Size != 100 || entries[2].Size != 10 {
		t.Errorf("entries = %v, expected descending size order", entries)
	}

	// Test error injection
	tool.Errors.List = errors.New("injected error")
	if _, err := tool.ListIcons("/apps/app.exe"); err == nil {
		t.Error("expected injected list error")
	}
}

func TestMockArchiveToolExtract(t *testing.T) {
	dir := t.TempDir()
	tool := NewMockArchiveTool()
	tool.Payloads[`.rsrc\1033\ICON\1.ico`] = []byte("payload")

	if err := tool.Extract("/apps/app.exe", `.rsrc\1033\ICON\1.ico`, dir); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	// The payload lands under the entry's base name, backslashes included.
	data, err := os.ReadFile(filepath.Join(dir, "1.ico"))
	if err != nil {
		t.Fatalf("reading extracted file: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("content = %q", data)
	}
	if len(tool.ExtractCalls) != 1 {
		t.Errorf("ExtractCalls = %v, expected one call", tool.ExtractCalls)
	}

	// Entries without a payload get the placeholder.
	if err := tool.Extract("/apps/app.exe", "ICON/2", dir); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	data, _ = os.ReadFile(filepath.Join(dir, "2"))
	if string(data) != "mock icon data" {
		t.Errorf("content = %q, expected the placeholder", data)
	}

	// Per-entry error injection
	tool.EntryErrs["ICON/3"] = errors.New("injected error")
	if err := tool.Extract("/apps/app.exe", "ICON/3", dir); err == nil {
		t.Error("expected injected entry error")
	}
}

func TestMockShortcutResolver(t *testing.T) {
	r := NewMockShortcutResolver()
	r.Targets["/apps/app.lnk"] = "/apps/app.exe"

	target, err := r.Resolve("/apps/app.lnk")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if target != "/apps/app.exe" {
		t.Errorf("target = %s", target)
	}
	if len(r.ResolveCalls) != 1 {
		t.Errorf("ResolveCalls = %v, expected one call", r.ResolveCalls)
	}

	// Unknown shortcuts fail
	if _, err := r.Resolve("/apps/unknown.lnk"); err == nil {
		t.Error("expected an error for an unknown shortcut")
	}

	r.Err = errors.New("injected error")
	if _, err := r.Resolve("/apps/app.lnk"); err == nil {
		t.Error("expected injected error")
	}
}

func TestMockTUIService(t *testing.T) {
	svc := NewMockTUIService()
	svc.Items = []ports.ExeItem{{Path: "/apps/app.exe", IconCount: 2}}
	svc.ExtractCounts["/apps/app.exe"] = 2

	items, err := svc.Discover([]string{"/apps"}, false)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("items = %d, expected 1", len(items))
	}

	count, err := svc.Extract("/apps/app.exe", false)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, expected 2", count)
	}
	if svc.OutputDir() != "/test/icons" {
		t.Errorf("OutputDir = %s", svc.OutputDir())
	}

	svc.Errors.Extract = errors.New("injected error")
	if _, err := svc.Extract("/apps/app.exe", false); err == nil {
		t.Error("expected injected error")
	}
}
