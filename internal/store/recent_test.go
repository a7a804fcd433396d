// ABOUTME: Tests for recent audio file tracking
// ABOUTME: Validates max limit, move-to-front and missing-file filtering

package store

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("RIFF"), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func TestRecentEmpty(t *testing.T) {
	rf := NewRecentFiles(t.TempDir())
	if files := rf.List(); len(files) != 0 {
		t.Errorf("expected empty list, got %d files", len(files))
	}
}

func TestRecentAddMoveToFront(t *testing.T) {
	tmpDir := t.TempDir()
	rf := NewRecentFiles(tmpDir)

	file1 := filepath.Join(tmpDir, "take1.wav")
	file2 := filepath.Join(tmpDir, "take2.wav")
	touch(t, file1)
	touch(t, file2)

	rf.Add(file1)
	rf.Add(file2)

	files := NewRecentFiles(tmpDir).List()
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}
	if files[0] != file2 {
		t.Errorf("expected take2 first, got %s", files[0])
	}

	rf.Add(file1)
	files = rf.List()
	if len(files) != 2 {
		t.Fatalf("expected 2 files after re-add, got %d", len(files))
	}
	if files[0] != file1 {
		t.Errorf("expected take1 first after re-add, got %s", files[0])
	}
}

func TestRecentMaxLimit(t *testing.T) {
	tmpDir := t.TempDir()
	rf := NewRecentFiles(tmpDir)

	var lastFile string
	for i := 1; i <= 7; i++ {
		f := filepath.Join(tmpDir, fmt.Sprintf("take%d.wav", i))
		touch(t, f)
		if err := rf.Add(f); err != nil {
			t.Fatalf("Add() error: %v", err)
		}
		lastFile = f
	}

	files := rf.List()
	if len(files) != MaxRecentFiles {
		t.Errorf("expected %d files max, got %d", MaxRecentFiles, len(files))
	}
	if files[0] != lastFile {
		t.Errorf("expected %s first, got %s", lastFile, files[0])
	}
}

func TestRecentFiltersMissing(t *testing.T) {
	tmpDir := t.TempDir()
	rf := NewRecentFiles(tmpDir)

	keep := filepath.Join(tmpDir, "keep.wav")
	gone := filepath.Join(tmpDir, "gone.wav")
	touch(t, keep)
	touch(t, gone)
	rf.Add(keep)
	rf.Add(gone)

	os.Remove(gone)

	files := NewRecentFiles(tmpDir).List()
	if len(files) != 1 || files[0] != keep {
		t.Errorf("expected only keep.wav, got %v", files)
	}
}

func TestRecentCorruptFile(t *testing.T) {
	tmpDir := t.TempDir()
	os.WriteFile(filepath.Join(tmpDir, recentFileName), []byte("not json"), 0600)

	if files := NewRecentFiles(tmpDir).List(); len(files) != 0 {
		t.Errorf("expected empty list for corrupt file, got %v", files)
	}
}
