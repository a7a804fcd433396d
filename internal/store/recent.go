// ABOUTME: Recently uploaded audio paths for the upload file picker
// ABOUTME: Kept most-recent-first in recent_audio.json beside the credentials

package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// MaxRecentFiles is the maximum number of recent files to keep
const MaxRecentFiles = 5

const recentFileName = "recent_audio.json"

// RecentFiles tracks audio files the user has uploaded before
type RecentFiles struct {
	dir   string
	mu    sync.Mutex
	files []string
}

type recentData struct {
	Files []string `json:"files"`
}

// NewRecentFiles creates a tracker stored under dir
func NewRecentFiles(dir string) *RecentFiles {
	return &RecentFiles{dir: dir}
}

func (rf *RecentFiles) path() string {
	return filepath.Join(rf.dir, recentFileName)
}

// List returns the recent files, most recent first. Entries whose file no
// longer exists are dropped.
func (rf *RecentFiles) List() []string {
	rf.mu.Lock()
	defer rf.mu.Unlock()
	rf.loadLocked()
	out := make([]string, len(rf.files))
	copy(out, rf.files)
	return out
}

// Add moves path to the front of the list and persists it.
func (rf *RecentFiles) Add(path string) error {
	rf.mu.Lock()
	defer rf.mu.Unlock()

	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if rf.files == nil {
		rf.loadLocked()
	}

	next := make([]string, 0, len(rf.files)+1)
	next = append(next, path)
	for _, f := range rf.files {
		if f != path {
			next = append(next, f)
		}
	}
	if len(next) > MaxRecentFiles {
		next = next[:MaxRecentFiles]
	}
	rf.files = next

	if err := os.MkdirAll(rf.dir, 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(recentData{Files: next}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(rf.path(), data, 0600)
}

func (rf *RecentFiles) loadLocked() {
	rf.files = []string{}

	data, err := os.ReadFile(rf.path())
	if err != nil {
		return
	}
	var recent recentData
	if err := json.Unmarshal(data, &recent); err != nil {
		return
	}
	for _, p := range recent.Files {
		if _, err := os.Stat(p); err == nil {
			rf.files = append(rf.files, p)
		}
	}
}
