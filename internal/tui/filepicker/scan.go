// ABOUTME: Finds uploadable audio files in a directory
// ABOUTME: Accepts the extensions the backend will store

package filepicker

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// AudioExtensions are the file types the backend accepts for upload
var AudioExtensions = []string{".mp3", ".wav", ".ogg", ".m4a"}

// AudioFile is a candidate for upload found on disk
type AudioFile struct {
	Name string
	Path string
}

// IsAudio reports whether path has an accepted audio extension
func IsAudio(path string) bool {
	return slices.Contains(AudioExtensions, strings.ToLower(filepath.Ext(path)))
}

// Scan lists the audio files directly inside dir. A missing directory is
// not an error.
func Scan(dir string) ([]AudioFile, error) {
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var files []AudioFile
	for _, entry := range entries {
		if entry.IsDir() || !IsAudio(entry.Name()) {
			continue
		}
		files = append(files, AudioFile{
			Name: entry.Name(),
			Path: filepath.Join(dir, entry.Name()),
		})
	}
	return files, nil
}
