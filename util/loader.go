// Package util - Filesystem helpers for batch analysis.
package util

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ImageFile represents an on-disk image queued for analysis.
type ImageFile struct {
	// Path is the path to the image file.
	Path string
	// Data is the raw bytes of the image file.
	Data []byte
}

// LoadDirectoryImageFiles reads all supported image files from a
// directory, in lexical order.
//
// Arguments:
//   - dir: Directory path containing image files.
//
// Returns:
//   - []ImageFile: Slice of ImageFile, each containing the raw bytes of
//     an image file.
//   - error: Error if the directory or a file cannot be read.
func LoadDirectoryImageFiles(dir string) ([]ImageFile, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var imageFiles []ImageFile
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		switch strings.ToLower(filepath.Ext(file.Name())) {
		case ".jpg", ".jpeg", ".png", ".webp":
			path := filepath.Join(dir, file.Name())
			data, readErr := os.ReadFile(path)
			if readErr != nil {
				return nil, readErr
			}
			imageFiles = append(imageFiles, ImageFile{Path: path, Data: data})
		}
	}

	sort.Slice(imageFiles, func(i, j int) bool {
		return imageFiles[i].Path < imageFiles[j].Path
	})

	return imageFiles, nil
}
