package main

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// errStorageUnavailable is reported when the photo root itself cannot be
// read, which on this device means the SD card is missing or unreadable.
var errStorageUnavailable = errors.New("storage unavailable")

// scanCatalog walks root and returns the discovered photo paths in
// depth-first order, capped at capacity. Unreadable subdirectories are
// skipped; an unreadable root yields errStorageUnavailable.
func scanCatalog(root string, recursive bool, capacity int) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, errStorageUnavailable
	}
	files := make([]string, 0, capacity)
	collectPhotos(root, entries, recursive, 0, capacity, &files)
	return files, nil
}

func collectPhotos(dir string, entries []os.DirEntry, recursive bool, depth, capacity int, files *[]string) {
	for _, e := range entries {
		if len(*files) >= capacity {
			return
		}
		name := e.Name()
		// Cameras and macOS leave ".Trashes", "._*" and similar junk on
		// FAT cards.
		if strings.HasPrefix(name, ".") {
			continue
		}
		full := filepath.Join(dir, name)
		if e.IsDir() {
			if !recursive || depth >= MAX_SCAN_DEPTH {
				continue
			}
			sub, err := os.ReadDir(full)
			if err != nil {
				log.Printf("catalog: skipping %s: %v", full, err)
				continue
			}
			collectPhotos(full, sub, recursive, depth+1, capacity, files)
			continue
		}
		switch strings.ToLower(filepath.Ext(name)) {
		case ".jpg", ".jpeg":
			*files = append(*files, full)
		}
	}
}
