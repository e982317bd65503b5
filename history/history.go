// Package history tracks completed downloads in a persistent registry.
package history

import (
	"github.com/hlsget-cli/hlsget/filesystem"
	"github.com/hlsget-cli/hlsget/where"
	"github.com/metafates/gache"
)

// cacher provides an abstracted, disk-backed registry of finished downloads.
var cacher = gache.New[map[string]*SavedDownload](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns the complete collection of download records from the persistent store.
func Get() (map[string]*SavedDownload, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*SavedDownload), nil
	}
	return cached, nil
}

// Save persists a finished download, replacing any earlier record for the
// same playlist URL.
func Save(download *SavedDownload) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	saved[download.encode()] = download
	return cacher.Set(saved)
}

// Remove permanently deletes a specific record from the registry.
func Remove(download *SavedDownload) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, download.encode())
	return cacher.Set(saved)
}
