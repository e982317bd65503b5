package version

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"time"

	"github.com/hlsget-cli/hlsget/filesystem"
	"github.com/hlsget-cli/hlsget/network"
	"github.com/hlsget-cli/hlsget/util"
	"github.com/hlsget-cli/hlsget/where"
	"github.com/metafates/gache"
)

var versionCacher = gache.New[string](&gache.Options{
	Path:       filepath.Join(where.Cache(), "version.json"),
	Lifetime:   time.Hour * 24 * 2,
	FileSystem: &filesystem.GacheFs{},
})

// Latest retrieves the most recent stable release identifier from the GitHub
// Releases API, caching the result to mitigate rate limits.
func Latest() (version string, err error) {
	ver, expired, err := versionCacher.Get()
	if err != nil {
		return "", err
	}

	if !expired && ver != "" {
		return ver, nil
	}

	resp, err := network.Client.Get("https://api.github.com/repos/hlsget-cli/hlsget/releases/latest")
	if err != nil {
		return
	}

	defer util.Ignore(resp.Body.Close)

	var release struct {
		TagName string `json:"tag_name"`
	}

	err = json.NewDecoder(resp.Body).Decode(&release)
	if err != nil {
		return
	}

	if release.TagName == "" {
		err = errors.New("empty tag name")
		return
	}

	// Release tags carry a leading v that the rest of the app never uses.
	version = release.TagName[1:]
	_ = versionCacher.Set(version)
	return
}
