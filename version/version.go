// Package version checks for newer releases.
package version

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/metafates/gache"
	"github.com/vlog-app/vlog/constant"
	"github.com/vlog-app/vlog/filesystem"
	"github.com/vlog-app/vlog/network"
	"github.com/vlog-app/vlog/where"
)

var releaseURL = fmt.Sprintf("https://api.github.com/repos/%s/releases/latest", constant.Repository)

var versionCacher = gache.New[string](&gache.Options{
	Path:       filepath.Join(where.Cache(), "version.json"),
	Lifetime:   time.Hour * 24 * 2,
	FileSystem: &filesystem.GacheFs{},
})

// Latest returns the newest released version. Answers are cached for two days.
func Latest(ctx context.Context) (string, error) {
	cached, expired, err := versionCacher.Get()
	if err != nil {
		return "", err
	}

	if !expired && cached != "" {
		return cached, nil
	}

	resp, err := network.Fetch(ctx, http.MethodGet, releaseURL, map[string]string{
		"Accept": "application/vnd.github+json",
	}, "")
	if err != nil {
		return "", err
	}

	if resp.Status != http.StatusOK {
		return "", fmt.Errorf("release lookup: unexpected status %d", resp.Status)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}

	if err := json.Unmarshal([]byte(resp.Body), &release); err != nil {
		return "", err
	}

	if release.TagName == "" {
		return "", errors.New("empty tag name")
	}

	version := strings.TrimPrefix(release.TagName, "v")
	_ = versionCacher.Set(version)
	return version, nil
}
