// Package media defines the immutable records that flow between playlists, the library browser and the player.
package media

import (
	"crypto/sha1"
	"encoding/hex"
	"net/url"
	"path"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/vlog-app/vlog/util"
)

// DRM describes protection metadata forwarded untouched to the engine.
type DRM struct {
	Scheme     string `json:"scheme"`
	LicenseURL string `json:"license_url"`
}

// Reference points at one playable media item.
// It is a value type; the With* methods return modified copies.
type Reference struct {
	ID       string
	Locator  string
	Title    mo.Option[string]
	MimeType string
	DRM      mo.Option[DRM]
	Headers  map[string]string
}

// NewReference builds a reference whose ID is derived from the locator.
func NewReference(locator string) Reference {
	return Reference{
		ID:      RefID(locator),
		Locator: strings.TrimSpace(locator),
	}
}

// RefID derives a stable identifier from a locator.
func RefID(locator string) string {
	sum := sha1.Sum([]byte(strings.TrimSpace(locator)))
	return hex.EncodeToString(sum[:8])
}

// WithTitle returns a copy with the given title. Blank titles are dropped.
func (r Reference) WithTitle(title string) Reference {
	title = strings.TrimSpace(title)
	if title == "" {
		r.Title = mo.None[string]()
	} else {
		r.Title = mo.Some(title)
	}
	return r
}

// WithHeaders returns a copy carrying the union of the existing and given headers.
func (r Reference) WithHeaders(headers map[string]string) Reference {
	if len(headers) == 0 {
		return r
	}
	r.Headers = lo.Assign(r.Headers, headers)
	return r
}

// IsRemote reports whether the locator is a network URL.
func (r Reference) IsRemote() bool {
	u, err := url.Parse(r.Locator)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

// Host returns the host of a remote locator, or "".
func (r Reference) Host() string {
	if !r.IsRemote() {
		return ""
	}
	return lo.Must(url.Parse(r.Locator)).Hostname()
}

// DisplayTitle falls back to the locator's file stem when no title is set.
func (r Reference) DisplayTitle() string {
	if title, ok := r.Title.Get(); ok {
		return title
	}

	if r.IsRemote() {
		u := lo.Must(url.Parse(r.Locator))
		if stem := util.FileStem(path.Base(u.Path)); stem != "" && stem != "." && stem != "/" {
			return stem
		}
		return u.Host
	}

	return util.FileStem(strings.TrimPrefix(r.Locator, "file://"))
}
