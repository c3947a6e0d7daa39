package library

import (
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
)

// taggable are the containers whose metadata atoms dhowden/tag understands.
var taggable = map[string]bool{
	".mp4": true,
	".m4v": true,
	".mov": true,
}

// title reads the embedded title, returning "" when there is none.
func (b *Browser) title(path string) string {
	if !taggable[strings.ToLower(filepath.Ext(path))] {
		return ""
	}

	f, err := b.fs.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(m.Title())
}
