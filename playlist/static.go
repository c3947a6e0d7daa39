package playlist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/vlog-app/vlog/key"
	"github.com/vlog-app/vlog/media"
)

// ErrEmpty is returned by sources that produced no items.
var ErrEmpty = errors.New("playlist is empty")

// Static always yields the same items.
type Static struct {
	name  string
	items []media.Reference
}

func NewStatic(name string, items ...media.Reference) *Static {
	return &Static{name: name, items: items}
}

func (s *Static) Name() string { return s.name }

func (s *Static) Playlist(context.Context) (Playlist, error) {
	if len(s.items) == 0 {
		return Playlist{}, fmt.Errorf("%s: %w", s.name, ErrEmpty)
	}
	return New(s.name, s.items...), nil
}

// Presets builds the built-in network playlist from playlist.presets.
// Blank entries are skipped.
func Presets() *Static {
	urls := lo.Filter(viper.GetStringSlice(key.PlaylistPresets), func(u string, _ int) bool {
		return strings.TrimSpace(u) != ""
	})

	items := lo.Map(urls, func(u string, _ int) media.Reference {
		return media.NewReference(u)
	})
	return NewStatic("presets", items...)
}
