// Package playlist supplies ordered lists of media references to the player.
package playlist

import (
	"context"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/vlog-app/vlog/media"
)

// Playlist is an ordered, immutable list of references.
type Playlist struct {
	Name  string
	Items []media.Reference
}

// New copies items into a playlist.
func New(name string, items ...media.Reference) Playlist {
	return Playlist{Name: name, Items: append([]media.Reference(nil), items...)}
}

func (p Playlist) Len() int { return len(p.Items) }

func (p Playlist) Empty() bool { return len(p.Items) == 0 }

// At returns the item at i, if any.
func (p Playlist) At(i int) mo.Option[media.Reference] {
	if i < 0 || i >= len(p.Items) {
		return mo.None[media.Reference]()
	}
	return mo.Some(p.Items[i])
}

// Get wraps i around the playlist length, so any index addresses an item.
// It panics on an empty playlist.
func (p Playlist) Get(i int) media.Reference {
	n := len(p.Items)
	return p.Items[((i%n)+n)%n]
}

func (p Playlist) HasNext(i int) bool { return i >= 0 && i+1 < len(p.Items) }

func (p Playlist) HasPrevious(i int) bool { return i > 0 && i < len(p.Items) }

// IndexOf returns the index of the reference with the given id, or -1.
func (p Playlist) IndexOf(id string) int {
	_, index, ok := lo.FindIndexOf(p.Items, func(r media.Reference) bool { return r.ID == id })
	if !ok {
		return -1
	}
	return index
}

// Source produces a playlist on demand.
type Source interface {
	Name() string
	Playlist(ctx context.Context) (Playlist, error)
}
