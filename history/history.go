// Package history persists the last playback position of each media reference so playback can resume.
package history

import (
	"fmt"
	"sort"
	"time"

	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/vlog-app/vlog/filesystem"
	"github.com/vlog-app/vlog/log"
	"github.com/vlog-app/vlog/media"
	"github.com/vlog-app/vlog/util"
	"github.com/vlog-app/vlog/where"
)

// Entry is the saved progress of one reference. Times are in milliseconds.
type Entry struct {
	ID       string    `json:"id"`
	Locator  string    `json:"locator"`
	Title    string    `json:"title"`
	Position int64     `json:"position"`
	Duration int64     `json:"duration"`
	SavedAt  time.Time `json:"saved_at"`
}

func (e *Entry) String() string {
	return fmt.Sprintf("%s @ %s", e.Title, util.FormatMillis(e.Position))
}

// Progress returns the watched fraction in [0, 1], or 0 when the duration is unknown.
func (e *Entry) Progress() float64 {
	if e.Duration <= 0 {
		return 0
	}
	return min(float64(e.Position)/float64(e.Duration), 1)
}

const (
	// positions closer than this to either end are not worth resuming
	margin = 5_000
)

var cacher = gache.New[map[string]*Entry](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns every saved entry keyed by reference id.
func Get() (map[string]*Entry, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Entry), nil
	}
	return cached, nil
}

// List returns the saved entries, most recent first.
func List() ([]*Entry, error) {
	saved, err := Get()
	if err != nil {
		return nil, err
	}

	entries := lo.Values(saved)
	sort.Slice(entries, func(i, j int) bool { return entries[i].SavedAt.After(entries[j].SavedAt) })
	return entries, nil
}

// Lookup returns the entry for id, if any.
func Lookup(id string) mo.Option[*Entry] {
	saved, err := Get()
	if err != nil {
		return mo.None[*Entry]()
	}
	return mo.EmptyableToOption(saved[id])
}

// Save records position for ref. Positions near the start or the end clear the entry,
// so finished and barely started videos start over.
func Save(ref media.Reference, position, duration int64) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	if position < margin || (duration > 0 && position > duration-margin) {
		delete(saved, ref.ID)
		return cacher.Set(saved)
	}

	saved[ref.ID] = &Entry{
		ID:       ref.ID,
		Locator:  ref.Locator,
		Title:    ref.DisplayTitle(),
		Position: position,
		Duration: duration,
		SavedAt:  time.Now(),
	}
	return cacher.Set(saved)
}

// Remove deletes the entry for id.
func Remove(id string) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, id)
	return cacher.Set(saved)
}

// Positions adapts the store to the player's resume hooks. Failures are logged, never returned.
type Positions struct{}

func (Positions) Resume(ref media.Reference) (int64, bool) {
	entry, ok := Lookup(ref.ID).Get()
	if !ok {
		return 0, false
	}
	return entry.Position, true
}

func (Positions) Remember(ref media.Reference, position, duration int64) {
	if err := Save(ref, position, duration); err != nil {
		log.WithFields(log.Fields{"id": ref.ID}).Warn("save history: ", err)
	}
}
