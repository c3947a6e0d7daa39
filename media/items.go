package media

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
)

// VideoItem is a display record for one local video file.
type VideoItem struct {
	Name       string    `json:"name" jsonschema:"description=File name including the extension"`
	Path       string    `json:"path" jsonschema:"description=Absolute path of the file"`
	Folder     string    `json:"folder" jsonschema:"description=Name of the directory containing the file"`
	Size       int64     `json:"size" jsonschema:"description=Size in bytes"`
	ModifiedAt time.Time `json:"modified_at"`
	Title      string    `json:"title,omitempty" jsonschema:"description=Title embedded in the container, if any"`
}

// Reference converts the item into a playable reference.
func (v VideoItem) Reference() Reference {
	ref := NewReference(v.Path)
	if v.Title != "" {
		return ref.WithTitle(v.Title)
	}
	return ref
}

// DisplayName prefers the embedded title.
func (v VideoItem) DisplayName() string {
	if v.Title != "" {
		return v.Title
	}
	return v.Name
}

// Describe renders "12 MB · 3 days ago".
func (v VideoItem) Describe() string {
	return humanize.Bytes(uint64(max(v.Size, 0))) + " · " + humanize.Time(v.ModifiedAt)
}

// FolderItem groups the videos of one directory.
type FolderItem struct {
	Name   string      `json:"name"`
	Path   string      `json:"path"`
	Videos []VideoItem `json:"videos"`
}

// Size sums the sizes of the folder's videos.
func (f FolderItem) Size() int64 {
	return lo.SumBy(f.Videos, func(v VideoItem) int64 { return v.Size })
}

// References returns the folder's videos as an ordered playlist.
func (f FolderItem) References() []Reference {
	return lo.Map(f.Videos, func(v VideoItem, _ int) Reference { return v.Reference() })
}
