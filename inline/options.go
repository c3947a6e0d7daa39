// Package inline implements the non-interactive listing mode used by "vlog ls".
package inline

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/vlog-app/vlog/library"
	"github.com/vlog-app/vlog/media"
	"github.com/vlog-app/vlog/util"
)

// Selector narrows a list of videos.
type Selector func([]media.VideoItem) []media.VideoItem

type Options struct {
	Out     io.Writer
	Browser *library.Browser
	// Folder lists a single directory instead of every root.
	Folder   mo.Option[string]
	Query    string
	Json     bool
	Selector mo.Option[Selector]
}

// ParseSelector understands:
//
//	first, last, all
//	[n]        video at index n
//	[from]-[to] inclusive range
//	@[text]@   videos whose name contains text
func ParseSelector(description string) (Selector, error) {
	switch description {
	case "first":
		return func(videos []media.VideoItem) []media.VideoItem {
			return lo.Subset(videos, 0, 1)
		}, nil
	case "last":
		return func(videos []media.VideoItem) []media.VideoItem {
			return lo.Subset(videos, -1, 1)
		}, nil
	case "all":
		return func(videos []media.VideoItem) []media.VideoItem {
			return videos
		}, nil
	}

	if strings.HasPrefix(description, "@") && strings.HasSuffix(description, "@") && len(description) > 1 {
		sub := strings.ToLower(description[1 : len(description)-1])
		return func(videos []media.VideoItem) []media.VideoItem {
			return lo.Filter(videos, func(v media.VideoItem, _ int) bool {
				return strings.Contains(strings.ToLower(v.Name), sub)
			})
		}, nil
	}

	if from, to, ok := strings.Cut(description, "-"); ok {
		start, err1 := strconv.ParseUint(from, 10, 16)
		end, err2 := strconv.ParseUint(to, 10, 16)
		if err1 == nil && err2 == nil {
			return func(videos []media.VideoItem) []media.VideoItem {
				n := uint64(len(videos))
				s, e := util.Min(start, n), util.Min(end+1, n)
				if s >= e {
					return []media.VideoItem{}
				}
				return videos[s:e]
			}, nil
		}
	}

	if index, err := strconv.ParseUint(description, 10, 16); err == nil {
		return func(videos []media.VideoItem) []media.VideoItem {
			if uint64(len(videos)) <= index {
				return []media.VideoItem{}
			}
			return videos[index : index+1]
		}, nil
	}

	return nil, fmt.Errorf("invalid selector: %s", description)
}
