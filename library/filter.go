package library

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/vlog-app/vlog/media"
)

// Filter keeps the videos whose name, title or folder fuzzily match query, best matches first.
// An empty query returns videos unchanged.
func Filter(videos []media.VideoItem, query string) []media.VideoItem {
	if query == "" {
		return videos
	}

	type scored struct {
		video media.VideoItem
		rank  int
	}

	var matches []scored
	for _, v := range videos {
		best := -1
		for _, target := range []string{v.Name, v.Title, v.Folder} {
			if target == "" {
				continue
			}
			if r := fuzzy.RankMatchNormalizedFold(query, target); r >= 0 && (best < 0 || r < best) {
				best = r
			}
		}
		if best >= 0 {
			matches = append(matches, scored{video: v, rank: best})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].rank < matches[j].rank })
	return lo.Map(matches, func(s scored, _ int) media.VideoItem { return s.video })
}
