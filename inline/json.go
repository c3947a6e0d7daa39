package inline

import (
	"encoding/json"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/vlog-app/vlog/history"
	"github.com/vlog-app/vlog/media"
)

type Video struct {
	media.VideoItem

	// HumanSize is Size formatted for people, e.g. "12 MB".
	HumanSize string `json:"human_size"`
	// Resume is the saved position in milliseconds, if any.
	Resume *int64 `json:"resume,omitempty" jsonschema:"description=Saved playback position in milliseconds"`
}

type Output struct {
	Query       string    `json:"query"`
	GeneratedAt time.Time `json:"generated_at"`
	Result      []*Video  `json:"result"`
}

func asJson(videos []media.VideoItem, query string) ([]byte, error) {
	result := lo.Map(videos, func(v media.VideoItem, _ int) *Video {
		video := &Video{
			VideoItem: v,
			HumanSize: humanize.Bytes(uint64(max(v.Size, 0))),
		}

		if entry, ok := history.Lookup(v.Reference().ID).Get(); ok {
			video.Resume = lo.ToPtr(entry.Position)
		}
		return video
	})

	return json.Marshal(&Output{
		Query:       query,
		GeneratedAt: time.Now(),
		Result:      result,
	})
}
