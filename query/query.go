// Package query remembers library filter queries and suggests them back while typing.
package query

import (
	"sort"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/vlog-app/vlog/filesystem"
	"github.com/vlog-app/vlog/key"
	"github.com/vlog-app/vlog/where"
)

type record struct {
	Rank  int    `json:"rank"`
	Query string `json:"query"`
}

var cacher = gache.New[map[string]*record](
	&gache.Options{
		Path:       where.Queries(),
		FileSystem: &filesystem.GacheFs{},
	},
)

var (
	suggestionsMu sync.Mutex
	suggestions   = make(map[string][]string)
)

// Remember records q, raising its rank by weight if it was seen before.
func Remember(q string, weight int) error {
	q = sanitize(q)
	if q == "" {
		return nil
	}

	cached, expired, err := cacher.Get()
	if expired || err != nil || cached == nil {
		cached = make(map[string]*record)
	}

	if r, ok := cached[q]; ok {
		r.Rank += weight
	} else {
		cached[q] = &record{Rank: weight, Query: q}
	}

	suggestionsMu.Lock()
	clear(suggestions)
	suggestionsMu.Unlock()

	return cacher.Set(cached)
}

// Suggest returns the best remembered query matching q.
func Suggest(q string) mo.Option[string] {
	if all := SuggestMany(q); len(all) > 0 {
		return mo.Some(all[0])
	}
	return mo.None[string]()
}

// SuggestMany returns remembered queries fuzzily matching q, highest rank first.
func SuggestMany(q string) []string {
	if !viper.GetBool(key.SearchShowQuerySuggestions) {
		return nil
	}

	q = sanitize(q)

	suggestionsMu.Lock()
	defer suggestionsMu.Unlock()

	if prev, ok := suggestions[q]; ok {
		return prev
	}

	cached, expired, err := cacher.Get()
	if err != nil || expired || cached == nil {
		return nil
	}

	records := lo.Filter(lo.Values(cached), func(r *record, _ int) bool {
		return r.Query != q && fuzzy.Match(q, r.Query)
	})
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Rank == records[j].Rank {
			return records[i].Query < records[j].Query
		}
		return records[i].Rank > records[j].Rank
	})

	result := lo.Map(records, func(r *record, _ int) string { return r.Query })
	suggestions[q] = result
	return result
}

func sanitize(q string) string {
	return strings.TrimSpace(strings.ToLower(q))
}
