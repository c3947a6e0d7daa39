// Package library enumerates the videos and folders found under the configured roots.
//
// Browsing never fails: unreadable entries are logged and skipped, so a broken
// root yields an empty listing. Use permission.Gate to tell the user why.
package library

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/vlog-app/vlog/key"
	"github.com/vlog-app/vlog/log"
	"github.com/vlog-app/vlog/media"
	"github.com/vlog-app/vlog/where"
)

// Sort orders.
const (
	SortName     = "name"
	SortModified = "modified"
	SortSize     = "size"
)

// AvailableSorts lists the accepted library.sort values.
func AvailableSorts() []string {
	return []string{SortName, SortModified, SortSize}
}

// Options control what the browser considers a video and how results are ordered.
type Options struct {
	Roots      []string
	Extensions []string
	ShowHidden bool
	Sort       string
	ReadTags   bool
}

// OptionsFromConfig reads the library.* keys. An empty root list falls back to the user videos directory.
func OptionsFromConfig() Options {
	roots := viper.GetStringSlice(key.LibraryRoots)
	if len(roots) == 0 {
		roots = []string{where.Videos()}
	}

	return Options{
		Roots:      roots,
		Extensions: viper.GetStringSlice(key.LibraryExtensions),
		ShowHidden: viper.GetBool(key.LibraryShowHidden),
		Sort:       viper.GetString(key.LibrarySort),
		ReadTags:   viper.GetBool(key.LibraryReadTags),
	}
}

// Browser lists videos from a filesystem.
type Browser struct {
	fs         afero.Fs
	options    Options
	extensions map[string]struct{}
}

// NewBrowser creates a browser over fs.
func NewBrowser(fs afero.Fs, options Options) *Browser {
	extensions := make(map[string]struct{}, len(options.Extensions))
	for _, ext := range options.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extensions[ext] = struct{}{}
	}

	return &Browser{fs: fs, options: options, extensions: extensions}
}

// Roots returns the configured roots.
func (b *Browser) Roots() []string {
	return b.options.Roots
}

// Fs returns the filesystem the browser reads.
func (b *Browser) Fs() afero.Fs {
	return b.fs
}

// IsVideo reports whether name has a video extension.
func (b *Browser) IsVideo(name string) bool {
	_, ok := b.extensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// Videos walks every root and returns all videos, sorted.
// Videos reachable from more than one root are listed once.
func (b *Browser) Videos(ctx context.Context) []media.VideoItem {
	var videos []media.VideoItem
	for _, root := range b.options.Roots {
		videos = append(videos, b.walk(ctx, root)...)
	}

	videos = lo.UniqBy(videos, func(v media.VideoItem) string { return v.Path })
	b.sort(videos)
	return videos
}

// Folders groups all videos by their directory. Folders are sorted by name.
func (b *Browser) Folders(ctx context.Context) []media.FolderItem {
	groups := lo.GroupBy(b.Videos(ctx), func(v media.VideoItem) string {
		return filepath.Dir(v.Path)
	})

	folders := make([]media.FolderItem, 0, len(groups))
	for dir, videos := range groups {
		folders = append(folders, media.FolderItem{
			Name:   filepath.Base(dir),
			Path:   dir,
			Videos: videos,
		})
	}

	sort.SliceStable(folders, func(i, j int) bool {
		a, c := strings.ToLower(folders[i].Name), strings.ToLower(folders[j].Name)
		if a == c {
			return folders[i].Path < folders[j].Path
		}
		return a < c
	})
	return folders
}

// Folder lists the videos directly inside dir.
func (b *Browser) Folder(ctx context.Context, dir string) media.FolderItem {
	folder := media.FolderItem{Name: filepath.Base(dir), Path: dir}

	entries, err := afero.ReadDir(b.fs, dir)
	if err != nil {
		log.WithFields(log.Fields{"dir": dir}).Warn("list folder: ", err)
		return folder
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		if entry.IsDir() || !b.IsVideo(entry.Name()) || (!b.options.ShowHidden && isHidden(entry.Name())) {
			continue
		}
		folder.Videos = append(folder.Videos, b.item(filepath.Join(dir, entry.Name()), entry))
	}

	b.sort(folder.Videos)
	return folder
}

func (b *Browser) walk(ctx context.Context, root string) []media.VideoItem {
	var videos []media.VideoItem

	err := afero.Walk(b.fs, root, func(path string, info os.FileInfo, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err != nil {
			log.WithFields(log.Fields{"path": path}).Warn("walk: ", err)
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if path != root && !b.options.ShowHidden && isHidden(info.Name()) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !info.IsDir() && b.IsVideo(info.Name()) {
			videos = append(videos, b.item(path, info))
		}
		return nil
	})
	if err != nil && ctx.Err() == nil {
		log.WithFields(log.Fields{"root": root}).Warn("enumerate root: ", err)
	}

	return videos
}

func (b *Browser) item(path string, info os.FileInfo) media.VideoItem {
	item := media.VideoItem{
		Name:       info.Name(),
		Path:       path,
		Folder:     filepath.Base(filepath.Dir(path)),
		Size:       info.Size(),
		ModifiedAt: info.ModTime(),
	}

	if b.options.ReadTags {
		item.Title = b.title(path)
	}
	return item
}

func (b *Browser) sort(videos []media.VideoItem) {
	less := func(i, j int) bool {
		return strings.ToLower(videos[i].Name) < strings.ToLower(videos[j].Name)
	}

	switch b.options.Sort {
	case SortModified:
		less = func(i, j int) bool { return videos[i].ModifiedAt.After(videos[j].ModifiedAt) }
	case SortSize:
		less = func(i, j int) bool { return videos[i].Size > videos[j].Size }
	}

	sort.SliceStable(videos, less)
}
