package playlist

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vlog-app/vlog/filesystem"
	"github.com/vlog-app/vlog/library"
	"github.com/vlog-app/vlog/media"
)

// Files turns command line arguments into a playlist. URLs and files are kept in
// order and directories expand to the videos they directly contain.
// Paths that do not exist are kept so that loading them reports the failure.
type Files struct {
	browser *library.Browser
	args    []string
}

func NewFiles(browser *library.Browser, args ...string) *Files {
	return &Files{browser: browser, args: args}
}

func (f *Files) Name() string {
	if len(f.args) == 1 {
		return filepath.Base(f.args[0])
	}
	return "files"
}

func (f *Files) Playlist(ctx context.Context) (Playlist, error) {
	var items []media.Reference

	for _, arg := range f.args {
		if strings.Contains(arg, "://") {
			items = append(items, media.NewReference(arg))
			continue
		}

		path, err := filepath.Abs(arg)
		if err != nil {
			return Playlist{}, fmt.Errorf("resolve %s: %w", arg, err)
		}

		if isDir, _ := filesystem.API().IsDir(path); isDir {
			items = append(items, f.browser.Folder(ctx, path).References()...)
			continue
		}
		items = append(items, media.NewReference(path))
	}

	if len(items) == 0 {
		return Playlist{}, fmt.Errorf("%s: %w", f.Name(), ErrEmpty)
	}
	return New(f.Name(), items...), nil
}
