package inline

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/vlog-app/vlog/library"
	"github.com/vlog-app/vlog/log"
	"github.com/vlog-app/vlog/media"
)

// Run lists videos from the library, filtered by the query and the selector.
func Run(ctx context.Context, options *Options) error {
	if options.Out == nil {
		options.Out = os.Stdout
	}

	var videos []media.VideoItem
	if dir, ok := options.Folder.Get(); ok {
		videos = options.Browser.Folder(ctx, dir).Videos
	} else {
		videos = options.Browser.Videos(ctx)
	}

	videos = library.Filter(videos, options.Query)

	if selector, ok := options.Selector.Get(); ok {
		videos = selector(videos)
	}

	log.Infof("listing %d videos", len(videos))

	if options.Json {
		return writeJson(options.Out, videos, options.Query)
	}

	for _, v := range videos {
		if _, err := fmt.Fprintln(options.Out, v.Path); err != nil {
			return err
		}
	}

	return nil
}

func writeJson(out io.Writer, videos []media.VideoItem, query string) error {
	if videos == nil {
		videos = []media.VideoItem{}
	}

	data, err := asJson(videos, query)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
