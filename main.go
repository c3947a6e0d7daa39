package main

import (
	"github.com/samber/lo"
	"github.com/vlog-app/vlog/cmd"
	"github.com/vlog-app/vlog/config"
	"github.com/vlog-app/vlog/internal/cache"
	"github.com/vlog-app/vlog/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	go func() {
		if removed := cache.Prune(); removed > 0 {
			log.Infof("pruned %d expired cache entries", removed)
		}
	}()

	cmd.Execute()
}
