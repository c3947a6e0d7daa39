package version

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"
	"github.com/vlog-app/vlog/color"
	"github.com/vlog-app/vlog/constant"
	"github.com/vlog-app/vlog/icon"
	"github.com/vlog-app/vlog/key"
	"github.com/vlog-app/vlog/log"
	"github.com/vlog-app/vlog/style"
	"github.com/vlog-app/vlog/util"
)

const checkTimeout = 3 * time.Second

// Notify prints a notice when a newer release exists and cli.version_check is on.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	erase := util.PrintErasable(fmt.Sprintf("%s Checking for a new version...", icon.Get(icon.Progress)))
	latest, err := Latest(ctx)
	erase()

	if err != nil {
		log.Warn("version check: ", err)
		return
	}

	if comp, err := Compare(latest, constant.Version); err != nil || comp <= 0 {
		return
	}

	fmt.Printf(`
%s New version is available %s %s
%s

`,
		style.Fg(color.Green)("▇▇▇"),
		style.Bold(latest),
		style.Faint(fmt.Sprintf("(You're on %s)", constant.Version)),
		style.Faint(fmt.Sprintf("https://github.com/%s/releases/tag/v%s", constant.Repository, latest)),
	)
}
