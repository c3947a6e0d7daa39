package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vlog-app/vlog/auth"
	"github.com/vlog-app/vlog/engine"
	"github.com/vlog-app/vlog/filesystem"
	"github.com/vlog-app/vlog/history"
	"github.com/vlog-app/vlog/icon"
	"github.com/vlog-app/vlog/library"
	"github.com/vlog-app/vlog/media"
	"github.com/vlog-app/vlog/player"
	"github.com/vlog-app/vlog/playlist"
	"github.com/vlog-app/vlog/style"
)

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().BoolP("presets", "P", false, "Play the preset network playlist from playlist.presets")
	playCmd.Flags().StringP("playlist", "p", "", "Play the items returned by a Lua playlist script")
	lo.Must0(playCmd.RegisterFlagCompletionFunc("playlist", completionPlaylists))
	playCmd.MarkFlagsMutuallyExclusive("presets", "playlist")

	playCmd.Flags().IntP("start", "s", 0, "Index of the first item to play")
	playCmd.Flags().BoolP("stop-on-error", "e", false, "Stop at the first item that fails instead of skipping it")
	playCmd.Flags().StringP("result", "o", "", "Write the playback result as JSON to this file, - for stdout")

	playCmd.Flags().Bool("no-autoplay", false, "Load the first item paused")
	playCmd.Flags().Bool("no-resume", false, "Start from the beginning even when a position was saved")
}

var playCmd = &cobra.Command{
	Use:   "play [file|dir|url]...",
	Short: "Play videos without the browser",
	Long: `Play files, directories and URLs in order, or a whole playlist.
Directories expand to the videos they directly contain.
Playback runs until the last item ends, the player window is closed or the process is interrupted.`,
	Example: `  vlog play ~/Videos/holiday.mp4
  vlog play --presets --result -
  vlog play --playlist news`,
	PreRun: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 && !cmd.Flags().Changed("presets") && !cmd.Flags().Changed("playlist") {
			handleErr(errors.New("nothing to play: pass files, --presets or --playlist"))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		CheckDependencies()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		source, err := playSource(cmd, args)
		handleErr(err)

		pl, err := source.Playlist(ctx)
		handleErr(err)
		pl = authorized(pl)

		options := player.OptionsFromConfig(history.Positions{})
		if lo.Must(cmd.Flags().GetBool("no-autoplay")) {
			options.Autoplay = false
		}
		if lo.Must(cmd.Flags().GetBool("no-resume")) {
			options.Resume = false
		}

		session := player.NewSession(
			engine.MPVFactory(engine.MPVOptionsFromConfig()),
			pl,
			lo.Must(cmd.Flags().GetInt("start")),
			options,
		)
		session.DismissErrors = !lo.Must(cmd.Flags().GetBool("stop-on-error"))

		go reportProgress(cmd.ErrOrStderr(), session.Updates())

		result, err := session.Run(ctx)
		handleErr(err)

		handleErr(writeResult(cmd, result))
	},
}

func playSource(cmd *cobra.Command, args []string) (playlist.Source, error) {
	switch {
	case lo.Must(cmd.Flags().GetBool("presets")):
		return playlist.Presets(), nil
	case cmd.Flags().Changed("playlist"):
		return playlist.FindLua(lo.Must(cmd.Flags().GetString("playlist")))
	default:
		libraryOptions := library.OptionsFromConfig()
		libraryOptions.Roots = nil
		browser := library.NewBrowser(filesystem.API(), libraryOptions)
		return playlist.NewFiles(browser, args...), nil
	}
}

// authorized attaches the stored per-host headers to remote items.
func authorized(pl playlist.Playlist) playlist.Playlist {
	items := lo.Map(pl.Items, func(ref media.Reference, _ int) media.Reference {
		return auth.Apply(ref)
	})
	return playlist.New(pl.Name, items...)
}

func reportProgress(out io.Writer, updates <-chan player.UiState) {
	var title string
	for state := range updates {
		if state.Title == "" || state.Title == title {
			continue
		}
		title = state.Title
		_, _ = fmt.Fprintf(
			out,
			"%s %s %s\n",
			icon.Get(icon.Play),
			style.Faint(fmt.Sprintf("[%d/%d]", state.Index+1, state.Count)),
			title,
		)
	}
}

func writeResult(cmd *cobra.Command, result player.Result) error {
	target := lo.Must(cmd.Flags().GetString("result"))
	if target == "" {
		_, _ = fmt.Fprintf(
			cmd.ErrOrStderr(),
			"%s finished by %s on item %d\n",
			icon.Get(icon.Success),
			result.EndBy,
			result.Index+1,
		)
		return nil
	}

	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	if target == "-" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}

	return filesystem.API().WriteFile(target, data, 0o644)
}

func completionPlaylists(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	scripts, err := playlist.Installed()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return lo.Map(scripts, func(s *playlist.Lua, _ int) string { return s.Name() }), cobra.ShellCompDirectiveNoFileComp
}
