package cmd

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vlog-app/vlog/color"
	"github.com/vlog-app/vlog/constant"
	"github.com/vlog-app/vlog/filesystem"
	"github.com/vlog-app/vlog/icon"
	"github.com/vlog-app/vlog/media"
	"github.com/vlog-app/vlog/playlist"
	"github.com/vlog-app/vlog/style"
	"github.com/vlog-app/vlog/util"
	"github.com/vlog-app/vlog/where"
)

func init() {
	rootCmd.AddCommand(playlistsCmd)
}

var playlistsCmd = &cobra.Command{
	Use:     "playlists",
	Aliases: []string{"playlist"},
	Short:   "Manage Lua playlist scripts",
}

func init() {
	playlistsCmd.AddCommand(playlistsListCmd)
	playlistsListCmd.Flags().BoolP("raw", "r", false, "Print names only")
	playlistsListCmd.SetOut(os.Stdout)
}

var playlistsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed playlist scripts and the presets",
	Run: func(cmd *cobra.Command, args []string) {
		scripts, err := playlist.Installed()
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("raw")) {
			for _, s := range scripts {
				cmd.Println(s.Name())
			}
			return
		}

		headerStyle := style.New().Foreground(color.HiBlue).Bold(true).Render

		cmd.Println(headerStyle("Scripts:"))
		for _, s := range scripts {
			cmd.Printf("%s %s %s\n", icon.Get(icon.Lua), s.Name(), style.Faint(s.Path()))
		}

		presets, _ := playlist.Presets().Playlist(cmd.Context())
		cmd.Println()
		cmd.Println(headerStyle("Presets:"))
		for _, ref := range presets.Items {
			cmd.Println(ref.Locator)
		}
	},
}

func init() {
	playlistsCmd.AddCommand(playlistsNewCmd)

	playlistsNewCmd.Flags().StringP("name", "n", "", "Name of the new playlist")
	playlistsNewCmd.Flags().StringP("author", "a", "", "Author written into the script header")
}

var playlistsNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Scaffold a new Lua playlist script",
	Long: `Write a playlist script skeleton into the playlists directory.
The script must define a Playlist function returning a table of items.`,
	Run: func(cmd *cobra.Command, args []string) {
		name := lo.Must(cmd.Flags().GetString("name"))
		if name == "" {
			handleErr(survey.AskOne(&survey.Input{
				Message: "Playlist name",
			}, &name, survey.WithValidator(survey.Required)))
		}

		author := lo.Must(cmd.Flags().GetString("author"))
		if author == "" {
			if usr, err := user.Current(); err == nil {
				author = usr.Username
			} else {
				author = "Anonymous"
			}
		}

		s := struct {
			Name       string
			Author     string
			PlaylistFn string
		}{
			Name:       name,
			Author:     author,
			PlaylistFn: constant.PlaylistFn,
		}

		funcMap := template.FuncMap{
			"repeat": strings.Repeat,
			"plus":   func(a, b int) int { return a + b },
			"max":    util.Max[int],
		}

		tmpl, err := template.New("playlist").Funcs(funcMap).Parse(constant.PlaylistTemplate)
		handleErr(err)

		target := filepath.Join(where.Playlists(), util.SanitizeFilename(s.Name)+playlist.ScriptExt)
		exists, err := filesystem.API().Exists(target)
		handleErr(err)
		if exists {
			overwrite := false
			handleErr(survey.AskOne(&survey.Confirm{
				Message: fmt.Sprintf("%s already exists, overwrite?", target),
			}, &overwrite))
			if !overwrite {
				return
			}
		}

		f, err := filesystem.API().Create(target)
		handleErr(err)
		defer f.Close()

		handleErr(tmpl.Execute(f, s))
		cmd.Println(target)
	},
}

func init() {
	playlistsCmd.AddCommand(playlistsRemoveCmd)
}

var playlistsRemoveCmd = &cobra.Command{
	Use:               "remove [name]...",
	Short:             "Delete playlist scripts",
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completionPlaylists,
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range args {
			script, err := playlist.FindLua(name)
			handleErr(err)
			handleErr(filesystem.API().Remove(script.Path()))
			fmt.Printf("%s removed %s\n", icon.Get(icon.Success), style.Fg(color.Yellow)(script.Name()))
		}
	},
}

func init() {
	playlistsCmd.AddCommand(playlistsRunCmd)
	playlistsRunCmd.SetOut(os.Stdout)
}

var playlistsRunCmd = &cobra.Command{
	Use:   "run [name|file]",
	Short: "Run a playlist script and print the items it returns",
	Long: `Execute a playlist script in the Lua 5.1 virtual machine without playing anything.
Useful while writing scripts.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionPlaylists,
	Example:           "  vlog playlists run ./news.lua",
	Run: func(cmd *cobra.Command, args []string) {
		var source *playlist.Lua
		if filepath.Ext(args[0]) == playlist.ScriptExt {
			source = playlist.NewLua(args[0])
		} else {
			var err error
			source, err = playlist.FindLua(args[0])
			handleErr(err)
		}

		pl, err := source.Playlist(cmd.Context())
		handleErr(err)

		for i, ref := range pl.Items {
			cmd.Printf("%s %s\n", style.Faint(fmt.Sprintf("%3d", i)), describeRef(ref))
		}
	},
}

func describeRef(ref media.Reference) string {
	title := ref.DisplayTitle()
	if title == ref.Locator {
		return ref.Locator
	}
	return fmt.Sprintf("%s %s", style.Bold(title), style.Faint(ref.Locator))
}

func init() {
	playlistsCmd.AddCommand(playlistsInstallCmd)
	playlistsInstallCmd.Flags().StringP("name", "n", "", "Install under this name instead of the URL's file name")
}

var playlistsInstallCmd = &cobra.Command{
	Use:     "install [url]",
	Short:   "Download a playlist script",
	Args:    cobra.ExactArgs(1),
	Example: "  vlog playlists install https://example.com/scripts/news.lua",
	Run: func(cmd *cobra.Command, args []string) {
		erase := util.PrintErasable(fmt.Sprintf("%s Downloading %s...", icon.Get(icon.Progress), args[0]))
		target, updated, err := playlist.Install(cmd.Context(), args[0], lo.Must(cmd.Flags().GetString("name")))
		erase()
		handleErr(err)

		if !updated {
			fmt.Printf("%s %s is up to date\n", icon.Get(icon.Success), target)
			return
		}
		fmt.Printf("%s installed %s\n", icon.Get(icon.Success), style.Fg(color.Yellow)(target))
	},
}

func init() {
	playlistsCmd.AddCommand(playlistsUpdateCmd)
}

var playlistsUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Refetch installed scripts from the URLs they were installed from",
	Run: func(cmd *cobra.Command, args []string) {
		erase := util.PrintErasable(fmt.Sprintf("%s Updating playlist scripts...", icon.Get(icon.Progress)))
		changed, err := playlist.Update(cmd.Context())
		erase()
		handleErr(err)

		if len(changed) == 0 {
			fmt.Printf("%s everything is up to date\n", icon.Get(icon.Success))
			return
		}
		for _, name := range changed {
			fmt.Printf("%s updated %s\n", icon.Get(icon.Success), style.Fg(color.Yellow)(name))
		}
	},
}
