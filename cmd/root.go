// Package cmd implements the vlog command-line interface.
package cmd

import (
	"fmt"
	"os"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vlog-app/vlog/color"
	"github.com/vlog-app/vlog/constant"
	"github.com/vlog-app/vlog/icon"
	"github.com/vlog-app/vlog/key"
	"github.com/vlog-app/vlog/library"
	"github.com/vlog-app/vlog/log"
	"github.com/vlog-app/vlog/style"
	"github.com/vlog-app/vlog/tui"
	"github.com/vlog-app/vlog/util"
	"github.com/vlog-app/vlog/version"
	"github.com/vlog-app/vlog/where"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the icon variant (e.g. nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().BoolP("write-history", "H", true, "Remember playback positions so videos can resume")
	lo.Must0(viper.BindPFlag(key.HistorySave, rootCmd.PersistentFlags().Lookup("write-history")))

	rootCmd.PersistentFlags().StringSliceP("root", "r", []string{}, "Directories to browse instead of library.roots")

	rootCmd.PersistentFlags().String("sort", "", "Order videos by name, modified or size")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("sort", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return library.AvailableSorts(), cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(viper.BindPFlag(key.LibrarySort, rootCmd.PersistentFlags().Lookup("sort")))

	rootCmd.Flags().BoolP("folders", "f", false, "Open the folders tab")
	rootCmd.Flags().BoolP("continue", "c", false, "Open the resume history")
	rootCmd.MarkFlagsMutuallyExclusive("folders", "continue")

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})

	// stale IPC sockets of crashed sessions
	go func() {
		_ = util.Delete(where.Temp())
	}()
}

var rootCmd = &cobra.Command{
	Use:   constant.Vlog,
	Short: "Browse and play the videos on this machine from the terminal",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Browse and play the videos on this machine from the terminal"),
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		CheckDependencies()

		options := tui.Options{
			Folders:  lo.Must(cmd.Flags().GetBool("folders")),
			Continue: lo.Must(cmd.Flags().GetBool("continue")),
			Roots:    rootsFlag(cmd),
		}
		handleErr(tui.Run(&options))
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func rootsFlag(cmd *cobra.Command) []string {
	roots, _ := cmd.Flags().GetStringSlice("root")
	return lo.Compact(roots)
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
