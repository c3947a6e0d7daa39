package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vlog-app/vlog/icon"
	"github.com/vlog-app/vlog/key"
	"github.com/vlog-app/vlog/style"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the playback engine is installed",
	Run: func(cmd *cobra.Command, args []string) {
		path := CheckDependencies()
		fmt.Printf("%s %s found at %s\n", icon.Get(icon.Success), viper.GetString(key.PlayerEngine), path)
	},
}

// CheckDependencies exits with install instructions when the configured engine is not on PATH.
func CheckDependencies() string {
	engine := viper.GetString(key.PlayerEngine)
	path, err := exec.LookPath(engine)
	if err != nil {
		printMissingDependencyError(engine)
		os.Exit(1)
	}
	return path
}

func installHint(goos string) string {
	switch goos {
	case "darwin":
		return "brew install mpv"
	case "linux":
		return "sudo apt install mpv"
	case "windows":
		return "scoop install mpv"
	default:
		return ""
	}
}

func printMissingDependencyError(dep string) {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.ErrorColor).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.ErrorColor).Render(fmt.Sprintf("%s Missing playback engine", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("%q was not found in your PATH.", dep))

	suggestion := ""
	if hint := installHint(runtime.GOOS); hint != "" {
		suggestion = fmt.Sprintf("\n\nTo install mpv, try running:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(hint))
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
