package cmd

import (
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vlog-app/vlog/color"
	"github.com/vlog-app/vlog/config"
	"github.com/vlog-app/vlog/constant"
	"github.com/vlog-app/vlog/style"
	"github.com/vlog-app/vlog/where"
	"golang.org/x/exp/slices"
)

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set-only", "s", false, "Show only variables that are set")
	envCmd.Flags().BoolP("unset-only", "u", false, "Show only variables that are not set")

	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")
}

// envName maps a config key to the variable that overrides it.
func envName(key string) string {
	if key == where.EnvConfigPath {
		return key
	}
	return strings.ToUpper(constant.Vlog + "_" + config.EnvKeyReplacer.Replace(key))
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Show the environment variables vlog reads",
	Run: func(cmd *cobra.Command, args []string) {
		setOnly := lo.Must(cmd.Flags().GetBool("set-only"))
		unsetOnly := lo.Must(cmd.Flags().GetBool("unset-only"))

		names := lo.Map(append(slices.Clone(config.EnvExposed), where.EnvConfigPath), func(k string, _ int) string {
			return envName(k)
		})
		slices.Sort(names)

		for _, env := range names {
			value, present := os.LookupEnv(env)

			if (setOnly && !present) || (unsetOnly && present) {
				continue
			}

			cmd.Print(style.New().Bold(true).Foreground(color.Purple).Render(env))
			cmd.Print("=")

			if present {
				cmd.Println(style.Fg(color.Green)(value))
			} else {
				cmd.Println(style.Fg(color.Red)("unset"))
			}
		}
	},
}
