package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vlog-app/vlog/auth"
	"github.com/vlog-app/vlog/color"
	"github.com/vlog-app/vlog/icon"
	"github.com/vlog-app/vlog/style"
)

func init() {
	rootCmd.AddCommand(authCmd)
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage HTTP headers sent to streaming hosts",
	Long: `Store request headers, such as tokens or cookies, for hosts that need them.
Values live in the system keyring and are attached to every remote item of that host.`,
}

func completionHosts(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	hosts, err := auth.Hosts()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return hosts, cobra.ShellCompDirectiveNoFileComp
}

func init() {
	authCmd.AddCommand(authSetCmd)

	authSetCmd.Flags().StringP("header", "k", "", "Header name, e.g. Authorization")
	authSetCmd.Flags().StringP("value", "v", "", "Header value. Prompted for when omitted")
}

var authSetCmd = &cobra.Command{
	Use:               "set [host]",
	Short:             "Store a header for a host",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionHosts,
	Example:           "  vlog auth set media.example.com --header Authorization",
	Run: func(cmd *cobra.Command, args []string) {
		header := lo.Must(cmd.Flags().GetString("header"))
		if header == "" {
			handleErr(survey.AskOne(&survey.Input{
				Message: "Header name",
				Default: "Authorization",
			}, &header, survey.WithValidator(survey.Required)))
		}

		value := lo.Must(cmd.Flags().GetString("value"))
		if value == "" {
			handleErr(survey.AskOne(&survey.Password{
				Message: fmt.Sprintf("Value of %s", header),
			}, &value, survey.WithValidator(survey.Required)))
		}

		handleErr(auth.SetHeader(args[0], header, value))
		fmt.Printf(
			"%s stored %s for %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(header),
			style.Fg(color.Yellow)(args[0]),
		)
	},
}

func init() {
	authCmd.AddCommand(authListCmd)
	authListCmd.Flags().BoolP("reveal", "R", false, "Print header values instead of masking them")
	authListCmd.SetOut(os.Stdout)
}

var authListCmd = &cobra.Command{
	Use:   "list",
	Short: "List hosts and the names of their headers",
	Run: func(cmd *cobra.Command, args []string) {
		reveal := lo.Must(cmd.Flags().GetBool("reveal"))

		hosts, err := auth.Hosts()
		handleErr(err)

		for _, host := range hosts {
			headers, err := auth.Headers(host)
			handleErr(err)

			cmd.Println(style.New().Bold(true).Foreground(color.HiPurple).Render(host))

			names := lo.Keys(headers)
			sort.Strings(names)
			for _, name := range names {
				value := "********"
				if reveal {
					value = headers[name]
				}
				cmd.Printf("  %s: %s\n", name, style.Faint(value))
			}
		}
	},
}

func init() {
	authCmd.AddCommand(authDeleteCmd)
}

var authDeleteCmd = &cobra.Command{
	Use:               "delete [host]...",
	Aliases:           []string{"remove"},
	Short:             "Forget every header stored for the hosts",
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completionHosts,
	Run: func(cmd *cobra.Command, args []string) {
		for _, host := range args {
			handleErr(auth.DeleteHeaders(host))
			fmt.Printf("%s deleted headers of %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), style.Fg(color.Yellow)(host))
		}
	},
}
