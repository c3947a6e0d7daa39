package cmd

import (
	"encoding/json"
	"io"
	"path/filepath"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/vlog-app/vlog/filesystem"
	"github.com/vlog-app/vlog/inline"
	"github.com/vlog-app/vlog/library"
	"github.com/vlog-app/vlog/permission"
	"github.com/vlog-app/vlog/query"
)

func init() {
	rootCmd.AddCommand(lsCmd)

	lsCmd.Flags().StringP("query", "q", "", "Fuzzy filter applied to names, titles and folders")
	lsCmd.Flags().StringP("select", "s", "", "Pick from the filtered videos: first, last, all, [n], [from]-[to] or @[text]@")
	lsCmd.Flags().StringP("folder", "d", "", "List a single directory instead of the library roots")
	lsCmd.Flags().BoolP("json", "j", false, "Print a JSON document instead of paths")
	lsCmd.Flags().StringP("output", "o", "", "Write the output to a file")
	lsCmd.Flags().Bool("schema", false, "Print the JSON schema of the --json output and exit")

	lo.Must0(lsCmd.RegisterFlagCompletionFunc("query", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return query.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
	}))
}

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the videos of the library",
	Long: `List videos without starting the interface, one path per line or as JSON.

Selectors:
  first - first video
  last - last video
  all - every video
  [n] - video at index n, starting from 0
  [from]-[to] - inclusive range of indices
  @[text]@ - videos whose file name contains text`,
	Example: `  vlog ls --query beach --json
  vlog ls --folder ~/Videos/Camera --select 0-4 | xargs vlog play`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("schema")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(lsSchema()))
			return
		}

		libraryOptions := library.OptionsFromConfig()
		if roots := rootsFlag(cmd); len(roots) > 0 {
			libraryOptions.Roots = roots
		}

		folder := mo.EmptyableToOption(lo.Must(cmd.Flags().GetString("folder")))
		if dir, ok := folder.Get(); ok {
			abs, err := filepath.Abs(dir)
			handleErr(err)
			folder = mo.Some(abs)
			libraryOptions.Roots = []string{abs}
		}

		gate := permission.NewGate(filesystem.API(), libraryOptions.Roots)
		handleErr(gate.Check(cmd.Context()))

		selector := mo.None[inline.Selector]()
		if description := lo.Must(cmd.Flags().GetString("select")); description != "" {
			fn, err := inline.ParseSelector(description)
			handleErr(err)
			selector = mo.Some(fn)
		}

		var out io.Writer = cmd.OutOrStdout()
		if output := lo.Must(cmd.Flags().GetString("output")); output != "" {
			file, err := filesystem.API().Create(output)
			handleErr(err)
			defer file.Close()
			out = file
		}

		q := lo.Must(cmd.Flags().GetString("query"))
		if q != "" {
			_ = query.Remember(q, 1)
		}

		handleErr(inline.Run(cmd.Context(), &inline.Options{
			Out:      out,
			Browser:  library.NewBrowser(filesystem.API(), libraryOptions),
			Folder:   folder,
			Query:    q,
			Json:     lo.Must(cmd.Flags().GetBool("json")),
			Selector: selector,
		}))
	},
}

func lsSchema() *jsonschema.Schema {
	reflector := new(jsonschema.Reflector)
	reflector.Anonymous = true
	reflector.Namer = func(t reflect.Type) string {
		return filepath.Base(t.PkgPath()) + "." + t.Name()
	}
	return reflector.Reflect(&inline.Output{})
}

