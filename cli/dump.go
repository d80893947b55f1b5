package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDumpCmd(opts *rootOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the parsed project as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := opts.openProject()
			if err != nil {
				return err
			}
			switch format {
			case "json":
				return project.Dump(cmd.OutOrStdout())
			case "yaml":
				return project.DumpYAML(cmd.OutOrStdout())
			default:
				return fmt.Errorf("unknown format %q (want json or yaml)", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or yaml")
	return cmd
}
