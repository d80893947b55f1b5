package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kaya-app/pbxshare/shareext"
)

func newFixPathsCmd(opts *rootOptions) *cobra.Command {
	var group string
	cmd := &cobra.Command{
		Use:   "fix-paths",
		Short: "Remove the group name prefix from the extension's file paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if group == "" {
				group = opts.settings.Extension.Name
			}
			project, err := opts.openProject()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			result, err := shareext.RepairPaths(cmd.Context(), project, group)
			if errors.Is(err, shareext.ErrGroupNotFound) {
				printInfo(out, "%s group not found", group)
				return &ExitError{Code: 1, Err: err}
			}
			if err != nil {
				return err
			}
			for _, fix := range result.Fixed {
				fmt.Fprintf(out, "Fixing path: %s -> %s\n", fix.From, fix.To)
			}
			printSuccess(out, "File paths fixed!")
			return nil
		},
	}
	cmd.Flags().StringVarP(&group, "group", "g", "", "top-level group to repair (default the extension name)")
	return cmd
}
