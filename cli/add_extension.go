package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kaya-app/pbxshare/shareext"
)

func newAddExtensionCmd(opts *rootOptions) *cobra.Command {
	var writeFiles bool
	cmd := &cobra.Command{
		Use:   "add-extension",
		Short: "Create the share extension target and embed it in the host app",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ext := opts.settings.Extension
			project, err := opts.openProject()
			if err != nil {
				return err
			}

			result, err := shareext.Scaffold(cmd.Context(), project, ext)
			if err != nil {
				return fmt.Errorf("adding %s: %w", ext.Name, err)
			}
			out := cmd.OutOrStdout()
			if result.AlreadyExists {
				printInfo(out, "%s target already exists", ext.Name)
				return nil
			}

			if writeFiles {
				written, err := shareext.WriteSupportFiles(project.FilePath(), ext)
				for _, path := range written {
					fmt.Fprintf(out, "Created %s\n", pathStyle.Render(path))
				}
				if err != nil {
					return err
				}
			}
			printSuccess(out, "%s target added successfully!", ext.Name)
			return nil
		},
	}
	cmd.Flags().BoolVar(&writeFiles, "write-files", false, "also create missing Info.plist and entitlements files")
	return cmd
}
