// Package cli implements the pbxshare command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/kaya-app/pbxshare/config"
	"github.com/kaya-app/pbxshare/pbxproj"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

// ExitError carries the exit code of a condition that was already reported
// to the user.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

type rootOptions struct {
	configFile string
	verbose    bool
	settings   config.Settings
}

func (o *rootOptions) openProject() (*pbxproj.PbxProject, error) {
	return pbxproj.Open(o.settings.Project)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "pbxshare",
		Short: "Add and repair the share extension target of a Flutter iOS project",
		Long: `pbxshare edits the Xcode project of a Flutter app (Runner.xcodeproj by default).
add-extension creates the "Share Extension" target and embeds it in Runner;
fix-paths removes the doubled group prefix from the extension's file paths.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

			v := config.New(opts.configFile)
			if err := v.BindPFlag(config.KeyProject, cmd.Flags().Lookup("project")); err != nil {
				return err
			}
			settings, err := config.Load(v)
			if err != nil {
				return err
			}
			opts.settings = settings
			slog.Debug("settings loaded", "project", settings.Project, "target", settings.Extension.Name)
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file (default ./.pbxshare.yaml)")
	flags.StringP("project", "p", config.DefaultProject, "path to the .xcodeproj or project.pbxproj")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log every project edit")

	cmd.AddCommand(
		newAddExtensionCmd(opts),
		newFixPathsCmd(opts),
		newDumpCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// Execute runs the command line with build info injected via ldflags. An
// interrupt cancels the run before the project is saved.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := newRootCmd()
	err := cmd.ExecuteContext(ctx)
	var exitErr *ExitError
	if err != nil && !errors.As(err, &exitErr) {
		printError(cmd.ErrOrStderr(), err)
	}
	return err
}

// ExitCode maps an Execute error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

func versionString() string {
	return fmt.Sprintf("pbxshare version %s (commit: %s, built: %s)", buildVersion, buildCommit, buildDate)
}
