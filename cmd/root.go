package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"filekit/pkg/config"
	"filekit/pkg/logging"
	"filekit/pkg/version"
)

// app carries the state shared by all commands of one invocation.
type app struct {
	v          *viper.Viper
	logger     *zap.Logger
	settings   config.Settings
	configFile string // --config
	configUsed string // file actually read, if any

	// allowMissingConfig lets a missing --config file through; config init creates it.
	allowMissingConfig bool
}

// NewRootCmd builds the filekit command tree. logger is used until the
// configuration asks for debug output.
func NewRootCmd(logger *zap.Logger) *cobra.Command {
	a := &app{v: viper.New(), logger: logging.OrNop(logger)}

	rootCmd := &cobra.Command{
		Use:   version.AppName,
		Short: "filekit merges text files and converts wiki pages to blog posts",
		Long: `filekit bundles two batch tools that work on a local directory tree:

  merge    concatenates text files into one file with path headers,
           ready to hand to a language model as context
  convert  rewrites Wiki.js Markdown front matter into Hexo front matter`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default is $HOME/.config/filekit/config.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	_ = a.v.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	rootCmd.AddCommand(
		newMergeCmd(a),
		newConvertCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// init loads the configuration and switches to a debug logger when asked to.
func (a *app) init() error {
	used, err := config.Load(a.v, a.configFile)
	if err != nil && !(a.allowMissingConfig && errors.Is(err, fs.ErrNotExist)) {
		return err
	}
	a.configUsed = used

	settings, err := config.FromViper(a.v)
	if err != nil {
		return err
	}
	a.settings = settings

	if settings.Debug {
		logger, err := logging.New(true, version.AppName, version.Get().Version)
		if err != nil {
			return fmt.Errorf("failed to initialize debug logger: %w", err)
		}
		a.logger = logger
	}

	if used != "" {
		a.logger.Debug("Using config file", zap.String("path", used))
	} else {
		a.logger.Debug("No config file found, using defaults, environment and flags")
	}
	return nil
}

// Execute runs the root command with the process arguments.
func Execute(ctx context.Context, logger *zap.Logger) error {
	return NewRootCmd(logger).ExecuteContext(ctx)
}
