package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"filekit/pkg/config"
	"filekit/pkg/ignore"
	"filekit/pkg/merge"
	"filekit/pkg/prompt"
)

type mergeOptions struct {
	ignoreFile  string
	tokens      bool
	encoding    string
	toClipboard bool
	watch       bool
	interactive bool
}

func newMergeCmd(a *app) *cobra.Command {
	opts := &mergeOptions{}

	mergeCmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge text files of a directory tree into one file",
		Long: `Walk the source directory, select files whose path ends with one of the
configured extensions and write them into a single file. Every file is
preceded by a header carrying its path relative to the source directory.
The merged file itself is never part of its input.`,
		Example: `  filekit merge --source ./project --target ./out --filename code.txt
  filekit merge --source . -o context.txt -e .go -e .mod --exclude vendor/
  filekit merge -i`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(cmd.Context(), a, opts)
		},
	}

	flags := mergeCmd.Flags()
	flags.String("source", "", "Directory to scan")
	flags.String("target", "", "Directory receiving the merged file")
	flags.String("filename", "", "Name of the merged file inside the target directory")
	flags.StringP("output", "o", "", "Path of the merged file (overrides --target and --filename)")
	flags.StringSliceP("ext", "e", nil, "File suffix to include (repeatable)")
	flags.StringSliceP("exclude", "x", nil, "Gitignore-style pattern to exclude (repeatable)")
	flags.IntP("workers", "w", 0, "Number of concurrent file readers")
	flags.String("tree", "", "Also write a tree listing of the merged files to this path")
	for key, flag := range map[string]string{
		"merge.source":     "source",
		"merge.target":     "target",
		"merge.filename":   "filename",
		"merge.output":     "output",
		"merge.extensions": "ext",
		"merge.exclude":    "exclude",
		"merge.workers":    "workers",
		"merge.tree":       "tree",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}

	flags.StringVar(&opts.ignoreFile, "ignore-file", "", "Gitignore-style file with exclusion patterns (in addition to <source>/"+ignore.DefaultFileName+")")
	flags.BoolVar(&opts.tokens, "tokens", false, "Log an estimate of the merged file's token count")
	flags.StringVar(&opts.encoding, "encoding", merge.DefaultTokenEncoding, "tiktoken encoding used by --tokens")
	flags.BoolVarP(&opts.toClipboard, "clipboard", "c", false, "Copy the merged file to the clipboard")
	flags.BoolVar(&opts.watch, "watch", false, "Merge again whenever a source file changes, until interrupted")
	flags.BoolVarP(&opts.interactive, "interactive", "i", false, "Ask for the settings in the terminal")

	return mergeCmd
}

func runMerge(ctx context.Context, a *app, opts *mergeOptions) error {
	logger := a.logger
	s := a.settings.Merge

	if opts.interactive {
		answers, err := askInteractively("Text merge settings",
			prompt.Item{Key: "source", Label: "Source directory", Default: s.Source, Validate: prompt.Required},
			prompt.Item{Key: "target", Label: "Target directory", Default: s.Target, Validate: prompt.Required},
			prompt.Item{Key: "filename", Label: "Merged file name", Default: s.Filename, Validate: prompt.Required},
			prompt.Item{Key: "extensions", Label: "Extensions", Default: strings.Join(s.Extensions, ","), Validate: prompt.Required},
			prompt.Item{Key: "workers", Label: "Workers", Default: strconv.Itoa(max(s.Workers, 1)), Validate: prompt.PositiveInt},
		)
		if err != nil {
			return err
		}
		s.Source, s.Target, s.Filename, s.Output = answers["source"], answers["target"], answers["filename"], ""
		s.Extensions = prompt.SplitList(answers["extensions"])
		s.Workers, _ = strconv.Atoi(answers["workers"])
	}

	req, err := mergeRequest(s, opts.ignoreFile)
	if err != nil {
		return err
	}
	logger.Info("Merge settings",
		zap.String("source", req.Source),
		zap.String("output", req.Output),
		zap.Int("workers", req.Workers))

	if opts.watch {
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		logger.Info("Watching for changes, press Ctrl+C to stop", zap.String("source", req.Source))
		return merge.Watch(ctx, req, merge.DefaultWatchDebounce, logger, func(result merge.Result, err error) {
			if err != nil {
				logger.Error("Merge run failed", zap.Error(err))
				return
			}
			logger.Info("Merged", zap.Int("totalFiles", result.Files), zap.String("outputFile", result.OutputFile))
		})
	}

	result, err := merge.Merge(ctx, req, logger)
	if err != nil {
		return err
	}
	if result.Files == 0 || (!opts.tokens && !opts.toClipboard) {
		return nil
	}

	data, err := os.ReadFile(result.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to read merged file: %w", err)
	}

	if opts.tokens {
		n, err := merge.CountTokens(string(data), opts.encoding)
		if err != nil {
			logger.Warn("Token estimate unavailable", zap.Error(err))
		} else {
			logger.Info("Token estimate", zap.String("encoding", opts.encoding), zap.Int("tokens", n))
		}
	}

	if opts.toClipboard {
		if err := clipboard.WriteAll(string(data)); err != nil {
			logger.Warn("Failed to copy merged file to clipboard", zap.Error(err))
		} else {
			logger.Info("Merged file copied to clipboard", zap.Int("bytes", len(data)))
		}
	}
	return nil
}

// mergeRequest resolves the configured paths into a merge.Request.
func mergeRequest(s config.MergeSettings, ignoreFile string) (merge.Request, error) {
	source, err := config.ResolvePath(s.Source)
	if err != nil {
		return merge.Request{}, err
	}
	output, err := config.ResolvePath(s.OutputPath())
	if err != nil {
		return merge.Request{}, err
	}
	tree, err := config.ResolvePath(s.Tree)
	if err != nil {
		return merge.Request{}, err
	}
	ignoreFile, err = config.ResolvePath(ignoreFile)
	if err != nil {
		return merge.Request{}, err
	}

	exts := s.Extensions
	if len(exts) == 0 {
		exts = merge.DefaultExtensions
	}

	return merge.Request{
		Source:     source,
		Output:     output,
		Extensions: exts,
		Exclude:    s.Exclude,
		IgnoreFile: ignoreFile,
		Workers:    s.Workers,
		Tree:       tree,
	}, nil
}
