package cmd

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"filekit/pkg/config"
	"filekit/pkg/convert"
	"filekit/pkg/prompt"
)

func newConvertCmd(a *app) *cobra.Command {
	var interactive bool

	convertCmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert Wiki.js Markdown pages into Hexo posts",
		Long: `Read every Markdown page under the source directory, rewrite its front
matter into the Hexo layout (title, abbrlink, date, tags, categories, toc)
and write it to the target directory, named after its title. Pages without
a front-matter block are skipped. A page that cannot be converted is
reported and the remaining pages are still processed.`,
		Example: `  filekit convert --source ~/wiki --target ~/blog/source/_posts
  filekit convert --title-from-heading --workers 4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd.Context(), a, interactive)
		},
	}

	flags := convertCmd.Flags()
	flags.String("source", "", "Directory holding the Wiki.js pages")
	flags.String("target", "", "Directory receiving the Hexo posts")
	flags.StringSliceP("ext", "e", nil, "Page suffix to convert (repeatable)")
	flags.IntP("workers", "w", 0, "Number of pages converted concurrently")
	flags.Bool("title-from-heading", false, "Use the first heading as title when the page has none")
	for key, flag := range map[string]string{
		"convert.source":             "source",
		"convert.target":             "target",
		"convert.extensions":         "ext",
		"convert.workers":            "workers",
		"convert.title_from_heading": "title-from-heading",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}
	flags.BoolVarP(&interactive, "interactive", "i", false, "Ask for the settings in the terminal")

	return convertCmd
}

func runConvert(ctx context.Context, a *app, interactive bool) error {
	logger := a.logger
	s := a.settings.Convert

	if interactive {
		answers, err := askInteractively("Wiki to Hexo conversion settings",
			prompt.Item{Key: "source", Label: "Wiki directory", Default: s.Source, Validate: prompt.Required},
			prompt.Item{Key: "target", Label: "Hexo directory", Default: s.Target, Validate: prompt.Required},
			prompt.Item{Key: "extensions", Label: "Extensions", Default: strings.Join(s.Extensions, ","), Validate: prompt.Required},
			prompt.Item{Key: "workers", Label: "Workers", Default: strconv.Itoa(max(s.Workers, 1)), Validate: prompt.PositiveInt},
		)
		if err != nil {
			return err
		}
		s.Source, s.Target = answers["source"], answers["target"]
		s.Extensions = prompt.SplitList(answers["extensions"])
		s.Workers, _ = strconv.Atoi(answers["workers"])
	}

	source, err := config.ResolvePath(s.Source)
	if err != nil {
		return err
	}
	target, err := config.ResolvePath(s.Target)
	if err != nil {
		return err
	}

	report, err := convert.ConvertDir(ctx, convert.Request{
		Source:           source,
		Target:           target,
		Extensions:       s.Extensions,
		Workers:          s.Workers,
		TitleFromHeading: s.TitleFromHeading,
	}, logger)
	if err != nil {
		return err
	}

	if err := report.Err(); err != nil {
		logger.Warn("Some pages could not be converted",
			zap.Int("failed", len(report.Failed)),
			zap.Error(err))
	}
	return nil
}
