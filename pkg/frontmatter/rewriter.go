package frontmatter

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"filekit/pkg/logging"
)

const (
	// DefaultTitle is used when the metadata carries no title.
	DefaultTitle = "Untitled"
	// DateLayout is the local timestamp format written to the date field.
	DateLayout = "2006-01-02 15:04:05"
)

// titleReplacer maps characters that are illegal in file names to '_'.
var titleReplacer = strings.NewReplacer(
	`\`, "_", "/", "_", ":", "_", "*", "_", "?", "_",
	`"`, "_", "<", "_", ">", "_", "|", "_",
)

// Rewriter turns parsed metadata into a Hexo front-matter block.
type Rewriter struct {
	Location *time.Location // Zone for reformatted dates; time.Local when nil.
	Logger   *zap.Logger
}

// NewRewriter returns a Rewriter formatting dates in loc.
func NewRewriter(loc *time.Location, logger *zap.Logger) *Rewriter {
	return &Rewriter{Location: loc, Logger: logger}
}

// Rewrite formats meta with time.Local dates. See Rewriter.Rewrite.
func Rewrite(meta Metadata, fallbackID string) (block, baseName string) {
	return (&Rewriter{}).Rewrite(meta, fallbackID)
}

// Rewrite emits the block (title, abbrlink, date, tags, categories, toc, in
// that order, between delimiter lines) and the output file base name derived
// from the title. fallbackID becomes the abbrlink and backs an unusable title.
func (r *Rewriter) Rewrite(meta Metadata, fallbackID string) (block, baseName string) {
	logger := logging.OrNop(r.Logger)

	var b strings.Builder
	b.WriteString(Delimiter + "\n")

	title, ok := meta.Get("title")
	if !ok {
		title = DefaultTitle
	}
	b.WriteString("title: " + title + "\n")
	b.WriteString("abbrlink: " + fallbackID + "\n")

	if raw, ok := meta.Get("date"); ok {
		date, err := r.formatDate(raw)
		if err != nil {
			logger.Debug("Keeping unparsable date as is", zap.String("date", raw), zap.Error(err))
			date = raw
		}
		b.WriteString("date: " + date + "\n")
	}

	if tags := SplitTags(meta["tags"]); len(tags) > 0 {
		b.WriteString("tags:\n")
		for _, tag := range tags {
			b.WriteString("  - " + tag + "\n")
		}
		// The first tag doubles as the only category.
		b.WriteString("categories:\n")
		b.WriteString("  - " + tags[0] + "\n")
	}

	b.WriteString("toc: true\n")
	b.WriteString(Delimiter)

	baseName = SanitizeTitle(title)
	if baseName == "" {
		baseName = fallbackID
	}
	return b.String(), baseName
}

func (r *Rewriter) formatDate(raw string) (string, error) {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return "", err
	}
	loc := r.Location
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DateLayout), nil
}

// SplitTags splits a comma-separated tag list, trimming each tag and dropping
// empty ones.
func SplitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// SanitizeTitle replaces each of \ / : * ? " < > | with '_' and trims the result.
func SanitizeTitle(title string) string {
	return strings.TrimSpace(titleReplacer.Replace(title))
}

// Document joins a rewritten block and the original body. The body is kept
// verbatim; a line break is inserted only when it does not start with one.
func Document(block, body string) string {
	if strings.HasPrefix(body, "\n") || strings.HasPrefix(body, "\r\n") {
		return block + body
	}
	return block + "\n" + body
}
