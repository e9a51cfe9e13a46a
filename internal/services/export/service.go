// Package export renders a generated report as markdown, HTML or PDF.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scrutor/internal/models"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Format identifies an export target.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatPDF      Format = "pdf"
)

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/markdown; charset=utf-8"
	}
}

// ParseFormat validates a format query value. Empty defaults to markdown.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(value) {
	case "", "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unknown export format: %s", value)
	}
}

// Service renders reports.
type Service struct {
	logger arbor.ILogger
}

// NewService creates an export service.
func NewService(logger arbor.ILogger) *Service {
	return &Service{logger: logger}
}

// Render produces the report in the requested format.
func (s *Service) Render(report *models.Report, format Format) ([]byte, error) {
	switch format {
	case FormatHTML:
		return s.renderHTML(report)
	case FormatPDF:
		return s.renderPDF(report)
	default:
		return []byte(s.composeMarkdown(report)), nil
	}
}

// composeMarkdown prefixes the generated content with the run metadata and
// the transparency sections (inputs shown exactly as sent to the model).
func (s *Service) composeMarkdown(report *models.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Equity Research Report: %s\n\n", report.Symbol)
	fmt.Fprintf(&b, "Generated %s using %s (%s).\n\n",
		report.GeneratedAt.Format("2006-01-02 15:04 MST"), report.Model, report.Provider)
	b.WriteString(report.Content)
	b.WriteString("\n\n---\n\n## Data Used\n\n")
	b.WriteString(report.FinancialTable)
	b.WriteString("\n### News Context\n\n")
	b.WriteString(report.NewsContext)
	return b.String()
}

func (s *Service) renderHTML(report *models.Report) ([]byte, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Table, extension.Strikethrough, extension.Linkify),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)

	var body bytes.Buffer
	if err := md.Convert([]byte(s.composeMarkdown(report)), &body); err != nil {
		s.logger.Error().Err(err).Msg("Markdown to HTML conversion failed")
		return nil, fmt.Errorf("failed to convert report to HTML: %w", err)
	}

	var page bytes.Buffer
	fmt.Fprintf(&page, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s - Equity Research Report</title>
<style>
body { font-family: Georgia, serif; max-width: 800px; margin: 2rem auto; padding: 0 1rem; color: #222; }
table { border-collapse: collapse; }
th, td { border: 1px solid #999; padding: 4px 10px; text-align: right; }
th:first-child, td:first-child { text-align: left; }
h1, h2 { border-bottom: 1px solid #ccc; padding-bottom: 4px; }
</style>
</head>
<body>
%s
</body>
</html>
`, report.Symbol, body.String())

	return page.Bytes(), nil
}
