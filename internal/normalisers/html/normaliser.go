package html

import (
	"html"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-shiori/go-readability"
)

// Normaliser handles HTML documents.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Extensions returns the file extensions this normaliser handles.
func (n *Normaliser) Extensions() []string {
	return []string{".html", ".htm", ".xhtml"}
}

// Normalise extracts text from an HTML file or page. uri may be a URL or a
// file path.
func (n *Normaliser) Normalise(raw []byte, uri string) (string, error) {
	return Extract(string(raw), pageURL(uri)), nil
}

// Extract returns the readable text of page. Readability output is used when
// it yields text; otherwise the page is stripped with Strip.
func Extract(page string, pageURL *url.URL) string {
	if pageURL == nil {
		pageURL = &url.URL{Scheme: "file", Path: "/"}
	}
	article, err := readability.FromReader(strings.NewReader(page), pageURL)
	if err == nil {
		if text := cleanLines(article.TextContent); text != "" {
			return text
		}
	}
	return Strip(page)
}

func pageURL(uri string) *url.URL {
	if u, err := url.Parse(uri); err == nil && u.Scheme != "" && u.Host != "" {
		return u
	}
	abs, err := filepath.Abs(uri)
	if err != nil {
		abs = uri
	}
	return &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
}

// Pre-compiled regular expressions for HTML parsing performance.
var (
	removedElements = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`),
		regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`),
		regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`),
		regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`),
		regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`),
		regexp.MustCompile(`(?is)<nav[^>]*>.*?</nav>`),
		regexp.MustCompile(`(?is)<header[^>]*>.*?</header>`),
		regexp.MustCompile(`(?is)<footer[^>]*>.*?</footer>`),
	}
	htmlComments      = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockElements     = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)>`)
	openBlockElements = regexp.MustCompile(`(?i)<(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)[^>]*>`)
	lineBreaks        = regexp.MustCompile(`(?i)<(br|hr)\s*/?>`)
	allTags           = regexp.MustCompile(`<[^>]+>`)
	tabs              = regexp.MustCompile(`[\t\f\v]+`)
)

// Strip removes HTML tags and returns one phrase per line. Scripts, styles,
// navigation, headers and footers are dropped entirely. Runs of two or more
// spaces separate phrases, as they usually mark layout gaps.
func Strip(content string) string {
	for _, re := range removedElements {
		content = re.ReplaceAllString(content, "")
	}
	content = htmlComments.ReplaceAllString(content, "")

	content = openBlockElements.ReplaceAllString(content, "\n")
	content = blockElements.ReplaceAllString(content, "\n")
	content = lineBreaks.ReplaceAllString(content, "\n")

	content = allTags.ReplaceAllString(content, "")
	content = html.UnescapeString(content)
	content = tabs.ReplaceAllString(content, "  ")

	return cleanLines(content)
}

// cleanLines trims every line, splits lines on double spaces and drops
// empty phrases.
func cleanLines(content string) string {
	var result []string
	for _, line := range strings.Split(content, "\n") {
		for _, phrase := range strings.Split(strings.TrimSpace(line), "  ") {
			if phrase = strings.TrimSpace(phrase); phrase != "" {
				result = append(result, phrase)
			}
		}
	}
	return strings.Join(result, "\n")
}
