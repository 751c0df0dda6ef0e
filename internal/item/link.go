package item

import (
	"regexp"
	"strings"
)

// urlPattern matches http(s) URLs with a dotted host and an optional tail
// that never ends on trailing punctuation such as '.' or ','.
const urlPattern = `(https?)://([\w_-]+(?:(?:\.[\w_-]+)+))([\w.,@?^=%&:/~+#-]*[\w@?^=%&/~+#-])`

// LinkExtractor finds the topic link in free text.
type LinkExtractor struct {
	pattern *regexp.Regexp
	hosts   []string
}

// NewLinkExtractor returns an extractor. When hosts is non-empty only URLs
// containing one of them (case-insensitive) are accepted.
func NewLinkExtractor(hosts []string) *LinkExtractor {
	lowered := make([]string, 0, len(hosts))
	for _, h := range hosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			lowered = append(lowered, h)
		}
	}
	return &LinkExtractor{
		pattern: regexp.MustCompile(urlPattern),
		hosts:   lowered,
	}
}

// Extract returns the first acceptable URL in text.
func (e *LinkExtractor) Extract(text string) (string, bool) {
	if len(e.hosts) == 0 {
		link := e.pattern.FindString(text)
		return link, link != ""
	}

	for _, link := range e.pattern.FindAllString(text, -1) {
		lower := strings.ToLower(link)
		for _, host := range e.hosts {
			if strings.Contains(lower, host) {
				return link, true
			}
		}
	}
	return "", false
}
