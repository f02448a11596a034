package utils

import (
	"strings"

	"github.com/dlclark/regexp2"
)

// FirstMatch returns the first match of re in s, or "" when there is none.
// regexp2 errors only surface on pathological patterns; they are treated as
// no-match so extractors degrade to "absent".
func FirstMatch(re *regexp2.Regexp, s string) string {
	m, err := re.FindStringMatch(s)
	if err != nil || m == nil {
		return ""
	}
	return m.String()
}

func AllMatches(re *regexp2.Regexp, s string) []string {
	var matches []string
	m, _ := re.FindStringMatch(s)
	for m != nil {
		matches = append(matches, m.String())
		m, _ = re.FindNextMatch(m)
	}
	return matches
}

// AbsoluteURL joins a scraped href with its host when the href is relative.
func AbsoluteURL(host, href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return "https://" + host + href
}

func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
