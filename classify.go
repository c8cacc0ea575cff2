package newswatch

import (
	"fmt"
	"net/url"
	"strings"
)

// Classification heuristics for deciding whether a search result points
// at a genuine news article. The rules run in a fixed order and the
// first rule that reaches a decision wins; a result that survives every
// rule is accepted. The default is deliberately permissive: a false
// positive is caught later when scraping yields no content, while a
// false negative silently loses a real article.

// minArticlePathLen is the shortest path still plausible for a
// deep-linked article page.
const minArticlePathLen = 20

// highPriorityPathExclusions reject immediately, before any positive
// signal is considered.
var highPriorityPathExclusions = []string{
	"/print-edition", "/digital-print-edition", "/subscribe",
	"/stock-market", "/archive", "/home", "/index", "/category",
	"/video", "/show", "/podcast", "/cnbc-latest-video-news", "/sitemap",
}

// highPriorityTitleExclusions are hard-excluded topics for this domain.
var highPriorityTitleExclusions = []string{
	"sport", "stock market",
}

// articleMarkers are strong positive signals: an explicit article
// segment, a dated segment, or a month-name segment in the path.
var articleMarkers = []string{
	"/article/", "/story/", "/post/", "/report/", "/202",
	"/jan/", "/feb/", "/mar/", "/apr/", "/may/", "/jun/",
	"/jul/", "/aug/", "/sep/", "/oct/", "/nov/", "/dec/",
}

// generalPathExclusions mark non-article site sections.
var generalPathExclusions = []string{
	"/user", "/author", "/tags", "/topic", "/section",
	"/profile", "/account", "/login", "/signup", "/register",
	"/about", "/contact", "/by", "/newsletter", "/people",
	"/quotes", "/company", "/earnings", "/person",
}

// generalTitleExclusions mark promotional or navigational phrasing.
var generalTitleExclusions = []string{
	"sign up", "author:", "homepage", "your daily", "digest",
}

// classifyDecision is a terminal outcome of a single rule. A nil
// decision means the rule abstains and evaluation continues.
type classifyDecision struct {
	article bool
	reason  string
}

// classifyRule inspects the lowercased URL path and title.
type classifyRule func(path, title string) *classifyDecision

// classifyRules is the ordered chain. Order matters and is part of the
// contract: high-priority exclusions outrank positive markers, which
// outrank the general exclusions and structural checks.
var classifyRules = []classifyRule{
	rejectHighPriorityPaths,
	rejectHighPriorityTitles,
	acceptArticleMarkers,
	rejectGeneralPaths,
	rejectGeneralTitles,
	rejectShallowPaths,
}

// Classify reports whether a (URL, title) pair found via search is
// likely a news article. When it rejects, the reason names the specific
// matched term or structural check so reject decisions stay debuggable.
func Classify(rawURL, title string) (bool, string) {
	path := ""
	if u, err := url.Parse(rawURL); err == nil {
		path = strings.ToLower(u.Path)
	}
	title = strings.ToLower(title)

	for _, rule := range classifyRules {
		if d := rule(path, title); d != nil {
			return d.article, d.reason
		}
	}

	return true, ""
}

func rejectHighPriorityPaths(path, _ string) *classifyDecision {
	for _, p := range highPriorityPathExclusions {
		if strings.Contains(path, p) {
			return &classifyDecision{reason: fmt.Sprintf("high-priority excluded path: %q", p)}
		}
	}
	return nil
}

func rejectHighPriorityTitles(_, title string) *classifyDecision {
	for _, term := range highPriorityTitleExclusions {
		if strings.Contains(title, term) {
			return &classifyDecision{reason: fmt.Sprintf("high-priority excluded title keyword: %q", term)}
		}
	}
	return nil
}

func acceptArticleMarkers(path, _ string) *classifyDecision {
	for _, marker := range articleMarkers {
		if strings.Contains(path, marker) {
			return &classifyDecision{article: true}
		}
	}
	return nil
}

func rejectGeneralPaths(path, _ string) *classifyDecision {
	for _, p := range generalPathExclusions {
		if strings.Contains(path, p) {
			return &classifyDecision{reason: fmt.Sprintf("excluded path: %q", p)}
		}
	}
	return nil
}

func rejectGeneralTitles(_, title string) *classifyDecision {
	for _, term := range generalTitleExclusions {
		if strings.Contains(title, term) {
			return &classifyDecision{reason: fmt.Sprintf("excluded title keyword: %q", term)}
		}
	}
	return nil
}

func rejectShallowPaths(path, _ string) *classifyDecision {
	if strings.Count(path, "/") < 2 {
		return &classifyDecision{reason: "path too shallow"}
	}
	if len(path) <= minArticlePathLen {
		return &classifyDecision{reason: fmt.Sprintf("path too short (%d characters or fewer)", minArticlePathLen)}
	}
	return nil
}
