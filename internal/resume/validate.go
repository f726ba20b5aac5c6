// Package resume holds the heuristic gate that decides whether a block of
// extracted text plausibly came from a resume.
package resume

import "regexp"

// MinKeywordHits is how many distinct section keywords the text must contain
// to pass the gate. The word-boundary variant with a threshold of 3 is the
// documented behavior of the primary API surface.
const MinKeywordHits = 3

var sectionKeywords = []string{
	"education",
	"experience",
	"skills",
	"projects",
	"certifications",
	"summary",
	"contact",
	"technical skills",
	"university",
	"college",
	"degree",
}

var keywordPatterns = compileKeywordPatterns()

func compileKeywordPatterns() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(sectionKeywords))
	for _, kw := range sectionKeywords {
		patterns = append(patterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(kw)+`\b`))
	}
	return patterns
}

// LooksLikeResume reports whether the text contains at least MinKeywordHits
// distinct resume section keywords.
func LooksLikeResume(text string) bool {
	found := 0
	for _, pattern := range keywordPatterns {
		if pattern.MatchString(text) {
			found++
			if found >= MinKeywordHits {
				return true
			}
		}
	}
	return false
}
