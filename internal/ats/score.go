// Package ats computes the resume-to-job-description match score.
//
// Two modes exist: cosine similarity over averaged word embeddings when a
// pretrained table was loaded at startup, and Jaccard similarity over the
// surviving token sets when it was not. The fallback keeps the feature
// alive on deployments that ship without the embedding asset.
package ats

import (
	"bufio"
	"bytes"
	_ "embed"
	"math"
	"strings"
)

//go:embed stopwords.txt
var stopwordsAsset []byte

var stopwords = loadStopwords()

func loadStopwords() map[string]struct{} {
	set := make(map[string]struct{})
	scanner := bufio.NewScanner(bytes.NewReader(stopwordsAsset))
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word != "" {
			set[word] = struct{}{}
		}
	}
	return set
}

// Scorer scores resume text against job-description text. A nil table
// selects the Jaccard fallback.
type Scorer struct {
	table *EmbeddingTable
}

func NewScorer(table *EmbeddingTable) *Scorer {
	return &Scorer{table: table}
}

// EmbeddingMode reports whether a pretrained table is loaded.
func (s *Scorer) EmbeddingMode() bool {
	return s.table != nil
}

// Score returns a match score in [0, 100], rounded to two decimals.
func (s *Scorer) Score(resumeText, jobDescription string) float64 {
	resumeTokens := Preprocess(resumeText)
	jdTokens := Preprocess(jobDescription)

	if s.table != nil {
		return s.embeddingScore(resumeTokens, jdTokens)
	}
	return jaccardScore(resumeTokens, jdTokens)
}

func (s *Scorer) embeddingScore(resumeTokens, jdTokens []string) float64 {
	resumeVec := s.table.DocumentVector(resumeTokens)
	jdVec := s.table.DocumentVector(jdTokens)

	// Cosine distance is undefined for a zero vector.
	if isZero(resumeVec) || isZero(jdVec) {
		return 0
	}
	return round2(cosineSimilarity(resumeVec, jdVec) * 100)
}

func jaccardScore(resumeTokens, jdTokens []string) float64 {
	jdSet := tokenSet(jdTokens)
	if len(jdSet) == 0 {
		return 0
	}
	resumeSet := tokenSet(resumeTokens)

	intersection := 0
	for token := range resumeSet {
		if _, ok := jdSet[token]; ok {
			intersection++
		}
	}
	union := len(resumeSet) + len(jdSet) - intersection
	return round2(float64(intersection) / float64(union) * 100)
}

// Preprocess lowercases the text, strips every non-alphanumeric character,
// splits on whitespace and drops English stop words.
func Preprocess(text string) []string {
	var cleaned strings.Builder
	cleaned.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			cleaned.WriteRune(r)
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			cleaned.WriteRune(r)
		}
	}

	var tokens []string
	for _, word := range strings.Fields(cleaned.String()) {
		if _, stop := stopwords[word]; stop {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

func cosineSimilarity(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func isZero(vec []float64) bool {
	for _, v := range vec {
		if v != 0 {
			return false
		}
	}
	return true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
