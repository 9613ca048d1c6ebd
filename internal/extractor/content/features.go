package content

import (
	"encoding/json"
	"errors"
	"math"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/sitelens/sitelens/internal/model"
)

// ErrNoContent is returned when neither markup nor a fetchable URL was
// provided.
var ErrNoContent = errors.New("no HTML content to analyze")

var (
	// wordPattern matches word tokens for the word count.
	wordPattern = regexp.MustCompile(`\w+`)

	// keywordPattern matches lowercase tokens of three or more letters for
	// the keyword analysis.
	keywordPattern = regexp.MustCompile(`\b[a-z]{3,}\b`)

	// readablePathPattern indicates readable words in a URL path.
	readablePathPattern = regexp.MustCompile(`[a-z]{3,}`)

	// idPathPattern indicates numeric IDs in a URL path.
	idPathPattern = regexp.MustCompile(`\d{3,}`)

	// breadcrumbClass matches class attributes hinting at breadcrumb
	// navigation.
	breadcrumbClass = regexp.MustCompile(`(?i)breadcrumb`)

	// searchInputName matches input names hinting at search functionality.
	searchInputName = regexp.MustCompile(`(?i)search|query`)

	// freshnessMetaName matches meta tag names carrying modification dates.
	freshnessMetaName = regexp.MustCompile(`(?i)last-modified|updated`)

	// emailPattern and phonePattern detect contact information in page text.
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
	phonePattern = regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)
)

// stopWords are excluded from the keyword analysis.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "her": true,
	"was": true, "one": true, "our": true, "out": true, "day": true,
	"get": true, "has": true, "him": true, "his": true, "how": true,
	"its": true, "may": true, "new": true, "now": true, "old": true,
	"see": true, "two": true, "who": true, "boy": true, "did": true,
	"she": true, "use": true, "way": true, "this": true, "that": true,
	"with": true, "have": true, "from": true, "they": true, "been": true,
	"more": true, "when": true, "what": true, "were": true, "will": true,
	"would": true, "there": true,
}

// urlKeywords are common content-signaling words checked against URL paths.
var urlKeywords = []string{"blog", "article", "product", "service", "about", "contact", "news"}

func extractMetaTags(f *model.ContentFeatureSet, doc *document) {
	f.Title = doc.title
	f.TitleLength = len(f.Title)

	if m := doc.metaName("description"); m != nil {
		f.MetaDescription = m.content
		f.MetaDescriptionLength = len(m.content)
	}
	if m := doc.metaName("robots"); m != nil {
		f.MetaRobots = m.content
	}
	f.CanonicalURL = doc.canonical
}

func extractHeadings(f *model.ContentFeatureSet, doc *document) {
	f.H1Count = len(doc.headings[1])
	f.H1Texts = doc.headings[1]
	f.H2Count = len(doc.headings[2])
	f.H2Texts = doc.headings[2]
	f.H3Count = len(doc.headings[3])
	f.H3Texts = doc.headings[3]
	f.H4Count = len(doc.headings[4])
	f.H5Count = len(doc.headings[5])
	f.H6Count = len(doc.headings[6])
}

func extractContentMetrics(f *model.ContentFeatureSet, doc *document, markup string) {
	f.Text = doc.visibleText
	f.WordCount = len(wordPattern.FindAllString(doc.visibleText, -1))

	htmlLength := len(markup)
	if htmlLength == 0 {
		htmlLength = 1
	}
	f.TextHTMLRatio = round2(float64(len(doc.visibleText)) / float64(htmlLength) * 100)
}

// extractLinkFeatures classifies anchors as internal or external against
// the page host. Fragment anchors and javascript: pseudo-links are excluded
// from both counts, so InternalLinks+ExternalLinks == TotalLinks holds.
func extractLinkFeatures(f *model.ContentFeatureSet, doc *document, pageURL string) {
	if pageURL == "" {
		return
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return
	}

	for _, href := range doc.anchors {
		if strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
			continue
		}

		ref, err := url.Parse(href)
		if err != nil {
			continue
		}
		resolved := base.ResolveReference(ref)

		switch {
		case resolved.Host == base.Host:
			f.InternalLinks++
		case resolved.Host != "":
			f.ExternalLinks++
		}
	}

	f.TotalLinks = f.InternalLinks + f.ExternalLinks
}

func extractImageFeatures(f *model.ContentFeatureSet, doc *document) {
	f.TotalImages = len(doc.images)

	for _, img := range doc.images {
		if strings.TrimSpace(img.alt) != "" {
			f.ImagesWithAlt++
			continue
		}
		f.ImagesWithoutAlt++
		if img.src != "" {
			f.MissingAltImages = append(f.MissingAltImages, truncate(img.src, 100))
		}
	}
}

// extractStructuredData parses JSON-LD blocks and flags known schemas.
// Malformed blocks are skipped; one bad block never hides the others.
func extractStructuredData(f *model.ContentFeatureSet, doc *document) {
	if len(doc.jsonLD) == 0 {
		return
	}
	f.HasJSONLD = true

	seen := make(map[string]bool)
	for _, raw := range doc.jsonLD {
		var data any
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			continue
		}

		items, ok := data.([]any)
		if !ok {
			items = []any{data}
		}

		for _, item := range items {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			schemaType, _ := obj["@type"].(string)
			if schemaType == "" {
				continue
			}

			if !seen[schemaType] {
				seen[schemaType] = true
				f.JSONLDTypes = append(f.JSONLDTypes, schemaType)
			}

			switch {
			case schemaType == "FAQPage" || strings.Contains(schemaType, "FAQ"):
				f.HasFAQSchema = true
			case schemaType == "BreadcrumbList":
				f.HasBreadcrumbSchema = true
			case schemaType == "LocalBusiness":
				f.HasLocalBusinessSchema = true
			}
		}
	}
}

func extractSocialMetaTags(f *model.ContentFeatureSet, doc *document) {
	if m := doc.metaProperty("og:title"); m != nil {
		f.OGTitle = m.content
	}
	if m := doc.metaProperty("og:description"); m != nil {
		f.OGDescription = m.content
	}
	if m := doc.metaProperty("og:image"); m != nil {
		f.OGImage = m.content
	}
	if m := doc.metaProperty("og:url"); m != nil {
		f.OGURL = m.content
	}

	if m := doc.metaName("twitter:card"); m != nil {
		f.TwitterCard = m.content
	}
	if m := doc.metaName("twitter:title"); m != nil {
		f.TwitterTitle = m.content
	}
	if m := doc.metaName("twitter:description"); m != nil {
		f.TwitterDescription = m.content
	}
}

func extractURLStructure(f *model.ContentFeatureSet, pageURL string) {
	if pageURL == "" {
		return
	}
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return
	}

	f.URLLength = len(pageURL)
	f.URLUsesHTTPS = parsed.Scheme == "https"

	for _, seg := range strings.Split(parsed.Path, "/") {
		if seg != "" {
			f.URLDepth++
		}
	}

	path := strings.ToLower(parsed.Path)
	switch {
	case readablePathPattern.MatchString(path):
		f.URLReadability = "Good"
	case idPathPattern.MatchString(path):
		f.URLReadability = "Poor (contains IDs)"
	default:
		f.URLReadability = "Average"
	}

	for _, keyword := range urlKeywords {
		if strings.Contains(path, keyword) {
			f.URLHasKeywords = true
			break
		}
	}
}

// extractKeywordAnalysis ranks tokens by frequency after stop-word
// filtering and checks the top terms against the title and H1 texts.
func extractKeywordAnalysis(f *model.ContentFeatureSet) {
	if f.Text == "" {
		return
	}

	words := keywordPattern.FindAllString(strings.ToLower(f.Text), -1)

	var filtered []string
	for _, w := range words {
		if !stopWords[w] {
			filtered = append(filtered, w)
		}
	}
	if len(filtered) == 0 {
		return
	}

	// Frequency ranking, first occurrence breaking ties for determinism.
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, w := range filtered {
		if counts[w] == 0 {
			firstSeen[w] = i
		}
		counts[w]++
	}

	unique := make([]string, 0, len(counts))
	for w := range counts {
		unique = append(unique, w)
	}
	sort.Slice(unique, func(i, j int) bool {
		if counts[unique[i]] != counts[unique[j]] {
			return counts[unique[i]] > counts[unique[j]]
		}
		return firstSeen[unique[i]] < firstSeen[unique[j]]
	})

	total := float64(len(filtered))
	top := unique
	if len(top) > 10 {
		top = top[:10]
	}

	for _, w := range top {
		f.TopKeywords = append(f.TopKeywords, model.Keyword{
			Keyword: w,
			Count:   counts[w],
			Density: round2(float64(counts[w]) / total * 100),
		})
	}

	topFive := top
	if len(topFive) > 5 {
		topFive = topFive[:5]
	}
	f.KeywordDensity = make(map[string]float64, len(topFive))
	for _, w := range topFive {
		f.KeywordDensity[w] = round2(float64(counts[w]) / total * 100)
	}

	if f.Title != "" {
		titleLower := strings.ToLower(f.Title)
		for _, w := range topFive {
			if strings.Contains(titleLower, w) {
				f.TitleKeywordMatch = true
				break
			}
		}
	}

	if len(f.H1Texts) > 0 {
		h1Lower := strings.ToLower(strings.Join(f.H1Texts, " "))
		for _, w := range topFive {
			if strings.Contains(h1Lower, w) {
				f.H1KeywordMatch = true
				break
			}
		}
	}
}

// extractContentDepth computes paragraph metrics and the additive 0-100
// depth score. Each signal contributes a fixed number of points; the sum
// is clamped to 100.
func extractContentDepth(f *model.ContentFeatureSet, doc *document) {
	f.ParagraphCount = len(doc.paragraphs)
	if f.ParagraphCount > 0 {
		total := 0
		for _, p := range doc.paragraphs {
			total += len(strings.Fields(p))
		}
		f.AverageParagraphLength = round1(float64(total) / float64(f.ParagraphCount))
	}

	f.ListCount = doc.listCount
	f.HasLists = doc.listCount > 0
	f.TableCount = doc.tableCount
	f.HasTables = doc.tableCount > 0

	score := 0

	// Word count contribution (max 30 points)
	switch {
	case f.WordCount >= 2000:
		score += 30
	case f.WordCount >= 1000:
		score += 20
	case f.WordCount >= 500:
		score += 10
	case f.WordCount >= 300:
		score += 5
	}

	// Paragraph quality (max 20 points)
	switch {
	case f.ParagraphCount >= 10:
		score += 10
	case f.ParagraphCount >= 5:
		score += 5
	}
	switch {
	case f.AverageParagraphLength >= 30:
		score += 10
	case f.AverageParagraphLength >= 15:
		score += 5
	}

	// Structural elements (max 20 points)
	if f.HasLists {
		score += 10
	}
	if f.HasTables {
		score += 10
	}

	// Heading structure (max 15 points)
	if f.H1Count == 1 {
		score += 5
	}
	if f.H2Count >= 3 {
		score += 5
	}
	if f.H3Count >= 2 {
		score += 5
	}

	// Images (max 15 points)
	switch {
	case f.TotalImages >= 5:
		score += 10
	case f.TotalImages >= 2:
		score += 5
	}
	if f.ImagesWithAlt > 0 {
		denominator := f.TotalImages
		if denominator < 1 {
			denominator = 1
		}
		if float64(f.ImagesWithAlt)/float64(denominator) >= 0.8 {
			score += 5
		}
	}

	f.ContentDepthScore = min(score, 100)

	// Readability from average characters per word
	if f.WordCount > 0 {
		avgWordLength := float64(len(strings.ReplaceAll(f.Text, " ", ""))) / float64(f.WordCount)
		switch {
		case avgWordLength < 5:
			f.ReadabilityScore = "Easy"
		case avgWordLength < 6:
			f.ReadabilityScore = "Moderate"
		default:
			f.ReadabilityScore = "Complex"
		}
	}
}

func extractInternationalSignals(f *model.ContentFeatureSet, doc *document) {
	f.Language = doc.lang

	if len(doc.hreflangs) == 0 {
		return
	}
	f.HasHreflang = true

	tags := doc.hreflangs
	if len(tags) > 5 {
		tags = tags[:5]
	}
	for _, tag := range tags {
		f.HreflangTags = append(f.HreflangTags, tag.lang+": "+truncate(tag.href, 50))
	}
}

func extractNavigationSignals(f *model.ContentFeatureSet, doc *document) {
	f.HasBreadcrumbs = doc.hasBreadcrumbs
	f.HasSearch = doc.hasSearchInput

	f.HasContactInfo = emailPattern.MatchString(doc.visibleText) ||
		phonePattern.MatchString(doc.visibleText)
}

func extractFreshnessSignals(f *model.ContentFeatureSet, doc *document) {
	for _, m := range doc.metas {
		if freshnessMetaName.MatchString(m.name) {
			f.HasDateModified = true
			f.LastModified = m.content
			break
		}
	}

	if f.LastModified == "" && len(doc.timeDatetimes) > 0 {
		f.HasDateModified = true
		f.LastModified = doc.timeDatetimes[0]
	}
}

// round2 rounds to 2 decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// round1 rounds to 1 decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// truncate limits a string to n bytes.
func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
