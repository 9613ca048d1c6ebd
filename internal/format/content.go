package format

import (
	"fmt"
	"strings"

	"github.com/sitelens/sitelens/internal/model"
)

// contentPreviewChars caps the page text echoed into the report.
const contentPreviewChars = 500

// Content renders a content feature set into the fixed-section SEO block.
// sourceType names the evidence kind (URL, HTML) and sourceValue identifies
// it (the URL, or a description of the provided markup).
func Content(f *model.ContentFeatureSet, sourceType, sourceValue string) string {
	keywordDisplay := "None analyzed"
	if len(f.TopKeywords) > 0 {
		parts := make([]string, 0, 5)
		for i, kw := range f.TopKeywords {
			if i == 5 {
				break
			}
			parts = append(parts, fmt.Sprintf("%s(%s%%)", kw.Keyword, num(kw.Density)))
		}
		keywordDisplay = strings.Join(parts, ", ")
	}

	preview := f.Text
	if len(preview) > contentPreviewChars {
		preview = preview[:contentPreviewChars]
	}
	if preview == "" {
		preview = "No text content found"
	}

	var b strings.Builder
	w := func(format string, args ...any) { fmt.Fprintf(&b, format+"\n", args...) }

	w("SEO FEATURES EXTRACTED FROM %s: %s", sourceType, sourceValue)
	w("")
	w("=== URL STRUCTURE ===")
	w("URL Length: %d characters", f.URLLength)
	w("URL Readability: %s", orNA(f.URLReadability))
	w("URL Depth: %d levels", f.URLDepth)
	w("Uses HTTPS: %t", f.URLUsesHTTPS)
	w("Contains Keywords: %t", f.URLHasKeywords)
	w("")
	w("=== META TAGS ===")
	w("Title: %s (%d chars)", orNA(f.Title), f.TitleLength)
	w("Meta Description: %s (%d chars)", orNA(f.MetaDescription), f.MetaDescriptionLength)
	w("Meta Robots: %s", orNA(f.MetaRobots))
	w("Canonical URL: %s", orNA(f.CanonicalURL))
	w("")
	w("=== HEADING STRUCTURE ===")
	w("H1 Count: %d", f.H1Count)
	w("H1 Texts: %s", formatList(f.H1Texts, 3))
	w("H2 Count: %d", f.H2Count)
	w("H2 Texts: %s", formatList(f.H2Texts, 5))
	w("H3 Count: %d", f.H3Count)
	w("H4 Count: %d", f.H4Count)
	w("H5 Count: %d", f.H5Count)
	w("H6 Count: %d", f.H6Count)
	w("")
	w("=== CONTENT METRICS ===")
	w("Word Count: %d", f.WordCount)
	w("Paragraph Count: %d", f.ParagraphCount)
	w("Average Paragraph Length: %s words", num(f.AverageParagraphLength))
	w("Text-to-HTML Ratio: %s%%", num(f.TextHTMLRatio))
	w("Readability Score: %s", orNA(f.ReadabilityScore))
	w("Content Depth Score: %d/100", f.ContentDepthScore)
	w("")
	w("=== CONTENT STRUCTURE ===")
	w("Has Lists: %t (Count: %d)", f.HasLists, f.ListCount)
	w("Has Tables: %t (Count: %d)", f.HasTables, f.TableCount)
	w("")
	w("=== KEYWORD ANALYSIS ===")
	w("Top Keywords: %s", keywordDisplay)
	w("Title Keyword Match: %t", f.TitleKeywordMatch)
	w("H1 Keyword Match: %t", f.H1KeywordMatch)
	w("")
	w("=== LINKS ===")
	w("Internal Links: %d", f.InternalLinks)
	w("External Links: %d", f.ExternalLinks)
	w("Total Links: %d", f.TotalLinks)
	w("")
	w("=== IMAGES ===")
	w("Total Images: %d", f.TotalImages)
	w("Images with Alt Text: %d", f.ImagesWithAlt)
	w("Images without Alt Text: %d", f.ImagesWithoutAlt)
	w("")
	w("=== STRUCTURED DATA ===")
	w("Has JSON-LD: %t", f.HasJSONLD)
	w("JSON-LD Types: %s", formatList(f.JSONLDTypes, 5))
	w("Has FAQ Schema: %t", f.HasFAQSchema)
	w("Has Breadcrumb Schema: %t", f.HasBreadcrumbSchema)
	w("Has Local Business Schema: %t", f.HasLocalBusinessSchema)
	w("")
	w("=== SOCIAL MEDIA TAGS ===")
	w("OG Title: %s", orNA(f.OGTitle))
	w("OG Description: %s", orNA(f.OGDescription))
	w("OG Image: %s", orNA(f.OGImage))
	w("Twitter Card: %s", orNA(f.TwitterCard))
	w("Twitter Title: %s", orNA(f.TwitterTitle))
	w("")
	w("=== INTERNATIONAL SEO ===")
	w("Language: %s", orNA(f.Language))
	w("Has Hreflang: %t", f.HasHreflang)
	w("")
	w("=== NAVIGATION & UX ===")
	w("Has Breadcrumbs: %t", f.HasBreadcrumbs)
	w("Has Search Functionality: %t", f.HasSearch)
	w("Has Contact Info: %t", f.HasContactInfo)
	w("")
	w("=== CONTENT FRESHNESS ===")
	w("Has Date Modified: %t", f.HasDateModified)
	w("Last Modified: %s", orNA(f.LastModified))
	w("")
	w("=== MOBILE & TECHNICAL ===")
	w("Has Viewport Meta: %t", f.HasViewport)
	w("Page Size: %s KB", num(f.PageSizeKB))
	w("")
	w("=== PAGE CONTENT PREVIEW (First %d chars) ===", contentPreviewChars)
	w("%s...", preview)

	return b.String()
}
