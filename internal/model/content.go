package model

// Keyword is one entry in the frequency-ranked keyword list.
type Keyword struct {
	// Keyword is the lowercase token.
	Keyword string `json:"keyword"`

	// Count is the number of occurrences in the filtered token stream.
	Count int `json:"count"`

	// Density is Count / totalFilteredTokens * 100, rounded to 2 decimals.
	Density float64 `json:"density"`
}

// ContentFeatureSet holds the SEO and content signals derived from a page's
// markup. Counts are non-negative, percentages are rounded to 2 decimals,
// and list fields preserve document order.
//
// Design decision: We use a single large struct rather than many small ones
// to simplify serialization and formatting. Optional string signals use the
// empty string as "absent"; numeric signals that can legitimately be zero
// keep plain types because zero and absent coincide for them.
type ContentFeatureSet struct {
	// === Meta Tags ===

	// Title is the text of the <title> tag.
	Title string `json:"title,omitempty"`

	// TitleLength is the character length of Title.
	TitleLength int `json:"title_length"`

	// MetaDescription is the content of <meta name="description">.
	MetaDescription string `json:"meta_description,omitempty"`

	// MetaDescriptionLength is the character length of MetaDescription.
	MetaDescriptionLength int `json:"meta_description_length"`

	// MetaRobots is the content of <meta name="robots">.
	MetaRobots string `json:"meta_robots,omitempty"`

	// CanonicalURL is the href of <link rel="canonical">.
	CanonicalURL string `json:"canonical_url,omitempty"`

	// === Headings ===

	H1Count int      `json:"h1_count"`
	H1Texts []string `json:"h1_texts,omitempty"`
	H2Count int      `json:"h2_count"`
	H2Texts []string `json:"h2_texts,omitempty"`
	H3Count int      `json:"h3_count"`
	H3Texts []string `json:"h3_texts,omitempty"`
	H4Count int      `json:"h4_count"`
	H5Count int      `json:"h5_count"`
	H6Count int      `json:"h6_count"`

	// === Content ===

	// WordCount is the number of word-boundary tokens in the visible text.
	WordCount int `json:"word_count"`

	// TextHTMLRatio is len(visibleText)/len(markup)*100 rounded to 2 decimals.
	TextHTMLRatio float64 `json:"text_html_ratio"`

	// Text is the visible text with script/style content stripped and
	// whitespace collapsed.
	Text string `json:"text,omitempty"`

	// === Content Quality & Depth ===

	ParagraphCount         int     `json:"paragraph_count"`
	AverageParagraphLength float64 `json:"average_paragraph_length"`

	// ReadabilityScore is "Easy", "Moderate" or "Complex" from average
	// character length per word.
	ReadabilityScore string `json:"readability_score,omitempty"`

	// ContentDepthScore is the additive 0-100 composite score.
	ContentDepthScore int `json:"content_depth_score"`

	HasLists   bool `json:"has_lists"`
	ListCount  int  `json:"list_count"`
	HasTables  bool `json:"has_tables"`
	TableCount int  `json:"table_count"`

	// === Keyword Analysis ===

	// TopKeywords holds the ten most frequent filtered tokens.
	TopKeywords []Keyword `json:"top_keywords,omitempty"`

	// KeywordDensity maps the top five keywords to their density.
	KeywordDensity map[string]float64 `json:"keyword_density,omitempty"`

	TitleKeywordMatch bool `json:"title_keyword_match"`
	H1KeywordMatch    bool `json:"h1_keyword_match"`

	// === URL Structure ===

	URLLength      int    `json:"url_length"`
	URLHasKeywords bool   `json:"url_has_keywords"`
	URLReadability string `json:"url_readability,omitempty"`
	URLDepth       int    `json:"url_depth"`
	URLUsesHTTPS   bool   `json:"url_uses_https"`

	// === Links ===
	// InternalLinks + ExternalLinks == TotalLinks is an invariant; anchor
	// and script-pseudo hrefs are excluded from both counts.

	InternalLinks int `json:"internal_links"`
	ExternalLinks int `json:"external_links"`
	TotalLinks    int `json:"total_links"`

	// === Structured Data ===

	HasJSONLD             bool     `json:"has_json_ld"`
	JSONLDTypes           []string `json:"json_ld_types,omitempty"`
	HasFAQSchema          bool     `json:"has_faq_schema"`
	HasBreadcrumbSchema   bool     `json:"has_breadcrumb_schema"`
	HasLocalBusinessSchema bool    `json:"has_local_business_schema"`

	// === Open Graph ===

	OGTitle       string `json:"og_title,omitempty"`
	OGDescription string `json:"og_description,omitempty"`
	OGImage       string `json:"og_image,omitempty"`
	OGURL         string `json:"og_url,omitempty"`

	// === Twitter Cards ===

	TwitterCard        string `json:"twitter_card,omitempty"`
	TwitterTitle       string `json:"twitter_title,omitempty"`
	TwitterDescription string `json:"twitter_description,omitempty"`

	// === Page Weight ===

	// PageSizeBytes is the byte length of the fetched body. Only set when
	// the markup was fetched from a URL.
	PageSizeBytes int     `json:"page_size_bytes"`
	PageSizeKB    float64 `json:"page_size_kb"`

	// === Mobile & Language ===

	HasViewport  bool     `json:"has_viewport"`
	Language     string   `json:"language,omitempty"`
	HasHreflang  bool     `json:"has_hreflang"`
	HreflangTags []string `json:"hreflang_tags,omitempty"`

	// === Navigation & UX ===

	HasBreadcrumbs bool `json:"has_breadcrumbs"`
	HasSearch      bool `json:"has_search"`
	HasContactInfo bool `json:"has_contact_info"`

	// === Content Freshness ===

	HasDateModified bool   `json:"has_date_modified"`
	LastModified    string `json:"last_modified,omitempty"`

	// === Images ===

	TotalImages   int `json:"total_images"`
	ImagesWithAlt int `json:"images_with_alt"`

	// ImagesWithoutAlt counts images whose alt attribute is empty after
	// trimming. An image counts as "with alt" only when the trimmed alt
	// is non-empty.
	ImagesWithoutAlt int `json:"images_without_alt"`

	// MissingAltImages records the src of images without alt text,
	// truncated to 100 characters each.
	MissingAltImages []string `json:"missing_alt_images,omitempty"`

	// FetchError records a failure fetching the markup from a URL.
	// Extraction continues with whatever was obtained.
	FetchError string `json:"fetch_error,omitempty"`
}
