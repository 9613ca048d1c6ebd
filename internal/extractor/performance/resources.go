package performance

import (
	"strings"

	"github.com/sitelens/sitelens/internal/model"
)

// ResourceBucket is one of the six resource categories the local
// measurement stage accumulates.
type ResourceBucket int

// Resource buckets in classification priority order.
const (
	BucketHTML ResourceBucket = iota
	BucketCSS
	BucketJS
	BucketImage
	BucketFont
	BucketOther
)

// fontExtensions identify font files when the content type is unhelpful.
var fontExtensions = []string{".woff", ".woff2", ".ttf", ".otf"}

// ClassifyResource assigns a network response to a bucket by content type
// first, falling back to the URL extension for CSS, JS, and fonts.
func ClassifyResource(contentType, resourceURL string) ResourceBucket {
	ct := strings.ToLower(contentType)

	switch {
	case strings.Contains(ct, "text/html"):
		return BucketHTML
	case strings.Contains(ct, "text/css") || strings.HasSuffix(resourceURL, ".css"):
		return BucketCSS
	case strings.Contains(ct, "javascript") || strings.HasSuffix(resourceURL, ".js"):
		return BucketJS
	case strings.Contains(ct, "image"):
		return BucketImage
	case strings.Contains(ct, "font") || hasAnySuffix(resourceURL, fontExtensions):
		return BucketFont
	default:
		return BucketOther
	}
}

// AccumulateResource adds one response's size into the feature set's
// bucket, incrementing the bucket's request count.
func AccumulateResource(f *model.PerformanceFeatureSet, bucket ResourceBucket, size int) {
	add := func(dst **int) {
		if *dst == nil {
			*dst = model.IntPtr(0)
		}
		**dst += size
	}

	switch bucket {
	case BucketHTML:
		add(&f.HTMLSize)
		f.HTMLRequests++
	case BucketCSS:
		add(&f.CSSSize)
		f.CSSRequests++
	case BucketJS:
		add(&f.JSSize)
		f.JSRequests++
	case BucketImage:
		add(&f.ImageSize)
		f.ImageRequests++
	case BucketFont:
		add(&f.FontSize)
		f.FontRequests++
	case BucketOther:
		add(&f.OtherSize)
		f.OtherRequests++
	}
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}
