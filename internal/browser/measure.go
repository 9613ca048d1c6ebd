package browser

import (
	"context"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/sitelens/sitelens/internal/extractor/performance"
	"github.com/sitelens/sitelens/internal/model"
)

// settleWait gives late responses time to arrive after the load event
// before resource accounting stops.
const settleWait = 2 * time.Second

// Measure navigates to the URL in a fresh browser and returns navigation
// timing plus a per-bucket breakdown of every network response observed
// until shortly after the load event.
//
// Only locally measurable fields are populated. Remote-audit fields such
// as category scores and opportunities stay nil so the caller's merge
// logic can tell "not measured here" apart from zero.
func (b *Browser) Measure(ctx context.Context, url string) (*model.PerformanceFeatureSet, error) {
	s, err := b.launch()
	if err != nil {
		return nil, err
	}
	defer s.close(b.logger)

	features := &model.PerformanceFeatureSet{
		URL:            url,
		AnalysisSource: model.SourceLocal,
	}

	page, err := s.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}
	defer page.Close()

	if b.userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: b.userAgent}); err != nil {
			return nil, err
		}
	}

	// Resource accounting runs for the whole navigation. The event loop is
	// stopped by cancelling its context once the page has settled.
	var (
		mu         sync.Mutex
		totalSize  int
		totalCount int
	)
	eventCtx, stopEvents := context.WithCancel(ctx)
	defer stopEvents()

	eventsDone := make(chan struct{})
	go func() {
		defer close(eventsDone)
		page.Context(eventCtx).EachEvent(func(e *proto.NetworkResponseReceived) {
			size := int(e.Response.EncodedDataLength)
			if size < 0 {
				size = 0
			}
			bucket := performance.ClassifyResource(e.Response.MIMEType, e.Response.URL)

			mu.Lock()
			performance.AccumulateResource(features, bucket, size)
			totalSize += size
			totalCount++
			mu.Unlock()
		})()
	}()

	navCtx, cancel := context.WithTimeout(ctx, b.navigationTimeout)
	defer cancel()

	if err := page.Context(navCtx).Navigate(url); err != nil {
		return nil, err
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		b.logger.Warn("page load wait timed out", "url", url, "error", err)
	}

	select {
	case <-time.After(settleWait):
	case <-ctx.Done():
	}
	stopEvents()
	<-eventsDone

	mu.Lock()
	features.TotalPageSize = model.IntPtr(totalSize)
	features.TotalRequests = model.IntPtr(totalCount)
	mu.Unlock()

	b.readTimings(ctx, page, features, url)

	features.AnalyzedAt = time.Now().Format("2006-01-02 15:04:05")
	return features, nil
}

// readTimings pulls navigation and paint timing out of the page's
// performance API. Missing entries leave their fields nil.
func (b *Browser) readTimings(ctx context.Context, page *rod.Page, features *model.PerformanceFeatureSet, url string) {
	res, err := page.Context(ctx).Eval(`() => {
		const nav = performance.getEntriesByType('navigation')[0];
		const paint = performance.getEntriesByType('paint')
			.find(e => e.name === 'first-contentful-paint');
		return {
			responseTime: nav ? nav.responseStart : -1,
			fcp: paint ? paint.startTime : -1,
		};
	}`)
	if err != nil {
		b.logger.Warn("timing read failed", "url", url, "error", err)
		return
	}

	if v := res.Value.Get("responseTime").Num(); v >= 0 {
		features.ResponseTime = model.Float64Ptr(v)
	}
	if v := res.Value.Get("fcp").Num(); v >= 0 {
		features.FCPValue = model.Float64Ptr(v)
	}
}
