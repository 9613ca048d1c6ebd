package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sitelens/sitelens/internal/classify"
	"github.com/sitelens/sitelens/internal/format"
	"github.com/sitelens/sitelens/internal/model"
)

// ContentExtractor produces the SEO/content feature set from a URL or
// provided markup.
type ContentExtractor interface {
	Extract(ctx context.Context, pageURL, markup string) (*model.ContentFeatureSet, error)
}

// PerformanceExtractor runs the performance waterfall. It degrades
// internally and never fails outright, so there is no error return.
type PerformanceExtractor interface {
	Extract(ctx context.Context, url string) *model.PerformanceFeatureSet
}

// VisualExtractor produces the visual feature set for each input mode.
type VisualExtractor interface {
	ExtractURL(ctx context.Context, url string) (*model.VisualFeatureSet, error)
	ExtractScreenshot(path string) (*model.VisualFeatureSet, error)
	ExtractScreenshotSet(shots map[string]string) (*model.VisualFeatureSet, error)
}

// Synthesizer is the optional summary capability. It receives the combined
// report after the branch barrier and returns free-text synthesis.
// Implementations are typically LLM-backed and injected by the caller.
type Synthesizer interface {
	Synthesize(ctx context.Context, report *model.CombinedReport) (string, error)
}

// Orchestrator runs the full analysis for one input.
type Orchestrator struct {
	classifier  classify.Classifier
	content     ContentExtractor
	performance PerformanceExtractor
	visual      VisualExtractor
	synthesizer Synthesizer
	logger      *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClassifier sets the external classification capability. Without one,
// rule-based classification is used directly.
func WithClassifier(c classify.Classifier) Option {
	return func(o *Orchestrator) { o.classifier = c }
}

// WithContentExtractor sets the SEO branch extractor.
func WithContentExtractor(e ContentExtractor) Option {
	return func(o *Orchestrator) { o.content = e }
}

// WithPerformanceExtractor sets the performance branch extractor.
func WithPerformanceExtractor(e PerformanceExtractor) Option {
	return func(o *Orchestrator) { o.performance = e }
}

// WithVisualExtractor sets the visual branch extractor.
func WithVisualExtractor(e VisualExtractor) Option {
	return func(o *Orchestrator) { o.visual = e }
}

// WithSynthesizer sets the optional summary capability.
func WithSynthesizer(s Synthesizer) Option {
	return func(o *Orchestrator) { o.synthesizer = s }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// New creates an Orchestrator with the given options.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// branch is one declarative branch entry. The eligibility predicate is a
// pure function of the input; run executes the extractor and formats its
// output.
type branch struct {
	name     string
	eligible func(model.AnalysisInput) bool
	run      func(ctx context.Context, in model.AnalysisInput, result *model.BranchResult) error
}

// Run executes the analysis for one raw input and returns the combined
// report. The only error it returns is context cancellation; everything
// else is contained in branch results.
func (o *Orchestrator) Run(ctx context.Context, rawInput string) (*model.CombinedReport, error) {
	classification := classify.Resolve(ctx, o.classifier, rawInput, o.logger)

	// Eligibility is evaluated over the raw input's structure, never over
	// the classifier verdict. The verdict contributes kind, confidence,
	// and reasoning metadata only, so a misbehaving classifier cannot
	// block extraction of a structurally valid input.
	input := classify.Structural(rawInput)

	o.logger.Info("input classified",
		"kind", classification.Kind,
		"confidence", classification.Confidence,
	)

	report := &model.CombinedReport{
		Input:          input,
		Classification: classification,
		AnalyzedAt:     time.Now(),
	}

	branches := o.branches()
	results := make([]model.BranchResult, len(branches))

	g, gctx := errgroup.WithContext(ctx)
	for i, br := range branches {
		results[i] = model.BranchResult{Name: br.name}
		g.Go(func() error {
			o.runBranch(gctx, br, input, &results[i])
			return nil
		})
	}

	// Barrier: all branches settle before synthesis sees the report.
	_ = g.Wait() //nolint:errcheck // Branches never return errors to the group

	if err := ctx.Err(); err != nil {
		return report, err
	}

	report.Branches = results

	if o.synthesizer != nil {
		summary, err := o.synthesizer.Synthesize(ctx, report)
		if err != nil {
			o.logger.Warn("synthesis failed, report keeps per-branch text", "error", err)
		} else {
			report.Summary = summary
		}
	}

	return report, nil
}

// runBranch evaluates eligibility and executes one branch, converting
// every failure mode, error return or panic alike, into a Failed result.
func (o *Orchestrator) runBranch(ctx context.Context, br branch, input model.AnalysisInput, result *model.BranchResult) {
	if !br.eligible(input) {
		result.Status = model.BranchSkipped
		result.FormattedText = model.SkippedPlaceholder
		o.logger.Debug("branch skipped", "branch", br.name, "kind", input.Kind)
		return
	}

	defer func() {
		if r := recover(); r != nil {
			result.Status = model.BranchFailed
			result.Error = fmt.Sprintf("panic: %v", r)
			result.FormattedText = fmt.Sprintf("Analysis failed: panic: %v", r)
			o.logger.Error("branch panicked", "branch", br.name, "panic", r)
		}
	}()

	o.logger.Debug("branch running", "branch", br.name)
	if err := br.run(ctx, input, result); err != nil {
		result.Status = model.BranchFailed
		result.Error = err.Error()
		result.FormattedText = fmt.Sprintf("Analysis failed: %s", err)
		o.logger.Warn("branch failed", "branch", br.name, "error", err)
		return
	}
	result.Status = model.BranchRan
}

// branches returns the declarative branch list in canonical order.
func (o *Orchestrator) branches() []branch {
	return []branch{
		{
			name: model.BranchSEO,
			eligible: func(in model.AnalysisInput) bool {
				return in.HasURL() || in.HasMarkup()
			},
			run: o.runSEO,
		},
		{
			name:     model.BranchPerformance,
			eligible: model.AnalysisInput.HasURL,
			run:      o.runPerformance,
		},
		{
			name: model.BranchVisual,
			eligible: func(in model.AnalysisInput) bool {
				return in.HasURL() || in.HasScreenshots()
			},
			run: o.runVisual,
		},
	}
}

func (o *Orchestrator) runSEO(ctx context.Context, in model.AnalysisInput, result *model.BranchResult) error {
	if o.content == nil {
		return fmt.Errorf("no content extractor configured")
	}

	features, err := o.content.Extract(ctx, in.URL, in.Markup)
	if err != nil {
		return err
	}

	sourceType, sourceValue := "URL", in.URL
	if in.HasMarkup() {
		sourceType, sourceValue = "HTML", "provided markup"
	}

	result.Content = features
	result.FormattedText = format.Content(features, sourceType, sourceValue)
	return nil
}

func (o *Orchestrator) runPerformance(ctx context.Context, in model.AnalysisInput, result *model.BranchResult) error {
	if o.performance == nil {
		return fmt.Errorf("no performance extractor configured")
	}

	features := o.performance.Extract(ctx, in.URL)
	result.Performance = features
	result.FormattedText = format.Performance(features, in.URL)
	return nil
}

// runVisual picks the extraction mode by input shape: provided screenshots
// win over live capture, so an input carrying both a URL and screenshots is
// analyzed from the screenshots.
func (o *Orchestrator) runVisual(ctx context.Context, in model.AnalysisInput, result *model.BranchResult) error {
	if o.visual == nil {
		return fmt.Errorf("no visual extractor configured")
	}

	var (
		features *model.VisualFeatureSet
		err      error
	)
	switch {
	case len(in.Screenshots) > 0:
		features, err = o.visual.ExtractScreenshotSet(in.Screenshots)
	case in.ScreenshotPath != "":
		features, err = o.visual.ExtractScreenshot(in.ScreenshotPath)
	default:
		features, err = o.visual.ExtractURL(ctx, in.URL)
	}
	if err != nil {
		return err
	}

	result.Visual = features
	result.FormattedText = format.Visual(features)
	return nil
}
