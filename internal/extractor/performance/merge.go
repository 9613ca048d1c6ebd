package performance

import "github.com/sitelens/sitelens/internal/model"

// fillFromLocal merges the local measurement into the feature set. Only
// fields still unset by the earlier stages are filled; stage 3 never
// overwrites audit or header data. Returns whether anything was filled.
//
// The per-bucket request counts are produced only by the local stage, so
// they are copied whenever the local stage observed any responses.
func fillFromLocal(f, local *model.PerformanceFeatureSet) bool {
	filled := false

	fillFloat := func(dst **float64, src *float64) {
		if *dst == nil && src != nil {
			*dst = src
			filled = true
		}
	}
	fillInt := func(dst **int, src *int) {
		if *dst == nil && src != nil {
			*dst = src
			filled = true
		}
	}

	fillFloat(&f.LCPScore, local.LCPScore)
	fillFloat(&f.LCPValue, local.LCPValue)
	fillFloat(&f.FIDScore, local.FIDScore)
	fillFloat(&f.FIDValue, local.FIDValue)
	fillFloat(&f.CLSScore, local.CLSScore)
	fillFloat(&f.CLSValue, local.CLSValue)
	fillFloat(&f.FCPScore, local.FCPScore)
	fillFloat(&f.FCPValue, local.FCPValue)
	fillFloat(&f.TTIScore, local.TTIScore)
	fillFloat(&f.TTIValue, local.TTIValue)
	fillFloat(&f.SpeedIndexScore, local.SpeedIndexScore)
	fillFloat(&f.SpeedIndexValue, local.SpeedIndexValue)
	fillFloat(&f.TBTScore, local.TBTScore)
	fillFloat(&f.TBTValue, local.TBTValue)

	fillFloat(&f.ResponseTime, local.ResponseTime)
	fillInt(&f.HTTPStatusCode, local.HTTPStatusCode)
	fillInt(&f.TotalPageSize, local.TotalPageSize)
	fillInt(&f.TotalRequests, local.TotalRequests)

	fillInt(&f.HTMLSize, local.HTMLSize)
	fillInt(&f.CSSSize, local.CSSSize)
	fillInt(&f.JSSize, local.JSSize)
	fillInt(&f.ImageSize, local.ImageSize)
	fillInt(&f.FontSize, local.FontSize)
	fillInt(&f.OtherSize, local.OtherSize)

	totalLocal := local.HTMLRequests + local.CSSRequests + local.JSRequests +
		local.ImageRequests + local.FontRequests + local.OtherRequests
	if totalLocal > 0 && f.HTMLRequests+f.CSSRequests+f.JSRequests+f.ImageRequests+f.FontRequests+f.OtherRequests == 0 {
		f.HTMLRequests = local.HTMLRequests
		f.CSSRequests = local.CSSRequests
		f.JSRequests = local.JSRequests
		f.ImageRequests = local.ImageRequests
		f.FontRequests = local.FontRequests
		f.OtherRequests = local.OtherRequests
		filled = true
	}

	switch {
	case f.AnalyzedAt == "":
		// No earlier stage stamped the set; the local stage owns it.
		f.AnalyzedAt = local.AnalyzedAt
		f.AnalysisSource = model.SourceLocal
	case filled:
		f.AnalysisSource = model.SourceMerged
	}

	return filled
}
