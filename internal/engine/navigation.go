package engine

import "github.com/datallboy/toolfetch/internal/domain"

// DecideNavigation starts a download when url points at a supported file and
// reports whether the browser should cancel the navigation.
func (o *Orchestrator) DecideNavigation(source domain.Source, url string) bool {
	if !domain.IsDownloadable(url) {
		return false
	}
	// Outcome is reported through the sink
	_ = o.StartDownload(source, url)
	return true
}
