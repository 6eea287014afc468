package apiserver

import (
	"net/url"
	"strings"

	"github.com/bionovax/bionova/internal/prompt"
	"github.com/bionovax/bionova/internal/types"
)

// mergeReports unions prior and freshly generated report items, keyed by
// {title, year}. Prior items keep their position; fresh items are appended
// in arrival order. When the model returns nothing new, the merged report
// equals the prior one.
func mergeReports(existing, fresh []types.ReportItem) []types.ReportItem {
	merged := make([]types.ReportItem, 0, len(existing)+len(fresh))
	seen := make(map[reportIdentity]bool, len(existing)+len(fresh))

	for _, item := range existing {
		id := identityOf(item)
		if seen[id] {
			continue
		}
		seen[id] = true
		merged = append(merged, item)
	}
	for _, item := range fresh {
		id := identityOf(item)
		if seen[id] {
			continue
		}
		seen[id] = true
		merged = append(merged, item)
	}

	return merged
}

type reportIdentity struct {
	title string
	year  int
}

func identityOf(item types.ReportItem) reportIdentity {
	return reportIdentity{title: strings.ToLower(strings.TrimSpace(item.Title)), year: item.Year}
}

// sanitizeSourceURLs nulls out any source_url pointing outside the allowed
// data portals. The model is instructed never to produce such links, but the
// instruction is textual; this is the server-side backstop.
func sanitizeSourceURLs(report []types.ReportItem) {
	for i := range report {
		if report[i].SourceURL == nil {
			continue
		}
		if !allowedSourceURL(*report[i].SourceURL) {
			report[i].SourceURL = nil
		}
	}
}

func allowedSourceURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}

	host := strings.ToLower(u.Hostname())
	for _, domain := range prompt.AllowedSourceDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}
