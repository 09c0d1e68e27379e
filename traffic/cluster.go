package traffic

import (
	"time"

	"github.com/werego/werego-api/geo"
	"github.com/werego/werego-api/schema"
)

// Cluster - reports of one type grouped around the location of the first one
type Cluster struct {
	Type           schema.ReportType `json:"type"`
	Center         schema.Location   `json:"center"`
	Count          int               `json:"count"`
	IsSignificant  bool              `json:"isSignificant"`
	LastReportTime time.Time         `json:"lastReportTime"`
	Reports        []schema.Report   `json:"reports,omitempty"`
}

type ClusterOptions struct {
	// MergeRadius is the distance in meters under which a report joins a cluster
	MergeRadius float64
	// MinSize is the member count from which a cluster is significant
	MinSize int
}

// ClusterReports groups reports in a single greedy pass. Each report joins the
// first earlier cluster of the same type whose center is closer than the
// merge radius, otherwise it starts a new cluster centered on itself. Centers
// never move, so the result depends on input order but is deterministic for a
// given order.
func ClusterReports(reports []schema.Report, opts ClusterOptions) []Cluster {
	clusters := make([]Cluster, 0)

	for _, r := range reports {
		pos := r.Position()

		joined := false
		for i := range clusters {
			c := &clusters[i]
			if c.Type != r.Type {
				continue
			}
			if geo.Haversine(pos, c.Center) < opts.MergeRadius {
				c.Reports = append(c.Reports, r)
				c.Count++
				if r.CreatedAt.After(c.LastReportTime) {
					c.LastReportTime = r.CreatedAt
				}
				joined = true
				break
			}
		}

		if !joined {
			clusters = append(clusters, Cluster{
				Type:           r.Type,
				Center:         pos,
				Count:          1,
				LastReportTime: r.CreatedAt,
				Reports:        []schema.Report{r},
			})
		}
	}

	for i := range clusters {
		clusters[i].IsSignificant = clusters[i].Count >= opts.MinSize
	}

	return clusters
}

// StripInsignificant returns a copy of clusters where only significant
// clusters keep their member reports.
func StripInsignificant(clusters []Cluster) []Cluster {
	stripped := make([]Cluster, len(clusters))
	for i, c := range clusters {
		if !c.IsSignificant {
			c.Reports = nil
		}
		stripped[i] = c
	}
	return stripped
}

// FilterMinCount keeps the clusters holding at least minCount reports
func FilterMinCount(clusters []Cluster, minCount int) []Cluster {
	kept := make([]Cluster, 0, len(clusters))
	for _, c := range clusters {
		if c.Count >= minCount {
			kept = append(kept, c)
		}
	}
	return kept
}
