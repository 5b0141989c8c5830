package events

import (
	"time"

	"github.com/clausewise/clausewise/pkg/models"
)

// AnalysisCompleteEvent is sent when the pipeline finishes an analysis.
// The serve command's archive worker consumes these so Elasticsearch
// indexing stays off the request path.
type AnalysisCompleteEvent struct {
	Analysis  models.Analysis // Record to index
	Timestamp time.Time       // When the analysis completed
}
