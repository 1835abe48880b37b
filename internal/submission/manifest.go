package submission

import (
	"fmt"
	"time"
)

// ManifestProduct is one packaged product's image count.
type ManifestProduct struct {
	Slug   string `json:"slug"`
	Images int    `json:"images"`
}

// ManifestTotals summarizes one submission.
type ManifestTotals struct {
	Products int   `json:"products"`
	Images   int   `json:"images"`
	Bytes    int64 `json:"bytes"`
}

// Tool identifies the producer embedded in each manifest.
type Tool struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Manifest describes one packaged submission. It is written into the
// archive as manifest.json and returned to the caller.
type Manifest struct {
	SubmissionID string            `json:"submissionId"`
	CreatedAt    string            `json:"createdAt"`
	SuggestedKey string            `json:"suggestedKey"`
	Tool         Tool              `json:"tool"`
	Products     []ManifestProduct `json:"products"`
	Totals       ManifestTotals    `json:"totals"`
}

// Filename is the suggested name for the archive file.
func (m *Manifest) Filename() string {
	return "submission-" + m.SubmissionID + ".zip"
}

func suggestedKey(createdAt time.Time, submissionID string) string {
	return fmt.Sprintf("submissions/%s/incoming.%s.zip", createdAt.UTC().Format("2006-01-02"), submissionID)
}
