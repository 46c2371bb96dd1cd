package model

import "time"

// ContentType classifies a recovered payload for the outbound publish
type ContentType string

const (
	ContentTypeJSON ContentType = "application/json"
	ContentTypeText ContentType = "text/plain"
)

// InferContentType returns the content type for a sanitized payload:
// JSON when the body begins with '{', plain text otherwise.
func InferContentType(body []byte) ContentType {
	if len(body) > 0 && body[0] == '{' {
		return ContentTypeJSON
	}
	return ContentTypeText
}

// SegmentFile is one on-disk queue segment scheduled for a run.
// Seq is the numeric prefix of the filename before its extension; files
// are always processed in ascending Seq order.
type SegmentFile struct {
	Path string
	Seq  int
}

// RecoveredMessage is a payload salvaged from a segment file. It carries no
// persistent identity: re-running the pipeline over the same files produces
// (and republishes) the same messages again.
type RecoveredMessage struct {
	Body        []byte
	ContentType ContentType
	SourceFile  string
	Offset      int // Byte offset of the candidate within the source file
}

// RunStats aggregates counters for one recovery run. Counters only grow
// during the run and are discarded at process end.
type RunStats struct {
	FilesScanned      int `json:"files_scanned"`
	MessagesPublished int `json:"messages_published"`
	CandidatesSkipped int `json:"candidates_skipped"`
	PublishFailures   int `json:"publish_failures"`
	LimitsHit         int `json:"limits_hit"`
}

// Report is the JSON run report written when --report is set
type Report struct {
	Directory  string    `json:"directory"`
	Strategy   string    `json:"strategy"`
	DryRun     bool      `json:"dry_run"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Stats      RunStats  `json:"stats"`
}
