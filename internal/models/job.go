package models

import "time"

// TranslationJob is one user-submitted PDF translation and its tracked lifecycle.
type TranslationJob struct {
	ID             string     `json:"id"`
	Filename       string     `json:"filename"`
	UploadPath     string     `json:"upload_path,omitempty"`
	SourceLang     string     `json:"source_lang"`
	Type           string     `json:"type"`
	Status         string     `json:"status"`
	Progress       int        `json:"progress"`
	TranslatedFile string     `json:"translated_file,omitempty"`
	Error          string     `json:"error,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// Job types
const (
	JobTypeTranslate = "translate"
)

// Job statuses. A job moves queued -> processing -> completed or failed;
// terminal states never transition.
const (
	JobStatusQueued     = "queued"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// IsTerminal reports whether a status is final.
func IsTerminal(status string) bool {
	return status == JobStatusCompleted || status == JobStatusFailed
}
