package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTrashPurge hard-deletes documents left in the trash too long.
	TaskTrashPurge = "documents:trash_purge"
	// TaskRenderDocument pre-renders a document PDF after save.
	TaskRenderDocument = "documents:render_pdf"
)

// TrashPurgePayload carries the retention window of the purge run.
type TrashPurgePayload struct {
	RetentionDays int `json:"retention_days"`
}

// NewTrashPurgeTask constructs the nightly purge task.
func NewTrashPurgeTask(retentionDays int) (*asynq.Task, error) {
	body, err := json.Marshal(TrashPurgePayload{RetentionDays: retentionDays})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTrashPurge, body, asynq.Queue(QueueDefault)), nil
}

// RenderDocumentPayload identifies the document to pre-render.
type RenderDocumentPayload struct {
	DocumentID  int64     `json:"document_id"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewRenderDocumentTask constructs a PDF pre-render task.
func NewRenderDocumentTask(documentID int64) (*asynq.Task, error) {
	body, err := json.Marshal(RenderDocumentPayload{DocumentID: documentID, RequestedAt: time.Now().UTC()})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRenderDocument, body, asynq.Queue(QueueDefault)), nil
}
