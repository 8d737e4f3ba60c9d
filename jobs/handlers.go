package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// TrashPurger hard-deletes documents trashed before a cutoff.
type TrashPurger interface {
	PurgeTrashedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// PDFRenderer pre-renders a document so the file is warm when staff print.
type PDFRenderer interface {
	Render(ctx context.Context, documentID int64) (string, error)
}

// HandleTrashPurge returns the handler for TaskTrashPurge.
func HandleTrashPurge(purger TrashPurger, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload TrashPurgePayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		if payload.RetentionDays <= 0 {
			payload.RetentionDays = 30
		}

		cutoff := time.Now().UTC().AddDate(0, 0, -payload.RetentionDays)
		purged, err := purger.PurgeTrashedBefore(ctx, cutoff)
		if err != nil {
			logger.Error("trash purge", slog.Any("error", err))
			return err
		}
		logger.Info("trash purge completed",
			slog.Int64("purged", purged),
			slog.Time("cutoff", cutoff))
		return nil
	}
}

// HandleRenderDocument returns the handler for TaskRenderDocument.
func HandleRenderDocument(renderer PDFRenderer, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload RenderDocumentPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}

		url, err := renderer.Render(ctx, payload.DocumentID)
		if err != nil {
			logger.Error("pre-render document",
				slog.Int64("document_id", payload.DocumentID),
				slog.Any("error", err))
			return err
		}
		logger.Info("document pre-rendered",
			slog.Int64("document_id", payload.DocumentID),
			slog.String("url", url))
		return nil
	}
}
