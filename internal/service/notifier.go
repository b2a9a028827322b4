package service

import (
	"github.com/biotaxa/taxoclient/internal/logger"
	"github.com/biotaxa/taxoclient/models"
)

type logNotifier struct {
	logger *logger.Logger
}

// NewLogNotifier returns a Notifier that reports terminal failures through
// the structured log. Used when no richer surface is wired in.
func NewLogNotifier(logger *logger.Logger) Notifier {
	return &logNotifier{logger: logger}
}

// UploadFailed implements Notifier.
func (n *logNotifier) UploadFailed(task models.UploadTask, err error) {
	n.logger.Error().
		Str("task_id", task.ID).
		Str("file", task.FileName).
		Str("object", task.ObjectPath).
		Err(err).
		Msg("upload abandoned after repeated failures")
}

// OperationDropped implements Notifier.
func (n *logNotifier) OperationDropped(op models.PendingOperation, err error) {
	n.logger.Error().
		Str("operation_id", op.ID).
		Str("type", string(op.Type)).
		Str("table", op.Table).
		Err(err).
		Msg("queued write abandoned after repeated failures")
}
