// Package worker выполняет аудит бюджета отложенной задачей asynq.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"git.appkode.ru/pub/go/failure"
	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"

	"cpc_bidder/internal/domain/entity"
	"cpc_bidder/pkg/contextx"
	"cpc_bidder/pkg/errcodes"
	"cpc_bidder/pkg/logx"
)

const TypeBudgetAudit = "audit:budget"

//nolint:gochecknoglobals
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// NewAuditTask создаёт задачу аудита бюджета. Payload пустой: окно всегда
// заканчивается в момент обработки задачи.
func NewAuditTask(opts ...asynq.Option) *asynq.Task {
	return asynq.NewTask(TypeBudgetAudit, nil, opts...)
}

type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type AuditEnqueuer struct {
	client    TaskEnqueuer
	queue     string
	retention time.Duration
}

// NewAuditEnqueuer хранит результаты выполненных задач retention,
// чтобы их можно было забрать через AuditResults.
func NewAuditEnqueuer(client TaskEnqueuer, queue string, retention time.Duration) *AuditEnqueuer {
	return &AuditEnqueuer{
		client:    client,
		queue:     queue,
		retention: retention,
	}
}

func (e *AuditEnqueuer) Options() []asynq.Option {
	return []asynq.Option{asynq.Queue(e.queue), asynq.Retention(e.retention)}
}

// Enqueue ставит аудит в очередь и возвращает id задачи.
func (e *AuditEnqueuer) Enqueue(ctx context.Context) (string, error) {
	info, err := e.client.EnqueueContext(ctx, NewAuditTask(), e.Options()...)
	if err != nil {
		return "", fmt.Errorf("client.EnqueueContext: %w", err)
	}

	logger(ctx).Info(
		"audit task enqueued",
		slog.String(logx.FieldTaskID, info.ID),
		slog.String(logx.FieldQueue, info.Queue),
	)

	return info.ID, nil
}

type Auditor interface {
	Run(ctx context.Context, now time.Time) (entity.AuditSummary, error)
}

type AuditHandler struct {
	auditor Auditor
	now     func() time.Time
}

func NewAuditHandler(auditor Auditor) *AuditHandler {
	return &AuditHandler{
		auditor: auditor,
		now:     time.Now,
	}
}

func (h *AuditHandler) WithClock(now func() time.Time) *AuditHandler {
	h.now = now
	return h
}

// ProcessTask запускает аудит и сохраняет JSON сводку как результат задачи.
func (h *AuditHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	w := task.ResultWriter()
	if w != nil {
		ctx = contextx.WithTaskID(ctx, contextx.TaskID(w.TaskID()))
		ctx = contextx.WithLogger(ctx, logger(ctx).With(slog.String(logx.FieldTaskID, w.TaskID())))
	}

	logger(ctx).Info("audit task started", slog.String(logx.FieldTaskType, task.Type()))

	summary, err := h.auditor.Run(ctx, h.now())
	if err != nil {
		return fmt.Errorf("auditor.Run: %w", err)
	}

	if w == nil {
		return nil
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("resultWriter.Write: %w", err)
	}

	return nil
}

type TaskInspector interface {
	GetTaskInfo(queue, id string) (*asynq.TaskInfo, error)
}

type AuditResults struct {
	inspector TaskInspector
	queue     string
}

func NewAuditResults(inspector TaskInspector, queue string) *AuditResults {
	return &AuditResults{
		inspector: inspector,
		queue:     queue,
	}
}

// Get возвращает состояние задачи аудита. Summary остаётся nil, пока задача
// не завершилась.
func (r *AuditResults) Get(_ context.Context, taskID string) (entity.AuditTask, error) {
	info, err := r.inspector.GetTaskInfo(r.queue, taskID)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
			return entity.AuditTask{}, failure.NewNotFoundError(
				fmt.Sprintf("audit task %q not found", taskID),
				failure.WithCode(errcodes.AuditTaskNotFound),
				failure.WithDescription("Audit task not found"),
			)
		}

		return entity.AuditTask{}, fmt.Errorf("inspector.GetTaskInfo: %w", err)
	}

	task := entity.AuditTask{
		ID:        info.ID,
		Queue:     info.Queue,
		State:     info.State.String(),
		LastError: info.LastErr,
	}

	if info.State == asynq.TaskStateCompleted && len(info.Result) > 0 {
		var summary entity.AuditSummary
		if err := json.Unmarshal(info.Result, &summary); err != nil {
			return entity.AuditTask{}, fmt.Errorf("json.Unmarshal: %w", err)
		}

		task.Summary = &summary
	}

	return task, nil
}
