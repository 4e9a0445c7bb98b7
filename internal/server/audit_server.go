package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"cpc_bidder/internal/domain/entity"
	"cpc_bidder/pkg/httpx/reply"
	"cpc_bidder/pkg/rest"
)

type auditor interface {
	Run(ctx context.Context, now time.Time) (entity.AuditSummary, error)
}

type auditEnqueuer interface {
	Enqueue(ctx context.Context) (string, error)
}

type auditResults interface {
	Get(ctx context.Context, taskID string) (entity.AuditTask, error)
}

// AuditServer отдаёт аудит бюджета синхронно и отложенной задачей.
// Оба пути используют один и тот же аудитор.
type AuditServer struct {
	auditor  auditor
	enqueuer auditEnqueuer
	results  auditResults
	now      func() time.Time
}

func NewAuditServer(
	auditor auditor,
	enqueuer auditEnqueuer,
	results auditResults,
) AuditServer {
	return AuditServer{
		auditor:  auditor,
		enqueuer: enqueuer,
		results:  results,
		now:      time.Now,
	}
}

func (s AuditServer) WithClock(now func() time.Time) AuditServer {
	s.now = now
	return s
}

func (s AuditServer) postV1Audits(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	summary, err := s.auditor.Run(ctx, s.now())
	if err != nil {
		return fmt.Errorf("auditor.Run: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTAuditSummary(summary))

	return nil
}

func (s AuditServer) postV1AuditsAsync(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	taskID, err := s.enqueuer.Enqueue(ctx)
	if err != nil {
		return fmt.Errorf("enqueuer.Enqueue: %w", err)
	}

	reply.JSON(ctx, w, http.StatusAccepted, rest.AuditTask{TaskID: taskID})

	return nil
}

func (s AuditServer) getV1Audit(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	task, err := s.results.Get(ctx, chi.URLParam(r, "taskID"))
	if err != nil {
		return fmt.Errorf("results.Get: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTAuditTask(task))

	return nil
}
