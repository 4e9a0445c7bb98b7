package server_test

import (
	"cmp"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"
	"time"

	"git.appkode.ru/pub/go/failure"
	"github.com/stretchr/testify/require"

	"cpc_bidder/internal/domain"
	"cpc_bidder/internal/domain/entity"
	"cpc_bidder/internal/domain/service/audit"
	"cpc_bidder/internal/domain/service/bid"
	"cpc_bidder/internal/server"
	"cpc_bidder/pkg/errcodes"
	"cpc_bidder/pkg/logx"
	"cpc_bidder/pkg/rest"
	"cpc_bidder/pkg/tests"
)

type memoryBidRepo struct {
	mu        sync.Mutex
	bids      []entity.Bid
	createErr error
}

func (r *memoryBidRepo) Create(_ context.Context, b *entity.Bid) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return r.createErr
	}

	b.ID = int64(len(r.bids) + 1)
	b.CreatedAt = b.CalculatedAt
	b.UpdatedAt = b.CalculatedAt
	r.bids = append(r.bids, *b)

	return nil
}

func (r *memoryBidRepo) GetByID(_ context.Context, id int64) (*entity.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range r.bids {
		if b.ID == id {
			return &b, nil
		}
	}

	return nil, domain.NewError(errcodes.BidNotFound, "bid not found")
}

func (r *memoryBidRepo) ListCalculatedSince(_ context.Context, since time.Time) ([]entity.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := make([]entity.Bid, 0, len(r.bids))
	for _, b := range r.bids {
		if !b.CalculatedAt.Before(since) {
			res = append(res, b)
		}
	}

	slices.SortFunc(res, func(a, b entity.Bid) int {
		return cmp.Or(cmp.Compare(a.ProductID, b.ProductID), cmp.Compare(a.ID, b.ID))
	})

	return res, nil
}

type fakeEnqueuer struct {
	taskID string
	err    error
}

func (e fakeEnqueuer) Enqueue(context.Context) (string, error) {
	return e.taskID, e.err
}

type fakeResults struct {
	tasks map[string]entity.AuditTask
}

func (r fakeResults) Get(_ context.Context, taskID string) (entity.AuditTask, error) {
	task, ok := r.tasks[taskID]
	if !ok {
		return entity.AuditTask{}, failure.NewNotFoundError(
			"audit task not found",
			failure.WithCode(errcodes.AuditTaskNotFound),
			failure.WithDescription("Audit task not found"),
		)
	}

	return task, nil
}

type env struct {
	client tests.APIClient
	repo   *memoryBidRepo
	now    time.Time
}

func newEnv(t *testing.T, enqueuer fakeEnqueuer, results fakeResults) env {
	t.Helper()

	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	repo := &memoryBidRepo{}

	srv := server.NewServer(
		server.NewBidServer(bid.NewBidService(repo).WithClock(clock)),
		server.NewAuditServer(audit.NewAuditor(repo, &discard{}), enqueuer, results).WithClock(clock),
	)

	ts := httptest.NewServer(server.NewRouter(srv, logx.NewSensitiveDataMasker(), 1024))
	t.Cleanup(ts.Close)

	return env{
		client: tests.NewAPIClient(ts.URL, ts.Client()),
		repo:   repo,
		now:    now,
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestPostV1Bids(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		adjusted string
	}{
		{
			name:     "numbers",
			body:     `{"product_id": 123, "current_cpc": 1.50, "target_roas": 150.0}`,
			adjusted: "2.25",
		},
		{
			name:     "numeric strings",
			body:     `{"product_id": "123", "current_cpc": "1.50", "target_roas": "150"}`,
			adjusted: "2.25",
		},
		{
			name:     "half up",
			body:     `{"product_id": 1, "current_cpc": 1.01, "target_roas": 50}`,
			adjusted: "0.51",
		},
		{
			name:     "zero cpc",
			body:     `{"product_id": 1, "current_cpc": 0, "target_roas": 300}`,
			adjusted: "0.00",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)
			e := newEnv(t, fakeEnqueuer{}, fakeResults{})

			var resp rest.BidResponse
			httpResp, err := e.client.PostJSON(context.Background(), "/v1/bids", nil, tc.body, &resp, nil)
			rq.NoError(err)
			rq.Equal(http.StatusOK, httpResp.StatusCode)
			rq.Equal(tc.adjusted, resp.AdjustedCPC.String())
			rq.Equal(int64(1), resp.BidID)
			rq.Len(e.repo.bids, 1)
			rq.True(e.now.Equal(e.repo.bids[0].CalculatedAt))
		})
	}
}

func TestPostV1BidsValidation(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		expected []string
	}{
		{
			name:     "all invalid",
			body:     `{"product_id": "", "current_cpc": "abc", "target_roas": 0}`,
			expected: []string{"Invalid product ID", "Invalid current CPC", "Invalid target ROAS"},
		},
		{
			name:     "missing fields",
			body:     `{}`,
			expected: []string{"Invalid product ID", "Invalid current CPC", "Invalid target ROAS"},
		},
		{
			name:     "negative cpc",
			body:     `{"product_id": 1, "current_cpc": -1, "target_roas": 100}`,
			expected: []string{"Invalid current CPC"},
		},
		{
			name:     "boolean roas",
			body:     `{"product_id": 1, "current_cpc": 1, "target_roas": true}`,
			expected: []string{"Invalid target ROAS"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)
			e := newEnv(t, fakeEnqueuer{}, fakeResults{})

			var errResp rest.ValidationErrors
			httpResp, err := e.client.PostJSON(context.Background(), "/v1/bids", nil, tc.body, nil, &errResp)
			rq.NoError(err)
			rq.Equal(http.StatusBadRequest, httpResp.StatusCode)
			rq.Equal(tc.expected, errResp.Errors)
			rq.Empty(e.repo.bids)
		})
	}
}

func TestPostV1BidsErrors(t *testing.T) {
	rq := require.New(t)
	e := newEnv(t, fakeEnqueuer{}, fakeResults{})
	ctx := context.Background()

	var errResp rest.Error
	httpResp, err := e.client.PostJSON(ctx, "/v1/bids", nil, `{"product_id": 1.5, "current_cpc": 1, "target_roas": 100}`, nil, &errResp)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, httpResp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.InvalidProductID), errResp.Code)
	rq.Equal("Invalid product ID", errResp.Error)

	errResp = rest.Error{}
	httpResp, err = e.client.PostJSON(ctx, "/v1/bids", nil, `{"product_id":`, nil, &errResp)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, httpResp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.ValidationError), errResp.Code)

	e.repo.createErr = domain.WrapError(errors.New("connection reset"), errcodes.InternalServerError, "failed to create bid")

	errResp = rest.Error{}
	httpResp, err = e.client.PostJSON(ctx, "/v1/bids", nil, `{"product_id": 1, "current_cpc": 1, "target_roas": 100}`, nil, &errResp)
	rq.NoError(err)
	rq.Equal(http.StatusInternalServerError, httpResp.StatusCode)
	rq.Equal("Internal server error", errResp.Error)
	rq.NotEmpty(errResp.SupportID)
}

func TestGetV1Bid(t *testing.T) {
	rq := require.New(t)
	e := newEnv(t, fakeEnqueuer{}, fakeResults{})
	ctx := context.Background()

	_, err := e.client.PostJSON(ctx, "/v1/bids", nil, `{"product_id": 7, "current_cpc": "2", "target_roas": "165"}`, nil, nil)
	rq.NoError(err)

	var b rest.Bid
	httpResp, err := e.client.Get(ctx, "/v1/bids/1", nil, &b, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, httpResp.StatusCode)
	rq.Equal(int64(7), b.ProductID)
	rq.Equal("2.00", b.CurrentCPC.String())
	rq.Equal("165.00", b.TargetROAS.String())
	rq.Equal("3.30", b.AdjustedCPC.String())
	rq.Equal("2026-10-18T12:00:00Z", b.CalculatedAt)

	var errResp rest.Error
	httpResp, err = e.client.Get(ctx, "/v1/bids/99", nil, nil, &errResp)
	rq.NoError(err)
	rq.Equal(http.StatusNotFound, httpResp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.BidNotFound), errResp.Code)

	httpResp, err = e.client.Get(ctx, "/v1/bids/abc", nil, nil, &errResp)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, httpResp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.InvalidBidID), errResp.Code)
}

func TestPostV1Audits(t *testing.T) {
	rq := require.New(t)
	e := newEnv(t, fakeEnqueuer{}, fakeResults{})
	ctx := context.Background()

	for _, body := range []string{
		`{"product_id": 1, "current_cpc": 1.0, "target_roas": 110}`,
		`{"product_id": 2, "current_cpc": 2.0, "target_roas": 165}`,
		`{"product_id": 3, "current_cpc": 5.0, "target_roas": 140}`,
	} {
		httpResp, err := e.client.PostJSON(ctx, "/v1/bids", nil, body, nil, nil)
		rq.NoError(err)
		rq.Equal(http.StatusOK, httpResp.StatusCode)
	}

	var summary rest.AuditSummary
	httpResp, err := e.client.Post(ctx, "/v1/audits", nil, struct{}{}, &summary, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, httpResp.StatusCode)
	rq.Equal(rest.AuditSummary{TotalBids: 3, FlaggedBids: 2, AuditTimestamp: "2026-10-18T12:00:00Z"}, summary)
}

func TestAsyncAudits(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	e := newEnv(t, fakeEnqueuer{taskID: "task-1"}, fakeResults{tasks: map[string]entity.AuditTask{
		"task-1": {ID: "task-1", Queue: "audit", State: "completed", Summary: &entity.AuditSummary{TotalBids: 3, FlaggedBids: 2, AuditTimestamp: now}},
		"task-2": {ID: "task-2", Queue: "audit", State: "pending"},
	}})

	var task rest.AuditTask
	httpResp, err := e.client.Post(ctx, "/v1/audits/async", nil, struct{}{}, &task, nil)
	rq.NoError(err)
	rq.Equal(http.StatusAccepted, httpResp.StatusCode)
	rq.Equal("task-1", task.TaskID)

	task = rest.AuditTask{}
	httpResp, err = e.client.Get(ctx, "/v1/audits/task-1", nil, &task, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, httpResp.StatusCode)
	rq.Equal("completed", task.State)
	rq.Equal(&rest.AuditSummary{TotalBids: 3, FlaggedBids: 2, AuditTimestamp: "2026-10-18T12:00:00Z"}, task.Summary)

	task = rest.AuditTask{}
	httpResp, err = e.client.Get(ctx, "/v1/audits/task-2", nil, &task, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, httpResp.StatusCode)
	rq.Equal("pending", task.State)
	rq.Nil(task.Summary)

	var errResp rest.Error
	httpResp, err = e.client.Get(ctx, "/v1/audits/missing", nil, nil, &errResp)
	rq.NoError(err)
	rq.Equal(http.StatusNotFound, httpResp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.AuditTaskNotFound), errResp.Code)
}

func TestAsyncAuditsEnqueueFailure(t *testing.T) {
	rq := require.New(t)
	e := newEnv(t, fakeEnqueuer{err: errors.New("redis is down")}, fakeResults{})

	var errResp rest.Error
	httpResp, err := e.client.Post(context.Background(), "/v1/audits/async", nil, struct{}{}, nil, &errResp)
	rq.NoError(err)
	rq.Equal(http.StatusInternalServerError, httpResp.StatusCode)
	rq.Equal("Internal server error", errResp.Error)
}
