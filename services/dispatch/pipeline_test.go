package dispatch_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	notificationRepo "notifyrelay/database/repository/notification"
	"notifyrelay/models"
	"notifyrelay/services/dispatch"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo is an in-memory NotificationRepository with the same CAS semantics
// as the Mongo implementation.
type fakeRepo struct {
	mu      sync.Mutex
	order   []string
	items   map[string]*models.Notification
	replies []models.NotificationReply
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[string]*models.Notification)}
}

func (r *fakeRepo) add(n models.Notification) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Status == "" {
		n.Status = models.StatusPending
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	r.items[n.ID] = &n
	r.order = append(r.order, n.ID)
	return n.ID
}

func (r *fakeRepo) Create(_ context.Context, n models.Notification) (string, error) {
	if err := n.Validate(); err != nil {
		return "", err
	}
	return r.add(n), nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok {
		return nil, errors.New("notification not found")
	}
	cp := *n
	return &cp, nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, id string, status models.NotificationStatus, tsField notificationRepo.TimestampField) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok {
		return errors.New("notification not found")
	}
	n.Status = status
	r.stampLocked(n, tsField)
	return nil
}

func (r *fakeRepo) TransitionStatus(_ context.Context, id string, from, to models.NotificationStatus, tsField notificationRepo.TimestampField) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok || n.Status != from {
		return false, nil
	}
	n.Status = to
	r.stampLocked(n, tsField)
	return true, nil
}

func (r *fakeRepo) stampLocked(n *models.Notification, tsField notificationRepo.TimestampField) {
	now := time.Now().UTC()
	switch tsField {
	case notificationRepo.FieldSentAt:
		n.SentAt = &now
	case notificationRepo.FieldReadAt:
		n.ReadAt = &now
	case notificationRepo.FieldRepliedAt:
		n.RepliedAt = &now
	}
}

func (r *fakeRepo) IncrementRetry(_ context.Context, id string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok || n.Status != models.StatusPending {
		return 0, errors.New("notification not pending")
	}
	n.RetryCount++
	return n.RetryCount, nil
}

func (r *fakeRepo) ListPending(_ context.Context) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notification
	for _, id := range r.order {
		if n := r.items[id]; n.Status == models.StatusPending {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListActive(_ context.Context, filter notificationRepo.ListFilter) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notification
	for i := len(r.order) - 1; i >= 0; i-- {
		n := r.items[r.order[i]]
		if filter.Status != "" && n.Status != filter.Status {
			continue
		}
		if filter.ProjectID != "" && n.ProjectID != filter.ProjectID {
			continue
		}
		out = append(out, *n)
		if filter.Limit > 0 && int64(len(out)) >= filter.Limit {
			break
		}
	}
	return out, nil
}

func (r *fakeRepo) CountPending(_ context.Context) (int64, error) {
	pending, _ := r.ListPending(context.Background())
	return int64(len(pending)), nil
}

func (r *fakeRepo) SaveReply(_ context.Context, reply models.NotificationReply) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if reply.ID == "" {
		reply.ID = uuid.NewString()
	}
	r.replies = append(r.replies, reply)
	return reply.ID, nil
}

func (r *fakeRepo) GetRepliesByNotificationID(_ context.Context, notificationID string) ([]models.NotificationReply, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.NotificationReply
	for _, reply := range r.replies {
		if reply.NotificationID == notificationID {
			out = append(out, reply)
		}
	}
	return out, nil
}

// fakeNotifier records sends in order and can be told to fail specific ids.
type fakeNotifier struct {
	mu         sync.Mutex
	failIDs    map[string]bool
	sentOrder  []string
	nextHandle int
	replies    []models.NotificationReply
	replyErr   error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{failIDs: make(map[string]bool)}
}

func (f *fakeNotifier) Send(_ context.Context, n models.Notification) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failIDs[n.ID] {
		return "", errors.New("bot unreachable")
	}
	f.sentOrder = append(f.sentOrder, n.ID)
	f.nextHandle++
	return fmt.Sprintf("msg-%d", f.nextHandle), nil
}

func (f *fakeNotifier) SendReply(_ context.Context, reply models.NotificationReply) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.replyErr != nil {
		return f.replyErr
	}
	f.replies = append(f.replies, reply)
	return nil
}

func (f *fakeNotifier) HealthCheck(_ context.Context) bool { return true }

func newTestPipeline(repo *fakeRepo, ntf *fakeNotifier, table dispatch.CorrelationTable) *dispatch.DefaultDispatchService {
	return dispatch.NewDispatchService(repo, ntf, table, 3, time.Second, time.Millisecond)
}

func TestRunCycleSendsPendingFIFO(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	ntf := newFakeNotifier()
	table := dispatch.NewMemoryCorrelationTable(time.Hour)

	base := time.Now().UTC()
	first := repo.add(models.Notification{Kind: models.KindStatus, Title: "a", Body: "b", Priority: models.PriorityLow, CreatedAt: base})
	second := repo.add(models.Notification{Kind: models.KindAlert, Title: "a", Body: "b", Priority: models.PriorityUrgent, CreatedAt: base.Add(time.Second)})
	third := repo.add(models.Notification{Kind: models.KindError, Title: "a", Body: "b", Priority: models.PriorityHigh, CreatedAt: base.Add(2 * time.Second)})

	require.NoError(t, newTestPipeline(repo, ntf, table).RunCycle(ctx))

	// Creation order wins regardless of priority.
	assert.Equal(t, []string{first, second, third}, ntf.sentOrder)

	for _, id := range []string{first, second, third} {
		n, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, models.StatusSent, n.Status)
		assert.NotNil(t, n.SentAt)
	}

	// None of these expect a reply, so nothing was registered.
	count, err := table.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRunCycleRegistersCorrelationForQuestions(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	ntf := newFakeNotifier()
	table := dispatch.NewMemoryCorrelationTable(time.Hour)

	id := repo.add(models.Notification{Kind: models.KindQuestion, Title: "ok?", Body: "proceed?", Priority: models.PriorityHigh})

	require.NoError(t, newTestPipeline(repo, ntf, table).RunCycle(ctx))

	resolved, found, err := table.Consume(ctx, "msg-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, id, resolved)
}

func TestRunCycleRetriesThenFails(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	ntf := newFakeNotifier()
	table := dispatch.NewMemoryCorrelationTable(time.Hour)

	id := repo.add(models.Notification{Kind: models.KindAlert, Title: "a", Body: "b", Priority: models.PriorityHigh})
	ntf.failIDs[id] = true

	svc := newTestPipeline(repo, ntf, table)

	// First two failures leave the notification pending for the next cycle.
	for attempt := 1; attempt <= 2; attempt++ {
		require.NoError(t, svc.RunCycle(ctx))
		n, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, n.Status)
		assert.Equal(t, attempt, n.RetryCount)
	}

	// Third failure exhausts the retry bound.
	require.NoError(t, svc.RunCycle(ctx))
	n, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, n.Status)
	assert.Equal(t, 3, n.RetryCount)

	// A failed notification is out of the pending batch for good.
	require.NoError(t, svc.RunCycle(ctx))
	n, err = repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 3, n.RetryCount)
}

func TestRunCycleItemFailureDoesNotBlockBatch(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	ntf := newFakeNotifier()
	table := dispatch.NewMemoryCorrelationTable(time.Hour)

	bad := repo.add(models.Notification{Kind: models.KindAlert, Title: "a", Body: "b", Priority: models.PriorityHigh})
	good := repo.add(models.Notification{Kind: models.KindStatus, Title: "a", Body: "b", Priority: models.PriorityLow})
	ntf.failIDs[bad] = true

	require.NoError(t, newTestPipeline(repo, ntf, table).RunCycle(ctx))

	n, err := repo.GetByID(ctx, good)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSent, n.Status)

	n, err = repo.GetByID(ctx, bad)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, n.Status)
	assert.Equal(t, 1, n.RetryCount)
}

func TestRunCycleEmptyBatch(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestPipeline(repo, newFakeNotifier(), dispatch.NewMemoryCorrelationTable(time.Hour))
	assert.NoError(t, svc.RunCycle(context.Background()))
}

func TestRunCycleStopsOnCancelledContext(t *testing.T) {
	repo := newFakeRepo()
	ntf := newFakeNotifier()
	repo.add(models.Notification{Kind: models.KindStatus, Title: "a", Body: "b", Priority: models.PriorityLow})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := newTestPipeline(repo, ntf, dispatch.NewMemoryCorrelationTable(time.Hour))
	err := svc.RunCycle(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, ntf.sentOrder)
}
