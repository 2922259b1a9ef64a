package tasks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/google/uuid"
)

type memoryRecord struct {
	task models.Task
	seq  uint64
}

// MemoryStore keeps tasks in process memory. Records are copied on the way in
// and out; concurrent writers to the same task follow last-write-wins.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]memoryRecord
	seq   uint64
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]memoryRecord),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) Create(_ context.Context, task *models.Task) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if _, ok := s.items[task.ID]; ok {
		return nil, common.ErrorAlreadyExists
	}

	now := s.now()
	task.CreatedAt = now
	task.UpdatedAt = now

	s.seq++
	s.items[task.ID] = memoryRecord{task: cloneTask(task), seq: s.seq}

	return task, nil
}

func (s *MemoryStore) GetByID(_ context.Context, ownerID, id string) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.items[id]
	if !ok || rec.task.UserID != ownerID {
		return nil, common.ErrorNotFound
	}
	t := cloneTask(&rec.task)
	return &t, nil
}

// GetForUpdate is GetByID; callers serialize through the manager's WithTx.
func (s *MemoryStore) GetForUpdate(ctx context.Context, ownerID, id string) (*models.Task, error) {
	return s.GetByID(ctx, ownerID, id)
}

func (s *MemoryStore) ListByOwner(_ context.Context, ownerID string) ([]*models.Task, error) {
	s.mu.RLock()
	recs := make([]memoryRecord, 0)
	for _, rec := range s.items {
		if rec.task.UserID == ownerID {
			recs = append(recs, rec)
		}
	}
	s.mu.RUnlock()

	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].task.CreatedAt.Equal(recs[j].task.CreatedAt) {
			return recs[i].task.CreatedAt.After(recs[j].task.CreatedAt)
		}
		return recs[i].seq > recs[j].seq
	})

	result := make([]*models.Task, 0, len(recs))
	for i := range recs {
		t := cloneTask(&recs[i].task)
		result = append(result, &t)
	}
	return result, nil
}

func (s *MemoryStore) Update(_ context.Context, task *models.Task) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.items[task.ID]
	if !ok || rec.task.UserID != task.UserID {
		return nil, common.ErrorNotFound
	}

	task.CreatedAt = rec.task.CreatedAt
	task.UpdatedAt = s.now()
	rec.task = cloneTask(task)
	s.items[task.ID] = rec

	return task, nil
}

func (s *MemoryStore) Delete(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.items[id]
	if !ok || rec.task.UserID != ownerID {
		return common.ErrorNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *MemoryStore) Stats(_ context.Context, ownerID string) (*models.TaskStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := &models.TaskStats{}
	for _, rec := range s.items {
		t := rec.task
		if t.UserID != ownerID {
			continue
		}
		st.Total++
		switch t.Status {
		case models.StatusCompleted:
			st.Completed++
		case models.StatusPending:
			st.Pending++
		case models.StatusInProgress:
			st.InProgress++
		}
		if t.Priority == models.PriorityHigh {
			st.HighPriority++
		}
	}
	return st, nil
}

func cloneTask(t *models.Task) models.Task {
	c := *t
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	return c
}
