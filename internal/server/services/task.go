package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/cache"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// TaskService implements the task lifecycle for an authenticated user.
// Every method is scoped to userID; a task owned by someone else is reported
// as common.ErrorNotFound.
type TaskService struct {
	repomanager repomanager.RepositoryManager
	cache       cache.TaskCache
	log         logging.Logger
}

func NewTaskService(m repomanager.RepositoryManager, c cache.TaskCache, log logging.Logger) *TaskService {
	if c == nil {
		c = cache.NopCache{}
	}
	return &TaskService{repomanager: m, cache: c, log: log.With("module", "tasks")}
}

func (s *TaskService) Create(ctx context.Context, userID string, in models.NewTask) (*models.Task, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	task, err := s.repomanager.Tasks(s.repomanager.Conn()).Create(ctx, in.Task(userID))
	if err != nil {
		return nil, fmt.Errorf("error creating task: %w", err)
	}
	return task, nil
}

// List returns the user's tasks, newest first. Never nil.
func (s *TaskService) List(ctx context.Context, userID string) ([]*models.Task, error) {
	tasks, err := s.repomanager.Tasks(s.repomanager.Conn()).ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing tasks: %w", err)
	}
	if tasks == nil {
		tasks = []*models.Task{}
	}
	return tasks, nil
}

func (s *TaskService) Get(ctx context.Context, userID, taskID string) (*models.Task, error) {
	if !validID(taskID) {
		return nil, common.ErrorNotFound
	}

	cached, ok, err := s.cache.Get(ctx, userID, taskID)
	if err != nil {
		s.log.Warn(ctx, "task cache read failed", "task_id", taskID, "error", err)
	}
	if ok {
		return cached, nil
	}

	// The generation must be read before the store so that an Update or
	// Delete committing in between makes the Set below a no-op.
	gen, genErr := s.cache.Generation(ctx, userID, taskID)
	if genErr != nil {
		s.log.Warn(ctx, "task cache read failed", "task_id", taskID, "error", genErr)
	}

	task, err := s.repomanager.Tasks(s.repomanager.Conn()).GetByID(ctx, userID, taskID)
	if err != nil {
		return nil, wrapNotFound(err, "error loading task")
	}

	if genErr == nil {
		if err := s.cache.Set(ctx, task, gen); err != nil {
			s.log.Warn(ctx, "task cache write failed", "task_id", taskID, "error", err)
		}
	}
	return task, nil
}

// Update merges patch into the task under a row lock and returns the result.
func (s *TaskService) Update(ctx context.Context, userID, taskID string, patch models.TaskPatch) (*models.Task, error) {
	if !validID(taskID) {
		return nil, common.ErrorNotFound
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	var updated *models.Task
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Tasks(tx)

		task, err := repo.GetForUpdate(ctx, userID, taskID)
		if err != nil {
			return err
		}

		patch.Apply(task)

		updated, err = repo.Update(ctx, task)
		return err
	})
	if err != nil {
		return nil, wrapNotFound(err, "error updating task")
	}

	s.invalidate(ctx, userID, taskID)
	return updated, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, taskID string) error {
	if !validID(taskID) {
		return common.ErrorNotFound
	}

	if err := s.repomanager.Tasks(s.repomanager.Conn()).Delete(ctx, userID, taskID); err != nil {
		return wrapNotFound(err, "error deleting task")
	}

	s.invalidate(ctx, userID, taskID)
	return nil
}

func (s *TaskService) Stats(ctx context.Context, userID string) (*models.TaskStats, error) {
	stats, err := s.repomanager.Tasks(s.repomanager.Conn()).Stats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error computing stats: %w", err)
	}
	return stats, nil
}

func (s *TaskService) invalidate(ctx context.Context, userID, taskID string) {
	if err := s.cache.Delete(ctx, userID, taskID); err != nil {
		s.log.Warn(ctx, "task cache invalidation failed", "task_id", taskID, "error", err)
	}
}

// validID filters out ids that cannot name a stored task; Postgres would
// otherwise reject them with a type error instead of finding nothing.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func wrapNotFound(err error, msg string) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}
