// Package tasks stores tasks. Every lookup is scoped to the owning user, so a
// task belonging to someone else is indistinguishable from a missing one.
package tasks

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

type Repository interface {
	// Create inserts task, assigning a new id when it has none, and fills
	// CreatedAt and UpdatedAt.
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	// GetByID returns common.ErrorNotFound unless the task exists and
	// belongs to ownerID.
	GetByID(ctx context.Context, ownerID, id string) (*models.Task, error)
	// GetForUpdate is GetByID that also locks the row until the surrounding
	// transaction ends.
	GetForUpdate(ctx context.Context, ownerID, id string) (*models.Task, error)
	// ListByOwner returns the owner's tasks, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Task, error)
	// Update writes every mutable field of task back and refreshes UpdatedAt.
	// common.ErrorNotFound means the row vanished or changed owner.
	Update(ctx context.Context, task *models.Task) (*models.Task, error)
	Delete(ctx context.Context, ownerID, id string) error
	Stats(ctx context.Context, ownerID string) (*models.TaskStats, error)
}
