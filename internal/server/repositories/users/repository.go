// Package users stores registered accounts.
package users

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

// Repository persists users. E-mail lookups are case-insensitive; emails are
// stored lower-cased. Create returns common.ErrorAlreadyExists for a taken
// e-mail and the Get methods return common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// NormalizeEmail is the form under which e-mails are stored and looked up.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
