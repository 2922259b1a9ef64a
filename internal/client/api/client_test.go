package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskkeeper/internal/server/rest"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type tokenBox struct{ token string }

func (b *tokenBox) Token() string { return b.token }

func newAPI(t *testing.T) (*Client, *tokenBox) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rm := repomanager.NewMemoryRepositoryManager()
	cfg := &config.Config{SecretKey: "test-secret", AccessTokenValidityDuration: time.Hour}
	us := services.NewUserService(rm, auth.NewBcryptHasher(bcrypt.MinCost), cfg)
	ts := services.NewTaskService(rm, nil, logging.Nop())
	srv := rest.NewHTTPServer(":0", logging.Nop(), us, ts, rest.Options{RequestTimeout: 5 * time.Second, AllowedOrigins: "*"})

	hs := httptest.NewServer(srv.Handler())
	t.Cleanup(hs.Close)

	box := &tokenBox{}
	c, err := NewClient(hs.URL+"/api/", box, 5*time.Second)
	require.NoError(t, err)
	return c, box
}

func ptr(s string) *string { return &s }

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := NewClient("not a url", nil, time.Second)
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestClient_Scenario(t *testing.T) {
	ctx := context.Background()
	c, box := newAPI(t)

	user, token, err := c.Register(ctx, "Alice", "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)
	require.NotEmpty(t, token)

	_, err = c.ListTasks(ctx)
	assert.ErrorIs(t, err, common.ErrorUnauthorized, "no token attached yet")

	box.token = token

	profile, err := c.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.ID, profile.ID)

	created, err := c.CreateTask(ctx, models.TaskInput{Title: ptr("Write report"), DueDate: ptr("2030-01-15")})
	require.NoError(t, err)
	assert.Equal(t, models.PriorityMedium, created.Priority)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.Equal(t, "2030-01-15", created.DueDate)

	got, err := c.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)

	updated, err := c.UpdateTask(ctx, created.ID, models.TaskInput{Status: ptr(models.StatusCompleted)})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)
	assert.Equal(t, "Write report", updated.Title)

	list, err := c.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Total)
	assert.Equal(t, int64(1), stats.Completed)

	require.NoError(t, c.DeleteTask(ctx, created.ID))
	err = c.DeleteTask(ctx, created.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Task not found", apiErr.Message)

	list, err = c.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NotNil(t, list)
}

func TestClient_ErrorMapping(t *testing.T) {
	ctx := context.Background()
	c, box := newAPI(t)

	_, token, err := c.Register(ctx, "Bob", "bob@example.com", "secret1")
	require.NoError(t, err)

	_, _, err = c.Register(ctx, "Bob", "bob@example.com", "secret1")
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	_, _, err = c.Login(ctx, "bob@example.com", "wrong")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	box.token = token
	_, err = c.CreateTask(ctx, models.TaskInput{Title: ptr("  ")})
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = c.CreateTask(ctx, models.TaskInput{Title: ptr("x"), Priority: ptr("Urgent")})
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = c.GetTask(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestClient_ServerErrorAndUnavailable(t *testing.T) {
	ctx := context.Background()

	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"internal error"}`))
	}))
	c, err := NewClient(hs.URL, nil, time.Second)
	require.NoError(t, err)

	_, err = c.Stats(ctx)
	assert.ErrorIs(t, err, common.ErrorInternal)
	assert.Contains(t, err.Error(), "internal error")

	hs.Close()
	_, err = c.Stats(ctx)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_NonJSONBody(t *testing.T) {
	hs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>proxy</html>`))
	}))
	t.Cleanup(hs.Close)

	c, err := NewClient(hs.URL, nil, time.Second)
	require.NoError(t, err)

	_, err = c.Profile(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}
