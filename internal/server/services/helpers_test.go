package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/cache"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/tasks"
	usersrepo "github.com/dmitrijs2005/taskkeeper/internal/server/repositories/users"
	"golang.org/x/crypto/bcrypt"
)

// --- helpers ---

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                   "k",
		AccessTokenValidityDuration: time.Hour,
	}
}

func newUserService(t *testing.T, rm repomanager.RepositoryManager) *UserService {
	t.Helper()
	return NewUserService(rm, auth.NewBcryptHasher(bcrypt.MinCost), testConfig())
}

func newTaskService(t *testing.T, rm repomanager.RepositoryManager, c cache.TaskCache) *TaskService {
	t.Helper()
	return NewTaskService(rm, c, logging.Nop())
}

var errDBDown = errors.New("db down")

type fakeUsersRepo struct {
	createErr error
	getErr    error
	getOut    *models.User
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(context.Context, string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) GetByID(context.Context, string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

// failingTasksRepo fails every call with err.
type failingTasksRepo struct {
	err error
}

func (f *failingTasksRepo) Create(context.Context, *models.Task) (*models.Task, error) {
	return nil, f.err
}
func (f *failingTasksRepo) GetByID(context.Context, string, string) (*models.Task, error) {
	return nil, f.err
}
func (f *failingTasksRepo) GetForUpdate(context.Context, string, string) (*models.Task, error) {
	return nil, f.err
}
func (f *failingTasksRepo) ListByOwner(context.Context, string) ([]*models.Task, error) {
	return nil, f.err
}
func (f *failingTasksRepo) Update(context.Context, *models.Task) (*models.Task, error) {
	return nil, f.err
}
func (f *failingTasksRepo) Delete(context.Context, string, string) error { return f.err }
func (f *failingTasksRepo) Stats(context.Context, string) (*models.TaskStats, error) {
	return nil, f.err
}

type fakeRepoManager struct {
	u usersrepo.Repository
	t tasks.Repository
}

func (m *fakeRepoManager) RunMigrations(context.Context) error { return nil }
func (m *fakeRepoManager) Conn() dbx.DBTX                      { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) usersrepo.Repository { return m.u }
func (m *fakeRepoManager) Tasks(dbx.DBTX) tasks.Repository     { return m.t }
func (m *fakeRepoManager) Close() error                        { return nil }
func (m *fakeRepoManager) WithTx(ctx context.Context, fn func(context.Context, dbx.DBTX) error) error {
	return fn(ctx, nil)
}

// recordingCache wraps a real cache and counts calls.
type recordingCache struct {
	cache.TaskCache
	gets, sets, deletes int
	failWith            error
}

func (c *recordingCache) Get(ctx context.Context, owner, id string) (*models.Task, bool, error) {
	c.gets++
	if c.failWith != nil {
		return nil, false, c.failWith
	}
	return c.TaskCache.Get(ctx, owner, id)
}

func (c *recordingCache) Generation(ctx context.Context, owner, id string) (int64, error) {
	if c.failWith != nil {
		return 0, c.failWith
	}
	return c.TaskCache.Generation(ctx, owner, id)
}

func (c *recordingCache) Set(ctx context.Context, t *models.Task, gen int64) error {
	c.sets++
	if c.failWith != nil {
		return c.failWith
	}
	return c.TaskCache.Set(ctx, t, gen)
}

// pausingRepoManager blocks the next tasks GetByID after it has read the row
// until release is closed, so a test can commit a write in that window.
type pausingRepoManager struct {
	repomanager.RepositoryManager
	armed   atomic.Bool
	reached chan struct{}
	release chan struct{}
}

func newPausingRepoManager() *pausingRepoManager {
	return &pausingRepoManager{
		RepositoryManager: repomanager.NewMemoryRepositoryManager(),
		reached:           make(chan struct{}),
		release:           make(chan struct{}),
	}
}

func (m *pausingRepoManager) Tasks(db dbx.DBTX) tasks.Repository {
	return &pausingTasksRepo{Repository: m.RepositoryManager.Tasks(db), m: m}
}

type pausingTasksRepo struct {
	tasks.Repository
	m *pausingRepoManager
}

func (r *pausingTasksRepo) GetByID(ctx context.Context, ownerID, id string) (*models.Task, error) {
	task, err := r.Repository.GetByID(ctx, ownerID, id)
	if r.m.armed.CompareAndSwap(true, false) {
		close(r.m.reached)
		<-r.m.release
	}
	return task, err
}

func (c *recordingCache) Delete(ctx context.Context, owner, id string) error {
	c.deletes++
	if c.failWith != nil {
		return c.failWith
	}
	return c.TaskCache.Delete(ctx, owner, id)
}
