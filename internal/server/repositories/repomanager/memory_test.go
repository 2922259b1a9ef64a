package repomanager

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryManager_SharedStores(t *testing.T) {
	var m RepositoryManager = NewMemoryRepositoryManager()
	ctx := context.Background()

	require.NoError(t, m.RunMigrations(ctx))
	assert.Nil(t, m.Conn())

	u, err := m.Users(m.Conn()).Create(ctx, &models.User{Name: "a", Email: "a@b.c"})
	require.NoError(t, err)

	err = m.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := m.Users(tx).GetByID(ctx, u.ID)
		return err
	})
	require.NoError(t, err)
	require.NoError(t, m.Close())
}

func TestMemoryManager_WithTxPropagatesError(t *testing.T) {
	m := NewMemoryRepositoryManager()

	err := m.WithTx(context.Background(), func(context.Context, dbx.DBTX) error {
		return errors.New("nope")
	})
	assert.EqualError(t, err, "nope")
}

func TestMemoryManager_WithTxSerializes(t *testing.T) {
	m := NewMemoryRepositoryManager()

	var (
		mu      sync.Mutex
		inside  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.WithTx(context.Background(), func(context.Context, dbx.DBTX) error {
				mu.Lock()
				inside++
				if inside > maxSeen {
					maxSeen = inside
				}
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				inside--
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
}
