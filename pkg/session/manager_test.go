package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/parley/internal/runtime"
	redisAdapter "github.com/aretw0/parley/pkg/adapters/redis"
	"github.com/aretw0/parley/pkg/adapters/memory"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/dsl"
	"github.com/aretw0/parley/pkg/session"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loop keeps the session on one node: a -> b -> a ...
func newSession(t *testing.T) *runtime.Context {
	t.Helper()
	b := dsl.New("loop").Participant(domain.ParticipantData{Name: "Alice"}).Entry("a")
	b.Add("a").Owner("Alice").Text("A").Go("b")
	b.Add("b").Owner("Alice").Text("B").Go("a")
	d, err := b.Build()
	require.NoError(t, err)

	c := runtime.NewContext(runtime.Env{}, d, map[string]domain.Participant{"Alice": memory.NewParticipant("Alice")})
	require.True(t, c.Start(context.Background()))
	return c
}

func TestManager_AddGetDelete(t *testing.T) {
	ctx := context.Background()
	m := session.NewManager()

	id := m.Add(newSession(t))
	c, err := m.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "A", c.ActiveNodeText(ctx))
	assert.Equal(t, []string{id}, m.List())

	require.NoError(t, m.Delete(ctx, id))
	_, err = m.Get(id)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.NoError(t, m.Delete(ctx, id), "deleting twice is fine")
}

func TestManager_WithSessionSerializes(t *testing.T) {
	ctx := context.Background()
	m := session.NewManager()
	id := m.Add(newSession(t))

	var wg sync.WaitGroup
	const moves = 20
	for i := 0; i < moves; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := m.WithSession(ctx, id, func(ctx context.Context, c *runtime.Context) error {
				if !c.ChooseOption(ctx, 0) {
					return errors.New("choose failed")
				}
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	c, err := m.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "A", c.ActiveNodeText(ctx), "an even number of moves returns to a")
}

func TestManager_WithSessionMissing(t *testing.T) {
	err := session.NewManager().WithSession(context.Background(), "nope", func(context.Context, *runtime.Context) error {
		t.Fatal("must not be called")
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManager_DistributedLock(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	locker := redisAdapter.NewLocker(client, "parley:")
	m := session.NewManager(session.WithLocker(locker), session.WithLockTTL(5*time.Second))
	ctx := context.Background()
	id := m.Add(newSession(t))

	err = m.WithSession(ctx, id, func(ctx context.Context, c *runtime.Context) error {
		assert.True(t, mr.Exists("parley:lock:session:"+id), "the distributed lock is held while fn runs")
		return nil
	})
	require.NoError(t, err)
	assert.False(t, mr.Exists("parley:lock:session:"+id))
}
