package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/hexgolf/game/engine"
)

func createTestCourse() *engine.CourseConfig {
	return &engine.CourseConfig{
		Name:        "Test Course",
		Description: "Test course",
		Cols:        4,
		Rows:        3,
		Seed:        11,
	}
}

func TestManager_Create(t *testing.T) {
	manager := NewManager()
	course := createTestCourse()

	t.Run("create with custom ID", func(t *testing.T) {
		session, err := manager.Create("test-session", course)
		require.NoError(t, err)
		assert.Equal(t, "test-session", session.ID)
		require.NotNil(t, session.Engine)
		assert.Equal(t, "Test Course", session.Course.Name)
		assert.Equal(t, session.CreatedAt, session.LastAccessedAt)
	})

	t.Run("create with auto-generated ID", func(t *testing.T) {
		session, err := manager.Create("", course)
		require.NoError(t, err)
		assert.Len(t, session.ID, 4)
	})

	t.Run("duplicate session ID", func(t *testing.T) {
		_, err := manager.Create("test-session", course)
		assert.ErrorIs(t, err, ErrSessionAlreadyExists)
	})

	t.Run("case-insensitive duplicate check", func(t *testing.T) {
		_, err := manager.Create("TEST-SESSION", course)
		assert.ErrorIs(t, err, ErrSessionAlreadyExists)
	})

	t.Run("invalid ID", func(t *testing.T) {
		_, err := manager.Create("bad id", course)
		assert.ErrorIs(t, err, ErrInvalidSessionID)
	})

	t.Run("invalid course", func(t *testing.T) {
		invalid := createTestCourse()
		invalid.Name = ""
		_, err := manager.Create("invalid-test", invalid)
		assert.Error(t, err)
		assert.Equal(t, 2, manager.Count())
	})

	t.Run("nil course uses the built-in one", func(t *testing.T) {
		session, err := manager.Create("", nil)
		require.NoError(t, err)
		assert.Equal(t, engine.DefaultCourseConfig().Name, session.Course.Name)
	})
}

func TestManager_SameSeedSameBoard(t *testing.T) {
	manager := NewManager()
	a, err := manager.Create("", createTestCourse())
	require.NoError(t, err)
	b, err := manager.Create("", createTestCourse())
	require.NoError(t, err)

	assert.Equal(t, a.Engine.Cells(), b.Engine.Cells())
	assert.Equal(t, a.Engine.PlayerPosition(), b.Engine.PlayerPosition())

	// engines are independent after creation
	require.NoError(t, a.Engine.SelectClub(0))
	assert.Nil(t, b.Engine.Preview().Club)
}

func TestManager_Get(t *testing.T) {
	manager := NewManager()
	created, err := manager.Create("get-test", createTestCourse())
	require.NoError(t, err)

	t.Run("get existing session", func(t *testing.T) {
		got, err := manager.Get("get-test")
		require.NoError(t, err)
		assert.Same(t, created, got)
	})

	t.Run("case-insensitive get", func(t *testing.T) {
		got, err := manager.Get("GET-TEST")
		require.NoError(t, err)
		assert.Same(t, created, got)
	})

	t.Run("get non-existent session", func(t *testing.T) {
		_, err := manager.Get("nope")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})
}

func TestManager_GetOrCreate(t *testing.T) {
	manager := NewManager()
	course := createTestCourse()

	first, err := manager.GetOrCreate("goc", course)
	require.NoError(t, err)
	second, err := manager.GetOrCreate("goc", course)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, manager.Count())
}

func TestManager_Delete(t *testing.T) {
	manager := NewManager()
	_, err := manager.Create("delete-me", createTestCourse())
	require.NoError(t, err)

	require.NoError(t, manager.Delete("DELETE-ME"))
	_, err = manager.Get("delete-me")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.ErrorIs(t, manager.Delete("delete-me"), ErrSessionNotFound)
}

func TestManager_List(t *testing.T) {
	manager := NewManager()
	assert.Empty(t, manager.List())

	for i := 0; i < 3; i++ {
		_, err := manager.Create(fmt.Sprintf("list-%d", i), createTestCourse())
		require.NoError(t, err)
	}

	ids := make([]string, 0, 3)
	for _, s := range manager.List() {
		ids = append(ids, s.ID)
	}
	assert.ElementsMatch(t, []string{"list-0", "list-1", "list-2"}, ids)
}

func TestManager_CleanupExpired(t *testing.T) {
	manager := NewManager()
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	manager.now = func() time.Time { return clock }

	_, err := manager.Create("old", createTestCourse())
	require.NoError(t, err)

	clock = clock.Add(30 * time.Minute)
	_, err = manager.Create("fresh", createTestCourse())
	require.NoError(t, err)

	clock = clock.Add(45 * time.Minute)
	removed := manager.CleanupExpiredSessions(time.Hour)
	assert.Equal(t, 1, removed)

	_, err = manager.Get("old")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = manager.Get("fresh")
	assert.NoError(t, err)
}

func TestManager_UpdateLastAccessed(t *testing.T) {
	manager := NewManager()
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	manager.now = func() time.Time { return clock }

	session, err := manager.Create("touch", createTestCourse())
	require.NoError(t, err)

	clock = clock.Add(time.Minute)
	require.NoError(t, manager.UpdateLastAccessed("touch"))
	assert.Equal(t, clock, session.LastAccessedAt)
	assert.True(t, session.CreatedAt.Before(session.LastAccessedAt))

	assert.ErrorIs(t, manager.UpdateLastAccessed("missing"), ErrSessionNotFound)
}

func TestManager_RunJanitor(t *testing.T) {
	manager := NewManager()
	_, err := manager.Create("idle", createTestCourse())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		manager.RunJanitor(ctx, 5*time.Millisecond, 0)
		close(done)
	}()

	assert.Eventually(t, func() bool { return manager.Count() == 0 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager := NewManager()
	course := createTestCourse()

	var wg sync.WaitGroup
	errs := make(chan error, 40)
	for i := 0; i < 20; i++ {
		wg.Add(2)
		id := fmt.Sprintf("c-%d", i)
		go func() {
			defer wg.Done()
			if _, err := manager.GetOrCreate(id, course); err != nil {
				errs <- err
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := manager.GetOrCreate(id, course); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("unexpected error: %v", err)
	}
	assert.Equal(t, 20, manager.Count())
}

func TestManager_SessionIDGeneration(t *testing.T) {
	manager := NewManager()
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		s, err := manager.Create("", createTestCourse())
		require.NoError(t, err)
		assert.Regexp(t, `^[0-9a-f]{4}$`, s.ID)
		assert.False(t, seen[s.ID], "duplicate %s", s.ID)
		seen[s.ID] = true
	}
}
