package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfinder-ai/wayfinder/pkg/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestGetOrCreateUserDefaults(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	user, err := st.GetOrCreateUser(ctx, "u1")
	require.NoError(t, err)

	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, model.TierFree, user.SubscriptionType)
	assert.Equal(t, 0, user.DailyRequests)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestUserRoundtrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	user, err := st.GetOrCreateUser(ctx, "u1")
	require.NoError(t, err)

	user.SubscriptionType = model.TierPremium
	user.DailyRequests = 7
	user.LastRequestDate = "2025-06-01"
	user.TotalRequests = 42
	require.NoError(t, st.SaveUser(ctx, user))

	loaded, err := st.GetOrCreateUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, model.TierPremium, loaded.SubscriptionType)
	assert.Equal(t, 7, loaded.DailyRequests)
	assert.Equal(t, "2025-06-01", loaded.LastRequestDate)
	assert.Equal(t, 42, loaded.TotalRequests)
}

func TestSessionRoundtrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	session, err := st.GetOrCreateSession(ctx, "s1")
	require.NoError(t, err)
	assert.JSONEq(t, "{}", string(session.Facts))
	assert.Empty(t, session.History)

	session.Facts = []byte(`{"mood":"happy","energy":"high"}`)
	session.History.Append(model.RoleUser, "привет")
	session.History.Append(model.RoleAssistant, "здравствуйте")
	require.NoError(t, st.SaveSession(ctx, session))

	loaded, err := st.GetOrCreateSession(ctx, "s1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"mood":"happy","energy":"high"}`, string(loaded.Facts))
	require.Len(t, loaded.History, 2)
	assert.Equal(t, "привет", loaded.History[0].Content)
	assert.Equal(t, model.RoleAssistant, loaded.History[1].Role)
}

func TestCorruptHistoryDropped(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	_, err := st.GetOrCreateSession(ctx, "s1")
	require.NoError(t, err)

	_, err = st.db.ExecContext(ctx, `UPDATE sessions SET history = 'not-json' WHERE key = 's1'`)
	require.NoError(t, err)

	session, err := st.GetOrCreateSession(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, session.History)
}

func TestUsersAreIsolated(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	a, err := st.GetOrCreateUser(ctx, "a")
	require.NoError(t, err)
	a.DailyRequests = 9
	require.NoError(t, st.SaveUser(ctx, a))

	b, err := st.GetOrCreateUser(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 0, b.DailyRequests)
}
