package history

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore_BadTimestamp(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	_, err = s.db.Exec(`
		INSERT INTO rounds (session_id, round, player, computer, outcome, played_at)
		VALUES ('s1', 1, 'rock', 'paper', 'computer_win', 'yesterday')
	`)
	require.NoError(t, err)

	records, err := s.List(ctx, "s1")
	assert.Nil(t, records)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse played_at")
}
