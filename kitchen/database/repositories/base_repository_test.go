package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResult struct {
	rows int64
	err  error
}

func (f fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (f fakeResult) RowsAffected() (int64, error) { return f.rows, f.err }

func TestLikePattern(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"soup", "%soup%"},
		{"  soup ", "%soup%"},
		{"100%", `%100\%%`},
		{"a_b", `%a\_b%`},
		{`back\slash`, `%back\\slash%`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, likePattern(tt.in))
		})
	}
}

func TestListFilterHasQuery(t *testing.T) {
	assert.False(t, ListFilter{}.HasQuery())
	assert.False(t, ListFilter{Query: "   "}.HasQuery())
	assert.True(t, ListFilter{Query: "cook"}.HasQuery())
}

func TestHandleErrorWithID(t *testing.T) {
	br := &BaseRepository{}

	require.NoError(t, br.HandleErrorWithID("get", "cook", 1, nil))

	err := br.HandleErrorWithID("get", "cook", 7, fmt.Errorf("scan: %w", sql.ErrNoRows))
	assert.True(t, IsNotFound(err))
	assert.EqualError(t, err, "cook with ID 7 not found")

	boom := errors.New("connection reset")
	err = br.HandleErrorWithID("list", "dish", nil, boom)
	assert.True(t, IsRepositoryError(err))
	assert.ErrorIs(t, err, boom)
	assert.False(t, IsNotFound(err))
}

func TestHandleWriteErrorWithoutDriverError(t *testing.T) {
	br := &BaseRepository{}

	err := br.HandleWriteError("create", "dish type", "name", "Soup", errors.New("timeout"))
	assert.False(t, IsConflict(err))
	assert.True(t, IsRepositoryError(err))
	assert.False(t, IsInvalidReference(err))

	code, constraint := pgErrorFields(fmt.Errorf("wrapped: %w", errors.New("plain")))
	assert.Empty(t, code)
	assert.Empty(t, constraint)
}

func TestReferenceErrorMessage(t *testing.T) {
	err := fmt.Errorf("save: %w", &ReferenceError{Entity: "dish", Constraint: "dish_cooks_cook_id_fkey"})
	assert.True(t, IsInvalidReference(err))
	assert.False(t, IsConflict(err))
	assert.EqualError(t, err, "save: dish references a missing row (dish_cooks_cook_id_fkey)")
}

func TestConflictErrorMessage(t *testing.T) {
	err := fmt.Errorf("save: %w", &ConflictError{Entity: "cook", Field: "username", Value: "chef"})
	assert.True(t, IsConflict(err))
	assert.Contains(t, err.Error(), "cook with username chef already exists")
}

func TestRequireAffected(t *testing.T) {
	br := &BaseRepository{}

	assert.NoError(t, br.requireAffected("dish", 3, fakeResult{rows: 1}))
	assert.True(t, IsNotFound(br.requireAffected("dish", 3, fakeResult{rows: 0})))
	assert.True(t, IsRepositoryError(br.requireAffected("dish", 3, fakeResult{err: errors.New("driver")})))
}

func TestUniqueIDs(t *testing.T) {
	assert.Equal(t, []int64{3, 1, 2}, uniqueIDs([]int64{3, 1, 3, 2, 1}))
	assert.Empty(t, uniqueIDs(nil))
}
