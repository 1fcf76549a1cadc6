package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tally/pkg/types"
)

func open(t *testing.T, dir string) *Store {
	t.Helper()
	st, err := Open(filepath.Join(dir, "tally.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestRoundTripAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	st, err := Open(filepath.Join(dir, "tally.db"))
	require.NoError(t, err)

	row := types.Row{
		"id":       "pay-1",
		"payer_id": "p-1",
		"group_id": "g-1",
		"amount":   "30",
		"paid_for": "p-1;p-2",
	}
	require.NoError(t, st.Store(types.KindPayment, row))
	require.NoError(t, st.Close())

	reopened := open(t, dir)
	got, err := reopened.RetrieveByID(types.KindPayment, "pay-1")
	require.NoError(t, err)
	assert.Equal(t, row, got)
}

func TestUpdateIsSingleRow(t *testing.T) {
	st := open(t, t.TempDir())

	require.NoError(t, st.Store(types.KindPerson, types.Row{"id": "p-1", "name": "ada"}))
	require.NoError(t, st.Store(types.KindPerson, types.Row{"id": "p-2", "name": "grace"}))

	require.NoError(t, st.Update(types.KindPerson, "p-1", types.Row{"id": "p-1", "name": "lovelace"}))

	got, err := st.RetrieveByID(types.KindPerson, "p-1")
	require.NoError(t, err)
	assert.Equal(t, "lovelace", got["name"])

	other, err := st.RetrieveByID(types.KindPerson, "p-2")
	require.NoError(t, err)
	assert.Equal(t, "grace", other["name"])

	err = st.Update(types.KindPerson, "ghost", types.Row{"id": "ghost"})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestStoreDuplicateID(t *testing.T) {
	st := open(t, t.TempDir())
	require.NoError(t, st.Store(types.KindGroup, types.Row{"id": "g-1", "name": "trip"}))
	err := st.Store(types.KindGroup, types.Row{"id": "g-1", "name": "flat"})
	assert.ErrorIs(t, err, types.ErrDuplicate)
}

func TestRemoveByIDIsIdempotent(t *testing.T) {
	st := open(t, t.TempDir())
	require.NoError(t, st.Store(types.KindPerson, types.Row{"id": "p-1", "name": "ada"}))

	require.NoError(t, st.RemoveByID(types.KindPerson, "p-1"))
	require.NoError(t, st.RemoveByID(types.KindPerson, "p-1"))

	_, err := st.RetrieveByID(types.KindPerson, "p-1")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestListAllKeepsInsertionOrder(t *testing.T) {
	st := open(t, t.TempDir())
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, st.Store(types.KindPerson, types.Row{"id": id}))
	}

	rows, err := st.ListAll(types.KindPerson)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "c", rows[0]["id"])
	assert.Equal(t, "a", rows[1]["id"])
	assert.Equal(t, "b", rows[2]["id"])
}

func TestIsType(t *testing.T) {
	st := open(t, t.TempDir())
	require.NoError(t, st.Store(types.KindGroup, types.Row{"id": "g-1", "name": "trip"}))

	ok, err := st.IsType(types.KindGroup, "g-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = st.IsType(types.KindPayment, "g-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUnknownKind(t *testing.T) {
	st := open(t, t.TempDir())
	_, err := st.ListAll(types.Kind("planet"))
	assert.ErrorIs(t, err, types.ErrUnknownKind)
}
