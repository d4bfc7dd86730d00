package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"chatrelay/internal/model"
)

func TestGroupStoreCreate(t *testing.T) {
	req := require.New(t)

	store, err := NewGroupStore(testConfig(t))
	req.NoError(err)

	t.Run("trims the name", func(t *testing.T) {
		group, err := store.Create("  lobby  ")
		req.NoError(err)
		req.Equal("lobby", group.Name)
		req.NotEmpty(group.ID)
		req.False(group.CreatedAt.IsZero())
	})

	t.Run("rejects empty names", func(t *testing.T) {
		_, err := store.Create("")
		req.ErrorIs(err, model.ErrorEmptyGroupName)

		_, err = store.Create("   ")
		req.ErrorIs(err, model.ErrorEmptyGroupName)

		req.Len(store.List(), 1)
	})
}

func TestGroupStoreSurvivesRestart(t *testing.T) {
	req := require.New(t)
	config := testConfig(t)

	store, err := NewGroupStore(config)
	req.NoError(err)

	created, err := store.Create("lobby")
	req.NoError(err)

	reopened, err := NewGroupStore(config)
	req.NoError(err)

	groups := reopened.List()
	req.Len(groups, 1)
	req.Equal(created.ID, groups[0].ID)
	req.Equal("lobby", groups[0].Name)
}
