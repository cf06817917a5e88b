package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerview/ledgerview/internal/filter"
)

func newFlagCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	addFilterFlags(cmd)
	return cmd
}

func TestCriteriaFromFlags(t *testing.T) {
	t.Run("preset only", func(t *testing.T) {
		cmd := newFlagCmd()
		require.NoError(t, cmd.ParseFlags([]string{"--preset", "7d"}))

		criteria, err := criteriaFromFlags(cmd)
		require.NoError(t, err)
		assert.Equal(t, filter.PresetLast7Days, criteria.Preset)
		assert.True(t, criteria.StartDate.IsZero())
	})

	t.Run("explicit dates demote preset to custom", func(t *testing.T) {
		cmd := newFlagCmd()
		require.NoError(t, cmd.ParseFlags([]string{
			"--preset", "30d",
			"--start", "2024-05-01",
			"--end", "2024-05-31",
		}))

		criteria, err := criteriaFromFlags(cmd)
		require.NoError(t, err)
		assert.Equal(t, filter.PresetCustom, criteria.Preset)
		assert.Equal(t, "2024-05-01", criteria.StartDate.String())
		assert.Equal(t, "2024-05-31", criteria.EndDate.String())
	})

	t.Run("invalid date is rejected", func(t *testing.T) {
		cmd := newFlagCmd()
		require.NoError(t, cmd.ParseFlags([]string{"--start", "05/01/2024"}))

		_, err := criteriaFromFlags(cmd)
		assert.ErrorContains(t, err, "invalid --start")
	})

	t.Run("passthrough fields", func(t *testing.T) {
		cmd := newFlagCmd()
		require.NoError(t, cmd.ParseFlags([]string{
			"--account", "3",
			"--category", "Groceries",
			"--search", "coffee",
			"--limit", "25",
			"--skip", "50",
		}))

		criteria, err := criteriaFromFlags(cmd)
		require.NoError(t, err)
		assert.Equal(t, 3, criteria.AccountID)
		assert.Equal(t, "Groceries", criteria.Category)
		assert.Equal(t, "coffee", criteria.Search)
		assert.Equal(t, 25, criteria.Limit)
		assert.Equal(t, 50, criteria.Skip)
	})
}
