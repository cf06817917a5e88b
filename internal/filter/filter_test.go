package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerview/ledgerview/internal/common"
	"github.com/ledgerview/ledgerview/internal/model"
)

// fixedClock pins preset resolution to 2024-06-15.
func fixedClock() time.Time {
	return time.Date(2024, time.June, 15, 14, 30, 0, 0, time.UTC)
}

func TestEngine_Apply_Presets(t *testing.T) {
	engine := New(WithClock(fixedClock))

	tests := []struct {
		name      string
		preset    Preset
		wantStart string
		wantEnd   string
	}{
		// Today counts as one of the N days, so 7d spans six days back.
		{name: "last 7 days", preset: PresetLast7Days, wantStart: "2024-06-09", wantEnd: "2024-06-15"},
		{name: "last 30 days", preset: PresetLast30Days, wantStart: "2024-05-17", wantEnd: "2024-06-15"},
		{name: "last 90 days", preset: PresetLast3Months, wantStart: "2024-03-18", wantEnd: "2024-06-15"},
		{name: "empty preset defaults to 30 days", preset: "", wantStart: "2024-05-17", wantEnd: "2024-06-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := engine.Apply(Criteria{Preset: tt.preset})
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, query.StartDate.String())
			assert.Equal(t, tt.wantEnd, query.EndDate.String())
		})
	}
}

func TestEngine_Apply_CustomDates(t *testing.T) {
	engine := New(WithClock(fixedClock))

	t.Run("explicit bounds pass through", func(t *testing.T) {
		start := model.NewDate(2024, time.January, 1)
		end := model.NewDate(2024, time.March, 31)

		query, err := engine.Apply(Criteria{}.WithStartDate(start).WithEndDate(end))
		require.NoError(t, err)
		assert.Equal(t, start, query.StartDate)
		assert.Equal(t, end, query.EndDate)
	})

	t.Run("explicit date overrides an active preset", func(t *testing.T) {
		// A preset left in the criteria must not recompute over an
		// explicitly chosen bound.
		c := Criteria{Preset: PresetLast7Days, StartDate: model.NewDate(2024, time.January, 1)}

		query, err := engine.Apply(c)
		require.NoError(t, err)
		assert.Equal(t, "2024-01-01", query.StartDate.String())
		assert.True(t, query.EndDate.IsZero(), "open-ended range keeps its missing bound")
	})

	t.Run("start after end is rejected", func(t *testing.T) {
		c := Criteria{}.
			WithStartDate(model.NewDate(2024, time.June, 15)).
			WithEndDate(model.NewDate(2024, time.June, 1))

		_, err := engine.Apply(c)
		assert.ErrorIs(t, err, common.ErrInvalidDateRange)
	})

	t.Run("single-day range is valid", func(t *testing.T) {
		day := model.NewDate(2024, time.June, 10)
		query, err := engine.Apply(Criteria{}.WithStartDate(day).WithEndDate(day))
		require.NoError(t, err)
		assert.Equal(t, query.StartDate, query.EndDate)
	})

	t.Run("unknown preset is rejected", func(t *testing.T) {
		_, err := engine.Apply(Criteria{Preset: "365d"})
		assert.Error(t, err)
	})
}

func TestCriteria_Transitions(t *testing.T) {
	t.Run("explicit date demotes preset to custom", func(t *testing.T) {
		c := Criteria{Preset: PresetLast30Days}.WithStartDate(model.NewDate(2024, time.May, 1))
		assert.Equal(t, PresetCustom, c.Preset)

		c = Criteria{Preset: PresetLast7Days}.WithEndDate(model.NewDate(2024, time.May, 31))
		assert.Equal(t, PresetCustom, c.Preset)
	})

	t.Run("selecting a preset clears custom bounds", func(t *testing.T) {
		c := Criteria{}.
			WithStartDate(model.NewDate(2024, time.May, 1)).
			WithEndDate(model.NewDate(2024, time.May, 31)).
			WithPreset(PresetLast7Days)

		assert.Equal(t, PresetLast7Days, c.Preset)
		assert.True(t, c.StartDate.IsZero())
		assert.True(t, c.EndDate.IsZero())
	})
}

func TestEngine_Apply_PassthroughFields(t *testing.T) {
	engine := New(WithClock(fixedClock))

	query, err := engine.Apply(Criteria{
		Preset:    PresetLast7Days,
		AccountID: 3,
		Category:  "  Groceries  ",
		Search:    " coffee ",
		Skip:      40,
		Limit:     20,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, query.AccountID)
	assert.Equal(t, "Groceries", query.Category, "category is trimmed")
	assert.Equal(t, "coffee", query.Search, "search is trimmed")
	assert.Equal(t, 40, query.Skip)
	assert.Equal(t, 20, query.Limit)
}
