// Package filter translates user-selected criteria into concrete gateway
// queries. It shapes and validates the query object only; matching happens
// server-side once the query is issued.
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/ledgerview/ledgerview/internal/common"
	"github.com/ledgerview/ledgerview/internal/gateway"
	"github.com/ledgerview/ledgerview/internal/model"
)

// Preset is a named relative date-range shortcut.
type Preset string

// Supported presets.
const (
	PresetLast7Days   Preset = "7d"
	PresetLast30Days  Preset = "30d"
	PresetLast3Months Preset = "90d"
	PresetCustom      Preset = "custom"
)

// days returns the inclusive day span of a relative preset.
func (p Preset) days() (int, bool) {
	switch p {
	case PresetLast7Days:
		return 7, true
	case PresetLast30Days:
		return 30, true
	case PresetLast3Months:
		return 90, true
	}
	return 0, false
}

// Validate checks that the preset is one of the supported shortcuts.
func (p Preset) Validate() error {
	if _, ok := p.days(); ok || p == PresetCustom || p == "" {
		return nil
	}
	return fmt.Errorf("invalid preset: %q", p)
}

// Criteria is the user-selected filter state. Date bounds are inclusive
// calendar days.
type Criteria struct {
	Preset    Preset
	StartDate model.Date
	EndDate   model.Date
	AccountID int
	Category  string
	Search    string
	Skip      int
	Limit     int
}

// WithStartDate returns criteria with an explicit start date. Choosing an
// explicit date is a stronger signal than a relative preset, so the active
// preset switches to custom.
func (c Criteria) WithStartDate(d model.Date) Criteria {
	c.StartDate = d
	c.Preset = PresetCustom
	return c
}

// WithEndDate returns criteria with an explicit end date, switching the
// active preset to custom.
func (c Criteria) WithEndDate(d model.Date) Criteria {
	c.EndDate = d
	c.Preset = PresetCustom
	return c
}

// WithPreset returns criteria using a relative preset, clearing any explicit
// custom bounds so the preset's own recomputation takes over.
func (c Criteria) WithPreset(p Preset) Criteria {
	c.Preset = p
	if p != PresetCustom {
		c.StartDate = model.Date{}
		c.EndDate = model.Date{}
	}
	return c
}

// Engine converts criteria into gateway queries, anchoring relative presets
// to the current date.
type Engine struct {
	now func() time.Time
}

// Option configures the engine.
type Option func(*Engine)

// WithClock overrides the reference clock. Tests use this to pin preset
// resolution to a fixed date.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// New creates a filter engine.
func New(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply resolves criteria into a concrete transaction query. Relative
// presets become inclusive start/end bounds anchored to today; an invalid
// custom range is rejected before any request is issued.
func (e *Engine) Apply(c Criteria) (gateway.TransactionQuery, error) {
	if err := c.Preset.Validate(); err != nil {
		return gateway.TransactionQuery{}, err
	}

	preset := c.Preset
	if preset == "" {
		preset = PresetLast30Days
	}
	// An explicit date always wins over the preset's recomputation.
	if !c.StartDate.IsZero() || !c.EndDate.IsZero() {
		preset = PresetCustom
	}

	start, end := c.StartDate, c.EndDate
	if days, ok := preset.days(); ok {
		today := model.DateOf(e.now())
		start = today.AddDays(-(days - 1))
		end = today
	}

	if !start.IsZero() && !end.IsZero() && start.After(end.Time) {
		return gateway.TransactionQuery{}, fmt.Errorf(
			"%w: start %s is after end %s", common.ErrInvalidDateRange, start, end)
	}

	return gateway.TransactionQuery{
		StartDate: start,
		EndDate:   end,
		AccountID: c.AccountID,
		Category:  strings.TrimSpace(c.Category),
		Search:    strings.TrimSpace(c.Search),
		Skip:      c.Skip,
		Limit:     c.Limit,
	}, nil
}
