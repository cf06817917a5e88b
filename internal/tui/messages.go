package tui

import (
	"github.com/ledgerview/ledgerview/internal/model"
	"github.com/ledgerview/ledgerview/internal/viewmodel"
)

// refreshedMsg carries the view state after a refresh cycle resolves.
type refreshedMsg struct {
	err   error
	state viewmodel.ViewState
}

// supersededMsg marks a refresh whose result was discarded in favor of a
// newer one. The model ignores it.
type supersededMsg struct{}

// syncedMsg carries the outcome of a sync-then-reload sequence.
type syncedMsg struct {
	err    error
	result model.SyncResult
	state  viewmodel.ViewState
}
