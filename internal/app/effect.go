package app

import "github.com/user/privai/internal/types"

// Effect is a persistence side effect the reducer requests. The reducer
// itself never touches the store; the driver in App executes these after
// the state transition commits.
type Effect interface {
	isEffect()
}

// saveSettingEffect writes one settings key immediately.
type saveSettingEffect struct {
	key   string
	value any
}

// scheduleSaveEffect arms the debounced save of a session document.
type scheduleSaveEffect struct {
	id types.SessionID
}

// deleteSessionEffect removes a session row immediately.
type deleteSessionEffect struct {
	id types.SessionID
}

func (saveSettingEffect) isEffect()   {}
func (scheduleSaveEffect) isEffect()  {}
func (deleteSessionEffect) isEffect() {}
