package app

import (
	"time"

	"github.com/user/privai/internal/types"
)

// reduce applies one action to a state snapshot and returns the next
// state plus the persistence effects the transition requires. It is a
// pure function: the input state is never mutated.
func reduce(s AppState, action Action) (AppState, []Effect) {
	next := s.clone()

	switch a := action.(type) {
	case SetAPIKey:
		if a.Key == "" {
			delete(next.APIKeys, a.Provider)
		} else {
			next.APIKeys[a.Provider] = a.Key
		}
		return next, []Effect{saveSettingEffect{settingAPIKeys, next.APIKeys}}

	case CreateSession:
		sess := a.Session.Clone()
		next.Sessions = append([]*types.ChatSession{sess}, next.Sessions...)
		next.CurrentSessionID = sess.ID
		return next, []Effect{scheduleSaveEffect{sess.ID}}

	case DeleteSession:
		kept := next.Sessions[:0]
		for _, sess := range next.Sessions {
			if sess.ID != a.ID {
				kept = append(kept, sess)
			}
		}
		next.Sessions = kept
		if next.CurrentSessionID == a.ID {
			next.CurrentSessionID = ""
		}
		return next, []Effect{deleteSessionEffect{a.ID}}

	case SelectSession:
		if next.session(a.ID) != nil {
			next.CurrentSessionID = a.ID
		}
		return next, nil

	case AddMessage:
		sess := next.session(a.SessionID)
		if sess == nil {
			return next, nil
		}
		sess.Messages = append(sess.Messages, a.Message)
		sess.UpdatedAt = time.Now()
		return next, sessionSave(next, a.SessionID)

	case UpdateMessageContent:
		sess := next.session(a.SessionID)
		if sess == nil {
			return next, nil
		}
		for i := range sess.Messages {
			if sess.Messages[i].ID == a.MessageID {
				sess.Messages[i].Content = a.Content
				sess.UpdatedAt = time.Now()
				return next, sessionSave(next, a.SessionID)
			}
		}
		return next, nil

	case ToggleSidebar:
		next.IsSidebarOpen = !next.IsSidebarOpen
		return next, nil

	case ToggleSettings:
		next.IsSettingsOpen = !next.IsSettingsOpen
		return next, nil

	case SetTheme:
		next.Theme = a.Theme
		return next, []Effect{saveSettingEffect{settingTheme, a.Theme}}

	case SetTextSize:
		next.TextSize = a.Size
		return next, []Effect{saveSettingEffect{settingTextSize, a.Size}}

	case SetDefaultModel:
		next.DefaultModelConfig = a.Config
		return next, []Effect{saveSettingEffect{settingDefaultModelConfig, a.Config}}

	case BulkLoad:
		if a.Sessions != nil {
			next.Sessions = make([]*types.ChatSession, len(a.Sessions))
			for i, sess := range a.Sessions {
				next.Sessions[i] = sess.Clone()
			}
		}
		for k, v := range a.APIKeys {
			next.APIKeys[k] = v
		}
		if a.Theme != "" {
			next.Theme = a.Theme
		}
		if a.TextSize != "" {
			next.TextSize = a.TextSize
		}
		if a.DefaultModelConfig != nil {
			next.DefaultModelConfig = *a.DefaultModelConfig
		}
		return next, nil
	}

	return next, nil
}

// sessionSave arms the debounced write only for the session the user is
// looking at; background sessions are written when they become current
// again or on the next direct mutation while selected.
func sessionSave(s AppState, id types.SessionID) []Effect {
	if s.CurrentSessionID != id {
		return nil
	}
	return []Effect{scheduleSaveEffect{id}}
}
