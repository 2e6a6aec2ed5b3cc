package flash

import (
	"encoding/gob"

	"github.com/gorilla/sessions"
)

// SessionKey is the session value key holding the pending flash list.
const SessionKey = "_flashes"

// Category tags a flash for styling by the page that renders it.
type Category string

const (
	CategoryInfo    Category = "info"
	CategorySuccess Category = "success"
	CategoryWarning Category = "warning"
	CategoryError   Category = "error"
)

// Flash is a single notice. It is stored by value and never mutated.
type Flash struct {
	Category Category
	Message  string
}

func init() {
	// securecookie encodes session values with gob; interface-typed
	// elements must be registered to round-trip.
	gob.Register([]any{})
	gob.Register(Flash{})
}

func New(category Category, message string) Flash {
	return Flash{Category: category, Message: message}
}

func Info(message string) Flash    { return New(CategoryInfo, message) }
func Success(message string) Flash { return New(CategorySuccess, message) }
func Warning(message string) Flash { return New(CategoryWarning, message) }
func Error(message string) Flash   { return New(CategoryError, message) }

// Add appends f to the session's flash list, creating the list if needed.
func Add(s *sessions.Session, f Flash) {
	s.AddFlash(f, SessionKey)
}

// Peek returns the pending flashes without consuming them.
func Peek(s *sessions.Session) []Flash {
	raw, _ := s.Values[SessionKey].([]any)
	return decode(raw)
}

// Drain returns the pending flashes and clears them from the session.
func Drain(s *sessions.Session) []Flash {
	return decode(s.Flashes(SessionKey))
}

// decode drops entries of foreign types, which can only appear if another
// writer shares the session key.
func decode(raw []any) []Flash {
	if len(raw) == 0 {
		return nil
	}
	out := make([]Flash, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(Flash); ok {
			out = append(out, f)
		}
	}
	return out
}
