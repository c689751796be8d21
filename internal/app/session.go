package app

import "net/http"

type sessionKey string

const (
	SessionKeyHolderID = sessionKey("holderID")
)

func (s sessionKey) String() string {
	return string(s)
}

type contextKey string

const loggerContextKey = contextKey("logger")

func (app *Application) contextGetHolderID(r *http.Request) string {
	holderID, ok := r.Context().Value(SessionKeyHolderID).(string)
	if !ok {
		panic("missing holder id from context")
	}

	return holderID
}
