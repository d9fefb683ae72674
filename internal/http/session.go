package http

import (
	"net/http"

	"fintrack/internal/log"
	"fintrack/internal/workset"
)

// SessionCookie names the cookie that binds a browser to its working set.
const SessionCookie = "fintrack_session"

// workingSet returns the caller's working set, starting a new session when
// the cookie is missing or the session expired.
func (s *Server) workingSet(w http.ResponseWriter, r *http.Request) *workset.Set {
	var id string
	if c, err := r.Cookie(SessionCookie); err == nil {
		id = c.Value
	}

	set, sid, created := s.sessions.Get(id)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    sid,
			Path:     "/",
			HttpOnly: true,
			Secure:   s.opts.Secure,
			SameSite: http.SameSiteLaxMode,
		})
		log.FromContext(r.Context()).DebugContext(r.Context(), "Session started",
			log.FieldSessionID, sid, log.FieldComponent, log.ComponentSession)
	}
	return set
}
