package session

import "github.com/Atig-Hamza/RecoleCheck/internal/logger"

// LogTransitions logs every session status change.
func LogTransitions(log *logger.Logger) Listener {
	return func(s Session) {
		log.Info("Session "+s.Status.String(), map[string]interface{}{
			"session_id": s.ID,
			"user_id":    s.UserID,
		})
	}
}
