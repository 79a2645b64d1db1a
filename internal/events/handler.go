package events

import (
	"net/http"

	ws "github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/anuruddha96/hotelcare-backend/internal/middleware"
	"github.com/anuruddha96/hotelcare-backend/internal/utils"
)

// HandleWebSocket upgrades the connection and runs it as a hub client
// subscribed for the authenticated staff member's events. The connection is
// unregistered when the request context ends, so component teardown cannot
// leak subscriptions.
func HandleWebSocket(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctxUserID := r.Context().Value(middleware.ContextKeyUserID)
		if ctxUserID == nil {
			utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeUnauthorized,
				"No userID in context", nil, nil)
			return
		}
		staffID, err := uuid.Parse(ctxUserID.(string))
		if err != nil {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
				"Invalid staff ID", nil, err)
			return
		}

		conn, err := ws.Accept(w, r, nil)
		if err != nil {
			utils.Logger.WithError(err).Warn("websocket accept failed")
			return
		}

		client := NewClient(hub, conn, staffID)
		client.Run(r.Context())
	}
}
