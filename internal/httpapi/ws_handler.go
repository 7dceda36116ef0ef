package httpapi

import (
	"net/http"

	"campuseats-be/internal/logger"
	"campuseats-be/internal/utils"

	"go.uber.org/zap"
)

// handleWebsocket attaches the authenticated user to the notification
// hub. The connection stays open until the client goes away.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	if err := s.hub.Serve(w, r, userID); err != nil {
		logger.FromCtx(r.Context()).Warn("websocket upgrade failed",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	}
}
