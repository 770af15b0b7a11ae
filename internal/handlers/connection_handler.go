package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lakebase-connect/internal/responses"
	"lakebase-connect/internal/services"
)

type ConnectionHandler struct {
	bootstrap *services.BootstrapService
}

func NewConnectionHandler(bootstrap *services.BootstrapService) *ConnectionHandler {
	return &ConnectionHandler{bootstrap: bootstrap}
}

type TestConnectionRequest struct {
	Instance string `json:"instance,omitempty"`
	Database string `json:"database,omitempty"`
}

// TestConnection runs the full bootstrap flow and reports the probe result.
// The connection is closed before responding; the flow exists to verify the
// credential path, not to hold connections open on behalf of callers.
func (h *ConnectionHandler) TestConnection(c *gin.Context) {
	var req TestConnectionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
			return
		}
	}

	conn, report, err := h.bootstrap.Connect(c.Request.Context(), req.Instance, req.Database)
	if err != nil {
		responses.Fail(c, statusForFlowError(err), err, "Connection bootstrap failed")
		return
	}
	defer conn.Close()

	responses.Success(c, http.StatusOK, report, "Connection verified")
}

// statusForFlowError maps stage failures onto HTTP statuses: not-found stays
// a 404, everything else is an upstream failure from this service's view.
func statusForFlowError(err error) int {
	var notFound *services.InstanceNotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}
