package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lakebase-connect/internal/responses"
	"lakebase-connect/internal/services"
)

type QueryHandler struct {
	queryService *services.QueryService
}

func NewQueryHandler(queryService *services.QueryService) *QueryHandler {
	return &QueryHandler{queryService: queryService}
}

// ExecuteQuery runs a validated SQL query over a freshly bootstrapped
// connection.
func (h *QueryHandler) ExecuteQuery(c *gin.Context) {
	var req services.ExecuteQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body: query is required")
		return
	}

	if err := h.queryService.ValidateSQLQuery(req.Query); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Query rejected")
		return
	}

	result, report, err := h.queryService.ExecuteQuery(c.Request.Context(), &req)
	if err != nil {
		responses.Fail(c, statusForFlowError(err), err, "Failed to execute query")
		return
	}

	response := gin.H{
		"result":            result,
		"connection":        report,
		"execution_time_ms": result.ExecutionTime,
	}
	responses.Success(c, http.StatusOK, response, "Query executed successfully")
}
