package handler

import (
	"net/http"

	"hospital-sim-reporting/internal/service"
	"hospital-sim-reporting/pkg/utils"

	"github.com/gin-gonic/gin"
)

// TriggerHandler exposes the scheduled entry points for manual
// invocation. Runs execute synchronously within the request.
type TriggerHandler struct {
	runs *service.RunService
}

func NewTriggerHandler(runs *service.RunService) *TriggerHandler {
	return &TriggerHandler{runs: runs}
}

// Generate runs the daily data generation immediately
func (h *TriggerHandler) Generate(c *gin.Context) {
	if err := h.runs.RunGenerate(c.Request.Context()); err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Generation run failed")
		return
	}
	utils.MessageResponse(c, "Generation run completed")
}

// Analyze runs the daily report analysis immediately
func (h *TriggerHandler) Analyze(c *gin.Context) {
	if err := h.runs.RunAnalyze(c.Request.Context()); err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Analysis run failed")
		return
	}
	utils.MessageResponse(c, "Analysis run completed")
}
