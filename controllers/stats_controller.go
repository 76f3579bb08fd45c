package controllers

import (
	"net/http"
	"time"

	"guesthouse-backend/services"
	"guesthouse-backend/utils"

	"github.com/gin-gonic/gin"
)

type StatsController struct {
	Stats *services.StatsService
}

func NewStatsController(stats *services.StatsService) *StatsController {
	return &StatsController{Stats: stats}
}

// Dashboard handles GET /api/admin/stats
func (sc *StatsController) Dashboard(c *gin.Context) {
	stats, err := sc.Stats.Dashboard(time.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, stats)
}
