package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Quokkas/internal/dto"
	"github.com/lshigami/Quokkas/internal/lexile"
	"github.com/lshigami/Quokkas/internal/service"
	"github.com/rs/zerolog/log"
)

type StudentController struct {
	dashboardService   service.DashboardService
	leaderboardService service.LeaderboardService
}

func NewStudentController(dashboard service.DashboardService, leaderboard service.LeaderboardService) *StudentController {
	return &StudentController{dashboardService: dashboard, leaderboardService: leaderboard}
}

// GetCatalog godoc
// @Summary List topics, difficulties and factors
// @Description Fixed enumerations a client needs to render the round-start form.
// @Tags Catalog
// @Produce json
// @Success 200 {object} dto.CatalogResponse
// @Router /catalog [get]
func (c *StudentController) GetCatalog(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.CatalogResponse{
		Topics:       lexile.Topics,
		Difficulties: lexile.Difficulties,
		Factors:      lexile.Factors,
	})
}

// GetDashboard godoc
// @Summary Current student's dashboard
// @Description Lexile level with scale display, total XP, streak and all ten factor scores.
// @Tags Students
// @Produce json
// @Success 200 {object} service.Dashboard
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /me/dashboard [get]
func (c *StudentController) GetDashboard(ctx *gin.Context) {
	dashboard, err := c.dashboardService.For(currentStudentID(ctx))
	if err != nil {
		log.Error().Err(err).Msg("GetDashboard: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to load dashboard"})
		return
	}
	ctx.JSON(http.StatusOK, dashboard)
}

// GetLeaderboard godoc
// @Summary Cohort leaderboard
// @Description Top 10 students in the caller's 100-point lexile range, ranked by total XP.
// @Tags Students
// @Produce json
// @Success 200 {object} service.Leaderboard
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /leaderboard [get]
func (c *StudentController) GetLeaderboard(ctx *gin.Context) {
	leaderboard, err := c.leaderboardService.For(currentStudentID(ctx))
	if err != nil {
		log.Error().Err(err).Msg("GetLeaderboard: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to load leaderboard"})
		return
	}
	ctx.JSON(http.StatusOK, leaderboard)
}
