package http

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oakwellmc/rota-monitor/internal/config"
	"github.com/oakwellmc/rota-monitor/internal/core/domain"
	"github.com/oakwellmc/rota-monitor/internal/core/ports/in"
	"github.com/oakwellmc/rota-monitor/internal/utils"
)

type RotaMonitorController struct {
	useCase  in.RotaMonitorUseCase
	cfg      *config.Config
	location *time.Location
}

func NewRotaMonitorController(useCase in.RotaMonitorUseCase, cfg *config.Config) *RotaMonitorController {
	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		loc = time.UTC
	}

	return &RotaMonitorController{
		useCase:  useCase,
		cfg:      cfg,
		location: loc,
	}
}

func (c *RotaMonitorController) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	api.Use(c.basicAuth())
	{
		api.GET("/calendar/doctors/:month", c.doctorCalendar)
		api.GET("/calendar/nurses/:month", c.nurseCalendar)
		api.GET("/compliance/day/:date", c.dayCompliance)
		api.POST("/compliance/alternatives", c.findAlternatives)
		api.GET("/admin-actions/:date", c.latestAdminAction)
	}
}

type FindAlternativesRequest struct {
	SlotType      string `json:"slotType" binding:"required"`
	ClinicianName string `json:"clinicianName"`
	HorizonDays   int    `json:"horizonDays"`
}

func (c *RotaMonitorController) doctorCalendar(ctx *gin.Context) {
	monthKey := ctx.Param("month")
	if _, err := utils.ParseMonthKey(monthKey, c.location); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month format, expected YYYY-MM"})
		return
	}

	withDebug := ctx.Query("debug") == "true"

	calendar, err := c.useCase.DoctorCalendar(ctx.Request.Context(), monthKey, withDebug)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, calendar)
}

func (c *RotaMonitorController) nurseCalendar(ctx *gin.Context) {
	monthKey := ctx.Param("month")
	if _, err := utils.ParseMonthKey(monthKey, c.location); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month format, expected YYYY-MM"})
		return
	}

	withDebug := ctx.Query("debug") == "true"

	calendar, err := c.useCase.NurseCalendar(ctx.Request.Context(), monthKey, withDebug)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, calendar)
}

func (c *RotaMonitorController) dayCompliance(ctx *gin.Context) {
	date, err := utils.ParseDateKey(ctx.Param("date"), c.location)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
		return
	}

	compliance, err := c.useCase.DayCompliance(ctx.Request.Context(), date)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"date":    ctx.Param("date"),
		"flagged": compliance,
	})
}

func (c *RotaMonitorController) findAlternatives(ctx *gin.Context) {
	var req FindAlternativesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slot := domain.SlotRecord{
		SlotType:      req.SlotType,
		ClinicianName: req.ClinicianName,
	}

	alternatives, err := c.useCase.FindAlternatives(ctx.Request.Context(), slot, req.HorizonDays)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"slotType":     req.SlotType,
		"alternatives": alternatives,
	})
}

func (c *RotaMonitorController) latestAdminAction(ctx *gin.Context) {
	date, err := utils.ParseDateKey(ctx.Param("date"), c.location)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
		return
	}

	action, err := c.useCase.LatestAdminAction(ctx.Request.Context(), date)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if action == nil {
		ctx.JSON(http.StatusOK, gin.H{"date": ctx.Param("date"), "action": nil})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"date": ctx.Param("date"), "action": action})
}

func (c *RotaMonitorController) basicAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		username, password, hasAuth := ctx.Request.BasicAuth()
		if !hasAuth {
			ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		for _, client := range c.cfg.Auth.BasicClients {
			if subtle.ConstantTimeCompare([]byte(username), []byte(client.Username)) == 1 &&
				subtle.ConstantTimeCompare([]byte(password), []byte(client.Password)) == 1 {
				ctx.Next()
				return
			}
		}

		ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
		ctx.AbortWithStatus(http.StatusUnauthorized)
	}
}
