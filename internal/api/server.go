package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/aquaeye/internal/alert"
	"github.com/aquaeye/internal/auth"
	"github.com/aquaeye/internal/engine"
	"github.com/aquaeye/internal/logger"
	"github.com/aquaeye/internal/models"
	"github.com/aquaeye/internal/simulator"
	"github.com/aquaeye/internal/ws"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server exposes the alert lifecycle, engine status and the live view
// socket to the dashboard and CLI.
type Server struct {
	db     *gorm.DB
	eng    *engine.Engine
	alerts *alert.Manager
	hub    *ws.Hub
	auth   *auth.Auth
	router *gin.Engine
	log    zerolog.Logger
}

func NewServer(db *gorm.DB, eng *engine.Engine, alerts *alert.Manager, hub *ws.Hub, authn *auth.Auth) *Server {
	server := &Server{
		db:     db,
		eng:    eng,
		alerts: alerts,
		hub:    hub,
		auth:   authn,
		router: gin.Default(),
		log:    logger.WithComponent("api"),
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	s.router.POST("/api/v1/auth/login", s.login)
	s.router.GET("/ws", s.serveWebsocket)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.router.Group("/api/v1")
	api.Use(s.auth.Middleware())

	api.GET("/ponds", s.listPonds)
	api.GET("/ponds/:id/readings", s.getPondReadings)

	api.GET("/alerts", s.listAlerts)
	api.PUT("/alerts/:id/acknowledge", auth.RequireRole(models.RoleAdmin, models.RoleUser), s.acknowledgeAlert)
	api.PUT("/alerts/:id/resolve", auth.RequireRole(models.RoleAdmin, models.RoleUser), s.resolveAlert)

	api.GET("/engine/status", s.engineStatus)
	api.POST("/engine/scenario", auth.RequireRole(models.RoleAdmin, models.RoleUser), s.injectScenario)
}

func (s *Server) Start(port int) error {
	return s.router.Run(fmt.Sprintf(":%d", port))
}

// Router exposes the handler for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) serveWebsocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := ws.NewClient(s.hub, conn)
	go client.WritePump()
	go client.ReadPump()
}

func (s *Server) listPonds(c *gin.Context) {
	var ponds []models.Pond
	if err := s.db.Preload("Thresholds").Find(&ponds).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch ponds"})
		return
	}
	c.JSON(http.StatusOK, ponds)
}

func (s *Server) getPondReadings(c *gin.Context) {
	pondID := c.Param("id")
	var readings []models.SensorReading

	query := s.db.Where("pond_id = ?", pondID)
	if start := c.Query("start"); start != "" {
		if t, err := time.Parse(time.RFC3339, start); err == nil {
			query = query.Where("timestamp >= ?", t)
		}
	}
	if end := c.Query("end"); end != "" {
		if t, err := time.Parse(time.RFC3339, end); err == nil {
			query = query.Where("timestamp <= ?", t)
		}
	}

	limit := 100
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 {
		limit = l
	}

	if err := query.Order("timestamp desc").Limit(limit).Find(&readings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch readings"})
		return
	}

	c.JSON(http.StatusOK, readings)
}

func (s *Server) listAlerts(c *gin.Context) {
	var resolved *bool
	if r := c.Query("resolved"); r != "" {
		b := r == "true"
		resolved = &b
	}

	limit := 100
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 {
		limit = l
	}

	alerts, err := s.alerts.List(c.Request.Context(), resolved, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, alerts)
}

func (s *Server) acknowledgeAlert(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid alert id"})
		return
	}

	if err := s.alerts.Acknowledge(c.Request.Context(), uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusOK)
}

func (s *Server) resolveAlert(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid alert id"})
		return
	}

	if err := s.alerts.Resolve(c.Request.Context(), uint(id), c.GetUint("user_id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusOK)
}

func (s *Server) engineStatus(c *gin.Context) {
	status := s.eng.GetStatus()
	c.JSON(http.StatusOK, gin.H{
		"running":             status.Running,
		"simulation_enabled":  status.SimulationEnabled,
		"generation_interval": status.GenerationInterval.String(),
		"evaluation_interval": status.EvaluationInterval.String(),
	})
}

func (s *Server) injectScenario(c *gin.Context) {
	var req struct {
		PondID   uint   `json:"pond_id" binding:"required"`
		Scenario string `json:"scenario" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reading, err := s.eng.InjectScenario(c.Request.Context(), req.PondID, simulator.Scenario(req.Scenario))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, reading)
}

func (s *Server) login(c *gin.Context) {
	var loginReq struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&loginReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := s.db.Where("username = ?", loginReq.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if !user.CheckPassword(loginReq.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := s.auth.GenerateToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
