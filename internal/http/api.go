package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"donation-tracker/internal/repository"
	"donation-tracker/internal/service"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users            service.UserService
	board            service.BoardService
	backendConnected bool
	frontendURL      string
	logger           logrus.FieldLogger
	now              func() time.Time
}

func NewHandler(users service.UserService, board service.BoardService, backendConnected bool, frontendURL string, logger logrus.FieldLogger) *Handler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{
		users:            users,
		board:            board,
		backendConnected: backendConnected,
		frontendURL:      frontendURL,
		logger:           logger,
		now:              time.Now,
	}
}

// NewRouter returns a gin engine serving h's routes. Panics are turned into
// 500 responses carrying the panic value.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		h.logger.WithField("path", c.Request.URL.Path).Errorf("panic: %v", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprint(recovered)})
	}))
	h.RegisterRoutes(router)
	return router
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestLogger(h.logger), corsMiddleware(h.frontendURL))

	api := router.Group("/api")
	{
		api.GET("/health", h.health)
		api.POST("/auth/signin", h.signIn)
		api.POST("/auth/signup", h.signUp)
		api.GET("/user/donations/:email", h.getDonations)
		api.PUT("/user/donations/:email", h.updateDonations)
		api.GET("/users", h.listUsers)
		api.GET("/leaderboard", h.leaderboard)
		api.GET("/stats", h.stats)
		api.GET("/rewards", h.rewards)
		api.GET("/recent-activities", h.recentActivities)
	}
}

// corsMiddleware admits the configured frontend origin only.
func corsMiddleware(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (allowedOrigin == "*" || origin == allowedOrigin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
			c.Writer.Header().Add("Vary", "Origin")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func requestLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Info("request")
	}
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signUpRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type updateDonationsRequest struct {
	Amount *amountValue `json:"amount"`
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":            "healthy",
		"backend_connected": h.backendConnected,
		"timestamp":         h.now().Format(time.RFC3339),
	})
}

func (h *Handler) signIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.users.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Sign in successful",
		"user":    userToResponse(*user),
	})
}

func (h *Handler) signUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.users.SignUp(c.Request.Context(), service.SignUpInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user":    userToResponse(*user),
	})
}

func (h *Handler) getDonations(c *gin.Context) {
	email := c.Param("email")
	user, err := h.users.Donations(c.Request.Context(), email)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, DonationsResponse{
		DonationsRaised: user.DonationsRaised,
		ReferralCode:    user.ReferralCode,
		Email:           email,
	})
}

func (h *Handler) updateDonations(c *gin.Context) {
	var req updateDonationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var amount *float64
	if req.Amount != nil {
		v := float64(*req.Amount)
		amount = &v
	}

	value, err := h.users.UpdateDonations(c.Request.Context(), c.Param("email"), amount)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Donations updated successfully",
		"donationsRaised": value,
	})
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]UserResponse, len(users))
	for i := range users {
		resp[i] = userToResponse(users[i])
	}
	c.JSON(http.StatusOK, gin.H{"users": resp})
}

func (h *Handler) leaderboard(c *gin.Context) {
	entries, err := h.board.Leaderboard(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]LeaderboardEntryResponse, len(entries))
	for i := range entries {
		resp[i] = LeaderboardEntryResponse{
			UserResponse: userToResponse(entries[i].User),
			Rank:         entries[i].Rank,
		}
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": resp})
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.board.Stats(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, statsToResponse(stats))
}

func (h *Handler) rewards(c *gin.Context) {
	rewards := service.Rewards()
	resp := make([]RewardResponse, len(rewards))
	for i := range rewards {
		resp[i] = rewardToResponse(rewards[i])
	}
	c.JSON(http.StatusOK, gin.H{"rewards": resp})
}

func (h *Handler) recentActivities(c *gin.Context) {
	activities := service.RecentActivities()
	resp := make([]ActivityResponse, len(activities))
	for i := range activities {
		resp[i] = activityToResponse(activities[i])
	}
	c.JSON(http.StatusOK, gin.H{"activities": resp})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, service.ErrUserAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
	case errors.Is(err, service.ErrUpdateFailed):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update donations"})
	default:
		h.logger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
