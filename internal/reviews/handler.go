package reviews

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/pkg/models"
	"reviewhub/pkg/utils"
)

const (
	errSubmitFailed = "Failed to submit review"
	errFetchFailed  = "Failed to fetch reviews"
)

// Publisher is told about every review that was stored.
type Publisher interface {
	PublishCreated(review models.Review)
}

type Handler struct {
	Store  Store
	Events Publisher
	Logger *slog.Logger
}

func NewHandler(store Store, events Publisher, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{Store: store, Events: events, Logger: logger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/reviews", h.create) // POST /api/reviews
	rg.GET("/reviews", h.list)    // GET /api/reviews

	// older client paths, same handlers
	rg.POST("/post-review", h.create)
	rg.GET("/get-reviews", h.list)
	rg.GET("/reviews/get-reviews", h.list)
}

type createReq struct {
	Email  string `json:"email"`
	Rating int    `json:"rating"`
	Text   string `json:"text"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Logger.Error("submit review: bad request body",
			"err", err, "request_id", c.GetString(utils.RequestIDKey))
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSubmitFailed})
		return
	}

	review, err := h.Store.Create(c.Request.Context(), models.NewReview{
		Email:  req.Email,
		Rating: req.Rating,
		Text:   req.Text,
	})
	if err != nil {
		h.Logger.Error("submit review failed",
			"err", err, "request_id", c.GetString(utils.RequestIDKey))
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSubmitFailed})
		return
	}

	if h.Events != nil {
		h.Events.PublishCreated(*review)
	}
	c.JSON(http.StatusOK, review)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.Store.List(c.Request.Context())
	if err != nil {
		h.Logger.Error("fetch reviews failed",
			"err", err, "request_id", c.GetString(utils.RequestIDKey))
		c.JSON(http.StatusInternalServerError, gin.H{"error": errFetchFailed})
		return
	}
	c.JSON(http.StatusOK, items)
}
