package web

import (
	"context"
	"embed"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"reviewhub/pkg/models"
	"reviewhub/pkg/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const (
	DefaultRating = 1

	msgThanks       = "Thank you for your review!"
	msgSubmitFailed = "Failed to submit review"
	msgFetchFailed  = "Failed to fetch reviews"
)

// API is what the page needs from the review service.
type API interface {
	Create(ctx context.Context, in models.NewReview) (*models.Review, error)
	List(ctx context.Context) ([]models.Review, error)
}

type Handler struct {
	API    API
	Logger *slog.Logger
}

func NewHandler(api API, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{API: api, Logger: logger}
}

type formState struct {
	Email  string
	Rating int
	Text   string
}

type pageData struct {
	Form          formState
	Ratings       []int
	DefaultRating int
	Message       string
	MessageOK     bool
	Reviews       []models.Review
	ListError     string
}

var funcs = template.FuncMap{
	"stars": models.Stars,
	"ratingLabel": func(n int) string {
		if n == 1 {
			return "1 star"
		}
		return strconv.Itoa(n) + " stars"
	},
	"iso": func(t time.Time) string {
		return t.UTC().Format(time.RFC3339)
	},
	"when": func(t time.Time) string {
		return t.Local().Format("Jan 2, 2006 3:04 PM")
	},
}

func parseTemplates() *template.Template {
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}

// Register mounts the page and its static assets on the engine root.
func (h *Handler) Register(r *gin.Engine) {
	r.SetHTMLTemplate(parseTemplates())

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err) // embedded at build time
	}
	r.StaticFS("/static", http.FS(static))

	r.GET("/", h.page)
	r.POST("/", h.submit)
}

func (h *Handler) newPage(form formState) pageData {
	return pageData{
		Form:          form,
		Ratings:       []int{1, 2, 3, 4, 5},
		DefaultRating: DefaultRating,
	}
}

// fill lists reviews into the page; a failure becomes the generic message.
func (h *Handler) fill(c *gin.Context, p *pageData) {
	items, err := h.API.List(c.Request.Context())
	if err != nil {
		h.Logger.Error("page: fetch reviews failed",
			"err", err, "request_id", c.GetString(utils.RequestIDKey))
		p.ListError = msgFetchFailed
		return
	}
	p.Reviews = items
}

func (h *Handler) page(c *gin.Context) {
	p := h.newPage(formState{Rating: DefaultRating})
	if c.Query("submitted") == "1" {
		p.Message = msgThanks
		p.MessageOK = true
	}
	h.fill(c, &p)
	c.HTML(http.StatusOK, "page.html", p)
}

// submit is the no-script path: post/redirect/get on success, re-render
// with the submitted values on failure.
func (h *Handler) submit(c *gin.Context) {
	form := formState{
		Email: c.PostForm("email"),
		Text:  c.PostForm("text"),
	}
	rating, err := strconv.Atoi(strings.TrimSpace(c.PostForm("rating")))
	if err == nil {
		form.Rating = rating
		_, err = h.API.Create(c.Request.Context(), models.NewReview{
			Email:  form.Email,
			Rating: form.Rating,
			Text:   form.Text,
		})
	}
	if err != nil {
		h.Logger.Error("page: submit review failed",
			"err", err, "request_id", c.GetString(utils.RequestIDKey))
		p := h.newPage(form)
		p.Message = msgSubmitFailed
		h.fill(c, &p)
		c.HTML(http.StatusInternalServerError, "page.html", p)
		return
	}

	c.Redirect(http.StatusSeeOther, "/?submitted=1")
}
