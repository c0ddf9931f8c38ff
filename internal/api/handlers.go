package api

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/paradiseofgeeks/blogmirror/internal/config"
	"github.com/paradiseofgeeks/blogmirror/internal/feed"
	"github.com/paradiseofgeeks/blogmirror/internal/logger"
	"github.com/paradiseofgeeks/blogmirror/internal/models"
	"github.com/paradiseofgeeks/blogmirror/internal/query"
	"github.com/paradiseofgeeks/blogmirror/internal/store"
)

// postsPerPage is the page size of the blog listing.
const postsPerPage = 6

// relatedLimit is how many related posts accompany a post detail.
const relatedLimit = 3

type Handlers struct {
	config   *config.Config
	pipeline *feed.Pipeline
	store    *store.Store
}

func NewHandlers(cfg *config.Config, st *store.Store) *Handlers {
	return &Handlers{
		config:   cfg,
		pipeline: feed.NewPipeline(cfg),
		store:    st,
	}
}

// HealthCheck handles GET /api/v1/health
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

// GetPosts handles GET /api/v1/posts. Every request runs a fresh
// ingestion; the pipeline never fails, so neither does this handler.
func (h *Handlers) GetPosts(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}

	posts := h.pipeline.FetchPosts(c.Context())

	category := c.Query("category")
	filtered := query.FilterByCategory(posts, category)

	return c.JSON(fiber.Map{
		"success":  true,
		"page":     page,
		"per_page": postsPerPage,
		"total":    len(filtered),
		"posts":    query.Paginate(filtered, page, postsPerPage),
	})
}

// GetPostByID handles GET /api/v1/posts/:id
func (h *Handlers) GetPostByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Post ID is required",
		})
	}

	posts := h.pipeline.FetchPosts(c.Context())

	post := models.NotFoundPost(id)
	found := false
	for _, p := range posts {
		if p.ID == id {
			post = p
			found = true
			break
		}
	}
	if !found {
		post = h.pipeline.FetchPostByID(c.Context(), id)
	}

	// A view is a view even when the counter write fails; log and move on.
	if err := h.store.IncrementPageView(c.Context()); err != nil {
		logger.Get().Error().Err(err).Msg("Error incrementing page views")
	}

	return c.JSON(fiber.Map{
		"post":    post,
		"related": query.Related(id, post.Title, posts, relatedLimit),
	})
}

// SearchPosts handles GET /api/v1/search
func (h *Handlers) SearchPosts(c *fiber.Ctx) error {
	q := c.Query("q")
	sortBy := c.Query("sort", query.SortRelevance)

	posts := h.pipeline.FetchPosts(c.Context())
	results := query.Search(posts, q, sortBy)

	return c.JSON(fiber.Map{
		"success":       true,
		"query":         q,
		"sort":          sortBy,
		"total_results": len(results),
		"results":       results,
	})
}

// GetCategories handles GET /api/v1/categories
func (h *Handlers) GetCategories(c *fiber.Ctx) error {
	posts := h.pipeline.FetchPosts(c.Context())
	return c.JSON(fiber.Map{
		"success":    true,
		"categories": query.CategoryCounts(posts),
	})
}

// SubmitContact handles POST /api/v1/contact
func (h *Handlers) SubmitContact(c *fiber.Ctx) error {
	var contact store.Contact
	if err := c.BodyParser(&contact); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	if err := h.store.RecordContact(c.Context(), contact); err != nil {
		if errors.Is(err, store.ErrValidation) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"success": false,
				"error":   err.Error(),
			})
		}
		logger.Get().Error().Err(err).Msg("Error saving contact")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Error sending message. Please try again later.",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Message sent successfully! We'll get back to you soon.",
	})
}

// TrackView handles POST /api/v1/analytics/track
func (h *Handlers) TrackView(c *fiber.Ctx) error {
	if err := h.store.IncrementPageView(c.Context()); err != nil {
		logger.Get().Error().Err(err).Msg("Error incrementing page views")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
		})
	}
	return c.JSON(fiber.Map{"success": true})
}

// TrackEvent handles POST /api/v1/analytics/events. The whole request
// body is kept as the opaque event payload; its "event" field names the
// event type.
func (h *Handlers) TrackEvent(c *fiber.Ctx) error {
	var payload map[string]any
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	eventType, _ := payload["event"].(string)
	event := store.Event{
		Type:      eventType,
		Data:      payload,
		PageURL:   c.Get("Referer"),
		UserAgent: c.Get("User-Agent"),
		IPAddress: c.IP(),
	}

	if err := h.store.RecordEvent(c.Context(), event); err != nil {
		logger.Get().Error().Err(err).Msg("Error recording analytics event")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
		})
	}
	return c.JSON(fiber.Map{"success": true})
}

// GetAnalytics handles GET /api/v1/analytics
func (h *Handlers) GetAnalytics(c *fiber.Ctx) error {
	views, err := h.store.PageViews(c.Context())
	if err != nil {
		logger.Get().Error().Err(err).Msg("Error reading page views")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get analytics",
		})
	}
	return c.JSON(fiber.Map{"views": views})
}

// GetAnalyticsSummary handles GET /api/v1/analytics/summary
func (h *Handlers) GetAnalyticsSummary(c *fiber.Ctx) error {
	summary, err := h.store.DailySummary(c.Context())
	if err != nil {
		logger.Get().Error().Err(err).Msg("Error building daily summary")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get analytics summary",
		})
	}
	return c.JSON(fiber.Map{
		"today":     summary,
		"top_posts": summary.TopPosts,
	})
}
