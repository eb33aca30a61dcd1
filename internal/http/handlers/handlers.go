package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/tbourn/go-cocktail-backend/internal/auth"
	"github.com/tbourn/go-cocktail-backend/internal/domain"
	"github.com/tbourn/go-cocktail-backend/internal/http/middleware"
	"github.com/tbourn/go-cocktail-backend/internal/search"
	"github.com/tbourn/go-cocktail-backend/internal/services"
	"github.com/tbourn/go-cocktail-backend/internal/utils"
)

//
// Service interfaces
//

// CatalogAPI is the recipe catalog as seen by the HTTP layer.
type CatalogAPI interface {
	Browse(ctx context.Context, query string, sel search.Selection) ([]domain.Recipe, error)
	Recommend(ctx context.Context, sel search.Selection) ([]domain.Recipe, error)
	Random(ctx context.Context, query string, sel search.Selection) ([]domain.Recipe, error)
	Refresh(ctx context.Context) (int, error)
	Detail(ctx context.Context, id, unit string, servings int) (*domain.Recipe, error)
	Popular(ctx context.Context) []domain.Recipe
	Seasonal() []domain.Recipe
	Daily(ctx context.Context) (*domain.Recipe, error)
	Ingredients(ctx context.Context) ([]string, error)
	Ingredient(ctx context.Context, name string) (*domain.IngredientInfo, error)
}

// RatingAPI records and serves rating histograms.
type RatingAPI interface {
	RecordVote(ctx context.Context, sess auth.Session, recipeID string, star int) (domain.RatingSnapshot, error)
	Get(ctx context.Context, recipeID string) (domain.RatingSnapshot, error)
}

// FavoriteAPI manages the caller's favorites set.
type FavoriteAPI interface {
	Toggle(ctx context.Context, sess auth.Session, recipeID string) (bool, error)
	Add(ctx context.Context, sess auth.Session, recipeID string) error
	Remove(ctx context.Context, sess auth.Session, recipeID string) error
	IDs(ctx context.Context, sess auth.Session) ([]string, error)
	Materialize(ctx context.Context, sess auth.Session) ([]domain.Recipe, error)
	Snapshot(ctx context.Context, sess auth.Session) (domain.FavoritesSnapshot, error)
}

// SubmissionAPI stores and lists user-submitted recipes.
type SubmissionAPI interface {
	Submit(ctx context.Context, sess auth.Session, draft services.SubmissionDraft, idemKey string) (*domain.Submission, bool, error)
	List(ctx context.Context, page, pageSize int) ([]domain.Submission, int64, error)
	Detail(ctx context.Context, slug, unit string, servings int) (*domain.Recipe, error)
	Stats(ctx context.Context) (int64, *time.Time, error)
}

// ProfileAPI reads and writes the caller's profile.
type ProfileAPI interface {
	Save(ctx context.Context, sess auth.Session, in services.ProfileInput) (*domain.UserProfile, error)
	Get(ctx context.Context, sess auth.Session) (*domain.UserProfile, error)
}

// Subscriber is the read half of a live.Broker.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string) (<-chan []byte, func(), error)
}

// Deps wires the handlers to their services.
type Deps struct {
	Catalog     CatalogAPI
	Ratings     RatingAPI
	Favorites   FavoriteAPI
	Submissions SubmissionAPI
	Profiles    ProfileAPI
	Live        Subscriber
	// LivePing is the websocket keepalive interval. Zero uses 30s.
	LivePing time.Duration
}

// Handlers bundles all HTTP endpoints.
type Handlers struct {
	catalog     CatalogAPI
	ratings     RatingAPI
	favorites   FavoriteAPI
	submissions SubmissionAPI
	profiles    ProfileAPI
	live        Subscriber

	upgrader websocket.Upgrader
	livePing time.Duration
}

// New constructs Handlers.
func New(d Deps) *Handlers {
	ping := d.LivePing
	if ping <= 0 {
		ping = 30 * time.Second
	}
	return &Handlers{
		catalog:     d.Catalog,
		ratings:     d.Ratings,
		favorites:   d.Favorites,
		submissions: d.Submissions,
		profiles:    d.Profiles,
		live:        d.Live,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Live streams are read-only.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		livePing: ping,
	}
}

//
// Helpers
//

// session returns the caller resolved by middleware.Authenticate.
func session(c *gin.Context) auth.Session { return middleware.SessionFrom(c) }

// clampPagination parses page and page_size (default 20, max 100).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// conversion reads ?unit=&servings=. A servings value that is not a number
// is passed on as -1 so validation rejects it instead of silently
// defaulting.
func conversion(c *gin.Context) (unit string, servings int) {
	unit = c.Query("unit")
	raw := strings.TrimSpace(c.Query("servings"))
	if raw == "" {
		return unit, 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return unit, -1
	}
	return unit, n
}

// selection parses the filter query parameters.
func selection(c *gin.Context) (search.Selection, bool) {
	sel, err := search.ParseSelection(c.Request.URL.Query())
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeValidation, err.Error())
		return search.Selection{}, false
	}
	return sel, true
}

// weakETag writes a weak ETag and reports whether If-None-Match matched, in
// which case a 304 has been written.
func weakETag(c *gin.Context, etag string) bool {
	c.Header("ETag", etag)
	if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
		c.Status(http.StatusNotModified)
		return true
	}
	return false
}
