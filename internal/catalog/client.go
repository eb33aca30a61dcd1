// Package catalog talks to the public TheCocktailDB JSON API and keeps an
// in-memory, name-sorted snapshot of its recipes.
//
// Every upstream request goes through a circuit breaker so a failing catalog
// degrades to fast errors instead of piling up slow requests. Breaker state
// changes are logged and exported as Prometheus metrics.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-cocktail-backend/internal/domain"
	"github.com/tbourn/go-cocktail-backend/internal/observability"
)

// DefaultBaseURL is the public v1 endpoint with the shared test key.
const DefaultBaseURL = "https://www.thecocktaildb.com/api/json/v1/1/"

// maxBody caps a single upstream response.
const maxBody = 8 << 20

var (
	// ErrNotFound is returned by Lookup and Ingredient when the catalog has
	// no record for the requested key.
	ErrNotFound = errors.New("catalog: not found")

	// ErrUnavailable wraps transport failures, non-2xx statuses and breaker
	// rejections.
	ErrUnavailable = errors.New("catalog: unavailable")
)

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithBreakerSettings overrides the circuit breaker trip policy. Name and
// OnStateChange are always set by the client.
func WithBreakerSettings(st gobreaker.Settings) ClientOption {
	return func(c *Client) { c.breaker = st }
}

// Client is a small TheCocktailDB client. It is safe for concurrent use.
type Client struct {
	base    *url.URL
	http    *http.Client
	breaker gobreaker.Settings
	cb      *gobreaker.CircuitBreaker[[]byte]
}

const breakerName = "catalog"

// NewClient builds a Client for baseURL (DefaultBaseURL when empty) with a
// per-request timeout.
func NewClient(baseURL string, timeout time.Duration, opts ...ClientOption) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("catalog base url: %w", err)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		base: u,
		http: &http.Client{Timeout: timeout},
		breaker: gobreaker.Settings{
			MaxRequests: 3,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				if counts.Requests < 10 {
					return false
				}
				return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	c.breaker.Name = breakerName
	c.breaker.OnStateChange = onStateChange
	c.cb = gobreaker.NewCircuitBreaker[[]byte](c.breaker)
	observability.BreakerState.WithLabelValues(breakerName).Set(0)
	return c, nil
}

func onStateChange(name string, from, to gobreaker.State) {
	log.Warn().
		Str("breaker", name).
		Str("from", from.String()).
		Str("to", to.String()).
		Msg("circuit breaker state change")
	observability.BreakerState.WithLabelValues(name).Set(stateValue(to))
	observability.BreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// BreakerState reports the current breaker state ("closed", "half-open", "open").
func (c *Client) BreakerState() string { return c.cb.State().String() }

// SearchByFirstLetter returns every recipe whose name starts with letter.
func (c *Client) SearchByFirstLetter(ctx context.Context, letter string) ([]domain.Recipe, error) {
	body, err := c.get(ctx, "search_letter", "search.php", url.Values{"f": {letter}})
	if err != nil {
		return nil, err
	}
	return recipesFrom(body)
}

// Lookup fetches one recipe by id.
func (c *Client) Lookup(ctx context.Context, id string) (*domain.Recipe, error) {
	body, err := c.get(ctx, "lookup", "lookup.php", url.Values{"i": {id}})
	if err != nil {
		return nil, err
	}
	rs, err := recipesFrom(body)
	if err != nil {
		return nil, err
	}
	if len(rs) == 0 {
		return nil, ErrNotFound
	}
	return &rs[0], nil
}

// Random fetches one random recipe.
func (c *Client) Random(ctx context.Context) (*domain.Recipe, error) {
	body, err := c.get(ctx, "random", "random.php", nil)
	if err != nil {
		return nil, err
	}
	rs, err := recipesFrom(body)
	if err != nil {
		return nil, err
	}
	if len(rs) == 0 {
		return nil, ErrNotFound
	}
	return &rs[0], nil
}

// Ingredients lists every ingredient name the catalog knows.
func (c *Client) Ingredients(ctx context.Context) ([]string, error) {
	body, err := c.get(ctx, "ingredients", "list.php", url.Values{"i": {"list"}})
	if err != nil {
		return nil, err
	}
	rows, err := decodeDrinks(body)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		if n := strings.TrimSpace(row.str("strIngredient1")); n != "" {
			out = append(out, n)
		}
	}
	return out, nil
}

// Ingredient fetches the description of one ingredient by name.
func (c *Client) Ingredient(ctx context.Context, name string) (*domain.IngredientInfo, error) {
	body, err := c.get(ctx, "ingredient", "search.php", url.Values{"i": {name}})
	if err != nil {
		return nil, err
	}
	rows, err := decodeIngredientInfos(body)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	info := rows[0].toInfo()
	return &info, nil
}

func recipesFrom(body []byte) ([]domain.Recipe, error) {
	rows, err := decodeDrinks(body)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Recipe, 0, len(rows))
	for _, row := range rows {
		r := row.toRecipe()
		if r.ID == "" {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// get performs one breaker-guarded GET and returns the raw body.
func (c *Client) get(ctx context.Context, op, path string, q url.Values) ([]byte, error) {
	tr := otel.Tracer("catalog/Client")
	ctx, span := tr.Start(ctx, op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("catalog.path", path),
			attribute.String("catalog.query", q.Encode()),
		),
	)
	defer span.End()

	u := c.base.ResolveReference(&url.URL{Path: path})
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}

	body, err := c.cb.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
			return nil, fmt.Errorf("status %d", resp.StatusCode)
		}
		return io.ReadAll(io.LimitReader(resp.Body, maxBody))
	})
	if err != nil {
		outcome := "failure"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			outcome = "rejected"
		}
		observability.CatalogFetches.WithLabelValues(op, outcome).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
	}
	observability.CatalogFetches.WithLabelValues(op, "success").Inc()
	return body, nil
}
