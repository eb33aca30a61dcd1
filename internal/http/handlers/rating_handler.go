package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// VoteRequest is the body of POST /ratings/{id}.
type VoteRequest struct {
	Star int `json:"star" example:"5"`
}

// GetRating godoc
// @ID          getRating
// @Summary     Rating histogram
// @Description Vote counts per star with total and average (one decimal). Unknown recipes have all zeros.
// @Tags        Ratings
// @Produce     json
// @Param       id  path  string  true  "Recipe ID"  example(11007)
// @Success     200  {object}  domain.RatingSnapshot
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /ratings/{id} [get]
func (h *Handlers) GetRating(c *gin.Context) {
	snap, err := h.ratings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, snap)
}

// Vote godoc
// @ID          vote
// @Summary     Record a vote
// @Description Adds one vote for star (1 to 5). Votes accumulate; live subscribers receive the new histogram.
// @Tags        Ratings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  string               true  "Recipe ID"  example(11007)
// @Param       body  body  handlers.VoteRequest  true  "Vote"
// @Success     200  {object}  domain.RatingSnapshot
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     401  {object}  handlers.ErrorResponse
// @Router      /ratings/{id} [post]
func (h *Handlers) Vote(c *gin.Context) {
	if !session(c).Authenticated() {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
		return
	}
	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "body must be {\"star\": 1..5}")
		return
	}
	snap, err := h.ratings.RecordVote(c.Request.Context(), session(c), c.Param("id"), req.Star)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, snap)
}
