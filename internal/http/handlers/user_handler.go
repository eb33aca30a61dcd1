package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-cocktail-backend/internal/services"
)

// GetProfile godoc
// @ID          getProfile
// @Summary     Current user's profile
// @Tags        Users
// @Produce     json
// @Security    BearerAuth
// @Success     200  {object}  domain.UserProfile
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /me/profile [get]
func (h *Handlers) GetProfile(c *gin.Context) {
	p, err := h.profiles.Get(c.Request.Context(), session(c))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, p)
}

// PutProfile godoc
// @ID          putProfile
// @Summary     Create or update the current user's profile
// @Description isOver18 must be true and fullName non-empty. createdAt is set on the first save only.
// @Tags        Users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       body  body  services.ProfileInput  true  "Profile"
// @Success     200  {object}  domain.UserProfile
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     403  {object}  handlers.ErrorResponse  "Under 18"
// @Router      /me/profile [put]
func (h *Handlers) PutProfile(c *gin.Context) {
	var in services.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	p, err := h.profiles.Save(c.Request.Context(), session(c), in)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, p)
}
