package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/vireohq/prepview/internal/apperr"
	"github.com/vireohq/prepview/internal/dto"
)

// statusFor maps the error taxonomy onto HTTP statuses. Upstream only shows
// up here from non-scoring operations such as question generation; scoring
// paths absorb it internally.
func statusFor(err error) int {
	kind, ok := apperr.KindOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch kind {
	case apperr.Validation:
		return http.StatusBadRequest
	case apperr.State:
		return http.StatusConflict
	case apperr.Duplicate:
		return http.StatusConflict
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Upstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(ctx *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", ctx.FullPath()).Msg("Unhandled service error")
		ctx.JSON(status, dto.ErrorResponse{Error: "internal server error"})
		return
	}
	ctx.JSON(status, dto.ErrorResponse{Error: err.Error()})
}

// requireUserID reads the owner identity from the user_id query parameter.
// Credential issuance is an external concern; until the auth middleware
// lands, ownership travels with the request.
func requireUserID(ctx *gin.Context) (string, bool) {
	userID := ctx.Query("user_id")
	if userID == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "user_id query parameter is required"})
		return "", false
	}
	return userID, true
}
