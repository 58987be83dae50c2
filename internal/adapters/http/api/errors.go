package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bnema/mafia-engine/internal/application"
	"github.com/bnema/mafia-engine/internal/domain"
)

var statusByCode = map[string]int{
	"not-found":            http.StatusNotFound,
	"forbidden":            http.StatusForbidden,
	"invalid-phase":        http.StatusConflict,
	"roster-full":          http.StatusConflict,
	"already-joined":       http.StatusConflict,
	"not-in-roster":        http.StatusNotFound,
	"voter-not-alive":      http.StatusUnprocessableEntity,
	"target-not-alive":     http.StatusUnprocessableEntity,
	"no-active-vote":       http.StatusConflict,
	"roles-not-configured": http.StatusConflict,
	"invalid-count":        http.StatusBadRequest,
	"invalid-duration":     http.StatusBadRequest,
}

func (h *handler) fail(c *gin.Context, err error) {
	if errors.Is(err, application.ErrInvalidInput) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid-input", "message": err.Error()})
		return
	}

	code := domain.ErrorCode(err)
	status, ok := statusByCode[code]
	if !ok {
		h.logger.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": code, "message": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid-input", "message": err.Error()})
}
