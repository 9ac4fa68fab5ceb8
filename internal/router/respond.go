package router

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Skufu/riskcalc/internal/clinical"
)

const (
	codeInvalidPayload = "invalid_payload"
	codeTooLarge       = "payload_too_large"
	codeValidation     = "validation_failed"
	codeNotApplicable  = "not_applicable"
	codeNoResult       = "no_result"
	codeNotFound       = "not_found"
	codeNoActiveCase   = "no_active_case"
	codeStore          = "store_unavailable"
)

// readJSON decodes the request body into dst and returns the raw bytes so the
// inputs can be saved with a result.
func readJSON(c *gin.Context, log *zap.Logger, dst any) ([]byte, bool) {
	raw, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.Warn("request body too large", zap.String("path", c.FullPath()))
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": codeTooLarge})
			return nil, false
		}
		log.Warn("read request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": codeInvalidPayload})
		return nil, false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		log.Warn("invalid payload", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": codeInvalidPayload, "detail": err.Error()})
		return nil, false
	}
	return raw, true
}

func validationFailed(c *gin.Context, log *zap.Logger, err error) {
	log.Warn("validation failed", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusUnprocessableEntity, gin.H{"error": codeValidation, "detail": err.Error()})
}

// calcFailed maps a calculator error onto the response.
func calcFailed(c *gin.Context, log *zap.Logger, err error) {
	var na *clinical.NotApplicableError
	switch {
	case errors.As(err, &na):
		body := gin.H{"error": codeNotApplicable, "reason": na.Reason}
		if na.Suggest != "" {
			body["suggest"] = na.Suggest
		}
		c.JSON(http.StatusUnprocessableEntity, body)
	case errors.Is(err, clinical.ErrNoResult):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": codeNoResult})
	default:
		validationFailed(c, log, err)
	}
}
