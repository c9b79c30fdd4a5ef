package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/aura-backend/internal/platform/apierr"
	"github.com/yungbote/aura-backend/internal/platform/ctxutil"
	"github.com/yungbote/aura-backend/internal/platform/logger"
)

const codeInternal = "internal_error"

var errInternal = errors.New("internal server error")

// RespondAPIError writes err using the status and code of the apierr it
// wraps. A 5xx only shows an explicit apierr Message, otherwise the opaque
// internal text; every 5xx cause is logged.
func RespondAPIError(c *gin.Context, log *logger.Logger, err error) {
	ae, ok := apierr.As(err)
	if !ok {
		ae = apierr.Internal(codeInternal, err)
	}
	status := ae.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	msg := errors.New(ae.ClientMessage())
	if status >= 500 {
		if log != nil {
			fields := append([]interface{}{"status", status, "code", ae.Code, "error", err}, ctxutil.LogFields(c.Request.Context())...)
			log.Error("Request failed", fields...)
		}
		if ae.Message == "" || ae.Code == codeInternal || ae.Code == "" {
			msg = errInternal
		}
	}
	RespondError(c, status, ae.Code, msg)
}

// BadJSON reports a request body that failed to bind.
func BadJSON(c *gin.Context, err error) {
	RespondError(c, http.StatusBadRequest, "invalid_request", err)
}
