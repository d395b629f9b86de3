package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wanderly/wanderly-backend/internal/pkg/pagination"
	"github.com/wanderly/wanderly-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError maps a service error onto the wire. Errors without an
// apierr in their chain are reported as a generic 500.
func RespondError(c *gin.Context, err error) {
	ae := apierr.From(err)
	if ae == nil {
		c.JSON(http.StatusInternalServerError, ErrorEnvelope{
			Error: APIError{Message: "internal error", Code: "internal_error"},
		})
		return
	}
	msg := ae.Error()
	if ae.Code == apierr.CodeUpstream {
		// Provider failures are logged server-side, clients get a
		// generic message.
		msg = "upstream provider error"
	}
	c.JSON(ae.Status, ErrorEnvelope{
		Error: APIError{Message: msg, Code: ae.Code},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// RespondPage wraps a list result in the uniform {data, pagination}
// envelope.
func RespondPage(c *gin.Context, data any, p pagination.Params, total int64) {
	c.JSON(http.StatusOK, pagination.NewEnvelope(data, p, total))
}
