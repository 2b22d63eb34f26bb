package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"adept/internal/errors"
)

// guidance maps error codes to the operator-facing hint shown next to the
// error message. Codes without a hint fall back to the message alone.
var guidance = map[string]string{
	errors.CodeMissingCredential:  "Set GEMINI_API_KEY in the environment or .env file and restart.",
	errors.CodeAuthError:          "The configured GEMINI_API_KEY was rejected. Check the key and its project permissions.",
	errors.CodeServiceUnavailable: "The generative service could not be reached. Try again in a moment.",
	errors.CodeEmptyResponse:      "The model returned nothing. Retry the request.",
	errors.CodeMalformedResponse:  "The model returned an unusable answer. Retry the request.",
	errors.CodeBusy:               "A generation call is already running for this session. Wait for it to finish.",
}

func statusForCode(code string) int {
	switch code {
	case errors.CodeInvalidInput, errors.CodeValidationError:
		return http.StatusBadRequest
	case errors.CodeMissingCredential, errors.CodeAuthError:
		return http.StatusUnauthorized
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeBusy:
		return http.StatusConflict
	case errors.CodeEmptyResponse, errors.CodeMalformedResponse, errors.CodeServiceUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError translates an application error into a JSON error response
func writeError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	body := gin.H{
		"code":  code,
		"error": err.Error(),
	}
	if hint, ok := guidance[code]; ok {
		body["guidance"] = hint
	}
	c.JSON(statusForCode(code), body)
}
