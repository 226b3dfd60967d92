package utils

import (
	"log/slog"
	"net/http"
	"strconv"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
)

// ParseJSON decodes the body into dest, writing a 400 on failure. Field
// validation is left to the stores so that every caller gets the same rules.
func ParseJSON(r *http.Request, w http.ResponseWriter, dest any) bool {

	if err := DecodeJSONBody(r, dest); err != nil {
		slog.Warn("Invalid request", slog.String("error", err.Error()))
		response.Error(w, appErrors.BadRequestError(err.Error()))
		return false
	}

	return true
}

// PathID parses the int64 path value name, writing a 400 on failure.
func PathID(r *http.Request, w http.ResponseWriter, name string) (int64, bool) {

	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(w, appErrors.AddValidationError(name, "must be a positive integer"))
		return 0, false
	}

	return id, true
}
