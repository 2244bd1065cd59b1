package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/nano-blog/backend/internal/uploads"
	"github.com/labstack/echo/v4"
)

// saveUpload stores the file sent in field and returns its reference.
// A form without that file yields an empty reference and no error.
func saveUpload(c echo.Context, store uploads.Store, field string) (string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", err
	}
	return store.Save(c.Request().Context(), file)
}
