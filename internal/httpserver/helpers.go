package httpserver

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/flower_shop/internal/middleware/auth"
	"github.com/Skotchmaster/flower_shop/internal/service"
)

func identity(c echo.Context) (auth.Identity, error) {
	id, ok := auth.IdentityFrom(c.Request().Context())
	if !ok {
		return auth.Identity{}, service.ErrUnauthenticated
	}
	return id, nil
}

func parseUint(s string) (uint, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return 0, errors.New("must be a positive integer")
	}
	return uint(n), nil
}

// formImage opens an optional uploaded file; nil means the field was absent.
func formImage(c echo.Context, field string) (*service.Image, func(), error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, err
	}
	return openImage(fh)
}

func openImage(fh *multipart.FileHeader) (*service.Image, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, err
	}
	img := &service.Image{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Body:        f,
	}
	return img, func() { _ = f.Close() }, nil
}
