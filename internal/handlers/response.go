package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/socialgraph/backend/internal/apperrors"
	"github.com/anonto42/socialgraph/backend/internal/middleware"
	"github.com/anonto42/socialgraph/backend/internal/services"
	"github.com/labstack/echo/v4"
)

func getUserIDFromContext(c echo.Context) uint {
	return middleware.UserID(c)
}

// paramID parses a positive numeric path parameter.
func paramID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.ErrInvalidID
	}
	return uint(id), nil
}

// pageFromQuery reads ?page= and ?limit=. Missing or out of range values are
// replaced by the feed service.
func pageFromQuery(c echo.Context) services.Page {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return services.Page{Number: page, Size: limit}
}

// bindAndValidate binds the request body into req and runs its validation
// tags through the echo validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	return c.Validate(req)
}

func respondPosts(c echo.Context, page *services.FeedPage) error {
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"posts": page.Posts,
		},
		"meta": echo.Map{
			"currentPage":     page.Page.Number,
			"totalPages":      page.TotalPages(),
			"totalItems":      page.Total,
			"itemsPerPage":    page.Page.Size,
			"hasNextPage":     page.HasNext(),
			"hasPreviousPage": page.Page.Number > 1,
		},
	})
}

func respondData(c echo.Context, status int, data any) error {
	return c.JSON(status, echo.Map{
		"success": true,
		"data":    data,
	})
}

func respondMessage(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{
		"success": true,
		"message": message,
	})
}
