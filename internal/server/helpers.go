package server

import (
	"errors"
	"strings"
	"unicode"

	"blogapi/internal/middleware"
	"blogapi/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten signals that a helper already committed the response.
// Handlers return nil when they see it so the ErrorHandler does not overwrite it.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const maxPaginationLimit = 100

// parsePagination reads limit and offset. A missing or non-positive limit
// falls back to defaultLimit, where zero leaves the listing unbounded.
// Limits sent by the client are capped at maxPaginationLimit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", 0)
	switch {
	case limit <= 0:
		limit = defaultLimit
	case limit > maxPaginationLimit:
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{Limit: limit, Offset: offset}
}

// parseID extracts a route parameter as a positive uint. On failure it writes
// a 400 response and returns errResponseWritten.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewBadRequestError("invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam turns "postId" into "post id".
func humanizeParam(param string) string {
	if param == "id" {
		return "id"
	}
	var words []string
	start := 0
	for i, r := range param {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, param[start:i])
			start = i
		}
	}
	words = append(words, param[start:])
	return strings.ToLower(strings.Join(words, " "))
}

// currentUserID returns the id AuthRequired stored for the caller.
func currentUserID(c *fiber.Ctx) uint {
	userID, _ := c.Locals(middleware.LocalUserID).(uint)
	return userID
}

// parseBody decodes the JSON body into dst, answering 400 when it is malformed.
func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewBadRequestError("invalid request body"))
		return errResponseWritten
	}
	return nil
}

// respond writes a success envelope with status 200.
func respond(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(models.Success(message, data))
}
