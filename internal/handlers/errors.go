package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/anonto42/quill/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// httpError maps a service error to the HTTP response contract.
func httpError(err error) error {
	var cascade *models.PartialCascadeError
	if errors.As(err, &cascade) {
		log.Printf("Warning: partial cascade delete of %s %s: %v", cascade.Resource, cascade.ParentID, cascade.Err)
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]interface{}{
			"error":      cascade.Error(),
			"failed_ids": cascade.FailedIDs,
		})
	}

	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he
		}
		log.Printf("Unhandled error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	switch appErr.Kind {
	case models.KindValidation:
		return echo.NewHTTPError(http.StatusBadRequest, appErr.Message)
	case models.KindAuthentication:
		return echo.NewHTTPError(http.StatusUnauthorized, appErr.Message)
	case models.KindAuthorization:
		return echo.NewHTTPError(http.StatusForbidden, appErr.Message)
	case models.KindNotFound:
		return echo.NewHTTPError(http.StatusNotFound, appErr.Message)
	case models.KindConflict:
		return echo.NewHTTPError(http.StatusConflict, appErr.Message)
	case models.KindTransient:
		log.Printf("Transient error: %v", appErr.Err)
		return echo.NewHTTPError(http.StatusServiceUnavailable, appErr.Message)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, appErr.Message)
	}
}

// bindAndValidate decodes the request body into req and checks its tags.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}

func parseCommentID(c echo.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}
	return uint(id), nil
}

func queryInt64(c echo.Context, name string, def int64) (int64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name+" parameter")
	}
	return v, nil
}
