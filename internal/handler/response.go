package handler

import (
	"errors"
	"reflect"
	"strings"

	"mkc-office-backend/internal/logger"
	"mkc-office-backend/internal/middleware"
	"mkc-office-backend/internal/model"
	"mkc-office-backend/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report json field names, not Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func Success(c *fiber.Ctx, message string, data interface{}) error {
	return SuccessWithCode(c, fiber.StatusOK, message, data)
}

func SuccessWithCode(c *fiber.Ctx, code int, message string, data interface{}) error {
	body := fiber.Map{"success": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	return c.Status(code).JSON(body)
}

// Fail converts a usecase error into the JSON error envelope.
func Fail(c *fiber.Ctx, err error) error {
	var blocked *usecase.CheckoutBlockedError
	var invalid *usecase.ValidationError

	switch {
	case errors.As(err, &blocked):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success":      false,
			"error":        blocked.Error(),
			"needs_report": blocked.Decision.NeedsReport,
			"decision":     blocked.Decision,
		})
	case errors.As(err, &invalid):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   invalid.Error(),
			"fields":  invalid.Fields,
		})
	case errors.Is(err, usecase.ErrForbidden):
		return errorJSON(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, usecase.ErrUnauthorized):
		return errorJSON(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, usecase.ErrNotFound):
		return errorJSON(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, usecase.ErrValidation):
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, usecase.ErrConflictBlocked):
		return errorJSON(c, fiber.StatusConflict, err.Error())
	}

	logger.Error("request.failed", "method", c.Method(), "path", c.Path(), "request_id", c.Locals(middleware.RequestIDKey), "err", err)
	return errorJSON(c, fiber.StatusInternalServerError, "internal server error")
}

func errorJSON(c *fiber.Ctx, code int, msg string) error {
	return c.Status(code).JSON(fiber.Map{"success": false, "error": msg})
}

// Bind parses the request body into dto and runs its validate tags.
func Bind(c *fiber.Ctx, dto interface{}) error {
	if err := c.BodyParser(dto); err != nil {
		return usecase.NewValidationError("body", "invalid request body")
	}
	if err := validate.Struct(dto); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = describe(fe)
		}
		return &usecase.ValidationError{Fields: fields}
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	case "datetime":
		return "must be a date in YYYY-MM-DD"
	}
	return "is invalid (" + fe.Tag() + ")"
}

// CurrentSession returns the session stored by middleware.Auth.
func CurrentSession(c *fiber.Ctx) model.Session {
	s, _ := c.Locals(middleware.SessionKey).(model.Session)
	return s
}
