package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is a code plus a message safe to show users.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError maps storage and network errors onto codes and messages without
// leaking driver detail. context names the attempted operation, e.g.
// "create food item".
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "Something went wrong"}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: ResourceNotFound, Message: notFoundMessage(context)}
	}

	errLower := strings.ToLower(err.Error())

	// Postgres 23505 / SQLite UNIQUE
	if strings.Contains(errLower, "duplicate key") || strings.Contains(errLower, "unique constraint") {
		if strings.Contains(errLower, "email") {
			return ErrorInfo{Code: AuthEmailAlreadyExists, Message: "This email is already registered"}
		}
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "This record already exists"}
	}

	// Postgres 23503 / SQLite FOREIGN KEY
	if strings.Contains(errLower, "foreign key constraint") {
		if strings.Contains(errLower, "food_item") {
			return ErrorInfo{Code: FoodItemNotFound, Message: "Food item not found"}
		}
		return ErrorInfo{Code: ResourceNotFound, Message: "A referenced record does not exist"}
	}

	// Postgres 23502 / SQLite NOT NULL
	if strings.Contains(errLower, "not-null constraint") || strings.Contains(errLower, "not null constraint") {
		return ErrorInfo{Code: ValidationRequired, Message: "Please fill in all required fields"}
	}

	// Postgres 23514 / SQLite CHECK
	if strings.Contains(errLower, "check constraint") {
		if strings.Contains(errLower, "rating") {
			return ErrorInfo{Code: ReviewInvalidRating, Message: "Rating must be between 1 and 5"}
		}
		return ErrorInfo{Code: ValidationInvalidInput, Message: "Invalid input"}
	}

	if strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "A backing service is unavailable. Please try again later",
		}
	}

	return ErrorInfo{Code: InternalServerError, Message: defaultMessage(context)}
}

func notFoundMessage(context string) string {
	contextLower := strings.ToLower(context)
	switch {
	case strings.Contains(contextLower, "food item"):
		return "Food item not found"
	case strings.Contains(contextLower, "review"):
		return "Review not found"
	case strings.Contains(contextLower, "user"):
		return "User not found"
	}
	return "The requested data was not found"
}

func defaultMessage(context string) string {
	contextLower := strings.ToLower(context)
	switch {
	case strings.Contains(contextLower, "load") || strings.Contains(contextLower, "fetch"):
		return "Failed to load food items."
	case strings.Contains(contextLower, "create") || strings.Contains(contextLower, "add"):
		return "Could not save. Please try again later"
	case strings.Contains(contextLower, "submit"):
		return "Could not submit your review. Please try again later"
	case strings.Contains(contextLower, "delete"):
		return "Could not delete. Please try again later"
	}
	return "Something went wrong. Please try again later"
}

// ParseAndRespond parses err and writes the envelope with statusCode.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	info := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   info.Code,
		Message: info.Message,
	})
}
