package schema

import (
	"fmt"
	"strings"
)

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors aggregates every field failure found while parsing one input.
type Errors []FieldError

func (errs Errors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Field + ": " + e.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Messages renders the page-facing error list, one line per failure.
func (errs Errors) Messages() []string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = fmt.Sprintf("Error in field '%s': %s", Label(e.Field), e.Message)
	}
	return msgs
}

var displayNames = map[string]string{
	"firstname":       "First Name",
	"surname":         "Surname",
	"email":           "Email",
	"address":         "Address",
	"suburb":          "Suburb",
	"postcode":        "Postcode",
	"phone":           "Phone",
	"q1radio":         "Survey Question #1",
	"q2radio":         "Survey Question #2",
	"q3radio":         "Survey Question #3",
	"comments":        "Comment",
	"butterflyColour": "Butterfly Colour",
	"id":              "Survey ID",
	"page":            "Page",
	"limit":           "Limit",
	"sortBy":          "Sort By",
	"order":           "Order",
}

// Label resolves a field name to its uppercased display name.
func Label(field string) string {
	if name, ok := displayNames[field]; ok {
		return strings.ToUpper(name)
	}
	return strings.ToUpper(field)
}
