package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkinclub/butterfly-survey/schema"
)

func validForm() schema.Values {
	return schema.Values{
		"firstname":       "John",
		"surname":         "Doe",
		"email":           "john.doe@deakin.edu.au",
		"q1radio":         "5",
		"q2radio":         "4",
		"q3radio":         "3",
		"butterflyColour": "blue",
		"comments":        "nice",
	}
}

func TestParseFormSubmission(t *testing.T) {
	sub, errs := schema.ParseFormSubmission(validForm())
	require.Empty(t, errs)
	assert.Equal(t, schema.FormSubmission{
		FirstName:       "John",
		Surname:         "Doe",
		Email:           "john.doe@deakin.edu.au",
		Q1:              5,
		Q2:              4,
		Q3:              3,
		ButterflyColour: "blue",
		Comments:        "nice",
	}, sub)
}

func TestParseFormSubmissionOptionalColour(t *testing.T) {
	v := validForm()
	delete(v, "butterflyColour")

	sub, errs := schema.ParseFormSubmission(v)
	require.Empty(t, errs)
	assert.Equal(t, "", sub.ButterflyColour)
}

func TestParseFormSubmissionRejectsUnknownFields(t *testing.T) {
	v := validForm()
	v["admin"] = "true"

	_, errs := schema.ParseFormSubmission(v)
	require.Len(t, errs, 1)
	assert.Equal(t, "admin", errs[0].Field)
	assert.Equal(t, "Unrecognized field", errs[0].Message)
}

func TestParseFormSubmissionCollectsAllFailures(t *testing.T) {
	v := validForm()
	v["email"] = "john.doe@gmail.com"
	v["q1radio"] = "6"
	v["comments"] = ""

	_, errs := schema.ParseFormSubmission(v)
	require.Len(t, errs, 3)

	fields := make(map[string]string, len(errs))
	for _, e := range errs {
		fields[e.Field] = e.Message
	}
	assert.Equal(t, "Email must be a @deakin.edu.au address", fields["email"])
	assert.Equal(t, "Must be a valid rating from 1 to 5", fields["q1radio"])
	assert.Equal(t, "Comment is required", fields["comments"])
}

func TestFormErrorMessagesNameTheQuestion(t *testing.T) {
	v := validForm()
	v["q2radio"] = "9"

	_, errs := schema.ParseFormSubmission(v)
	require.Len(t, errs, 1)
	assert.Equal(t,
		"Error in field 'SURVEY QUESTION #2': Must be a valid rating from 1 to 5",
		errs.Messages()[0])
}

func validCreate() schema.Values {
	return schema.Values{
		"firstname": "John",
		"surname":   "Doe",
		"email":     "john.doe@deakin.edu.au",
		"address":   "1 Butterfly Lane",
		"suburb":    "Geelong",
		"postcode":  "3216",
		"phone":     "+61 3 1234 5678",
		"q1radio":   "5",
		"q2radio":   "4",
		"q3radio":   "3",
		"comments":  "nice",
	}
}

func TestParseSurveyCreate(t *testing.T) {
	c, errs := schema.ParseSurveyCreate(validCreate())
	require.Empty(t, errs)
	assert.Equal(t, "John", c.FirstName)
	// API ratings stay as digit strings
	assert.Equal(t, "5", c.Q1)
	assert.Equal(t, "3216", c.Postcode)
}

func TestParseSurveyCreateInvalidRating(t *testing.T) {
	v := validCreate()
	v["q1radio"] = "6"

	_, errs := schema.ParseSurveyCreate(v)
	require.Len(t, errs, 1)
	assert.Equal(t, "Q1 rating must be 1-5", errs[0].Message)
}

func TestParseSurveyUpdate(t *testing.T) {
	u, errs := schema.ParseSurveyUpdate(schema.Values{"suburb": " Geelong "})
	require.Empty(t, errs)
	assert.Equal(t, map[string]string{"suburb": "Geelong"}, u.Fields)
}

func TestParseSurveyUpdateRequiresAField(t *testing.T) {
	_, errs := schema.ParseSurveyUpdate(schema.Values{})
	require.Len(t, errs, 1)
	assert.Equal(t, "At least one field must be provided for update", errs[0].Message)
}

func TestParseSurveyUpdateValidatesPresentFields(t *testing.T) {
	_, errs := schema.ParseSurveyUpdate(schema.Values{
		"email":    "someone@gmail.com",
		"postcode": "1234",
	})
	require.Len(t, errs, 1)
	assert.Equal(t, "email", errs[0].Field)
}

func TestParseID(t *testing.T) {
	id, errs := schema.ParseID(schema.Values{"id": "42"})
	require.Empty(t, errs)
	assert.Equal(t, 42, id)

	for _, bad := range []string{"abc", "-1", "1.5", ""} {
		_, errs = schema.ParseID(schema.Values{"id": bad})
		require.Len(t, errs, 1, bad)
		assert.Equal(t, "Survey ID must be a positive number", errs[0].Message)
	}
}

func TestParseListQueryDefaults(t *testing.T) {
	q, errs := schema.ParseListQuery(schema.Values{})
	require.Empty(t, errs)
	assert.Equal(t, schema.ListQuery{Page: 1, Limit: 10, SortBy: "created_at", Order: "desc"}, q)

	// blank values also take defaults
	q, errs = schema.ParseListQuery(schema.Values{"page": "", "sortBy": ""})
	require.Empty(t, errs)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, "created_at", q.SortBy)
}

func TestParseListQueryStrict(t *testing.T) {
	_, errs := schema.ParseListQuery(schema.Values{"page": "0"})
	require.Len(t, errs, 1)
	assert.Equal(t, "Page must be a positive number", errs[0].Message)

	_, errs = schema.ParseListQuery(schema.Values{"limit": "101"})
	require.Len(t, errs, 1)
	assert.Equal(t, "Limit must be between 1 and 100", errs[0].Message)

	_, errs = schema.ParseListQuery(schema.Values{"sortBy": "password"})
	require.Len(t, errs, 1)
	assert.Equal(t, "sortBy", errs[0].Field)

	_, errs = schema.ParseListQuery(schema.Values{"order": "sideways"})
	require.Len(t, errs, 1)
	assert.Equal(t, "Order must be 'asc' or 'desc'", errs[0].Message)
}

func TestParseListQueryAcceptsBounds(t *testing.T) {
	q, errs := schema.ParseListQuery(schema.Values{
		"page": "3", "limit": "100", "sortBy": "email", "order": "asc",
	})
	require.Empty(t, errs)
	assert.Equal(t, schema.ListQuery{Page: 3, Limit: 100, SortBy: "email", Order: "asc"}, q)
}
