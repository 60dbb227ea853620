package schema

import (
	"errors"
	"strconv"
	"strings"
)

// Field binds a name to its validation rule inside a schema.
//
// A field with HasDefault substitutes Default for absent or blank input
// before validating. An Optional field is skipped entirely when absent;
// when present it must still validate. Any other field sees absent input
// as the empty string, which its validator rejects as required.
type Field struct {
	Name       string
	Validate   Validator
	Optional   bool
	Default    string
	HasDefault bool
}

// apply runs every field rule, collecting all failures rather than
// stopping at the first. In strict mode input keys outside the schema
// are failures too.
func apply(v Values, fields []Field, strict bool) (map[string]string, Errors) {
	var errs Errors
	out := make(map[string]string, len(fields))

	if strict {
		known := make(map[string]bool, len(fields))
		for _, f := range fields {
			known[f.Name] = true
		}
		for key := range v {
			if !known[key] {
				errs = append(errs, FieldError{Field: key, Message: "Unrecognized field"})
			}
		}
	}

	for _, f := range fields {
		raw, present := v[f.Name]
		blank := !present || strings.TrimSpace(raw) == ""

		switch {
		case blank && f.HasDefault:
			raw = f.Default
		case !present && f.Optional:
			continue
		}

		norm, err := f.Validate(raw)
		if err != nil {
			errs = append(errs, FieldError{Field: f.Name, Message: err.Error()})
			continue
		}
		out[f.Name] = norm
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

// FormSubmission is the validated public survey form, ratings already
// coerced to integers.
type FormSubmission struct {
	FirstName       string
	Surname         string
	Email           string
	Q1, Q2, Q3      int
	ButterflyColour string
	Comments        string
}

var formFields = []Field{
	{Name: "firstname", Validate: Name},
	{Name: "surname", Validate: Name},
	{Name: "email", Validate: Email},
	{Name: "q1radio", Validate: Rating},
	{Name: "q2radio", Validate: Rating},
	{Name: "q3radio", Validate: Rating},
	{Name: "butterflyColour", Validate: Colour, HasDefault: true},
	{Name: "comments", Validate: Comment},
}

// ParseFormSubmission validates the public form body. Unknown fields are
// rejected, not dropped.
func ParseFormSubmission(v Values) (FormSubmission, Errors) {
	out, errs := apply(v, formFields, true)
	if errs != nil {
		return FormSubmission{}, errs
	}

	q1, _ := strconv.Atoi(out["q1radio"])
	q2, _ := strconv.Atoi(out["q2radio"])
	q3, _ := strconv.Atoi(out["q3radio"])
	return FormSubmission{
		FirstName:       out["firstname"],
		Surname:         out["surname"],
		Email:           out["email"],
		Q1:              q1,
		Q2:              q2,
		Q3:              q3,
		ButterflyColour: out["butterflyColour"],
		Comments:        out["comments"],
	}, nil
}

// SurveyCreate is a validated API create payload. Ratings stay as the
// digit strings the surveys table stores.
type SurveyCreate struct {
	FirstName       string
	Surname         string
	Email           string
	Address         string
	Suburb          string
	Postcode        string
	Phone           string
	Q1, Q2, Q3      string
	ButterflyColour string
	Comments        string
}

var apiCreateFields = []Field{
	{Name: "firstname", Validate: Name},
	{Name: "surname", Validate: Name},
	{Name: "email", Validate: Email},
	{Name: "address", Validate: Address},
	{Name: "suburb", Validate: Suburb},
	{Name: "postcode", Validate: Postcode},
	{Name: "phone", Validate: Phone},
	{Name: "q1radio", Validate: RatingLabeled("Q1")},
	{Name: "q2radio", Validate: RatingLabeled("Q2")},
	{Name: "q3radio", Validate: RatingLabeled("Q3")},
	{Name: "butterflyColour", Validate: Colour, HasDefault: true},
	{Name: "comments", Validate: Comment},
}

func ParseSurveyCreate(v Values) (SurveyCreate, Errors) {
	out, errs := apply(v, apiCreateFields, false)
	if errs != nil {
		return SurveyCreate{}, errs
	}
	return SurveyCreate{
		FirstName:       out["firstname"],
		Surname:         out["surname"],
		Email:           out["email"],
		Address:         out["address"],
		Suburb:          out["suburb"],
		Postcode:        out["postcode"],
		Phone:           out["phone"],
		Q1:              out["q1radio"],
		Q2:              out["q2radio"],
		Q3:              out["q3radio"],
		ButterflyColour: out["butterflyColour"],
		Comments:        out["comments"],
	}, nil
}

// SurveyUpdate is a validated partial update: only the fields that were
// supplied, already normalized, keyed by API field name.
type SurveyUpdate struct {
	Fields map[string]string
}

var apiUpdateFields = []Field{
	{Name: "firstname", Validate: Name, Optional: true},
	{Name: "surname", Validate: Name, Optional: true},
	{Name: "email", Validate: Email, Optional: true},
	{Name: "address", Validate: Address, Optional: true},
	{Name: "suburb", Validate: Suburb, Optional: true},
	{Name: "postcode", Validate: Postcode, Optional: true},
	{Name: "phone", Validate: Phone, Optional: true},
	{Name: "q1radio", Validate: RatingLabeled("Q1"), Optional: true},
	{Name: "q2radio", Validate: RatingLabeled("Q2"), Optional: true},
	{Name: "q3radio", Validate: RatingLabeled("Q3"), Optional: true},
	{Name: "butterflyColour", Validate: Colour, Optional: true},
	{Name: "comments", Validate: Comment, Optional: true},
}

func ParseSurveyUpdate(v Values) (SurveyUpdate, Errors) {
	out, errs := apply(v, apiUpdateFields, false)
	if errs != nil {
		return SurveyUpdate{}, errs
	}
	if len(out) == 0 {
		return SurveyUpdate{}, Errors{{Field: "body", Message: "At least one field must be provided for update"}}
	}
	return SurveyUpdate{Fields: out}, nil
}

// ParseID validates a route id parameter: digits only, coerced to int.
func ParseID(v Values) (int, Errors) {
	raw := v["id"]
	if !reDigits.MatchString(raw) {
		return 0, Errors{{Field: "id", Message: "Survey ID must be a positive number"}}
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, Errors{{Field: "id", Message: "Survey ID must be a positive number"}}
	}
	return id, nil
}

// ListQuery is a validated API listing query. Absent or blank values
// take defaults; present but invalid values are errors, unlike the
// page-rendering route which clamps instead.
type ListQuery struct {
	Page   int
	Limit  int
	SortBy string
	Order  string
}

// SortFields is the whitelist of sortable surveys columns.
var SortFields = []string{"id", "created_at", "firstname", "surname", "email"}

var listFields = []Field{
	{Name: "page", Validate: pageRule, Default: "1", HasDefault: true},
	{Name: "limit", Validate: limitRule, Default: "10", HasDefault: true},
	{Name: "sortBy", Validate: sortByRule, Default: "created_at", HasDefault: true},
	{Name: "order", Validate: orderRule, Default: "desc", HasDefault: true},
}

func ParseListQuery(v Values) (ListQuery, Errors) {
	out, errs := apply(v, listFields, false)
	if errs != nil {
		return ListQuery{}, errs
	}
	page, _ := strconv.Atoi(out["page"])
	limit, _ := strconv.Atoi(out["limit"])
	return ListQuery{
		Page:   page,
		Limit:  limit,
		SortBy: out["sortBy"],
		Order:  out["order"],
	}, nil
}

func pageRule(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return "", errors.New("Page must be a positive number")
	}
	return strconv.Itoa(n), nil
}

func limitRule(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 100 {
		return "", errors.New("Limit must be between 1 and 100")
	}
	return strconv.Itoa(n), nil
}

func sortByRule(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	for _, f := range SortFields {
		if s == f {
			return s, nil
		}
	}
	return "", errors.New("Sort field must be one of: " + strings.Join(SortFields, ", "))
}

func orderRule(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s != "asc" && s != "desc" {
		return "", errors.New("Order must be 'asc' or 'desc'")
	}
	return s, nil
}
