package schema

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// A Validator normalizes one raw value or reports why it is invalid.
type Validator func(raw string) (string, error)

// EmailDomain is the only domain accepted for respondent emails. This is
// a business rule of the club, not generic email validation.
const EmailDomain = "@deakin.edu.au"

var (
	reName     = regexp.MustCompile(`^[a-zA-ZÀ-ÿ\s'-]+$`)
	reEmail    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	reRating   = regexp.MustCompile(`^[1-5]$`)
	rePostcode = regexp.MustCompile(`^\d{4}$`)
	rePhone    = regexp.MustCompile(`^[\d\s+\-()]+$`)
	reDigits   = regexp.MustCompile(`^\d+$`)
)

func Name(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", errors.New("This field is required")
	}
	if utf8.RuneCountInString(s) > 50 {
		return "", errors.New("Name must be less than 50 characters")
	}
	if !reName.MatchString(s) {
		return "", errors.New("Name can only contain letters, spaces, hyphens and apostrophes")
	}
	return s, nil
}

func Email(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", errors.New("Email is required")
	}
	if !reEmail.MatchString(s) {
		return "", errors.New("Invalid email format")
	}
	if !strings.HasSuffix(s, EmailDomain) {
		return "", errors.New("Email must be a " + EmailDomain + " address")
	}
	return s, nil
}

// Rating accepts a single digit 1-5, as submitted by the form radios.
func Rating(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", errors.New("Rating is required")
	}
	if !reRating.MatchString(s) {
		return "", errors.New("Must be a valid rating from 1 to 5")
	}
	return s, nil
}

// RatingLabeled is the API-side rating rule, with the question name
// baked into the message.
func RatingLabeled(question string) Validator {
	msg := question + " rating must be 1-5"
	return func(raw string) (string, error) {
		if !reRating.MatchString(raw) {
			return "", errors.New(msg)
		}
		return raw, nil
	}
}

func Comment(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", errors.New("Comment is required")
	}
	if utf8.RuneCountInString(s) > 1000 {
		return "", errors.New("Comment must be less than 1000 characters")
	}
	return s, nil
}

// Colour never fails: the butterfly colour is optional and anything the
// respondent typed is kept as-is.
func Colour(raw string) (string, error) {
	return strings.TrimSpace(raw), nil
}

func Address(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", errors.New("Address is required")
	}
	if utf8.RuneCountInString(s) > 200 {
		return "", errors.New("Address too long")
	}
	return s, nil
}

func Suburb(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", errors.New("Suburb is required")
	}
	if utf8.RuneCountInString(s) > 50 {
		return "", errors.New("Suburb too long")
	}
	return s, nil
}

func Postcode(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if !rePostcode.MatchString(s) {
		return "", errors.New("Postcode must be 4 digits")
	}
	return s, nil
}

func Phone(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if !rePhone.MatchString(s) {
		return "", errors.New("Invalid phone number format")
	}
	return s, nil
}
