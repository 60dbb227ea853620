package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dkinclub/butterfly-survey/model"
	"github.com/dkinclub/butterfly-survey/schema"
)

// ResponseStore owns the legacy survey table the public form writes to.
// The table is append-only.
type ResponseStore struct {
	db *sql.DB
}

func NewResponseStore(db *sql.DB) *ResponseStore {
	return &ResponseStore{db: db}
}

// responseColumns maps public sort names to the legacy column names
// (the table predates the firstname/surname naming).
var responseColumns = map[string]string{
	"date":      "date",
	"firstname": "fname",
	"surname":   "sname",
	"email":     "email",
}

// Insert appends a form submission, stamping it with the current time.
func (s *ResponseStore) Insert(ctx context.Context, sub schema.FormSubmission) (model.Response, error) {
	resp := model.Response{
		FName:   sub.FirstName,
		SName:   sub.Surname,
		Email:   sub.Email,
		Date:    time.Now().UTC().Format(time.RFC3339),
		Q1:      sub.Q1,
		Q2:      sub.Q2,
		Q3:      sub.Q3,
		Colour:  sub.ButterflyColour,
		Comment: sub.Comments,
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO survey (fname, sname, email, date, q1, q2, q3, colour, comment)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		resp.FName, resp.SName, resp.Email, resp.Date,
		resp.Q1, resp.Q2, resp.Q3, resp.Colour, resp.Comment,
	).Scan(&resp.ID)
	if err != nil {
		return model.Response{}, fmt.Errorf("insert response: %w", err)
	}

	return resp, nil
}

// Averages summarizes every response for the results view.
type Averages struct {
	Count      int
	Q1, Q2, Q3 float64
}

func (a Averages) Total() float64 {
	return (a.Q1 + a.Q2 + a.Q3) / 3
}

func (s *ResponseStore) Averages(ctx context.Context) (Averages, error) {
	var avg Averages
	var q1, q2, q3 sql.NullFloat64

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			ROUND(AVG(q1), 2), ROUND(AVG(q2), 2), ROUND(AVG(q3), 2)
		FROM survey`,
	).Scan(&avg.Count, &q1, &q2, &q3)
	if err != nil {
		return Averages{}, fmt.Errorf("response averages: %w", err)
	}

	avg.Q1, avg.Q2, avg.Q3 = q1.Float64, q2.Float64, q3.Float64
	return avg, nil
}

// Page returns one page of responses plus the unpaged total.
func (s *ResponseStore) Page(ctx context.Context, req PageRequest) ([]model.Response, int, error) {
	sortBy, ok := responseColumns[req.SortBy]
	if !ok {
		sortBy = "date"
	}
	order := "DESC"
	if strings.EqualFold(req.Order, "asc") {
		order = "ASC"
	}

	var total int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM survey`).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count responses: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, fname, sname, email, date, q1, q2, q3, colour, comment
		FROM survey
		ORDER BY `+sortBy+` `+order+`
		LIMIT ? OFFSET ?`,
		req.Limit, req.offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("get responses: %w", err)
	}
	defer rows.Close()

	responses := []model.Response{}
	for rows.Next() {
		var resp model.Response
		var colour, comment sql.NullString
		err = rows.Scan(
			&resp.ID, &resp.FName, &resp.SName, &resp.Email, &resp.Date,
			&resp.Q1, &resp.Q2, &resp.Q3, &colour, &comment,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan response: %w", err)
		}
		resp.Colour, resp.Comment = colour.String, comment.String
		responses = append(responses, resp)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("get responses: %w", err)
	}

	return responses, total, nil
}
