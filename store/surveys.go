package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dkinclub/butterfly-survey/model"
	"github.com/dkinclub/butterfly-survey/schema"
)

// SurveyStore owns all access to the surveys table.
type SurveyStore struct {
	db *sql.DB
}

func NewSurveyStore(db *sql.DB) *SurveyStore {
	return &SurveyStore{db: db}
}

// PageRequest selects one page of records. SortBy and Order are checked
// against the column whitelist again inside the store, whatever upstream
// validation already did.
type PageRequest struct {
	Page   int
	Limit  int
	SortBy string
	Order  string
}

func (req PageRequest) offset() int {
	return (req.Page - 1) * req.Limit
}

var surveyColumns = map[string]string{
	"id":         "id",
	"created_at": "created_at",
	"firstname":  "firstname",
	"surname":    "surname",
	"email":      "email",
}

// updatableColumns fixes the set and order of columns a partial update
// may touch.
var updatableColumns = []string{
	"firstname", "surname", "email", "address", "suburb", "postcode",
	"phone", "q1radio", "q2radio", "q3radio", "comments",
}

// Create inserts a validated survey and returns the stored record with
// its generated id and timestamps.
func (s *SurveyStore) Create(ctx context.Context, c schema.SurveyCreate) (model.Survey, error) {
	survey := model.Survey{
		FirstName: c.FirstName,
		Surname:   c.Surname,
		Email:     c.Email,
		Address:   c.Address,
		Suburb:    c.Suburb,
		Postcode:  c.Postcode,
		Phone:     c.Phone,
		Q1:        c.Q1,
		Q2:        c.Q2,
		Q3:        c.Q3,
		Comments:  c.Comments,
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO surveys (
			firstname, surname, email, address, suburb, postcode,
			phone, q1radio, q2radio, q3radio, comments
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id, created_at, updated_at`,
		c.FirstName, c.Surname, c.Email, c.Address, c.Suburb, c.Postcode,
		c.Phone, c.Q1, c.Q2, c.Q3, c.Comments,
	).Scan(&survey.ID, &survey.CreatedAt, &survey.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Survey{}, ErrDuplicateEmail
		}
		return model.Survey{}, fmt.Errorf("insert survey: %w", err)
	}

	return survey, nil
}

func (s *SurveyStore) GetByID(ctx context.Context, id int) (model.Survey, error) {
	var survey model.Survey
	var comments sql.NullString

	err := s.db.QueryRowContext(ctx, `
		SELECT id, firstname, surname, email, address, suburb, postcode,
			phone, q1radio, q2radio, q3radio, comments, created_at, updated_at
		FROM surveys
		WHERE id = ?`,
		id,
	).Scan(
		&survey.ID, &survey.FirstName, &survey.Surname, &survey.Email,
		&survey.Address, &survey.Suburb, &survey.Postcode, &survey.Phone,
		&survey.Q1, &survey.Q2, &survey.Q3, &comments,
		&survey.CreatedAt, &survey.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Survey{}, ErrNotFound
	}
	if err != nil {
		return model.Survey{}, fmt.Errorf("get survey: %w", err)
	}

	survey.Comments = comments.String
	return survey, nil
}

// GetPage returns one page of surveys plus the unpaged total.
func (s *SurveyStore) GetPage(ctx context.Context, req PageRequest) ([]model.Survey, int, error) {
	sortBy, ok := surveyColumns[req.SortBy]
	if !ok {
		sortBy = "created_at"
	}
	order := "DESC"
	if strings.EqualFold(req.Order, "asc") {
		order = "ASC"
	}

	var total int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM surveys`).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count surveys: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, firstname, surname, email, address, suburb, postcode,
			phone, q1radio, q2radio, q3radio, comments, created_at, updated_at
		FROM surveys
		ORDER BY `+sortBy+` `+order+`
		LIMIT ? OFFSET ?`,
		req.Limit, req.offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("get surveys: %w", err)
	}
	defer rows.Close()

	surveys := []model.Survey{}
	for rows.Next() {
		var survey model.Survey
		var comments sql.NullString
		err = rows.Scan(
			&survey.ID, &survey.FirstName, &survey.Surname, &survey.Email,
			&survey.Address, &survey.Suburb, &survey.Postcode, &survey.Phone,
			&survey.Q1, &survey.Q2, &survey.Q3, &comments,
			&survey.CreatedAt, &survey.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan survey: %w", err)
		}
		survey.Comments = comments.String
		surveys = append(surveys, survey)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("get surveys: %w", err)
	}

	return surveys, total, nil
}

// Update applies the whitelisted fields present in the partial payload,
// refreshes updated_at and returns the merged record.
func (s *SurveyStore) Update(ctx context.Context, id int, fields map[string]string) (model.Survey, error) {
	var setClauses []string
	var args []any
	for _, col := range updatableColumns {
		if val, ok := fields[col]; ok {
			setClauses = append(setClauses, col+" = ?")
			args = append(args, val)
		}
	}
	if len(setClauses) == 0 {
		return model.Survey{}, ErrNotFound
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, `
		UPDATE surveys
		SET `+strings.Join(setClauses, ", ")+`, updated_at = datetime('now')
		WHERE id = ?`,
		args...,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Survey{}, ErrDuplicateEmail
		}
		return model.Survey{}, fmt.Errorf("update survey: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return model.Survey{}, fmt.Errorf("update survey: %w", err)
	}
	if n < 1 {
		return model.Survey{}, ErrNotFound
	}

	return s.GetByID(ctx, id)
}

// Delete reports whether a row was actually removed.
func (s *SurveyStore) Delete(ctx context.Context, id int) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM surveys WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete survey: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete survey: %w", err)
	}
	return n > 0, nil
}

// Stats summarizes the surveys table.
type Stats struct {
	TotalSurveys   int            `json:"totalSurveys"`
	AverageRatings AverageRatings `json:"averageRatings"`
	RecentSurveys  int            `json:"recentSurveys"`
}

// AverageRatings holds per-question averages rounded to 2 decimals,
// null when the table is empty.
type AverageRatings struct {
	Question1 *float64 `json:"question1"`
	Question2 *float64 `json:"question2"`
	Question3 *float64 `json:"question3"`
}

// Stats runs its three aggregate queries concurrently and waits for all
// of them.
func (s *SurveyStore) Stats(ctx context.Context) (Stats, error) {
	var stats Stats

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM surveys`).
			Scan(&stats.TotalSurveys)
	})
	g.Go(func() error {
		var q1, q2, q3 sql.NullFloat64
		err := s.db.QueryRowContext(ctx, `
			SELECT
				ROUND(AVG(CAST(q1radio AS FLOAT)), 2),
				ROUND(AVG(CAST(q2radio AS FLOAT)), 2),
				ROUND(AVG(CAST(q3radio AS FLOAT)), 2)
			FROM surveys`,
		).Scan(&q1, &q2, &q3)
		if err != nil {
			return err
		}
		if q1.Valid {
			stats.AverageRatings.Question1 = &q1.Float64
		}
		if q2.Valid {
			stats.AverageRatings.Question2 = &q2.Float64
		}
		if q3.Valid {
			stats.AverageRatings.Question3 = &q3.Float64
		}
		return nil
	})
	g.Go(func() error {
		return s.db.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM surveys
			WHERE created_at >= datetime('now', '-30 days')`,
		).Scan(&stats.RecentSurveys)
	})

	if err := g.Wait(); err != nil {
		return Stats{}, fmt.Errorf("survey stats: %w", err)
	}
	return stats, nil
}
