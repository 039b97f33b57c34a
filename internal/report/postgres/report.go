package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/frahmantamala/intern-attendance/internal/report"
	"github.com/jmoiron/sqlx"
)

const rowColumns = `a.user_id, u.name, u.username, u.department, a.date, a.check_in_time, a.check_out_time, a.status`

type Repository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) report.RepositoryAPI {
	return &Repository{db: db}
}

func (r *Repository) ListInterns(ctx context.Context, department string) ([]report.Intern, error) {
	query := `SELECT id, username, name, department FROM users WHERE role = ?`
	args := []interface{}{"intern"}
	if department != "" {
		query += ` AND department = ?`
		args = append(args, department)
	}
	query += ` ORDER BY name ASC`

	interns := []report.Intern{}
	if err := r.db.SelectContext(ctx, &interns, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return interns, nil
}

func (r *Repository) GetIntern(ctx context.Context, id int64) (*report.Intern, error) {
	var in report.Intern
	query := r.db.Rebind(`SELECT id, username, name, department FROM users WHERE id = ? AND role = ?`)
	if err := r.db.GetContext(ctx, &in, query, id, "intern"); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &in, nil
}

func (r *Repository) ListRows(ctx context.Context, start, end time.Time, department string) ([]report.Row, error) {
	query := `SELECT ` + rowColumns + `
		FROM attendance a
		JOIN users u ON u.id = a.user_id
		WHERE a.date >= ? AND a.date <= ?`
	args := []interface{}{start, end}
	if department != "" {
		query += ` AND u.department = ?`
		args = append(args, department)
	}
	query += ` ORDER BY a.date DESC, u.name ASC`

	rows := []report.Row{}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) ListUserRows(ctx context.Context, userID int64, start, end time.Time) ([]report.Row, error) {
	query := r.db.Rebind(`SELECT ` + rowColumns + `
		FROM attendance a
		JOIN users u ON u.id = a.user_id
		WHERE a.user_id = ? AND a.date >= ? AND a.date <= ?
		ORDER BY a.date DESC`)

	rows := []report.Row{}
	if err := r.db.SelectContext(ctx, &rows, query, userID, start, end); err != nil {
		return nil, err
	}
	return rows, nil
}
