package benchmarking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ziadkadry99/benchdesk/internal/db"
)

var (
	// ErrNotFound is returned when a company does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalid is returned for records that fail validation.
	ErrInvalid = errors.New("invalid record")
)

// Store reads and writes companies and their benchmark records.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// CreateCompany inserts a company. If c.ID is empty a UUID is generated.
func (s *Store) CreateCompany(ctx context.Context, c Company) (*Company, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return nil, fmt.Errorf("%w: company name is required", ErrInvalid)
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO companies (id, name, region, industry) VALUES (?, ?, ?, ?)",
		c.ID, c.Name, c.Region, c.Industry,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting company: %w", err)
	}
	return s.GetCompany(ctx, c.ID)
}

// GetCompany returns a company by ID.
func (s *Store) GetCompany(ctx context.Context, id string) (*Company, error) {
	var (
		c       Company
		created string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, region, industry, created_at FROM companies WHERE id = ?", id,
	).Scan(&c.ID, &c.Name, &c.Region, &c.Industry, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting company: %w", err)
	}
	c.CreatedAt = parseTime(created)
	return &c, nil
}

// CompanyExists reports whether a company with the given ID is stored.
func (s *Store) CompanyExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM companies WHERE id = ?)", id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking company: %w", err)
	}
	return exists, nil
}

// ListCompanies returns all companies ordered by name.
func (s *Store) ListCompanies(ctx context.Context) ([]Company, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, region, industry, created_at FROM companies ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing companies: %w", err)
	}
	defer rows.Close()

	var out []Company
	for rows.Next() {
		var (
			c       Company
			created string
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Region, &c.Industry, &created); err != nil {
			return nil, fmt.Errorf("scanning company: %w", err)
		}
		c.CreatedAt = parseTime(created)
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpsertRecord stores the record for (company, year), replacing any
// existing one.
func (s *Store) UpsertRecord(ctx context.Context, rec Record) (*Record, error) {
	if rec.CompanyID == "" {
		return nil, fmt.Errorf("%w: company_id is required", ErrInvalid)
	}
	if rec.DataYear < 1900 || rec.DataYear > 2200 {
		return nil, fmt.Errorf("%w: data_year %d out of range", ErrInvalid, rec.DataYear)
	}
	if !rec.EnteredByRole.Valid() {
		return nil, fmt.Errorf("%w: entered_by_role must be admin or company", ErrInvalid)
	}
	if _, err := s.GetCompany(ctx, rec.CompanyID); err != nil {
		return nil, err
	}
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO company_benchmarks (id, company_id, data_year, entered_by_role, turnover, employees, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(company_id, data_year) DO UPDATE SET
			entered_by_role = excluded.entered_by_role,
			turnover = excluded.turnover,
			employees = excluded.employees,
			notes = excluded.notes,
			updated_at = datetime('now')`,
		rec.ID, rec.CompanyID, rec.DataYear, string(rec.EnteredByRole), rec.Turnover, rec.Employees, rec.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("upserting record: %w", err)
	}

	list, err := s.ListRecords(ctx, ListFilter{CompanyID: rec.CompanyID, Year: rec.DataYear})
	if err != nil {
		return nil, err
	}
	if len(list) != 1 {
		return nil, fmt.Errorf("record for %s/%d not found after upsert", rec.CompanyID, rec.DataYear)
	}
	return &list[0], nil
}

// ListRecords returns records matching filter, newest year first.
func (s *Store) ListRecords(ctx context.Context, filter ListFilter) ([]Record, error) {
	var (
		clauses []string
		args    []any
	)
	if filter.CompanyID != "" {
		clauses = append(clauses, "company_id = ?")
		args = append(args, filter.CompanyID)
	}
	if filter.Year != 0 {
		clauses = append(clauses, "data_year = ?")
		args = append(args, filter.Year)
	}
	if filter.Role != "" {
		clauses = append(clauses, "entered_by_role = ?")
		args = append(args, string(filter.Role))
	}

	query := `SELECT id, company_id, data_year, entered_by_role, turnover, employees, notes, created_at, updated_at
		FROM company_benchmarks`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY data_year DESC, company_id"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			r                Record
			role             string
			created, updated string
		)
		if err := rows.Scan(&r.ID, &r.CompanyID, &r.DataYear, &role, &r.Turnover, &r.Employees, &r.Notes, &created, &updated); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		r.EnteredByRole = Role(role)
		r.CreatedAt = parseTime(created)
		r.UpdatedAt = parseTime(updated)
		out = append(out, r)
	}
	return out, rows.Err()
}

// YearDistribution counts records per data year in ascending year order.
// An empty companyID covers all companies.
func (s *Store) YearDistribution(ctx context.Context, companyID string) ([]YearCount, error) {
	query := "SELECT data_year, COUNT(*) FROM company_benchmarks"
	var args []any
	if companyID != "" {
		query += " WHERE company_id = ?"
		args = append(args, companyID)
	}
	query += " GROUP BY data_year ORDER BY data_year"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("year distribution: %w", err)
	}
	defer rows.Close()

	out := []YearCount{}
	for rows.Next() {
		var (
			year  int
			count int
		)
		if err := rows.Scan(&year, &count); err != nil {
			return nil, fmt.Errorf("scanning year count: %w", err)
		}
		out = append(out, YearCount{Year: strconv.Itoa(year), Count: count})
	}
	return out, rows.Err()
}

// EntrySource counts records by role. An empty companyID covers all companies.
func (s *Store) EntrySource(ctx context.Context, companyID string) (EntrySource, error) {
	query := "SELECT entered_by_role, COUNT(*) FROM company_benchmarks"
	var args []any
	if companyID != "" {
		query += " WHERE company_id = ?"
		args = append(args, companyID)
	}
	query += " GROUP BY entered_by_role"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return EntrySource{}, fmt.Errorf("entry source: %w", err)
	}
	defer rows.Close()

	var src EntrySource
	for rows.Next() {
		var (
			role  string
			count int
		)
		if err := rows.Scan(&role, &count); err != nil {
			return EntrySource{}, fmt.Errorf("scanning entry source: %w", err)
		}
		switch Role(role) {
		case RoleAdmin:
			src.Admin = count
		case RoleCompany:
			src.Company = count
		}
	}
	return src, rows.Err()
}

// Stats summarizes records for companyID, or for everything when empty.
func (s *Store) Stats(ctx context.Context, companyID string) (Stats, error) {
	var st Stats
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM companies").Scan(&st.Companies); err != nil {
		return st, fmt.Errorf("counting companies: %w", err)
	}
	years, err := s.YearDistribution(ctx, companyID)
	if err != nil {
		return st, err
	}
	src, err := s.EntrySource(ctx, companyID)
	if err != nil {
		return st, err
	}
	st.YearDistribution = years
	st.EntrySource = src
	st.Records = src.Admin + src.Company
	return st, nil
}

func parseTime(s string) time.Time {
	if t, err := time.Parse(time.DateTime, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}
