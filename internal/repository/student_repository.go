package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tutoring-ledger/internal/models"
	"github.com/noah-isme/tutoring-ledger/pkg/database"
)

// ErrDuplicateEmail is returned when a student with the same email already exists.
var ErrDuplicateEmail = errors.New("student email already exists")

const studentColumns = `id, name, email, phone, parent_name, parent_email, package_type, hourly_rate, is_active, created_at`

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students ordered by name, optionally only the active ones.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	query := "SELECT " + studentColumns + " FROM students"
	args := []interface{}{}
	if filter.ActiveOnly {
		query += " WHERE is_active = ?"
		args = append(args, true)
	}
	query += " ORDER BY name ASC, id ASC"

	students := []models.Student{}
	if err := r.db.SelectContext(ctx, &students, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// FindByID fetches a student by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	query := "SELECT " + studentColumns + " FROM students WHERE id = ?"
	var student models.Student
	if err := r.db.GetContext(ctx, &student, r.db.Rebind(query), id); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByEmail fetches a student by email.
func (r *StudentRepository) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	query := "SELECT " + studentColumns + " FROM students WHERE email = ?"
	var student models.Student
	if err := r.db.GetContext(ctx, &student, r.db.Rebind(query), email); err != nil {
		return nil, err
	}
	return &student, nil
}

// ExistsByEmail checks whether a student already uses the email.
func (r *StudentRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, r.db.Rebind("SELECT 1 FROM students WHERE email = ? LIMIT 1"), email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check email: %w", err)
	}
	return true, nil
}

// Create inserts a new student and fills in the generated ID.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.CreatedAt.IsZero() {
		student.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO students (name, email, phone, parent_name, parent_email, package_type, hourly_rate, is_active, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        RETURNING id`
	row := r.db.QueryRowxContext(ctx, r.db.Rebind(query),
		student.Name,
		student.Email,
		student.Phone,
		student.ParentName,
		student.ParentEmail,
		student.PackageType,
		student.HourlyRate,
		student.IsActive,
		student.CreatedAt,
	)
	if err := row.Scan(&student.ID); err != nil {
		if database.IsUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// SetActive flips the soft-delete flag and reports whether a row was touched.
func (r *StudentRepository) SetActive(ctx context.Context, id int64, active bool) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("UPDATE students SET is_active = ? WHERE id = ?"), active, id)
	if err != nil {
		return false, fmt.Errorf("set student active: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set student active: %w", err)
	}
	return affected > 0, nil
}

// Deactivate soft-deletes a student so they drop out of active listings.
func (r *StudentRepository) Deactivate(ctx context.Context, id int64) (bool, error) {
	return r.SetActive(ctx, id, false)
}

// Reactivate restores a previously deactivated student.
func (r *StudentRepository) Reactivate(ctx context.Context, id int64) (bool, error) {
	return r.SetActive(ctx, id, true)
}
