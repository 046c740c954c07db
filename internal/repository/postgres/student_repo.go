package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"eduportal-backend/internal/domain"
)

// StudentRepository handles student data operations in Postgres
type StudentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

// Create inserts a new student record
func (r *StudentRepository) Create(ctx context.Context, student *domain.Student) error {
	query := `
		INSERT INTO students (student_id, first_name, last_name, email, enrollment_year, program, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		student.StudentID,
		student.FirstName,
		student.LastName,
		student.Email,
		student.EnrollmentYear,
		student.Program,
		student.Status,
	).Scan(&student.CreatedAt, &student.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create student: %w", err)
	}

	return nil
}

// GetByID retrieves a student by ID
func (r *StudentRepository) GetByID(ctx context.Context, studentID uuid.UUID) (*domain.Student, error) {
	query := `
		SELECT student_id, first_name, last_name, email, enrollment_year, program, status, created_at, updated_at
		FROM students
		WHERE student_id = $1
	`

	student := &domain.Student{}
	err := r.pool.QueryRow(ctx, query, studentID).Scan(
		&student.StudentID,
		&student.FirstName,
		&student.LastName,
		&student.Email,
		&student.EnrollmentYear,
		&student.Program,
		&student.Status,
		&student.CreatedAt,
		&student.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("student not found")
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	return student, nil
}

// GetByEmail retrieves a student by email
func (r *StudentRepository) GetByEmail(ctx context.Context, email string) (*domain.Student, error) {
	query := `
		SELECT student_id, first_name, last_name, email, enrollment_year, program, status, created_at, updated_at
		FROM students
		WHERE email = $1
	`

	student := &domain.Student{}
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&student.StudentID,
		&student.FirstName,
		&student.LastName,
		&student.Email,
		&student.EnrollmentYear,
		&student.Program,
		&student.Status,
		&student.CreatedAt,
		&student.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("student not found")
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	return student, nil
}

// List retrieves students with pagination, newest enrollment first
func (r *StudentRepository) List(ctx context.Context, limit, offset int) ([]*domain.Student, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count students: %w", err)
	}

	query := `
		SELECT student_id, first_name, last_name, email, enrollment_year, program, status, created_at, updated_at
		FROM students
		ORDER BY enrollment_year DESC, last_name ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	var students []*domain.Student
	for rows.Next() {
		student := &domain.Student{}
		err := rows.Scan(
			&student.StudentID,
			&student.FirstName,
			&student.LastName,
			&student.Email,
			&student.EnrollmentYear,
			&student.Program,
			&student.Status,
			&student.CreatedAt,
			&student.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate students: %w", err)
	}

	return students, total, nil
}

// Update applies a partial update to a student
func (r *StudentRepository) Update(ctx context.Context, studentID uuid.UUID, update *domain.StudentUpdate) error {
	query := `
		UPDATE students
		SET first_name = COALESCE($1, first_name),
		    last_name = COALESCE($2, last_name),
		    email = COALESCE($3, email),
		    program = COALESCE($4, program),
		    status = COALESCE($5, status),
		    updated_at = NOW()
		WHERE student_id = $6
	`

	cmdTag, err := r.pool.Exec(ctx, query,
		update.FirstName,
		update.LastName,
		update.Email,
		update.Program,
		update.Status,
		studentID,
	)

	if err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("student not found")
	}

	return nil
}

// Delete removes a student record
func (r *StudentRepository) Delete(ctx context.Context, studentID uuid.UUID) error {
	query := `DELETE FROM students WHERE student_id = $1`

	cmdTag, err := r.pool.Exec(ctx, query, studentID)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("student not found")
	}

	return nil
}

// EmailExists checks if a student email is already registered
func (r *StudentRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM students WHERE email = $1)`

	var exists bool
	err := r.pool.QueryRow(ctx, query, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}

	return exists, nil
}
