package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/studreg-api/internal/models"
)

// StudentRepository manages persistence for student records. Every operation
// is a single parameterized statement.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = "id, first_name, last_name, email, course, registered_at"

// List returns every student ordered by ascending id.
func (r *StudentRepository) List(ctx context.Context) ([]models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students ORDER BY id ASC", studentColumns)

	students := []models.Student{}
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// Create inserts a new student and returns the stored row with the generated
// id and registration timestamp.
func (r *StudentRepository) Create(ctx context.Context, input models.StudentInput) (*models.Student, error) {
	query := fmt.Sprintf(`INSERT INTO students (first_name, last_name, email, course)
        VALUES ($1, $2, $3, $4) RETURNING %s`, studentColumns)

	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, input.FirstName, input.LastName, input.Email, input.Course); err != nil {
		return nil, fmt.Errorf("create student: %w", err)
	}
	return &student, nil
}

// Update modifies the mutable fields of an existing student. The id and
// registered_at columns never change. Returns sql.ErrNoRows when no row
// matched the id.
func (r *StudentRepository) Update(ctx context.Context, id int64, input models.StudentInput) (*models.Student, error) {
	query := fmt.Sprintf(`UPDATE students SET first_name = $2, last_name = $3, email = $4, course = $5
        WHERE id = $1 RETURNING %s`, studentColumns)

	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id, input.FirstName, input.LastName, input.Email, input.Course); err != nil {
		return nil, err
	}
	return &student, nil
}

// Delete removes a student permanently. Returns sql.ErrNoRows when no row
// matched the id.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM students WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
