package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/cohort-api/internal/models"
)

// SQLStore persists entities through sqlx on PostgreSQL or SQLite. Queries
// are written with ? placeholders and rebound for the active driver.
type SQLStore struct {
	db       *sqlx.DB
	postgres bool
	nowFn    func() time.Time
}

// NewSQLStore wraps an open database handle.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{
		db:       db,
		postgres: db.DriverName() == "postgres",
		nowFn:    func() time.Time { return time.Now().UTC() },
	}
}

// WithinTx runs fn in a transaction, serializable on PostgreSQL, and commits
// when fn returns nil.
func (s *SQLStore) WithinTx(ctx context.Context, fn func(tx Tx) error) (err error) {
	var opts *sql.TxOptions
	if s.postgres {
		opts = &sql.TxOptions{Isolation: sql.LevelSerializable}
	}
	tx, err := s.db.BeginTxx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(&sqlTx{tx: tx, lock: s.postgres, now: s.nowFn(), writable: true}); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return translate("commit tx", err)
	}
	return nil
}

// View runs fn in a transaction that is always rolled back.
func (s *SQLStore) View(ctx context.Context, fn func(tx Tx) error) error {
	var opts *sql.TxOptions
	if s.postgres {
		opts = &sql.TxOptions{ReadOnly: true}
	}
	tx, err := s.db.BeginTxx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin read tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	return fn(&sqlTx{tx: tx, now: s.nowFn()})
}

// Ping checks database connectivity.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type sqlTx struct {
	tx       *sqlx.Tx
	lock     bool
	now      time.Time
	writable bool
}

func (t *sqlTx) write() error {
	if !t.writable {
		return errReadOnly
	}
	return nil
}

func (t *sqlTx) q(query string) string {
	return t.tx.Rebind(query)
}

func (t *sqlTx) forUpdate(query string) string {
	if t.lock && t.writable {
		return query + " FOR UPDATE"
	}
	return query
}

func translate(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "40001", "40P01", "23505":
			return fmt.Errorf("%s: %w", op, ErrVersionConflict)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// checkUpdated classifies a zero-row optimistic update as missing or stale.
func (t *sqlTx) checkUpdated(ctx context.Context, op, table, id string, res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows: %w", op, err)
	}
	if affected > 0 {
		return nil
	}
	var one int
	err = t.tx.GetContext(ctx, &one, t.q("SELECT 1 FROM "+table+" WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return translate(op, err)
	}
	return fmt.Errorf("%s: %w", op, ErrVersionConflict)
}

func (t *sqlTx) checkDeleted(op string, res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

type where struct {
	clauses []string
	args    []interface{}
}

func (w *where) add(clause string, args ...interface{}) {
	w.clauses = append(w.clauses, clause)
	w.args = append(w.args, args...)
}

func (w *where) search(term string, columns ...string) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return
	}
	parts := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, col := range columns {
		parts[i] = "LOWER(" + col + ") LIKE ?"
		args[i] = "%" + term + "%"
	}
	w.add("("+strings.Join(parts, " OR ")+")", args...)
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

func (t *sqlTx) count(ctx context.Context, op, table string, w *where) (int, error) {
	var total int
	if err := t.tx.GetContext(ctx, &total, t.q("SELECT COUNT(*) FROM "+table+w.String()), w.args...); err != nil {
		return 0, translate(op, err)
	}
	return total, nil
}

func pageArgs(w *where, page, size int) []interface{} {
	page, size = models.NormalizePage(page, size)
	return append(append([]interface{}{}, w.args...), size, (page-1)*size)
}

// Programs

const programColumns = `id, name, description, status, syllabus_ref, version, created_at, updated_at`

func (t *sqlTx) GetProgram(ctx context.Context, id string) (*models.Program, error) {
	var p models.Program
	query := t.forUpdate(`SELECT ` + programColumns + ` FROM programs WHERE id = ?`)
	if err := t.tx.GetContext(ctx, &p, t.q(query), id); err != nil {
		return nil, translate("get program", err)
	}
	count, err := t.CountCohortsByProgram(ctx, id)
	if err != nil {
		return nil, err
	}
	p.CohortCount = count
	return &p, nil
}

func (t *sqlTx) ListPrograms(ctx context.Context, filter models.ProgramFilter) ([]models.Program, int, error) {
	w := &where{}
	if filter.Status != nil {
		w.add("status = ?", *filter.Status)
	}
	w.search(filter.Search, "name", "description")

	total, err := t.count(ctx, "count programs", "programs", w)
	if err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + programColumns + `,
       (SELECT COUNT(*) FROM cohorts c WHERE c.program_id = programs.id) AS cohort_count
FROM programs` + w.String() + ` ORDER BY created_at, id LIMIT ? OFFSET ?`
	programs := []models.Program{}
	if err := t.tx.SelectContext(ctx, &programs, t.q(query), pageArgs(w, filter.Page, filter.PageSize)...); err != nil {
		return nil, 0, translate("list programs", err)
	}
	return programs, total, nil
}

func (t *sqlTx) InsertProgram(ctx context.Context, program *models.Program) error {
	if err := t.write(); err != nil {
		return err
	}
	if program.ID == "" {
		program.ID = uuid.NewString()
	}
	program.Version = 1
	program.CreatedAt, program.UpdatedAt = t.now, t.now

	const query = `INSERT INTO programs (` + programColumns + `)
VALUES (:id, :name, :description, :status, :syllabus_ref, :version, :created_at, :updated_at)`
	if _, err := t.tx.NamedExecContext(ctx, query, program); err != nil {
		return translate("insert program", err)
	}
	return nil
}

func (t *sqlTx) UpdateProgram(ctx context.Context, program *models.Program) error {
	if err := t.write(); err != nil {
		return err
	}
	const query = `UPDATE programs SET name = ?, description = ?, status = ?, syllabus_ref = ?, version = version + 1, updated_at = ?
WHERE id = ? AND version = ?`
	res, err := t.tx.ExecContext(ctx, t.q(query),
		program.Name, program.Description, program.Status, program.SyllabusRef, t.now, program.ID, program.Version)
	if err != nil {
		return translate("update program", err)
	}
	if err := t.checkUpdated(ctx, "update program", "programs", program.ID, res); err != nil {
		return err
	}
	program.Version++
	program.UpdatedAt = t.now
	return nil
}

func (t *sqlTx) DeleteProgram(ctx context.Context, id string) error {
	if err := t.write(); err != nil {
		return err
	}
	res, err := t.tx.ExecContext(ctx, t.q(`DELETE FROM programs WHERE id = ?`), id)
	if err != nil {
		return translate("delete program", err)
	}
	return t.checkDeleted("delete program", res)
}

func (t *sqlTx) CountCohortsByProgram(ctx context.Context, programID string) (int, error) {
	var n int
	if err := t.tx.GetContext(ctx, &n, t.q(`SELECT COUNT(*) FROM cohorts WHERE program_id = ?`), programID); err != nil {
		return 0, translate("count cohorts", err)
	}
	return n, nil
}

// Cohorts

const cohortColumns = `id, program_id, name, status, previous_status, capacity, start_date, end_date, enrollment_deadline, version, created_at, updated_at`

func (t *sqlTx) GetCohort(ctx context.Context, id string) (*models.Cohort, error) {
	var c models.Cohort
	query := t.forUpdate(`SELECT ` + cohortColumns + ` FROM cohorts WHERE id = ?`)
	if err := t.tx.GetContext(ctx, &c, t.q(query), id); err != nil {
		return nil, translate("get cohort", err)
	}
	count, err := t.CountStudentsByCohort(ctx, id)
	if err != nil {
		return nil, err
	}
	c.StudentCount = count
	if c.MentorIDs, err = t.MentorIDsForCohort(ctx, id); err != nil {
		return nil, err
	}
	return &c, nil
}

func (t *sqlTx) ListCohorts(ctx context.Context, filter models.CohortFilter) ([]models.Cohort, int, error) {
	w := &where{}
	if filter.ProgramID != "" {
		w.add("program_id = ?", filter.ProgramID)
	}
	if filter.Status != nil {
		w.add("status = ?", *filter.Status)
	}

	total, err := t.count(ctx, "count cohorts", "cohorts", w)
	if err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + cohortColumns + `,
       (SELECT COUNT(*) FROM students s WHERE s.cohort_id = cohorts.id) AS student_count
FROM cohorts` + w.String() + ` ORDER BY created_at, id LIMIT ? OFFSET ?`
	cohorts := []models.Cohort{}
	if err := t.tx.SelectContext(ctx, &cohorts, t.q(query), pageArgs(w, filter.Page, filter.PageSize)...); err != nil {
		return nil, 0, translate("list cohorts", err)
	}

	ids := make([]string, len(cohorts))
	for i := range cohorts {
		ids[i] = cohorts[i].ID
	}
	links, err := t.linksFor(ctx, "cohort_id", ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range cohorts {
		cohorts[i].MentorIDs = []string{}
		for _, l := range links {
			if l.CohortID == cohorts[i].ID {
				cohorts[i].MentorIDs = append(cohorts[i].MentorIDs, l.MentorID)
			}
		}
	}
	return cohorts, total, nil
}

func (t *sqlTx) InsertCohort(ctx context.Context, cohort *models.Cohort) error {
	if err := t.write(); err != nil {
		return err
	}
	if cohort.ID == "" {
		cohort.ID = uuid.NewString()
	}
	cohort.Version = 1
	cohort.CreatedAt, cohort.UpdatedAt = t.now, t.now
	cohort.MentorIDs = []string{}

	const query = `INSERT INTO cohorts (` + cohortColumns + `)
VALUES (:id, :program_id, :name, :status, :previous_status, :capacity, :start_date, :end_date, :enrollment_deadline, :version, :created_at, :updated_at)`
	if _, err := t.tx.NamedExecContext(ctx, query, cohort); err != nil {
		return translate("insert cohort", err)
	}
	return nil
}

func (t *sqlTx) UpdateCohort(ctx context.Context, cohort *models.Cohort) error {
	if err := t.write(); err != nil {
		return err
	}
	const query = `UPDATE cohorts SET name = ?, status = ?, previous_status = ?, capacity = ?, start_date = ?, end_date = ?,
    enrollment_deadline = ?, version = version + 1, updated_at = ?
WHERE id = ? AND version = ?`
	res, err := t.tx.ExecContext(ctx, t.q(query),
		cohort.Name, cohort.Status, cohort.PreviousStatus, cohort.Capacity, cohort.StartDate, cohort.EndDate,
		cohort.EnrollmentDeadline, t.now, cohort.ID, cohort.Version)
	if err != nil {
		return translate("update cohort", err)
	}
	if err := t.checkUpdated(ctx, "update cohort", "cohorts", cohort.ID, res); err != nil {
		return err
	}
	cohort.Version++
	cohort.UpdatedAt = t.now
	return nil
}

func (t *sqlTx) DeleteCohort(ctx context.Context, id string) error {
	if err := t.write(); err != nil {
		return err
	}
	res, err := t.tx.ExecContext(ctx, t.q(`DELETE FROM cohorts WHERE id = ?`), id)
	if err != nil {
		return translate("delete cohort", err)
	}
	return t.checkDeleted("delete cohort", res)
}

func (t *sqlTx) CountStudentsByCohort(ctx context.Context, cohortID string) (int, error) {
	var n int
	if err := t.tx.GetContext(ctx, &n, t.q(`SELECT COUNT(*) FROM students WHERE cohort_id = ?`), cohortID); err != nil {
		return 0, translate("count students", err)
	}
	return n, nil
}

// Mentors

const mentorColumns = `id, name, email, status, max_cohorts, availability, version, created_at, updated_at`

func (t *sqlTx) GetMentor(ctx context.Context, id string) (*models.Mentor, error) {
	var m models.Mentor
	query := t.forUpdate(`SELECT ` + mentorColumns + ` FROM mentors WHERE id = ?`)
	if err := t.tx.GetContext(ctx, &m, t.q(query), id); err != nil {
		return nil, translate("get mentor", err)
	}
	ids, err := t.CohortIDsForMentor(ctx, id)
	if err != nil {
		return nil, err
	}
	m.AssignedCohortIDs = ids
	return &m, nil
}

func (t *sqlTx) ListMentors(ctx context.Context, filter models.MentorFilter) ([]models.Mentor, int, error) {
	w := &where{}
	if filter.Status != nil {
		w.add("status = ?", *filter.Status)
	}
	if filter.Availability != nil {
		w.add("availability = ?", *filter.Availability)
	}
	w.search(filter.Search, "name", "email")

	total, err := t.count(ctx, "count mentors", "mentors", w)
	if err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + mentorColumns + ` FROM mentors` + w.String() + ` ORDER BY created_at, id LIMIT ? OFFSET ?`
	mentors := []models.Mentor{}
	if err := t.tx.SelectContext(ctx, &mentors, t.q(query), pageArgs(w, filter.Page, filter.PageSize)...); err != nil {
		return nil, 0, translate("list mentors", err)
	}

	ids := make([]string, len(mentors))
	for i := range mentors {
		ids[i] = mentors[i].ID
	}
	links, err := t.linksFor(ctx, "mentor_id", ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range mentors {
		mentors[i].AssignedCohortIDs = []string{}
		for _, l := range links {
			if l.MentorID == mentors[i].ID {
				mentors[i].AssignedCohortIDs = append(mentors[i].AssignedCohortIDs, l.CohortID)
			}
		}
	}
	return mentors, total, nil
}

func (t *sqlTx) InsertMentor(ctx context.Context, mentor *models.Mentor) error {
	if err := t.write(); err != nil {
		return err
	}
	if mentor.ID == "" {
		mentor.ID = uuid.NewString()
	}
	mentor.Version = 1
	mentor.CreatedAt, mentor.UpdatedAt = t.now, t.now
	mentor.AssignedCohortIDs = []string{}

	const query = `INSERT INTO mentors (` + mentorColumns + `)
VALUES (:id, :name, :email, :status, :max_cohorts, :availability, :version, :created_at, :updated_at)`
	if _, err := t.tx.NamedExecContext(ctx, query, mentor); err != nil {
		return translate("insert mentor", err)
	}
	return nil
}

func (t *sqlTx) UpdateMentor(ctx context.Context, mentor *models.Mentor) error {
	if err := t.write(); err != nil {
		return err
	}
	const query = `UPDATE mentors SET name = ?, email = ?, status = ?, max_cohorts = ?, availability = ?, version = version + 1, updated_at = ?
WHERE id = ? AND version = ?`
	res, err := t.tx.ExecContext(ctx, t.q(query),
		mentor.Name, mentor.Email, mentor.Status, mentor.MaxCohorts, mentor.Availability, t.now, mentor.ID, mentor.Version)
	if err != nil {
		return translate("update mentor", err)
	}
	if err := t.checkUpdated(ctx, "update mentor", "mentors", mentor.ID, res); err != nil {
		return err
	}
	mentor.Version++
	mentor.UpdatedAt = t.now
	return nil
}

func (t *sqlTx) DeleteMentor(ctx context.Context, id string) error {
	if err := t.write(); err != nil {
		return err
	}
	res, err := t.tx.ExecContext(ctx, t.q(`DELETE FROM mentors WHERE id = ?`), id)
	if err != nil {
		return translate("delete mentor", err)
	}
	return t.checkDeleted("delete mentor", res)
}

// Students

const studentColumns = `id, name, email, cohort_id, mentor_id, status, status_reason, payment_status, progress, last_activity_at, version, created_at, updated_at`

func (t *sqlTx) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	var s models.Student
	query := t.forUpdate(`SELECT ` + studentColumns + ` FROM students WHERE id = ?`)
	if err := t.tx.GetContext(ctx, &s, t.q(query), id); err != nil {
		return nil, translate("get student", err)
	}
	return &s, nil
}

func (t *sqlTx) ListStudents(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	w := &where{}
	if filter.CohortID != "" {
		w.add("cohort_id = ?", filter.CohortID)
	}
	if filter.MentorID != "" {
		w.add("mentor_id = ?", filter.MentorID)
	}
	if filter.Status != nil {
		w.add("status = ?", *filter.Status)
	}
	if filter.PaymentStatus != nil {
		w.add("payment_status = ?", *filter.PaymentStatus)
	}
	w.search(filter.Search, "name", "email")

	total, err := t.count(ctx, "count students", "students", w)
	if err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + studentColumns + ` FROM students` + w.String() + ` ORDER BY created_at, id LIMIT ? OFFSET ?`
	students := []models.Student{}
	if err := t.tx.SelectContext(ctx, &students, t.q(query), pageArgs(w, filter.Page, filter.PageSize)...); err != nil {
		return nil, 0, translate("list students", err)
	}
	return students, total, nil
}

func (t *sqlTx) InsertStudent(ctx context.Context, student *models.Student) error {
	if err := t.write(); err != nil {
		return err
	}
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	student.Version = 1
	student.CreatedAt, student.UpdatedAt = t.now, t.now

	const query = `INSERT INTO students (` + studentColumns + `)
VALUES (:id, :name, :email, :cohort_id, :mentor_id, :status, :status_reason, :payment_status, :progress, :last_activity_at, :version, :created_at, :updated_at)`
	if _, err := t.tx.NamedExecContext(ctx, query, student); err != nil {
		return translate("insert student", err)
	}
	return nil
}

func (t *sqlTx) UpdateStudent(ctx context.Context, student *models.Student) error {
	if err := t.write(); err != nil {
		return err
	}
	const query = `UPDATE students SET name = ?, email = ?, cohort_id = ?, mentor_id = ?, status = ?, status_reason = ?,
    payment_status = ?, progress = ?, last_activity_at = ?, version = version + 1, updated_at = ?
WHERE id = ? AND version = ?`
	res, err := t.tx.ExecContext(ctx, t.q(query),
		student.Name, student.Email, student.CohortID, student.MentorID, student.Status, student.StatusReason,
		student.PaymentStatus, student.Progress, student.LastActivityAt, t.now, student.ID, student.Version)
	if err != nil {
		return translate("update student", err)
	}
	if err := t.checkUpdated(ctx, "update student", "students", student.ID, res); err != nil {
		return err
	}
	student.Version++
	student.UpdatedAt = t.now
	return nil
}

func (t *sqlTx) DeleteStudent(ctx context.Context, id string) error {
	if err := t.write(); err != nil {
		return err
	}
	if _, err := t.tx.ExecContext(ctx, t.q(`DELETE FROM student_notes WHERE student_id = ?`), id); err != nil {
		return translate("delete student notes", err)
	}
	res, err := t.tx.ExecContext(ctx, t.q(`DELETE FROM students WHERE id = ?`), id)
	if err != nil {
		return translate("delete student", err)
	}
	return t.checkDeleted("delete student", res)
}

func (t *sqlTx) ClearStudentMentor(ctx context.Context, mentorID string) (int, error) {
	if err := t.write(); err != nil {
		return 0, err
	}
	const query = `UPDATE students SET mentor_id = NULL, version = version + 1, updated_at = ? WHERE mentor_id = ?`
	res, err := t.tx.ExecContext(ctx, t.q(query), t.now, mentorID)
	if err != nil {
		return 0, translate("clear student mentor", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear student mentor rows: %w", err)
	}
	return int(affected), nil
}

func (t *sqlTx) AppendNote(ctx context.Context, note *models.StudentNote) error {
	if err := t.write(); err != nil {
		return err
	}
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	note.CreatedAt = t.now

	const query = `INSERT INTO student_notes (id, student_id, position, author, content, created_at)
SELECT ?, ?, COALESCE(MAX(position), 0) + 1, ?, ?, ? FROM student_notes WHERE student_id = ?`
	if _, err := t.tx.ExecContext(ctx, t.q(query),
		note.ID, note.StudentID, note.Author, note.Content, note.CreatedAt, note.StudentID); err != nil {
		return translate("append note", err)
	}
	return nil
}

func (t *sqlTx) ListNotes(ctx context.Context, studentID string) ([]models.StudentNote, error) {
	const query = `SELECT id, student_id, author, content, created_at FROM student_notes WHERE student_id = ? ORDER BY position`
	notes := []models.StudentNote{}
	if err := t.tx.SelectContext(ctx, &notes, t.q(query), studentID); err != nil {
		return nil, translate("list notes", err)
	}
	return notes, nil
}

// Links

func (t *sqlTx) InsertLink(ctx context.Context, link models.MentorCohortLink) error {
	if err := t.write(); err != nil {
		return err
	}
	if link.LinkedAt.IsZero() {
		link.LinkedAt = t.now
	}
	const query = `INSERT INTO mentor_cohort_links (mentor_id, cohort_id, linked_at) VALUES (?, ?, ?)`
	if _, err := t.tx.ExecContext(ctx, t.q(query), link.MentorID, link.CohortID, link.LinkedAt); err != nil {
		return translate("insert link", err)
	}
	return nil
}

func (t *sqlTx) DeleteLink(ctx context.Context, mentorID, cohortID string) error {
	if err := t.write(); err != nil {
		return err
	}
	res, err := t.tx.ExecContext(ctx, t.q(`DELETE FROM mentor_cohort_links WHERE mentor_id = ? AND cohort_id = ?`), mentorID, cohortID)
	if err != nil {
		return translate("delete link", err)
	}
	return t.checkDeleted("delete link", res)
}

func (t *sqlTx) LinkExists(ctx context.Context, mentorID, cohortID string) (bool, error) {
	var one int
	err := t.tx.GetContext(ctx, &one, t.q(`SELECT 1 FROM mentor_cohort_links WHERE mentor_id = ? AND cohort_id = ?`), mentorID, cohortID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, translate("check link", err)
	}
	return true, nil
}

func (t *sqlTx) CohortIDsForMentor(ctx context.Context, mentorID string) ([]string, error) {
	ids := []string{}
	const query = `SELECT cohort_id FROM mentor_cohort_links WHERE mentor_id = ? ORDER BY linked_at, cohort_id`
	if err := t.tx.SelectContext(ctx, &ids, t.q(query), mentorID); err != nil {
		return nil, translate("list mentor cohorts", err)
	}
	return ids, nil
}

func (t *sqlTx) MentorIDsForCohort(ctx context.Context, cohortID string) ([]string, error) {
	ids := []string{}
	const query = `SELECT mentor_id FROM mentor_cohort_links WHERE cohort_id = ? ORDER BY linked_at, mentor_id`
	if err := t.tx.SelectContext(ctx, &ids, t.q(query), cohortID); err != nil {
		return nil, translate("list cohort mentors", err)
	}
	return ids, nil
}

// linksFor loads every link whose column matches one of ids, in link order.
func (t *sqlTx) linksFor(ctx context.Context, column string, ids []string) ([]models.MentorCohortLink, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT mentor_id, cohort_id, linked_at FROM mentor_cohort_links WHERE `+column+` IN (?) ORDER BY linked_at, mentor_id, cohort_id`, ids)
	if err != nil {
		return nil, fmt.Errorf("expand link query: %w", err)
	}
	var links []models.MentorCohortLink
	if err := t.tx.SelectContext(ctx, &links, t.q(query), args...); err != nil {
		return nil, translate("load links", err)
	}
	return links, nil
}
