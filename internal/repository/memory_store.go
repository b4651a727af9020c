package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/cohort-api/internal/models"
)

type memoryState struct {
	programs map[string]models.Program
	cohorts  map[string]models.Cohort
	mentors  map[string]models.Mentor
	students map[string]models.Student
	notes    map[string][]models.StudentNote
	links    []models.MentorCohortLink
	seq      map[string]uint64
	next     uint64
}

func newMemoryState() memoryState {
	return memoryState{
		programs: map[string]models.Program{},
		cohorts:  map[string]models.Cohort{},
		mentors:  map[string]models.Mentor{},
		students: map[string]models.Student{},
		notes:    map[string][]models.StudentNote{},
		seq:      map[string]uint64{},
	}
}

func (s memoryState) clone() memoryState {
	out := memoryState{
		programs: make(map[string]models.Program, len(s.programs)),
		cohorts:  make(map[string]models.Cohort, len(s.cohorts)),
		mentors:  make(map[string]models.Mentor, len(s.mentors)),
		students: make(map[string]models.Student, len(s.students)),
		notes:    make(map[string][]models.StudentNote, len(s.notes)),
		links:    append([]models.MentorCohortLink(nil), s.links...),
		seq:      make(map[string]uint64, len(s.seq)),
		next:     s.next,
	}
	for id, p := range s.programs {
		p.SyllabusRef = cloneString(p.SyllabusRef)
		out.programs[id] = p
	}
	for id, c := range s.cohorts {
		if c.PreviousStatus != nil {
			prev := *c.PreviousStatus
			c.PreviousStatus = &prev
		}
		out.cohorts[id] = c
	}
	for id, m := range s.mentors {
		out.mentors[id] = m
	}
	for id, st := range s.students {
		out.students[id] = cloneStudent(st)
	}
	for id, notes := range s.notes {
		out.notes[id] = append([]models.StudentNote(nil), notes...)
	}
	for id, n := range s.seq {
		out.seq[id] = n
	}
	return out
}

// MemoryStore keeps every entity in process memory. Writers are serialised
// by a mutex and work on a private copy of the state that replaces the
// shared one only when the callback succeeds.
//
// Every WithinTx and View copies the whole state, so each call costs time
// proportional to the number of stored entities. Use it for tests and
// single-node deployments; larger installs should run the postgres driver.
type MemoryStore struct {
	mu    sync.RWMutex
	state memoryState
	nowFn func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		state: newMemoryState(),
		nowFn: func() time.Time { return time.Now().UTC() },
	}
}

// WithinTx runs fn on a copy of the state and commits it if fn returns nil.
func (s *MemoryStore) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memoryTx{state: s.state.clone(), now: s.nowFn(), writable: true}
	if err := fn(tx); err != nil {
		return err
	}

	s.state = tx.state
	return nil
}

// View runs fn against a snapshot. Writes inside fn are rejected.
func (s *MemoryStore) View(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	snapshot := s.state.clone()
	s.mu.RUnlock()

	return fn(&memoryTx{state: snapshot, now: s.nowFn()})
}

// Ping always succeeds.
func (s *MemoryStore) Ping(context.Context) error { return nil }

type memoryTx struct {
	state    memoryState
	now      time.Time
	writable bool
}

var errReadOnly = fmt.Errorf("repository: write in read-only view")

func (t *memoryTx) write() error {
	if !t.writable {
		return errReadOnly
	}
	return nil
}

func (t *memoryTx) track(id string) {
	t.state.next++
	t.state.seq[id] = t.state.next
}

func (t *memoryTx) sortBySeq(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool { return t.state.seq[ids[i]] < t.state.seq[ids[j]] })
}

// Programs

func (t *memoryTx) GetProgram(_ context.Context, id string) (*models.Program, error) {
	p, ok := t.state.programs[id]
	if !ok {
		return nil, ErrNotFound
	}
	p.SyllabusRef = cloneString(p.SyllabusRef)
	p.CohortCount = t.countCohorts(id)
	return &p, nil
}

func (t *memoryTx) ListPrograms(ctx context.Context, filter models.ProgramFilter) ([]models.Program, int, error) {
	ids := make([]string, 0, len(t.state.programs))
	for id, p := range t.state.programs {
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		if !matches(filter.Search, p.Name, p.Description) {
			continue
		}
		ids = append(ids, id)
	}
	t.sortBySeq(ids)

	page, total := paginate(ids, filter.Page, filter.PageSize)
	out := make([]models.Program, 0, len(page))
	for _, id := range page {
		p, err := t.GetProgram(ctx, id)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *p)
	}
	return out, total, nil
}

func (t *memoryTx) InsertProgram(_ context.Context, program *models.Program) error {
	if err := t.write(); err != nil {
		return err
	}
	if program.ID == "" {
		program.ID = uuid.NewString()
	}
	if _, exists := t.state.programs[program.ID]; exists {
		return fmt.Errorf("insert program %s: %w", program.ID, ErrVersionConflict)
	}
	program.Version = 1
	program.CreatedAt, program.UpdatedAt = t.now, t.now

	stored := *program
	stored.CohortCount = 0
	stored.SyllabusRef = cloneString(program.SyllabusRef)
	t.state.programs[program.ID] = stored
	t.track(program.ID)
	return nil
}

func (t *memoryTx) UpdateProgram(_ context.Context, program *models.Program) error {
	if err := t.write(); err != nil {
		return err
	}
	current, ok := t.state.programs[program.ID]
	if !ok {
		return ErrNotFound
	}
	if current.Version != program.Version {
		return ErrVersionConflict
	}
	program.Version++
	program.UpdatedAt = t.now
	program.CreatedAt = current.CreatedAt

	stored := *program
	stored.CohortCount = 0
	stored.SyllabusRef = cloneString(program.SyllabusRef)
	t.state.programs[program.ID] = stored
	return nil
}

func (t *memoryTx) DeleteProgram(_ context.Context, id string) error {
	if err := t.write(); err != nil {
		return err
	}
	if _, ok := t.state.programs[id]; !ok {
		return ErrNotFound
	}
	delete(t.state.programs, id)
	delete(t.state.seq, id)
	return nil
}

func (t *memoryTx) CountCohortsByProgram(_ context.Context, programID string) (int, error) {
	return t.countCohorts(programID), nil
}

func (t *memoryTx) countCohorts(programID string) int {
	n := 0
	for _, c := range t.state.cohorts {
		if c.ProgramID == programID {
			n++
		}
	}
	return n
}

// Cohorts

func (t *memoryTx) GetCohort(_ context.Context, id string) (*models.Cohort, error) {
	c, ok := t.state.cohorts[id]
	if !ok {
		return nil, ErrNotFound
	}
	if c.PreviousStatus != nil {
		prev := *c.PreviousStatus
		c.PreviousStatus = &prev
	}
	c.StudentCount = t.countStudents(id)
	c.MentorIDs = t.mentorIDs(id)
	return &c, nil
}

func (t *memoryTx) ListCohorts(ctx context.Context, filter models.CohortFilter) ([]models.Cohort, int, error) {
	ids := make([]string, 0, len(t.state.cohorts))
	for id, c := range t.state.cohorts {
		if filter.ProgramID != "" && c.ProgramID != filter.ProgramID {
			continue
		}
		if filter.Status != nil && c.Status != *filter.Status {
			continue
		}
		ids = append(ids, id)
	}
	t.sortBySeq(ids)

	page, total := paginate(ids, filter.Page, filter.PageSize)
	out := make([]models.Cohort, 0, len(page))
	for _, id := range page {
		c, err := t.GetCohort(ctx, id)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *c)
	}
	return out, total, nil
}

func (t *memoryTx) InsertCohort(_ context.Context, cohort *models.Cohort) error {
	if err := t.write(); err != nil {
		return err
	}
	if cohort.ID == "" {
		cohort.ID = uuid.NewString()
	}
	if _, exists := t.state.cohorts[cohort.ID]; exists {
		return fmt.Errorf("insert cohort %s: %w", cohort.ID, ErrVersionConflict)
	}
	if _, ok := t.state.programs[cohort.ProgramID]; !ok {
		return fmt.Errorf("insert cohort: program %s: %w", cohort.ProgramID, ErrNotFound)
	}
	cohort.Version = 1
	cohort.CreatedAt, cohort.UpdatedAt = t.now, t.now
	cohort.MentorIDs = []string{}
	t.state.cohorts[cohort.ID] = storedCohort(*cohort)
	t.track(cohort.ID)
	return nil
}

func (t *memoryTx) UpdateCohort(_ context.Context, cohort *models.Cohort) error {
	if err := t.write(); err != nil {
		return err
	}
	current, ok := t.state.cohorts[cohort.ID]
	if !ok {
		return ErrNotFound
	}
	if current.Version != cohort.Version {
		return ErrVersionConflict
	}
	cohort.Version++
	cohort.UpdatedAt = t.now
	cohort.CreatedAt = current.CreatedAt
	t.state.cohorts[cohort.ID] = storedCohort(*cohort)
	return nil
}

func (t *memoryTx) DeleteCohort(_ context.Context, id string) error {
	if err := t.write(); err != nil {
		return err
	}
	if _, ok := t.state.cohorts[id]; !ok {
		return ErrNotFound
	}
	delete(t.state.cohorts, id)
	delete(t.state.seq, id)
	t.dropLinks(func(l models.MentorCohortLink) bool { return l.CohortID == id })
	return nil
}

func (t *memoryTx) CountStudentsByCohort(_ context.Context, cohortID string) (int, error) {
	return t.countStudents(cohortID), nil
}

func (t *memoryTx) countStudents(cohortID string) int {
	n := 0
	for _, s := range t.state.students {
		if s.CohortID == cohortID {
			n++
		}
	}
	return n
}

func storedCohort(c models.Cohort) models.Cohort {
	c.StudentCount = 0
	c.MentorIDs = nil
	if c.PreviousStatus != nil {
		prev := *c.PreviousStatus
		c.PreviousStatus = &prev
	}
	return c
}

// Mentors

func (t *memoryTx) GetMentor(_ context.Context, id string) (*models.Mentor, error) {
	m, ok := t.state.mentors[id]
	if !ok {
		return nil, ErrNotFound
	}
	m.AssignedCohortIDs = t.cohortIDs(id)
	return &m, nil
}

func (t *memoryTx) ListMentors(ctx context.Context, filter models.MentorFilter) ([]models.Mentor, int, error) {
	ids := make([]string, 0, len(t.state.mentors))
	for id, m := range t.state.mentors {
		if filter.Status != nil && m.Status != *filter.Status {
			continue
		}
		if filter.Availability != nil && m.Availability != *filter.Availability {
			continue
		}
		if !matches(filter.Search, m.Name, m.Email) {
			continue
		}
		ids = append(ids, id)
	}
	t.sortBySeq(ids)

	page, total := paginate(ids, filter.Page, filter.PageSize)
	out := make([]models.Mentor, 0, len(page))
	for _, id := range page {
		m, err := t.GetMentor(ctx, id)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *m)
	}
	return out, total, nil
}

func (t *memoryTx) InsertMentor(_ context.Context, mentor *models.Mentor) error {
	if err := t.write(); err != nil {
		return err
	}
	if mentor.ID == "" {
		mentor.ID = uuid.NewString()
	}
	if _, exists := t.state.mentors[mentor.ID]; exists {
		return fmt.Errorf("insert mentor %s: %w", mentor.ID, ErrVersionConflict)
	}
	mentor.Version = 1
	mentor.CreatedAt, mentor.UpdatedAt = t.now, t.now
	mentor.AssignedCohortIDs = []string{}

	stored := *mentor
	stored.AssignedCohortIDs = nil
	t.state.mentors[mentor.ID] = stored
	t.track(mentor.ID)
	return nil
}

func (t *memoryTx) UpdateMentor(_ context.Context, mentor *models.Mentor) error {
	if err := t.write(); err != nil {
		return err
	}
	current, ok := t.state.mentors[mentor.ID]
	if !ok {
		return ErrNotFound
	}
	if current.Version != mentor.Version {
		return ErrVersionConflict
	}
	mentor.Version++
	mentor.UpdatedAt = t.now
	mentor.CreatedAt = current.CreatedAt

	stored := *mentor
	stored.AssignedCohortIDs = nil
	t.state.mentors[mentor.ID] = stored
	return nil
}

func (t *memoryTx) DeleteMentor(_ context.Context, id string) error {
	if err := t.write(); err != nil {
		return err
	}
	if _, ok := t.state.mentors[id]; !ok {
		return ErrNotFound
	}
	delete(t.state.mentors, id)
	delete(t.state.seq, id)
	t.dropLinks(func(l models.MentorCohortLink) bool { return l.MentorID == id })
	return nil
}

// Students

func (t *memoryTx) GetStudent(_ context.Context, id string) (*models.Student, error) {
	s, ok := t.state.students[id]
	if !ok {
		return nil, ErrNotFound
	}
	s = cloneStudent(s)
	return &s, nil
}

func (t *memoryTx) ListStudents(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	ids := make([]string, 0, len(t.state.students))
	for id, s := range t.state.students {
		if filter.CohortID != "" && s.CohortID != filter.CohortID {
			continue
		}
		if filter.MentorID != "" && (s.MentorID == nil || *s.MentorID != filter.MentorID) {
			continue
		}
		if filter.Status != nil && s.Status != *filter.Status {
			continue
		}
		if filter.PaymentStatus != nil && s.PaymentStatus != *filter.PaymentStatus {
			continue
		}
		if !matches(filter.Search, s.Name, s.Email) {
			continue
		}
		ids = append(ids, id)
	}
	t.sortBySeq(ids)

	page, total := paginate(ids, filter.Page, filter.PageSize)
	out := make([]models.Student, 0, len(page))
	for _, id := range page {
		s, err := t.GetStudent(ctx, id)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *s)
	}
	return out, total, nil
}

func (t *memoryTx) InsertStudent(_ context.Context, student *models.Student) error {
	if err := t.write(); err != nil {
		return err
	}
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	if _, exists := t.state.students[student.ID]; exists {
		return fmt.Errorf("insert student %s: %w", student.ID, ErrVersionConflict)
	}
	if _, ok := t.state.cohorts[student.CohortID]; !ok {
		return fmt.Errorf("insert student: cohort %s: %w", student.CohortID, ErrNotFound)
	}
	student.Version = 1
	student.CreatedAt, student.UpdatedAt = t.now, t.now
	t.state.students[student.ID] = cloneStudent(*student)
	t.track(student.ID)
	return nil
}

func (t *memoryTx) UpdateStudent(_ context.Context, student *models.Student) error {
	if err := t.write(); err != nil {
		return err
	}
	current, ok := t.state.students[student.ID]
	if !ok {
		return ErrNotFound
	}
	if current.Version != student.Version {
		return ErrVersionConflict
	}
	if _, ok := t.state.cohorts[student.CohortID]; !ok {
		return fmt.Errorf("update student: cohort %s: %w", student.CohortID, ErrNotFound)
	}
	student.Version++
	student.UpdatedAt = t.now
	student.CreatedAt = current.CreatedAt
	t.state.students[student.ID] = cloneStudent(*student)
	return nil
}

func (t *memoryTx) DeleteStudent(_ context.Context, id string) error {
	if err := t.write(); err != nil {
		return err
	}
	if _, ok := t.state.students[id]; !ok {
		return ErrNotFound
	}
	delete(t.state.students, id)
	delete(t.state.notes, id)
	delete(t.state.seq, id)
	return nil
}

func (t *memoryTx) ClearStudentMentor(_ context.Context, mentorID string) (int, error) {
	if err := t.write(); err != nil {
		return 0, err
	}
	cleared := 0
	for id, s := range t.state.students {
		if s.MentorID == nil || *s.MentorID != mentorID {
			continue
		}
		s.MentorID = nil
		s.Version++
		s.UpdatedAt = t.now
		t.state.students[id] = s
		cleared++
	}
	return cleared, nil
}

func (t *memoryTx) AppendNote(_ context.Context, note *models.StudentNote) error {
	if err := t.write(); err != nil {
		return err
	}
	if _, ok := t.state.students[note.StudentID]; !ok {
		return ErrNotFound
	}
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	note.CreatedAt = t.now
	t.state.notes[note.StudentID] = append(t.state.notes[note.StudentID], *note)
	return nil
}

func (t *memoryTx) ListNotes(_ context.Context, studentID string) ([]models.StudentNote, error) {
	if _, ok := t.state.students[studentID]; !ok {
		return nil, ErrNotFound
	}
	return append([]models.StudentNote{}, t.state.notes[studentID]...), nil
}

// Links

func (t *memoryTx) InsertLink(_ context.Context, link models.MentorCohortLink) error {
	if err := t.write(); err != nil {
		return err
	}
	if _, ok := t.state.mentors[link.MentorID]; !ok {
		return fmt.Errorf("insert link: mentor %s: %w", link.MentorID, ErrNotFound)
	}
	if _, ok := t.state.cohorts[link.CohortID]; !ok {
		return fmt.Errorf("insert link: cohort %s: %w", link.CohortID, ErrNotFound)
	}
	if t.linkIndex(link.MentorID, link.CohortID) >= 0 {
		return fmt.Errorf("insert link %s/%s: %w", link.MentorID, link.CohortID, ErrVersionConflict)
	}
	if link.LinkedAt.IsZero() {
		link.LinkedAt = t.now
	}
	t.state.links = append(t.state.links, link)
	return nil
}

func (t *memoryTx) DeleteLink(_ context.Context, mentorID, cohortID string) error {
	if err := t.write(); err != nil {
		return err
	}
	idx := t.linkIndex(mentorID, cohortID)
	if idx < 0 {
		return ErrNotFound
	}
	t.state.links = append(t.state.links[:idx:idx], t.state.links[idx+1:]...)
	return nil
}

func (t *memoryTx) LinkExists(_ context.Context, mentorID, cohortID string) (bool, error) {
	return t.linkIndex(mentorID, cohortID) >= 0, nil
}

func (t *memoryTx) CohortIDsForMentor(_ context.Context, mentorID string) ([]string, error) {
	return t.cohortIDs(mentorID), nil
}

func (t *memoryTx) MentorIDsForCohort(_ context.Context, cohortID string) ([]string, error) {
	return t.mentorIDs(cohortID), nil
}

func (t *memoryTx) linkIndex(mentorID, cohortID string) int {
	for i, l := range t.state.links {
		if l.MentorID == mentorID && l.CohortID == cohortID {
			return i
		}
	}
	return -1
}

func (t *memoryTx) cohortIDs(mentorID string) []string {
	ids := []string{}
	for _, l := range t.state.links {
		if l.MentorID == mentorID {
			ids = append(ids, l.CohortID)
		}
	}
	return ids
}

func (t *memoryTx) mentorIDs(cohortID string) []string {
	ids := []string{}
	for _, l := range t.state.links {
		if l.CohortID == cohortID {
			ids = append(ids, l.MentorID)
		}
	}
	return ids
}

func (t *memoryTx) dropLinks(match func(models.MentorCohortLink) bool) {
	kept := t.state.links[:0:0]
	for _, l := range t.state.links {
		if !match(l) {
			kept = append(kept, l)
		}
	}
	t.state.links = kept
}

func paginate(ids []string, page, size int) ([]string, int) {
	total := len(ids)
	page, size = models.NormalizePage(page, size)
	start := (page - 1) * size
	if start >= total {
		return nil, total
	}
	end := start + size
	if end > total {
		end = total
	}
	return ids[start:end], total
}

func matches(search string, fields ...string) bool {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneStudent(s models.Student) models.Student {
	s.MentorID = cloneString(s.MentorID)
	s.StatusReason = cloneString(s.StatusReason)
	if s.LastActivityAt != nil {
		at := *s.LastActivityAt
		s.LastActivityAt = &at
	}
	return s
}
