package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/tempoworks/timesheet-system/internal/core/domain"
)

// fixedNow is the clock used by every service under test.
var fixedNow = time.Date(2024, time.March, 20, 15, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu        sync.Mutex
	seq       int
	byID      map[string]*domain.User
	order     []string
	deleteErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	c.AssignedProjects = slices.Clone(u.AssignedProjects)
	return &c
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Username == u.Username {
			return nil, domain.ErrUserExists
		}
		if existing.Email == u.Email {
			return nil, domain.ErrEmailExists
		}
	}
	r.seq++
	c := cloneUser(u)
	if c.ID == "" {
		c.ID = fmt.Sprintf("user-%d", r.seq)
	}
	r.byID[c.ID] = c
	r.order = append(r.order, c.ID)
	return cloneUser(c), nil
}

// put seeds a user directly, bypassing uniqueness checks.
func (r *stubUserRepo) put(u *domain.User) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[u.ID] = cloneUser(u)
	r.order = append(r.order, u.ID)
	return u
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) FindAll(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.order))
	for _, id := range r.order {
		if u, ok := r.byID[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.byID[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) AddAssignedProject(_ context.Context, userIDs []string, projectID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range userIDs {
		if u, ok := r.byID[id]; ok && !slices.Contains(u.AssignedProjects, projectID) {
			u.AssignedProjects = append(u.AssignedProjects, projectID)
		}
	}
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.byID, id)
	return nil
}

type stubProjectRepo struct {
	mu           sync.Mutex
	seq          int
	byID         map[string]*domain.Project
	order        []string
	incrementErr error
}

func newStubProjectRepo() *stubProjectRepo {
	return &stubProjectRepo{byID: make(map[string]*domain.Project)}
}

func cloneProject(p *domain.Project) *domain.Project {
	c := *p
	c.AssignedUsers = slices.Clone(p.AssignedUsers)
	return &c
}

func (r *stubProjectRepo) Create(_ context.Context, p *domain.Project) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Name == p.Name {
			return nil, domain.ErrProjectExists
		}
	}
	r.seq++
	c := cloneProject(p)
	if c.ID == "" {
		c.ID = fmt.Sprintf("project-%d", r.seq)
	}
	r.byID[c.ID] = c
	r.order = append(r.order, c.ID)
	return cloneProject(c), nil
}

func (r *stubProjectRepo) put(p *domain.Project) *domain.Project {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[p.ID] = cloneProject(p)
	r.order = append(r.order, p.ID)
	return p
}

func (r *stubProjectRepo) get(id string) *domain.Project {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneProject(r.byID[id])
}

func (r *stubProjectRepo) FindByID(_ context.Context, id string) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	return cloneProject(p), nil
}

func (r *stubProjectRepo) FindAll(_ context.Context) ([]*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Project, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, cloneProject(r.byID[id]))
	}
	return out, nil
}

func (r *stubProjectRepo) UpdateStatus(_ context.Context, id string, from, to domain.ProjectStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return domain.ErrProjectNotFound
	}
	if p.Status != from {
		return domain.ErrInvalidTransition
	}
	p.Status = to
	return nil
}

func (r *stubProjectRepo) AddAssignedUsers(_ context.Context, projectID string, userIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[projectID]
	if !ok {
		return domain.ErrProjectNotFound
	}
	for _, id := range userIDs {
		if !slices.Contains(p.AssignedUsers, id) {
			p.AssignedUsers = append(p.AssignedUsers, id)
		}
	}
	return nil
}

func (r *stubProjectRepo) RemoveAssignedUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.byID {
		p.AssignedUsers = slices.DeleteFunc(p.AssignedUsers, func(id string) bool { return id == userID })
	}
	return nil
}

func (r *stubProjectRepo) IncrementBilledHours(_ context.Context, projectID string, hours int) error {
	if r.incrementErr != nil {
		return r.incrementErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[projectID]
	if !ok {
		return domain.ErrProjectNotFound
	}
	p.TotalBilledHours += hours
	return nil
}

type stubTimesheetRepo struct {
	mu    sync.Mutex
	seq   int
	byID  map[string]*domain.Timesheet
	order []string
	// existsOverride forces ExistsForWeek to report false so the unique
	// constraint in Create is what rejects a duplicate.
	existsOverride bool
}

func newStubTimesheetRepo() *stubTimesheetRepo {
	return &stubTimesheetRepo{byID: make(map[string]*domain.Timesheet)}
}

func cloneTimesheet(t *domain.Timesheet) *domain.Timesheet {
	c := *t
	c.DailyHours = t.DailyHours.Clone()
	return &c
}

func (r *stubTimesheetRepo) Create(_ context.Context, t *domain.Timesheet) (*domain.Timesheet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.UserID == t.UserID && existing.ProjectID == t.ProjectID && existing.WeekStartDate.Equal(t.WeekStartDate) {
			return nil, domain.ErrDuplicateTimesheet
		}
	}
	r.seq++
	c := cloneTimesheet(t)
	if c.ID == "" {
		c.ID = fmt.Sprintf("ts-%d", r.seq)
	}
	r.byID[c.ID] = c
	r.order = append(r.order, c.ID)
	return cloneTimesheet(c), nil
}

func (r *stubTimesheetRepo) put(t *domain.Timesheet) *domain.Timesheet {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[t.ID] = cloneTimesheet(t)
	r.order = append(r.order, t.ID)
	return t
}

func (r *stubTimesheetRepo) filter(keep func(*domain.Timesheet) bool) []*domain.Timesheet {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Timesheet, 0)
	for _, id := range r.order {
		if t := r.byID[id]; keep(t) {
			out = append(out, cloneTimesheet(t))
		}
	}
	return out
}

func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

func (r *stubTimesheetRepo) FindByID(_ context.Context, id string) (*domain.Timesheet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrTimesheetNotFound
	}
	return cloneTimesheet(t), nil
}

func (r *stubTimesheetRepo) FindAll(_ context.Context) ([]*domain.Timesheet, error) {
	return r.filter(func(*domain.Timesheet) bool { return true }), nil
}

func (r *stubTimesheetRepo) FindByProject(_ context.Context, projectID string) ([]*domain.Timesheet, error) {
	return r.filter(func(t *domain.Timesheet) bool { return t.ProjectID == projectID }), nil
}

func (r *stubTimesheetRepo) FindByUserAndWeekRange(_ context.Context, userID string, start, end time.Time) ([]*domain.Timesheet, error) {
	return r.filter(func(t *domain.Timesheet) bool {
		return t.UserID == userID && inRange(t.WeekStartDate, start, end)
	}), nil
}

func (r *stubTimesheetRepo) FindByProjectAndWeekRange(_ context.Context, projectID string, start, end time.Time) ([]*domain.Timesheet, error) {
	return r.filter(func(t *domain.Timesheet) bool {
		return t.ProjectID == projectID && inRange(t.WeekStartDate, start, end)
	}), nil
}

func (r *stubTimesheetRepo) FindByWeekStartAfter(_ context.Context, after time.Time) ([]*domain.Timesheet, error) {
	return r.filter(func(t *domain.Timesheet) bool { return t.WeekStartDate.After(after) }), nil
}

func (r *stubTimesheetRepo) ExistsForWeek(_ context.Context, userID, projectID string, week time.Time) (bool, error) {
	if r.existsOverride {
		return false, nil
	}
	found := r.filter(func(t *domain.Timesheet) bool {
		return t.UserID == userID && t.ProjectID == projectID && t.WeekStartDate.Equal(week)
	})
	return len(found) > 0, nil
}

func (r *stubTimesheetRepo) UpdateReview(_ context.Context, id string, status domain.TimesheetStatus, description string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok {
		return domain.ErrTimesheetNotFound
	}
	if t.Status != domain.TimesheetSubmitted {
		return domain.ErrTimesheetNotSubmitted
	}
	t.Status = status
	t.Description = description
	return nil
}

func (r *stubTimesheetRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrTimesheetNotFound
	}
	delete(r.byID, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Collaborator stubs
// ---------------------------------------------------------------------------

type stubLocker struct {
	mu         sync.Mutex
	seq        int
	held       map[string]string // key -> holder token
	acquireErr error
	released   []string
	// takeover hands the lock to another request right after it is granted,
	// as if the TTL expired mid-submission.
	takeover bool
}

func newStubLocker() *stubLocker {
	return &stubLocker{held: make(map[string]string)}
}

func (l *stubLocker) Acquire(_ context.Context, key string) (string, bool, error) {
	if l.acquireErr != nil {
		return "", false, l.acquireErr
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[key]; ok {
		return "", false, nil
	}
	l.seq++
	token := fmt.Sprintf("token-%d", l.seq)
	l.held[key] = token
	if l.takeover {
		l.held[key] = "other-request"
	}
	return token, true, nil
}

// Release only drops a lock still held with the caller's token.
func (l *stubLocker) Release(_ context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] != token {
		return errors.New("lock not held")
	}
	delete(l.held, key)
	l.released = append(l.released, key)
	return nil
}

// stubHasher "hashes" by prefixing, which keeps assertions readable.
type stubHasher struct{}

func (stubHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (stubHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return domain.ErrInvalidCredentials
	}
	return nil
}

type stubIssuer struct {
	issued []string
}

func (s *stubIssuer) Issue(user *domain.User) (string, time.Time, error) {
	s.issued = append(s.issued, user.ID)
	return "token-for-" + user.ID, fixedNow.Add(time.Hour), nil
}
