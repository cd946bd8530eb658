package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"staffhub/internal/model"
	"staffhub/internal/repository"
	"staffhub/pkg/daterange"
)

// ── 测试日期辅助 ──

func day(s string) time.Time {
	t, err := time.Parse(daterange.Layout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func date(s string) datatypes.Date {
	return model.NewDate(day(s))
}

func datePtr(s string) *datatypes.Date {
	d := date(s)
	return &d
}

func strPtr(s string) *string { return &s }

// inWindow 判断 d 是否落在 [from, to] 内，nil 端不限
func inWindow(d time.Time, from, to *time.Time) bool {
	if from != nil && d.Before(daterange.Truncate(*from)) {
		return false
	}
	if to != nil && d.After(daterange.Truncate(*to)) {
		return false
	}
	return true
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users   map[string]*model.User
	seq     int
	lockErr error
	locked  []string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%03d", m.seq)
	}
	cp := *user
	m.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) LockByID(ctx context.Context, id string) (*model.User, error) {
	if m.lockErr != nil {
		return nil, m.lockErr
	}
	m.locked = append(m.locked, id)
	return m.GetByID(ctx, id)
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	cp := *user
	m.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) List(_ context.Context, filter repository.UserFilter) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range m.users {
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result, int64(len(result)), nil
}

func (m *mockUserRepo) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	users, _, err := m.List(ctx, repository.UserFilter{Role: &role})
	return users, err
}

func (m *mockUserRepo) CountByRole(ctx context.Context, role model.Role) (int64, error) {
	_, n, err := m.List(ctx, repository.UserFilter{Role: &role})
	return n, err
}

// ── Mock ClientRepository ──

type mockClientRepo struct {
	clients map[string]*model.Client
	seq     int
}

func newMockClientRepo() *mockClientRepo {
	return &mockClientRepo{clients: make(map[string]*model.Client)}
}

func (m *mockClientRepo) Create(_ context.Context, client *model.Client) error {
	if client.ClientID == "" {
		m.seq++
		client.ClientID = fmt.Sprintf("client-%03d", m.seq)
	}
	cp := *client
	m.clients[client.ClientID] = &cp
	return nil
}

func (m *mockClientRepo) GetByID(_ context.Context, id string) (*model.Client, error) {
	if c, ok := m.clients[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockClientRepo) GetByEmail(_ context.Context, email string) (*model.Client, error) {
	for _, c := range m.clients {
		if c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockClientRepo) List(_ context.Context) ([]model.Client, error) {
	var result []model.Client
	for _, c := range m.clients {
		result = append(result, *c)
	}
	return result, nil
}

func (m *mockClientRepo) Update(_ context.Context, client *model.Client) error {
	cp := *client
	m.clients[client.ClientID] = &cp
	return nil
}

func (m *mockClientRepo) Delete(_ context.Context, id string) error {
	delete(m.clients, id)
	return nil
}

// ── Mock ProjectRepository ──

type mockProjectRepo struct {
	projects map[string]*model.Project
	seq      int
	locked   []string
	listErr  error
}

func newMockProjectRepo() *mockProjectRepo {
	return &mockProjectRepo{projects: make(map[string]*model.Project)}
}

func (m *mockProjectRepo) Create(_ context.Context, project *model.Project) error {
	if project.ProjectID == "" {
		m.seq++
		project.ProjectID = fmt.Sprintf("project-%03d", m.seq)
	}
	cp := *project
	m.projects[project.ProjectID] = &cp
	return nil
}

func (m *mockProjectRepo) GetByID(_ context.Context, id string) (*model.Project, error) {
	if p, ok := m.projects[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProjectRepo) LockByID(ctx context.Context, id string) (*model.Project, error) {
	m.locked = append(m.locked, id)
	return m.GetByID(ctx, id)
}

func (m *mockProjectRepo) List(_ context.Context, filter repository.ProjectFilter) ([]model.Project, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []model.Project
	for _, p := range m.projects {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.ClientID != "" && (p.ClientID == nil || *p.ClientID != filter.ClientID) {
			continue
		}
		result = append(result, *p)
	}
	return result, nil
}

func (m *mockProjectRepo) Update(_ context.Context, project *model.Project) error {
	cp := *project
	m.projects[project.ProjectID] = &cp
	return nil
}

func (m *mockProjectRepo) Delete(_ context.Context, id string) error {
	delete(m.projects, id)
	return nil
}

// ── Mock LeaveRepository ──

type mockLeaveRepo struct {
	leaves map[string]*model.Leave
	seq    int
	err    error // 非空时所有查询返回该错误
}

func newMockLeaveRepo() *mockLeaveRepo {
	return &mockLeaveRepo{leaves: make(map[string]*model.Leave)}
}

func (m *mockLeaveRepo) Create(_ context.Context, leave *model.Leave) error {
	if leave.LeaveID == "" {
		m.seq++
		leave.LeaveID = fmt.Sprintf("leave-%03d", m.seq)
	}
	cp := *leave
	m.leaves[leave.LeaveID] = &cp
	return nil
}

func (m *mockLeaveRepo) GetByID(_ context.Context, id string) (*model.Leave, error) {
	if l, ok := m.leaves[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLeaveRepo) Update(_ context.Context, leave *model.Leave) error {
	cp := *leave
	m.leaves[leave.LeaveID] = &cp
	return nil
}

func (m *mockLeaveRepo) Delete(_ context.Context, id string) error {
	delete(m.leaves, id)
	return nil
}

func (m *mockLeaveRepo) List(_ context.Context, filter repository.LeaveFilter) ([]model.Leave, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []model.Leave
	for _, l := range m.leaves {
		if filter.UserID != "" && l.UserID != filter.UserID {
			continue
		}
		rng := l.Range()
		if filter.To != nil && rng.Start.After(daterange.Truncate(*filter.To)) {
			continue
		}
		if filter.From != nil && rng.End.Before(daterange.Truncate(*filter.From)) {
			continue
		}
		result = append(result, *l)
	}
	sort.Slice(result, func(i, j int) bool {
		return model.DateTime(result[i].StartDate).Before(model.DateTime(result[j].StartDate))
	})
	return result, nil
}

func (m *mockLeaveRepo) FindOverlapping(_ context.Context, userID string, rng daterange.Range, excludeID string) ([]model.Leave, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []model.Leave
	for _, l := range m.leaves {
		if l.UserID != userID || l.LeaveID == excludeID {
			continue
		}
		lr := l.Range()
		if !lr.Start.After(rng.End) && !lr.End.Before(rng.Start) {
			result = append(result, *l)
		}
	}
	return result, nil
}

func (m *mockLeaveRepo) ExistsPeriod(_ context.Context, userID string, rng daterange.Range, excludeID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	for _, l := range m.leaves {
		if l.UserID != userID || l.LeaveID == excludeID {
			continue
		}
		lr := l.Range()
		if lr.Start.Equal(rng.Start) && lr.End.Equal(rng.End) {
			return true, nil
		}
	}
	return false, nil
}

// ── Mock TimeEntryRepository ──

type mockTimeEntryRepo struct {
	entries map[string]*model.TimeEntry
	seq     int
}

func newMockTimeEntryRepo() *mockTimeEntryRepo {
	return &mockTimeEntryRepo{entries: make(map[string]*model.TimeEntry)}
}

func (m *mockTimeEntryRepo) Create(_ context.Context, entry *model.TimeEntry) error {
	if entry.TimeEntryID == "" {
		m.seq++
		entry.TimeEntryID = fmt.Sprintf("entry-%03d", m.seq)
	}
	cp := *entry
	m.entries[entry.TimeEntryID] = &cp
	return nil
}

func (m *mockTimeEntryRepo) GetByID(_ context.Context, id string) (*model.TimeEntry, error) {
	if e, ok := m.entries[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimeEntryRepo) Update(_ context.Context, entry *model.TimeEntry) error {
	cp := *entry
	m.entries[entry.TimeEntryID] = &cp
	return nil
}

func (m *mockTimeEntryRepo) Delete(_ context.Context, id string) error {
	delete(m.entries, id)
	return nil
}

func (m *mockTimeEntryRepo) List(_ context.Context, filter repository.TimeEntryFilter) ([]model.TimeEntry, error) {
	var result []model.TimeEntry
	for _, e := range m.entries {
		if filter.UserID != "" && (e.UserID == nil || *e.UserID != filter.UserID) {
			continue
		}
		if filter.ProjectID != "" && e.ProjectID != filter.ProjectID {
			continue
		}
		if !inWindow(model.DateTime(e.StartDate), filter.From, filter.To) {
			continue
		}
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].TimeEntryID < result[j].TimeEntryID })
	return result, nil
}

func (m *mockTimeEntryRepo) ExistsKey(_ context.Context, userID *string, startDate time.Time, projectID, excludeID string) (bool, error) {
	start := daterange.Truncate(startDate)
	for _, e := range m.entries {
		if e.TimeEntryID == excludeID || e.ProjectID != projectID {
			continue
		}
		if !model.DateTime(e.StartDate).Equal(start) {
			continue
		}
		switch {
		case userID == nil && e.UserID == nil:
			return true, nil
		case userID != nil && e.UserID != nil && *userID == *e.UserID:
			return true, nil
		}
	}
	return false, nil
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct {
	assignments map[string]*model.Assignment
	seq         int
}

func newMockAssignmentRepo() *mockAssignmentRepo {
	return &mockAssignmentRepo{assignments: make(map[string]*model.Assignment)}
}

func (m *mockAssignmentRepo) Create(_ context.Context, a *model.Assignment) error {
	if a.AssignmentID == "" {
		m.seq++
		a.AssignmentID = fmt.Sprintf("assignment-%03d", m.seq)
	}
	cp := *a
	m.assignments[a.AssignmentID] = &cp
	return nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id string) (*model.Assignment, error) {
	if a, ok := m.assignments[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) Update(_ context.Context, a *model.Assignment) error {
	cp := *a
	m.assignments[a.AssignmentID] = &cp
	return nil
}

func (m *mockAssignmentRepo) Delete(_ context.Context, id string) error {
	delete(m.assignments, id)
	return nil
}

func (m *mockAssignmentRepo) List(_ context.Context, filter repository.AssignmentFilter) ([]model.Assignment, error) {
	var result []model.Assignment
	for _, a := range m.assignments {
		if filter.EngineerID != "" && a.EngineerID != filter.EngineerID {
			continue
		}
		if filter.ProjectID != "" && a.ProjectID != filter.ProjectID {
			continue
		}
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].AssignmentID < result[j].AssignmentID })
	return result, nil
}

// ── Mock Transactor ──

// mockTransactor 直接以同一组 mock 执行 fn，记录调用次数
type mockTransactor struct {
	repo  *repository.Repository
	calls int
}

func (m *mockTransactor) WithinTx(_ context.Context, fn func(tx *repository.Repository) error) error {
	m.calls++
	return fn(m.repo)
}

// ── 聚合 ──

type mockRepos struct {
	user       *mockUserRepo
	client     *mockClientRepo
	project    *mockProjectRepo
	leave      *mockLeaveRepo
	timeEntry  *mockTimeEntryRepo
	assignment *mockAssignmentRepo
	tx         *mockTransactor
}

func newMockRepository() (*repository.Repository, *mockRepos) {
	m := &mockRepos{
		user:       newMockUserRepo(),
		client:     newMockClientRepo(),
		project:    newMockProjectRepo(),
		leave:      newMockLeaveRepo(),
		timeEntry:  newMockTimeEntryRepo(),
		assignment: newMockAssignmentRepo(),
	}
	repo := &repository.Repository{
		User:       m.user,
		Client:     m.client,
		Project:    m.project,
		Leave:      m.leave,
		TimeEntry:  m.timeEntry,
		Assignment: m.assignment,
	}
	m.tx = &mockTransactor{repo: repo}
	repo.Tx = m.tx
	return repo, m
}

// seedUser 写入一个指定角色的用户
func (m *mockRepos) seedUser(id string, role model.Role) *model.User {
	u := &model.User{
		UserID:   id,
		Username: id,
		Name:     "User " + id,
		Email:    id + "@example.com",
		Role:     role,
	}
	_ = m.user.Create(context.Background(), u)
	return u
}

func (m *mockRepos) seedProject(id, name string) *model.Project {
	p := &model.Project{
		ProjectID: id,
		Name:      name,
		StartDate: date("2024-01-01"),
		Status:    model.ProjectStatusInProgress,
	}
	_ = m.project.Create(context.Background(), p)
	return p
}

func (m *mockRepos) seedLeave(id, userID, start, end string) *model.Leave {
	l := &model.Leave{
		LeaveID:   id,
		UserID:    userID,
		StartDate: date(start),
		EndDate:   date(end),
	}
	_ = m.leave.Create(context.Background(), l)
	return l
}
