package task_test

import (
	"context"
	"testing"

	"github.com/fenan-yosef/hrms-backend/internal/domain"
	"github.com/fenan-yosef/hrms-backend/internal/rbac"
	"github.com/fenan-yosef/hrms-backend/internal/task"
	taskerrors "github.com/fenan-yosef/hrms-backend/internal/task/errors"
	"github.com/fenan-yosef/hrms-backend/internal/user"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeTaskRepository struct {
	tasks       map[string]*task.Task
	assignees   map[string]map[string]struct{}
	assignments []task.TaskAssignment
	comments    map[string][]task.TaskComment
	attachments map[string][]task.TaskAttachment

	findAllFn func(ctx context.Context, filter task.ListFilter) ([]task.Task, error)
}

func newFakeTaskRepository() *fakeTaskRepository {
	return &fakeTaskRepository{
		tasks:       map[string]*task.Task{},
		assignees:   map[string]map[string]struct{}{},
		comments:    map[string][]task.TaskComment{},
		attachments: map[string][]task.TaskAttachment{},
	}
}

func (f *fakeTaskRepository) WithTx(tx *gorm.DB) task.Repository { return f }

func (f *fakeTaskRepository) Create(ctx context.Context, t *task.Task) error {
	cp := *t
	f.tasks[t.ID.String()] = &cp
	return nil
}

func (f *fakeTaskRepository) FindByID(ctx context.Context, id string) (*task.Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTaskRepository) FindAll(ctx context.Context, filter task.ListFilter) ([]task.Task, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, filter)
	}
	out := []task.Task{}
	for _, t := range f.tasks {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeTaskRepository) Update(ctx context.Context, t *task.Task) error {
	cp := *t
	f.tasks[t.ID.String()] = &cp
	return nil
}

func (f *fakeTaskRepository) SoftDelete(ctx context.Context, id string) error {
	delete(f.tasks, id)
	return nil
}

func (f *fakeTaskRepository) AddAssignee(ctx context.Context, a task.TaskAssignee) error {
	key := a.TaskID.String()
	if f.assignees[key] == nil {
		f.assignees[key] = map[string]struct{}{}
	}
	f.assignees[key][a.UserID.String()] = struct{}{}
	return nil
}

func (f *fakeTaskRepository) RemoveAssignee(ctx context.Context, taskID, userID string) (bool, error) {
	set, ok := f.assignees[taskID]
	if !ok {
		return false, nil
	}
	if _, ok := set[userID]; !ok {
		return false, nil
	}
	delete(set, userID)
	return true, nil
}

func (f *fakeTaskRepository) ListAssignees(ctx context.Context, taskID string) ([]task.TaskAssignee, error) {
	out := []task.TaskAssignee{}
	tid := uuid.MustParse(taskID)
	for uid := range f.assignees[taskID] {
		out = append(out, task.TaskAssignee{TaskID: tid, UserID: uuid.MustParse(uid)})
	}
	return out, nil
}

func (f *fakeTaskRepository) IsAssignee(ctx context.Context, taskID, userID string) (bool, error) {
	_, ok := f.assignees[taskID][userID]
	return ok, nil
}

func (f *fakeTaskRepository) RecordAssignment(ctx context.Context, a *task.TaskAssignment) error {
	f.assignments = append(f.assignments, *a)
	return nil
}

func (f *fakeTaskRepository) ListAssignments(ctx context.Context, taskID string) ([]task.TaskAssignment, error) {
	out := []task.TaskAssignment{}
	for _, a := range f.assignments {
		if a.TaskID.String() == taskID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeTaskRepository) CreateComment(ctx context.Context, c *task.TaskComment) error {
	key := c.TaskID.String()
	f.comments[key] = append(f.comments[key], *c)
	return nil
}

func (f *fakeTaskRepository) ListComments(ctx context.Context, taskID string) ([]task.TaskComment, error) {
	return f.comments[taskID], nil
}

func (f *fakeTaskRepository) SoftDeleteComment(ctx context.Context, taskID, commentID string) error {
	rows := f.comments[taskID]
	for i, c := range rows {
		if c.ID.String() == commentID {
			f.comments[taskID] = append(rows[:i], rows[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeTaskRepository) CreateAttachment(ctx context.Context, a *task.TaskAttachment) error {
	key := a.TaskID.String()
	f.attachments[key] = append(f.attachments[key], *a)
	return nil
}

func (f *fakeTaskRepository) ListAttachments(ctx context.Context, taskID string) ([]task.TaskAttachment, error) {
	return f.attachments[taskID], nil
}

func (f *fakeTaskRepository) SoftDeleteAttachment(ctx context.Context, taskID, attachmentID string) error {
	rows := f.attachments[taskID]
	for i, a := range rows {
		if a.ID.String() == attachmentID {
			f.attachments[taskID] = append(rows[:i], rows[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeUserLookup struct {
	users map[string]*user.User
}

func (f *fakeUserLookup) WithTx(tx *gorm.DB) user.Repository { return f }

func (f *fakeUserLookup) Create(ctx context.Context, u *user.User) error { return nil }

func (f *fakeUserLookup) FindByID(ctx context.Context, id string, includeDeleted bool) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeUserLookup) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserLookup) FindAll(ctx context.Context, scope user.ListScope) ([]user.User, int64, error) {
	return nil, 0, nil
}

func (f *fakeUserLookup) Update(ctx context.Context, u *user.User) error { return nil }

func (f *fakeUserLookup) SoftDelete(ctx context.Context, id string) error { return nil }

func (f *fakeUserLookup) Restore(ctx context.Context, id string) error { return nil }

type taskServiceDeps struct {
	sqlMock sqlmock.Sqlmock
	service task.Service
	repo    *fakeTaskRepository
	users   *fakeUserLookup
}

func setupTaskServiceTest(t *testing.T) *taskServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: logger.Discard,
	})
	require.NoError(t, err)

	repo := newFakeTaskRepository()
	users := &fakeUserLookup{users: map[string]*user.User{}}
	svc := task.NewService(gdb, repo, users, zap.NewNop())

	return &taskServiceDeps{sqlMock: sqlMock, service: svc, repo: repo, users: users}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func seedUser(deps *taskServiceDeps, role domain.Role, deptID *uuid.UUID) *user.User {
	u := &user.User{
		ID:           uuid.New(),
		FirstName:    "Sara",
		LastName:     "Tesfaye",
		Role:         role,
		DepartmentID: deptID,
		IsActive:     true,
	}
	deps.users.users[u.ID.String()] = u
	return u
}

func userActor(u *user.User) rbac.Actor {
	dept := ""
	if u.DepartmentID != nil {
		dept = u.DepartmentID.String()
	}
	return rbac.Actor{ID: u.ID.String(), Role: u.Role, DepartmentID: dept}
}

func TestCreateTaskWithInitialAssignees(t *testing.T) {
	deps := setupTaskServiceTest(t)
	ctx := context.Background()

	dept := uuid.New()
	creator := seedUser(deps, domain.RoleManager, &dept)
	assignee := seedUser(deps, domain.RoleEmployee, &dept)

	expectTx(t, deps.sqlMock, true)
	due := "2026-09-15"
	resp, err := deps.service.Create(ctx, userActor(creator), task.CreateTaskRequest{
		Title:        "Quarterly onboarding review",
		DepartmentID: dept.String(),
		Priority:     task.PriorityHigh,
		DueDate:      &due,
		Assignees:    []string{assignee.ID.String()},
	})
	require.NoError(t, err)

	assert.Equal(t, task.StatusTodo, resp.Status)
	assert.Equal(t, task.PriorityHigh, resp.Priority)
	assert.Equal(t, creator.ID.String(), resp.CreatorID)
	assert.Equal(t, []string{assignee.ID.String()}, resp.Assignees)

	require.Len(t, deps.repo.assignments, 1)
	assert.Equal(t, task.AssignmentAssigned, deps.repo.assignments[0].Action)
	assert.Equal(t, assignee.ID, deps.repo.assignments[0].AssignedTo)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestCreateTaskRejectsUnknownAssignee(t *testing.T) {
	deps := setupTaskServiceTest(t)
	ctx := context.Background()

	creator := seedUser(deps, domain.RoleEmployee, nil)

	_, err := deps.service.Create(ctx, userActor(creator), task.CreateTaskRequest{
		Title:     "Ghost assignment",
		Assignees: []string{uuid.NewString()},
	})
	assert.ErrorIs(t, err, taskerrors.ErrInvalidAssigneeID)
}

func TestCreateTaskDefaultsPriority(t *testing.T) {
	deps := setupTaskServiceTest(t)
	ctx := context.Background()

	creator := seedUser(deps, domain.RoleEmployee, nil)

	expectTx(t, deps.sqlMock, true)
	resp, err := deps.service.Create(ctx, userActor(creator), task.CreateTaskRequest{
		Title: "Update directory photos",
	})
	require.NoError(t, err)
	assert.Equal(t, task.PriorityMedium, resp.Priority)
}

func TestAssignAndUnassignRecordHistory(t *testing.T) {
	deps := setupTaskServiceTest(t)
	ctx := context.Background()

	creator := seedUser(deps, domain.RoleEmployee, nil)
	colleague := seedUser(deps, domain.RoleEmployee, nil)

	expectTx(t, deps.sqlMock, true)
	created, err := deps.service.Create(ctx, userActor(creator), task.CreateTaskRequest{Title: "Prepare badge audit"})
	require.NoError(t, err)

	expectTx(t, deps.sqlMock, true)
	resp, err := deps.service.Assign(ctx, userActor(creator), created.ID, colleague.ID.String())
	require.NoError(t, err)
	assert.Contains(t, resp.Assignees, colleague.ID.String())

	// A second assign of the same user is rejected before any write.
	_, err = deps.service.Assign(ctx, userActor(creator), created.ID, colleague.ID.String())
	assert.ErrorIs(t, err, taskerrors.ErrAlreadyAssigned)

	expectTx(t, deps.sqlMock, true)
	resp, err = deps.service.Unassign(ctx, userActor(creator), created.ID, colleague.ID.String())
	require.NoError(t, err)
	assert.NotContains(t, resp.Assignees, colleague.ID.String())

	history, err := deps.service.GetAssignments(ctx, userActor(creator), created.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, task.AssignmentAssigned, history[0].Action)
	assert.Equal(t, task.AssignmentUnassigned, history[1].Action)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestUnassignRejectsNonAssignee(t *testing.T) {
	deps := setupTaskServiceTest(t)
	ctx := context.Background()

	creator := seedUser(deps, domain.RoleEmployee, nil)
	stranger := seedUser(deps, domain.RoleEmployee, nil)

	expectTx(t, deps.sqlMock, true)
	created, err := deps.service.Create(ctx, userActor(creator), task.CreateTaskRequest{Title: "Review exit checklist"})
	require.NoError(t, err)

	expectTx(t, deps.sqlMock, false)
	_, err = deps.service.Unassign(ctx, userActor(creator), created.ID, stranger.ID.String())
	assert.ErrorIs(t, err, taskerrors.ErrNotAssigned)
}

func TestMarkDoneSetsCompletionOnce(t *testing.T) {
	deps := setupTaskServiceTest(t)
	ctx := context.Background()

	creator := seedUser(deps, domain.RoleEmployee, nil)

	expectTx(t, deps.sqlMock, true)
	created, err := deps.service.Create(ctx, userActor(creator), task.CreateTaskRequest{Title: "File quarterly report"})
	require.NoError(t, err)

	resp, err := deps.service.MarkDone(ctx, userActor(creator), created.ID)
	require.NoError(t, err)
	assert.Equal(t, task.StatusDone, resp.Status)
	require.NotNil(t, resp.CompletedAt)

	_, err = deps.service.MarkDone(ctx, userActor(creator), created.ID)
	assert.ErrorIs(t, err, taskerrors.ErrTaskDone)
}

func TestTaskVisibilityScoping(t *testing.T) {
	deps := setupTaskServiceTest(t)
	ctx := context.Background()

	dept := uuid.New()
	otherDept := uuid.New()
	creator := seedUser(deps, domain.RoleEmployee, &dept)
	assignee := seedUser(deps, domain.RoleEmployee, &otherDept)
	sameDeptManager := seedUser(deps, domain.RoleManager, &dept)
	otherManager := seedUser(deps, domain.RoleManager, &otherDept)
	stranger := seedUser(deps, domain.RoleEmployee, &otherDept)
	hr := seedUser(deps, domain.RoleHR, nil)

	expectTx(t, deps.sqlMock, true)
	created, err := deps.service.Create(ctx, userActor(creator), task.CreateTaskRequest{
		Title:        "Coordinate training session",
		DepartmentID: dept.String(),
		Assignees:    []string{assignee.ID.String()},
	})
	require.NoError(t, err)

	for _, tc := range []struct {
		name    string
		actor   rbac.Actor
		allowed bool
	}{
		{"creator", userActor(creator), true},
		{"assignee outside the department", userActor(assignee), true},
		{"manager of the task department", userActor(sameDeptManager), true},
		{"hr", userActor(hr), true},
		{"manager of another department", userActor(otherManager), false},
		{"unrelated employee", userActor(stranger), false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := deps.service.GetByID(ctx, tc.actor, created.ID)
			if tc.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, taskerrors.ErrForbiddenScope)
			}
		})
	}
}

func TestGetAllScopesFilterByRole(t *testing.T) {
	deps := setupTaskServiceTest(t)
	ctx := context.Background()

	dept := uuid.New()
	manager := seedUser(deps, domain.RoleManager, &dept)
	employee := seedUser(deps, domain.RoleEmployee, &dept)
	hr := seedUser(deps, domain.RoleHR, nil)

	var captured task.ListFilter
	deps.repo.findAllFn = func(ctx context.Context, filter task.ListFilter) ([]task.Task, error) {
		captured = filter
		return nil, nil
	}

	_, err := deps.service.GetAll(ctx, userActor(hr), task.ListOptions{Status: task.StatusTodo})
	require.NoError(t, err)
	assert.Empty(t, captured.VisibleTo)
	assert.Empty(t, captured.DepartmentID)
	assert.Equal(t, task.StatusTodo, captured.Status)

	_, err = deps.service.GetAll(ctx, userActor(manager), task.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, manager.ID.String(), captured.VisibleTo)
	assert.Equal(t, dept.String(), captured.DepartmentID)

	_, err = deps.service.GetAll(ctx, userActor(employee), task.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, employee.ID.String(), captured.VisibleTo)
	assert.Empty(t, captured.DepartmentID)
}

func TestUpdateValidatesStatusAndSetsCompletion(t *testing.T) {
	deps := setupTaskServiceTest(t)
	ctx := context.Background()

	creator := seedUser(deps, domain.RoleEmployee, nil)

	expectTx(t, deps.sqlMock, true)
	created, err := deps.service.Create(ctx, userActor(creator), task.CreateTaskRequest{Title: "Rotate welcome kits"})
	require.NoError(t, err)

	bogus := "finished"
	_, err = deps.service.Update(ctx, userActor(creator), created.ID, task.UpdateTaskRequest{Status: &bogus})
	assert.ErrorIs(t, err, taskerrors.ErrInvalidStatus)

	done := task.StatusDone
	resp, err := deps.service.Update(ctx, userActor(creator), created.ID, task.UpdateTaskRequest{Status: &done})
	require.NoError(t, err)
	assert.Equal(t, task.StatusDone, resp.Status)
	assert.NotNil(t, resp.CompletedAt)
}

func TestDeleteRestrictedToCreatorOrPrivileged(t *testing.T) {
	deps := setupTaskServiceTest(t)
	ctx := context.Background()

	dept := uuid.New()
	creator := seedUser(deps, domain.RoleEmployee, &dept)
	assignee := seedUser(deps, domain.RoleEmployee, &dept)
	hr := seedUser(deps, domain.RoleHR, nil)

	expectTx(t, deps.sqlMock, true)
	created, err := deps.service.Create(ctx, userActor(creator), task.CreateTaskRequest{
		Title:     "Archive old postings",
		Assignees: []string{assignee.ID.String()},
	})
	require.NoError(t, err)

	// Assignees can see the task but cannot delete it.
	err = deps.service.Delete(ctx, userActor(assignee), created.ID)
	assert.ErrorIs(t, err, taskerrors.ErrForbiddenScope)

	err = deps.service.Delete(ctx, userActor(hr), created.ID)
	assert.NoError(t, err)
	_, err = deps.service.GetByID(ctx, userActor(creator), created.ID)
	assert.ErrorIs(t, err, taskerrors.ErrTaskNotFound)
}

func TestCommentsAndAttachmentsLifecycle(t *testing.T) {
	deps := setupTaskServiceTest(t)
	ctx := context.Background()

	creator := seedUser(deps, domain.RoleEmployee, nil)

	expectTx(t, deps.sqlMock, true)
	created, err := deps.service.Create(ctx, userActor(creator), task.CreateTaskRequest{Title: "Collect signed NDAs"})
	require.NoError(t, err)

	comment, err := deps.service.AddComment(ctx, userActor(creator), created.ID, task.CreateCommentRequest{
		Content: "Two still outstanding.",
	})
	require.NoError(t, err)
	assert.Equal(t, creator.ID.String(), comment.AuthorID)

	comments, err := deps.service.GetComments(ctx, userActor(creator), created.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)

	require.NoError(t, deps.service.DeleteComment(ctx, userActor(creator), created.ID, comment.ID))
	err = deps.service.DeleteComment(ctx, userActor(creator), created.ID, comment.ID)
	assert.ErrorIs(t, err, taskerrors.ErrCommentNotFound)

	att, err := deps.service.AddAttachment(ctx, userActor(creator), created.ID, task.CreateAttachmentRequest{
		FileName:    "nda-tracker.xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		SizeBytes:   2048,
	})
	require.NoError(t, err)

	attachments, err := deps.service.GetAttachments(ctx, userActor(creator), created.ID)
	require.NoError(t, err)
	require.Len(t, attachments, 1)
	assert.Equal(t, "nda-tracker.xlsx", attachments[0].FileName)

	require.NoError(t, deps.service.DeleteAttachment(ctx, userActor(creator), created.ID, att.ID))
	err = deps.service.DeleteAttachment(ctx, userActor(creator), created.ID, att.ID)
	assert.ErrorIs(t, err, taskerrors.ErrAttachmentNotFound)
}
