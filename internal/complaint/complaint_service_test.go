package complaint_test

import (
	"context"
	"testing"

	"github.com/fenan-yosef/hrms-backend/internal/complaint"
	complainterrors "github.com/fenan-yosef/hrms-backend/internal/complaint/errors"
	"github.com/fenan-yosef/hrms-backend/internal/domain"
	"github.com/fenan-yosef/hrms-backend/internal/rbac"
	"github.com/fenan-yosef/hrms-backend/internal/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeComplaintRepository struct {
	complaints map[string]*complaint.Complaint
}

func newFakeComplaintRepository() *fakeComplaintRepository {
	return &fakeComplaintRepository{complaints: map[string]*complaint.Complaint{}}
}

func (f *fakeComplaintRepository) Create(ctx context.Context, c *complaint.Complaint) error {
	cp := *c
	f.complaints[c.ID.String()] = &cp
	return nil
}

func (f *fakeComplaintRepository) FindByID(ctx context.Context, id string) (*complaint.Complaint, error) {
	c, ok := f.complaints[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeComplaintRepository) FindAll(ctx context.Context, filter complaint.ListFilter) ([]complaint.Complaint, error) {
	out := []complaint.Complaint{}
	for _, c := range f.complaints {
		if filter.CreatedBy != "" && c.CreatedBy.String() != filter.CreatedBy {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.Type != "" && c.Type != filter.Type {
			continue
		}
		if filter.ExcludeCEOFlagged && c.SendToCEO {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeComplaintRepository) Update(ctx context.Context, c *complaint.Complaint) error {
	cp := *c
	f.complaints[c.ID.String()] = &cp
	return nil
}

func (f *fakeComplaintRepository) SoftDelete(ctx context.Context, id string) error {
	delete(f.complaints, id)
	return nil
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

type complaintServiceDeps struct {
	service complaint.Service
	repo    *fakeComplaintRepository
	users   *fakeUserLookup
}

func setupComplaintServiceTest(t *testing.T) *complaintServiceDeps {
	t.Helper()
	repo := newFakeComplaintRepository()
	users := &fakeUserLookup{users: map[string]*user.User{}}
	svc := complaint.NewService(repo, users, zap.NewNop())
	return &complaintServiceDeps{service: svc, repo: repo, users: users}
}

func seedUser(deps *complaintServiceDeps, role domain.Role) *user.User {
	u := &user.User{
		ID:        uuid.New(),
		FirstName: "Mikias",
		LastName:  "Abate",
		Role:      role,
		IsActive:  true,
	}
	deps.users.users[u.ID.String()] = u
	return u
}

func userActor(u *user.User) rbac.Actor {
	return rbac.Actor{ID: u.ID.String(), Role: u.Role}
}

func fileComplaint(t *testing.T, deps *complaintServiceDeps, author *user.User, sendToCEO bool) complaint.ComplaintResponse {
	t.Helper()
	resp, err := deps.service.Create(context.Background(), userActor(author), complaint.CreateComplaintRequest{
		Type:        complaint.TypeEmployeeComplaint,
		Subject:     "Overtime not recorded",
		Description: "Hours worked on the migration were not logged.",
		SendToCEO:   sendToCEO,
	})
	require.NoError(t, err)
	return resp
}

func TestCreateComplaintValidatesTargetUser(t *testing.T) {
	deps := setupComplaintServiceTest(t)
	ctx := context.Background()

	author := seedUser(deps, domain.RoleManager)
	target := seedUser(deps, domain.RoleEmployee)

	resp, err := deps.service.Create(ctx, userActor(author), complaint.CreateComplaintRequest{
		Type:         complaint.TypeManagerReport,
		Subject:      "Repeated absence",
		Description:  "Missed three stand-ups this week.",
		TargetUserID: target.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, complaint.StatusOpen, resp.Status)
	assert.Equal(t, target.ID.String(), resp.TargetUserID)

	_, err = deps.service.Create(ctx, userActor(author), complaint.CreateComplaintRequest{
		Type:         complaint.TypeManagerReport,
		Subject:      "Repeated absence",
		Description:  "Missed three stand-ups this week.",
		TargetUserID: uuid.NewString(),
	})
	assert.ErrorIs(t, err, complainterrors.ErrInvalidTargetUser)
}

func TestComplaintVisibility(t *testing.T) {
	deps := setupComplaintServiceTest(t)
	ctx := context.Background()

	author := seedUser(deps, domain.RoleEmployee)
	other := seedUser(deps, domain.RoleEmployee)
	hr := seedUser(deps, domain.RoleHR)
	ceo := seedUser(deps, domain.RoleCEO)

	plain := fileComplaint(t, deps, author, false)
	escalated := fileComplaint(t, deps, author, true)

	// Creator sees both of their complaints.
	_, err := deps.service.GetByID(ctx, userActor(author), escalated.ID)
	assert.NoError(t, err)

	// HR sees the plain one but not the CEO-escalated one.
	_, err = deps.service.GetByID(ctx, userActor(hr), plain.ID)
	assert.NoError(t, err)
	_, err = deps.service.GetByID(ctx, userActor(hr), escalated.ID)
	assert.ErrorIs(t, err, complainterrors.ErrForbiddenScope)

	// CEO sees everything; unrelated employees see nothing.
	_, err = deps.service.GetByID(ctx, userActor(ceo), escalated.ID)
	assert.NoError(t, err)
	_, err = deps.service.GetByID(ctx, userActor(other), plain.ID)
	assert.ErrorIs(t, err, complainterrors.ErrForbiddenScope)
}

func TestGetAllScopesByRole(t *testing.T) {
	deps := setupComplaintServiceTest(t)
	ctx := context.Background()

	author := seedUser(deps, domain.RoleEmployee)
	hrAuthor := seedUser(deps, domain.RoleHR)
	ceo := seedUser(deps, domain.RoleCEO)

	fileComplaint(t, deps, author, false)
	fileComplaint(t, deps, author, true)
	hrOwnEscalated := fileComplaint(t, deps, hrAuthor, true)

	ceoRows, err := deps.service.GetAll(ctx, userActor(ceo), complaint.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, ceoRows, 3)

	// HR lists non-escalated complaints plus their own escalated one.
	hrRows, err := deps.service.GetAll(ctx, userActor(hrAuthor), complaint.ListOptions{})
	require.NoError(t, err)
	require.Len(t, hrRows, 2)
	ids := []string{hrRows[0].ID, hrRows[1].ID}
	assert.Contains(t, ids, hrOwnEscalated.ID)

	ownRows, err := deps.service.GetAll(ctx, userActor(author), complaint.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, ownRows, 2)
}

func TestSetStatusEscalatedRequiresCEO(t *testing.T) {
	deps := setupComplaintServiceTest(t)
	ctx := context.Background()

	author := seedUser(deps, domain.RoleEmployee)
	hr := seedUser(deps, domain.RoleHR)
	ceo := seedUser(deps, domain.RoleCEO)

	plain := fileComplaint(t, deps, author, false)
	escalated := fileComplaint(t, deps, author, true)

	resp, err := deps.service.SetStatus(ctx, userActor(hr), plain.ID, complaint.SetStatusRequest{Status: complaint.StatusInReview})
	require.NoError(t, err)
	assert.Equal(t, complaint.StatusInReview, resp.Status)

	_, err = deps.service.SetStatus(ctx, userActor(hr), escalated.ID, complaint.SetStatusRequest{Status: complaint.StatusResolved})
	assert.ErrorIs(t, err, complainterrors.ErrCEOOnly)

	resp, err = deps.service.SetStatus(ctx, userActor(ceo), escalated.ID, complaint.SetStatusRequest{Status: complaint.StatusResolved})
	require.NoError(t, err)
	assert.Equal(t, complaint.StatusResolved, resp.Status)
}

func TestUpdateRestrictedToAuthor(t *testing.T) {
	deps := setupComplaintServiceTest(t)
	ctx := context.Background()

	author := seedUser(deps, domain.RoleEmployee)
	hr := seedUser(deps, domain.RoleHR)

	filed := fileComplaint(t, deps, author, false)

	subject := "Overtime still not recorded"
	resp, err := deps.service.Update(ctx, userActor(author), filed.ID, complaint.UpdateComplaintRequest{Subject: &subject})
	require.NoError(t, err)
	assert.Equal(t, subject, resp.Subject)

	_, err = deps.service.Update(ctx, userActor(hr), filed.ID, complaint.UpdateComplaintRequest{Subject: &subject})
	assert.ErrorIs(t, err, complainterrors.ErrForbiddenScope)
}

func TestDeleteEscalatedRequiresCEO(t *testing.T) {
	deps := setupComplaintServiceTest(t)
	ctx := context.Background()

	author := seedUser(deps, domain.RoleEmployee)
	hr := seedUser(deps, domain.RoleHR)
	ceo := seedUser(deps, domain.RoleCEO)

	escalated := fileComplaint(t, deps, author, true)

	err := deps.service.Delete(ctx, userActor(hr), escalated.ID)
	assert.ErrorIs(t, err, complainterrors.ErrCEOOnly)

	err = deps.service.Delete(ctx, userActor(ceo), escalated.ID)
	assert.NoError(t, err)
	err = deps.service.Delete(ctx, userActor(ceo), escalated.ID)
	assert.ErrorIs(t, err, complainterrors.ErrComplaintNotFound)
}
