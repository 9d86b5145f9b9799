// AngelaMos | 2026
// service_test.go

package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carterperez-dev/hotel-maintenance/internal/core"
	"github.com/carterperez-dev/hotel-maintenance/internal/notification"
	"github.com/carterperez-dev/hotel-maintenance/internal/permission"
	"github.com/carterperez-dev/hotel-maintenance/internal/user"
	"github.com/carterperez-dev/hotel-maintenance/internal/user/mocks"
)

func newService(t *testing.T) (*user.Service, *mocks.MockRepository, *mocks.MockNotifier) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	notifier := mocks.NewMockNotifier(ctrl)
	return user.NewService(repo, notifier), repo, notifier
}

func actorFor(t *testing.T, id string, role permission.Role) permission.Actor {
	t.Helper()

	a, err := permission.NewActor(id, string(role))
	require.NoError(t, err)
	return a
}

func TestCreate_RegistersStaff(t *testing.T) {
	t.Parallel()

	svc, repo, _ := newService(t)

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u *user.User) error {
			assert.Equal(t, "desk@hotel.local", u.Email)
			assert.Equal(t, string(permission.RoleStaff), u.Role)
			assert.Equal(t, user.DefaultLanguage, u.Language)
			return nil
		})

	info, err := svc.Create(context.Background(), "Desk@Hotel.local", "hash", "Desk")
	require.NoError(t, err)
	assert.Equal(t, "staff", info.Role)
	assert.NotEmpty(t, info.ID)
}

func TestCreateUser(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		actor   permission.Role
		role    string
		wantErr error
	}{
		{"admin creates technician", permission.RoleAdmin, "technician", nil},
		{"admin creates admin", permission.RoleAdmin, "admin", nil},
		{"manager cannot add users", permission.RoleManager, "staff", core.ErrForbidden},
		{"staff cannot add users", permission.RoleStaff, "staff", core.ErrForbidden},
		{"unknown role", permission.RoleAdmin, "owner", core.ErrValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc, repo, notifier := newService(t)

			if tt.wantErr == nil {
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
				notifier.EXPECT().Dispatch(gomock.Any(), gomock.Any()).
					Do(func(_ context.Context, intents []notification.Intent) {
						require.Len(t, intents, 1)
						assert.Equal(t, notification.TypeUserCreated, intents[0].Type)
					})
			}

			u, err := svc.CreateUser(
				context.Background(),
				actorFor(t, "actor", tt.actor),
				user.CreateUserRequest{
					Email:    "new@hotel.local",
					Password: "correct horse battery",
					Name:     "New Hire",
					Role:     tt.role,
				},
			)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.role, u.Role)
			assert.NotEqual(t, "correct horse battery", u.PasswordHash)
		})
	}
}

func TestUpdateUserRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		actor      permission.Role
		actorID    string
		targetRole permission.Role
		newRole    string
		wantErr    error
		wantUpdate bool
	}{
		{"admin promotes staff", permission.RoleAdmin, "a", permission.RoleStaff, "manager", nil, true},
		{"admin grants admin", permission.RoleAdmin, "a", permission.RoleManager, "admin", nil, true},
		{"manager demotes technician", permission.RoleManager, "m", permission.RoleTechnician, "staff", nil, true},
		{"manager cannot grant admin", permission.RoleManager, "m", permission.RoleStaff, "admin", core.ErrForbidden, false},
		{"manager cannot revoke admin", permission.RoleManager, "m", permission.RoleAdmin, "staff", core.ErrForbidden, false},
		{"staff cannot manage", permission.RoleStaff, "s", permission.RoleStaff, "manager", core.ErrForbidden, false},
		{"own role", permission.RoleAdmin, "target", permission.RoleAdmin, "staff", core.ErrForbidden, false},
		{"unchanged role", permission.RoleAdmin, "a", permission.RoleStaff, "staff", nil, false},
		{"invalid role", permission.RoleAdmin, "a", permission.RoleStaff, "owner", core.ErrValidationFailed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc, repo, _ := newService(t)

			repo.EXPECT().GetByID(gomock.Any(), "target").
				Return(&user.User{ID: "target", Role: string(tt.targetRole)}, nil).
				AnyTimes()
			if tt.wantUpdate {
				repo.EXPECT().UpdateRole(gomock.Any(), gomock.Any()).Return(nil)
			}

			u, err := svc.UpdateUserRole(
				context.Background(),
				actorFor(t, tt.actorID, tt.actor),
				"target",
				tt.newRole,
			)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.newRole, u.Role)
		})
	}
}

func TestDeleteUser(t *testing.T) {
	t.Parallel()

	t.Run("manager deletes staff", func(t *testing.T) {
		t.Parallel()

		svc, repo, _ := newService(t)
		repo.EXPECT().GetByID(gomock.Any(), "s1").
			Return(&user.User{ID: "s1", Role: "staff"}, nil)
		repo.EXPECT().SoftDelete(gomock.Any(), "s1").Return(nil)

		err := svc.DeleteUser(context.Background(), actorFor(t, "m1", permission.RoleManager), "s1")
		require.NoError(t, err)
	})

	t.Run("admin target is protected", func(t *testing.T) {
		t.Parallel()

		svc, repo, _ := newService(t)
		repo.EXPECT().GetByID(gomock.Any(), "a2").
			Return(&user.User{ID: "a2", Role: "admin"}, nil)

		err := svc.DeleteUser(context.Background(), actorFor(t, "a1", permission.RoleAdmin), "a2")
		require.ErrorIs(t, err, core.ErrForbidden)
	})

	t.Run("staff cannot delete others", func(t *testing.T) {
		t.Parallel()

		svc, _, _ := newService(t)

		err := svc.DeleteUser(context.Background(), actorFor(t, "s1", permission.RoleStaff), "s2")
		require.ErrorIs(t, err, core.ErrForbidden)
	})

	t.Run("self delete", func(t *testing.T) {
		t.Parallel()

		svc, repo, _ := newService(t)
		repo.EXPECT().GetByID(gomock.Any(), "t1").
			Return(&user.User{ID: "t1", Role: "technician"}, nil)
		repo.EXPECT().SoftDelete(gomock.Any(), "t1").Return(nil)

		err := svc.DeleteUser(context.Background(), actorFor(t, "t1", permission.RoleTechnician), "t1")
		require.NoError(t, err)
	})
}

func TestListUsers(t *testing.T) {
	t.Parallel()

	t.Run("requires view capability", func(t *testing.T) {
		t.Parallel()

		svc, _, _ := newService(t)
		_, _, err := svc.ListUsers(
			context.Background(),
			actorFor(t, "t1", permission.RoleTechnician),
			user.ListUsersParams{},
		)
		require.ErrorIs(t, err, core.ErrForbidden)
	})

	t.Run("rejects unknown role filter", func(t *testing.T) {
		t.Parallel()

		svc, _, _ := newService(t)
		_, _, err := svc.ListUsers(
			context.Background(),
			actorFor(t, "a1", permission.RoleAdmin),
			user.ListUsersParams{Role: "owner"},
		)
		require.ErrorIs(t, err, core.ErrValidationFailed)
	})

	t.Run("passes params through", func(t *testing.T) {
		t.Parallel()

		svc, repo, _ := newService(t)
		params := user.ListUsersParams{Page: 2, PageSize: 10, Role: "technician"}
		repo.EXPECT().List(gomock.Any(), params).
			Return([]user.User{{ID: "t1"}}, 11, nil)

		users, total, err := svc.ListUsers(
			context.Background(),
			actorFor(t, "m1", permission.RoleManager),
			params,
		)
		require.NoError(t, err)
		assert.Len(t, users, 1)
		assert.Equal(t, 11, total)
	})
}

func TestUpdateMe_AppliesProvidedFields(t *testing.T) {
	t.Parallel()

	svc, repo, _ := newService(t)
	phone := "+15551234567"
	lang := "fr"

	repo.EXPECT().GetByID(gomock.Any(), "u1").
		Return(&user.User{ID: "u1", Name: "Old", Language: "en"}, nil)
	repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

	u, err := svc.UpdateMe(context.Background(), "u1", user.UpdateUserRequest{
		Phone:    &phone,
		Language: &lang,
	})
	require.NoError(t, err)
	assert.Equal(t, "Old", u.Name)
	assert.Equal(t, "fr", u.Language)
	require.NotNil(t, u.Phone)
	assert.Equal(t, phone, *u.Phone)
}

func TestDeleteMe_AdminRefused(t *testing.T) {
	t.Parallel()

	svc, repo, _ := newService(t)
	repo.EXPECT().GetByID(gomock.Any(), "a1").
		Return(&user.User{ID: "a1", Role: "admin"}, nil)

	require.ErrorIs(t, svc.DeleteMe(context.Background(), "a1"), core.ErrForbidden)
}
