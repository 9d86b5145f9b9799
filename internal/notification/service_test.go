// AngelaMos | 2026
// service_test.go

package notification_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carterperez-dev/hotel-maintenance/internal/notification"
	"github.com/carterperez-dev/hotel-maintenance/internal/notification/mocks"
	"github.com/carterperez-dev/hotel-maintenance/internal/permission"
)

type deps struct {
	repo      *mocks.MockRepository
	dir       *mocks.MockDirectory
	publisher *mocks.MockPublisher
	mailer    *mocks.MockEmailSender
}

func newService(t *testing.T) (*notification.Service, deps) {
	t.Helper()

	ctrl := gomock.NewController(t)
	d := deps{
		repo:      mocks.NewMockRepository(ctrl),
		dir:       mocks.NewMockDirectory(ctrl),
		publisher: mocks.NewMockPublisher(ctrl),
		mailer:    mocks.NewMockEmailSender(ctrl),
	}

	svc := notification.NewService(d.repo, d.dir,
		notification.WithPublisher(d.publisher),
		notification.WithMailer(d.mailer),
	)
	return svc, d
}

func TestDispatch_BroadcastExcludesAndDedupes(t *testing.T) {
	t.Parallel()

	svc, d := newService(t)

	d.dir.EXPECT().
		ListIDsByRoles(gomock.Any(), []permission.Role{
			permission.RoleAdmin,
			permission.RoleManager,
			permission.RoleTechnician,
		}).
		Return([]string{"admin-1", "manager-1", "tech-1", "tech-1"}, nil)

	d.repo.EXPECT().CreateMany(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rows []notification.Notification) error {
			got := make([]string, 0, len(rows))
			for i := range rows {
				got = append(got, rows[i].UserID)
				rows[i].ID = int64(i + 1)
			}
			require.Equal(t, []string{"admin-1", "tech-1"}, got)
			require.Equal(t, "42", *rows[0].RelatedID)
			return nil
		})
	d.publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Times(2)

	svc.Dispatch(context.Background(), []notification.Intent{{
		Type:        notification.TypeStatusUpdate,
		Title:       "Repair cancelled",
		Description: "Room 305 plumbing",
		RelatedID:   "42",
		Audience:    notification.ToCapability(permission.CanAcceptJobs, "manager-1"),
	}})
}

func TestDispatch_PublishesCreatedEvent(t *testing.T) {
	t.Parallel()

	svc, d := newService(t)

	d.repo.EXPECT().CreateMany(gomock.Any(), gomock.Len(1)).Return(nil)
	d.publisher.EXPECT().Publish(gomock.Any(), "staff-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, event any) error {
			ev, ok := event.(notification.Event)
			require.True(t, ok)
			require.Equal(t, notification.EventCreated, ev.Event)
			require.Equal(t, notification.TypeStatusUpdate, ev.Type)
			return nil
		})

	svc.Dispatch(context.Background(), []notification.Intent{{
		Type:     notification.TypeStatusUpdate,
		Title:    "Repair status updated",
		Audience: notification.ToUser("staff-1"),
	}})
}

func TestDispatch_EmailsAssignedRecipients(t *testing.T) {
	t.Parallel()

	svc, d := newService(t)

	d.repo.EXPECT().CreateMany(gomock.Any(), gomock.Any()).Return(nil)
	d.publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("broker down"))
	d.dir.EXPECT().ContactsByIDs(gomock.Any(), []string{"staff-1"}).
		Return([]notification.Contact{{ID: "staff-1", Name: "Ana", Email: "ana@hotel.test"}}, nil)
	d.mailer.EXPECT().
		Send(gomock.Any(), []string{"ana@hotel.test"}, "Repair accepted", gomock.Any()).
		Return(nil)

	svc.Dispatch(context.Background(), []notification.Intent{{
		Type:        notification.TypeAssigned,
		Title:       "Repair accepted",
		Description: "A technician is on the way",
		Audience:    notification.ToUser("staff-1"),
	}})
}

func TestDispatch_StoreFailureStopsDelivery(t *testing.T) {
	t.Parallel()

	svc, d := newService(t)

	d.repo.EXPECT().CreateMany(gomock.Any(), gomock.Any()).Return(errors.New("deadlock"))

	svc.Dispatch(context.Background(), []notification.Intent{{
		Type:     notification.TypeCompleted,
		Audience: notification.ToUser("staff-1"),
	}})
}

func TestDispatch_DirectoryFailureSkipsIntent(t *testing.T) {
	t.Parallel()

	svc, d := newService(t)

	d.dir.EXPECT().ListIDsByRoles(gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))
	d.repo.EXPECT().CreateMany(gomock.Any(), gomock.Len(1)).Return(nil)
	d.publisher.EXPECT().Publish(gomock.Any(), "staff-1", gomock.Any()).Return(nil)

	svc.Dispatch(context.Background(), []notification.Intent{
		{
			Type:     notification.TypeNewRequest,
			Audience: notification.ToCapability(permission.CanReceiveNewJobNotifications),
		},
		{
			Type:     notification.TypeStatusUpdate,
			Audience: notification.ToUser("staff-1"),
		},
	})
}

func TestDispatch_NothingToDeliver(t *testing.T) {
	t.Parallel()

	svc, d := newService(t)

	d.dir.EXPECT().ListIDsByRoles(gomock.Any(), gomock.Any()).Return([]string{"manager-1"}, nil)

	svc.Dispatch(context.Background(), nil)
	svc.Dispatch(context.Background(), []notification.Intent{{
		Type:     notification.TypeNewRequest,
		Audience: notification.ToCapability(permission.CanReceiveNewJobNotifications, "manager-1"),
	}})
}

func TestDispatch_WithoutOptionalSinks(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	svc := notification.NewService(repo, mocks.NewMockDirectory(ctrl))

	repo.EXPECT().CreateMany(gomock.Any(), gomock.Len(1)).Return(nil)

	svc.Dispatch(context.Background(), []notification.Intent{{
		Type:     notification.TypeCompleted,
		Audience: notification.ToUser("staff-1"),
	}})
}
