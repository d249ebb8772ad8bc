package actions_test

import (
	"math/rand"
	"testing"

	"campus-portal/internal/actions"
	"campus-portal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	shown []models.Notification
}

func (f *fakeNotifier) Show(message, severity string) models.Notification {
	n := models.Notification{Message: message, Severity: severity}
	f.shown = append(f.shown, n)
	return n
}

func TestPerform_Messages(t *testing.T) {
	tests := []struct {
		action string
		name   string
		want   string
	}{
		{actions.ProfileEdit, "", "Profile editing feature coming soon!"},
		{actions.ViewClub, "Photography Society", "Viewing Photography Society details..."},
		{actions.JoinClub, "", "Club discovery feature coming soon!"},
		{actions.OpenAnnouncement, "Library hours extended", "Opened: Library hours extended"},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			notifier := &fakeNotifier{}
			svc := actions.NewService(notifier, rand.New(rand.NewSource(1)))

			n, err := svc.Perform(tt.action, tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n.Message)
			assert.Equal(t, models.SeverityInfo, n.Severity)
		})
	}
}

func TestPerform_NotificationPanelPicksAnnouncement(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := actions.NewService(notifier, rand.New(rand.NewSource(42)))

	for i := 0; i < 20; i++ {
		n, err := svc.Perform(actions.NotificationPanel, "")
		require.NoError(t, err)
		assert.Contains(t, actions.Announcements, n.Message)
	}
}

func TestPerform_UnknownAction(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := actions.NewService(notifier, nil)

	_, err := svc.Perform("launch-rocket", "")
	assert.ErrorIs(t, err, actions.ErrUnknownAction)
	assert.Empty(t, notifier.shown)
}
