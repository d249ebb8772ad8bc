// Package actions handles the portal buttons that only answer with an info notification.
package actions

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"campus-portal/internal/models"
)

const (
	ProfileEdit       = "profile-edit"
	ViewClub          = "view-club"
	JoinClub          = "join-club"
	OpenAnnouncement  = "open-announcement"
	NotificationPanel = "notification-panel"
)

var ErrUnknownAction = errors.New("unknown action")

// Announcements feed the notification bell.
var Announcements = []string{
	"New event: AI Workshop Series starts tomorrow",
	"Club meeting reminder: Photography Society at 3 PM",
	"Achievement unlocked: Event Organizer badge",
	"Welcome to Tech Innovation Club!",
	"Campus Clean-up Drive needs more volunteers",
	"Your profile has been updated successfully",
	"New announcement from Environmental Action",
}

type Notifier interface {
	Show(message, severity string) models.Notification
}

type Service struct {
	Notifier Notifier

	mu  sync.Mutex
	rng *rand.Rand
}

func NewService(notifier Notifier, rng *rand.Rand) *Service {
	return &Service{Notifier: notifier, rng: rng}
}

// Message returns the notification text for an action. name is the club or announcement title.
func (s *Service) Message(action, name string) (string, error) {
	switch action {
	case ProfileEdit:
		return "Profile editing feature coming soon!", nil
	case ViewClub:
		return fmt.Sprintf("Viewing %s details...", name), nil
	case JoinClub:
		return "Club discovery feature coming soon!", nil
	case OpenAnnouncement:
		return fmt.Sprintf("Opened: %s", name), nil
	case NotificationPanel:
		return s.randomAnnouncement(), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}
}

// Perform shows the action's info notification.
func (s *Service) Perform(action, name string) (models.Notification, error) {
	msg, err := s.Message(action, name)
	if err != nil {
		return models.Notification{}, err
	}
	return s.Notifier.Show(msg, models.SeverityInfo), nil
}

func (s *Service) randomAnnouncement() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rng == nil {
		return Announcements[rand.Intn(len(Announcements))]
	}
	return Announcements[s.rng.Intn(len(Announcements))]
}
