package events_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"campus-portal/internal/clock"
	events "campus-portal/internal/events/service"
	"campus-portal/internal/logger"
	"campus-portal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockEventDBLayer struct {
	mock.Mock
}

func (m *MockEventDBLayer) ListEvents(ctx context.Context) ([]models.EventRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.EventRecord), args.Error(1)
}

func (m *MockEventDBLayer) ResetAttendeeCounts(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockEventDBLayer) IncrementAttendeeCount(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var now = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

func catalog() []models.EventRecord {
	return []models.EventRecord{
		{ID: "ai", Title: "AI Workshop", Campus: "North", Category: "Tech", Date: "2025-03-12", AttendeeCount: 49, Capacity: 50, HasAttendance: true},
		{ID: "art", Title: "Art Fair", Campus: "South", Category: "Arts", Date: "2025-03-20"},
	}
}

func newService(db *MockEventDBLayer) *events.EventService {
	return events.NewEventService(db, clock.NewFixed(now), logger.NewWithWriter(io.Discard))
}

func TestLoad(t *testing.T) {
	mockDB := new(MockEventDBLayer)
	mockDB.On("ResetAttendeeCounts", mock.Anything).Return(nil).Once()
	mockDB.On("ListEvents", mock.Anything).Return(catalog(), nil)

	svc := newService(mockDB)
	require.NoError(t, svc.Load(context.Background()))

	assert.Len(t, svc.Records(), 2)
	mockDB.AssertExpectations(t)
}

func TestLoad_Error(t *testing.T) {
	mockDB := new(MockEventDBLayer)
	mockDB.On("ResetAttendeeCounts", mock.Anything).Return(nil)
	mockDB.On("ListEvents", mock.Anything).Return(nil, errors.New("db down"))

	svc := newService(mockDB)
	err := svc.Load(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestFilter_UsesInjectedToday(t *testing.T) {
	svc := newService(new(MockEventDBLayer))
	svc.SetRecords(catalog())

	vis := svc.Filter(models.FilterCriteria{Campus: "North", DateBucket: models.DateWeek})
	require.Len(t, vis, 2)
	assert.True(t, vis[0].Visible)
	assert.False(t, vis[1].Visible)

	visible := svc.VisibleEvents(models.FilterCriteria{SearchTerm: "fair"})
	require.Len(t, visible, 1)
	assert.Equal(t, "art", visible[0].ID)
}

func TestSetRecords_OwnsACopy(t *testing.T) {
	svc := newService(new(MockEventDBLayer))
	records := catalog()
	svc.SetRecords(records)

	records[0].Title = "changed"
	got, err := svc.GetEvent("ai")
	require.NoError(t, err)
	assert.Equal(t, "AI Workshop", got.Title)
}

func TestRecordRegistration_IncrementsPastCapacity(t *testing.T) {
	mockDB := new(MockEventDBLayer)
	mockDB.On("IncrementAttendeeCount", mock.Anything, "ai").Return(nil).Twice()

	svc := newService(mockDB)
	svc.SetRecords(catalog())

	record, err := svc.RecordRegistration(context.Background(), "ai")
	require.NoError(t, err)
	assert.Equal(t, "50/50 attendees", record.AttendeeLabel())

	record, err = svc.RecordRegistration(context.Background(), "ai")
	require.NoError(t, err)
	assert.Equal(t, "51/50 attendees", record.AttendeeLabel())

	mockDB.AssertExpectations(t)
}

func TestRecordRegistration_WithoutAttendeeLabelIsNoOp(t *testing.T) {
	mockDB := new(MockEventDBLayer)
	svc := newService(mockDB)
	svc.SetRecords(catalog())

	record, err := svc.RecordRegistration(context.Background(), "art")
	require.NoError(t, err)
	assert.Equal(t, 0, record.AttendeeCount)
	mockDB.AssertNotCalled(t, "IncrementAttendeeCount", mock.Anything, mock.Anything)
}

func TestRecordRegistration_DBFailureKeepsInMemoryCount(t *testing.T) {
	mockDB := new(MockEventDBLayer)
	mockDB.On("IncrementAttendeeCount", mock.Anything, "ai").Return(errors.New("locked"))

	svc := newService(mockDB)
	svc.SetRecords(catalog())

	record, err := svc.RecordRegistration(context.Background(), "ai")
	require.NoError(t, err)
	assert.Equal(t, 50, record.AttendeeCount)
}

func TestRecordRegistration_UnknownEvent(t *testing.T) {
	svc := newService(new(MockEventDBLayer))
	svc.SetRecords(catalog())

	_, err := svc.RecordRegistration(context.Background(), "nope")
	assert.ErrorIs(t, err, events.ErrEventNotFound)
}

func TestFacets(t *testing.T) {
	svc := newService(new(MockEventDBLayer))
	svc.SetRecords(append(catalog(), models.EventRecord{ID: "x", Campus: "North", Category: "Social"}))

	facets := svc.Facets()
	assert.Equal(t, []string{"North", "South"}, facets.Campuses)
	assert.Equal(t, []string{"Arts", "Social", "Tech"}, facets.Categories)
}

func TestLoad_ResetFailureStopsLoad(t *testing.T) {
	mockDB := new(MockEventDBLayer)
	mockDB.On("ResetAttendeeCounts", mock.Anything).Return(errors.New("read only"))

	svc := newService(mockDB)
	err := svc.Load(context.Background())
	assert.ErrorContains(t, err, "read only")
	assert.Empty(t, svc.Records())
	mockDB.AssertNotCalled(t, "ListEvents", mock.Anything)
}
