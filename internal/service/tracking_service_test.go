package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/formahub/formahub-api/internal/models"
)

type trackingFixture struct {
	svc          TrackingService
	trainings    *memoryTrainingRepo
	participants *memoryParticipantRepo
	sessions     *memorySessionRepo
	outputs      *memoryOutputRepo
	redis        *miniredis.Miniredis
}

func newTrackingFixture(t *testing.T) *trackingFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	trainings := newMemoryTrainingRepo()
	participants := newMemoryParticipantRepo()
	sessions := newMemorySessionRepo()
	outputs := newMemoryOutputRepo()

	return &trackingFixture{
		svc:          NewTrackingService(trainings, participants, sessions, outputs, client, 5*time.Minute, testLogger()),
		trainings:    trainings,
		participants: participants,
		sessions:     sessions,
		outputs:      outputs,
		redis:        mr,
	}
}

func (f *trackingFixture) seedTraining(t *testing.T, regionID string) models.Training {
	t.Helper()
	now := time.Now()
	training := models.Training{
		Title:     "Agritech incubation",
		Status:    models.TrainingStatusApproved,
		RegionID:  regionID,
		StartDate: now.Add(-7 * 24 * time.Hour),
		EndDate:   now.Add(7 * 24 * time.Hour),
	}
	require.NoError(t, f.trainings.Create(context.Background(), &training))
	return training
}

func TestGetTrainingTrackingAggregates(t *testing.T) {
	f := newTrackingFixture(t)
	training := f.seedTraining(t, "dakar")
	now := time.Now()

	for _, name := range []string{"Awa", "Moussa"} {
		participant := models.Participant{TrainingID: training.ID, Name: name}
		require.NoError(t, f.participants.Create(context.Background(), &participant))
	}

	session := models.Session{TrainingID: training.ID, Title: "Kickoff", StartsAt: now.Add(-48 * time.Hour)}
	require.NoError(t, f.sessions.Create(context.Background(), &session))
	require.NoError(t, f.sessions.RecordAttendance(context.Background(), &models.AttendanceRecord{SessionID: session.ID, ParticipantID: 1, Present: true}))
	require.NoError(t, f.sessions.RecordAttendance(context.Background(), &models.AttendanceRecord{SessionID: session.ID, ParticipantID: 2, Present: false}))

	collective := models.Output{TrainingID: training.ID, Title: "Group charter", DueDate: now.Add(24 * time.Hour)}
	require.NoError(t, f.outputs.Create(context.Background(), &collective))
	targeted := models.Output{
		TrainingID:         training.ID,
		Title:              "Personal roadmap",
		DueDate:            now.Add(-24 * time.Hour),
		TargetParticipants: pq.StringArray{"1", "2"},
	}
	require.NoError(t, f.outputs.Create(context.Background(), &targeted))

	result, err := f.svc.GetTrainingTracking(context.Background(), training.ID)
	require.NoError(t, err)

	require.Equal(t, training.Title, result.Training.Title)
	require.Len(t, result.Participants, 2)
	require.Len(t, result.Sessions, 1)
	require.Len(t, result.Attendance, 2)
	require.Len(t, result.Outputs.TrainingOutputs, 1)
	require.Len(t, result.Outputs.ParticipantOutputs, 1)
	require.Equal(t, 2, result.Stats.TotalOutputs)
	require.Equal(t, 1, result.Stats.Overdue)
}

func TestGetTrainingTrackingServesCache(t *testing.T) {
	f := newTrackingFixture(t)
	training := f.seedTraining(t, "dakar")

	first, err := f.svc.GetTrainingTracking(context.Background(), training.ID)
	require.NoError(t, err)
	require.True(t, f.redis.Exists(trackingCacheKey(training.ID)))

	// Mutate the backing store; the cached aggregate must still be served.
	stored := f.trainings.trainings[training.ID]
	stored.Title = "Renamed"
	f.trainings.trainings[training.ID] = stored

	second, err := f.svc.GetTrainingTracking(context.Background(), training.ID)
	require.NoError(t, err)
	require.Equal(t, first.Training.Title, second.Training.Title)
}

func TestInvalidateDropsCachedAggregate(t *testing.T) {
	f := newTrackingFixture(t)
	training := f.seedTraining(t, "dakar")

	_, err := f.svc.GetTrainingTracking(context.Background(), training.ID)
	require.NoError(t, err)
	require.True(t, f.redis.Exists(trackingCacheKey(training.ID)))

	f.svc.Invalidate(context.Background(), training.ID)
	require.False(t, f.redis.Exists(trackingCacheKey(training.ID)))

	stored := f.trainings.trainings[training.ID]
	stored.Title = "Renamed"
	f.trainings.trainings[training.ID] = stored

	refreshed, err := f.svc.GetTrainingTracking(context.Background(), training.ID)
	require.NoError(t, err)
	require.Equal(t, "Renamed", refreshed.Training.Title)
}

func TestGetTrainingTrackingUnknownTraining(t *testing.T) {
	f := newTrackingFixture(t)

	_, err := f.svc.GetTrainingTracking(context.Background(), 42)
	require.ErrorIs(t, err, ErrTrainingNotFound)
}

func TestGetAttendanceByRegion(t *testing.T) {
	f := newTrackingFixture(t)
	training := f.seedTraining(t, "thies")

	for i := 0; i < 3; i++ {
		participant := models.Participant{TrainingID: training.ID}
		require.NoError(t, f.participants.Create(context.Background(), &participant))
	}

	session := models.Session{TrainingID: training.ID, Title: "Workshop"}
	require.NoError(t, f.sessions.Create(context.Background(), &session))
	marks := []bool{true, true, false, true}
	for i, present := range marks {
		require.NoError(t, f.sessions.RecordAttendance(context.Background(), &models.AttendanceRecord{
			SessionID:     session.ID,
			ParticipantID: uint(i + 1),
			Present:       present,
		}))
	}

	result, err := f.svc.GetAttendanceByRegion(context.Background(), "thies")
	require.NoError(t, err)
	require.Equal(t, 1, result.Trainings)
	require.Equal(t, 3, result.Participants)
	require.Equal(t, 4, result.Attendance.Recorded)
	require.Equal(t, 3, result.Attendance.Present)
	require.Equal(t, 1, result.Attendance.Absent)
	require.InDelta(t, 75.0, result.Attendance.Rate, 0.001)
}

func TestGetAttendanceByRegionUnknownRegion(t *testing.T) {
	f := newTrackingFixture(t)
	f.seedTraining(t, "dakar")

	_, err := f.svc.GetAttendanceByRegion(context.Background(), "ziguinchor")
	require.ErrorIs(t, err, ErrRegionNotFound)
}
