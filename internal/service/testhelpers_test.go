package service

import (
	"context"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/formahub/formahub-api/internal/dto"
	"github.com/formahub/formahub-api/internal/models"
	"github.com/formahub/formahub-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

type memoryTrainingRepo struct {
	trainings map[uint]models.Training
	nextID    uint
}

func newMemoryTrainingRepo() *memoryTrainingRepo {
	return &memoryTrainingRepo{trainings: make(map[uint]models.Training), nextID: 1}
}

func (m *memoryTrainingRepo) List(_ context.Context, filter repository.TrainingFilter) ([]models.Training, int64, error) {
	matched := make([]models.Training, 0, len(m.trainings))
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	for _, training := range m.trainings {
		if filter.Status != "" && training.Status != filter.Status {
			continue
		}
		if filter.Type != "" && training.Type != filter.Type {
			continue
		}
		if filter.RegionID != "" && training.RegionID != filter.RegionID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(training.Title), search) {
			continue
		}
		if len(filter.Cohorts) > 0 && !overlaps(training.Cohorts, filter.Cohorts) {
			continue
		}
		matched = append(matched, training)
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		start := (page - 1) * filter.PageSize
		if start >= len(matched) {
			return []models.Training{}, total, nil
		}
		end := start + filter.PageSize
		if end > len(matched) {
			end = len(matched)
		}
		matched = matched[start:end]
	}

	return matched, total, nil
}

func overlaps(a []string, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func (m *memoryTrainingRepo) ListByRegion(_ context.Context, regionID string) ([]models.Training, error) {
	matched := make([]models.Training, 0)
	for _, training := range m.trainings {
		if training.RegionID == regionID {
			matched = append(matched, training)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched, nil
}

func (m *memoryTrainingRepo) GetByID(_ context.Context, id uint) (models.Training, error) {
	training, ok := m.trainings[id]
	if !ok {
		return models.Training{}, gorm.ErrRecordNotFound
	}
	return training, nil
}

func (m *memoryTrainingRepo) Create(_ context.Context, training *models.Training) error {
	training.ID = m.nextID
	m.trainings[m.nextID] = *training
	m.nextID++
	return nil
}

func (m *memoryTrainingRepo) Update(_ context.Context, training *models.Training) error {
	if _, ok := m.trainings[training.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.trainings[training.ID] = *training
	return nil
}

type memoryParticipantRepo struct {
	participants map[uint]models.Participant
	nextID       uint
}

func newMemoryParticipantRepo() *memoryParticipantRepo {
	return &memoryParticipantRepo{participants: make(map[uint]models.Participant), nextID: 1}
}

func (m *memoryParticipantRepo) ListByTraining(_ context.Context, trainingID uint) ([]models.Participant, error) {
	results := make([]models.Participant, 0)
	for _, participant := range m.participants {
		if participant.TrainingID == trainingID {
			results = append(results, participant)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memoryParticipantRepo) ListByTrainings(_ context.Context, trainingIDs []uint) ([]models.Participant, error) {
	ids := make(map[uint]struct{}, len(trainingIDs))
	for _, id := range trainingIDs {
		ids[id] = struct{}{}
	}
	results := make([]models.Participant, 0)
	for _, participant := range m.participants {
		if _, ok := ids[participant.TrainingID]; ok {
			results = append(results, participant)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memoryParticipantRepo) GetByID(_ context.Context, id uint) (models.Participant, error) {
	participant, ok := m.participants[id]
	if !ok {
		return models.Participant{}, gorm.ErrRecordNotFound
	}
	return participant, nil
}

func (m *memoryParticipantRepo) Create(_ context.Context, participant *models.Participant) error {
	participant.ID = m.nextID
	m.participants[m.nextID] = *participant
	m.nextID++
	return nil
}

type memorySessionRepo struct {
	sessions map[uint]models.Session
	nextID   uint
}

func newMemorySessionRepo() *memorySessionRepo {
	return &memorySessionRepo{sessions: make(map[uint]models.Session), nextID: 1}
}

func (m *memorySessionRepo) ListByTraining(_ context.Context, trainingID uint) ([]models.Session, error) {
	results := make([]models.Session, 0)
	for _, session := range m.sessions {
		if session.TrainingID == trainingID {
			results = append(results, session)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memorySessionRepo) ListAttendanceByTrainings(_ context.Context, trainingIDs []uint) ([]models.AttendanceRecord, error) {
	ids := make(map[uint]struct{}, len(trainingIDs))
	for _, id := range trainingIDs {
		ids[id] = struct{}{}
	}
	records := make([]models.AttendanceRecord, 0)
	for _, session := range m.sessions {
		if _, ok := ids[session.TrainingID]; !ok {
			continue
		}
		records = append(records, session.Attendance...)
	}
	return records, nil
}

func (m *memorySessionRepo) Create(_ context.Context, session *models.Session) error {
	session.ID = m.nextID
	m.sessions[m.nextID] = *session
	m.nextID++
	return nil
}

func (m *memorySessionRepo) RecordAttendance(_ context.Context, record *models.AttendanceRecord) error {
	session, ok := m.sessions[record.SessionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	session.Attendance = append(session.Attendance, *record)
	m.sessions[record.SessionID] = session
	return nil
}

type memoryOutputRepo struct {
	outputs map[uint]models.Output
	nextID  uint
}

func newMemoryOutputRepo() *memoryOutputRepo {
	return &memoryOutputRepo{outputs: make(map[uint]models.Output), nextID: 1}
}

func (m *memoryOutputRepo) ListByTraining(_ context.Context, trainingID uint) ([]models.Output, error) {
	results := make([]models.Output, 0)
	for _, output := range m.outputs {
		if output.TrainingID == trainingID {
			results = append(results, output)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memoryOutputRepo) GetByID(_ context.Context, id uint) (models.Output, error) {
	output, ok := m.outputs[id]
	if !ok {
		return models.Output{}, gorm.ErrRecordNotFound
	}
	return output, nil
}

func (m *memoryOutputRepo) Create(_ context.Context, output *models.Output) error {
	output.ID = m.nextID
	output.CreatedAt = time.Now()
	output.UpdatedAt = time.Now()
	m.outputs[m.nextID] = *output
	m.nextID++
	return nil
}

func (m *memoryOutputRepo) Update(_ context.Context, output *models.Output) error {
	if _, ok := m.outputs[output.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	output.UpdatedAt = time.Now()
	m.outputs[output.ID] = *output
	return nil
}

func (m *memoryOutputRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.outputs[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.outputs, id)
	return nil
}

// memorySubmissionRepo keeps submissions and hydrates the Output association
// on reads like the GORM preloads do.
type memorySubmissionRepo struct {
	submissions map[uint]models.Submission
	outputs     *memoryOutputRepo
	nextID      uint
}

func newMemorySubmissionRepo(outputs *memoryOutputRepo) *memorySubmissionRepo {
	return &memorySubmissionRepo{
		submissions: make(map[uint]models.Submission),
		outputs:     outputs,
		nextID:      1,
	}
}

func (m *memorySubmissionRepo) hydrate(submission models.Submission) models.Submission {
	if m.outputs != nil {
		if output, ok := m.outputs.outputs[submission.OutputID]; ok {
			submission.Output = output
		}
	}
	return submission
}

func (m *memorySubmissionRepo) List(_ context.Context, filter repository.SubmissionFilter) ([]models.Submission, error) {
	results := make([]models.Submission, 0)
	for _, submission := range m.submissions {
		if filter.OutputID != nil && submission.OutputID != *filter.OutputID {
			continue
		}
		if filter.ParticipantID != nil && submission.ParticipantID != *filter.ParticipantID {
			continue
		}
		if filter.Submitted != nil && submission.Submitted != *filter.Submitted {
			continue
		}
		if filter.Approved != nil && submission.Approved != *filter.Approved {
			continue
		}
		results = append(results, m.hydrate(submission))
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memorySubmissionRepo) GetByID(_ context.Context, id uint) (models.Submission, error) {
	submission, ok := m.submissions[id]
	if !ok {
		return models.Submission{}, gorm.ErrRecordNotFound
	}
	return m.hydrate(submission), nil
}

func (m *memorySubmissionRepo) GetByOutputAndParticipant(_ context.Context, outputID, participantID uint) (models.Submission, error) {
	for _, submission := range m.submissions {
		if submission.OutputID == outputID && submission.ParticipantID == participantID {
			return m.hydrate(submission), nil
		}
	}
	return models.Submission{}, gorm.ErrRecordNotFound
}

func (m *memorySubmissionRepo) Create(_ context.Context, submission *models.Submission) error {
	submission.ID = m.nextID
	submission.CreatedAt = time.Now()
	submission.UpdatedAt = time.Now()
	m.submissions[m.nextID] = *submission
	m.nextID++
	return nil
}

func (m *memorySubmissionRepo) Update(_ context.Context, submission *models.Submission) error {
	stored, ok := m.submissions[submission.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	submission.UpdatedAt = time.Now()
	submission.Attachments = stored.Attachments
	submission.Comments = stored.Comments
	m.submissions[submission.ID] = *submission
	return nil
}

func (m *memorySubmissionRepo) ReplaceAttachments(_ context.Context, submissionID uint, attachments []models.SubmissionAttachment) error {
	submission, ok := m.submissions[submissionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	submission.Attachments = attachments
	m.submissions[submissionID] = submission
	return nil
}

func (m *memorySubmissionRepo) AppendComment(_ context.Context, comment *models.Comment) error {
	submission, ok := m.submissions[comment.SubmissionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	comment.ID = uint(len(submission.Comments) + 1)
	comment.CreatedAt = time.Now()
	submission.Comments = append(submission.Comments, *comment)
	m.submissions[comment.SubmissionID] = submission
	return nil
}

type memoryCreathonRepo struct {
	creathons map[uint]models.Creathon
	members   map[uint]models.CreathonMember
	nextID    uint
}

func newMemoryCreathonRepo() *memoryCreathonRepo {
	return &memoryCreathonRepo{
		creathons: make(map[uint]models.Creathon),
		members:   make(map[uint]models.CreathonMember),
		nextID:    1,
	}
}

func (m *memoryCreathonRepo) GetByID(_ context.Context, id uint) (models.Creathon, error) {
	creathon, ok := m.creathons[id]
	if !ok {
		return models.Creathon{}, gorm.ErrRecordNotFound
	}
	creathon.Members = nil
	for _, member := range m.members {
		if member.CreathonID == id {
			creathon.Members = append(creathon.Members, member)
		}
	}
	sort.Slice(creathon.Members, func(i, j int) bool { return creathon.Members[i].ID < creathon.Members[j].ID })
	return creathon, nil
}

func (m *memoryCreathonRepo) Create(_ context.Context, creathon *models.Creathon) error {
	creathon.ID = m.nextID
	m.creathons[m.nextID] = *creathon
	m.nextID++
	return nil
}

func (m *memoryCreathonRepo) ReplaceMembers(_ context.Context, creathonID uint, role string, members []models.CreathonMember) error {
	for id, member := range m.members {
		if member.CreathonID == creathonID && member.Role == role {
			delete(m.members, id)
		}
	}
	for i := range members {
		members[i].ID = m.nextID
		members[i].CreathonID = creathonID
		members[i].Role = role
		m.members[m.nextID] = members[i]
		m.nextID++
	}
	return nil
}

func (m *memoryCreathonRepo) ListMembers(_ context.Context, creathonID uint, role string) ([]models.CreathonMember, error) {
	results := make([]models.CreathonMember, 0)
	for _, member := range m.members {
		if member.CreathonID != creathonID {
			continue
		}
		if role != "" && member.Role != role {
			continue
		}
		results = append(results, member)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memoryCreathonRepo) GetMember(_ context.Context, memberID uint) (models.CreathonMember, error) {
	member, ok := m.members[memberID]
	if !ok {
		return models.CreathonMember{}, gorm.ErrRecordNotFound
	}
	return member, nil
}

func (m *memoryCreathonRepo) UpdateMember(_ context.Context, member *models.CreathonMember) error {
	if _, ok := m.members[member.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.members[member.ID] = *member
	return nil
}

type stubUploader struct {
	uploads int
}

func (s *stubUploader) Upload(_ context.Context, name string, _ io.Reader) (string, error) {
	s.uploads++
	return "https://example.com/" + name, nil
}

type stubNotifier struct {
	published []dto.NotificationCreateRequest
}

func (s *stubNotifier) Publish(_ context.Context, payload dto.NotificationCreateRequest) (dto.NotificationResponse, error) {
	s.published = append(s.published, payload)
	return dto.NotificationResponse{UserID: payload.UserID, Type: payload.Type, Message: payload.Message}, nil
}

type stubRecorder struct {
	entries []ActivityEntry
}

func (s *stubRecorder) Record(_ context.Context, entry ActivityEntry) (dto.ActivityResponse, error) {
	s.entries = append(s.entries, entry)
	return dto.ActivityResponse{Action: entry.Action}, nil
}

type stubInvalidator struct {
	invalidated []uint
}

func (s *stubInvalidator) Invalidate(_ context.Context, trainingID uint) {
	s.invalidated = append(s.invalidated, trainingID)
}
