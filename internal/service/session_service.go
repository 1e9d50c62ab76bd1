package service

import (
	"context"
	"time"

	"recruit-assist-be/internal/constant"
	"recruit-assist-be/internal/dto"
	"recruit-assist-be/internal/pkg/serverutils"
	"recruit-assist-be/internal/repository/contract"
	"recruit-assist-be/pkg/nlp"
	"recruit-assist-be/pkg/store"

	"github.com/google/uuid"
)

// ISessionService owns conversational session state. All mutations go
// through here and are serialized per session; callers always get a deep
// copy they can read without racing a writer.
type ISessionService interface {
	// Create makes a new session, generating an id when none is given. An
	// explicit id that already exists reattaches to that session.
	Create(ctx context.Context, userID, sessionID string) (*store.Session, error)

	// Get returns a copy of the session or a not-found error.
	Get(ctx context.Context, sessionID string) (*store.Session, error)

	// UpdateProfile merges only the fields present in the patch.
	UpdateProfile(ctx context.Context, sessionID string, patch *dto.UpdateProfileRequest) (*store.Session, error)

	// MergeEntities folds extracted entities into the profile. Empty
	// entity fields never overwrite known profile values.
	MergeEntities(ctx context.Context, sessionID string, entities nlp.Entities) error

	// AppendTurn adds one turn to the history, creating the session first
	// if it does not exist yet.
	AppendTurn(ctx context.Context, sessionID, role, content string) error
}

type sessionService struct {
	repo  contract.SessionRepository
	locks *sessionLocks
}

func NewSessionService(repo contract.SessionRepository) ISessionService {
	return &sessionService{
		repo:  repo,
		locks: newSessionLocks(),
	}
}

func (s *sessionService) Create(ctx context.Context, userID, sessionID string) (*store.Session, error) {
	if userID == "" {
		userID = constant.DefaultUserID
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	unlock := s.locks.Lock(sessionID)
	defer unlock()

	existing, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing.Clone(), nil
	}

	now := time.Now()
	sess := &store.Session{
		ID:           sessionID,
		UserID:       userID,
		CreatedAt:    now,
		LastActivity: now,
	}
	if err := s.repo.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess.Clone(), nil
}

func (s *sessionService) Get(ctx context.Context, sessionID string) (*store.Session, error) {
	// The memory repo hands out the stored pointer, so the copy has to be
	// taken under the same lock that serializes writers.
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	sess, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, serverutils.NewNotFoundError("Session not found")
	}
	return sess.Clone(), nil
}

func (s *sessionService) UpdateProfile(ctx context.Context, sessionID string, patch *dto.UpdateProfileRequest) (*store.Session, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	sess, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, serverutils.NewNotFoundError("Session not found")
	}

	if patch.Name != nil {
		sess.Profile.Name = *patch.Name
	}
	if patch.TargetCountry != nil {
		sess.Profile.TargetCountry = *patch.TargetCountry
	}
	if patch.VisaType != nil {
		sess.Profile.VisaType = *patch.VisaType
	}
	if patch.EducationLevel != nil {
		sess.Profile.EducationLevel = *patch.EducationLevel
	}
	if patch.WorkExperienceYears != nil {
		sess.Profile.WorkExperienceYears = *patch.WorkExperienceYears
	}
	sess.LastActivity = time.Now()

	if err := s.repo.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess.Clone(), nil
}

func (s *sessionService) MergeEntities(ctx context.Context, sessionID string, entities nlp.Entities) error {
	if entities == (nlp.Entities{}) {
		return nil
	}

	unlock := s.locks.Lock(sessionID)
	defer unlock()

	sess, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess == nil {
		return serverutils.NewNotFoundError("Session not found")
	}

	if entities.Country != "" {
		sess.Profile.TargetCountry = entities.Country
	}
	if entities.VisaType != "" {
		sess.Profile.VisaType = entities.VisaType
	}
	if entities.Education != "" {
		sess.Profile.EducationLevel = entities.Education
	}
	if entities.ExperienceYears > 0 {
		sess.Profile.WorkExperienceYears = entities.ExperienceYears
	}
	sess.LastActivity = time.Now()

	return s.repo.Save(ctx, sess)
}

func (s *sessionService) AppendTurn(ctx context.Context, sessionID, role, content string) error {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	sess, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess == nil {
		now := time.Now()
		sess = &store.Session{
			ID:           sessionID,
			UserID:       constant.DefaultUserID,
			CreatedAt:    now,
			LastActivity: now,
		}
	}

	sess.History = append(sess.History, store.Turn{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
	sess.LastActivity = time.Now()

	return s.repo.Save(ctx, sess)
}
