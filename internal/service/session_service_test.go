package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"recruit-assist-be/internal/constant"
	"recruit-assist-be/internal/dto"
	"recruit-assist-be/internal/pkg/serverutils"
	"recruit-assist-be/internal/repository/memory"
	"recruit-assist-be/pkg/nlp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionServiceForTest() ISessionService {
	return NewSessionService(memory.NewSessionRepository(time.Hour))
}

func TestCreateGeneratesID(t *testing.T) {
	svc := newSessionServiceForTest()

	sess, err := svc.Create(context.Background(), "", "")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, constant.DefaultUserID, sess.UserID)
	assert.False(t, sess.CreatedAt.IsZero())
}

func TestCreateWithExistingIDReattaches(t *testing.T) {
	svc := newSessionServiceForTest()
	ctx := context.Background()

	first, err := svc.Create(ctx, "user-1", "fixed-id")
	require.NoError(t, err)
	require.NoError(t, svc.AppendTurn(ctx, "fixed-id", constant.ChatRoleUser, "hello"))

	second, err := svc.Create(ctx, "user-2", "fixed-id")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "user-1", second.UserID)
	assert.Len(t, second.History, 1)
}

func TestGetMissingSessionIsNotFound(t *testing.T) {
	svc := newSessionServiceForTest()

	_, err := svc.Get(context.Background(), "nope")
	require.Error(t, err)

	var appErr *serverutils.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 404, appErr.Code)
}

func TestUpdateProfileMergesOnlyProvidedFields(t *testing.T) {
	svc := newSessionServiceForTest()
	ctx := context.Background()

	_, err := svc.Create(ctx, "", "s1")
	require.NoError(t, err)

	name := "Dana"
	country := "Israel"
	_, err = svc.UpdateProfile(ctx, "s1", &dto.UpdateProfileRequest{Name: &name, TargetCountry: &country})
	require.NoError(t, err)

	visa := "Work"
	sess, err := svc.UpdateProfile(ctx, "s1", &dto.UpdateProfileRequest{VisaType: &visa})
	require.NoError(t, err)

	assert.Equal(t, "Dana", sess.Profile.Name)
	assert.Equal(t, "Israel", sess.Profile.TargetCountry)
	assert.Equal(t, "Work", sess.Profile.VisaType)
}

func TestUpdateProfileMissingSessionIsNotFound(t *testing.T) {
	svc := newSessionServiceForTest()

	name := "x"
	_, err := svc.UpdateProfile(context.Background(), "missing", &dto.UpdateProfileRequest{Name: &name})
	require.Error(t, err)
}

func TestAppendTurnLazilyCreatesAndKeepsOrder(t *testing.T) {
	svc := newSessionServiceForTest()
	ctx := context.Background()

	require.NoError(t, svc.AppendTurn(ctx, "lazy", constant.ChatRoleUser, "one"))
	require.NoError(t, svc.AppendTurn(ctx, "lazy", constant.ChatRoleAssistant, "two"))
	require.NoError(t, svc.AppendTurn(ctx, "lazy", constant.ChatRoleUser, "three"))

	sess, err := svc.Get(ctx, "lazy")
	require.NoError(t, err)
	require.Len(t, sess.History, 3)
	assert.Equal(t, "one", sess.History[0].Content)
	assert.Equal(t, "two", sess.History[1].Content)
	assert.Equal(t, "three", sess.History[2].Content)
}

// Readers copy the stored session under the same per-session lock writers
// hold, so history reads and appends can interleave freely. Run with -race.
func TestConcurrentAppendAndGet(t *testing.T) {
	svc := newSessionServiceForTest()
	ctx := context.Background()

	_, err := svc.Create(ctx, "", "busy")
	require.NoError(t, err)

	const writes = 200
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < writes; i++ {
			require.NoError(t, svc.AppendTurn(ctx, "busy", constant.ChatRoleUser, "ping"))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < writes; i++ {
			sess, err := svc.Get(ctx, "busy")
			require.NoError(t, err)
			for _, turn := range sess.History {
				assert.Equal(t, "ping", turn.Content)
			}
		}
	}()
	wg.Wait()

	sess, err := svc.Get(ctx, "busy")
	require.NoError(t, err)
	assert.Len(t, sess.History, writes)
}

func TestMergeEntitiesNeverClearsKnownFields(t *testing.T) {
	svc := newSessionServiceForTest()
	ctx := context.Background()

	_, err := svc.Create(ctx, "", "s2")
	require.NoError(t, err)

	require.NoError(t, svc.MergeEntities(ctx, "s2", nlp.Entities{Country: "USA", VisaType: "Student"}))
	require.NoError(t, svc.MergeEntities(ctx, "s2", nlp.Entities{Education: "Master's"}))

	sess, err := svc.Get(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, "USA", sess.Profile.TargetCountry)
	assert.Equal(t, "Student", sess.Profile.VisaType)
	assert.Equal(t, "Master's", sess.Profile.EducationLevel)
}
