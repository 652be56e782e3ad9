package app

import (
	"context"
	"testing"
	"time"

	"restaurant_backoffice/internal/domain/dailymenu"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v3"
)

type fakeNotifier struct {
	messages []string
	chatIDs  []int64
}

func (f *fakeNotifier) SendMessage(chatID int64, text string, _ *telebot.SendOptions) error {
	f.chatIDs = append(f.chatIDs, chatID)
	f.messages = append(f.messages, text)
	return nil
}

func carryForwardFixture(t *testing.T) (*fakeMenuRepo, *fakeNotifier, *CarryForwardService) {
	t.Helper()
	repo := newFakeMenuRepo()
	notifier := &fakeNotifier{}
	svc := NewCarryForwardService(repo, notifier, 4242, testLogger())
	svc.now = func() time.Time { return time.Date(2024, time.June, 3, 21, 0, 0, 0, time.UTC) }
	return repo, notifier, svc
}

func scheduleDay(t *testing.T, repo *fakeMenuRepo, day time.Time) *dailymenu.DailyMenu {
	t.Helper()
	svc := NewDailyMenuService(repo, testLogger())
	result, err := svc.ScheduleMenus(context.Background(), ScheduleRequest{
		From:          day,
		To:            day,
		Pattern:       dailymenu.RepeatNone,
		FirstCourses:  []string{"Gazpacho"},
		SecondCourses: []string{"Paella"},
	})
	require.NoError(t, err)
	return result.Created[0]
}

func TestRemindIfTomorrowMissing_SilentWhenCovered(t *testing.T) {
	repo, notifier, svc := carryForwardFixture(t)
	scheduleDay(t, repo, menuDay(2024, time.June, 4))

	require.NoError(t, svc.RemindIfTomorrowMissing(context.Background()))
	assert.Empty(t, notifier.messages)
}

func TestRemindIfTomorrowMissing_WarnsManager(t *testing.T) {
	repo, notifier, svc := carryForwardFixture(t)
	scheduleDay(t, repo, menuDay(2024, time.June, 3)) // today only

	require.NoError(t, svc.RemindIfTomorrowMissing(context.Background()))
	require.Len(t, notifier.messages, 1)
	assert.Equal(t, int64(4242), notifier.chatIDs[0])
	assert.Contains(t, notifier.messages[0], "2024-06-04")
}

func TestRemindIfTomorrowMissing_NoNotifierConfigured(t *testing.T) {
	repo := newFakeMenuRepo()
	svc := NewCarryForwardService(repo, nil, 0, testLogger())
	svc.now = func() time.Time { return time.Date(2024, time.June, 3, 17, 0, 0, 0, time.UTC) }

	// must not panic without a Telegram client
	require.NoError(t, svc.RemindIfTomorrowMissing(context.Background()))
}

func TestCarryForward_CopiesTodayOntoTomorrow(t *testing.T) {
	repo, notifier, svc := carryForwardFixture(t)
	source := scheduleDay(t, repo, menuDay(2024, time.June, 3))

	require.NoError(t, svc.CarryForward(context.Background()))

	copied, err := repo.GetByDate(context.Background(), menuDay(2024, time.June, 4))
	require.NoError(t, err)
	assert.True(t, copied.CarriedForward)
	require.True(t, copied.CarriedFromID.Valid)
	assert.Equal(t, source.ID, copied.CarriedFromID.Int64)
	require.Len(t, copied.FirstCourses, 1)
	assert.Equal(t, "Gazpacho", copied.FirstCourses[0].Name)
	require.Len(t, notifier.messages, 1)
}

func TestCarryForward_NoopWhenTomorrowCovered(t *testing.T) {
	repo, notifier, svc := carryForwardFixture(t)
	scheduleDay(t, repo, menuDay(2024, time.June, 3))
	tomorrow := scheduleDay(t, repo, menuDay(2024, time.June, 4))

	require.NoError(t, svc.CarryForward(context.Background()))

	existing, err := repo.GetByDate(context.Background(), menuDay(2024, time.June, 4))
	require.NoError(t, err)
	assert.Equal(t, tomorrow.ID, existing.ID)
	assert.False(t, existing.CarriedForward)
	assert.Empty(t, notifier.messages)
}

func TestCarryForward_NoopWhenTodayEmpty(t *testing.T) {
	repo, notifier, svc := carryForwardFixture(t)

	require.NoError(t, svc.CarryForward(context.Background()))
	assert.Empty(t, repo.menus)
	assert.Empty(t, notifier.messages)
}
