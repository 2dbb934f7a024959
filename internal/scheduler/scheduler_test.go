package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextPurgeRun_BeforeScheduledHour(t *testing.T) {
	// Подготовка: 01:30 UTC, запуск должен быть сегодня в 02:00
	now := time.Date(2026, 3, 10, 1, 30, 0, 0, time.UTC)

	// Действие
	run := nextPurgeRun(now)

	// Проверки
	assert.Equal(t, time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC), run)
}

func TestNextPurgeRun_AfterScheduledHour(t *testing.T) {
	// Подготовка: 14:00 UTC, запуск переносится на завтра
	now := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

	run := nextPurgeRun(now)

	assert.Equal(t, time.Date(2026, 3, 11, 2, 0, 0, 0, time.UTC), run)
}

func TestNextPurgeRun_ExactlyAtScheduledTime(t *testing.T) {
	// Запуск строго после now: ровно в 02:00 следующий запуск уже завтра
	now := time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC)

	run := nextPurgeRun(now)

	assert.Equal(t, time.Date(2026, 3, 11, 2, 0, 0, 0, time.UTC), run)
}

func TestNextReportRun_MidWeek(t *testing.T) {
	// Подготовка: среда, ближайший понедельник через 5 дней
	now := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Wednesday, now.Weekday())

	run := nextReportRun(now)

	assert.Equal(t, time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC), run)
	assert.Equal(t, time.Monday, run.Weekday())
}

func TestNextReportRun_MondayBeforeNine(t *testing.T) {
	// Понедельник до 09:00: запуск сегодня
	now := time.Date(2026, 3, 9, 7, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Monday, now.Weekday())

	run := nextReportRun(now)

	assert.Equal(t, time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC), run)
}

func TestNextReportRun_MondayAfterNine(t *testing.T) {
	// Понедельник после 09:00: запуск через неделю
	now := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)

	run := nextReportRun(now)

	assert.Equal(t, time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC), run)
}

func TestNextReportRun_Sunday(t *testing.T) {
	// Воскресенье: запуск завтра
	now := time.Date(2026, 3, 8, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Sunday, now.Weekday())

	run := nextReportRun(now)

	assert.Equal(t, time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC), run)
}
