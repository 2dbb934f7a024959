package service

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	dispatch_mocks "github.com/shenikar/travel_safety_alerts/internal/dispatch/mocks"
	"github.com/shenikar/travel_safety_alerts/internal/models"
	"github.com/shenikar/travel_safety_alerts/internal/service/mocks"
)

// newTestIncidentService — вспомогательная функция для создания инстанса сервиса с моками.
func newTestIncidentService(t *testing.T) (*incidentService, *mocks.MockIncidentRepository, *dispatch_mocks.MockPublisher) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockIncidentRepository(ctrl)
	publisherMock := dispatch_mocks.NewMockPublisher(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	service := NewIncidentService(repoMock, publisherMock, logger)
	return service.(*incidentService), repoMock, publisherMock
}

func TestReportIncident_Success(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	incident := &models.Incident{
		UserID:      7,
		Location:    "Барселона, Испания",
		Category:    models.CategoryTheft,
		Description: "Карманная кража у вокзала",
	}

	// Ожидания
	repoMock.EXPECT().
		Create(ctx, incident).
		DoAndReturn(func(_ context.Context, i *models.Incident) error {
			i.ID = 42
			return nil
		}).
		Times(1)

	// Действие
	err := service.ReportIncident(ctx, incident)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, int64(42), incident.ID)
}

func TestReportIncident_ForcesUnapproved(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	incident := &models.Incident{
		Location: "Лима, Перу",
		Category: models.CategoryScam,
		Approved: true, // попытка самоподтверждения
	}

	// Ожидания
	repoMock.EXPECT().
		Create(ctx, incident).
		DoAndReturn(func(_ context.Context, i *models.Incident) error {
			assert.False(t, i.Approved)
			return nil
		}).
		Times(1)

	// Действие
	err := service.ReportIncident(ctx, incident)

	// Проверки
	require.NoError(t, err)
	assert.False(t, incident.Approved)
}

func TestReportIncident_RepoError(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	incident := &models.Incident{Category: models.CategoryOther}
	repoErr := fmt.Errorf("db is down")

	// Ожидания
	repoMock.EXPECT().
		Create(ctx, incident).
		Return(repoErr).
		Times(1)

	// Действие
	err := service.ReportIncident(ctx, incident)

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, repoErr)
}

func TestGetIncident_Success(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	expected := &models.Incident{
		ID:       13,
		Location: "Бангкок, Таиланд",
		Category: models.CategoryHarassment,
	}

	// Ожидания
	repoMock.EXPECT().
		GetByID(ctx, int64(13)).
		Return(expected, nil).
		Times(1)

	// Действие
	incident, err := service.GetIncident(ctx, int64(13))

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expected, incident)
}

func TestGetIncident_NotFound(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	notFoundErr := fmt.Errorf("incident with id 99 not found")

	// Ожидания
	repoMock.EXPECT().
		GetByID(ctx, int64(99)).
		Return(nil, notFoundErr).
		Times(1)

	// Действие
	incident, err := service.GetIncident(ctx, int64(99))

	// Проверки
	require.Error(t, err)
	assert.Nil(t, incident)
}

func TestListIncidents_ClampsPagination(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()

	// Ожидания: некорректные параметры заменяются значениями по умолчанию
	repoMock.EXPECT().
		ListIncidents(ctx, 1, 20).
		Return([]*models.Incident{}, nil).
		Times(1)

	// Действие
	incidents, err := service.ListIncidents(ctx, -5, 1000)

	// Проверки
	require.NoError(t, err)
	assert.Empty(t, incidents)
}

func TestApproveIncident_Success_EnqueuesDispatch(t *testing.T) {
	// Подготовка
	service, repoMock, publisherMock := newTestIncidentService(t)
	ctx := context.Background()
	incident := &models.Incident{ID: 5, Category: models.CategoryTheft}

	// Ожидания
	repoMock.EXPECT().
		GetByID(ctx, int64(5)).
		Return(incident, nil).
		Times(1)
	repoMock.EXPECT().
		Approve(ctx, int64(5)).
		Return(nil).
		Times(1)
	publisherMock.EXPECT().
		Publish(ctx, gomock.Any()).
		Return(nil).
		Times(1)

	// Действие
	err := service.ApproveIncident(ctx, int64(5))

	// Проверки
	require.NoError(t, err)
}

func TestApproveIncident_PublishFailure_ApprovalKept(t *testing.T) {
	// Подготовка
	service, repoMock, publisherMock := newTestIncidentService(t)
	ctx := context.Background()
	incident := &models.Incident{ID: 6, Category: models.CategoryScam}

	// Ожидания: очередь недоступна, но подтверждение уже состоялось
	repoMock.EXPECT().
		GetByID(ctx, int64(6)).
		Return(incident, nil).
		Times(1)
	repoMock.EXPECT().
		Approve(ctx, int64(6)).
		Return(nil).
		Times(1)
	publisherMock.EXPECT().
		Publish(ctx, gomock.Any()).
		Return(fmt.Errorf("redis unavailable")).
		Times(1)

	// Действие
	err := service.ApproveIncident(ctx, int64(6))

	// Проверки: сбой постановки в очередь не отменяет подтверждение
	require.NoError(t, err)
}

func TestApproveIncident_NotFound(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()

	// Ожидания: инцидент не найден, подтверждения и постановки в очередь нет
	repoMock.EXPECT().
		GetByID(ctx, int64(404)).
		Return(nil, fmt.Errorf("incident with id 404 not found")).
		Times(1)

	// Действие
	err := service.ApproveIncident(ctx, int64(404))

	// Проверки
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found for approve")
}

func TestRejectIncident_Success(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	incident := &models.Incident{ID: 8, Category: models.CategoryOther}

	// Ожидания
	repoMock.EXPECT().
		GetByID(ctx, int64(8)).
		Return(incident, nil).
		Times(1)
	repoMock.EXPECT().
		Delete(ctx, int64(8)).
		Return(nil).
		Times(1)

	// Действие
	err := service.RejectIncident(ctx, int64(8))

	// Проверки
	require.NoError(t, err)
}

func TestRejectIncident_NotFound(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()

	// Ожидания
	repoMock.EXPECT().
		GetByID(ctx, int64(500)).
		Return(nil, fmt.Errorf("incident with id 500 not found")).
		Times(1)

	// Действие
	err := service.RejectIncident(ctx, int64(500))

	// Проверки
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found for reject")
}

func TestListRisks_Success(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	approved := []*models.Incident{
		{ID: 1, Approved: true, Category: models.CategoryTheft},
		{ID: 2, Approved: true, Category: models.CategoryScam},
	}

	// Ожидания
	repoMock.EXPECT().
		ListApproved(ctx).
		Return(approved, nil).
		Times(1)

	// Действие
	incidents, err := service.ListRisks(ctx)

	// Проверки
	require.NoError(t, err)
	assert.Len(t, incidents, 2)
}

func TestGetStats_Success(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	expected := &models.Stats{
		PendingIncidents:  3,
		ApprovedIncidents: 12,
		TotalUsers:        40,
	}

	// Ожидания
	repoMock.EXPECT().
		GetStats(ctx).
		Return(expected, nil).
		Times(1)

	// Действие
	stats, err := service.GetStats(ctx)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expected, stats)
}
