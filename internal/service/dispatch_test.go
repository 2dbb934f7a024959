package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/shenikar/travel_safety_alerts/internal/config"
	"github.com/shenikar/travel_safety_alerts/internal/models"
	"github.com/shenikar/travel_safety_alerts/internal/notifier"
	notifier_mocks "github.com/shenikar/travel_safety_alerts/internal/notifier/mocks"
	"github.com/shenikar/travel_safety_alerts/internal/service/mocks"
)

type dispatchTestMocks struct {
	incidentRepo *mocks.MockIncidentRepository
	prefRepo     *mocks.MockPreferenceRepository
	alertRepo    *mocks.MockAlertRepository
	whatsapp     *notifier_mocks.MockNotifier
	email        *notifier_mocks.MockNotifier
}

// newTestDispatchService — вспомогательная функция для создания джобы рассылки с моками.
func newTestDispatchService(t *testing.T) (*alertDispatchService, *dispatchTestMocks) {
	ctrl := gomock.NewController(t)
	m := &dispatchTestMocks{
		incidentRepo: mocks.NewMockIncidentRepository(ctrl),
		prefRepo:     mocks.NewMockPreferenceRepository(ctrl),
		alertRepo:    mocks.NewMockAlertRepository(ctrl),
		whatsapp:     notifier_mocks.NewMockNotifier(ctrl),
		email:        notifier_mocks.NewMockNotifier(ctrl),
	}

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		SendTimeout: 15 * time.Second,
	}

	service := NewAlertDispatchService(m.incidentRepo, m.prefRepo, m.alertRepo, m.whatsapp, m.email, logger, cfg)
	return service.(*alertDispatchService), m
}

func approvedIncident() *models.Incident {
	return &models.Incident{
		ID:          1,
		UserID:      2,
		Location:    "Paris, France",
		Category:    models.CategoryScam,
		Description: "Fake petition scam near the Eiffel Tower",
		Approved:    true,
	}
}

func TestDispatch_UnknownIncident_NoAlerts(t *testing.T) {
	// Подготовка
	service, m := newTestDispatchService(t)
	ctx := context.Background()

	// Ожидания: джоба завершается до выборки получателей и записей в журнал
	m.incidentRepo.EXPECT().
		GetByID(ctx, int64(77)).
		Return(nil, fmt.Errorf("incident with id 77 not found")).
		Times(1)

	// Действие
	result, err := service.Dispatch(ctx, int64(77))

	// Проверки
	require.Error(t, err)
	assert.Nil(t, result)
}

func TestDispatch_UnapprovedIncident_NoAlerts(t *testing.T) {
	// Подготовка
	service, m := newTestDispatchService(t)
	ctx := context.Background()
	incident := approvedIncident()
	incident.Approved = false

	// Ожидания: неподтвержденный инцидент не рассылается
	m.incidentRepo.EXPECT().
		GetByID(ctx, incident.ID).
		Return(incident, nil).
		Times(1)

	// Действие
	result, err := service.Dispatch(ctx, incident.ID)

	// Проверки
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not approved")
	assert.Nil(t, result)
}

func TestDispatch_ChannelPriority_WhatsAppOverEmail(t *testing.T) {
	// Подготовка
	service, m := newTestDispatchService(t)
	ctx := context.Background()
	incident := approvedIncident()

	// Получатель с обоими каналами должен получить только WhatsApp
	recipients := []*models.Preference{
		{
			UserID:           10,
			AlertViaWhatsApp: true,
			AlertViaEmail:    true,
			WhatsAppNumber:   "+79990001122",
			Email:            "traveler@example.com",
		},
	}

	// Ожидания
	m.incidentRepo.EXPECT().GetByID(ctx, incident.ID).Return(incident, nil).Times(1)
	m.prefRepo.EXPECT().ListAlertRecipients(ctx).Return(recipients, nil).Times(1)
	m.whatsapp.EXPECT().
		Send(gomock.Any(), "+79990001122", gomock.Any()).
		Return(nil).
		Times(1)
	m.alertRepo.EXPECT().CreateBatch(ctx, gomock.Len(1)).Return(nil).Times(1)

	// Действие
	result, err := service.Dispatch(ctx, incident.ID)

	// Проверки: email-нотификатор не вызывался вовсе
	require.NoError(t, err)
	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, 0, result.Failed)
}

func TestDispatch_FailureIsolation(t *testing.T) {
	// Подготовка
	service, m := newTestDispatchService(t)
	ctx := context.Background()
	incident := approvedIncident()

	recipients := []*models.Preference{
		{UserID: 10, AlertViaWhatsApp: true, WhatsAppNumber: "+79990001122"},
		{UserID: 11, AlertViaEmail: true, Email: "second@example.com"},
	}

	// Ожидания: сбой первого получателя не прерывает второго,
	// журнальные записи создаются для обоих
	m.incidentRepo.EXPECT().GetByID(ctx, incident.ID).Return(incident, nil).Times(1)
	m.prefRepo.EXPECT().ListAlertRecipients(ctx).Return(recipients, nil).Times(1)
	m.whatsapp.EXPECT().
		Send(gomock.Any(), "+79990001122", gomock.Any()).
		Return(fmt.Errorf("provider rejected message")).
		Times(1)
	m.email.EXPECT().
		Send(gomock.Any(), "second@example.com", gomock.Any()).
		Return(nil).
		Times(1)
	m.alertRepo.EXPECT().
		CreateBatch(ctx, gomock.Len(2)).
		DoAndReturn(func(_ context.Context, alerts []*models.Alert) error {
			assert.Equal(t, int64(10), alerts[0].UserID)
			assert.Equal(t, int64(11), alerts[1].UserID)
			assert.Equal(t, alerts[0].Message, alerts[1].Message)
			return nil
		}).
		Times(1)

	// Действие
	result, err := service.Dispatch(ctx, incident.ID)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, 1, result.Failed)
}

func TestDispatch_NoUsableChannel_AlertStillLogged(t *testing.T) {
	// Подготовка
	service, m := newTestDispatchService(t)
	ctx := context.Background()
	incident := approvedIncident()

	// Канал включен, но адрес не заполнен: отправки нет, запись есть
	recipients := []*models.Preference{
		{UserID: 20, AlertViaWhatsApp: true, WhatsAppNumber: ""},
	}

	// Ожидания
	m.incidentRepo.EXPECT().GetByID(ctx, incident.ID).Return(incident, nil).Times(1)
	m.prefRepo.EXPECT().ListAlertRecipients(ctx).Return(recipients, nil).Times(1)
	m.alertRepo.EXPECT().CreateBatch(ctx, gomock.Len(1)).Return(nil).Times(1)

	// Действие
	result, err := service.Dispatch(ctx, incident.ID)

	// Проверки: ни успех, ни сбой не засчитаны
	require.NoError(t, err)
	assert.Equal(t, 0, result.Sent)
	assert.Equal(t, 0, result.Failed)
}

func TestDispatch_EmailOnly_MessageContent(t *testing.T) {
	// Подготовка
	service, m := newTestDispatchService(t)
	ctx := context.Background()
	incident := approvedIncident()

	recipients := []*models.Preference{
		{UserID: 30, AlertViaEmail: true, Email: "only-mail@example.com"},
	}

	var sent notifier.Message

	// Ожидания
	m.incidentRepo.EXPECT().GetByID(ctx, incident.ID).Return(incident, nil).Times(1)
	m.prefRepo.EXPECT().ListAlertRecipients(ctx).Return(recipients, nil).Times(1)
	m.email.EXPECT().
		Send(gomock.Any(), "only-mail@example.com", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, msg notifier.Message) error {
			sent = msg
			return nil
		}).
		Times(1)
	m.alertRepo.EXPECT().CreateBatch(ctx, gomock.Any()).Return(nil).Times(1)

	// Действие
	result, err := service.Dispatch(ctx, incident.ID)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, "Safety Alert: Paris, France", sent.Subject)
	assert.Contains(t, sent.Body, "Location: Paris, France")
	assert.Contains(t, sent.Body, "Category: Scam")
	assert.NotContains(t, sent.Body, "PARIS, FRANCE")
	assert.True(t, strings.HasPrefix(sent.Body, "🚨 TRAVEL SAFETY ALERT 🚨"))
}

func TestDispatch_PersistFailure(t *testing.T) {
	// Подготовка
	service, m := newTestDispatchService(t)
	ctx := context.Background()
	incident := approvedIncident()

	recipients := []*models.Preference{
		{UserID: 40, AlertViaEmail: true, Email: "user@example.com"},
	}

	// Ожидания
	m.incidentRepo.EXPECT().GetByID(ctx, incident.ID).Return(incident, nil).Times(1)
	m.prefRepo.EXPECT().ListAlertRecipients(ctx).Return(recipients, nil).Times(1)
	m.email.EXPECT().Send(gomock.Any(), "user@example.com", gomock.Any()).Return(nil).Times(1)
	m.alertRepo.EXPECT().
		CreateBatch(ctx, gomock.Any()).
		Return(fmt.Errorf("tx aborted")).
		Times(1)

	// Действие
	result, err := service.Dispatch(ctx, incident.ID)

	// Проверки
	require.Error(t, err)
	assert.Nil(t, result)
}
