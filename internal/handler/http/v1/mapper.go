package v1

import "github.com/shenikar/travel_safety_alerts/internal/models"

// DTOToIncidentModel преобразует DTO сообщения об инциденте в доменную модель
func DTOToIncidentModel(dto ReportIncidentRequest) *models.Incident {
	return &models.Incident{
		UserID:        dto.UserID,
		Location:      dto.Location,
		Category:      dto.Category,
		Description:   dto.Description,
		PhotoFilename: dto.PhotoFilename,
	}
}

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа
func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	return &IncidentResponse{
		ID:            model.ID,
		UserID:        model.UserID,
		Location:      model.Location,
		Category:      model.Category,
		Description:   model.Description,
		PhotoFilename: model.PhotoFilename,
		Approved:      model.Approved,
		CreatedAt:     model.CreatedAt,
	}
}

// ModelsToIncidentResponses преобразует слайс моделей в слайс DTO
func ModelsToIncidentResponses(models []*models.Incident) []*IncidentResponse {
	responses := make([]*IncidentResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToIncidentResponse(model)
	}
	return responses
}

// ModelToUserResponse преобразует доменную модель пользователя в DTO для ответа
func ModelToUserResponse(model *models.User) *UserResponse {
	return &UserResponse{
		ID:        model.ID,
		Username:  model.Username,
		Email:     model.Email,
		CreatedAt: model.CreatedAt,
	}
}

// ModelToPreferencesResponse преобразует доменную модель настроек в DTO для ответа
func ModelToPreferencesResponse(model *models.Preference) *PreferencesResponse {
	return &PreferencesResponse{
		UserID:           model.UserID,
		AlertViaWhatsApp: model.AlertViaWhatsApp,
		AlertViaEmail:    model.AlertViaEmail,
		WhatsAppNumber:   model.WhatsAppNumber,
		Email:            model.Email,
	}
}

// DTOToPreferenceModel преобразует DTO обновления настроек в доменную модель
func DTOToPreferenceModel(userID int64, dto UpdatePreferencesRequest) *models.Preference {
	return &models.Preference{
		UserID:           userID,
		AlertViaWhatsApp: dto.AlertViaWhatsApp,
		AlertViaEmail:    dto.AlertViaEmail,
		WhatsAppNumber:   dto.WhatsAppNumber,
		Email:            dto.Email,
	}
}
