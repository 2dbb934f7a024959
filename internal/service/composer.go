package service

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/shenikar/travel_safety_alerts/internal/models"
)

// maxDescriptionLen - предел длины описания в тексте оповещения
const maxDescriptionLen = 200

// ComposeAlertMessage строит текст оповещения по инциденту.
// Чистая детерминированная функция: одинаковый инцидент всегда дает
// байт-в-байт одинаковый текст. Сообщение составляется один раз на джобу
// и рассылается всем получателям.
func ComposeAlertMessage(incident *models.Incident) string {
	return fmt.Sprintf(`🚨 TRAVEL SAFETY ALERT 🚨

Location: %s
Category: %s
Description: %s

Stay safe and be aware of your surroundings.

- Travel Safety Alerts`,
		incident.Location,
		cases.Title(language.English).String(incident.Category),
		truncate(incident.Description, maxDescriptionLen),
	)
}

// AlertSubject строит тему письма для email-канала
func AlertSubject(incident *models.Incident) string {
	return fmt.Sprintf("Safety Alert: %s", incident.Location)
}

// truncate обрезает строку до limit символов, добавляя маркер обрезки
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
