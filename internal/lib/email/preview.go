package email

import "time"

// PreviewData contains sample data for every template, used by the
// "email preview" CLI command and by tests to render each template once.
var PreviewData = map[Template]any{
	TemplateRSVPConfirmation: RSVPConfirmationData{
		Name:             "maría garcía",
		Attendees:        3,
		EventID:          "betis-vs-sevilla",
		Message:          "Llevamos la bandera.",
		WhatsAppInterest: true,
		SiteURL:          "https://betis-escocia.com",
	},
	TemplateContactNotification: ContactNotificationData{
		Name:        "John Smith",
		Email:       "john@example.com",
		Type:        "merchandise",
		Subject:     "Bufanda",
		Message:     "¿Quedan bufandas verdiblancas?\nGracias.",
		SubmittedAt: time.Date(2025, 3, 1, 18, 30, 0, 0, time.UTC),
		SiteURL:     "https://betis-escocia.com",
	},
}
