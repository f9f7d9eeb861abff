package services

import (
	"testing"

	"github.com/familybridge/crm-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRenderTemplateEmail(t *testing.T) {
	lead := models.Lead{
		ID:        uuid.New(),
		FirstName: "Maya",
		LastName:  "Okafor",
		Email:     "maya@example.org",
		Phone:     "+15550123",
		Persona:   models.PersonaParent,
	}
	tmpl := models.MessageTemplate{
		Channel: models.ChannelEmail,
		Subject: "Welcome, {{firstName}}!",
		Body:    "Hi {{firstName}} {{lastName}}, thanks for joining as a {{persona}}.",
	}

	msg := RenderTemplate(tmpl, lead)

	assert.Equal(t, lead.ID, msg.LeadID)
	assert.Equal(t, models.ChannelEmail, msg.Channel)
	assert.Equal(t, "maya@example.org", msg.To)
	assert.Equal(t, "Welcome, Maya!", msg.Subject)
	assert.Equal(t, "Hi Maya Okafor, thanks for joining as a parent.", msg.Body)
}

func TestRenderTemplateSMSUsesPhone(t *testing.T) {
	lead := models.Lead{
		FirstName: "Sam",
		Email:     "sam@example.org",
		Phone:     "+15550199",
	}
	tmpl := models.MessageTemplate{
		Channel: models.ChannelSMS,
		Body:    "{{firstName}}, your session starts soon",
	}

	msg := RenderTemplate(tmpl, lead)

	assert.Equal(t, "+15550199", msg.To)
	assert.Equal(t, "Sam, your session starts soon", msg.Body)
	assert.Empty(t, msg.Subject)
}

func TestRenderTemplateUnknownPlaceholderSurvives(t *testing.T) {
	// unknown placeholders stay visible instead of silently vanishing
	tmpl := models.MessageTemplate{
		Channel: models.ChannelEmail,
		Body:    "Hi {{firstName}}, see you at {{venue}}",
	}

	msg := RenderTemplate(tmpl, models.Lead{FirstName: "Ada", Email: "ada@example.org"})
	assert.Equal(t, "Hi Ada, see you at {{venue}}", msg.Body)
}

func TestRenderTemplateRepeatedPlaceholders(t *testing.T) {
	tmpl := models.MessageTemplate{
		Channel: models.ChannelEmail,
		Body:    "{{firstName}} {{firstName}} {{firstName}}",
	}

	msg := RenderTemplate(tmpl, models.Lead{FirstName: "Jo"})
	assert.Equal(t, "Jo Jo Jo", msg.Body)
}
