package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/familybridge/crm-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSeedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadValidFile(t *testing.T) {
	path := writeSeedFile(t, `{
		"content_items": [
			{
				"item": {"type": "hero", "title": "Learning together", "order": 1},
				"overrides": [
					{"persona": "volunteer", "is_visible": true, "title_override": "Join the team"}
				]
			}
		],
		"templates": [
			{"channel": "email", "name": "welcome", "subject": "Hi {{firstName}}", "body": "Welcome!"}
		],
		"users": [
			{"name": "Admin", "email": "admin@example.org", "role": "admin", "password": "changeme123"}
		]
	}`)

	file, err := NewLoader(path).Load()
	require.NoError(t, err)

	require.Len(t, file.ContentItems, 1)
	assert.Equal(t, models.ContentHero, file.ContentItems[0].Item.Type)
	require.Len(t, file.ContentItems[0].Overrides, 1)
	assert.Equal(t, models.PersonaVolunteer, *file.ContentItems[0].Overrides[0].Persona)

	require.Len(t, file.Templates, 1)
	assert.Equal(t, models.ChannelEmail, file.Templates[0].Channel)

	require.Len(t, file.Users, 1)
	assert.Equal(t, "admin@example.org", file.Users[0].Email)
}

func TestLoadRejectsBadEnums(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad content type", `{"content_items": [{"item": {"type": "banner", "title": "x"}}]}`},
		{"bad persona", `{"content_items": [{"item": {"type": "cta", "title": "x"},
			"overrides": [{"persona": "alien", "is_visible": true}]}]}`},
		{"bad stage", `{"content_items": [{"item": {"type": "cta", "title": "x"},
			"overrides": [{"funnel_stage": "limbo", "is_visible": true}]}]}`},
		{"bad channel", `{"templates": [{"channel": "fax", "name": "x", "body": "y"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader(writeSeedFile(t, tt.body)).Load()
			assert.Error(t, err)
		})
	}
}

func TestValidateMissingFile(t *testing.T) {
	err := NewLoader(filepath.Join(t.TempDir(), "nope.json")).Validate()
	assert.Error(t, err)
}

func TestValidateRejectsDirectory(t *testing.T) {
	err := NewLoader(t.TempDir()).Validate()
	assert.Error(t, err)
}

func TestOverrideToInput(t *testing.T) {
	persona := models.PersonaDonor
	order := 7
	itemID := uuid.New()

	input := OverrideSeed{
		Persona:   &persona,
		IsVisible: true,
		Order:     &order,
	}.ToInput(itemID)

	assert.Equal(t, itemID, input.ContentItemID)
	assert.Equal(t, persona, *input.Persona)
	assert.Nil(t, input.FunnelStage)
	assert.True(t, input.IsVisible)
	assert.Equal(t, 7, *input.Order)
}
