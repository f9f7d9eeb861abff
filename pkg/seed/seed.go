// Package seed loads initial site content from a JSON file. Used on fresh
// deployments so the marketing pages aren't empty before an admin has
// touched anything.
package seed

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/familybridge/crm-backend/internal/models"
	"github.com/google/uuid"
)

// File is the top-level shape of a seed data file
type File struct {
	ContentItems []ContentItemSeed            `json:"content_items"`
	Templates    []models.CreateTemplateInput `json:"templates"`
	Users        []UserSeed                   `json:"users"`
}

// ContentItemSeed is a content item plus its visibility override cells.
// Overrides reference the item positionally since seed files have no UUIDs.
type ContentItemSeed struct {
	Item      models.CreateContentItemInput `json:"item"`
	Overrides []OverrideSeed                `json:"overrides,omitempty"`
}

// OverrideSeed is one visibility cell without the content item ID (filled
// in after the parent item is created)
type OverrideSeed struct {
	Persona             *models.Persona     `json:"persona,omitempty"`
	FunnelStage         *models.FunnelStage `json:"funnel_stage,omitempty"`
	IsVisible           bool                `json:"is_visible"`
	Order               *int                `json:"order,omitempty"`
	TitleOverride       *string             `json:"title_override,omitempty"`
	DescriptionOverride *string             `json:"description_override,omitempty"`
	ImageNameOverride   *string             `json:"image_name_override,omitempty"`
}

// ToInput attaches the parent item's ID once it exists
func (o OverrideSeed) ToInput(contentItemID uuid.UUID) models.UpsertContentVisibilityInput {
	return models.UpsertContentVisibilityInput{
		ContentItemID:       contentItemID,
		Persona:             o.Persona,
		FunnelStage:         o.FunnelStage,
		IsVisible:           o.IsVisible,
		Order:               o.Order,
		TitleOverride:       o.TitleOverride,
		DescriptionOverride: o.DescriptionOverride,
		ImageNameOverride:   o.ImageNameOverride,
	}
}

// UserSeed is a staff account with a plaintext password that gets hashed
// during import. Only ever read from operator-controlled seed files.
type UserSeed struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

// Loader reads seed files
type Loader struct {
	Path string // where the seed file lives
}

// NewLoader creates a loader for the given file path
func NewLoader(path string) *Loader {
	log.Printf("Initializing seed loader with file: %s", path)
	return &Loader{Path: path}
}

// Validate checks the seed file exists and parses
func (l *Loader) Validate() error {
	info, err := os.Stat(l.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("seed file does not exist: %s", l.Path)
		}
		return fmt.Errorf("error accessing seed file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("seed path is a directory, not a file: %s", l.Path)
	}

	_, err = l.Load()
	return err
}

// Load parses the seed file into memory
func (l *Loader) Load() (*File, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("error reading seed file: %w", err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("error parsing seed file: %w", err)
	}

	// sanity-check enum fields up front so a bad file fails loudly
	for i, cs := range f.ContentItems {
		if !cs.Item.Type.IsValid() {
			return nil, fmt.Errorf("content item %d: unknown type %q", i, cs.Item.Type)
		}
		for j, o := range cs.Overrides {
			if o.Persona != nil && !o.Persona.IsValid() {
				return nil, fmt.Errorf("content item %d override %d: unknown persona %q", i, j, *o.Persona)
			}
			if o.FunnelStage != nil && !o.FunnelStage.IsValid() {
				return nil, fmt.Errorf("content item %d override %d: unknown funnel stage %q", i, j, *o.FunnelStage)
			}
		}
	}
	for i, tmpl := range f.Templates {
		if !tmpl.Channel.IsValid() {
			return nil, fmt.Errorf("template %d: unknown channel %q", i, tmpl.Channel)
		}
	}

	return &f, nil
}
