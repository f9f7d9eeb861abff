package services

import "github.com/familybridge/crm-backend/internal/models"

// defaultEntry is the static visibility/order default for one cell of the
// persona×stage matrix
type defaultEntry struct {
	Visible bool
	Order   int
}

// defaultKey addresses the static defaults table. Content types without a
// persona/stage dimension (events, testimonials) aren't in the table at all -
// they fail open.
type defaultKey struct {
	Type    models.ContentType
	Persona models.Persona
	Stage   models.FunnelStage
}

// staticDefaults is the baseline content plan: which categories show for
// which visitor cell before any admin override exists. Cells missing from
// the table fail open (visible), so stage scoping has to be written out as
// explicit invisible entries. Database overrides always win over this table.
var staticDefaults = buildStaticDefaults()

func buildStaticDefaults() map[defaultKey]defaultEntry {
	d := make(map[defaultKey]defaultEntry)

	// fill the full 5×4 matrix for one content type; visible only at the
	// listed stages, explicitly hidden everywhere else
	setMatrix := func(t models.ContentType, order int, visibleAt ...models.FunnelStage) {
		visible := make(map[models.FunnelStage]bool, len(visibleAt))
		for _, s := range visibleAt {
			visible[s] = true
		}
		for _, p := range models.AllPersonas {
			for _, s := range models.AllFunnelStages {
				d[defaultKey{t, p, s}] = defaultEntry{Visible: visible[s], Order: order}
			}
		}
	}

	// heroes have no entries at all: they fail open everywhere and keep the
	// per-item order the admin set, since hero rotation is curated by hand

	// CTAs show at every stage, below the hero block
	setMatrix(models.ContentCTA, 10, models.AllFunnelStages...)

	// services matter most while people are weighing options
	setMatrix(models.ContentService, 20, models.StageConsideration, models.StageDecision)

	// lead magnets are a top-of-funnel play
	setMatrix(models.ContentLeadMagnet, 30, models.StageAwareness, models.StageConsideration)

	// program details for people close to or past a decision
	setMatrix(models.ContentProgramDetail, 25, models.StageDecision, models.StageRetention)

	// volunteer dashboard cards only make sense for committed volunteers
	setMatrix(models.ContentVolunteerDashboard, 40)
	d[defaultKey{models.ContentVolunteerDashboard, models.PersonaVolunteer, models.StageDecision}] =
		defaultEntry{Visible: true, Order: 40}
	d[defaultKey{models.ContentVolunteerDashboard, models.PersonaVolunteer, models.StageRetention}] =
		defaultEntry{Visible: true, Order: 5}

	// donors see program details earlier - impact is the pitch
	d[defaultKey{models.ContentProgramDetail, models.PersonaDonor, models.StageAwareness}] =
		defaultEntry{Visible: true, Order: 15}
	d[defaultKey{models.ContentProgramDetail, models.PersonaDonor, models.StageConsideration}] =
		defaultEntry{Visible: true, Order: 15}

	// providers don't get lead magnets - they get partnership CTAs instead
	for _, s := range models.AllFunnelStages {
		d[defaultKey{models.ContentLeadMagnet, models.PersonaProvider, s}] =
			defaultEntry{Visible: false, Order: 30}
	}

	return d
}

// lookupDefault finds the static default for a cell. The second return is
// false when the table has no opinion, in which case resolution fails open.
// An unknown persona or stage never matches a cell, so it also lands on the
// fail-open path unless an override says otherwise.
func lookupDefault(t models.ContentType, persona models.Persona, stage models.FunnelStage) (defaultEntry, bool) {
	if !t.HasPersonaDimension() {
		// uniform across the matrix, no table entry needed
		return defaultEntry{}, false
	}
	e, ok := staticDefaults[defaultKey{t, persona, stage}]
	return e, ok
}
