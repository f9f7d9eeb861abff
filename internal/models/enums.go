package models

// Persona is the closed set of visitor categories the site targets
type Persona string

const (
	PersonaStudent   Persona = "student"
	PersonaProvider  Persona = "provider"
	PersonaParent    Persona = "parent"
	PersonaDonor     Persona = "donor"
	PersonaVolunteer Persona = "volunteer"
)

// AllPersonas lists every valid persona - handy for iterating the matrix
var AllPersonas = []Persona{
	PersonaStudent,
	PersonaProvider,
	PersonaParent,
	PersonaDonor,
	PersonaVolunteer,
}

// IsValid checks membership in the closed set
func (p Persona) IsValid() bool {
	switch p {
	case PersonaStudent, PersonaProvider, PersonaParent, PersonaDonor, PersonaVolunteer:
		return true
	}
	return false
}

// FunnelStage is the closed set of journey stages
type FunnelStage string

const (
	StageAwareness     FunnelStage = "awareness"
	StageConsideration FunnelStage = "consideration"
	StageDecision      FunnelStage = "decision"
	StageRetention     FunnelStage = "retention"
)

// AllFunnelStages lists the stages in funnel order
var AllFunnelStages = []FunnelStage{
	StageAwareness,
	StageConsideration,
	StageDecision,
	StageRetention,
}

// IsValid checks membership in the closed set
func (s FunnelStage) IsValid() bool {
	switch s {
	case StageAwareness, StageConsideration, StageDecision, StageRetention:
		return true
	}
	return false
}

// Index returns the stage's position in funnel order, or -1 if unknown
func (s FunnelStage) Index() int {
	for i, stage := range AllFunnelStages {
		if stage == s {
			return i
		}
	}
	return -1
}

// NextStage returns the stage after this one, or the same stage if already at retention
func (s FunnelStage) NextStage() FunnelStage {
	idx := s.Index()
	if idx < 0 || idx >= len(AllFunnelStages)-1 {
		return s
	}
	return AllFunnelStages[idx+1]
}
