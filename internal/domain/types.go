package domain

import "github.com/google/uuid"

type ResearchID string

// NewResearchID returns a time-ordered research identifier.
func NewResearchID() ResearchID {
	return ResearchID("research_" + uuid.Must(uuid.NewV7()).String())
}

type Phase string

const (
	PhaseInit       Phase = "init"
	PhaseProfiling  Phase = "profiling"
	PhasePosting    Phase = "posting"
	PhaseMonitoring Phase = "monitoring"
	PhaseFinalizing Phase = "finalizing"
	PhaseCompleted  Phase = "completed"
	PhaseFailed     Phase = "failed"
)

// Terminal reports whether no further transition is possible.
func (p Phase) Terminal() bool {
	return p == PhaseCompleted || p == PhaseFailed
}

var phaseTransitions = map[Phase][]Phase{
	PhaseInit:       {PhaseProfiling, PhaseFailed},
	PhaseProfiling:  {PhasePosting, PhaseFailed},
	PhasePosting:    {PhaseMonitoring, PhaseFailed},
	PhaseMonitoring: {PhaseFinalizing, PhaseFailed},
	PhaseFinalizing: {PhaseCompleted, PhaseFailed},
}

// CanTransition reports whether from -> to is an edge of the session lifecycle.
func CanTransition(from, to Phase) bool {
	for _, next := range phaseTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type PostStatus string

const (
	PostActive  PostStatus = "active"
	PostUnknown PostStatus = "unknown"
	PostRemoved PostStatus = "removed"
)

// rank orders statuses so that observations only ever move forward.
func (s PostStatus) rank() int {
	switch s {
	case PostActive:
		return 0
	case PostUnknown:
		return 1
	case PostRemoved:
		return 2
	default:
		return -1
	}
}

// GenerationTask tells the text generator what kind of content is requested.
type GenerationTask string

const (
	TaskPost  GenerationTask = "post"
	TaskReply GenerationTask = "reply"
)
