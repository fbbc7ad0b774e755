package sqlstore

import (
	"encoding/json"
	"time"

	"github.com/AmolDerickSoans/RedditReady/internal/domain"
)

// researchRow holds the latest snapshot of one session. The whole state is
// kept as JSON; the other columns serve listing and filtering.
type researchRow struct {
	ResearchID   string    `gorm:"primaryKey;size:191"`
	Subreddit    string    `gorm:"size:191;index"`
	Phase        string    `gorm:"size:32;not null"`
	AgentReplies int       `gorm:"not null"`
	StateJSON    string    `gorm:"type:text;not null"`
	StartedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null;index;autoUpdateTime:false"`
}

func (researchRow) TableName() string {
	return "research_records"
}

func rowFromState(st *domain.SessionState) (researchRow, error) {
	data, err := json.Marshal(st)
	if err != nil {
		return researchRow{}, err
	}
	return researchRow{
		ResearchID:   string(st.ResearchID),
		Subreddit:    st.Subreddit,
		Phase:        string(st.Phase),
		AgentReplies: st.AgentReplyCount(),
		StateJSON:    string(data),
		StartedAt:    st.StartedAt,
		UpdatedAt:    st.UpdatedAt,
	}, nil
}

func (r researchRow) toState() (*domain.SessionState, error) {
	var st domain.SessionState
	if err := json.Unmarshal([]byte(r.StateJSON), &st); err != nil {
		return nil, err
	}
	return &st, nil
}
