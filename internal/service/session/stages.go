package session

import "github.com/studyloop/studyloop-api/internal/domain"

// Stage identifiers for the guided study flow.
const (
	StagePrepare  = "prepare"
	StageReview   = "review"
	StagePractice = "practice"
	StageReflect  = "reflect"
	StageDone     = "done"
)

// StageConfig is the static stage graph a workflow engine enforces. It is
// configuration, not user data: the set is fixed when the service is built.
type StageConfig struct {
	ordered []domain.WorkflowStage
	byID    map[string]domain.WorkflowStage
}

// NewStageConfig builds a config from the given stages, which must already
// be in display order.
func NewStageConfig(stages []domain.WorkflowStage) *StageConfig {
	byID := make(map[string]domain.WorkflowStage, len(stages))
	for _, stage := range stages {
		byID[stage.ID] = stage
	}

	return &StageConfig{ordered: stages, byID: byID}
}

// DefaultStages returns the standard guided-session flow. The graph is
// strictly linear: each stage allows only its successor, and Done is
// terminal.
func DefaultStages() *StageConfig {
	return NewStageConfig([]domain.WorkflowStage{
		{
			ID:          StagePrepare,
			Title:       "Prepare",
			Description: "Clear your desk, silence notifications, and pick today's focus blocks.",
			Order:       1,
			AllowedNext: []string{StageReview},
		},
		{
			ID:          StageReview,
			Title:       "Review",
			Description: "Work through the flashcards that are due today.",
			Order:       2,
			AllowedNext: []string{StagePractice},
		},
		{
			ID:          StagePractice,
			Title:       "Practice",
			Description: "Apply the material: exercises, past papers, or problem sets.",
			Order:       3,
			AllowedNext: []string{StageReflect},
		},
		{
			ID:          StageReflect,
			Title:       "Reflect",
			Description: "Note what stuck, what didn't, and what to revisit tomorrow.",
			Order:       4,
			AllowedNext: []string{StageDone},
		},
		{
			ID:          StageDone,
			Title:       "Done",
			Description: "Session complete. Nice work.",
			Order:       5,
			AllowedNext: []string{},
		},
	})
}

// Initial returns the first stage in the configured order.
func (c *StageConfig) Initial() domain.WorkflowStage {
	return c.ordered[0]
}

// Get looks up a stage by ID.
func (c *StageConfig) Get(id string) (domain.WorkflowStage, bool) {
	stage, ok := c.byID[id]
	return stage, ok
}

// Stages returns all stages in display order.
func (c *StageConfig) Stages() []domain.WorkflowStage {
	return c.ordered
}
