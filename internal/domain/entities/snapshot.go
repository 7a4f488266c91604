package entities

// FeedbackStatus is the outcome shown after a guess.
type FeedbackStatus string

const (
	FeedbackNone      FeedbackStatus = ""
	FeedbackCorrect   FeedbackStatus = "correct"
	FeedbackIncorrect FeedbackStatus = "incorrect"
)

// Feedback is the transient message displayed after a guess.
type Feedback struct {
	Status  FeedbackStatus `json:"status"`
	Message string         `json:"message"`
}

// Active reports whether a feedback message is currently displayed.
func (f Feedback) Active() bool {
	return f.Status != FeedbackNone
}

// Phase is the coarse state of a game session.
type Phase string

const (
	PhasePlaying       Phase = "playing"
	PhaseLevelComplete Phase = "level_complete"
	PhaseGameOver      Phase = "game_over"
)

// Snapshot is an immutable copy of the session state handed to presentation layers
// after every mutation.
type Snapshot struct {
	Generation            uint64    `json:"generation"` // bumped on every restart
	Phase                 Phase     `json:"phase"`
	Question              *Landmark `json:"question,omitempty"` // nil once the game is over
	QuestionIndex         int       `json:"questionIndex"`
	Score                 int       `json:"score"`
	Level                 int       `json:"level"` // zero-based
	LevelName             string    `json:"levelName"`
	QuestionNumberInLevel int       `json:"questionNumberInLevel"` // one-based
	TotalQuestionsInLevel int       `json:"totalQuestionsInLevel"`
	RevealedCountries     []string  `json:"revealedCountries"`
	Feedback              Feedback  `json:"feedback"`
	HintBudget            int       `json:"hintBudget"`
	ActiveHint            *Hint     `json:"activeHint,omitempty"`
	Notice                string    `json:"notice,omitempty"` // informational game-over message
	DatasetSize           int       `json:"datasetSize"`
}

// ShowFeedback reports whether feedback should be rendered; an active hint suppresses it.
func (s Snapshot) ShowFeedback() bool {
	return s.Feedback.Active() && s.ActiveHint == nil
}
