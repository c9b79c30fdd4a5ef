package prompts

// Input is a superset of all fields any prompt might need.
// Missing fields render empty strings (templates use missingkey=zero).
type Input struct {
	ProjectTitle string

	// Single paper
	PaperTitle    string
	PaperAuthors  string
	PaperAbstract string

	// Numbered "Paper N" blocks
	PapersContext string

	// Hypotheses
	ResearchQuestion  string
	HypothesisText    string
	HypothesesContext string

	// Experiments
	ExperimentContext string
	CriteriaCSV       string

	// Chat
	AgentType   string
	ChatHistory string
	Message     string
}
