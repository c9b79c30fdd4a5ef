package prompts

type PromptName string

const (
	// Papers
	PromptPaperSummary PromptName = "paper_summary"

	// Hypotheses + experiments
	PromptHypothesisGenerate     PromptName = "hypothesis_generate"
	PromptExperimentDesign       PromptName = "experiment_design"
	PromptExperimentEvaluate     PromptName = "experiment_evaluate"
	PromptExperimentMeasurements PromptName = "experiment_measurements"

	// Analysis
	PromptResearchGaps PromptName = "research_gaps"

	// Chat (free text, no schema)
	PromptChatReply PromptName = "chat_reply"
)
