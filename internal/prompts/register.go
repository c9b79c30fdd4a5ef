package prompts

func registerAll(r *Registry) {
	// ---------- Papers ----------

	r.RegisterSpec(Spec{
		Name:       PromptPaperSummary,
		Version:    1,
		SchemaName: "paper_summary",
		Schema:     PaperSummarySchema,
		System: `
You summarize scientific papers for researchers.
Stay faithful to the abstract; do not add results it does not state.
Return JSON only.`,
		User: `
Title: {{.PaperTitle}}
Authors: {{.PaperAuthors}}

Abstract:
{{.PaperAbstract}}

Output rules:
- summary: 3-6 sentences in plain language covering problem, method and result.
- key_findings: 3-6 short bullet-style findings, each a single sentence.`,
		Validators: []Validator{
			RequireNonEmpty("PaperAbstract", func(in Input) string { return in.PaperAbstract }),
		},
	})

	// ---------- Hypotheses + experiments ----------

	r.RegisterSpec(Spec{
		Name:       PromptHypothesisGenerate,
		Version:    1,
		SchemaName: "hypothesis_generate",
		Schema:     HypothesisSchema,
		System: `
You generate well-formed, testable scientific hypotheses from a research question and a set of papers.
A hypothesis names the expected relationship and the population or setting it applies to.
Return JSON only.`,
		User: `
Research question:
{{.ResearchQuestion}}

Papers:
{{.PapersContext}}

Output rules:
- hypothesis_text: one falsifiable statement.
- reasoning: 2-5 sentences linking the hypothesis to the papers.
- confidence_score: a number between 0 and 1.
- supporting_evidence: for each paper you rely on, paper_ref is its number N from "Paper N" and text is the supporting passage. Empty list if no paper supports it.`,
		Validators: []Validator{
			RequireNonEmpty("ResearchQuestion", func(in Input) string { return in.ResearchQuestion }),
		},
	})

	r.RegisterSpec(Spec{
		Name:       PromptExperimentDesign,
		Version:    1,
		SchemaName: "experiment_design",
		Schema:     ExperimentDesignSchema,
		System: `
You design scientific experiments that test a given hypothesis.
Prefer designs a small research team could run.
Return JSON only.`,
		User: `
Hypothesis:
{{.HypothesisText}}

Relevant papers:
{{.PapersContext}}

Output rules:
- title: short experiment title.
- methodology: step-by-step procedure, including sampling and analysis.
- variables.independent / variables.dependent: variable names.
- controls: what is held constant and how.
- expected_outcomes: what result would support or refute the hypothesis.
- limitations: threats to validity.`,
		Validators: []Validator{
			RequireNonEmpty("HypothesisText", func(in Input) string { return in.HypothesisText }),
		},
	})

	r.RegisterSpec(Spec{
		Name:       PromptExperimentEvaluate,
		Version:    1,
		SchemaName: "experiment_evaluate",
		Schema:     ExperimentEvaluationSchema,
		System: `
You critically review experiment designs.
Be specific and actionable.
Return JSON only.`,
		User: `
Evaluate the experiment design below against these criteria: {{.CriteriaCSV}}

{{.ExperimentContext}}

Output rules:
- overall_score: a number between 0 and 1.
- strengths, weaknesses, recommendations: short sentences.`,
		Validators: []Validator{
			RequireNonEmpty("ExperimentContext", func(in Input) string { return in.ExperimentContext }),
			RequireNonEmpty("CriteriaCSV", func(in Input) string { return in.CriteriaCSV }),
		},
	})

	r.RegisterSpec(Spec{
		Name:       PromptExperimentMeasurements,
		Version:    1,
		SchemaName: "experiment_measurements",
		Schema:     MeasurementsSchema,
		System: `
You suggest measurements, instruments and data collection methods for experiments.
Return JSON only.`,
		User: `
{{.ExperimentContext}}

Output rules:
- measurements: one entry per dependent variable at minimum; units is empty when not applicable.
- data_collection_procedures: how and when data is gathered.
- reliability_considerations: how to keep measurements consistent.`,
		Validators: []Validator{
			RequireNonEmpty("ExperimentContext", func(in Input) string { return in.ExperimentContext }),
		},
	})

	// ---------- Analysis ----------

	r.RegisterSpec(Spec{
		Name:       PromptResearchGaps,
		Version:    1,
		SchemaName: "research_gaps",
		Schema:     ResearchGapsSchema,
		System: `
You identify open research gaps across a collection of papers.
Only report gaps the papers leave unaddressed; do not restate their contributions.
Return JSON only.`,
		User: `
Project: {{.ProjectTitle}}

Papers:
{{.PapersContext}}

Output rules:
- gaps: 2-6 entries with a short title, a description and a suggested_direction.
- summary: 2-4 sentences on the overall state of the literature.`,
		Validators: []Validator{
			RequireNonEmpty("PapersContext", func(in Input) string { return in.PapersContext }),
		},
	})

	// ---------- Chat ----------

	r.RegisterSpec(Spec{
		Name:    PromptChatReply,
		Version: 1,
		Format:  FormatText,
		System: `
You are the {{.AgentType}} assistant for the research project "{{.ProjectTitle}}".
Answer using the project context below when it is relevant, and say so when it is not enough.

Papers:
{{.PapersContext}}

Hypotheses:
{{.HypothesesContext}}`,
		User: `
Conversation so far:
{{.ChatHistory}}

User: {{.Message}}`,
		Validators: []Validator{
			RequireNonEmpty("Message", func(in Input) string { return in.Message }),
		},
	})
}
