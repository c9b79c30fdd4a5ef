package prompts

func PaperSummarySchema() map[string]any {
	return Object(map[string]any{
		"summary":      StringSchema(),
		"key_findings": StringArraySchema(),
	})
}

func HypothesisSchema() map[string]any {
	return Object(map[string]any{
		"hypothesis_text":  StringSchema(),
		"reasoning":        StringSchema(),
		"confidence_score": NumberSchema(),
		"supporting_evidence": ArrayOf(Object(map[string]any{
			"paper_ref": IntSchema(),
			"text":      StringSchema(),
		})),
	})
}

func VariablesSchema() map[string]any {
	return Object(map[string]any{
		"independent": StringArraySchema(),
		"dependent":   StringArraySchema(),
	})
}

func ExperimentDesignSchema() map[string]any {
	return Object(map[string]any{
		"title":             StringSchema(),
		"methodology":       StringSchema(),
		"variables":         VariablesSchema(),
		"controls":          StringSchema(),
		"expected_outcomes": StringSchema(),
		"limitations":       StringSchema(),
	})
}

func ExperimentEvaluationSchema() map[string]any {
	return Object(map[string]any{
		"overall_score":   NumberSchema(),
		"strengths":       StringArraySchema(),
		"weaknesses":      StringArraySchema(),
		"recommendations": StringArraySchema(),
	})
}

func MeasurementsSchema() map[string]any {
	return Object(map[string]any{
		"measurements": ArrayOf(Object(map[string]any{
			"variable":   StringSchema(),
			"method":     StringSchema(),
			"instrument": StringSchema(),
			"data_type":  EnumSchema("continuous", "categorical", "binary", "ordinal", "text"),
			"units":      StringSchema(),
		})),
		"data_collection_procedures": StringSchema(),
		"reliability_considerations": StringSchema(),
	})
}

func ResearchGapsSchema() map[string]any {
	return Object(map[string]any{
		"gaps": ArrayOf(Object(map[string]any{
			"title":               StringSchema(),
			"description":         StringSchema(),
			"suggested_direction": StringSchema(),
		})),
		"summary": StringSchema(),
	})
}
