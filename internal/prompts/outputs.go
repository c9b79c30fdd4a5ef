package prompts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type SummaryOutput struct {
	Summary     string   `json:"summary"`
	KeyFindings []string `json:"key_findings"`
}

func (o *SummaryOutput) Validate() error {
	o.Summary = strings.TrimSpace(o.Summary)
	if o.Summary == "" {
		return fmt.Errorf("summary is empty")
	}
	o.KeyFindings = compact(o.KeyFindings)
	return nil
}

// PaperRef is the N of a "Paper N" label. Models sometimes echo the whole
// label, so "Paper 2", "2" and 2 all decode to 2.
type PaperRef int

func (p *PaperRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "paper"))
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("paper_ref: %q is not a paper number", s)
		}
		*p = PaperRef(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("paper_ref: %w", err)
	}
	*p = PaperRef(n)
	return nil
}

type EvidenceRef struct {
	PaperRef PaperRef `json:"paper_ref"`
	Text     string   `json:"text"`
}

type HypothesisOutput struct {
	HypothesisText     string        `json:"hypothesis_text"`
	Reasoning          string        `json:"reasoning"`
	ConfidenceScore    *Confidence   `json:"confidence_score"`
	SupportingEvidence []EvidenceRef `json:"supporting_evidence"`
}

func (o *HypothesisOutput) Validate() error {
	o.HypothesisText = strings.TrimSpace(o.HypothesisText)
	if o.HypothesisText == "" {
		return fmt.Errorf("hypothesis_text is empty")
	}
	if o.ConfidenceScore == nil {
		return fmt.Errorf("confidence_score is missing")
	}
	if o.SupportingEvidence == nil {
		o.SupportingEvidence = []EvidenceRef{}
	}
	return nil
}

type ExperimentVariables struct {
	Independent []string `json:"independent"`
	Dependent   []string `json:"dependent"`
}

type ExperimentOutput struct {
	Title            string              `json:"title"`
	Methodology      string              `json:"methodology"`
	Variables        ExperimentVariables `json:"variables"`
	Controls         string              `json:"controls"`
	ExpectedOutcomes string              `json:"expected_outcomes"`
	Limitations      string              `json:"limitations"`
}

// Confidence returns the decoded score; Validate guarantees it is set.
func (o *HypothesisOutput) Confidence() float64 {
	if o.ConfidenceScore == nil {
		return 0
	}
	return o.ConfidenceScore.Float()
}

func (o *ExperimentOutput) Validate() error {
	o.Title = strings.TrimSpace(o.Title)
	if o.Title == "" {
		return fmt.Errorf("title is empty")
	}
	o.Variables.Independent = compact(o.Variables.Independent)
	o.Variables.Dependent = compact(o.Variables.Dependent)
	return nil
}

type EvaluationOutput struct {
	OverallScore    *Confidence `json:"overall_score"`
	Strengths       []string    `json:"strengths"`
	Weaknesses      []string    `json:"weaknesses"`
	Recommendations []string    `json:"recommendations"`
}

func (o *EvaluationOutput) Validate() error {
	if o.OverallScore == nil {
		return fmt.Errorf("overall_score is missing")
	}
	o.Strengths = compact(o.Strengths)
	o.Weaknesses = compact(o.Weaknesses)
	o.Recommendations = compact(o.Recommendations)
	return nil
}

// Score returns the decoded overall score; Validate guarantees it is set.
func (o *EvaluationOutput) Score() float64 {
	if o.OverallScore == nil {
		return 0
	}
	return o.OverallScore.Float()
}

type Measurement struct {
	Variable   string `json:"variable"`
	Method     string `json:"method"`
	Instrument string `json:"instrument"`
	DataType   string `json:"data_type"`
	Units      string `json:"units"`
}

type MeasurementsOutput struct {
	Measurements              []Measurement `json:"measurements"`
	DataCollectionProcedures  string        `json:"data_collection_procedures"`
	ReliabilityConsiderations string        `json:"reliability_considerations"`
}

func (o *MeasurementsOutput) Validate() error {
	if o.Measurements == nil {
		o.Measurements = []Measurement{}
	}
	return nil
}

type ResearchGap struct {
	Title              string `json:"title"`
	Description        string `json:"description"`
	SuggestedDirection string `json:"suggested_direction"`
}

type ResearchGapsOutput struct {
	Gaps    []ResearchGap `json:"gaps"`
	Summary string        `json:"summary"`
}

func (o *ResearchGapsOutput) Validate() error {
	if len(o.Gaps) == 0 && strings.TrimSpace(o.Summary) == "" {
		return fmt.Errorf("no gaps and no summary")
	}
	if o.Gaps == nil {
		o.Gaps = []ResearchGap{}
	}
	return nil
}

// compact trims entries, drops blanks, and never returns nil.
func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
