package analysis

import (
	"math"
	"sort"
	"strings"
)

const Unclassified = "Unclassified"

type researchField struct {
	Name     string
	Keywords []string
}

// Fixed label set. Order breaks ties.
var researchFields = []researchField{
	{"Computer Science", []string{"machine learning", "artificial intelligence", "deep learning", "neural network", "computer vision", "natural language processing", "algorithm", "data mining", "pattern recognition"}},
	{"Biology", []string{"gene", "protein", "cell", "molecular", "dna", "rna", "genome", "genetic", "organism", "physiology", "evolution"}},
	{"Physics", []string{"quantum", "relativity", "particle", "theoretical", "astrophysics", "cosmology", "mechanics", "thermodynamics", "string theory"}},
	{"Medicine", []string{"clinical", "patient", "disease", "treatment", "therapy", "drug", "diagnosis", "medical", "healthcare", "pathology"}},
	{"Psychology", []string{"cognitive", "behavior", "mental", "brain", "perception", "memory", "emotion", "psychological", "consciousness"}},
	{"Economics", []string{"market", "economic", "finance", "investment", "monetary", "fiscal", "trade", "business", "macroeconomic"}},
}

type TopicResult struct {
	Topic      string             `json:"topic"`
	Confidence float64            `json:"confidence"`
	AllTopics  map[string]float64 `json:"all_topics"`
}

// ClassifyTopic scores text against each field's keyword list (substring
// match, one point per keyword present). Confidence is the winner's share of
// all matches.
func ClassifyTopic(text string) TopicResult {
	lower := Normalize(text)
	scores := make([]int, len(researchFields))
	total := 0
	for i, f := range researchFields {
		for _, kw := range f.Keywords {
			if strings.Contains(lower, kw) {
				scores[i]++
			}
		}
		total += scores[i]
	}
	if total == 0 {
		return TopicResult{Topic: Unclassified, Confidence: 0, AllTopics: map[string]float64{}}
	}

	best := 0
	all := make(map[string]float64)
	for i, s := range scores {
		if s > scores[best] {
			best = i
		}
		if s > 0 {
			all[researchFields[i].Name] = round2(float64(s) / float64(total))
		}
	}
	return TopicResult{
		Topic:      researchFields[best].Name,
		Confidence: round2(float64(scores[best]) / float64(total)),
		AllTopics:  all,
	}
}

type TopicShare struct {
	Topic    string   `json:"topic"`
	Count    int      `json:"count"`
	Share    float64  `json:"share"`
	PaperIDs []string `json:"paper_ids"`
}

// TopicDistribution classifies each document and aggregates the winners,
// largest share first.
func TopicDistribution(docs []Document) []TopicShare {
	byTopic := map[string]*TopicShare{}
	for _, d := range docs {
		topic := ClassifyTopic(d.Text).Topic
		ts := byTopic[topic]
		if ts == nil {
			ts = &TopicShare{Topic: topic, PaperIDs: []string{}}
			byTopic[topic] = ts
		}
		ts.Count++
		ts.PaperIDs = append(ts.PaperIDs, d.ID)
	}
	out := make([]TopicShare, 0, len(byTopic))
	for _, ts := range byTopic {
		ts.Share = round2(float64(ts.Count) / float64(len(docs)))
		out = append(out, *ts)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Topic < out[j].Topic
	})
	return out
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
