package services

import (
	"strings"

	"github.com/yungbote/aura-backend/internal/analysis"
	types "github.com/yungbote/aura-backend/internal/domain"
)

type intentRule struct {
	agent   string
	stems   []string
	phrases []string
}

// Order breaks ties between equally scored intents.
var intentRules = []intentRule{
	{
		agent:   types.AgentExperiment,
		stems:   []string{"experiment", "methodolog", "protocol", "measur", "variable", "control", "sample"},
		phrases: []string{"study design", "design a study", "test this"},
	},
	{
		agent:   types.AgentHypothesis,
		stems:   []string{"hypothes", "conjectur", "predict"},
		phrases: []string{"research question", "what if"},
	},
	{
		agent:   types.AgentSummarization,
		stems:   []string{"summar", "tldr", "overview", "recap", "digest"},
		phrases: []string{"key findings", "main points", "tl;dr"},
	},
	{
		agent:   types.AgentAnalysis,
		stems:   []string{"analy", "cluster", "trend", "topic", "sentiment", "compar", "similar", "gap"},
		phrases: []string{"research gaps"},
	},
	{
		agent:   types.AgentRetrieval,
		stems:   []string{"search", "find", "retriev", "literature", "arxiv", "scholar", "citation", "reference"},
		phrases: []string{"look up", "papers on", "papers about", "related work"},
	},
}

// ClassifyIntent picks the agent a chat message is addressed to by keyword
// matching. Messages matching nothing go to the general agent.
func ClassifyIntent(message string) string {
	lower := strings.ToLower(message)
	tokens := analysis.Tokens(message)

	best, bestScore := types.AgentGeneral, 0
	for _, rule := range intentRules {
		score := 0
		for _, tok := range tokens {
			for _, stem := range rule.stems {
				if strings.HasPrefix(tok, stem) {
					score++
					break
				}
			}
		}
		for _, ph := range rule.phrases {
			if strings.Contains(lower, ph) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = rule.agent, score
		}
	}
	return best
}
