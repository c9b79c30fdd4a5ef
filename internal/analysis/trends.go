package analysis

import (
	"regexp"
	"sort"
)

var capitalizedWord = regexp.MustCompile(`\b[A-Z][a-z]{2,}\w*\b`)

// sentence-initial words that say nothing about the subject
var capitalizedStop = map[string]bool{
	"The": true, "This": true, "These": true, "That": true, "Our": true, "And": true,
	"For": true, "With": true, "From": true, "However": true, "Here": true, "Its": true,
	"Using": true, "Results": true, "Finally": true, "Furthermore": true, "Moreover": true,
	"Paper": true, "Towards": true, "Toward": true, "Based": true, "Via": true,
}

type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

type TrendsResult struct {
	ByYear     []YearCount    `json:"by_year"`
	Keywords   []KeywordCount `json:"keywords"`
	FirstYear  int            `json:"first_year,omitempty"`
	LatestYear int            `json:"latest_year,omitempty"`
	Undated    int            `json:"undated"`
}

// Trends counts documents per publication year (ascending) and the most
// frequent capitalized keywords.
func Trends(docs []Document, topKeywords int) TrendsResult {
	if topKeywords <= 0 {
		topKeywords = 5
	}
	years := map[int]int{}
	words := map[string]int{}
	res := TrendsResult{ByYear: []YearCount{}, Keywords: []KeywordCount{}}
	for _, d := range docs {
		if d.Year > 0 {
			years[d.Year]++
		} else {
			res.Undated++
		}
		for _, w := range capitalizedWord.FindAllString(d.Text, -1) {
			if !capitalizedStop[w] {
				words[w]++
			}
		}
	}
	for y, c := range years {
		res.ByYear = append(res.ByYear, YearCount{Year: y, Count: c})
	}
	sort.Slice(res.ByYear, func(i, j int) bool { return res.ByYear[i].Year < res.ByYear[j].Year })
	if len(res.ByYear) > 0 {
		res.FirstYear = res.ByYear[0].Year
		res.LatestYear = res.ByYear[len(res.ByYear)-1].Year
	}

	for w, c := range words {
		res.Keywords = append(res.Keywords, KeywordCount{Keyword: w, Count: c})
	}
	sort.Slice(res.Keywords, func(i, j int) bool {
		if res.Keywords[i].Count != res.Keywords[j].Count {
			return res.Keywords[i].Count > res.Keywords[j].Count
		}
		return res.Keywords[i].Keyword < res.Keywords[j].Keyword
	})
	if len(res.Keywords) > topKeywords {
		res.Keywords = res.Keywords[:topKeywords]
	}
	return res
}
