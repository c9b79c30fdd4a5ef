package research

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	SourceArxiv           = "arxiv"
	SourceSemanticScholar = "semantic_scholar"
	SourceManual          = "manual"
)

// ValidSource reports whether s is a known paper origin.
func ValidSource(s string) bool {
	switch s {
	case SourceArxiv, SourceSemanticScholar, SourceManual:
		return true
	}
	return false
}

// PaperMetadata holds source-specific extras that have no column of their own.
type PaperMetadata struct {
	CitationCount  int      `json:"citation_count,omitempty"`
	ReferenceCount int      `json:"reference_count,omitempty"`
	Venue          string   `json:"venue,omitempty"`
	Categories     []string `json:"categories,omitempty"`
	DOI            string   `json:"doi,omitempty"`
}

type Paper struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	QueryID   *uuid.UUID `gorm:"type:uuid;index" json:"query_id,omitempty"`

	Title         string                            `gorm:"column:title;not null" json:"title"`
	Authors       datatypes.JSONSlice[string]       `gorm:"column:authors;not null" json:"authors"`
	Abstract      string                            `gorm:"column:abstract;type:text;not null;default:''" json:"abstract"`
	URL           string                            `gorm:"column:url;not null;default:''" json:"url"`
	PDFURL        string                            `gorm:"column:pdf_url;not null;default:''" json:"pdf_url"`
	PublishedDate *time.Time                        `gorm:"column:published_date" json:"published_date,omitempty"`
	Source        string                            `gorm:"column:source;not null;default:'manual';index" json:"source"`
	ExternalID    string                            `gorm:"column:external_id;not null;default:''" json:"external_id"`
	Metadata      datatypes.JSONType[PaperMetadata] `gorm:"column:metadata;not null" json:"metadata"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`

	Summary *Summary `gorm:"foreignKey:PaperID;references:ID" json:"summary,omitempty"`
}

func (Paper) TableName() string { return "paper" }

func (p *Paper) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Authors == nil {
		p.Authors = datatypes.JSONSlice[string]{}
	}
	if p.Source == "" {
		p.Source = SourceManual
	}
	return nil
}

// Text is the body used for analysis: title, abstract and any summary.
func (p *Paper) Text() string {
	out := p.Title
	if p.Abstract != "" {
		out += ". " + p.Abstract
	}
	if p.Summary != nil && p.Summary.SummaryText != "" {
		out += " " + p.Summary.SummaryText
	}
	return out
}
