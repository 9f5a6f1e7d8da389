package model

type ScoreMetadata struct {
	Title         string `json:"title,omitempty"`
	Key           string `json:"key"`
	KeySource     string `json:"key_source,omitempty"`
	TimeSignature string `json:"time_signature"`
	Measures      int    `json:"measures_analyzed"`
	Voices        int    `json:"total_voices"`
}

type IssueCount struct {
	Type     ErrorType `json:"type"`
	Count    int       `json:"count"`
	Severity Severity  `json:"severity"`
}

type Statistics struct {
	ByType       map[ErrorType]int `json:"by_type"`
	BySeverity   map[Severity]int  `json:"by_severity"`
	CommonIssues []IssueCount      `json:"common_issues"`
	MidiInfo     *MidiInfo         `json:"midi_info,omitempty"`
}

type AnalysisReport struct {
	Filename    string         `json:"filename,omitempty"`
	Metadata    ScoreMetadata  `json:"metadata"`
	TotalErrors int            `json:"total_errors"`
	Errors      []HarmonyError `json:"errors"`
	Statistics  Statistics     `json:"statistics"`
	Partial     bool           `json:"partial"`
	Skipped     []Skip         `json:"skipped,omitempty"`
}

const (
	FailureInput      = "input"
	FailureValidation = "validation"
	FailureInternal   = "internal"
)

type Failure struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// BatchResult carries either a report or a failure for one input file.
type BatchResult struct {
	Filename string          `json:"filename"`
	Report   *AnalysisReport `json:"report,omitempty"`
	Failure  *Failure        `json:"failure,omitempty"`
}

func (r BatchResult) Failed() bool {
	return r.Failure != nil
}

type FileNumToScorePath = map[uint32]string
