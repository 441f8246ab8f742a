package assistant

// AnswerKind discriminates the Answer variants
type AnswerKind string

const (
	KindText       AnswerKind = "text"
	KindTable      AnswerKind = "table"
	KindMultiTable AnswerKind = "multi-table"
	KindSummary    AnswerKind = "summary"
)

// IsValid reports whether k is a known answer kind
func (k AnswerKind) IsValid() bool {
	switch k {
	case KindText, KindTable, KindMultiTable, KindSummary:
		return true
	}
	return false
}

// Answer is the payload of a bank entry. The concrete type is one of
// TextAnswer, TableAnswer, MultiTableAnswer or SummaryAnswer.
type Answer interface {
	Kind() AnswerKind
	// Headline is the text shown in the chat bubble
	Headline() string
}

// ChartType is the suggested visualization
type ChartType string

const (
	ChartBar   ChartType = "bar"
	ChartLine  ChartType = "line"
	ChartPie   ChartType = "pie"
	ChartDonut ChartType = "donut"
)

// Point is one labelled value of a chart series
type Point struct {
	Label string  `json:"label" yaml:"label"`
	Value float64 `json:"value" yaml:"value"`
}

// Chart is a chart suggestion with its inline data
type Chart struct {
	Type        ChartType `json:"type" yaml:"type"`
	Description string    `json:"description" yaml:"description"`
	XAxis       string    `json:"x_axis,omitempty" yaml:"x_axis"`
	YAxis       string    `json:"y_axis,omitempty" yaml:"y_axis"`
	Highlight   string    `json:"highlight,omitempty" yaml:"highlight"`
	Threshold   string    `json:"threshold,omitempty" yaml:"threshold"`
	Sort        string    `json:"sort,omitempty" yaml:"sort"`
	Series      []Point   `json:"series,omitempty" yaml:"series"`
}

// Table is tabular answer data. Cells hold strings or numbers.
type Table struct {
	Title   string          `json:"title,omitempty" yaml:"title"`
	Columns []string        `json:"columns" yaml:"columns"`
	Rows    [][]interface{} `json:"rows" yaml:"rows"`
}

// TextAnswer is a plain reply, optionally illustrated with charts
type TextAnswer struct {
	Text   string  `json:"text"`
	Charts []Chart `json:"charts,omitempty"`
}

func (TextAnswer) Kind() AnswerKind   { return KindText }
func (a TextAnswer) Headline() string { return a.Text }

// TableAnswer carries one table and an optional insight note
type TableAnswer struct {
	Text    string  `json:"text,omitempty"`
	Table   Table   `json:"table"`
	Insight string  `json:"insight,omitempty"`
	Charts  []Chart `json:"charts,omitempty"`
}

func (TableAnswer) Kind() AnswerKind { return KindTable }

func (a TableAnswer) Headline() string {
	if a.Text != "" {
		return a.Text
	}
	return a.Insight
}

// MultiTableAnswer carries several titled tables
type MultiTableAnswer struct {
	Text    string  `json:"text,omitempty"`
	Tables  []Table `json:"tables"`
	Insight string  `json:"insight,omitempty"`
	Charts  []Chart `json:"charts,omitempty"`
}

func (MultiTableAnswer) Kind() AnswerKind { return KindMultiTable }

func (a MultiTableAnswer) Headline() string {
	if a.Text != "" {
		return a.Text
	}
	return a.Insight
}

// SummaryAnswer is a narrative overview with supporting charts
type SummaryAnswer struct {
	Text   string  `json:"text"`
	Charts []Chart `json:"charts,omitempty"`
}

func (SummaryAnswer) Kind() AnswerKind   { return KindSummary }
func (a SummaryAnswer) Headline() string { return a.Text }

// Envelope is the JSON shape of an answer with its kind spelled out
type Envelope struct {
	Kind   AnswerKind `json:"kind"`
	Answer Answer     `json:"answer"`
}

// Wrap pairs an answer with its kind for serialization
func Wrap(a Answer) Envelope {
	return Envelope{Kind: a.Kind(), Answer: a}
}
