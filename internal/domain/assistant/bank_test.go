package assistant

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func faqBank(t *testing.T) *Bank {
	t.Helper()
	b, err := NewBank([]Entry{
		{ID: "q1", Question: "What does 'In Progress (on EPM)' mean?", Answer: TextAnswer{Text: "EPM answer"}},
		{ID: "q2", Question: "When can I download the consolidated reports?", Answer: TextAnswer{Text: "download answer"}},
		{ID: "q3", Question: "What is the difference between Completed and Closed?", Answer: TextAnswer{Text: "difference answer"}},
		{ID: "q_table", Question: "Net profit contribution by company", Answer: TableAnswer{
			Table:   Table{Columns: []string{"Company", "Net Profit"}, Rows: [][]interface{}{{"Tasco Auto JSC", 3200}}},
			Insight: "Auto leads",
			Charts:  []Chart{{Type: ChartDonut, Description: "share", Series: []Point{{Label: "Tasco Auto JSC", Value: 3200}}}},
		}},
	})
	require.NoError(t, err)
	return b
}

func TestBank_Match(t *testing.T) {
	b := faqBank(t)

	tests := []struct {
		name   string
		input  string
		wantID string
	}{
		{"input inside question", "EPM", "q1"},
		{"case insensitive", "epm", "q1"},
		{"question inside input", "Hi! What does 'In Progress (on EPM)' mean? Thanks", "q1"},
		{"first match wins", "what", "q1"},
		{"later entry", "download", "q2"},
		{"table entry", "PROFIT CONTRIBUTION", "q_table"},
		{"no match", "payroll schedule", ""},
		{"blank input", "   ", ""},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := b.Match(tt.input)
			if tt.wantID == "" {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.wantID, e.ID)
		})
	}
}

func TestBank_ReplyFallback(t *testing.T) {
	b := faqBank(t)

	a, matched := b.Reply("what is the weather")
	assert.False(t, matched)
	require.Equal(t, KindText, a.Kind())
	assert.Equal(t, FallbackText, a.Headline())
	assert.Equal(t, "I couldn't find a specific answer for that. Could you please try rephrasing or selecting one of the suggested questions below?", a.Headline())

	a, matched = b.Reply("Completed and Closed")
	assert.True(t, matched)
	assert.Equal(t, "difference answer", a.Headline())
}

func TestBank_ReplyKeepsVariantFields(t *testing.T) {
	a, ok := faqBank(t).Reply("net profit contribution")
	require.True(t, ok)

	table, isTable := a.(TableAnswer)
	require.True(t, isTable)
	assert.Equal(t, KindTable, table.Kind())
	assert.Equal(t, "Auto leads", table.Headline())
	assert.Len(t, table.Table.Rows, 1)
	require.Len(t, table.Charts, 1)
	assert.Equal(t, ChartDonut, table.Charts[0].Type)
}

func TestBank_Suggestions(t *testing.T) {
	got := faqBank(t).Suggestions()
	require.Len(t, got, 4)
	assert.Equal(t, "What does 'In Progress (on EPM)' mean?", got[0])
	assert.Equal(t, "Net profit contribution by company", got[3])
}

func TestNewBank_Rejects(t *testing.T) {
	_, err := NewBank([]Entry{
		{ID: "a", Question: "one", Answer: TextAnswer{Text: "x"}},
		{ID: "a", Question: "two", Answer: TextAnswer{Text: "y"}},
	})
	assert.ErrorIs(t, err, ErrDuplicateEntry)

	_, err = NewBank([]Entry{{ID: "b", Question: " ", Answer: TextAnswer{Text: "x"}}})
	assert.Error(t, err, "an empty question would match every input")

	_, err = NewBank([]Entry{{ID: "c", Question: "q"}})
	assert.Error(t, err)
}

func TestWrap_JSONCarriesKind(t *testing.T) {
	raw, err := json.Marshal(Wrap(SummaryAnswer{Text: "overview"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"summary","answer":{"text":"overview"}}`, string(raw))
}

func TestContext_IsValid(t *testing.T) {
	assert.True(t, ContextConsolidated.IsValid())
	assert.True(t, ContextManagement.IsValid())
	assert.False(t, Context("sales").IsValid())
}
