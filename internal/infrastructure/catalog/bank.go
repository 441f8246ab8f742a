package catalog

import (
	"fmt"

	"github.com/garyjia/closing-dashboard/internal/domain/assistant"
)

type bankRecord struct {
	ID       string               `yaml:"id"`
	Topic    string               `yaml:"topic"`
	Question string               `yaml:"question"`
	Kind     assistant.AnswerKind `yaml:"kind"`
	Text     string               `yaml:"text"`
	Table    *assistant.Table     `yaml:"table"`
	Tables   []assistant.Table    `yaml:"tables"`
	Insight  string               `yaml:"insight"`
	Charts   []assistant.Chart    `yaml:"charts"`
}

type bankFile struct {
	Banks map[assistant.Context][]bankRecord `yaml:"banks"`
}

// answer converts the flat YAML record into its answer variant
func (r bankRecord) answer() (assistant.Answer, error) {
	switch r.Kind {
	case assistant.KindText:
		return assistant.TextAnswer{Text: r.Text, Charts: r.Charts}, nil
	case assistant.KindSummary:
		return assistant.SummaryAnswer{Text: r.Text, Charts: r.Charts}, nil
	case assistant.KindTable:
		if r.Table == nil {
			return nil, fmt.Errorf("entry %s: table answer without table", r.ID)
		}
		return assistant.TableAnswer{Text: r.Text, Table: *r.Table, Insight: r.Insight, Charts: r.Charts}, nil
	case assistant.KindMultiTable:
		if len(r.Tables) == 0 {
			return nil, fmt.Errorf("entry %s: multi-table answer without tables", r.ID)
		}
		return assistant.MultiTableAnswer{Text: r.Text, Tables: r.Tables, Insight: r.Insight, Charts: r.Charts}, nil
	default:
		return nil, fmt.Errorf("entry %s: unknown answer kind %q", r.ID, r.Kind)
	}
}

func loadBanks() (map[assistant.Context]*assistant.Bank, error) {
	var f bankFile
	if err := decode("chat.yaml", &f); err != nil {
		return nil, err
	}

	banks := make(map[assistant.Context]*assistant.Bank, len(f.Banks))
	for ctx, records := range f.Banks {
		if !ctx.IsValid() {
			return nil, fmt.Errorf("unknown chat context %q", ctx)
		}
		entries := make([]assistant.Entry, 0, len(records))
		for _, r := range records {
			a, err := r.answer()
			if err != nil {
				return nil, err
			}
			entries = append(entries, assistant.Entry{ID: r.ID, Topic: r.Topic, Question: r.Question, Answer: a})
		}
		bank, err := assistant.NewBank(entries)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s bank: %w", ctx, err)
		}
		banks[ctx] = bank
	}
	return banks, nil
}
