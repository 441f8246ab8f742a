// Package catalog loads the seed data of the closing dashboard.
// The data is embedded in the binary as YAML and decoded once at startup.
package catalog

import (
	"embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/garyjia/closing-dashboard/internal/domain/assistant"
	"github.com/garyjia/closing-dashboard/internal/domain/entity"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Catalog is the immutable seed data. Repositories copy from it; nothing
// writes back.
type Catalog struct {
	BusinessUnits      []entity.BusinessUnit
	Tasks              []entity.BUTask
	Consolidated       []entity.ConsolidatedReport
	ValidationMessages []entity.ValidationMessage
	Overviews          map[string]entity.ManagementOverview
	Banks              map[assistant.Context]*assistant.Bank

	template reportTemplate
}

type reportTemplateEntry struct {
	Code              string                   `yaml:"code"`
	Name              string                   `yaml:"name"`
	Type              entity.ReportType        `yaml:"type"`
	Deadline          entity.Date              `yaml:"deadline"`
	ValidationSummary entity.ValidationSummary `yaml:"validation_summary"`
	Metadata          entity.ReportMetadata    `yaml:"metadata"`
}

type reportTemplate struct {
	Reports            []reportTemplateEntry      `yaml:"reports"`
	StatusCycle        []entity.ReportStatus      `yaml:"status_cycle"`
	ReviewerCycle      []string                   `yaml:"reviewer_cycle"`
	SubmissionDate     entity.Date                `yaml:"submission_date"`
	FirstViewDate      entity.Date                `yaml:"first_view_date"`
	DecisionDate       entity.Date                `yaml:"decision_date"`
	RejectReason       string                     `yaml:"reject_reason"`
	ValidationMessages []entity.ValidationMessage `yaml:"validation_messages"`
}

type businessUnitFile struct {
	BusinessUnits []entity.BusinessUnit `yaml:"business_units"`
}

type taskRecord struct {
	Name           string            `yaml:"name"`
	Owner          string            `yaml:"owner"`
	Status         entity.TaskStatus `yaml:"status"`
	DueDate        entity.Date       `yaml:"due_date"`
	SLA            int               `yaml:"sla"`
	Reason         string            `yaml:"reason"`
	ConfirmFailure string            `yaml:"confirm_failure"`
}

type taskFile struct {
	Tasks []taskRecord `yaml:"tasks"`
}

type consolidatedFile struct {
	Reports []entity.ConsolidatedReport `yaml:"consolidated_reports"`
}

type managementFile struct {
	Overviews []entity.ManagementOverview `yaml:"overviews"`
}

// Load decodes the embedded seed data
func Load() (*Catalog, error) {
	c := &Catalog{}

	var bus businessUnitFile
	if err := decode("business_units.yaml", &bus); err != nil {
		return nil, err
	}
	c.BusinessUnits = bus.BusinessUnits

	if err := decode("report_template.yaml", &c.template); err != nil {
		return nil, err
	}
	if len(c.template.StatusCycle) == 0 || len(c.template.ReviewerCycle) == 0 {
		return nil, fmt.Errorf("report template needs a status and a reviewer cycle")
	}
	c.ValidationMessages = c.template.ValidationMessages

	var tasks taskFile
	if err := decode("tasks.yaml", &tasks); err != nil {
		return nil, err
	}
	c.Tasks = make([]entity.BUTask, len(tasks.Tasks))
	for i, t := range tasks.Tasks {
		if !t.Status.IsValid() {
			return nil, fmt.Errorf("task %d has unknown status %q", i, t.Status)
		}
		c.Tasks[i] = entity.BUTask{
			Index:          i,
			Name:           t.Name,
			Owner:          t.Owner,
			Status:         t.Status,
			DueDate:        t.DueDate,
			SLA:            t.SLA,
			Reason:         t.Reason,
			ConfirmFailure: t.ConfirmFailure,
		}
	}

	var consolidated consolidatedFile
	if err := decode("consolidated.yaml", &consolidated); err != nil {
		return nil, err
	}
	c.Consolidated = consolidated.Reports

	var management managementFile
	if err := decode("management.yaml", &management); err != nil {
		return nil, err
	}
	c.Overviews = make(map[string]entity.ManagementOverview, len(management.Overviews))
	for _, o := range management.Overviews {
		c.Overviews[o.Key] = o
	}
	if _, ok := c.Overviews[entity.DefaultOverviewKey]; !ok {
		return nil, fmt.Errorf("management overviews lack the default %s", entity.DefaultOverviewKey)
	}

	banks, err := loadBanks()
	if err != nil {
		return nil, err
	}
	c.Banks = banks

	return c, nil
}

func decode(name string, out interface{}) error {
	raw, err := dataFS.ReadFile("data/" + name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}

// ReportsFor builds the initial report list of a BU from the template.
// The n-th report takes the n-th entry of the status and reviewer cycles.
func (c *Catalog) ReportsFor(buID string) []entity.Report {
	t := c.template
	reports := make([]entity.Report, len(t.Reports))

	for i, base := range t.Reports {
		status := t.StatusCycle[i%len(t.StatusCycle)]
		r := entity.Report{
			ID:                fmt.Sprintf("%s-%s", buID, base.Code),
			BUID:              buID,
			Code:              base.Code,
			Name:              base.Name,
			Type:              base.Type,
			Status:            status,
			Deadline:          base.Deadline,
			ValidationSummary: base.ValidationSummary,
			Metadata:          base.Metadata,
		}

		if reviewer := t.ReviewerCycle[i%len(t.ReviewerCycle)]; reviewer != "" {
			r.HOReviewer = &reviewer
		}
		if status != entity.ReportStatusNotSent {
			d := t.SubmissionDate
			r.BUSubmissionDate = &d
		}
		switch status {
		case entity.ReportStatusInReview, entity.ReportStatusApproved, entity.ReportStatusRejected:
			d := t.FirstViewDate
			r.HOFirstViewDate = &d
		}
		if status == entity.ReportStatusApproved || status == entity.ReportStatusRejected {
			decided := t.DecisionDate.Time().In(time.UTC)
			r.DecisionDate = &decided
		}
		if status == entity.ReportStatusRejected {
			reason := t.RejectReason
			r.RejectReason = &reason
		}

		reports[i] = r
	}
	return reports
}
