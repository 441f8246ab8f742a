package service

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/xuri/excelize/v2"

	"github.com/garyjia/closing-dashboard/internal/application/port"
	"github.com/garyjia/closing-dashboard/internal/application/view"
	"github.com/garyjia/closing-dashboard/internal/domain/entity"
)

// XLSXContentType is the media type of generated workbooks
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Export is a generated file
type Export struct {
	FileName string
	Content  []byte
}

// ExportService builds Excel workbooks of consolidations and tasks
type ExportService interface {
	ConsolidatedWorkbook(ctx context.Context, id string) (*Export, error)
	TaskWorkbook(ctx context.Context) (*Export, error)
	// SaveConsolidated writes the workbook of a period to file storage.
	// A closed period that is already saved is kept unless overwrite is set.
	SaveConsolidated(ctx context.Context, id string, overwrite bool) (*SavedFile, error)
	// SaveTasks writes today's task workbook to file storage
	SaveTasks(ctx context.Context) (*SavedFile, error)
}

// SavedFile is a workbook in file storage
type SavedFile struct {
	Path     string
	FullPath string
	Kept     bool
}

type exportServiceImpl struct {
	consolidatedRepo port.ConsolidatedRepository
	buRepo           port.BusinessUnitRepository
	taskRepo         port.TaskRepository
	storage          port.FileStorage
	clock            port.Clock
	period           Period
	companyName      string
	logger           Logger
}

// NewExportService creates a new ExportService
func NewExportService(
	consolidatedRepo port.ConsolidatedRepository,
	buRepo port.BusinessUnitRepository,
	taskRepo port.TaskRepository,
	storage port.FileStorage,
	clock port.Clock,
	period Period,
	companyName string,
	logger Logger,
) ExportService {
	return &exportServiceImpl{
		consolidatedRepo: consolidatedRepo,
		buRepo:           buRepo,
		taskRepo:         taskRepo,
		storage:          storage,
		clock:            clock,
		period:           period,
		companyName:      companyName,
		logger:           logger,
	}
}

// ConsolidatedWorkbook builds the workbook of a completed or closed period
func (s *exportServiceImpl) ConsolidatedWorkbook(ctx context.Context, id string) (*Export, error) {
	report, err := s.consolidatedRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !report.Downloadable() {
		return nil, fmt.Errorf("%w: %s is %s", entity.ErrNotDownloadable, report.Period, report.Status.Label())
	}

	units, err := s.buRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list business units: %w", err)
	}
	if s.period.Locked(report.Year) {
		for i := range units {
			units[i] = units[i].AsLocked()
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	w := sheetWriter{f: f, sheet: "Summary"}
	if err := f.SetSheetName("Sheet1", w.sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	approval := ""
	if report.FinalApprovalDate != nil {
		approval = report.FinalApprovalDate.String()
	}
	summary := view.SummarizeBusinessUnits(units)

	w.row(1, "Company", s.companyName)
	w.row(2, "Period", report.Period)
	w.row(3, "Type", string(report.Type))
	w.row(4, "Status", report.Status.Label())
	w.row(5, "Closing Date", report.ClosingDate.String())
	w.row(6, "Final Approval Date", approval)
	w.row(7, "Business Units", summary.Total)
	w.row(8, "Completed", summary.Completed)
	w.row(9, "Overall Progress (%)", summary.OverallProgress)
	w.row(10, "Generated At", s.clock.Now().Format("2006-01-02 15:04:05"))

	bw := sheetWriter{f: f, sheet: "Business Units"}
	if _, err := f.NewSheet(bw.sheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	bw.row(1, "Code", "Name", "Region", "Total Reports", "Submitted", "Approved", "Completion (%)", "Status")
	for i, bu := range units {
		bw.row(i+2, bu.Code, bu.Name, bu.Region, bu.TotalReports, bu.SubmittedReports,
			bu.ApprovedReports, bu.CompletionPercentage, bu.OverallStatus.Label())
	}

	if err := firstError(w.err, bw.err); err != nil {
		return nil, err
	}
	return s.write(f, workbookName(report))
}

func workbookName(r *entity.ConsolidatedReport) string {
	return r.Period + ".xlsx"
}

// TaskWorkbook builds the BU task list with today's SLA
func (s *exportServiceImpl) TaskWorkbook(ctx context.Context) (*Export, error) {
	tasks, err := s.taskRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	tasks = view.WithSLA(tasks, s.clock.Now())

	f := excelize.NewFile()
	defer f.Close()

	w := sheetWriter{f: f, sheet: "Tasks"}
	if err := f.SetSheetName("Sheet1", w.sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	w.row(1, "#", "Task", "Owner", "Status", "Due Date", "SLA (days)", "Reason")
	for i, t := range tasks {
		w.row(i+2, t.Index+1, t.Name, t.Owner, t.Status.Label(), t.DueDate.String(), t.SLA, t.Reason)
	}
	if w.err != nil {
		return nil, w.err
	}
	return s.write(f, "bu-tasks-"+entity.DateOf(s.clock.Now()).String()+".xlsx")
}

// SaveConsolidated stores the workbook under consolidated/<year>/.
// Closed periods no longer change, so an existing file is left alone.
func (s *exportServiceImpl) SaveConsolidated(ctx context.Context, id string, overwrite bool) (*SavedFile, error) {
	report, err := s.consolidatedRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rel := path.Join("consolidated", fmt.Sprint(report.Year), workbookName(report))

	if !overwrite && report.Status == entity.ConsolidationClosed && s.storage.Exists(ctx, rel) {
		s.logger.Info("Workbook already saved", "period", report.Period, "path", rel)
		return &SavedFile{Path: rel, FullPath: s.storage.GetFullPath(rel), Kept: true}, nil
	}

	export, err := s.ConsolidatedWorkbook(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, rel, export)
}

// SaveTasks stores the task workbook at the root of the export directory
func (s *exportServiceImpl) SaveTasks(ctx context.Context) (*SavedFile, error) {
	export, err := s.TaskWorkbook(ctx)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, export.FileName, export)
}

func (s *exportServiceImpl) save(ctx context.Context, rel string, export *Export) (*SavedFile, error) {
	if err := s.storage.Save(ctx, rel, export.Content); err != nil {
		s.logger.Error("Failed to save workbook", "path", rel, "error", err)
		return nil, fmt.Errorf("failed to save workbook: %w", err)
	}
	s.logger.Info("Workbook saved", "path", rel, "size", len(export.Content))
	return &SavedFile{Path: rel, FullPath: s.storage.GetFullPath(rel)}, nil
}

func (s *exportServiceImpl) write(f *excelize.File, name string) (*Export, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return &Export{FileName: name, Content: buf.Bytes()}, nil
}

// sheetWriter writes rows and keeps the first error
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (w *sheetWriter) row(n int, values ...interface{}) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetSheetRow(w.sheet, cell, &values); err != nil {
		w.err = fmt.Errorf("failed to write row %d of %s: %w", n, w.sheet, err)
	}
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
