package service

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"staffhub/internal/dto"
	"staffhub/internal/model"
	"staffhub/internal/repository"
	"staffhub/pkg/daterange"
	pkgerrors "staffhub/pkg/errors"
)

const (
	sheetDetail  = "工时明细"
	sheetSummary = "人员汇总"
	unassigned   = "未分配"
)

// ExportService 导出业务接口
//
// 工时表导出为 Excel (.xlsx)：
//   - Sheet「工时明细」：每条工时一行，按开始日期排序
//   - Sheet「人员汇总」：按用户汇总工时，成本 = 工时 × 时薪
//
// 工程师只能导出本人的工时。
type ExportService interface {
	ExportTimesheet(ctx context.Context, caller Caller, req *dto.TimesheetExportRequest) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// userSummary 人员汇总行
type userSummary struct {
	name  string
	email string
	hours float64
	rate  float64
}

func (s *exportService) ExportTimesheet(ctx context.Context, caller Caller, req *dto.TimesheetExportRequest) (*bytes.Buffer, string, error) {
	// 1. 解析时间窗口
	from, err := parseDate("from", req.From)
	if err != nil {
		return nil, "", err
	}
	to, err := parseDate("to", req.To)
	if err != nil {
		return nil, "", err
	}
	window := daterange.New(from, &to)
	if !window.Valid() {
		return nil, "", pkgerrors.Validation("to", "结束日期不能早于开始日期")
	}

	// 2. 权限：工程师限定本人
	userID := req.UserID
	if !caller.IsStaff() {
		if userID != "" && !caller.owns(userID) {
			return nil, "", ErrForbidden
		}
		userID = caller.UserID
	}

	// 3. 查询工时
	entries, err := s.repo.TimeEntry.List(ctx, repository.TimeEntryFilter{
		UserID:    userID,
		ProjectID: req.ProjectID,
		From:      &window.Start,
		To:        &window.End,
	})
	if err != nil {
		return nil, "", classify(s.logger, "查询工时失败", err)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return model.DateTime(entries[i].StartDate).Before(model.DateTime(entries[j].StartDate))
	})

	// 4. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	f.SetSheetName("Sheet1", sheetDetail)
	summaries := s.writeDetail(f, entries, headerStyle)

	if _, err := f.NewSheet(sheetSummary); err != nil {
		return nil, "", classify(s.logger, "创建汇总 Sheet 失败", err)
	}
	s.writeSummary(f, summaries, headerStyle)
	f.SetActiveSheet(0)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, "", classify(s.logger, "写入 Excel 失败", err)
	}

	filename := fmt.Sprintf("工时表_%s_%s.xlsx", req.From, req.To)
	return buf, filename, nil
}

// writeDetail 写入明细并返回按用户聚合的汇总（未分配工时单独一行）
func (s *exportService) writeDetail(f *excelize.File, entries []model.TimeEntry, headerStyle int) []*userSummary {
	headers := []string{"开始日期", "结束日期", "人员", "邮箱", "项目", "工时", "工作内容"}
	widths := []float64{12, 12, 16, 26, 24, 8, 48}
	for i, h := range headers {
		col := colName(i)
		f.SetColWidth(sheetDetail, col, col, widths[i])
		f.SetCellValue(sheetDetail, cell(col, 1), h)
	}
	f.SetCellStyle(sheetDetail, "A1", cell(colName(len(headers)-1), 1), headerStyle)

	byUser := make(map[string]*userSummary)
	var order []string

	for i := range entries {
		e := &entries[i]
		row := i + 2

		key, name, email, rate := unassigned, unassigned, "", 0.0
		if e.UserID != nil {
			key = *e.UserID
			if e.User != nil {
				name, email, rate = e.User.DisplayName(), e.User.Email, e.User.HourlyRate
			}
		}
		projectName := e.ProjectID
		if e.Project != nil {
			projectName = e.Project.Name
		}

		f.SetCellValue(sheetDetail, cell("A", row), model.FormatDate(e.StartDate))
		if end := model.FormatDatePtr(e.EndDate); end != nil {
			f.SetCellValue(sheetDetail, cell("B", row), *end)
		}
		f.SetCellValue(sheetDetail, cell("C", row), name)
		f.SetCellValue(sheetDetail, cell("D", row), email)
		f.SetCellValue(sheetDetail, cell("E", row), projectName)
		f.SetCellValue(sheetDetail, cell("F", row), e.HoursSpent)
		f.SetCellValue(sheetDetail, cell("G", row), e.WorkDescription)

		sum, ok := byUser[key]
		if !ok {
			sum = &userSummary{name: name, email: email, rate: rate}
			byUser[key] = sum
			order = append(order, key)
		}
		sum.hours += e.HoursSpent
	}

	result := make([]*userSummary, 0, len(order))
	for _, key := range order {
		result = append(result, byUser[key])
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].name < result[j].name })
	return result
}

func (s *exportService) writeSummary(f *excelize.File, summaries []*userSummary, headerStyle int) {
	headers := []string{"人员", "邮箱", "总工时", "时薪", "成本"}
	for i, h := range headers {
		col := colName(i)
		f.SetColWidth(sheetSummary, col, col, 16)
		f.SetCellValue(sheetSummary, cell(col, 1), h)
	}
	f.SetCellStyle(sheetSummary, "A1", cell(colName(len(headers)-1), 1), headerStyle)

	var totalHours, totalCost float64
	for i, sum := range summaries {
		row := i + 2
		cost := sum.hours * sum.rate
		f.SetCellValue(sheetSummary, cell("A", row), sum.name)
		f.SetCellValue(sheetSummary, cell("B", row), sum.email)
		f.SetCellValue(sheetSummary, cell("C", row), sum.hours)
		f.SetCellValue(sheetSummary, cell("D", row), sum.rate)
		f.SetCellValue(sheetSummary, cell("E", row), cost)
		totalHours += sum.hours
		totalCost += cost
	}

	row := len(summaries) + 2
	f.SetCellValue(sheetSummary, cell("A", row), "合计")
	f.SetCellValue(sheetSummary, cell("C", row), totalHours)
	f.SetCellValue(sheetSummary, cell("E", row), totalCost)
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
