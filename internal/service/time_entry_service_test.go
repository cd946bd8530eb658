package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"staffhub/internal/dto"
	"staffhub/internal/model"
	pkgerrors "staffhub/pkg/errors"
)

// ── 测试辅助 ──

func setupTestTimeEntryService() (TimeEntryService, *mockRepos) {
	repo, mocks := newMockRepository()
	mocks.seedUser("u1", model.RoleEngineer)
	mocks.seedProject("p1", "Apollo")
	// 2024-03-01 ~ 2024-03-05 请假
	mocks.seedLeave("leave-1", "u1", "2024-03-01", "2024-03-05")
	return NewTimeEntryService(repo, zap.NewNop()), mocks
}

func entryReq(start string, hours float64) *dto.TimeEntryRequest {
	return &dto.TimeEntryRequest{ProjectID: "p1", StartDate: start, HoursSpent: hours}
}

// ── RecordTimeEntry 测试 ──

func TestTimeEntryService_Record_LeaveConflict(t *testing.T) {
	svc, m := setupTestTimeEntryService()

	_, err := svc.RecordTimeEntry(context.Background(), engineer("u1"), entryReq("2024-03-03", 8))
	assertKind(t, err, pkgerrors.KindLeaveConflict)
	if !errors.Is(err, pkgerrors.ErrLeaveConflict) {
		t.Error("期望 errors.Is(err, ErrLeaveConflict)")
	}
	if len(m.timeEntry.entries) != 0 {
		t.Error("冲突的工时不应写入")
	}
}

func TestTimeEntryService_Record_DayAfterLeaveAccepted(t *testing.T) {
	svc, m := setupTestTimeEntryService()

	result, err := svc.RecordTimeEntry(context.Background(), engineer("u1"), entryReq("2024-03-06", 8))
	if err != nil {
		t.Fatalf("请假结束次日应可登记: %v", err)
	}
	if result.UserID == nil || *result.UserID != "u1" {
		t.Errorf("归属不符: %+v", result.UserID)
	}
	if result.EndDate != nil {
		t.Errorf("未填结束日期时应为空，实际=%v", *result.EndDate)
	}
	if len(m.user.locked) != 1 || m.user.locked[0] != "u1" {
		t.Errorf("已分配工时应锁定用户行，实际=%v", m.user.locked)
	}
	if len(m.project.locked) != 0 {
		t.Errorf("已分配工时不应锁定项目行，实际=%v", m.project.locked)
	}
}

func TestTimeEntryService_Record_MultiDaySpanningLeave(t *testing.T) {
	svc, _ := setupTestTimeEntryService()

	req := entryReq("2024-02-26", 30)
	req.EndDate = strPtr("2024-03-01")
	_, err := svc.RecordTimeEntry(context.Background(), engineer("u1"), req)
	assertKind(t, err, pkgerrors.KindLeaveConflict)
}

func TestTimeEntryService_Record_Duplicate(t *testing.T) {
	svc, _ := setupTestTimeEntryService()
	ctx := context.Background()

	if _, err := svc.RecordTimeEntry(ctx, engineer("u1"), entryReq("2024-03-06", 8)); err != nil {
		t.Fatalf("第一次登记应成功: %v", err)
	}
	_, err := svc.RecordTimeEntry(ctx, engineer("u1"), entryReq("2024-03-06", 2))
	assertKind(t, err, pkgerrors.KindDuplicate)
}

func TestTimeEntryService_Record_SameDayOtherProject(t *testing.T) {
	svc, m := setupTestTimeEntryService()
	m.seedProject("p2", "Gemini")
	ctx := context.Background()

	if _, err := svc.RecordTimeEntry(ctx, engineer("u1"), entryReq("2024-03-06", 4)); err != nil {
		t.Fatalf("第一次登记应成功: %v", err)
	}
	req := entryReq("2024-03-06", 4)
	req.ProjectID = "p2"
	if _, err := svc.RecordTimeEntry(ctx, engineer("u1"), req); err != nil {
		t.Errorf("同一天不同项目应可登记: %v", err)
	}
}

func TestTimeEntryService_Record_NegativeHours(t *testing.T) {
	svc, _ := setupTestTimeEntryService()

	_, err := svc.RecordTimeEntry(context.Background(), engineer("u1"), entryReq("2024-03-06", -1))
	re := assertKind(t, err, pkgerrors.KindValidation)
	if re.Field != "hours_spent" {
		t.Errorf("期望字段 hours_spent，实际=%s", re.Field)
	}
}

func TestTimeEntryService_Record_ZeroHoursAllowed(t *testing.T) {
	svc, _ := setupTestTimeEntryService()

	if _, err := svc.RecordTimeEntry(context.Background(), engineer("u1"), entryReq("2024-03-06", 0)); err != nil {
		t.Errorf("0 工时应允许: %v", err)
	}
}

func TestTimeEntryService_Record_EndBeforeStart(t *testing.T) {
	svc, _ := setupTestTimeEntryService()

	req := entryReq("2024-03-10", 8)
	req.EndDate = strPtr("2024-03-08")
	_, err := svc.RecordTimeEntry(context.Background(), engineer("u1"), req)
	re := assertKind(t, err, pkgerrors.KindValidation)
	if re.Field != "end_date" {
		t.Errorf("期望字段 end_date，实际=%s", re.Field)
	}
}

func TestTimeEntryService_Record_UnknownProject(t *testing.T) {
	svc, _ := setupTestTimeEntryService()

	req := entryReq("2024-03-06", 8)
	req.ProjectID = "ghost"
	_, err := svc.RecordTimeEntry(context.Background(), engineer("u1"), req)
	re := assertKind(t, err, pkgerrors.KindValidation)
	if re.Field != "project_id" {
		t.Errorf("期望字段 project_id，实际=%s", re.Field)
	}
}

func TestTimeEntryService_Record_EngineerForOthersForbidden(t *testing.T) {
	svc, m := setupTestTimeEntryService()
	m.seedUser("u2", model.RoleEngineer)

	req := entryReq("2024-03-06", 8)
	req.UserID = strPtr("u2")
	if _, err := svc.RecordTimeEntry(context.Background(), engineer("u1"), req); !errors.Is(err, ErrForbidden) {
		t.Errorf("期望 ErrForbidden，实际: %v", err)
	}
}

func TestTimeEntryService_Record_Unassigned(t *testing.T) {
	svc, m := setupTestTimeEntryService()
	ctx := context.Background()

	// 请假期间的日期也可登记未分配工时
	result, err := svc.RecordTimeEntry(ctx, manager("mgr-1"), entryReq("2024-03-03", 8))
	if err != nil {
		t.Fatalf("未分配工时应跳过请假校验: %v", err)
	}
	if result.UserID != nil {
		t.Errorf("期望未分配，实际=%v", *result.UserID)
	}
	if len(m.project.locked) != 1 || m.project.locked[0] != "p1" {
		t.Errorf("未分配工时应锁定项目行，实际=%v", m.project.locked)
	}
	if len(m.user.locked) != 0 {
		t.Errorf("未分配工时不应锁定用户行，实际=%v", m.user.locked)
	}

	// 未分配工时之间按 (开始日期, 项目) 去重
	_, err = svc.RecordTimeEntry(ctx, admin("admin-1"), entryReq("2024-03-03", 1))
	assertKind(t, err, pkgerrors.KindDuplicate)

	// 与同键的已分配工时互不影响
	req := entryReq("2024-03-06", 8)
	if _, err := svc.RecordTimeEntry(ctx, engineer("u1"), req); err != nil {
		t.Fatalf("已分配工时应成功: %v", err)
	}
	if _, err := svc.RecordTimeEntry(ctx, manager("mgr-1"), entryReq("2024-03-06", 8)); err != nil {
		t.Errorf("未分配与已分配工时不应互相重复: %v", err)
	}
}

func TestTimeEntryService_Record_ManagerForEngineerChecksLeave(t *testing.T) {
	svc, _ := setupTestTimeEntryService()

	req := entryReq("2024-03-05", 8)
	req.UserID = strPtr("u1")
	_, err := svc.RecordTimeEntry(context.Background(), manager("mgr-1"), req)
	assertKind(t, err, pkgerrors.KindLeaveConflict)
}

// ── UpdateTimeEntry 测试 ──

func TestTimeEntryService_Update_ExcludesSelf(t *testing.T) {
	svc, _ := setupTestTimeEntryService()
	ctx := context.Background()

	created, err := svc.RecordTimeEntry(ctx, engineer("u1"), entryReq("2024-03-06", 8))
	if err != nil {
		t.Fatalf("登记应成功: %v", err)
	}

	req := entryReq("2024-03-06", 6)
	req.WorkDescription = "code review"
	updated, err := svc.UpdateTimeEntry(ctx, engineer("u1"), created.ID, req)
	if err != nil {
		t.Fatalf("修改自身不应判为重复: %v", err)
	}
	if updated.HoursSpent != 6 || updated.WorkDescription != "code review" {
		t.Errorf("修改结果不符: %+v", updated)
	}
}

func TestTimeEntryService_Update_IntoLeave(t *testing.T) {
	svc, _ := setupTestTimeEntryService()
	ctx := context.Background()

	created, _ := svc.RecordTimeEntry(ctx, engineer("u1"), entryReq("2024-03-06", 8))
	_, err := svc.UpdateTimeEntry(ctx, engineer("u1"), created.ID, entryReq("2024-03-04", 8))
	assertKind(t, err, pkgerrors.KindLeaveConflict)
}

func TestTimeEntryService_Update_CollidesWithOther(t *testing.T) {
	svc, _ := setupTestTimeEntryService()
	ctx := context.Background()

	if _, err := svc.RecordTimeEntry(ctx, engineer("u1"), entryReq("2024-03-06", 8)); err != nil {
		t.Fatalf("登记应成功: %v", err)
	}
	second, err := svc.RecordTimeEntry(ctx, engineer("u1"), entryReq("2024-03-07", 8))
	if err != nil {
		t.Fatalf("登记应成功: %v", err)
	}

	_, err = svc.UpdateTimeEntry(ctx, engineer("u1"), second.ID, entryReq("2024-03-06", 8))
	assertKind(t, err, pkgerrors.KindDuplicate)
}

func TestTimeEntryService_Update_StaffKeepsOwner(t *testing.T) {
	svc, _ := setupTestTimeEntryService()
	ctx := context.Background()

	created, _ := svc.RecordTimeEntry(ctx, engineer("u1"), entryReq("2024-03-06", 8))

	updated, err := svc.UpdateTimeEntry(ctx, manager("mgr-1"), created.ID, entryReq("2024-03-06", 7))
	if err != nil {
		t.Fatalf("经理修改应成功: %v", err)
	}
	if updated.UserID == nil || *updated.UserID != "u1" {
		t.Error("未传 user_id 时应保持原归属")
	}

	req := entryReq("2024-03-06", 7)
	req.UserID = strPtr("")
	updated, err = svc.UpdateTimeEntry(ctx, manager("mgr-1"), created.ID, req)
	if err != nil {
		t.Fatalf("改为未分配应成功: %v", err)
	}
	if updated.UserID != nil {
		t.Error("传空串时应改为未分配")
	}
}

func TestTimeEntryService_Update_NotOwner(t *testing.T) {
	svc, m := setupTestTimeEntryService()
	m.seedUser("u2", model.RoleEngineer)
	ctx := context.Background()

	created, _ := svc.RecordTimeEntry(ctx, engineer("u1"), entryReq("2024-03-06", 8))
	if _, err := svc.UpdateTimeEntry(ctx, engineer("u2"), created.ID, entryReq("2024-03-06", 1)); !errors.Is(err, ErrForbidden) {
		t.Errorf("期望 ErrForbidden，实际: %v", err)
	}
	if err := svc.DeleteTimeEntry(ctx, engineer("u2"), created.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("期望 ErrForbidden，实际: %v", err)
	}
}

func TestTimeEntryService_Update_NotFound(t *testing.T) {
	svc, _ := setupTestTimeEntryService()

	_, err := svc.UpdateTimeEntry(context.Background(), admin("a1"), "nonexistent", entryReq("2024-03-06", 1))
	if !errors.Is(err, ErrTimeEntryNotFound) {
		t.Errorf("期望 ErrTimeEntryNotFound，实际: %v", err)
	}
}

// ── ValidateTimeEntry 测试 ──

func TestTimeEntryService_Validate(t *testing.T) {
	svc, m := setupTestTimeEntryService()
	ctx := context.Background()

	assertKind(t, svc.ValidateTimeEntry(ctx, engineer("u1"), entryReq("2024-03-02", 8), ""), pkgerrors.KindLeaveConflict)
	if err := svc.ValidateTimeEntry(ctx, engineer("u1"), entryReq("2024-03-06", 8), ""); err != nil {
		t.Errorf("合法工时应通过: %v", err)
	}
	if len(m.timeEntry.entries) != 0 {
		t.Error("预校验不应写入")
	}
}

func TestTimeEntryService_Validate_ExcludeKeepsOwner(t *testing.T) {
	svc, m := setupTestTimeEntryService()
	ctx := context.Background()

	created, err := svc.RecordTimeEntry(ctx, engineer("u1"), entryReq("2024-03-06", 8))
	if err != nil {
		t.Fatalf("登记应成功: %v", err)
	}
	second, err := svc.RecordTimeEntry(ctx, engineer("u1"), entryReq("2024-03-07", 8))
	if err != nil {
		t.Fatalf("登记应成功: %v", err)
	}

	tests := []struct {
		name  string
		start string
		kind  pkgerrors.Kind
	}{
		{"移入请假期间", "2024-03-03", pkgerrors.KindLeaveConflict},
		{"与原归属人其他工时重复", "2024-03-07", pkgerrors.KindDuplicate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// 经理不传 user_id：预校验与修改的结论一致
			_, updateErr := svc.UpdateTimeEntry(ctx, manager("mgr-1"), created.ID, entryReq(tt.start, 8))
			assertKind(t, updateErr, tt.kind)
			assertKind(t, svc.ValidateTimeEntry(ctx, manager("mgr-1"), entryReq(tt.start, 8), created.ID), tt.kind)
		})
	}

	if err := svc.ValidateTimeEntry(ctx, manager("mgr-1"), entryReq("2024-03-06", 6), created.ID); err != nil {
		t.Errorf("排除自身后应通过: %v", err)
	}
	if err := svc.ValidateTimeEntry(ctx, engineer("u1"), entryReq("2024-03-08", 8), second.ID); err != nil {
		t.Errorf("工程师校验本人工时应通过: %v", err)
	}
	if len(m.timeEntry.entries) != 2 {
		t.Errorf("预校验不应写入，实际=%d", len(m.timeEntry.entries))
	}
}

// ── List 测试 ──

func TestTimeEntryService_List_EngineerSeesOwnOnly(t *testing.T) {
	svc, m := setupTestTimeEntryService()
	m.seedUser("u2", model.RoleEngineer)
	ctx := context.Background()

	_, _ = svc.RecordTimeEntry(ctx, engineer("u1"), entryReq("2024-03-06", 8))
	_, _ = svc.RecordTimeEntry(ctx, engineer("u2"), entryReq("2024-03-06", 8))
	_, _ = svc.RecordTimeEntry(ctx, manager("m1"), entryReq("2024-03-07", 8))

	own, err := svc.List(ctx, engineer("u1"), &dto.TimeEntryListRequest{})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(own) != 1 {
		t.Errorf("工程师只应看到本人工时，实际=%d", len(own))
	}

	all, _ := svc.List(ctx, manager("m1"), &dto.TimeEntryListRequest{})
	if len(all) != 3 {
		t.Errorf("经理应看到全部工时（含未分配），实际=%d", len(all))
	}

	window, _ := svc.List(ctx, manager("m1"), &dto.TimeEntryListRequest{From: "2024-03-07", To: "2024-03-31"})
	if len(window) != 1 {
		t.Errorf("窗口过滤不符，实际=%d", len(window))
	}
}
