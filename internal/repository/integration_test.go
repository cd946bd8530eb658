//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"staffhub/internal/dto"
	"staffhub/internal/model"
	"staffhub/internal/repository"
	"staffhub/internal/service"
	"staffhub/pkg/database"
	pkgerrors "staffhub/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// Test Setup（真实 PostgreSQL，验证迁移脚本与行锁）
// ═══════════════════════════════════════════════════════════

var pgDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=staffhub password=staffhub_password dbname=staffhub_test sslmode=disable TimeZone=UTC"
	}

	var err error
	pgDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	sqlDB, err := pgDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "获取 sql.DB 失败: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "迁移失败: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

// seedPGUser 创建测试用户并注册清理（级联删除其请假与工时）
func seedPGUser(t *testing.T) *model.User {
	t.Helper()
	u := &model.User{
		Username:     fmt.Sprintf("it-%d", time.Now().UnixNano()),
		Email:        fmt.Sprintf("it-%d@example.com", time.Now().UnixNano()),
		PasswordHash: "$2a$10$placeholder",
		Role:         model.RoleEngineer,
	}
	if err := pgDB.Create(u).Error; err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}
	t.Cleanup(func() {
		pgDB.Unscoped().Where("user_id = ?", u.UserID).Delete(&model.User{})
	})
	return u
}

// ═══════════════════════════════════════════════════════════
// Test: Transaction
// ═══════════════════════════════════════════════════════════

func TestPG_WithinTx_Rollback(t *testing.T) {
	u := seedPGUser(t)
	repo := repository.NewRepository(pgDB)
	ctx := context.Background()

	sentinel := errors.New("rollback")
	err := repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		leave := &model.Leave{
			UserID:    u.UserID,
			StartDate: model.NewDate(day("2024-04-01")),
			EndDate:   model.NewDate(day("2024-04-02")),
		}
		if err := tx.Leave.Create(ctx, leave); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}

	leaves, err := repo.Leave.List(ctx, repository.LeaveFilter{UserID: u.UserID})
	if err != nil {
		t.Fatal(err)
	}
	if len(leaves) != 0 {
		t.Errorf("期望回滚后没有请假记录，实际 %d 条", len(leaves))
	}
}

// ═══════════════════════════════════════════════════════════
// Test: 并发写入同一用户的重叠请假，行锁保证只有一条成功
// ═══════════════════════════════════════════════════════════

func TestPG_ConcurrentOverlappingLeaves(t *testing.T) {
	u := seedPGUser(t)
	svc := service.NewLeaveService(repository.NewRepository(pgDB), zap.NewNop())
	caller := service.Caller{UserID: u.UserID, Role: model.RoleEngineer}

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		overlaps  int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// 每个请求都覆盖 04-10
			req := &dto.LeaveRequest{
				StartDate: fmt.Sprintf("2024-04-%02d", 3+i),
				EndDate:   "2024-04-10",
			}
			_, err := svc.RecordLeave(context.Background(), caller, req)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, pkgerrors.ErrOverlap), errors.Is(err, pkgerrors.ErrDuplicate):
				overlaps++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if succeeded != 1 || overlaps != workers-1 {
		t.Errorf("expected 1 success and %d rejections, got %d/%d", workers-1, succeeded, overlaps)
	}
}

func TestPG_RunMigrations_RefusesDirty(t *testing.T) {
	sqlDB, err := pgDB.DB()
	if err != nil {
		t.Fatalf("获取 sql.DB 失败: %v", err)
	}

	// 已是最新版本时重复执行无副作用
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		t.Fatalf("重复迁移应成功: %v", err)
	}

	if err := pgDB.Exec("UPDATE schema_migrations SET dirty = true").Error; err != nil {
		t.Fatalf("标记 dirty 失败: %v", err)
	}
	t.Cleanup(func() { pgDB.Exec("UPDATE schema_migrations SET dirty = false") })

	err = database.RunMigrations(sqlDB, zap.NewNop())
	if !errors.Is(err, database.ErrDirtyMigration) {
		t.Errorf("期望 ErrDirtyMigration，实际: %v", err)
	}
}
