package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"staffhub/config"
	"staffhub/internal/dto"
	"staffhub/internal/model"
	"staffhub/internal/repository"
	pkgerrors "staffhub/pkg/errors"
)

// ── 用户模块业务错误 ──

var (
	ErrUserNotFound     = errors.New("用户不存在")
	ErrCannotDeleteSelf = errors.New("不能删除自己的账号")
)

// UserService 用户业务接口
type UserService interface {
	Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	GetByID(ctx context.Context, id string) (*dto.UserResponse, error)
	List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
	// Update 管理员可改任何人，其余角色只能改本人
	Update(ctx context.Context, caller Caller, id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	AssignRole(ctx context.Context, id string, req *dto.AssignRoleRequest) (*dto.UserResponse, error)
	// Delete 级联删除该用户的请假、工时与项目分配
	Delete(ctx context.Context, caller Caller, id string) error
	// EnsureAdmin 按启动配置创建初始管理员，邮箱已存在时跳过
	EnsureAdmin(ctx context.Context, cfg *config.BootstrapConfig) error
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := s.checkEmailFree(ctx, req.Email, ""); err != nil {
		return nil, err
	}
	if err := s.checkProjectRef(ctx, req.CurrentProjectID); err != nil {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, classify(s.logger, "密码哈希失败", err)
	}

	user := &model.User{
		Username:           req.Username,
		Name:               req.Name,
		Email:              req.Email,
		PasswordHash:       hash,
		Role:               model.RoleEngineer,
		PhoneNumber:        req.PhoneNumber,
		Address:            req.Address,
		JobTitle:           req.JobTitle,
		Department:         req.Department,
		ExperienceLevel:    model.ExperienceJunior,
		HourlyRate:         req.HourlyRate,
		AvailabilityStatus: model.AvailabilityAvailable,
		LinkedInProfile:    req.LinkedInProfile,
		CurrentProjectID:   req.CurrentProjectID,
	}
	if role, ok := model.ParseRole(req.Role); ok {
		user.Role = role
	}
	if req.ExperienceLevel != "" {
		user.ExperienceLevel = req.ExperienceLevel
	}
	if req.AvailabilityStatus != "" {
		user.AvailabilityStatus = req.AvailabilityStatus
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		return nil, classify(s.logger, "创建用户失败", err)
	}

	return toUserResponse(user), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *userService) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// ────────────────────── List ──────────────────────

func (s *userService) List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	filter := repository.UserFilter{
		Offset: req.GetOffset(),
		Limit:  req.GetPageSize(),
	}
	if role, ok := model.ParseRole(req.Role); ok {
		filter.Role = &role
	}

	users, total, err := s.repo.User.List(ctx, filter)
	if err != nil {
		return nil, 0, classify(s.logger, "列出用户失败", err)
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, *toUserResponse(&users[i]))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *userService) Update(ctx context.Context, caller Caller, id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if caller.Role != model.RoleAdmin && !caller.owns(id) {
		return nil, ErrForbidden
	}

	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != user.Email {
		if err := s.checkEmailFree(ctx, *req.Email, user.UserID); err != nil {
			return nil, err
		}
		user.Email = *req.Email
	}
	if req.CurrentProjectID != nil {
		if err := s.checkProjectRef(ctx, req.CurrentProjectID); err != nil {
			return nil, err
		}
		user.CurrentProjectID = req.CurrentProjectID
		user.CurrentProject = nil
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = *req.PhoneNumber
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.JobTitle != nil {
		user.JobTitle = *req.JobTitle
	}
	if req.Department != nil {
		user.Department = *req.Department
	}
	if req.ExperienceLevel != nil {
		user.ExperienceLevel = *req.ExperienceLevel
	}
	if req.HourlyRate != nil {
		user.HourlyRate = *req.HourlyRate
	}
	if req.AvailabilityStatus != nil {
		user.AvailabilityStatus = *req.AvailabilityStatus
	}
	if req.LinkedInProfile != nil {
		user.LinkedInProfile = *req.LinkedInProfile
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		return nil, classify(s.logger, "更新用户失败", err, zap.String("id", id))
	}

	return toUserResponse(user), nil
}

// ────────────────────── AssignRole ──────────────────────

func (s *userService) AssignRole(ctx context.Context, id string, req *dto.AssignRoleRequest) (*dto.UserResponse, error) {
	role, ok := model.ParseRole(req.Role)
	if !ok {
		return nil, pkgerrors.Validation("role", "未知角色")
	}

	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Role = role
	if err := s.repo.User.Update(ctx, user); err != nil {
		return nil, classify(s.logger, "分配角色失败", err, zap.String("id", id))
	}

	s.logger.Info("用户角色变更", zap.String("id", id), zap.String("role", role.String()))
	return toUserResponse(user), nil
}

// ────────────────────── Delete ──────────────────────

func (s *userService) Delete(ctx context.Context, caller Caller, id string) error {
	if caller.owns(id) {
		return ErrCannotDeleteSelf
	}
	if _, err := s.getUser(ctx, id); err != nil {
		return err
	}

	if err := s.repo.User.Delete(ctx, id); err != nil {
		return classify(s.logger, "删除用户失败", err, zap.String("id", id))
	}
	return nil
}

// ────────────────────── EnsureAdmin ──────────────────────

func (s *userService) EnsureAdmin(ctx context.Context, cfg *config.BootstrapConfig) error {
	if cfg == nil || cfg.AdminEmail == "" {
		return nil
	}

	_, err := s.repo.User.GetByEmail(ctx, cfg.AdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return classify(s.logger, "查询初始管理员失败", err)
	}

	hash, err := hashPassword(cfg.AdminPassword)
	if err != nil {
		return classify(s.logger, "密码哈希失败", err)
	}

	admin := &model.User{
		Username:           cfg.AdminEmail,
		Name:               cfg.AdminName,
		Email:              cfg.AdminEmail,
		PasswordHash:       hash,
		Role:               model.RoleAdmin,
		ExperienceLevel:    model.ExperienceSenior,
		AvailabilityStatus: model.AvailabilityAvailable,
	}
	if err := s.repo.User.Create(ctx, admin); err != nil {
		return classify(s.logger, "创建初始管理员失败", err)
	}

	s.logger.Info("已创建初始管理员", zap.String("email", cfg.AdminEmail))
	return nil
}

// ── 内部辅助方法 ──

func (s *userService) getUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, classify(s.logger, "查询用户失败", err, zap.String("id", id))
	}
	return user, nil
}

// checkEmailFree 邮箱被 excludeID 以外的用户占用时返回字段级重复错误
func (s *userService) checkEmailFree(ctx context.Context, email, excludeID string) error {
	existing, err := s.repo.User.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return classify(s.logger, "查询邮箱失败", err)
	}
	if existing.UserID != excludeID {
		return pkgerrors.DuplicateField("email", "该邮箱已被使用")
	}
	return nil
}

func (s *userService) checkProjectRef(ctx context.Context, projectID *string) error {
	if projectID == nil {
		return nil
	}
	if _, err := s.repo.Project.GetByID(ctx, *projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Validation("current_project_id", "项目不存在")
		}
		return classify(s.logger, "查询项目失败", err)
	}
	return nil
}
