package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"staffhub/internal/dto"
	"staffhub/internal/repository"
	"staffhub/pkg/jwt"
)

var (
	ErrInvalidCredentials  = errors.New("邮箱或密码错误")
	ErrTokenRevoked        = errors.New("token 已失效")
	ErrOldPasswordMismatch = errors.New("原密码错误")
)

// TokenBlacklist Token 黑名单存储，未配置 Redis 时为 nil
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// AuthService 认证业务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	// Logout 吊销当前 Access Token（jti/exp 来自认证中间件），refreshToken 非空时一并吊销
	Logout(ctx context.Context, accessJTI string, accessExp time.Time, refreshToken string) error
	GetCurrentUser(ctx context.Context, userID string) (*dto.UserResponse, error)
	ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error
}

type authService struct {
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) AuthService {
	return &authService{
		repo:      repo,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		logger:    logger,
	}
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. 查询用户
	user, err := s.repo.User.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, classify(s.logger, "查询用户失败", err)
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 3. 生成 Token 对
	return s.issueTokens(user.UserID, user.Role.String(), req.RememberMe, toUserResponse(user))
}

// ────────────────────── RefreshToken ──────────────────────

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil || claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrTokenRevoked
	}

	if s.blacklist != nil {
		revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			return nil, classify(s.logger, "检查 Token 黑名单失败", err)
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}

	// 角色以数据库为准，角色变更后刷新即生效
	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenRevoked
		}
		return nil, classify(s.logger, "查询用户失败", err, zap.String("user_id", claims.UserID))
	}

	// 轮换：旧 refresh token 立即失效
	if s.blacklist != nil {
		if err := s.blacklist.BlacklistToken(ctx, claims.ID, claims.ExpiresIn()); err != nil {
			s.logger.Warn("吊销旧 RefreshToken 失败", zap.Error(err))
		}
	}

	return s.issueTokens(user.UserID, user.Role.String(), claims.RememberMe, toUserResponse(user))
}

// ────────────────────── Logout ──────────────────────

func (s *authService) Logout(ctx context.Context, accessJTI string, accessExp time.Time, refreshToken string) error {
	if s.blacklist == nil {
		return nil
	}

	if err := s.blacklist.BlacklistToken(ctx, accessJTI, time.Until(accessExp)); err != nil {
		return classify(s.logger, "吊销 AccessToken 失败", err)
	}

	if refreshToken != "" {
		claims, err := s.jwtMgr.ParseToken(refreshToken)
		if err != nil {
			return nil // 已过期或无效，无需吊销
		}
		if err := s.blacklist.BlacklistToken(ctx, claims.ID, claims.ExpiresIn()); err != nil {
			return classify(s.logger, "吊销 RefreshToken 失败", err)
		}
	}

	return nil
}

// ────────────────────── GetCurrentUser ──────────────────────

func (s *authService) GetCurrentUser(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, classify(s.logger, "查询用户失败", err, zap.String("user_id", userID))
	}
	return toUserResponse(user), nil
}

// ────────────────────── ChangePassword ──────────────────────

func (s *authService) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return classify(s.logger, "查询用户失败", err, zap.String("user_id", userID))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrOldPasswordMismatch
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return classify(s.logger, "密码哈希失败", err)
	}
	user.PasswordHash = hash

	if err := s.repo.User.Update(ctx, user); err != nil {
		return classify(s.logger, "更新密码失败", err, zap.String("user_id", userID))
	}
	return nil
}

// ── 内部辅助方法 ──

func (s *authService) issueTokens(userID, role string, rememberMe bool, user *dto.UserResponse) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(userID, role)
	if err != nil {
		return nil, classify(s.logger, "生成 AccessToken 失败", err)
	}

	refreshToken, err := s.jwtMgr.GenerateRefreshToken(userID, role, rememberMe)
	if err != nil {
		return nil, classify(s.logger, "生成 RefreshToken 失败", err)
	}

	return &dto.TokenResponse{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		ExpiresIn:        int(s.jwtMgr.AccessTokenTTL().Seconds()),
		RefreshExpiresIn: int(s.jwtMgr.RefreshTokenTTL(rememberMe).Seconds()),
		User:             *user,
	}, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
