package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"staffhub/internal/dto"
	"staffhub/internal/model"
	"staffhub/internal/repository"
	pkgerrors "staffhub/pkg/errors"
)

// ── 客户模块业务错误 ──

var (
	ErrClientNotFound = errors.New("客户不存在")
)

// ClientService 客户业务接口
type ClientService interface {
	Create(ctx context.Context, req *dto.CreateClientRequest) (*dto.ClientResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ClientResponse, error)
	List(ctx context.Context) ([]dto.ClientResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateClientRequest) (*dto.ClientResponse, error)
	// Delete 删除客户，其项目保留但 client_id 置空
	Delete(ctx context.Context, id string) error
}

type clientService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewClientService 创建 ClientService 实例
func NewClientService(repo *repository.Repository, logger *zap.Logger) ClientService {
	return &clientService{repo: repo, logger: logger}
}

func (s *clientService) Create(ctx context.Context, req *dto.CreateClientRequest) (*dto.ClientResponse, error) {
	if err := s.checkEmailFree(ctx, req.Email, ""); err != nil {
		return nil, err
	}

	client := &model.Client{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		PhoneNumber:   req.PhoneNumber,
		Address:       req.Address,
		Notes:         req.Notes,
	}
	if err := s.repo.Client.Create(ctx, client); err != nil {
		return nil, classify(s.logger, "创建客户失败", err)
	}

	return toClientResponse(client), nil
}

func (s *clientService) GetByID(ctx context.Context, id string) (*dto.ClientResponse, error) {
	client, err := s.getClient(ctx, id)
	if err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

func (s *clientService) List(ctx context.Context) ([]dto.ClientResponse, error) {
	clients, err := s.repo.Client.List(ctx)
	if err != nil {
		return nil, classify(s.logger, "列出客户失败", err)
	}

	result := make([]dto.ClientResponse, 0, len(clients))
	for i := range clients {
		result = append(result, *toClientResponse(&clients[i]))
	}
	return result, nil
}

func (s *clientService) Update(ctx context.Context, id string, req *dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	client, err := s.getClient(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != client.Email {
		if err := s.checkEmailFree(ctx, *req.Email, client.ClientID); err != nil {
			return nil, err
		}
		client.Email = *req.Email
	}
	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.ContactPerson != nil {
		client.ContactPerson = *req.ContactPerson
	}
	if req.PhoneNumber != nil {
		client.PhoneNumber = *req.PhoneNumber
	}
	if req.Address != nil {
		client.Address = *req.Address
	}
	if req.Notes != nil {
		client.Notes = *req.Notes
	}

	if err := s.repo.Client.Update(ctx, client); err != nil {
		return nil, classify(s.logger, "更新客户失败", err, zap.String("id", id))
	}
	return toClientResponse(client), nil
}

func (s *clientService) Delete(ctx context.Context, id string) error {
	if _, err := s.getClient(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Client.Delete(ctx, id); err != nil {
		return classify(s.logger, "删除客户失败", err, zap.String("id", id))
	}
	return nil
}

func (s *clientService) getClient(ctx context.Context, id string) (*model.Client, error) {
	client, err := s.repo.Client.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, classify(s.logger, "查询客户失败", err, zap.String("id", id))
	}
	return client, nil
}

func (s *clientService) checkEmailFree(ctx context.Context, email, excludeID string) error {
	existing, err := s.repo.Client.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return classify(s.logger, "查询客户邮箱失败", err)
	}
	if existing.ClientID != excludeID {
		return pkgerrors.DuplicateField("email", "该邮箱已被其他客户使用")
	}
	return nil
}
