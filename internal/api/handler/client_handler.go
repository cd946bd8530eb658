package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"staffhub/internal/dto"
	"staffhub/internal/service"
	"staffhub/pkg/response"
)

// ClientHandler 客户模块 HTTP 处理器
type ClientHandler struct {
	clientSvc service.ClientService
}

// NewClientHandler 创建 ClientHandler
func NewClientHandler(clientSvc service.ClientService) *ClientHandler {
	return &ClientHandler{clientSvc: clientSvc}
}

// ListClients 客户列表
// GET /api/v1/clients
func (h *ClientHandler) ListClients(c *gin.Context) {
	clients, err := h.clientSvc.List(c.Request.Context())
	if err != nil {
		h.handleClientError(c, err)
		return
	}

	response.OK(c, gin.H{"list": clients})
}

// GetClient 客户详情
// GET /api/v1/clients/:id
func (h *ClientHandler) GetClient(c *gin.Context) {
	client, err := h.clientSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleClientError(c, err)
		return
	}

	response.OK(c, client)
}

// CreateClient 创建客户
// POST /api/v1/clients
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req dto.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	client, err := h.clientSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleClientError(c, err)
		return
	}

	response.Created(c, client)
}

// UpdateClient 更新客户
// PUT /api/v1/clients/:id
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	var req dto.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	client, err := h.clientSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleClientError(c, err)
		return
	}

	response.OK(c, client)
}

// DeleteClient 删除客户
// DELETE /api/v1/clients/:id
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	if err := h.clientSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleClientError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *ClientHandler) handleClientError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrClientNotFound):
		response.NotFound(c, 13001, "客户不存在")
	default:
		handleCommonError(c, err)
	}
}
