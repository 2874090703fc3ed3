package controllers

import (
	"github.com/Nhongkham198/POS-Sirimokol/entity"
	"github.com/Nhongkham198/POS-Sirimokol/pkg/resp"
	"github.com/Nhongkham198/POS-Sirimokol/services"
	"github.com/Nhongkham198/POS-Sirimokol/utils"

	"github.com/gin-gonic/gin"
)

type HistoryController struct{ Orders *services.OrderService }

func NewHistoryController(orders *services.OrderService) *HistoryController {
	return &HistoryController{Orders: orders}
}

// GET /branches/:branchId/history/completed
// ?includeDeleted=1 เห็นเฉพาะ admin/auditor (ดู soft-deleted ได้)
func (h *HistoryController) Completed(c *gin.Context) {
	orders, err := h.Orders.CompletedOrders(c.Param("branchId"), h.includeDeleted(c))
	if err != nil {
		resp.ServerError(c, err); return
	}
	resp.OK(c, orders)
}

// GET /branches/:branchId/history/cancelled
func (h *HistoryController) Cancelled(c *gin.Context) {
	orders, err := h.Orders.CancelledOrders(c.Param("branchId"), h.includeDeleted(c))
	if err != nil {
		resp.ServerError(c, err); return
	}
	resp.OK(c, orders)
}

type deleteHistoryRequest struct {
	CompletedIDs []int64 `json:"completedIds"`
	CancelledIDs []int64 `json:"cancelledIds"`
}

// POST /branches/:branchId/history/delete
// admin ลบถาวร role อื่น soft delete — ตัดสินจาก token ไม่ใช่ body
func (h *HistoryController) Delete(c *gin.Context) {
	var req deleteHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error()); return
	}
	if len(req.CompletedIDs) == 0 && len(req.CancelledIDs) == 0 {
		resp.BadRequest(c, "nothing to delete"); return
	}

	actor := entity.User{Username: utils.CurrentUsername(c), Role: utils.CurrentRole(c)}
	if err := h.Orders.DeleteHistory(c.Param("branchId"), req.CompletedIDs, req.CancelledIDs, actor); err != nil {
		resp.ServerError(c, err); return
	}
	resp.OK(c, gin.H{"completed": len(req.CompletedIDs), "cancelled": len(req.CancelledIDs)})
}

type editCompletedRequest struct {
	Items   []entity.OrderItem     `json:"items"`
	Payment *entity.PaymentDetails `json:"payment"`
}

// PUT /branches/:branchId/history/completed/:id (admin)
func (h *HistoryController) EditCompleted(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	var req editCompletedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error()); return
	}

	err := h.Orders.EditCompleted(c.Param("branchId"), id, req.Items, req.Payment, utils.CurrentUsername(c))
	switch err {
	case nil:
		resp.OK(c, gin.H{"id": id})
	case services.ErrOrderNotFound:
		resp.NotFound(c, err.Error())
	default:
		resp.ServerError(c, err)
	}
}

func (h *HistoryController) includeDeleted(c *gin.Context) bool {
	if c.Query("includeDeleted") == "" {
		return false
	}
	role := utils.CurrentRole(c)
	return role == entity.RoleAdmin || role == entity.RoleAuditor
}
