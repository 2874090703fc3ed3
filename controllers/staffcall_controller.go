package controllers

import (
	"github.com/Nhongkham198/POS-Sirimokol/entity"
	"github.com/Nhongkham198/POS-Sirimokol/pkg/resp"
	"github.com/Nhongkham198/POS-Sirimokol/services"
	"github.com/Nhongkham198/POS-Sirimokol/utils"

	"github.com/gin-gonic/gin"
)

type StaffCallController struct{ Calls *services.StaffCallService }

func NewStaffCallController(calls *services.StaffCallService) *StaffCallController {
	return &StaffCallController{Calls: calls}
}

// GET /branches/:branchId/staff-calls
func (s *StaffCallController) List(c *gin.Context) {
	calls, err := s.Calls.List(c.Param("branchId"))
	if err != nil {
		resp.ServerError(c, err); return
	}
	if calls == nil {
		calls = []entity.StaffCall{}
	}
	resp.OK(c, calls)
}

type staffCallRequest struct {
	TableID      int    `json:"tableId"`
	CustomerName string `json:"customerName"`
}

// POST /branches/:branchId/staff-calls — ปุ่ม "เรียกพนักงาน" บน tablet โต๊ะ
func (s *StaffCallController) Call(c *gin.Context) {
	var req staffCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error()); return
	}
	// session ลูกค้าเรียกได้เฉพาะโต๊ะตัวเอง
	if utils.CurrentRole(c) == entity.RoleTable {
		req.TableID = utils.CurrentTableID(c)
	}
	if req.TableID == 0 {
		resp.BadRequest(c, "missing tableId"); return
	}

	call, err := s.Calls.Call(c.Param("branchId"), req.TableID, req.CustomerName)
	if err != nil {
		resp.ServerError(c, err); return
	}
	resp.Created(c, call)
}
