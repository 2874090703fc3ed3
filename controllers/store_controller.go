package controllers

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/Nhongkham198/POS-Sirimokol/entity"
	"github.com/Nhongkham198/POS-Sirimokol/pkg/resp"
	"github.com/Nhongkham198/POS-Sirimokol/services"

	"github.com/gin-gonic/gin"
)

// StoreController เปิด document/record store เป็น HTTP API ตรง ๆ
// ให้ client binding ใช้เขียน — การอ่านแบบ realtime ไปทาง /ws/sync
type StoreController struct{ Store *services.StoreService }

func NewStoreController(store *services.StoreService) *StoreController {
	return &StoreController{Store: store}
}

// GET /branches/:branchId/docs/:name
func (s *StoreController) GetDocument(c *gin.Context) {
	name := c.Param("name")
	scope := entity.DocScope(name, c.Param("branchId"))

	value, found, err := s.Store.GetDocument(scope, name)
	if err != nil {
		resp.ServerError(c, err); return
	}
	if !found {
		resp.OK(c, gin.H{"exists": false}); return
	}
	resp.OK(c, gin.H{"exists": true, "value": value})
}

// PUT /branches/:branchId/docs/:name — body คือ JSON value ทั้งก้อน
func (s *StoreController) SetDocument(c *gin.Context) {
	name := c.Param("name")
	scope := entity.DocScope(name, c.Param("branchId"))

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, services.MaxDocumentBytes+1))
	if err != nil {
		resp.BadRequest(c, err.Error()); return
	}
	if !json.Valid(body) {
		resp.BadRequest(c, "body is not valid JSON"); return
	}

	if err := s.Store.SetDocument(scope, name, body); err != nil {
		var oversize *services.OversizeError
		if errors.As(err, &oversize) {
			resp.PayloadTooLarge(c, oversize.Error()); return
		}
		resp.ServerError(c, err); return
	}
	resp.OK(c, gin.H{"name": name})
}

// GET /branches/:branchId/collections/:name
func (s *StoreController) ListRecords(c *gin.Context) {
	records, err := s.Store.ListRecords(c.Param("branchId"), c.Param("name"))
	if err != nil {
		resp.ServerError(c, err); return
	}
	if records == nil {
		records = []json.RawMessage{}
	}
	resp.OK(c, records)
}

type recordRequest struct {
	ID   string          `json:"id" binding:"required"`
	Data json.RawMessage `json:"data" binding:"required"`
}

// POST /branches/:branchId/collections/:name
func (s *StoreController) AddRecord(c *gin.Context) {
	var req recordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error()); return
	}
	if err := s.Store.AddRecord(c.Param("branchId"), c.Param("name"), req.ID, req.Data); err != nil {
		resp.ServerError(c, err); return
	}
	resp.Created(c, gin.H{"id": req.ID})
}

// PATCH /branches/:branchId/collections/:name/:id — merge field ที่ส่งมา
func (s *StoreController) UpdateRecord(c *gin.Context) {
	var partial map[string]any
	if err := c.ShouldBindJSON(&partial); err != nil {
		resp.BadRequest(c, err.Error()); return
	}
	err := s.Store.UpdateRecord(c.Param("branchId"), c.Param("name"), c.Param("id"), partial)
	if err == services.ErrOrderNotFound {
		resp.NotFound(c, "record not found"); return
	}
	if err != nil {
		resp.ServerError(c, err); return
	}
	resp.OK(c, gin.H{"id": c.Param("id")})
}

// DELETE /branches/:branchId/collections/:name/:id
func (s *StoreController) RemoveRecord(c *gin.Context) {
	err := s.Store.RemoveRecord(c.Param("branchId"), c.Param("name"), c.Param("id"))
	if err == services.ErrOrderNotFound {
		resp.NotFound(c, "record not found"); return
	}
	if err != nil {
		resp.ServerError(c, err); return
	}
	resp.OK(c, gin.H{"id": c.Param("id")})
}
