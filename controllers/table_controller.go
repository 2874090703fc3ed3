package controllers

import (
	"strconv"

	"github.com/Nhongkham198/POS-Sirimokol/entity"
	"github.com/Nhongkham198/POS-Sirimokol/pkg/resp"
	"github.com/Nhongkham198/POS-Sirimokol/services"

	"github.com/gin-gonic/gin"
)

type TableController struct{ Tables *services.TableService }

func NewTableController(tables *services.TableService) *TableController {
	return &TableController{Tables: tables}
}

type floorRequest struct {
	Name string `json:"name" binding:"required"`
}

// POST /branches/:branchId/floors
func (t *TableController) AddFloor(c *gin.Context) {
	var req floorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error()); return
	}
	err := t.Tables.AddFloor(c.Param("branchId"), req.Name)
	switch err {
	case nil:
		resp.Created(c, gin.H{"name": req.Name})
	case services.ErrFloorExists:
		resp.BadRequest(c, err.Error())
	default:
		resp.ServerError(c, err)
	}
}

// DELETE /branches/:branchId/floors/:name
func (t *TableController) RemoveFloor(c *gin.Context) {
	err := t.Tables.RemoveFloor(c.Param("branchId"), c.Param("name"))
	switch err {
	case nil:
		resp.OK(c, gin.H{"name": c.Param("name")})
	case services.ErrFloorNotEmpty:
		resp.Conflict(c, err.Error())
	default:
		resp.ServerError(c, err)
	}
}

type addTableRequest struct {
	Floor string `json:"floor" binding:"required"`
	Name  string `json:"name"`
}

// POST /branches/:branchId/tables
func (t *TableController) AddTable(c *gin.Context) {
	var req addTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error()); return
	}
	table, err := t.Tables.AddTable(c.Param("branchId"), req.Floor, req.Name)
	switch err {
	case nil:
		resp.Created(c, table)
	case services.ErrTableExists:
		resp.BadRequest(c, err.Error())
	default:
		resp.ServerError(c, err)
	}
}

// DELETE /branches/:branchId/tables/last — ถอดโต๊ะล่าสุดออกจากผัง
func (t *TableController) RemoveLastTable(c *gin.Context) {
	err := t.Tables.RemoveLastTable(c.Param("branchId"))
	switch err {
	case nil:
		resp.OK(c, gin.H{})
	case services.ErrTableOccupied:
		resp.Conflict(c, err.Error())
	case services.ErrTableNotFound:
		resp.NotFound(c, err.Error())
	default:
		resp.ServerError(c, err)
	}
}

type reservationRequest struct {
	Reservation *entity.Reservation `json:"reservation"` // null = ยกเลิกจอง
}

// PUT /branches/:branchId/tables/:id/reservation
func (t *TableController) SetReservation(c *gin.Context) {
	id, ok := tableID(c)
	if !ok {
		return
	}
	var req reservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error()); return
	}
	err := t.Tables.SetReservation(c.Param("branchId"), id, req.Reservation)
	switch err {
	case nil:
		resp.OK(c, gin.H{"id": id})
	case services.ErrTableNotFound:
		resp.NotFound(c, err.Error())
	default:
		resp.ServerError(c, err)
	}
}

type pinRequest struct {
	Pin *string `json:"pin"` // null = ล้าง PIN
}

// PUT /branches/:branchId/tables/:id/pin
func (t *TableController) SetPin(c *gin.Context) {
	id, ok := tableID(c)
	if !ok {
		return
	}
	var req pinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error()); return
	}
	err := t.Tables.SetPin(c.Param("branchId"), id, req.Pin)
	switch err {
	case nil:
		resp.OK(c, gin.H{"id": id})
	case services.ErrTableNotFound:
		resp.NotFound(c, err.Error())
	default:
		resp.ServerError(c, err)
	}
}

func tableID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		resp.BadRequest(c, "invalid table id")
		return 0, false
	}
	return id, true
}
