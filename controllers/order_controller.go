package controllers

import (
	"strconv"

	"github.com/Nhongkham198/POS-Sirimokol/entity"
	"github.com/Nhongkham198/POS-Sirimokol/pkg/resp"
	"github.com/Nhongkham198/POS-Sirimokol/services"
	"github.com/Nhongkham198/POS-Sirimokol/utils"

	"github.com/gin-gonic/gin"
)

type OrderController struct{ Orders *services.OrderService }

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

// GET /branches/:branchId/orders
func (o *OrderController) List(c *gin.Context) {
	orders, err := o.Orders.ActiveOrders(c.Param("branchId"))
	if err != nil {
		resp.ServerError(c, err); return
	}
	resp.OK(c, orders)
}

// POST /branches/:branchId/orders
func (o *OrderController) Place(c *gin.Context) {
	var in services.PlaceOrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BadRequest(c, err.Error()); return
	}
	in.PlacedBy = utils.CurrentUsername(c)
	// session ลูกค้าสั่งได้เฉพาะโต๊ะตัวเอง
	if utils.CurrentRole(c) == entity.RoleTable {
		in.TableID = 0
		in.CustomerTableID = utils.CurrentTableID(c)
		in.IsDelivery = false
	}

	order, err := o.Orders.Place(c.Param("branchId"), in)
	if err == services.ErrEmptyOrder {
		resp.BadRequest(c, err.Error()); return
	}
	if err != nil {
		resp.ServerError(c, err); return
	}
	resp.Created(c, order)
}

// POST /branches/:branchId/orders/:id/cooking
func (o *OrderController) StartCooking(c *gin.Context) {
	o.transition(c, func(branchID string, id int64) error {
		return o.Orders.StartCooking(branchID, id)
	})
}

// POST /branches/:branchId/orders/:id/served
func (o *OrderController) MarkServed(c *gin.Context) {
	o.transition(c, func(branchID string, id int64) error {
		return o.Orders.MarkServed(branchID, id)
	})
}

type moveTableRequest struct {
	TableID int `json:"tableId" binding:"required"`
}

// POST /branches/:branchId/orders/:id/move
func (o *OrderController) MoveTable(c *gin.Context) {
	var req moveTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error()); return
	}
	o.transition(c, func(branchID string, id int64) error {
		return o.Orders.MoveTable(branchID, id, req.TableID)
	})
}

type updateItemsRequest struct {
	Items         []entity.OrderItem `json:"items" binding:"required"`
	CustomerCount int                `json:"customerCount"`
}

// PUT /branches/:branchId/orders/:id/items
func (o *OrderController) UpdateItems(c *gin.Context) {
	var req updateItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error()); return
	}
	o.transition(c, func(branchID string, id int64) error {
		return o.Orders.UpdateItems(branchID, id, req.Items, req.CustomerCount)
	})
}

type splitRequest struct {
	Items []services.SplitItem `json:"items" binding:"required"`
}

// POST /branches/:branchId/orders/:id/split
func (o *OrderController) Split(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	var req splitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error()); return
	}

	child, err := o.Orders.Split(c.Param("branchId"), id, req.Items)
	switch err {
	case nil:
		resp.Created(c, child)
	case services.ErrOrderNotFound:
		resp.Conflict(c, err.Error())
	case services.ErrBadSplit:
		resp.BadRequest(c, err.Error())
	default:
		resp.ServerError(c, err)
	}
}

type mergeRequest struct {
	SourceIDs []int64 `json:"sourceIds" binding:"required"`
}

// POST /branches/:branchId/orders/:id/merge — :id คือบิลปลายทาง
func (o *OrderController) Merge(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	var req mergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error()); return
	}

	target, err := o.Orders.Merge(c.Param("branchId"), id, req.SourceIDs)
	switch err {
	case nil:
		resp.OK(c, target)
	case services.ErrOrderNotFound, services.ErrNoSourceOrders:
		resp.Conflict(c, err.Error())
	default:
		resp.ServerError(c, err)
	}
}

type cancelRequest struct {
	Reason string `json:"reason" binding:"required"`
	Notes  string `json:"notes"`
}

// POST /branches/:branchId/orders/:id/cancel
func (o *OrderController) Cancel(c *gin.Context) {
	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error()); return
	}
	o.transition(c, func(branchID string, id int64) error {
		return o.Orders.Cancel(branchID, id, req.Reason, req.Notes, utils.CurrentUsername(c))
	})
}

// POST /branches/:branchId/orders/:id/payment
func (o *OrderController) ConfirmPayment(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	var payment entity.PaymentDetails
	if err := c.ShouldBindJSON(&payment); err != nil {
		resp.BadRequest(c, err.Error()); return
	}

	completed, err := o.Orders.ConfirmPayment(c.Param("branchId"), id, payment, utils.CurrentUsername(c))
	switch err {
	case nil:
		resp.OK(c, completed)
	case services.ErrOrderNotFound:
		resp.Conflict(c, err.Error())
	default:
		resp.ServerError(c, err)
	}
}

// transition จัดการ pattern ซ้ำ ๆ: อ่าน id, เรียก service, map error
func (o *OrderController) transition(c *gin.Context, fn func(branchID string, id int64) error) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	err := fn(c.Param("branchId"), id)
	switch err {
	case nil:
		resp.OK(c, gin.H{"id": id})
	case services.ErrOrderNotFound:
		// บิลโดนปิดไปแล้วจากเครื่องอื่น — client ต้อง refresh
		resp.Conflict(c, err.Error())
	case services.ErrEmptyOrder:
		resp.BadRequest(c, err.Error())
	default:
		resp.ServerError(c, err)
	}
}

func orderID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		resp.BadRequest(c, "invalid order id")
		return 0, false
	}
	return id, true
}
