package routes

import (
	"github.com/Nhongkham198/POS-Sirimokol/configs"
	"github.com/Nhongkham198/POS-Sirimokol/controllers"
	"github.com/Nhongkham198/POS-Sirimokol/entity"
	"github.com/Nhongkham198/POS-Sirimokol/middlewares"
	"github.com/Nhongkham198/POS-Sirimokol/services"
	"github.com/Nhongkham198/POS-Sirimokol/ws"

	"github.com/gin-gonic/gin"
)

// Deps คือ service ที่ main ประกอบเสร็จแล้ว
type Deps struct {
	Cfg   *configs.Config
	Store *services.StoreService
	Order *services.OrderService
	Calls *services.StaffCallService
	Table *services.TableService
	Auth  *services.AuthService
	Hub   *ws.SyncHub
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.Use(middlewares.CORSMiddleware())
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	// Controllers
	authCtrl := controllers.NewAuthController(d.Auth)
	storeCtrl := controllers.NewStoreController(d.Store)
	orderCtrl := controllers.NewOrderController(d.Order)
	historyCtrl := controllers.NewHistoryController(d.Order)
	callCtrl := controllers.NewStaffCallController(d.Calls)
	tableCtrl := controllers.NewTableController(d.Table)

	// Auth (public)
	a := r.Group("/auth")
	{
		a.POST("/login", authCtrl.Login)
	}
	a.POST("/password", middlewares.AuthMiddleware(entity.RoleAdmin), authCtrl.ChangePassword)

	// Realtime sync — token มาทาง ?token= เพราะ browser WS ใส่ header ไม่ได้
	r.GET("/ws/sync", middlewares.WSAuthMiddleware(d.Cfg.JWTSecret), d.Hub.HandleWebSocket)

	staff := []string{entity.RoleAdmin, entity.RoleBranchAdmin, entity.RolePOS, entity.RoleKitchen}
	anyone := append(append([]string{}, staff...), entity.RoleAuditor, entity.RoleTable)

	b := r.Group("/branches/:branchId")

	// Document/record store — เขียนตรงได้เฉพาะ staff (config, เมนู, โลโก้ ฯลฯ)
	store := b.Group("", middlewares.AuthMiddleware(staff...))
	{
		store.PUT("/docs/:name", storeCtrl.SetDocument)
		store.POST("/collections/:name", storeCtrl.AddRecord)
		store.PATCH("/collections/:name/:id", storeCtrl.UpdateRecord)
		store.DELETE("/collections/:name/:id", storeCtrl.RemoveRecord)
	}
	// อ่านได้ทุก role (tablet โต๊ะต้องเห็นเมนู)
	read := b.Group("", middlewares.AuthMiddleware(anyone...))
	{
		read.GET("/docs/:name", storeCtrl.GetDocument)
		read.GET("/collections/:name", storeCtrl.ListRecords)
	}

	// Order lifecycle
	orders := b.Group("/orders", middlewares.AuthMiddleware(anyone...))
	{
		orders.GET("", orderCtrl.List)
		orders.POST("", orderCtrl.Place) // ลูกค้าข้างโต๊ะสั่งเองได้
	}
	staffOrders := b.Group("/orders", middlewares.AuthMiddleware(staff...))
	{
		staffOrders.POST("/:id/cooking", orderCtrl.StartCooking)
		staffOrders.POST("/:id/served", orderCtrl.MarkServed)
		staffOrders.POST("/:id/move", orderCtrl.MoveTable)
		staffOrders.PUT("/:id/items", orderCtrl.UpdateItems)
		staffOrders.POST("/:id/split", orderCtrl.Split)
		staffOrders.POST("/:id/merge", orderCtrl.Merge)
		staffOrders.POST("/:id/cancel", orderCtrl.Cancel)
		staffOrders.POST("/:id/payment", orderCtrl.ConfirmPayment)
	}

	// ประวัติบิล
	history := b.Group("/history", middlewares.AuthMiddleware(entity.RoleAdmin, entity.RoleBranchAdmin, entity.RolePOS, entity.RoleAuditor))
	{
		history.GET("/completed", historyCtrl.Completed)
		history.GET("/cancelled", historyCtrl.Cancelled)
		history.POST("/delete", historyCtrl.Delete)
	}
	b.PUT("/history/completed/:id", middlewares.AuthMiddleware(entity.RoleAdmin), historyCtrl.EditCompleted)

	// เรียกพนักงาน
	calls := b.Group("/staff-calls", middlewares.AuthMiddleware(anyone...))
	{
		calls.GET("", callCtrl.List)
		calls.POST("", callCtrl.Call)
	}

	// ผังโต๊ะ (admin ของสาขาขึ้นไป)
	layout := b.Group("", middlewares.AuthMiddleware(entity.RoleAdmin, entity.RoleBranchAdmin))
	{
		layout.POST("/floors", tableCtrl.AddFloor)
		layout.DELETE("/floors/:name", tableCtrl.RemoveFloor)
		layout.POST("/tables", tableCtrl.AddTable)
		layout.DELETE("/tables/last", tableCtrl.RemoveLastTable)
	}
	// จองโต๊ะ/ตั้ง PIN ทำได้ถึงระดับ pos
	b.PUT("/tables/:id/reservation", middlewares.AuthMiddleware(staff...), tableCtrl.SetReservation)
	b.PUT("/tables/:id/pin", middlewares.AuthMiddleware(staff...), tableCtrl.SetPin)
}
