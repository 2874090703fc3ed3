package main

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/Nhongkham198/POS-Sirimokol/configs"
	"github.com/Nhongkham198/POS-Sirimokol/entity"
	"github.com/Nhongkham198/POS-Sirimokol/repository"
	"github.com/Nhongkham198/POS-Sirimokol/routes"
	"github.com/Nhongkham198/POS-Sirimokol/services"
	"github.com/Nhongkham198/POS-Sirimokol/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func main() {
	cfg := configs.LoadConfig()

	// DB
	configs.ConnectionDB(cfg.DBSource)
	db := configs.DB()

	// migrate
	configs.SetupDatabase()

	if err := configs.SeedStore(); err != nil {
		log.Fatalf("seed store failed: %v", err)
	}

	// Services
	store := services.NewStoreService(db)
	orders := services.NewOrderService(db, store)
	calls := services.NewStaffCallService(store)
	tables := services.NewTableService(store, orders)
	auth := services.NewAuthService(repository.NewUserRepository(db), cfg.JWTSecret, cfg.JWTTTL)

	// Realtime hub — เสียบเข้า store เป็น notifier แล้วค่อยเริ่มรับ client
	hub := ws.NewSyncHub(store)
	store.Notifier = hub
	go hub.Run()

	// เก็บกวาด ghost order จากการ shutdown กลางคันรอบก่อน
	for _, branchID := range branchIDs(db) {
		removed, err := orders.Reconcile(branchID)
		if err != nil {
			log.Printf("reconcile branch %s failed: %v", branchID, err)
		} else if removed > 0 {
			log.Printf("🧹 branch %s: swept %d finalized orders out of active set", branchID, removed)
		}
	}

	// HTTP
	r := gin.Default()

	// ✅ Register API routes
	routes.RegisterRoutes(r, routes.Deps{
		Cfg:   cfg,
		Store: store,
		Order: orders,
		Calls: calls,
		Table: tables,
		Auth:  auth,
		Hub:   hub,
	})

	// ✅ Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Println("🚀 POS sync server running at", addr)
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}

func branchIDs(db *gorm.DB) []string {
	docs := repository.NewDocumentRepository(db)
	doc, found, err := docs.Get("", entity.DocBranches)
	if err != nil || !found {
		return nil
	}
	var branches []entity.Branch
	if err := json.Unmarshal(doc.Value, &branches); err != nil {
		return nil
	}
	ids := make([]string, 0, len(branches))
	for _, b := range branches {
		ids = append(ids, strconv.Itoa(b.ID))
	}
	return ids
}
