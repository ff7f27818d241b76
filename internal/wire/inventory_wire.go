package wire

import (
	"hotel-booking/internal/adaptor"
	"hotel-booking/internal/data/repository"
	"hotel-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireInventory(r chi.Router, inventoryHandler *adaptor.InventoryHandler, repo *repository.Repository, log *zap.Logger) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/rooms/{roomID}/availability?check_in=&check_out=&units=
	r.Get("/api/rooms/{roomID}/availability", inventoryHandler.CheckAvailability)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/rooms/{roomID}/inventory", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.Admin(log))

		r.Post("/", inventoryHandler.OpenInventory)
		r.Patch("/", inventoryHandler.UpdateInventory)
		r.Get("/", inventoryHandler.Calendar)
	})
}
