package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"bloodfinder-backend/internal/matching"
	"bloodfinder-backend/internal/models"
	"bloodfinder-backend/internal/notify"
	"bloodfinder-backend/internal/repository"
)

type InventoryHandler struct {
	inventoryRepo *repository.InventoryRepo
	notifier      notify.Notifier
}

func NewInventoryHandler(inventoryRepo *repository.InventoryRepo, notifier notify.Notifier) *InventoryHandler {
	return &InventoryHandler{
		inventoryRepo: inventoryRepo,
		notifier:      notifier,
	}
}

// --- POST /api/inventory/add (admin) ---

type AddInventoryRequest struct {
	BloodGroup    string `json:"bloodGroup" validate:"required,oneof=O+ O- A+ A- B+ B- AB+ AB-"`
	Hospital      string `json:"hospital" validate:"required"`
	City          string `json:"city" validate:"required"`
	Quantity      int    `json:"quantity" validate:"min=0"`
	UnitType      string `json:"unitType" validate:"omitempty,oneof=ml units bags"`
	ExpiryDate    string `json:"expiryDate"`
	ContactNumber string `json:"contactNumber"`
	Notes         string `json:"notes"`
}

// Add receives new stock. An existing (bloodGroup, hospital, city) record
// absorbs the quantity additively; otherwise a new record is created.
// Either way units and status are recomputed from the resulting quantity.
func (h *InventoryHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddInventoryRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid inventory details")
		return
	}

	quantityML := matching.ToMilliliters(req.Quantity, req.UnitType)

	var expiry *time.Time
	if req.ExpiryDate != "" {
		t, err := parseDate(req.ExpiryDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid expiry date")
			return
		}
		expiry = &t
	}

	existing, err := h.inventoryRepo.FindByTriple(r.Context(), req.BloodGroup, req.Hospital, req.City)
	if err != nil {
		log.Printf("Error looking up inventory: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to add inventory")
		return
	}

	if existing != nil {
		updated, err := h.inventoryRepo.AddQuantity(r.Context(), existing.ID, quantityML, expiry, req.ContactNumber, req.Notes)
		if err != nil {
			log.Printf("Error merging inventory: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to add inventory")
			return
		}
		h.alertIfCritical(updated)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":   true,
			"message":   "Inventory updated successfully! Added to existing record.",
			"inventory": updated,
		})
		return
	}

	inv := &models.BloodInventory{
		BloodGroup:    req.BloodGroup,
		Hospital:      req.Hospital,
		City:          req.City,
		Quantity:      quantityML,
		ExpiryDate:    expiry,
		ContactNumber: req.ContactNumber,
		Notes:         req.Notes,
	}
	if err := h.inventoryRepo.Create(r.Context(), inv); err != nil {
		log.Printf("Error creating inventory: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to add inventory")
		return
	}
	h.alertIfCritical(inv)

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":   true,
		"message":   "New inventory record created successfully!",
		"inventory": inv,
	})
}

func (h *InventoryHandler) alertIfCritical(inv *models.BloodInventory) {
	if inv == nil || inv.Status != models.InventoryCritical {
		return
	}
	go func() {
		message := fmt.Sprintf("%s stock at %s (%s) is critical: %dml (%d units) on hand",
			inv.BloodGroup, inv.Hospital, inv.City, inv.Quantity, inv.UnitsAvailable)
		if err := h.notifier.Publish(context.Background(), "Critical blood stock", message); err != nil {
			log.Printf("Error publishing inventory alert: %v", err)
		}
	}()
}

// --- GET /api/inventory/search (public) ---

func (h *InventoryHandler) Search(w http.ResponseWriter, r *http.Request) {
	records, err := h.inventoryRepo.Search(r.Context(),
		r.URL.Query().Get("bloodGroup"),
		r.URL.Query().Get("city"),
		r.URL.Query().Get("hospital"),
	)
	if err != nil {
		log.Printf("Error searching inventory: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to search inventory")
		return
	}

	writeJSON(w, http.StatusOK, records)
}

// --- GET /api/inventory/all (admin) ---

func (h *InventoryHandler) All(w http.ResponseWriter, r *http.Request) {
	records, err := h.inventoryRepo.FindAll(r.Context())
	if err != nil {
		log.Printf("Error fetching inventory: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get inventory")
		return
	}

	writeJSON(w, http.StatusOK, records)
}

// --- PUT /api/inventory/{inventoryID}/update (admin) ---

type UpdateInventoryRequest struct {
	Quantity *int   `json:"quantity" validate:"omitempty,min=0"`
	Status   string `json:"status" validate:"omitempty,oneof=available low critical expired"`
	Notes    string `json:"notes"`
}

func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	inventoryID, err := pathID(r, "inventoryID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid inventory id")
		return
	}

	var req UpdateInventoryRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid update details")
		return
	}

	existing, err := h.inventoryRepo.FindByID(r.Context(), inventoryID)
	if err != nil {
		log.Printf("Error finding inventory: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update inventory")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Inventory not found")
		return
	}

	// A quantity overwrite re-derives the status unless the request pins
	// one explicitly (the way "expired" is set).
	status := models.InventoryStatus(req.Status)
	if req.Quantity != nil && status == "" {
		status = matching.InventoryStatus(*req.Quantity, existing.MinimumThreshold)
	}

	if err := h.inventoryRepo.Update(r.Context(), inventoryID, req.Quantity, status, req.Notes); err != nil {
		log.Printf("Error updating inventory: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update inventory")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Inventory updated successfully",
	})
}

// --- GET /api/inventory/alerts (admin) ---

func (h *InventoryHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	records, err := h.inventoryRepo.Alerts(r.Context())
	if err != nil {
		log.Printf("Error fetching inventory alerts: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get inventory alerts")
		return
	}

	writeJSON(w, http.StatusOK, records)
}
