package handler

import (
	"errors"
	"net/http"
	"strconv"

	"kiranastock/internal/app/inventory/entity"
	"kiranastock/internal/app/inventory/orderlist"
	"kiranastock/internal/app/inventory/service"
	"kiranastock/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// InventoryHandler maps the REST endpoints onto the inventory service.
type InventoryHandler struct {
	inventoryService service.InventoryServiceInterface
	validator        *validator.Validate
}

func NewInventoryHandler(inventoryService service.InventoryServiceInterface) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
		validator:        validator.New(),
	}
}

// === CATEGORIES ===

// GetAllCategories handles GET /api/categories (served from the Redis
// cache when warm).
func (h *InventoryHandler) GetAllCategories(c *gin.Context) {
	categories, err := h.inventoryService.GetAllCategories(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to get categories")
		return
	}
	c.JSON(http.StatusOK, categories)
}

// CreateCategory handles POST /api/categories.
func (h *InventoryHandler) CreateCategory(c *gin.Context) {
	var req entity.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := h.inventoryService.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNameTaken) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to create category")
		return
	}

	c.JSON(http.StatusCreated, category)
}

// UpdateCategory handles PUT /api/categories/:id. Not-found maps to 400
// on this endpoint.
func (h *InventoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c, "invalid category ID")
	if !ok {
		return
	}

	var req entity.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := h.inventoryService.UpdateCategory(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) || errors.Is(err, service.ErrCategoryNameTaken) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to update category")
		return
	}

	c.JSON(http.StatusOK, category)
}

// DeleteCategory handles DELETE /api/categories/:id. Items of the deleted
// category are reassigned, never deleted; removing the only category is a
// conflict.
func (h *InventoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c, "invalid category ID")
	if !ok {
		return
	}

	if err := h.inventoryService.DeleteCategory(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) || errors.Is(err, service.ErrLastCategory) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to delete category")
		return
	}

	c.Status(http.StatusNoContent)
}

// === ITEMS ===

// GetAllItems handles GET /api/items with an optional category_id filter.
func (h *InventoryHandler) GetAllItems(c *gin.Context) {
	var categoryID int64
	if raw := c.Query("category_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid category_id filter")
			return
		}
		categoryID = parsed
	}

	items, err := h.inventoryService.GetAllItems(c.Request.Context(), categoryID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to get items")
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetItem handles GET /api/items/:id. Absence is 404 on this endpoint.
func (h *InventoryHandler) GetItem(c *gin.Context) {
	id, ok := parseID(c, "invalid item ID")
	if !ok {
		return
	}

	item, err := h.inventoryService.GetItem(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			respondError(c, http.StatusNotFound, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to get item")
		return
	}

	c.JSON(http.StatusOK, item)
}

// CreateItem handles POST /api/items.
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	var req entity.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, formatValidationError(err))
		return
	}

	item, err := h.inventoryService.CreateItem(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrCategoryRequired) || errors.Is(err, service.ErrCategoryNotFound) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to create item")
		return
	}

	c.JSON(http.StatusCreated, item)
}

// UpdateItem handles PUT /api/items/:id with partial-update semantics:
// absent fields keep their stored values.
func (h *InventoryHandler) UpdateItem(c *gin.Context) {
	id, ok := parseID(c, "invalid item ID")
	if !ok {
		return
	}

	var req entity.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.inventoryService.UpdateItem(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) ||
			errors.Is(err, service.ErrCategoryRequired) ||
			errors.Is(err, service.ErrCategoryNotFound) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to update item")
		return
	}

	c.JSON(http.StatusOK, item)
}

// DeleteItem handles DELETE /api/items/:id.
func (h *InventoryHandler) DeleteItem(c *gin.Context) {
	id, ok := parseID(c, "invalid item ID")
	if !ok {
		return
	}

	if err := h.inventoryService.DeleteItem(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to delete item")
		return
	}

	c.Status(http.StatusNoContent)
}

// === ORDER LIST ===

// RenderOrderSummary handles POST /api/orderlist/summary. The client keeps
// its order list locally; this endpoint is the single rendering contract
// shared by the clipboard-copy and print-preview export paths.
func (h *InventoryHandler) RenderOrderSummary(c *gin.Context) {
	var req entity.OrderSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, formatValidationError(err))
		return
	}

	list := orderlist.New()
	for _, e := range req.Entries {
		list.Add(e.ItemID, e.Name, e.CategoryName, e.Price)
		list.SetQuantity(e.ItemID, e.Quantity)
	}

	metrics.OrderSummariesRendered.Inc()
	c.JSON(http.StatusOK, entity.OrderSummaryResponse{Summary: list.RenderSummary()})
}

// === HELPERS ===

func parseID(c *gin.Context, message string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, message)
		return 0, false
	}
	return id, true
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, entity.ErrorResponse{Error: message})
}

func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		fe := validationErrors[0]
		if fe.Tag() == "required" {
			return fe.Field() + " is required"
		}
		return fe.Field() + " validation failed"
	}
	return "validation failed"
}
