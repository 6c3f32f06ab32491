package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cupify/storefront/internal/auth"
	"github.com/cupify/storefront/internal/store"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AuthService interface {
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context, token string) error
	Verify(ctx context.Context, token string) error
}

type AdminHandler struct {
	Auth      AuthService
	Orders    OrderStore
	Inventory InventoryStore
	Packs     PackStore
	Settings  SettingsStore
	Images    ImageStore
	Log       *zap.Logger
}

func (h *AdminHandler) Register(r chi.Router) {
	r.Route("/api/admin", func(r chi.Router) {
		r.Post("/login", h.login)
		r.Post("/logout", h.logout)

		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth)
			r.Get("/orders", h.listOrders)
			r.Put("/orders/{id}/status", h.setOrderStatus)
			r.Put("/inventory/{colorCode}", h.updateInventory)
			r.Get("/settings", h.getSettings)
			r.Put("/settings", h.putSettings)
			r.Put("/packs/{size}", h.updatePack)
			r.Put("/images", h.saveImage)
			r.Delete("/images/{id}", h.deleteImage)
		})
	})
}

func bearerToken(r *http.Request) string {
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}

func (h *AdminHandler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" || h.Auth.Verify(r.Context(), token) != nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *AdminHandler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	token, err := h.Auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.Log.Error("login failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *AdminHandler) logout(w http.ResponseWriter, r *http.Request) {
	if token := bearerToken(r); token != "" {
		_ = h.Auth.Logout(r.Context(), token)
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AdminHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orders, err := h.Orders.List(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	if orders == nil {
		orders = []store.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *AdminHandler) setOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	status, ok := store.ParseStatus(req.Status)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	err := h.Orders.SetStatus(ctx, chi.URLParam(r, "id"), status)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "status": status})
	case errors.Is(err, store.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, "Order not found")
	case errors.Is(err, store.ErrBadTransition), errors.Is(err, store.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "Failed to update order status")
	}
}

func (h *AdminHandler) updateInventory(w http.ResponseWriter, r *http.Request) {
	var u store.InventoryUpdate
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	err := h.Inventory.Update(ctx, chi.URLParam(r, "colorCode"), u)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	case errors.Is(err, store.ErrColorNotFound):
		writeError(w, http.StatusNotFound, "Color not found")
	case errors.Is(err, store.ErrNegativeStock), errors.Is(err, store.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "Failed to update inventory")
	}
}

func (h *AdminHandler) getSettings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	all, err := h.Settings.All(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch settings")
		return
	}
	writeJSON(w, http.StatusOK, all)
}

func (h *AdminHandler) putSettings(w http.ResponseWriter, r *http.Request) {
	var settings map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil || len(settings) == 0 {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Settings.Put(ctx, settings); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update settings")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AdminHandler) updatePack(w http.ResponseWriter, r *http.Request) {
	size, err := strconv.Atoi(chi.URLParam(r, "size"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid pack size")
		return
	}
	var u store.PackUpdate
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Packs.Update(ctx, size, u); err != nil {
		if errors.Is(err, store.ErrValidation) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update pack config")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AdminHandler) saveImage(w http.ResponseWriter, r *http.Request) {
	var a store.ImageAsset
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if a.Category == "" || a.RefKey == "" || a.ImageURL == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Images.Upsert(ctx, a); err != nil {
		h.Log.Error("image save failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to save image")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AdminHandler) deleteImage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Images.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete image")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
