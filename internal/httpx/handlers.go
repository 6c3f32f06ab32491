package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	kafkax "github.com/cupify/storefront/internal/kafka"
	"github.com/cupify/storefront/internal/objstore"
	"github.com/cupify/storefront/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Narrow views of the repos, so handler tests can run against fakes.
type InventoryStore interface {
	List(ctx context.Context) ([]store.InventoryItem, error)
	Update(ctx context.Context, colorCode string, u store.InventoryUpdate) error
}

type OrderStore interface {
	Create(ctx context.Context, in store.NewOrder) (store.Order, error)
	List(ctx context.Context) ([]store.Order, error)
	SetStatus(ctx context.Context, orderID string, to store.Status) error
}

type PackStore interface {
	List(ctx context.Context) ([]store.PackConfig, error)
	Update(ctx context.Context, size int, u store.PackUpdate) error
}

type SettingsStore interface {
	All(ctx context.Context) (map[string]json.RawMessage, error)
	Put(ctx context.Context, settings map[string]json.RawMessage) error
}

type ActivitySource interface {
	Lines(ctx context.Context, lang store.Language) ([]string, error)
}

type ImageStore interface {
	List(ctx context.Context) ([]store.ImageAsset, error)
	Upsert(ctx context.Context, a store.ImageAsset) error
	Delete(ctx context.Context, id string) error
}

type UploadURLIssuer interface {
	RequestUploadURL(ctx context.Context, name, contentType string, size int64) (objstore.UploadTicket, error)
}

// publicSettingKeys is the subset exposed without auth.
var publicSettingKeys = []string{
	store.SettingPackPrices,
	store.SettingDeliveryFee,
	store.SettingMinOrder,
	store.SettingWhatsAppNumber,
	store.SettingStoreActive,
}

type PublicHandler struct {
	Inventory InventoryStore
	Orders    OrderStore
	Packs     PackStore
	Settings  SettingsStore
	Activity  ActivitySource
	Images    ImageStore
	Uploads   UploadURLIssuer // nil when no bucket is configured

	Events  *kafkax.Producer // nil when no brokers are configured
	Service string
	Log     *zap.Logger
}

func (h *PublicHandler) Register(r chi.Router) {
	r.Get("/api/inventory", h.listInventory)
	r.Get("/api/packs", h.listPacks)
	r.Get("/api/settings/public", h.publicSettings)
	r.Get("/api/activity", h.activity)
	r.Get("/api/images", h.listImages)
	r.Post("/api/orders", h.createOrder)
	r.Post("/api/uploads/request-url", h.requestUploadURL)
}

func (h *PublicHandler) listInventory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	items, err := h.Inventory.List(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if items == nil {
		items = []store.InventoryItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *PublicHandler) listPacks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	packs, err := h.Packs.List(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch pack configs")
		return
	}
	if packs == nil {
		packs = []store.PackConfig{}
	}
	writeJSON(w, http.StatusOK, packs)
}

func (h *PublicHandler) publicSettings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	all, err := h.Settings.All(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch settings")
		return
	}
	public := map[string]json.RawMessage{}
	for _, k := range publicSettingKeys {
		if v, ok := all[k]; ok {
			public[k] = v
		}
	}
	writeJSON(w, http.StatusOK, public)
}

func (h *PublicHandler) activity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	lang := store.Language(r.URL.Query().Get("lang"))
	lines, err := h.Activity.Lines(ctx, lang)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Activity fetch failed")
		return
	}
	if lines == nil {
		lines = []string{}
	}
	writeJSON(w, http.StatusOK, lines)
}

func (h *PublicHandler) listImages(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	imgs, err := h.Images.List(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch images")
		return
	}
	if imgs == nil {
		imgs = []store.ImageAsset{}
	}
	writeJSON(w, http.StatusOK, imgs)
}

func (h *PublicHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var in store.NewOrder
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, err := h.Orders.Create(ctx, in)
	if err != nil {
		var short *store.InsufficientStockError
		switch {
		case errors.Is(err, store.ErrStoreClosed),
			errors.Is(err, store.ErrUnknownColor),
			errors.Is(err, store.ErrValidation),
			errors.As(err, &short):
			writeError(w, http.StatusBadRequest, store.UserMessage(err, in.Language))
		default:
			h.Log.Error("order create failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, store.UserMessage(err, in.Language))
		}
		return
	}

	h.publishOrderCreated(r, order)
	writeJSON(w, http.StatusCreated, order)
}

// publishOrderCreated emits the fire-and-forget event stream; a confirmed
// order is already committed by the time this runs.
func (h *PublicHandler) publishOrderCreated(r *http.Request, order store.Order) {
	if h.Events == nil {
		return
	}
	ev := store.Envelope{
		EventID:       uuid.NewString(),
		EventType:     store.EventOrderCreated,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       middleware.GetReqID(r.Context()),
		CorrelationID: order.ID,
		Payload:       kafkax.MustMarshal(store.OrderCreatedPayload{Order: order}),
	}
	h.Events.Publish(store.PartitionKey(order.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(store.EventOrderCreated)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (h *PublicHandler) requestUploadURL(w http.ResponseWriter, r *http.Request) {
	if h.Uploads == nil {
		writeError(w, http.StatusServiceUnavailable, "uploads are not configured")
		return
	}
	var req struct {
		Name        string `json:"name"`
		Size        int64  `json:"size"`
		ContentType string `json:"contentType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ticket, err := h.Uploads.RequestUploadURL(ctx, req.Name, req.ContentType, req.Size)
	if err != nil {
		if errors.Is(err, objstore.ErrUnsupportedType) || errors.Is(err, objstore.ErrTooLarge) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.Log.Error("presign upload failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to get upload URL")
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}
