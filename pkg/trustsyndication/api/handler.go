// Package api exposes the trust syndication HTTP endpoints.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/campusweb/trust-syndication/pkg/trustsyndication"
)

// Handler handles HTTP requests for trust metadata and syndication
type Handler struct {
	service   trustsyndication.Service
	tokenAuth *jwtauth.JWTAuth
}

// NewHandler creates a new handler. A nil tokenAuth disables permission
// checks (development mode).
func NewHandler(service trustsyndication.Service, tokenAuth *jwtauth.JWTAuth) *Handler {
	return &Handler{
		service:   service,
		tokenAuth: tokenAuth,
	}
}

// Routes returns the routes for the trust syndication endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/trust-syndication", func(r chi.Router) {
		r.Get("/topics", h.GetTopics)
		r.Get("/view/{itemID}", h.ViewMetadata)

		r.Group(func(r chi.Router) {
			r.Use(RequirePermission(h.tokenAuth, PermissionManage))
			r.Post("/save/{itemID}", h.SaveMetadata)
			r.Post("/toggle/{itemID}", h.ToggleSyndication)
			r.Get("/overview", h.Overview)
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/syndication/report-view/{itemID}", h.ReportView)
		r.Get("/syndicated-nodes", h.ListSyndicated)

		r.Group(func(r chi.Router) {
			r.Use(RequirePermission(h.tokenAuth, PermissionView))
			r.Get("/syndication/analytics/{itemID}", h.GetAnalytics)
		})
	})

	return r
}

// MetadataData is the metadata payload of the view/save responses.
type MetadataData struct {
	ItemID                  string                     `json:"item_id"`
	TrustRole               trustsyndication.TrustRole `json:"trust_role"`
	TrustScope              trustsyndication.TrustScope `json:"trust_scope"`
	Type                    string                      `json:"type,omitempty"`
	Timeliness              trustsyndication.Timeliness `json:"timeliness,omitempty"`
	Audience                trustsyndication.Audience   `json:"audience,omitempty"`
	TrustContact            string                      `json:"trust_contact"`
	TrustTopics             []string                    `json:"trust_topics"`
	TrustTopicIDs           []int64                     `json:"trust_topic_ids"`
	TrustSyndicationEnabled bool                        `json:"trust_syndication_enabled"`
	NodeSummary             string                      `json:"node_summary"`
	NodeAbstract            string                      `json:"node_abstract,omitempty"`
	ContentAuthority        string                      `json:"content_authority"`
}

// SaveMetadataRequest is the request body for saving trust metadata. Omitted
// fields keep their stored values.
type SaveMetadataRequest struct {
	TrustRole               *string `json:"trust_role"`
	TrustScope              *string `json:"trust_scope"`
	Type                    *string `json:"type"`
	Timeliness              *string `json:"timeliness"`
	Audience                *string `json:"audience"`
	TrustContact            *string `json:"trust_contact"`
	TrustTopics             []int64 `json:"trust_topics"`
	TrustSyndicationEnabled *bool   `json:"trust_syndication_enabled"`
}

func (h *Handler) itemID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "itemID")
	id, err := uuid.Parse(idStr)
	if err != nil {
		slog.Error("Invalid item ID", "item_id", idStr, "error", err)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]interface{}{
			"success": false,
			"message": "Invalid item ID",
		})
		return uuid.Nil, false
	}
	return id, true
}

// ViewMetadata returns trust metadata for an item, with resolved topic names
// and the item's summary. A missing record yields default-empty metadata.
func (h *Handler) ViewMetadata(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	data, status := h.metadataData(w, r, id)
	if status != http.StatusOK {
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

// SaveMetadata merges the posted fields into the item's trust record.
func (h *Handler) SaveMetadata(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	var body SaveMetadataRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]interface{}{
			"success": false,
			"message": "Invalid request data.",
		})
		return
	}

	req := trustsyndication.UpdateMetadataRequest{
		ItemID:                  id,
		Type:                    body.Type,
		TrustContact:            body.TrustContact,
		TrustTopics:             body.TrustTopics,
		TrustSyndicationEnabled: body.TrustSyndicationEnabled,
	}
	if body.TrustRole != nil {
		role := trustsyndication.TrustRole(*body.TrustRole)
		req.TrustRole = &role
	}
	if body.TrustScope != nil {
		scope := trustsyndication.TrustScope(*body.TrustScope)
		req.TrustScope = &scope
	}
	if body.Timeliness != nil {
		timeliness := trustsyndication.Timeliness(*body.Timeliness)
		req.Timeliness = &timeliness
	}
	if body.Audience != nil {
		audience := trustsyndication.Audience(*body.Audience)
		req.Audience = &audience
	}

	if _, err := h.service.UpdateMetadata(r.Context(), req); err != nil {
		if isValidationError(err) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]interface{}{
				"success": false,
				"message": err.Error(),
			})
			return
		}
		slog.Error("Failed to update trust metadata", "item_id", id, "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]interface{}{
			"success": false,
			"message": "Failed to update trust metadata.",
		})
		return
	}

	data, status := h.metadataData(w, r, id)
	if status != http.StatusOK {
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"success": true,
		"message": "Trust metadata has been updated.",
		"data":    data,
	})
}

// ToggleSyndication flips or sets the syndication-enabled flag. An optional
// JSON body {"enabled": bool} sets the state explicitly; without it the
// current state is inverted.
func (h *Handler) ToggleSyndication(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	var body struct {
		Enabled *bool `json:"enabled"`
	}
	// Body is optional; ignore decode errors and fall back to flipping.
	_ = json.NewDecoder(r.Body).Decode(&body)

	var enabled bool
	if body.Enabled != nil {
		enabled = *body.Enabled
	} else {
		current, err := h.service.GetMetadata(r.Context(), id)
		if err != nil {
			slog.Error("Failed to load trust metadata for toggle", "item_id", id, "error", err)
			h.renderToggleFailure(w, r)
			return
		}
		enabled = !current.TrustSyndicationEnabled
	}

	if _, err := h.service.ToggleSyndication(r.Context(), id, enabled); err != nil {
		slog.Error("Failed to toggle trust syndication", "item_id", id, "error", err)
		h.renderToggleFailure(w, r)
		return
	}

	message := "Trust syndication disabled for this content."
	if enabled {
		message = "Trust syndication enabled for this content."
	}

	render.JSON(w, r, map[string]interface{}{
		"success":  true,
		"newState": enabled,
		"message":  message,
	})
}

func (h *Handler) renderToggleFailure(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, map[string]interface{}{
		"success": false,
		"message": "Failed to update trust syndication status.",
	})
}

// GetTopics returns the trust-topics vocabulary.
func (h *Handler) GetTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.service.ListTopics(r.Context())
	if err != nil {
		slog.Error("Failed to list trust topics", "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]interface{}{
			"success": false,
			"message": "Failed to load trust topics.",
		})
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"success": true,
		"terms":   topics,
	})
}

// Overview returns one page of the admin overview listing.
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := trustsyndication.OverviewFilters{
		TrustRole:    trustsyndication.TrustRole(q.Get("trust_role")),
		TrustScope:   trustsyndication.TrustScope(q.Get("trust_scope")),
		Timeliness:   trustsyndication.Timeliness(q.Get("timeliness")),
		Audience:     trustsyndication.Audience(q.Get("audience")),
		TrustContact: q.Get("trust_contact"),
		SortBy:       q.Get("sort"),
		SortOrder:    q.Get("order"),
	}
	if v := q.Get("syndication_status"); v != "" {
		enabled := v == "1" || v == "true"
		filters.SyndicationStatus = &enabled
	}
	if v := q.Get("page"); v != "" {
		if page, err := strconv.Atoi(v); err == nil {
			filters.Page = page
		}
	}

	page, err := h.service.Overview(r.Context(), filters)
	if err != nil {
		slog.Error("Failed to build overview", "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]interface{}{
			"success": false,
			"message": "Failed to load overview.",
		})
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"success": true,
		"data":    page,
	})
}

// ReportView records one consumer-site view of a syndicated item.
func (h *Handler) ReportView(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "itemID")
	id, err := uuid.Parse(idStr)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]interface{}{"error": "Invalid item ID"})
		return
	}

	consumerSite := resolveConsumerSite(r)
	if consumerSite == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]interface{}{"error": "Consumer site identifier required"})
		return
	}

	if _, err := h.service.ReportView(r.Context(), id, consumerSite); err != nil {
		switch {
		case errors.Is(err, trustsyndication.ErrMetadataNotFound):
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, map[string]interface{}{"error": "Trust metadata not found"})
		case errors.Is(err, trustsyndication.ErrSyndicationNotEnabled):
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, map[string]interface{}{"error": "Syndication not enabled"})
		case errors.Is(err, trustsyndication.ErrConsumerSiteRequired):
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]interface{}{"error": "Consumer site identifier required"})
		default:
			slog.Error("Error reporting view", "item_id", id, "error", err)
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]interface{}{"error": "Internal server error"})
		}
		return
	}

	render.JSON(w, r, map[string]interface{}{"success": true})
}

// GetAnalytics returns the item's view counters.
func (h *Handler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "itemID")
	id, err := uuid.Parse(idStr)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]interface{}{"error": "Invalid item ID"})
		return
	}

	analytics, err := h.service.GetAnalytics(r.Context(), id)
	if err != nil {
		slog.Error("Failed to get analytics", "item_id", id, "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]interface{}{"error": "Internal server error"})
		return
	}

	render.JSON(w, r, analytics)
}

// ListSyndicated returns the syndication feed.
func (h *Handler) ListSyndicated(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListSyndicated(r.Context())
	if err != nil {
		slog.Error("Error fetching syndicated nodes", "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]interface{}{
			"errors": []map[string]string{
				{
					"status": "500",
					"title":  "Internal Server Error",
					"detail": "An error occurred while fetching syndicated nodes.",
				},
			},
		})
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"data": entries,
		"meta": map[string]int{"count": len(entries)},
	})
}

// metadataData assembles the view/save response payload for an item. Writes
// an error response and returns a non-OK status when the item is missing or
// a lookup fails.
func (h *Handler) metadataData(w http.ResponseWriter, r *http.Request, id uuid.UUID) (*MetadataData, int) {
	ctx := r.Context()

	metadata, err := h.service.GetMetadata(ctx, id)
	if err != nil {
		slog.Error("Failed to get trust metadata", "item_id", id, "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]interface{}{
			"success": false,
			"message": "Failed to load trust metadata.",
		})
		return nil, http.StatusInternalServerError
	}

	topicNames, err := h.service.TopicNames(ctx, metadata.TrustTopics)
	if err != nil {
		slog.Error("Failed to resolve trust topics", "item_id", id, "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]interface{}{
			"success": false,
			"message": "Failed to load trust metadata.",
		})
		return nil, http.StatusInternalServerError
	}

	data := &MetadataData{
		ItemID:                  id.String(),
		TrustRole:               metadata.TrustRole,
		TrustScope:              metadata.TrustScope,
		Type:                    metadata.Type,
		Timeliness:              metadata.Timeliness,
		Audience:                metadata.Audience,
		TrustContact:            metadata.TrustContact,
		TrustTopics:             topicNames,
		TrustTopicIDs:           metadata.TrustTopics,
		TrustSyndicationEnabled: metadata.TrustSyndicationEnabled,
		ContentAuthority:        h.service.ContentAuthority(),
	}

	item, err := h.service.GetContentItem(ctx, id)
	switch {
	case err == nil:
		data.NodeSummary = item.Summary()
		data.NodeAbstract = item.Abstract
	case errors.Is(err, trustsyndication.ErrContentNotFound):
		// Metadata can exist ahead of the content item; serve it without a
		// summary.
	default:
		slog.Error("Failed to load content item", "item_id", id, "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]interface{}{
			"success": false,
			"message": "Failed to load trust metadata.",
		})
		return nil, http.StatusInternalServerError
	}

	return data, http.StatusOK
}

// resolveConsumerSite applies the consumer-site identification policy:
// explicit header or query parameter, then the Referer host, then the
// client IP.
func resolveConsumerSite(r *http.Request) string {
	if site := strings.TrimSpace(r.Header.Get("X-Consumer-Site")); site != "" {
		return site
	}
	if site := strings.TrimSpace(r.URL.Query().Get("consumer_site")); site != "" {
		return site
	}

	if referer := r.Header.Get("Referer"); referer != "" {
		if parsed, err := url.Parse(referer); err == nil && parsed.Host != "" {
			return parsed.Hostname()
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}

func isValidationError(err error) bool {
	return errors.Is(err, trustsyndication.ErrInvalidTrustRole) ||
		errors.Is(err, trustsyndication.ErrInvalidTrustScope) ||
		errors.Is(err, trustsyndication.ErrInvalidTimeliness) ||
		errors.Is(err, trustsyndication.ErrInvalidAudience)
}
