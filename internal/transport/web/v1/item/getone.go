package item

import (
	"encoding/json"
	"net/http"

	"github.com/thearchitector/zero-knowledge-poc/internal/domain"
	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/logx"
	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/mw"
	v1 "github.com/thearchitector/zero-knowledge-poc/internal/transport/web/v1"
)

// GetOne godoc
// @Summary  Метаданные айтема (без контента)
// @Tags     items
// @Produce  json
// @Param    id path int true "id айтема"
// @Success  200 {object} domain.APIEnvelope{data=domain.Item}
// @Failure  403 {object} domain.APIEnvelope
// @Router   /v1/items/{id} [get]
func (h *Handler) GetOne(w http.ResponseWriter, r *http.Request) {
	const op = "item.get"
	ctx := r.Context()
	reqID := mw.RequestIDFromCtx(ctx)

	id, err := v1.ParseID(r.PathValue("id"))
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}

	if h.Cache != nil {
		if raw, err := h.Cache.Get(ctx, domain.CacheKeyItemMeta(id)); err == nil && raw != nil {
			var it domain.Item
			if json.Unmarshal(raw, &it) == nil {
				v1.WriteOKData(w, r, it)
				return
			}
		}
	}

	it, err := h.Items.ItemByID(ctx, id)
	if err != nil {
		logx.Error(h.Log, reqID, op, "lookup failed", err, "item_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	if h.Cache != nil {
		if raw, err := json.Marshal(it); err == nil {
			_ = h.Cache.Set(ctx, domain.CacheKeyItemMeta(id), raw, h.TTL)
		}
	}

	v1.WriteOKData(w, r, it)
}
