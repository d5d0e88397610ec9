package item

import (
	"net/http"

	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/logx"
	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/mw"
	v1 "github.com/thearchitector/zero-knowledge-poc/internal/transport/web/v1"
)

// List godoc
// @Summary  Все айтемы без контента (отладочная ручка)
// @Tags     items
// @Produce  json
// @Success  200 {object} domain.APIEnvelope{data=[]domain.Item}
// @Router   /v1/items [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "item.list"
	reqID := mw.RequestIDFromCtx(r.Context())

	items, err := h.Items.ItemsList(r.Context())
	if err != nil {
		logx.Error(h.Log, reqID, op, "list failed", err)
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, items)
}
