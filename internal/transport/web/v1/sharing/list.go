package sharing

import (
	"net/http"

	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/logx"
	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/mw"
	v1 "github.com/thearchitector/zero-knowledge-poc/internal/transport/web/v1"
)

// ListByItem godoc
// @Summary  Все Sharing-и айтема
// @Tags     sharings
// @Produce  json
// @Param    id path int true "id айтема"
// @Success  200 {object} domain.APIEnvelope{data=[]domain.Sharing}
// @Failure  400 {object} domain.APIEnvelope
// @Router   /v1/items/{id}/sharings [get]
func (h *Handler) ListByItem(w http.ResponseWriter, r *http.Request) {
	const op = "sharing.list"
	reqID := mw.RequestIDFromCtx(r.Context())

	itemID, err := v1.ParseID(r.PathValue("id"))
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}

	ss, err := h.Sharings.SharingsByItem(r.Context(), itemID)
	if err != nil {
		logx.Error(h.Log, reqID, op, "list failed", err, "item_id", itemID)
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, ss)
}
