package sharing

import (
	"net/http"

	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/logx"
	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/mw"
	v1 "github.com/thearchitector/zero-knowledge-poc/internal/transport/web/v1"
)

// GetOne godoc
// @Summary  Sharing пары (айтем, группа); отсутствие — 403
// @Tags     sharings
// @Produce  json
// @Param    item_id  query int true "айтем"
// @Param    group_id query int true "группа"
// @Success  200 {object} domain.APIEnvelope{data=domain.Sharing}
// @Failure  403 {object} domain.APIEnvelope
// @Router   /v1/sharings [get]
func (h *Handler) GetOne(w http.ResponseWriter, r *http.Request) {
	const op = "sharing.get"
	reqID := mw.RequestIDFromCtx(r.Context())

	q := r.URL.Query()
	itemID, err := v1.ParseID(q.Get("item_id"))
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	groupID, err := v1.ParseID(q.Get("group_id"))
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}

	s, err := h.Sharings.SharingByItemGroup(r.Context(), itemID, groupID)
	if err != nil {
		logx.Error(h.Log, reqID, op, "lookup failed", err, "item_id", itemID, "group_id", groupID)
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, s)
}
