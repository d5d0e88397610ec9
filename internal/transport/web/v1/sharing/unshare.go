package sharing

import (
	"encoding/json"
	"net/http"

	"github.com/thearchitector/zero-knowledge-poc/internal/domain"
	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/logx"
	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/mw"
	v1 "github.com/thearchitector/zero-knowledge-poc/internal/transport/web/v1"
)

type unshareRequest struct {
	ItemID  domain.ItemID  `json:"item_id"`
	GroupID domain.GroupID `json:"group_id"`
}

// Unshare godoc
// @Summary  Отозвать доступ группы к айтему (идемпотентно)
// @Tags     sharings
// @Accept   json
// @Produce  json
// @Param    body body unshareRequest true "пара айтем/группа"
// @Success  200 {object} domain.APIEnvelope
// @Failure  400 {object} domain.APIEnvelope
// @Router   /v1/sharings [delete]
func (h *Handler) Unshare(w http.ResponseWriter, r *http.Request) {
	const op = "sharing.unshare"
	reqID := mw.RequestIDFromCtx(r.Context())

	var in unshareRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	if in.ItemID <= 0 || in.GroupID <= 0 {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	if err := h.Sharings.UnshareFromGroup(r.Context(), in.ItemID, in.GroupID); err != nil {
		logx.Error(h.Log, reqID, op, "unshare failed", err, "item_id", in.ItemID, "group_id", in.GroupID)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "unshared", "item_id", in.ItemID, "group_id", in.GroupID)
	v1.WriteOKResponse(w, r, map[string]bool{"unshared": true})
}
