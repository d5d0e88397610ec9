package sharing

import (
	"net/http"

	"github.com/thearchitector/zero-knowledge-poc/internal/domain"
	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/logx"
	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/mw"
	v1 "github.com/thearchitector/zero-knowledge-poc/internal/transport/web/v1"
)

// Update godoc
// @Summary  Ротация завёрнутого ключа у существующего Sharing
// @Tags     sharings
// @Accept   x-www-form-urlencoded
// @Produce  json
// @Param    item_id              formData int    true "айтем"
// @Param    group_id             formData int    true "группа"
// @Param    encryption_key       formData string true "новый завёрнутый ключ"
// @Param    encryption_key_nonce formData string true "новый nonce"
// @Success  200 {object} domain.APIEnvelope{data=domain.Sharing}
// @Failure  400 {object} domain.APIEnvelope
// @Failure  403 {object} domain.APIEnvelope
// @Router   /v1/sharings [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "sharing.update"
	reqID := mw.RequestIDFromCtx(r.Context())

	if err := r.ParseForm(); err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	itemID, err := v1.ParseID(r.FormValue("item_id"))
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	groupID, err := v1.ParseID(r.FormValue("group_id"))
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	key := r.FormValue("encryption_key")
	keyNonce := r.FormValue("encryption_key_nonce")
	if key == "" || keyNonce == "" {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	s, err := h.Sharings.UpdateSharing(r.Context(), itemID, groupID, key, keyNonce)
	if err != nil {
		logx.Error(h.Log, reqID, op, "update failed", err, "item_id", itemID, "group_id", groupID)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "sharing updated", "sharing_id", s.ID)
	v1.WriteOKData(w, r, s)
}
