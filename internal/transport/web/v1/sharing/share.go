package sharing

import (
	"net/http"

	"github.com/thearchitector/zero-knowledge-poc/internal/domain"
	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/logx"
	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/mw"
	v1 "github.com/thearchitector/zero-knowledge-poc/internal/transport/web/v1"
)

// Share godoc
// @Summary  Открыть группе доступ к айтему
// @Tags     sharings
// @Accept   x-www-form-urlencoded
// @Produce  json
// @Param    item_id              formData int    true "айтем"
// @Param    group_id             formData int    true "группа"
// @Param    encryption_key       formData string true "ключ айтема, завёрнутый ключом группы"
// @Param    encryption_key_nonce formData string true "nonce заворачивания"
// @Success  200 {object} domain.APIEnvelope{data=domain.Sharing}
// @Failure  400 {object} domain.APIEnvelope
// @Failure  403 {object} domain.APIEnvelope
// @Router   /v1/sharings [post]
func (h *Handler) Share(w http.ResponseWriter, r *http.Request) {
	const op = "sharing.share"
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

	s, err := h.Sharings.ShareWithGroup(r.Context(), itemID, groupID, key, keyNonce)
	if err != nil {
		logx.Error(h.Log, reqID, op, "share failed", err, "item_id", itemID, "group_id", groupID)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "shared", "sharing_id", s.ID)
	v1.WriteOKData(w, r, s)
}
