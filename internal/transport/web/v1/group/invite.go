package group

import (
	"net/http"

	"github.com/thearchitector/zero-knowledge-poc/internal/domain"
	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/logx"
	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/mw"
	v1 "github.com/thearchitector/zero-knowledge-poc/internal/transport/web/v1"
)

// Invite godoc
// @Summary  Пригласить пользователя в группу
// @Tags     groups
// @Accept   x-www-form-urlencoded
// @Produce  json
// @Param    invitee_id              formData int    true "кого приглашаем"
// @Param    group_id                formData int    true "куда"
// @Param    grouping_encryption_key formData string true "групповой ключ, завёрнутый ключом приглашённого"
// @Success  200 {object} domain.APIEnvelope{data=domain.Grouping}
// @Failure  400 {object} domain.APIEnvelope
// @Failure  403 {object} domain.APIEnvelope
// @Router   /v1/groups/invite [post]
func (h *Handler) Invite(w http.ResponseWriter, r *http.Request) {
	const op = "group.invite"
	reqID := mw.RequestIDFromCtx(r.Context())

	if err := r.ParseForm(); err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	inviteeID, err := v1.ParseID(r.FormValue("invitee_id"))
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	groupID, err := v1.ParseID(r.FormValue("group_id"))
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	key := r.FormValue("grouping_encryption_key")
	if key == "" {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	gr, err := h.Groups.InviteToGroup(r.Context(), inviteeID, groupID, key)
	if err != nil {
		logx.Error(h.Log, reqID, op, "invite failed", err,
			"invitee_id", inviteeID, "group_id", groupID)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "invited", "grouping_id", gr.ID)
	v1.WriteOKData(w, r, gr)
}
