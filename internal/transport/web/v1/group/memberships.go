package group

import (
	"net/http"

	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/logx"
	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/mw"
	v1 "github.com/thearchitector/zero-knowledge-poc/internal/transport/web/v1"
)

// Memberships godoc
// @Summary  Членства пользователя: группа + его Grouping к ней
// @Tags     groups
// @Produce  json
// @Param    user_id query int true "id пользователя"
// @Success  200 {object} domain.APIEnvelope{data=[]domain.Membership}
// @Failure  400 {object} domain.APIEnvelope
// @Router   /v1/memberships [get]
func (h *Handler) Memberships(w http.ResponseWriter, r *http.Request) {
	const op = "group.memberships"
	reqID := mw.RequestIDFromCtx(r.Context())

	userID, err := v1.ParseID(r.URL.Query().Get("user_id"))
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}

	ms, err := h.Groups.Memberships(r.Context(), userID)
	if err != nil {
		logx.Error(h.Log, reqID, op, "memberships failed", err, "user_id", userID)
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, ms)
}
