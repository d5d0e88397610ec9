package user

import (
	"net/http"

	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/logx"
	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/mw"
	v1 "github.com/thearchitector/zero-knowledge-poc/internal/transport/web/v1"
)

// List godoc
// @Summary  Все пользователи (отладочная ручка)
// @Tags     users
// @Produce  json
// @Success  200 {object} domain.APIEnvelope{data=[]domain.User}
// @Router   /v1/users/all [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "user.list"
	reqID := mw.RequestIDFromCtx(r.Context())

	users, err := h.Users.UsersList(r.Context())
	if err != nil {
		logx.Error(h.Log, reqID, op, "list failed", err)
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, users)
}
