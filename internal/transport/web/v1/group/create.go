package group

import (
	"net/http"

	"github.com/thearchitector/zero-knowledge-poc/internal/domain"
	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/logx"
	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/mw"
	v1 "github.com/thearchitector/zero-knowledge-poc/internal/transport/web/v1"
)

// Create godoc
// @Summary  Создать группу (хост сразу получает членство)
// @Tags     groups
// @Accept   x-www-form-urlencoded
// @Produce  json
// @Param    host_user_id            formData int    true "id хоста"
// @Param    name                    formData string true "имя группы"
// @Param    grouping_encryption_key formData string true "групповой ключ, завёрнутый ключом хоста"
// @Success  200 {object} domain.APIEnvelope{data=domain.Group}
// @Failure  400 {object} domain.APIEnvelope
// @Failure  403 {object} domain.APIEnvelope
// @Router   /v1/groups [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "group.create"
	reqID := mw.RequestIDFromCtx(r.Context())

	if err := r.ParseForm(); err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	hostID, err := v1.ParseID(r.FormValue("host_user_id"))
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	name := r.FormValue("name")
	key := r.FormValue("grouping_encryption_key")
	if name == "" || key == "" {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	g, err := h.Groups.CreateGroup(r.Context(), hostID, name, key)
	if err != nil {
		logx.Error(h.Log, reqID, op, "create group failed", err, "host_user_id", hostID)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "group created", "group_id", g.ID, "private", g.Private)
	v1.WriteOKData(w, r, g)
}
