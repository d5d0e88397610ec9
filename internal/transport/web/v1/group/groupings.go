package group

import (
	"encoding/json"
	"net/http"

	"github.com/thearchitector/zero-knowledge-poc/internal/domain"
	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/logx"
	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/mw"
	v1 "github.com/thearchitector/zero-knowledge-poc/internal/transport/web/v1"
)

type groupingsRequest struct {
	UserID   domain.UserID    `json:"user_id"`
	GroupIDs []domain.GroupID `json:"group_ids"`
}

// Groupings godoc
// @Summary  Grouping-и пользователя по набору групп (map group_id -> grouping)
// @Tags     groups
// @Accept   json
// @Produce  json
// @Param    body body groupingsRequest true "пользователь и интересующие группы"
// @Success  200 {object} domain.APIEnvelope
// @Failure  400 {object} domain.APIEnvelope
// @Router   /v1/groupings [post]
func (h *Handler) Groupings(w http.ResponseWriter, r *http.Request) {
	const op = "group.groupings"
	reqID := mw.RequestIDFromCtx(r.Context())

	var in groupingsRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	if in.UserID <= 0 || len(in.GroupIDs) == 0 {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	gs, err := h.Groups.GroupingsByUser(r.Context(), in.UserID, in.GroupIDs)
	if err != nil {
		logx.Error(h.Log, reqID, op, "groupings failed", err, "user_id", in.UserID)
		v1.WriteDomainError(w, r, err)
		return
	}
	v1.WriteOKData(w, r, gs)
}
