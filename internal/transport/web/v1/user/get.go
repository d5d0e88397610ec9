package user

import (
	"encoding/json"
	"net/http"

	"github.com/thearchitector/zero-knowledge-poc/internal/domain"
	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/logx"
	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/mw"
	v1 "github.com/thearchitector/zero-knowledge-poc/internal/transport/web/v1"
)

// Get godoc
// @Summary  Пользователь по email
// @Tags     users
// @Produce  json
// @Param    email query string true "email"
// @Success  200 {object} domain.APIEnvelope{data=domain.User}
// @Failure  403 {object} domain.APIEnvelope
// @Router   /v1/users [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "user.get"
	ctx := r.Context()
	reqID := mw.RequestIDFromCtx(ctx)

	email := r.URL.Query().Get("email")
	if !domain.ValidEmail(email) {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	// read-through кеш
	if h.Cache != nil {
		if raw, err := h.Cache.Get(ctx, domain.CacheKeyUser(email)); err == nil && raw != nil {
			var u domain.User
			if json.Unmarshal(raw, &u) == nil {
				v1.WriteOKData(w, r, u)
				return
			}
		}
	}

	u, err := h.Users.UserByEmail(ctx, email)
	if err != nil {
		logx.Error(h.Log, reqID, op, "lookup failed", err, "email", email)
		v1.WriteDomainError(w, r, err)
		return
	}

	if h.Cache != nil {
		if raw, err := json.Marshal(u); err == nil {
			// ошибка кеша не фатальна для ответа
			_ = h.Cache.Set(ctx, domain.CacheKeyUser(email), raw, h.TTL)
		}
	}

	v1.WriteOKData(w, r, u)
}
