package user

import (
	"net/http"

	"github.com/thearchitector/zero-knowledge-poc/internal/domain"
	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/logx"
	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/mw"
	v1 "github.com/thearchitector/zero-knowledge-poc/internal/transport/web/v1"
)

// Create godoc
// @Summary  Создать пользователя
// @Tags     users
// @Accept   x-www-form-urlencoded
// @Produce  json
// @Param    email               formData string true  "email (уникальный)"
// @Param    encryption_key      formData string true  "публичный ключ пользователя"
// @Param    encryption_key_salt formData string false "соль вывода ключа"
// @Success  200 {object} domain.APIEnvelope{data=domain.User}
// @Failure  400 {object} domain.APIEnvelope
// @Router   /v1/users [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "user.create"
	reqID := mw.RequestIDFromCtx(r.Context())

	if err := r.ParseForm(); err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	email := r.FormValue("email")
	key := r.FormValue("encryption_key")
	salt := r.FormValue("encryption_key_salt")

	if !domain.ValidEmail(email) || key == "" {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	u, err := h.Users.CreateUser(r.Context(), email, key, salt)
	if err != nil {
		logx.Error(h.Log, reqID, op, "create user failed", err, "email", email)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "user created", "user_id", u.ID)
	v1.WriteOKData(w, r, u)
}
