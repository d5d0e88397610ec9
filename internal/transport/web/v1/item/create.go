package item

import (
	"io"
	"net/http"

	"github.com/thearchitector/zero-knowledge-poc/internal/domain"
	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/logx"
	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/mw"
	v1 "github.com/thearchitector/zero-knowledge-poc/internal/transport/web/v1"
)

// Create godoc
// @Summary  Загрузить новый айтем (шифртекст + завёрнутый ключ)
// @Tags     items
// @Accept   multipart/form-data
// @Produce  json
// @Param    owner_user_id        formData int    true "владелец"
// @Param    encryption_key       formData string true "ключ айтема, завёрнутый ключом личной группы владельца"
// @Param    encryption_key_nonce formData string true "nonce заворачивания ключа"
// @Param    content_nonce        formData string true "nonce шифрования контента"
// @Param    content              formData file   true "шифртекст"
// @Success  200 {object} domain.APIEnvelope{data=int}
// @Failure  400 {object} domain.APIEnvelope
// @Failure  403 {object} domain.APIEnvelope
// @Router   /v1/items [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "item.create"
	reqID := mw.RequestIDFromCtx(r.Context())

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	ownerID, err := v1.ParseID(r.FormValue("owner_user_id"))
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	key := r.FormValue("encryption_key")
	keyNonce := r.FormValue("encryption_key_nonce")
	contentNonce := r.FormValue("content_nonce")
	if key == "" || keyNonce == "" || contentNonce == "" {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	file, _, err := r.FormFile("content")
	if err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		logx.Error(h.Log, reqID, op, "read upload failed", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	id, err := h.Items.CreateItem(r.Context(), ownerID, key, keyNonce, contentNonce, content)
	if err != nil {
		logx.Error(h.Log, reqID, op, "create item failed", err, "owner_user_id", ownerID)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "item created", "item_id", id, "bytes", len(content))
	v1.WriteOKData(w, r, id)
}
