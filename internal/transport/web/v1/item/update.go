package item

import (
	"io"
	"net/http"

	"github.com/thearchitector/zero-knowledge-poc/internal/domain"
	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/logx"
	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/mw"
	v1 "github.com/thearchitector/zero-knowledge-poc/internal/transport/web/v1"
)

// Update godoc
// @Summary  Перезаписать контент айтема (ключ айтема не меняется)
// @Tags     items
// @Accept   multipart/form-data
// @Produce  json
// @Param    item_id       formData int    true "id айтема"
// @Param    content_nonce formData string true "новый nonce контента"
// @Param    content       formData file   true "новый шифртекст"
// @Success  200 {object} domain.APIEnvelope
// @Failure  400 {object} domain.APIEnvelope
// @Failure  403 {object} domain.APIEnvelope
// @Router   /v1/items [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "item.update"
	ctx := r.Context()
	reqID := mw.RequestIDFromCtx(ctx)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	itemID, err := v1.ParseID(r.FormValue("item_id"))
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}
	contentNonce := r.FormValue("content_nonce")
	if contentNonce == "" {
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

	if err := h.Items.UpdateItem(ctx, itemID, content, contentNonce); err != nil {
		logx.Error(h.Log, reqID, op, "update item failed", err, "item_id", itemID)
		v1.WriteDomainError(w, r, err)
		return
	}

	// мета устарела (content_nonce), кеш сбрасываем
	if h.Cache != nil {
		_ = h.Cache.Del(ctx, domain.CacheKeyItemMeta(itemID))
	}

	logx.Info(h.Log, reqID, op, "item updated", "item_id", itemID, "bytes", len(content))
	v1.WriteOKResponse(w, r, map[string]bool{"updated": true})
}
