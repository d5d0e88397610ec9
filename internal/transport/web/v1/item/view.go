package item

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/logx"
	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/mw"
	v1 "github.com/thearchitector/zero-knowledge-poc/internal/transport/web/v1"
)

// View godoc
// @Summary  Потоковая отдача шифртекста айтема
// @Tags     items
// @Produce  application/octet-stream
// @Param    id path int true "id айтема"
// @Success  200 {file} binary
// @Failure  403 {object} domain.APIEnvelope
// @Router   /v1/items/{id}/content [get]
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	const op = "item.view"
	ctx := r.Context()
	reqID := mw.RequestIDFromCtx(ctx)

	id, err := v1.ParseID(r.PathValue("id"))
	if err != nil {
		v1.WriteDomainError(w, r, err)
		return
	}

	// размер и существование проверяются до первого байта в сокет,
	// поэтому 403 ещё можно отдать нормальным конвертом
	rc, err := h.Items.OpenContent(ctx, id)
	if err != nil {
		logx.Error(h.Log, reqID, op, "open content failed", err, "item_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.FormatInt(rc.Size(), 10))
	w.WriteHeader(http.StatusOK)

	flusher, canFlush := w.(http.Flusher)
	buf := make([]byte, h.ViewChunk)
	var sent int64
	for {
		n, rerr := rc.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				// клиент оборвал соединение, статус уже ушёл
				logx.Error(h.Log, reqID, op, "client write failed", werr, "item_id", id, "sent", sent)
				return
			}
			sent += int64(n)
			if canFlush {
				flusher.Flush()
			}
		}
		if errors.Is(rerr, io.EOF) {
			break
		}
		if rerr != nil {
			logx.Error(h.Log, reqID, op, "content read failed", rerr, "item_id", id, "sent", sent)
			return
		}
	}

	logx.Info(h.Log, reqID, op, "content streamed", "item_id", id, "bytes", sent)
}
