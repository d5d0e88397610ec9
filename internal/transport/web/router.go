package web

import (
	"log"
	"net/http"

	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/mw"
	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/v1/group"
	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/v1/health"
	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/v1/item"
	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/v1/sharing"
	"github.com/thearchitector/zero-knowledge-poc/internal/transport/web/v1/user"
)

// maxFormBytes — потолок тела для ручек с загрузкой контента
const maxFormBytes = 64 << 20

func newRouter(
	hh *health.Handler,
	uh *user.Handler,
	gh *group.Handler,
	ih *item.Handler,
	sh *sharing.Handler,
	logger *log.Logger,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1/healthz", hh.Liveness)
	mux.HandleFunc("GET /v1/readyz", hh.Readiness)

	mux.HandleFunc("POST /v1/users", uh.Create)
	mux.HandleFunc("GET /v1/users", uh.Get)
	mux.HandleFunc("GET /v1/users/all", uh.List)

	mux.HandleFunc("POST /v1/groups", gh.Create)
	mux.HandleFunc("POST /v1/groups/invite", gh.Invite)
	mux.HandleFunc("GET /v1/memberships", gh.Memberships)
	mux.HandleFunc("POST /v1/groupings", gh.Groupings)

	mux.HandleFunc("POST /v1/items", limitBody(maxFormBytes, ih.Create))
	mux.HandleFunc("PATCH /v1/items", limitBody(maxFormBytes, ih.Update))
	mux.HandleFunc("GET /v1/items", ih.List)
	mux.HandleFunc("GET /v1/items/{id}", ih.GetOne)
	mux.HandleFunc("GET /v1/items/{id}/content", ih.View)
	mux.HandleFunc("GET /v1/items/{id}/sharings", sh.ListByItem)

	mux.HandleFunc("POST /v1/sharings", sh.Share)
	mux.HandleFunc("GET /v1/sharings", sh.GetOne)
	mux.HandleFunc("PATCH /v1/sharings", sh.Update)
	mux.HandleFunc("DELETE /v1/sharings", sh.Unshare)

	return mw.WithRequestID(mw.Logging(logger)(mux))
}

func limitBody(n int64, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, n)
		next(w, r)
	}
}
