// Package sharing — выдача и отзыв доступа групп к айтемам.
// Sharing хранит ключ айтема, завёрнутый групповым ключом; отзыв — это
// просто удаление строки, перешифровка контента остаётся за клиентом.
package sharing

import (
	"log"

	"github.com/thearchitector/zero-knowledge-poc/internal/domain"
)

type Handler struct {
	Log      *log.Logger
	Sharings domain.SharingsRepo
}

func New(l *log.Logger, sharings domain.SharingsRepo) *Handler {
	return &Handler{Log: l, Sharings: sharings}
}
