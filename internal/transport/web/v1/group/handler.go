// Package group — группы, приглашения и членства.
// Первая группа пользователя становится его приватной; групповой ключ
// хранится только завёрнутым в публичные ключи участников (Grouping).
package group

import (
	"log"

	"github.com/thearchitector/zero-knowledge-poc/internal/domain"
)

type Handler struct {
	Log    *log.Logger
	Groups domain.GroupsRepo
}

func New(l *log.Logger, groups domain.GroupsRepo) *Handler {
	return &Handler{Log: l, Groups: groups}
}
