package web

import (
	"github.com/thearchitector/zero-knowledge-poc/internal/domain"
)

// Repos — набор портов хранилища, которыми пользуются хендлеры.
// В проде все четыре поля указывают на один PGRepo, в тестах —
// на in-memory стор.
type Repos struct {
	Users    domain.UsersRepo
	Groups   domain.GroupsRepo
	Items    domain.ItemsRepo
	Sharings domain.SharingsRepo
}
