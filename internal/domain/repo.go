package domain

import (
	"context"
)

type UsersRepo interface {
	Close()
	Ping(context.Context) error
	// CreateUser: ErrConflict при повторном email (уникальный констрейнт)
	CreateUser(ctx context.Context, email, encryptionKey, encryptionKeySalt string) (User, error)
	UserByEmail(ctx context.Context, email string) (User, error)
	UsersList(ctx context.Context) ([]User, error)
}

type GroupsRepo interface {
	// CreateGroup: группа + Grouping хоста в одной транзакции.
	// private = true только для первой группы данного хоста.
	CreateGroup(ctx context.Context, hostUserID UserID, name, groupingKey string) (Group, error)
	// InviteToGroup: ErrNotFound, если пользователь или группа отсутствуют;
	// ErrConflict при повторном членстве.
	InviteToGroup(ctx context.Context, inviteeID UserID, groupID GroupID, wrappedKey string) (Grouping, error)
	// Memberships: пары (группа, членство) по возрастанию group_id.
	// Членство без группы — ErrIntegrity, а не молчаливый пропуск строки.
	Memberships(ctx context.Context, userID UserID) ([]Membership, error)
	// GroupingsByUser: членства пользователя строго в пределах запрошенных групп.
	GroupingsByUser(ctx context.Context, userID UserID, groupIDs []GroupID) (map[GroupID]Grouping, error)
	// EnsureWorldGroup: идемпотентный bootstrap World-группы (insert-if-absent).
	EnsureWorldGroup(ctx context.Context) error
}

type ItemsRepo interface {
	// CreateItem: айтем + Sharing на личную группу владельца в одной транзакции.
	CreateItem(ctx context.Context, ownerUserID UserID, wrappedKey, keyNonce, contentNonce string, content []byte) (ItemID, error)
	// UpdateItem: перезапись контента и nonce на месте; Sharing'и не трогаем
	// (ключ айтема при обновлении контента не меняется).
	UpdateItem(ctx context.Context, id ItemID, content []byte, contentNonce string) error
	ItemByID(ctx context.Context, id ItemID) (Item, error)
	ItemsList(ctx context.Context) ([]Item, error)
	// OpenContent: ErrNotFound до начала потока; дальше — оконное чтение шифртекста.
	OpenContent(ctx context.Context, id ItemID) (ContentReader, error)
}

type SharingsRepo interface {
	ShareWithGroup(ctx context.Context, itemID ItemID, groupID GroupID, wrappedKey, keyNonce string) (Sharing, error)
	// SharingByItemGroup: ErrForbidden (не ErrNotFound) при отсутствии —
	// наружу нельзя отличать "нет" от "не положено".
	SharingByItemGroup(ctx context.Context, itemID ItemID, groupID GroupID) (Sharing, error)
	SharingsByItem(ctx context.Context, itemID ItemID) ([]Sharing, error)
	// UpdateSharing: ротация ключа для уникальной пары (item, group); ErrNotFound при нуле строк.
	UpdateSharing(ctx context.Context, itemID ItemID, groupID GroupID, wrappedKey, keyNonce string) (Sharing, error)
	// UnshareFromGroup: идемпотентно, ноль удалённых строк — не ошибка.
	UnshareFromGroup(ctx context.Context, itemID ItemID, groupID GroupID) error
}
