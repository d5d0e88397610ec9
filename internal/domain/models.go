package domain

// Базовые идентификаторы (BIGSERIAL в Postgres)
type UserID = int64
type GroupID = int64
type ItemID = int64

// Well-known группа World: без хоста, максимальная видимость по умолчанию.
// Гарантируется до старта транспорта (см. GroupsRepo.EnsureWorldGroup).
const (
	WorldGroupID   GroupID = 1
	WorldGroupName         = "World"
)

// Пользователь. EncryptionKey — публичный ключ (непрозрачная строка),
// приватный ключ сервер не видит никогда.
type User struct {
	ID                UserID `json:"id"`
	Email             string `json:"email"`
	EncryptionKey     string `json:"encryption_key"`
	EncryptionKeySalt string `json:"encryption_key_salt,omitempty"`
}

// Группа. HostUserID == nil — системная группа (World).
// Private == true — неявная личная группа хоста (ровно одна на пользователя).
type Group struct {
	ID         GroupID `json:"id"`
	Name       string  `json:"name"`
	HostUserID *UserID `json:"host_user_id"`
	Private    bool    `json:"private"`
}

// Grouping — членство пользователя в группе.
// EncryptionKey — симметричный ключ группы, завёрнутый публичным ключом участника.
type Grouping struct {
	ID                 int64   `json:"id"`
	UserID             UserID  `json:"user_id"`
	GroupID            GroupID `json:"group_id"`
	EncryptionKey      string  `json:"encryption_key"`
	EncryptionKeyNonce string  `json:"encryption_key_nonce,omitempty"`
}

// Item — шифртекст и nonce шифрования контента.
// Содержимое непрозрачно для сервера; тело отдаётся отдельно, потоком.
type Item struct {
	ID           ItemID `json:"id"`
	ContentNonce string `json:"content_nonce"`
}

// Sharing — видимость Item для группы.
// EncryptionKey — ключ айтема, завёрнутый симметричным ключом группы.
type Sharing struct {
	ID                 int64   `json:"id"`
	GroupID            GroupID `json:"group_id"`
	ItemID             ItemID  `json:"item_id"`
	EncryptionKey      string  `json:"encryption_key"`
	EncryptionKeyNonce string  `json:"encryption_key_nonce,omitempty"`
}

// Membership — пара "группа + членство" для выдачи get_memberships.
// Инвариант: Grouping.GroupID == Group.ID в каждой паре.
type Membership struct {
	Group    Group    `json:"group"`
	Grouping Grouping `json:"grouping"`
}
