package memory

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thearchitector/zero-knowledge-poc/internal/domain"
)

func newTestStore(t *testing.T) (*Store, context.Context) {
	t.Helper()
	s := NewStore(8) // маленькое окно, чтобы поток шёл в несколько чтений
	require.NoError(t, s.EnsureWorldGroup(context.Background()))
	return s, context.Background()
}

func mustUser(t *testing.T, s *Store, ctx context.Context, email string) domain.User {
	t.Helper()
	u, err := s.CreateUser(ctx, email, "pub-"+email, "salt")
	require.NoError(t, err)
	return u
}

// Первая группа хоста приватная, остальные нет
func TestCreateGroupPrivateOnlyFirst(t *testing.T) {
	s, ctx := newTestStore(t)
	alice := mustUser(t, s, ctx, "alice@example.com")

	g1, err := s.CreateGroup(ctx, alice.ID, "alice private", "wrapped-1")
	require.NoError(t, err)
	assert.True(t, g1.Private)
	require.NotNil(t, g1.HostUserID)
	assert.Equal(t, alice.ID, *g1.HostUserID)

	g2, err := s.CreateGroup(ctx, alice.ID, "friends", "wrapped-2")
	require.NoError(t, err)
	assert.False(t, g2.Private)
}

// Группа и членство хоста появляются вместе
func TestCreateGroupAddsHostGrouping(t *testing.T) {
	s, ctx := newTestStore(t)
	alice := mustUser(t, s, ctx, "alice@example.com")

	g, err := s.CreateGroup(ctx, alice.ID, "g", "wrapped")
	require.NoError(t, err)

	ms, err := s.Memberships(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, ms, 1)
	assert.Equal(t, g.ID, ms[0].Group.ID)
	assert.Equal(t, g.ID, ms[0].Grouping.GroupID)
	assert.Equal(t, alice.ID, ms[0].Grouping.UserID)
	assert.Equal(t, "wrapped", ms[0].Grouping.EncryptionKey)
}

func TestCreateGroupUnknownHost(t *testing.T) {
	s, ctx := newTestStore(t)
	_, err := s.CreateGroup(ctx, 42, "g", "wrapped")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s, ctx := newTestStore(t)
	mustUser(t, s, ctx, "alice@example.com")

	_, err := s.CreateUser(ctx, "alice@example.com", "pub2", "")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestInviteToGroup(t *testing.T) {
	s, ctx := newTestStore(t)
	alice := mustUser(t, s, ctx, "alice@example.com")
	bob := mustUser(t, s, ctx, "bob@example.com")
	g, err := s.CreateGroup(ctx, alice.ID, "shared", "k-alice")
	require.NoError(t, err)

	gr, err := s.InviteToGroup(ctx, bob.ID, g.ID, "k-bob")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, gr.UserID)
	assert.Equal(t, g.ID, gr.GroupID)

	// повторное приглашение — конфликт
	_, err = s.InviteToGroup(ctx, bob.ID, g.ID, "k-bob-2")
	assert.ErrorIs(t, err, domain.ErrConflict)

	// несуществующие пользователь/группа
	_, err = s.InviteToGroup(ctx, 404, g.ID, "k")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.InviteToGroup(ctx, bob.ID, 404, "k")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Членство без группы — нарушение целостности, а не пустой ответ
func TestMembershipsDanglingGrouping(t *testing.T) {
	s, ctx := newTestStore(t)
	alice := mustUser(t, s, ctx, "alice@example.com")
	g, err := s.CreateGroup(ctx, alice.ID, "g", "k")
	require.NoError(t, err)

	s.DeleteGroup(g.ID)

	_, err = s.Memberships(ctx, alice.ID)
	assert.ErrorIs(t, err, domain.ErrIntegrity)
}

func TestGroupingsByUserRestrictedToRequested(t *testing.T) {
	s, ctx := newTestStore(t)
	alice := mustUser(t, s, ctx, "alice@example.com")
	g1, err := s.CreateGroup(ctx, alice.ID, "g1", "k1")
	require.NoError(t, err)
	g2, err := s.CreateGroup(ctx, alice.ID, "g2", "k2")
	require.NoError(t, err)

	gs, err := s.GroupingsByUser(ctx, alice.ID, []domain.GroupID{g1.ID})
	require.NoError(t, err)
	require.Len(t, gs, 1)
	assert.Equal(t, "k1", gs[g1.ID].EncryptionKey)
	_, ok := gs[g2.ID]
	assert.False(t, ok)
}

func TestEnsureWorldGroupIdempotent(t *testing.T) {
	s := NewStore(0)
	ctx := context.Background()

	require.NoError(t, s.EnsureWorldGroup(ctx))
	require.NoError(t, s.EnsureWorldGroup(ctx))

	g, ok := s.groups[domain.WorldGroupID]
	require.True(t, ok)
	assert.Equal(t, domain.WorldGroupName, g.Name)
	assert.Nil(t, g.HostUserID)
	assert.False(t, g.Private)

	// следующие группы не конфликтуют по id с World
	alice := mustUser(t, s, ctx, "alice@example.com")
	created, err := s.CreateGroup(ctx, alice.ID, "g", "k")
	require.NoError(t, err)
	assert.Greater(t, created.ID, domain.WorldGroupID)
}

// Новый айтем всегда расшарен ровно на личную группу владельца
func TestCreateItemBootstrapSharing(t *testing.T) {
	s, ctx := newTestStore(t)
	alice := mustUser(t, s, ctx, "alice@example.com")
	private, err := s.CreateGroup(ctx, alice.ID, "alice private", "k")
	require.NoError(t, err)

	id, err := s.CreateItem(ctx, alice.ID, "item-key", "key-nonce", "content-nonce", []byte("ciphertext"))
	require.NoError(t, err)

	ss, err := s.SharingsByItem(ctx, id)
	require.NoError(t, err)
	require.Len(t, ss, 1)
	assert.Equal(t, private.ID, ss[0].GroupID)
	assert.Equal(t, "item-key", ss[0].EncryptionKey)
	assert.Equal(t, "key-nonce", ss[0].EncryptionKeyNonce)

	it, err := s.ItemByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "content-nonce", it.ContentNonce)
}

// Без личной группы айтем создать нельзя
func TestCreateItemWithoutPrivateGroup(t *testing.T) {
	s, ctx := newTestStore(t)
	alice := mustUser(t, s, ctx, "alice@example.com")

	_, err := s.CreateItem(ctx, alice.ID, "k", "n", "cn", []byte("x"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateItem(t *testing.T) {
	s, ctx := newTestStore(t)
	alice := mustUser(t, s, ctx, "alice@example.com")
	_, err := s.CreateGroup(ctx, alice.ID, "p", "k")
	require.NoError(t, err)
	id, err := s.CreateItem(ctx, alice.ID, "k", "n", "cn-1", []byte("old"))
	require.NoError(t, err)

	require.NoError(t, s.UpdateItem(ctx, id, []byte("new content"), "cn-2"))

	it, err := s.ItemByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "cn-2", it.ContentNonce)

	rc, err := s.OpenContent(ctx, id)
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, []byte("new content"), got)

	assert.ErrorIs(t, s.UpdateItem(ctx, 404, []byte("x"), "n"), domain.ErrNotFound)
}

// Контент читается окнами и собирается байт в байт
func TestOpenContentWindowedRead(t *testing.T) {
	s, ctx := newTestStore(t) // окно 8 байт
	alice := mustUser(t, s, ctx, "alice@example.com")
	_, err := s.CreateGroup(ctx, alice.ID, "p", "k")
	require.NoError(t, err)

	payload := []byte("0123456789abcdefghij") // 20 байт, три окна
	id, err := s.CreateItem(ctx, alice.ID, "k", "n", "cn", payload)
	require.NoError(t, err)

	rc, err := s.OpenContent(ctx, id)
	require.NoError(t, err)
	defer rc.Close()
	assert.Equal(t, int64(len(payload)), rc.Size())

	buf := make([]byte, 64)
	n, err := rc.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 8, n) // не больше окна за одно чтение

	rest, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, payload, append(buf[:n], rest...))

	_, err = s.OpenContent(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Поток видит снимок на момент открытия, не последующие апдейты
func TestOpenContentSnapshot(t *testing.T) {
	s, ctx := newTestStore(t)
	alice := mustUser(t, s, ctx, "alice@example.com")
	_, err := s.CreateGroup(ctx, alice.ID, "p", "k")
	require.NoError(t, err)
	id, err := s.CreateItem(ctx, alice.ID, "k", "n", "cn", []byte("before"))
	require.NoError(t, err)

	rc, err := s.OpenContent(ctx, id)
	require.NoError(t, err)
	defer rc.Close()

	require.NoError(t, s.UpdateItem(ctx, id, []byte("after"), "cn-2"))

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, []byte("before"), got)
}

func TestSharingLifecycle(t *testing.T) {
	s, ctx := newTestStore(t)
	alice := mustUser(t, s, ctx, "alice@example.com")
	_, err := s.CreateGroup(ctx, alice.ID, "p", "k")
	require.NoError(t, err)
	shared, err := s.CreateGroup(ctx, alice.ID, "shared", "gk")
	require.NoError(t, err)
	id, err := s.CreateItem(ctx, alice.ID, "ik", "in", "cn", []byte("x"))
	require.NoError(t, err)

	sh, err := s.ShareWithGroup(ctx, id, shared.ID, "wrapped-for-group", "nonce")
	require.NoError(t, err)
	assert.Equal(t, shared.ID, sh.GroupID)

	// повторный шаринг той же пары — конфликт
	_, err = s.ShareWithGroup(ctx, id, shared.ID, "again", "nonce")
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := s.SharingByItemGroup(ctx, id, shared.ID)
	require.NoError(t, err)
	assert.Equal(t, "wrapped-for-group", got.EncryptionKey)

	// ротация ключа
	upd, err := s.UpdateSharing(ctx, id, shared.ID, "rotated", "nonce-2")
	require.NoError(t, err)
	assert.Equal(t, "rotated", upd.EncryptionKey)
	assert.Equal(t, sh.ID, upd.ID)

	// отзыв идемпотентен
	require.NoError(t, s.UnshareFromGroup(ctx, id, shared.ID))
	require.NoError(t, s.UnshareFromGroup(ctx, id, shared.ID))

	// после отзыва доступа нет
	_, err = s.SharingByItemGroup(ctx, id, shared.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = s.UpdateSharing(ctx, id, shared.ID, "k", "n")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestShareWithGroupUnknownRefs(t *testing.T) {
	s, ctx := newTestStore(t)
	alice := mustUser(t, s, ctx, "alice@example.com")
	_, err := s.CreateGroup(ctx, alice.ID, "p", "k")
	require.NoError(t, err)
	id, err := s.CreateItem(ctx, alice.ID, "ik", "in", "cn", []byte("x"))
	require.NoError(t, err)

	_, err = s.ShareWithGroup(ctx, 404, domain.WorldGroupID, "k", "n")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.ShareWithGroup(ctx, id, 404, "k", "n")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
