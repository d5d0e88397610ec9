// Package memory — репозиторий в памяти с той же семантикой констрейнтов,
// что и у Postgres-реализации. Используется в тестах, где поднимать БД
// неоправданно; снаружи неотличим от настоящего стора.
package memory

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/thearchitector/zero-knowledge-poc/internal/domain"
)

type Store struct {
	mu sync.Mutex

	users     map[domain.UserID]domain.User
	groups    map[domain.GroupID]domain.Group
	groupings map[int64]domain.Grouping
	items     map[domain.ItemID]domain.Item
	sharings  map[int64]domain.Sharing
	contents  map[domain.ItemID][]byte

	nextUserID     domain.UserID
	nextGroupID    domain.GroupID
	nextGroupingID int64
	nextItemID     domain.ItemID
	nextSharingID  int64

	viewChunk int
}

func NewStore(viewChunk int) *Store {
	if viewChunk <= 0 {
		viewChunk = 64 << 10
	}
	return &Store{
		users:          make(map[domain.UserID]domain.User),
		groups:         make(map[domain.GroupID]domain.Group),
		groupings:      make(map[int64]domain.Grouping),
		items:          make(map[domain.ItemID]domain.Item),
		sharings:       make(map[int64]domain.Sharing),
		contents:       make(map[domain.ItemID][]byte),
		nextUserID:     1,
		nextGroupID:    1,
		nextGroupingID: 1,
		nextItemID:     1,
		nextSharingID:  1,
		viewChunk:      viewChunk,
	}
}

func (s *Store) Close()                         {}
func (s *Store) Ping(ctx context.Context) error { return nil }

// ---- users ----

func (s *Store) CreateUser(ctx context.Context, email, encryptionKey, encryptionKeySalt string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return domain.User{}, domain.ErrConflict
		}
	}
	u := domain.User{
		ID:                s.nextUserID,
		Email:             email,
		EncryptionKey:     encryptionKey,
		EncryptionKeySalt: encryptionKeySalt,
	}
	s.users[u.ID] = u
	s.nextUserID++
	return u, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (s *Store) UsersList(ctx context.Context) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		res = append(res, u)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

// ---- groups / groupings ----

func (s *Store) CreateGroup(ctx context.Context, hostUserID domain.UserID, name, groupingKey string) (domain.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[hostUserID]; !ok {
		return domain.Group{}, domain.ErrNotFound
	}

	private := true
	for _, g := range s.groups {
		if g.HostUserID != nil && *g.HostUserID == hostUserID {
			private = false
			break
		}
	}

	host := hostUserID
	g := domain.Group{ID: s.nextGroupID, Name: name, HostUserID: &host, Private: private}
	s.groups[g.ID] = g
	s.nextGroupID++

	gr := domain.Grouping{
		ID:            s.nextGroupingID,
		UserID:        hostUserID,
		GroupID:       g.ID,
		EncryptionKey: groupingKey,
	}
	s.groupings[gr.ID] = gr
	s.nextGroupingID++
	return g, nil
}

func (s *Store) InviteToGroup(ctx context.Context, inviteeID domain.UserID, groupID domain.GroupID, wrappedKey string) (domain.Grouping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[inviteeID]; !ok {
		return domain.Grouping{}, domain.ErrNotFound
	}
	if _, ok := s.groups[groupID]; !ok {
		return domain.Grouping{}, domain.ErrNotFound
	}
	for _, gr := range s.groupings {
		if gr.UserID == inviteeID && gr.GroupID == groupID {
			return domain.Grouping{}, domain.ErrConflict
		}
	}

	gr := domain.Grouping{
		ID:            s.nextGroupingID,
		UserID:        inviteeID,
		GroupID:       groupID,
		EncryptionKey: wrappedKey,
	}
	s.groupings[gr.ID] = gr
	s.nextGroupingID++
	return gr, nil
}

func (s *Store) Memberships(ctx context.Context, userID domain.UserID) ([]domain.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res []domain.Membership
	for _, gr := range s.groupings {
		if gr.UserID != userID {
			continue
		}
		g, ok := s.groups[gr.GroupID]
		if !ok {
			return nil, fmt.Errorf("grouping %d without group %d: %w", gr.ID, gr.GroupID, domain.ErrIntegrity)
		}
		res = append(res, domain.Membership{Group: g, Grouping: gr})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Group.ID < res[j].Group.ID })
	return res, nil
}

func (s *Store) GroupingsByUser(ctx context.Context, userID domain.UserID, groupIDs []domain.GroupID) (map[domain.GroupID]domain.Grouping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wanted := make(map[domain.GroupID]bool, len(groupIDs))
	for _, id := range groupIDs {
		wanted[id] = true
	}
	res := make(map[domain.GroupID]domain.Grouping, len(groupIDs))
	for _, gr := range s.groupings {
		if gr.UserID == userID && wanted[gr.GroupID] {
			res[gr.GroupID] = gr
		}
	}
	return res, nil
}

func (s *Store) EnsureWorldGroup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[domain.WorldGroupID]; ok {
		return nil
	}
	s.groups[domain.WorldGroupID] = domain.Group{
		ID:   domain.WorldGroupID,
		Name: domain.WorldGroupName,
	}
	if s.nextGroupID <= domain.WorldGroupID {
		s.nextGroupID = domain.WorldGroupID + 1
	}
	return nil
}

// ---- items ----

func (s *Store) CreateItem(ctx context.Context, ownerUserID domain.UserID, wrappedKey, keyNonce, contentNonce string, content []byte) (domain.ItemID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var privateGroupID domain.GroupID
	found := false
	for _, g := range s.groups {
		if g.Private && g.HostUserID != nil && *g.HostUserID == ownerUserID {
			privateGroupID = g.ID
			found = true
			break
		}
	}
	if !found {
		return 0, domain.ErrNotFound
	}

	it := domain.Item{ID: s.nextItemID, ContentNonce: contentNonce}
	s.items[it.ID] = it
	s.contents[it.ID] = append([]byte(nil), content...)
	s.nextItemID++

	sh := domain.Sharing{
		ID:                 s.nextSharingID,
		GroupID:            privateGroupID,
		ItemID:             it.ID,
		EncryptionKey:      wrappedKey,
		EncryptionKeyNonce: keyNonce,
	}
	s.sharings[sh.ID] = sh
	s.nextSharingID++
	return it.ID, nil
}

func (s *Store) UpdateItem(ctx context.Context, id domain.ItemID, content []byte, contentNonce string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	it.ContentNonce = contentNonce
	s.items[id] = it
	s.contents[id] = append([]byte(nil), content...)
	return nil
}

func (s *Store) ItemByID(ctx context.Context, id domain.ItemID) (domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[id]
	if !ok {
		return domain.Item{}, domain.ErrNotFound
	}
	return it, nil
}

func (s *Store) ItemsList(ctx context.Context) ([]domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := make([]domain.Item, 0, len(s.items))
	for _, it := range s.items {
		res = append(res, it)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (s *Store) OpenContent(ctx context.Context, id domain.ItemID) (domain.ContentReader, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, ok := s.contents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	// копия: поток не должен видеть последующие UpdateItem
	snap := append([]byte(nil), content...)
	return &contentReader{data: snap, window: s.viewChunk}, nil
}

type contentReader struct {
	data   []byte
	off    int
	window int
}

func (cr *contentReader) Size() int64 { return int64(len(cr.data)) }

func (cr *contentReader) Read(p []byte) (int, error) {
	if cr.off >= len(cr.data) {
		return 0, io.EOF
	}
	lim := len(p)
	if lim > cr.window {
		lim = cr.window
	}
	n := copy(p[:lim], cr.data[cr.off:])
	cr.off += n
	return n, nil
}

func (cr *contentReader) Close() error { return nil }

// ---- sharings ----

func (s *Store) ShareWithGroup(ctx context.Context, itemID domain.ItemID, groupID domain.GroupID, wrappedKey, keyNonce string) (domain.Sharing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[itemID]; !ok {
		return domain.Sharing{}, domain.ErrNotFound
	}
	if _, ok := s.groups[groupID]; !ok {
		return domain.Sharing{}, domain.ErrNotFound
	}
	for _, sh := range s.sharings {
		if sh.ItemID == itemID && sh.GroupID == groupID {
			return domain.Sharing{}, domain.ErrConflict
		}
	}

	sh := domain.Sharing{
		ID:                 s.nextSharingID,
		GroupID:            groupID,
		ItemID:             itemID,
		EncryptionKey:      wrappedKey,
		EncryptionKeyNonce: keyNonce,
	}
	s.sharings[sh.ID] = sh
	s.nextSharingID++
	return sh, nil
}

func (s *Store) SharingByItemGroup(ctx context.Context, itemID domain.ItemID, groupID domain.GroupID) (domain.Sharing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sh := range s.sharings {
		if sh.ItemID == itemID && sh.GroupID == groupID {
			return sh, nil
		}
	}
	return domain.Sharing{}, domain.ErrForbidden
}

func (s *Store) SharingsByItem(ctx context.Context, itemID domain.ItemID) ([]domain.Sharing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res []domain.Sharing
	for _, sh := range s.sharings {
		if sh.ItemID == itemID {
			res = append(res, sh)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (s *Store) UpdateSharing(ctx context.Context, itemID domain.ItemID, groupID domain.GroupID, wrappedKey, keyNonce string) (domain.Sharing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sh := range s.sharings {
		if sh.ItemID == itemID && sh.GroupID == groupID {
			sh.EncryptionKey = wrappedKey
			sh.EncryptionKeyNonce = keyNonce
			s.sharings[id] = sh
			return sh, nil
		}
	}
	return domain.Sharing{}, domain.ErrNotFound
}

func (s *Store) UnshareFromGroup(ctx context.Context, itemID domain.ItemID, groupID domain.GroupID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sh := range s.sharings {
		if sh.ItemID == itemID && sh.GroupID == groupID {
			delete(s.sharings, id)
		}
	}
	return nil
}

// DeleteGroup выпиливает группу без каскада по членствам — нужен тестам,
// проверяющим детект нарушения целостности при чтении.
func (s *Store) DeleteGroup(id domain.GroupID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.groups, id)
}
