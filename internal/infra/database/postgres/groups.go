package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/thearchitector/zero-knowledge-poc/internal/domain"
)

// CreateGroup создаёт группу и членство хоста одной транзакцией:
// группа без членства хоста — невалидное состояние.
// Флаг private вычисляется по числу уже захощенных групп; гонку двух
// "первых" групп разрешает частичный уникальный индекс, а не этот запрос.
func (r *PGRepo) CreateGroup(ctx context.Context, hostUserID domain.UserID, name, groupingKey string) (domain.Group, error) {
	start := time.Now()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Group{}, err
	}
	defer tx.Rollback(ctx)

	cq := r.qb().Select("COUNT(*)").
		From(r.tbl("groups")).
		Where(sq.Eq{"host_user_id": hostUserID})
	sqlStr, args, _ := cq.ToSql()
	r.logSQL("CreateGroup.count", sqlStr, args)

	var numExisting int64
	if err := tx.QueryRow(ctx, sqlStr, args...).Scan(&numExisting); err != nil {
		r.logger.Printf("CreateGroup count error after %s: %v", time.Since(start), err)
		return domain.Group{}, mapPgErr(err)
	}

	gq := r.qb().Insert(r.tbl("groups")).
		Columns("name", "host_user_id", "private").
		Values(name, hostUserID, numExisting == 0).
		Suffix("RETURNING id, name, host_user_id, private")
	sqlStr, args, _ = gq.ToSql()
	r.logSQL("CreateGroup.group", sqlStr, args)

	var g domain.Group
	if err := tx.QueryRow(ctx, sqlStr, args...).Scan(&g.ID, &g.Name, &g.HostUserID, &g.Private); err != nil {
		r.logger.Printf("CreateGroup insert error after %s: %v", time.Since(start), err)
		return domain.Group{}, mapPgErr(err)
	}

	mq := r.qb().Insert(r.tbl("groupings")).
		Columns("user_id", "group_id", "encryption_key").
		Values(hostUserID, g.ID, groupingKey)
	sqlStr, args, _ = mq.ToSql()
	r.logSQL("CreateGroup.grouping", sqlStr, args)

	if _, err := tx.Exec(ctx, sqlStr, args...); err != nil {
		r.logger.Printf("CreateGroup grouping error after %s: %v", time.Since(start), err)
		return domain.Group{}, mapPgErr(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Group{}, mapPgErr(err)
	}
	r.logger.Printf("CreateGroup ok in %s id=%d host=%d private=%v", time.Since(start), g.ID, hostUserID, g.Private)
	return g, nil
}

func (r *PGRepo) InviteToGroup(ctx context.Context, inviteeID domain.UserID, groupID domain.GroupID, wrappedKey string) (domain.Grouping, error) {
	q := r.qb().Insert(r.tbl("groupings")).
		Columns("user_id", "group_id", "encryption_key").
		Values(inviteeID, groupID, wrappedKey).
		Suffix("RETURNING id, user_id, group_id, encryption_key, COALESCE(encryption_key_nonce, '')")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("InviteToGroup", sqlStr, args)

	start := time.Now()
	row := r.pool.QueryRow(ctx, sqlStr, args...)
	var gr domain.Grouping
	if err := row.Scan(&gr.ID, &gr.UserID, &gr.GroupID, &gr.EncryptionKey, &gr.EncryptionKeyNonce); err != nil {
		r.logger.Printf("InviteToGroup scan error after %s: %v", time.Since(start), err)
		return domain.Grouping{}, mapPgErr(err)
	}
	r.logger.Printf("InviteToGroup ok in %s id=%d user=%d group=%d", time.Since(start), gr.ID, gr.UserID, gr.GroupID)
	return gr, nil
}

// Memberships отдаёт пары (группа, членство) пользователя по возрастанию group_id.
// LEFT JOIN: членство, чья группа исчезла, — нарушение инварианта, и мы
// падаем с ErrIntegrity вместо молчаливого пропуска строки.
func (r *PGRepo) Memberships(ctx context.Context, userID domain.UserID) ([]domain.Membership, error) {
	groupings := r.tbl("groupings") + " gr"
	groups := r.tbl("groups") + " g"

	q := r.qb().Select(
		"gr.id", "gr.user_id", "gr.group_id", "gr.encryption_key", "COALESCE(gr.encryption_key_nonce, '')",
		"g.id", "g.name", "g.host_user_id", "g.private",
	).From(groupings).
		LeftJoin(groups + " ON g.id = gr.group_id").
		Where(sq.Eq{"gr.user_id": userID}).
		OrderBy("gr.group_id ASC")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("Memberships", sqlStr, args)

	start := time.Now()
	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("Memberships query error after %s: %v", time.Since(start), err)
		return nil, mapPgErr(err)
	}
	defer rows.Close()

	var res []domain.Membership
	for rows.Next() {
		var m domain.Membership
		var groupID *domain.GroupID
		var groupName *string
		var private *bool
		if err := rows.Scan(
			&m.Grouping.ID, &m.Grouping.UserID, &m.Grouping.GroupID,
			&m.Grouping.EncryptionKey, &m.Grouping.EncryptionKeyNonce,
			&groupID, &groupName, &m.Group.HostUserID, &private,
		); err != nil {
			return nil, err
		}
		if groupID == nil || groupName == nil || private == nil {
			r.logger.Printf("Memberships integrity violation: grouping id=%d references missing group id=%d",
				m.Grouping.ID, m.Grouping.GroupID)
			return nil, fmt.Errorf("grouping %d without group %d: %w",
				m.Grouping.ID, m.Grouping.GroupID, domain.ErrIntegrity)
		}
		m.Group.ID = *groupID
		m.Group.Name = *groupName
		m.Group.Private = *private
		res = append(res, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	r.logger.Printf("Memberships ok in %s user=%d count=%d", time.Since(start), userID, len(res))
	return res, nil
}

// GroupingsByUser — bulk-выборка членств строго в пределах запрошенных групп.
// Полноту результата (есть ли строка на каждый запрошенный id) проверяет вызывающий.
func (r *PGRepo) GroupingsByUser(ctx context.Context, userID domain.UserID, groupIDs []domain.GroupID) (map[domain.GroupID]domain.Grouping, error) {
	res := make(map[domain.GroupID]domain.Grouping, len(groupIDs))
	if len(groupIDs) == 0 {
		return res, nil
	}

	q := r.qb().Select("id", "user_id", "group_id", "encryption_key", "COALESCE(encryption_key_nonce, '')").
		From(r.tbl("groupings")).
		Where(sq.Eq{"user_id": userID, "group_id": groupIDs})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("GroupingsByUser", sqlStr, args)

	start := time.Now()
	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("GroupingsByUser query error after %s: %v", time.Since(start), err)
		return nil, mapPgErr(err)
	}
	defer rows.Close()

	for rows.Next() {
		var gr domain.Grouping
		if err := rows.Scan(&gr.ID, &gr.UserID, &gr.GroupID, &gr.EncryptionKey, &gr.EncryptionKeyNonce); err != nil {
			return nil, err
		}
		res[gr.GroupID] = gr
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	r.logger.Printf("GroupingsByUser ok in %s user=%d requested=%d found=%d",
		time.Since(start), userID, len(groupIDs), len(res))
	return res, nil
}

// EnsureWorldGroup — идемпотентный bootstrap World-группы (id=1, без хоста).
// insert-if-absent на уровне стора вместо read-then-write; после вставки
// поправляем sequence, чтобы обычные группы не попали на занятый id.
func (r *PGRepo) EnsureWorldGroup(ctx context.Context) error {
	q := r.qb().Insert(r.tbl("groups")).
		Columns("id", "name", "host_user_id", "private").
		Values(domain.WorldGroupID, domain.WorldGroupName, nil, false).
		Suffix("ON CONFLICT (id) DO NOTHING")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("EnsureWorldGroup", sqlStr, args)

	start := time.Now()
	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("EnsureWorldGroup exec error after %s: %v", time.Since(start), err)
		return mapPgErr(err)
	}

	seqSQL := fmt.Sprintf(
		`SELECT setval(pg_get_serial_sequence('%s', 'id'), GREATEST((SELECT MAX(id) FROM %s), 1))`,
		r.tbl("groups"), r.tbl("groups"))
	if _, err := r.pool.Exec(ctx, seqSQL); err != nil {
		r.logger.Printf("EnsureWorldGroup setval error: %v", err)
		return err
	}

	if tag.RowsAffected() > 0 {
		r.logger.Printf("EnsureWorldGroup created in %s id=%d", time.Since(start), domain.WorldGroupID)
	} else {
		r.logger.Printf("EnsureWorldGroup already present in %s", time.Since(start))
	}
	return nil
}
