package postgres

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/thearchitector/zero-knowledge-poc/internal/domain"
)

func (r *PGRepo) ShareWithGroup(ctx context.Context, itemID domain.ItemID, groupID domain.GroupID, wrappedKey, keyNonce string) (domain.Sharing, error) {
	q := r.qb().Insert(r.tbl("sharings")).
		Columns("group_id", "item_id", "encryption_key", "encryption_key_nonce").
		Values(groupID, itemID, wrappedKey, keyNonce).
		Suffix("RETURNING id, group_id, item_id, encryption_key, COALESCE(encryption_key_nonce, '')")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("ShareWithGroup", sqlStr, args)

	start := time.Now()
	row := r.pool.QueryRow(ctx, sqlStr, args...)
	var s domain.Sharing
	if err := row.Scan(&s.ID, &s.GroupID, &s.ItemID, &s.EncryptionKey, &s.EncryptionKeyNonce); err != nil {
		r.logger.Printf("ShareWithGroup scan error after %s: %v", time.Since(start), err)
		return domain.Sharing{}, mapPgErr(err)
	}
	r.logger.Printf("ShareWithGroup ok in %s id=%d item=%d group=%d", time.Since(start), s.ID, s.ItemID, s.GroupID)
	return s, nil
}

// SharingByItemGroup: отсутствие шаринга отдаём как ErrForbidden —
// наружу нельзя различать "не существует" и "не разрешено".
func (r *PGRepo) SharingByItemGroup(ctx context.Context, itemID domain.ItemID, groupID domain.GroupID) (domain.Sharing, error) {
	q := r.qb().Select("id", "group_id", "item_id", "encryption_key", "COALESCE(encryption_key_nonce, '')").
		From(r.tbl("sharings")).
		Where(sq.Eq{"item_id": itemID, "group_id": groupID})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("SharingByItemGroup", sqlStr, args)

	start := time.Now()
	row := r.pool.QueryRow(ctx, sqlStr, args...)
	var s domain.Sharing
	if err := row.Scan(&s.ID, &s.GroupID, &s.ItemID, &s.EncryptionKey, &s.EncryptionKeyNonce); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("SharingByItemGroup absent in %s item=%d group=%d", time.Since(start), itemID, groupID)
			return domain.Sharing{}, domain.ErrForbidden
		}
		r.logger.Printf("SharingByItemGroup scan error after %s: %v", time.Since(start), err)
		return domain.Sharing{}, err
	}
	r.logger.Printf("SharingByItemGroup ok in %s id=%d", time.Since(start), s.ID)
	return s, nil
}

func (r *PGRepo) SharingsByItem(ctx context.Context, itemID domain.ItemID) ([]domain.Sharing, error) {
	q := r.qb().Select("id", "group_id", "item_id", "encryption_key", "COALESCE(encryption_key_nonce, '')").
		From(r.tbl("sharings")).
		Where(sq.Eq{"item_id": itemID}).
		OrderBy("id ASC")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("SharingsByItem", sqlStr, args)

	start := time.Now()
	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("SharingsByItem query error after %s: %v", time.Since(start), err)
		return nil, mapPgErr(err)
	}
	defer rows.Close()

	var res []domain.Sharing
	for rows.Next() {
		var s domain.Sharing
		if err := rows.Scan(&s.ID, &s.GroupID, &s.ItemID, &s.EncryptionKey, &s.EncryptionKeyNonce); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	r.logger.Printf("SharingsByItem ok in %s item=%d count=%d", time.Since(start), itemID, len(res))
	return res, nil
}

// UpdateSharing — ротация ключа для пары (item, group). Пара уникальна по
// констрейнту, так что обновляется не больше одной строки.
func (r *PGRepo) UpdateSharing(ctx context.Context, itemID domain.ItemID, groupID domain.GroupID, wrappedKey, keyNonce string) (domain.Sharing, error) {
	q := r.qb().Update(r.tbl("sharings")).
		Set("encryption_key", wrappedKey).
		Set("encryption_key_nonce", keyNonce).
		Where(sq.Eq{"item_id": itemID, "group_id": groupID}).
		Suffix("RETURNING id, group_id, item_id, encryption_key, COALESCE(encryption_key_nonce, '')")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("UpdateSharing", sqlStr, args)

	start := time.Now()
	row := r.pool.QueryRow(ctx, sqlStr, args...)
	var s domain.Sharing
	if err := row.Scan(&s.ID, &s.GroupID, &s.ItemID, &s.EncryptionKey, &s.EncryptionKeyNonce); err != nil {
		r.logger.Printf("UpdateSharing scan error after %s: %v", time.Since(start), err)
		return domain.Sharing{}, mapPgErr(err)
	}
	r.logger.Printf("UpdateSharing ok in %s id=%d", time.Since(start), s.ID)
	return s, nil
}

// UnshareFromGroup удаляет шаринг пары (item, group); ноль строк — не ошибка.
func (r *PGRepo) UnshareFromGroup(ctx context.Context, itemID domain.ItemID, groupID domain.GroupID) error {
	q := r.qb().Delete(r.tbl("sharings")).
		Where(sq.Eq{"item_id": itemID, "group_id": groupID})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("UnshareFromGroup", sqlStr, args)

	start := time.Now()
	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("UnshareFromGroup exec error after %s: %v", time.Since(start), err)
		return mapPgErr(err)
	}
	r.logger.Printf("UnshareFromGroup ok in %s item=%d group=%d rows=%d", time.Since(start), itemID, groupID, tag.RowsAffected())
	return nil
}
