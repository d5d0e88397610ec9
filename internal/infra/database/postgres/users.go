package postgres

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/thearchitector/zero-knowledge-poc/internal/domain"
)

func (r *PGRepo) CreateUser(ctx context.Context, email, encryptionKey, encryptionKeySalt string) (domain.User, error) {
	q := r.qb().Insert(r.tbl("users")).
		Columns("email", "encryption_key", "encryption_key_salt").
		Values(email, encryptionKey, nullIfEmpty(encryptionKeySalt)).
		Suffix("RETURNING id, email, encryption_key, COALESCE(encryption_key_salt, '')")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("CreateUser", sqlStr, args)

	start := time.Now()
	row := r.pool.QueryRow(ctx, sqlStr, args...)
	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.EncryptionKey, &u.EncryptionKeySalt); err != nil {
		r.logger.Printf("CreateUser scan error after %s: %v", time.Since(start), err)
		return domain.User{}, mapPgErr(err)
	}
	r.logger.Printf("CreateUser ok in %s id=%d email=%s", time.Since(start), u.ID, u.Email)
	return u, nil
}

func (r *PGRepo) UserByEmail(ctx context.Context, email string) (domain.User, error) {
	q := r.qb().Select("id", "email", "encryption_key", "COALESCE(encryption_key_salt, '')").
		From(r.tbl("users")).
		Where(sq.Eq{"email": email})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("UserByEmail", sqlStr, args)

	start := time.Now()
	row := r.pool.QueryRow(ctx, sqlStr, args...)
	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.EncryptionKey, &u.EncryptionKeySalt); err != nil {
		r.logger.Printf("UserByEmail scan error after %s: %v", time.Since(start), err)
		return domain.User{}, mapPgErr(err)
	}
	r.logger.Printf("UserByEmail ok in %s id=%d", time.Since(start), u.ID)
	return u, nil
}

func (r *PGRepo) UsersList(ctx context.Context) ([]domain.User, error) {
	q := r.qb().Select("id", "email", "encryption_key", "COALESCE(encryption_key_salt, '')").
		From(r.tbl("users")).
		OrderBy("id ASC")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("UsersList", sqlStr, args)

	start := time.Now()
	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("UsersList query error after %s: %v", time.Since(start), err)
		return nil, mapPgErr(err)
	}
	defer rows.Close()

	var res []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Email, &u.EncryptionKey, &u.EncryptionKeySalt); err != nil {
			return nil, err
		}
		res = append(res, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	r.logger.Printf("UsersList ok in %s count=%d", time.Since(start), len(res))
	return res, nil
}

// пустая строка в опциональной колонке хранится как NULL
func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
