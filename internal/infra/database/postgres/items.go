package postgres

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/thearchitector/zero-knowledge-poc/internal/domain"
)

// CreateItem создаёт айтем и Sharing на личную группу владельца одной
// транзакцией: айтем без стартового Sharing — невалидное состояние.
func (r *PGRepo) CreateItem(ctx context.Context, ownerUserID domain.UserID, wrappedKey, keyNonce, contentNonce string, content []byte) (domain.ItemID, error) {
	start := time.Now()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	iq := r.qb().Insert(r.tbl("items")).
		Columns("content", "content_nonce").
		Values(content, contentNonce).
		Suffix("RETURNING id")
	sqlStr, args, _ := iq.ToSql()
	r.logSQL("CreateItem.item", sqlStr, []any{fmt.Sprintf("<%d bytes>", len(content)), contentNonce})

	var itemID domain.ItemID
	if err := tx.QueryRow(ctx, sqlStr, args...).Scan(&itemID); err != nil {
		r.logger.Printf("CreateItem insert error after %s: %v", time.Since(start), err)
		return 0, mapPgErr(err)
	}

	// личная группа владельца; её гарантирует CreateGroup (первая группа хоста)
	pq := r.qb().Select("id").
		From(r.tbl("groups")).
		Where(sq.Eq{"host_user_id": ownerUserID, "private": true})
	sqlStr, args, _ = pq.ToSql()
	r.logSQL("CreateItem.private_group", sqlStr, args)

	var privateGroupID domain.GroupID
	if err := tx.QueryRow(ctx, sqlStr, args...).Scan(&privateGroupID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("CreateItem: owner %d has no private group", ownerUserID)
			return 0, domain.ErrNotFound
		}
		r.logger.Printf("CreateItem private group error after %s: %v", time.Since(start), err)
		return 0, mapPgErr(err)
	}

	shq := r.qb().Insert(r.tbl("sharings")).
		Columns("group_id", "item_id", "encryption_key", "encryption_key_nonce").
		Values(privateGroupID, itemID, wrappedKey, keyNonce)
	sqlStr, args, _ = shq.ToSql()
	r.logSQL("CreateItem.sharing", sqlStr, args)

	if _, err := tx.Exec(ctx, sqlStr, args...); err != nil {
		r.logger.Printf("CreateItem sharing error after %s: %v", time.Since(start), err)
		return 0, mapPgErr(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, mapPgErr(err)
	}
	r.logger.Printf("CreateItem ok in %s id=%d owner=%d size=%d", time.Since(start), itemID, ownerUserID, len(content))
	return itemID, nil
}

func (r *PGRepo) UpdateItem(ctx context.Context, id domain.ItemID, content []byte, contentNonce string) error {
	q := r.qb().Update(r.tbl("items")).
		Set("content", content).
		Set("content_nonce", contentNonce).
		Where(sq.Eq{"id": id})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("UpdateItem", sqlStr, []any{fmt.Sprintf("<%d bytes>", len(content)), contentNonce, id})

	start := time.Now()
	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("UpdateItem exec error after %s: %v", time.Since(start), err)
		return mapPgErr(err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.Printf("UpdateItem no rows affected in %s id=%d", time.Since(start), id)
		return domain.ErrNotFound
	}
	r.logger.Printf("UpdateItem ok in %s id=%d size=%d", time.Since(start), id, len(content))
	return nil
}

func (r *PGRepo) ItemByID(ctx context.Context, id domain.ItemID) (domain.Item, error) {
	q := r.qb().Select("id", "content_nonce").
		From(r.tbl("items")).
		Where(sq.Eq{"id": id})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("ItemByID", sqlStr, args)

	start := time.Now()
	var it domain.Item
	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(&it.ID, &it.ContentNonce); err != nil {
		r.logger.Printf("ItemByID scan error after %s: %v", time.Since(start), err)
		return domain.Item{}, mapPgErr(err)
	}
	r.logger.Printf("ItemByID ok in %s id=%d", time.Since(start), it.ID)
	return it, nil
}

func (r *PGRepo) ItemsList(ctx context.Context) ([]domain.Item, error) {
	q := r.qb().Select("id", "content_nonce").
		From(r.tbl("items")).
		OrderBy("id ASC")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("ItemsList", sqlStr, args)

	start := time.Now()
	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("ItemsList query error after %s: %v", time.Since(start), err)
		return nil, mapPgErr(err)
	}
	defer rows.Close()

	var res []domain.Item
	for rows.Next() {
		var it domain.Item
		if err := rows.Scan(&it.ID, &it.ContentNonce); err != nil {
			return nil, err
		}
		res = append(res, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	r.logger.Printf("ItemsList ok in %s count=%d", time.Since(start), len(res))
	return res, nil
}

// OpenContent открывает оконное чтение шифртекста: сначала узнаём размер
// (и существование — ErrNotFound до первого байта), дальше каждый Read
// тянет очередное окно через substring, не материализуя весь blob.
func (r *PGRepo) OpenContent(ctx context.Context, id domain.ItemID) (domain.ContentReader, error) {
	q := r.qb().Select("octet_length(content)").
		From(r.tbl("items")).
		Where(sq.Eq{"id": id})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("OpenContent", sqlStr, args)

	var size int64
	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(&size); err != nil {
		r.logger.Printf("OpenContent size error: %v", err)
		return nil, mapPgErr(err)
	}

	return &contentReader{
		ctx:    ctx,
		repo:   r,
		itemID: id,
		size:   size,
		window: int64(r.viewChunk),
	}, nil
}

// contentReader — курсор по BYTEA-колонке: каждое чтение — substring
// со сдвигом. Не перезапускается; контекст запроса живёт до Close.
type contentReader struct {
	ctx    context.Context
	repo   *PGRepo
	itemID domain.ItemID
	size   int64
	off    int64
	window int64
	closed bool
}

func (cr *contentReader) Size() int64 { return cr.size }

func (cr *contentReader) Read(p []byte) (int, error) {
	if cr.closed {
		return 0, io.ErrClosedPipe
	}
	if cr.off >= cr.size {
		return 0, io.EOF
	}
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}

	lim := int64(len(p))
	if lim > cr.window {
		lim = cr.window
	}
	if rest := cr.size - cr.off; lim > rest {
		lim = rest
	}

	// substring в SQL 1-индексирован
	sqlStr := fmt.Sprintf(
		`SELECT substring(content FROM $2 FOR $3) FROM %s WHERE id = $1`,
		cr.repo.tbl("items"))

	var chunk []byte
	err := cr.repo.pool.QueryRow(cr.ctx, sqlStr, cr.itemID, cr.off+1, lim).Scan(&chunk)
	if err != nil {
		// айтем удалили под ногами — поток просто обрывается ошибкой
		return 0, mapPgErr(err)
	}
	if len(chunk) == 0 {
		return 0, io.EOF
	}

	n := copy(p, chunk)
	cr.off += int64(n)
	return n, nil
}

func (cr *contentReader) Close() error {
	cr.closed = true
	return nil
}
