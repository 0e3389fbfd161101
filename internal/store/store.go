// 包 store: 殖民时期大宅（casarão）登记的数据访问层，支持 postgres / mysql / sqlite3
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"patrio-api/internal/logger"
)

var (
	// ErrNotFound: 按 ID 未命中任何行
	ErrNotFound = errors.New("store: casarão not found")
	// ErrNoFields: 更新请求不含任何字段
	ErrNoFields = errors.New("store: no fields to update")
)

// Casarao: 登记记录
type Casarao struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description string  `db:"description" json:"description"`
	Location    string  `db:"location" json:"location"`
	CEP         *string `db:"cep" json:"cep,omitempty"`
	ImagePath   *string `db:"image_path" json:"image_path"`
	Date        *string `db:"date" json:"date"`
}

// Patch: 部分更新；nil 字段不变
type Patch struct {
	Name        *string
	Description *string
	Location    *string
	CEP         *string
	Date        *string
	ImagePath   *string
}

// Store: 数据库访问入口
type Store struct {
	db *sqlx.DB
}

func Attach(db *sqlx.DB) *Store { return &Store{db: db} }

// Open: 按驱动名打开连接并配置连接池
func Open(driver, dsn string) (*Store, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite3" {
		// sqlite 单写者
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(50)
		db.SetMaxIdleConns(25)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sqlx.DB { return s.db }

// Ping 健康检查
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// Create: 插入一条记录并回填 ID
// 约束：postgres 使用 RETURNING id；其余驱动使用 LastInsertId。
func (s *Store) Create(ctx context.Context, c *Casarao) error {
	const q = `INSERT INTO casaroes (name, description, location, cep, image_path, date) VALUES (?, ?, ?, ?, ?, ?)`
	args := []any{c.Name, c.Description, c.Location, c.CEP, c.ImagePath, c.Date}
	if s.db.DriverName() == "postgres" {
		if err := s.db.QueryRowxContext(ctx, s.db.Rebind(q+" RETURNING id"), args...).Scan(&c.ID); err != nil {
			return fmt.Errorf("store: insert casarão: %w", err)
		}
		return nil
	}
	res, err := s.db.ExecContext(ctx, s.db.Rebind(q), args...)
	if err != nil {
		return fmt.Errorf("store: insert casarão: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("store: insert casarão id: %w", err)
	}
	c.ID = id
	logger.L().Debug("casarao_created", "id", id)
	return nil
}

// List: 全部记录，按 ID 升序
func (s *Store) List(ctx context.Context) ([]Casarao, error) {
	out := []Casarao{}
	if err := s.db.SelectContext(ctx, &out, `SELECT id, name, description, location, image_path, date FROM casaroes ORDER BY id`); err != nil {
		return nil, fmt.Errorf("store: list casarões: %w", err)
	}
	return out, nil
}

// Get: 按 ID 读取
func (s *Store) Get(ctx context.Context, id int64) (Casarao, error) {
	var c Casarao
	err := s.db.GetContext(ctx, &c, s.db.Rebind(`SELECT id, name, description, location, cep, image_path, date FROM casaroes WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return Casarao{}, ErrNotFound
	}
	if err != nil {
		return Casarao{}, fmt.Errorf("store: get casarão: %w", err)
	}
	return c, nil
}

// 文档注释：部分更新
// 背景：列名来自固定白名单，只有值经占位符传入。
// 异常：无字段返回 ErrNoFields；未命中返回 ErrNotFound。
func (s *Store) Update(ctx context.Context, id int64, p Patch) error {
	cols := []struct {
		name string
		val  *string
	}{
		{"name", p.Name},
		{"description", p.Description},
		{"location", p.Location},
		{"cep", p.CEP},
		{"date", p.Date},
		{"image_path", p.ImagePath},
	}
	sets := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols)+1)
	for _, c := range cols {
		if c.val == nil {
			continue
		}
		sets = append(sets, c.name+" = ?")
		args = append(args, *c.val)
	}
	if len(sets) == 0 {
		return ErrNoFields
	}
	args = append(args, id)
	q := s.db.Rebind("UPDATE casaroes SET " + strings.Join(sets, ", ") + " WHERE id = ?")
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("store: update casarão: %w", err)
	}
	return affected(res)
}

// Delete: 删除记录
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM casaroes WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("store: delete casarão: %w", err)
	}
	return affected(res)
}

func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
