package migrate

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"patrio-api/internal/logger"
)

var schemas = map[string][]string{
	"postgres": {
		`CREATE TABLE IF NOT EXISTS casaroes (
            id BIGSERIAL PRIMARY KEY,
            name TEXT NOT NULL DEFAULT '',
            description TEXT NOT NULL DEFAULT '',
            location TEXT NOT NULL DEFAULT '',
            cep TEXT,
            image_path TEXT,
            date TEXT
        )`,
		`CREATE INDEX IF NOT EXISTS idx_casaroes_name ON casaroes(name)`,
	},
	"mysql": {
		`CREATE TABLE IF NOT EXISTS casaroes (
            id BIGINT AUTO_INCREMENT PRIMARY KEY,
            name VARCHAR(255) NOT NULL DEFAULT '',
            description TEXT,
            location VARCHAR(255) NOT NULL DEFAULT '',
            cep VARCHAR(16),
            image_path VARCHAR(512),
            date VARCHAR(32),
            INDEX idx_casaroes_name (name)
        ) DEFAULT CHARSET=utf8mb4`,
	},
	"sqlite3": {
		`CREATE TABLE IF NOT EXISTS casaroes (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL DEFAULT '',
            description TEXT NOT NULL DEFAULT '',
            location TEXT NOT NULL DEFAULT '',
            cep TEXT,
            image_path TEXT,
            date TEXT
        )`,
		`CREATE INDEX IF NOT EXISTS idx_casaroes_name ON casaroes(name)`,
	},
}

// 背景：首次运行自动创建 casaroes 表，按驱动选择方言
// 约束：使用 IF NOT EXISTS，可重复执行；未知驱动返回错误
func EnsureSchema(db *sqlx.DB) error {
	stmts, ok := schemas[db.DriverName()]
	if !ok {
		return fmt.Errorf("migrate: unsupported driver %q", db.DriverName())
	}
	for i, s := range stmts {
		logger.L().Debug("schema_exec", "driver", db.DriverName(), "idx", i)
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}
