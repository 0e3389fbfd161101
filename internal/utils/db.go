// 包 utils：数据库与 Redis 连接工具，统一环境变量读取
package utils

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func BuildPostgresDSNFromEnv() string {
	dsn := "postgres://" + envOr("PG_USER", "postgres")
	if pass := os.Getenv("PG_PASSWORD"); pass != "" {
		dsn += ":" + pass
	}
	dsn += "@" + envOr("PG_HOST", "localhost") + ":" + envOr("PG_PORT", "5432") + "/" + envOr("PG_DB", "patrio") + "?sslmode=" + envOr("PG_SSLMODE", "disable")
	return dsn
}

// BuildMySQLDSNFromEnv：MYSQL_TLS=skip-verify 对应托管实例的自签证书
func BuildMySQLDSNFromEnv() string {
	cfg := mysql.NewConfig()
	cfg.User = envOr("MYSQL_USER", "root")
	cfg.Passwd = os.Getenv("MYSQL_PASSWORD")
	cfg.Net = "tcp"
	cfg.Addr = envOr("MYSQL_HOST", "127.0.0.1") + ":" + envOr("MYSQL_PORT", "3306")
	cfg.DBName = envOr("MYSQL_DB", "patrio")
	cfg.ClientFoundRows = true
	cfg.Timeout = 5 * time.Second
	if tls := os.Getenv("MYSQL_TLS"); tls != "" {
		cfg.TLSConfig = tls
	}
	return cfg.FormatDSN()
}

// DSNFromEnv：DB_DSN 优先，否则按驱动拼装
func DSNFromEnv(driver string) (string, error) {
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		return dsn, nil
	}
	switch driver {
	case "postgres":
		return BuildPostgresDSNFromEnv(), nil
	case "mysql":
		return BuildMySQLDSNFromEnv(), nil
	case "sqlite3":
		return envOr("SQLITE_PATH", "patrio.db"), nil
	}
	return "", fmt.Errorf("utils: unsupported DB_DRIVER %q", driver)
}

// OpenDBFromEnv：按 DB_DRIVER 打开连接池，PG_/DB_MAX_OPEN_CONNS 控制上限
func OpenDBFromEnv(driver string) (*sqlx.DB, error) {
	dsn, err := DSNFromEnv(driver)
	if err != nil {
		return nil, err
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite3" {
		db.SetMaxOpenConns(1)
		return db, nil
	}
	maxOpen := 50
	maxIdle := 25
	if v := os.Getenv("DB_MAX_OPEN_CONNS"); v != "" {
		if n, e := strconv.Atoi(v); e == nil {
			maxOpen = n
		}
	}
	if v := os.Getenv("DB_MAX_IDLE_CONNS"); v != "" {
		if n, e := strconv.Atoi(v); e == nil {
			maxIdle = n
		}
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	return db, nil
}
