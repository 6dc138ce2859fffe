package database

import (
	"errors"
	"regexp"
	"strings"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	mysqlDupEntry  = 1062
	pgUniqueViolat = "23505"
)

var (
	reMySQLKey  = regexp.MustCompile(`for key '([^']+)'`)
	rePgKey     = regexp.MustCompile(`unique constraint "([^"]+)"`)
	reSQLiteKey = regexp.MustCompile(`UNIQUE constraint failed: ([\w.]+)`)
)

// DuplicateColumn 返回冲突的列名；无法定位列时返回 "", true
func DuplicateColumn(err error) (string, bool) {
	if err == nil {
		return "", false
	}

	var myErr *gomysql.MySQLError
	if errors.As(err, &myErr) {
		if myErr.Number != mysqlDupEntry {
			return "", false
		}
		return columnFromKey(firstSubmatch(reMySQLKey, myErr.Message)), true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgUniqueViolat {
			return "", false
		}
		return columnFromKey(pgErr.ConstraintName), true
	}

	// 文本兜底（sqlite / 被包装过的驱动错误）
	msg := err.Error()
	if m := firstSubmatch(reSQLiteKey, msg); m != "" {
		return columnFromKey(m), true
	}
	lower := strings.ToLower(msg)
	if strings.Contains(lower, "duplicate") ||
		strings.Contains(lower, "unique constraint") ||
		strings.Contains(lower, "unique violation") {
		key := firstSubmatch(reMySQLKey, msg)
		if key == "" {
			key = firstSubmatch(rePgKey, msg)
		}
		return columnFromKey(key), true
	}
	return "", false
}

func firstSubmatch(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return ""
}

// columnFromKey 索引命名约定 uq_<table>_<column>；也接受 <table>.<column>
func columnFromKey(key string) string {
	if i := strings.LastIndexByte(key, '.'); i >= 0 {
		key = key[i+1:]
	}
	if rest, ok := strings.CutPrefix(key, "uq_"); ok {
		if _, col, found := strings.Cut(rest, "_"); found {
			return col
		}
		return rest
	}
	return key
}
