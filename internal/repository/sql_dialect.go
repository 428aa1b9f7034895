package repository

import (
	"fmt"
	"strings"

	"github.com/storefront-next/internal/constants"

	"gorm.io/gorm"
)

var localizedJSONSearchKeys = []string{constants.LocaleEN, constants.LocaleAR}

// likeEscapeClause 用户输入中的 % 与 _ 统一用反斜杠转义
const likeEscapeClause = `ESCAPE '\'`

// dbDialectName 获取数据库方言名称，默认按 sqlite 处理。
func dbDialectName(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return "sqlite"
	}
	name := strings.ToLower(strings.TrimSpace(db.Dialector.Name()))
	if name == "" {
		return "sqlite"
	}
	return name
}

func isPostgresDialect(dialect string) bool {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql":
		return true
	default:
		return false
	}
}

func jsonTextExprByDialect(dialect, column, key string) string {
	if isPostgresDialect(dialect) {
		// postgres 统一转 jsonb 后再使用 ->> 提取文本
		return fmt.Sprintf("(%s::jsonb ->> '%s')", column, key)
	}
	// sqlite 使用 json_extract，语言键使用引号避免 - 等特殊字符问题
	return fmt.Sprintf("json_extract(%s, '$.\"%s\"')", column, key)
}

// buildLocalizedLikeCondition 构建普通列 + JSON 多语言列的 LIKE 条件，并返回参数数量。
func buildLocalizedLikeCondition(db *gorm.DB, plainColumns, jsonColumns []string) (string, int) {
	return buildLocalizedLikeConditionByDialect(dbDialectName(db), plainColumns, jsonColumns)
}

func buildLocalizedLikeConditionByDialect(dialect string, plainColumns, jsonColumns []string) (string, int) {
	parts := make([]string, 0, len(plainColumns)+len(jsonColumns)*len(localizedJSONSearchKeys))
	operator := likeOperatorByDialect(dialect)

	for _, column := range plainColumns {
		trimmed := strings.TrimSpace(column)
		if trimmed == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s ? %s", trimmed, operator, likeEscapeClause))
	}

	for _, column := range jsonColumns {
		trimmed := strings.TrimSpace(column)
		if trimmed == "" {
			continue
		}
		for _, key := range localizedJSONSearchKeys {
			parts = append(parts, fmt.Sprintf("%s %s ? %s", jsonTextExprByDialect(dialect, trimmed, key), operator, likeEscapeClause))
		}
	}

	return strings.Join(parts, " OR "), len(parts)
}

func likeOperatorByDialect(dialect string) string {
	if isPostgresDialect(dialect) {
		return "ILIKE"
	}
	return "LIKE"
}

// escapeLike 转义 LIKE 通配符，使搜索词按字面匹配
func escapeLike(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(term)
}

// likePattern 按搜索模式生成 LIKE 参数：prefix 锚定开头，contains 任意位置
func likePattern(term string, prefix bool) string {
	escaped := escapeLike(term)
	if prefix {
		return escaped + "%"
	}
	return "%" + escaped + "%"
}

// repeatLikeArgs 生成重复的 LIKE 参数列表。
func repeatLikeArgs(like string, count int) []interface{} {
	args := make([]interface{}, 0, count)
	for i := 0; i < count; i++ {
		args = append(args, like)
	}
	return args
}
