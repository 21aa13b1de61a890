package database

import (
	"gorm.io/gorm/clause"
	"gorm.io/hints"
)

// ReportComment prefixes the SELECT with /* report:<name> */ so statements can
// be told apart in pg_stat_statements and the server log.
func ReportComment(name string) clause.Expression {
	return hints.CommentBefore("select", "report:"+name)
}
