package router

import (
	"context"
)

type StatementError struct {
	Table     string `json:"table"`
	Statement string `json:"statement"`
	Error     string `json:"error"`
}

// Report 批量建表的结果
type Report struct {
	// Executed 成功执行的语句数
	Executed int              `json:"executed"`
	Failed   int              `json:"failed"`
	Errors   []StatementError `json:"errors,omitempty"`
}

// CreateTables 按注册顺序执行所有表的建表语句
// 同一张表的语句顺序执行；某条失败只记录日志，继续执行下一条
func (r *Router) CreateTables(ctx context.Context) Report {
	var report Report

	for _, table := range r.registry.All() {
		for _, stmt := range r.builder.Definitions(table) {
			if _, err := r.client.Execute(ctx, stmt); err != nil {
				r.logger.ErrorContext(ctx, "create table statement failed",
					"table", table.Name(),
					"statement", stmt.Text,
					"error", err.Error(),
				)
				report.Failed++
				report.Errors = append(report.Errors, StatementError{
					Table:     table.Name(),
					Statement: stmt.Text,
					Error:     err.Error(),
				})
				continue
			}
			report.Executed++
		}
	}

	r.logger.InfoContext(ctx, "create tables finished",
		"tables", r.registry.Len(),
		"executed", report.Executed,
		"failed", report.Failed,
	)

	return report
}
