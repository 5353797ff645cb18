// Package shared 跨领域共享的抽象
package shared

import "context"

// Transactor 事务执行器
// fn内通过ctx访问的仓储操作处于同一事务中：fn返回error时回滚，返回nil时提交。
// 嵌套调用复用外层事务。
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
