package employee

import "context"

// Repository は社員を保持する外部ストアの抽象です。
// 各操作は単独でアトミックであることを前提とします。
type Repository interface {
	// Insert は社員を登録し、ストアが採番した ID を返します。
	Insert(ctx context.Context, employee *Employee) (int64, error)
	SelectAll(ctx context.Context) ([]*Employee, error)
	// SelectByID は該当がなければ ErrEmployeeNotFound を返します。
	SelectByID(ctx context.Context, id int64) (*Employee, error)
	// Update は ID で社員を更新し、影響行数を返します。
	Update(ctx context.Context, employee *Employee) (int64, error)
	// Delete は ID で社員を削除し、影響行数を返します。
	Delete(ctx context.Context, id int64) (int64, error)
}
