package funcionario

import "context"

// Repository describes employee reads needed by the team use cases.
type Repository interface {
	ListByRole(ctx context.Context, role string) ([]Funcionario, error)
	ListAll(ctx context.Context) ([]Funcionario, error)
	ListByIDs(ctx context.Context, ids []string) ([]Ref, error)
}
