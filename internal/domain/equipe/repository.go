package equipe

import "context"

// Repository describes team persistence needs from use cases.
// Writes keep the members' equipe_id back-reference in sync.
type Repository interface {
	List(ctx context.Context, filter Filter) ([]Equipe, error)
	GetByID(ctx context.Context, id string) (Equipe, bool, error)
	Create(ctx context.Context, item Equipe) (Equipe, error)
	Update(ctx context.Context, item Equipe) (Equipe, error)
	Delete(ctx context.Context, id string) error
}
