package postgrest

import (
	"context"
	"fmt"

	"github.com/riskibarqy/equipe-service/internal/domain/equipe"
	"github.com/valyala/fasthttp"
)

// EquipeRepository reads and writes teams through PostgREST. PostgREST has no
// multi-statement transactions, so back-reference updates run as separate
// requests after the team write.
type EquipeRepository struct {
	client *Client
}

func NewEquipeRepository(client *Client) *EquipeRepository {
	return &EquipeRepository{client: client}
}

func listEquipesQuery(filter equipe.Filter) *Query {
	filter = filter.Normalize()

	q := NewQuery().Select(equipeSelect)
	if filter.Nome != "" {
		q.ILikeContains("nome_equipe", filter.Nome)
	}
	if filter.EncarregadoID != "" {
		q.Eq("encarregado_id", filter.EncarregadoID)
	}
	if filter.ApontadorID != "" {
		q.Eq("apontador_id", filter.ApontadorID)
	}
	return q
}

func (r *EquipeRepository) List(ctx context.Context, filter equipe.Filter) ([]equipe.Equipe, error) {
	rows, err := r.fetch(ctx, listEquipesQuery(filter))
	if err != nil {
		if isInvalidUUID(err) {
			return []equipe.Equipe{}, nil
		}
		return nil, fmt.Errorf("list equipes: %w", err)
	}
	return rows, nil
}

func (r *EquipeRepository) GetByID(ctx context.Context, id string) (equipe.Equipe, bool, error) {
	rows, err := r.fetch(ctx, NewQuery().Select(equipeSelect).Eq("id", id))
	if err != nil {
		if isInvalidUUID(err) {
			return equipe.Equipe{}, false, nil
		}
		return equipe.Equipe{}, false, fmt.Errorf("get equipe by id: %w", err)
	}
	if len(rows) == 0 {
		return equipe.Equipe{}, false, nil
	}
	return rows[0], true, nil
}

func (r *EquipeRepository) Create(ctx context.Context, item equipe.Equipe) (equipe.Equipe, error) {
	var rows []equipeRow
	err := r.client.do(ctx, request{
		method: fasthttp.MethodPost,
		table:  equipesTable,
		query:  NewQuery().Select(equipeSelect),
		body:   equipeWriteFromDomain(item, true),
		prefer: preferReturnRepresentation,
	}, &rows)
	if err != nil {
		return equipe.Equipe{}, wrapWriteError("create equipe", err)
	}
	created, err := r.single(rows, item.ID)
	if err != nil {
		return equipe.Equipe{}, fmt.Errorf("create equipe: %w", err)
	}

	if err := r.assignMembers(ctx, item.ID, item.MemberIDs); err != nil {
		return equipe.Equipe{}, err
	}

	return created, nil
}

func (r *EquipeRepository) Update(ctx context.Context, item equipe.Equipe) (equipe.Equipe, error) {
	var rows []equipeRow
	err := r.client.do(ctx, request{
		method: fasthttp.MethodPatch,
		table:  equipesTable,
		query:  NewQuery().Select(equipeSelect).Eq("id", item.ID),
		body:   equipeWriteFromDomain(item, false),
		prefer: preferReturnRepresentation,
	}, &rows)
	if err != nil {
		if isInvalidUUID(err) {
			return equipe.Equipe{}, fmt.Errorf("update equipe id=%s: %w", item.ID, equipe.ErrNotFound)
		}
		return equipe.Equipe{}, wrapWriteError("update equipe", err)
	}
	updated, err := r.single(rows, item.ID)
	if err != nil {
		return equipe.Equipe{}, fmt.Errorf("update equipe: %w", err)
	}

	if err := r.releaseMembers(ctx, item.ID); err != nil {
		return equipe.Equipe{}, err
	}
	if err := r.assignMembers(ctx, item.ID, item.MemberIDs); err != nil {
		return equipe.Equipe{}, err
	}

	return updated, nil
}

func (r *EquipeRepository) Delete(ctx context.Context, id string) error {
	if err := r.releaseMembers(ctx, id); err != nil {
		if isInvalidUUID(err) {
			return fmt.Errorf("delete equipe id=%s: %w", id, equipe.ErrNotFound)
		}
		return err
	}

	var rows []equipeRow
	err := r.client.do(ctx, request{
		method: fasthttp.MethodDelete,
		table:  equipesTable,
		query:  NewQuery().Select("id,nome_equipe").Eq("id", id),
		prefer: preferReturnRepresentation,
	}, &rows)
	if err != nil {
		return fmt.Errorf("delete equipe: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("delete equipe id=%s: %w", id, equipe.ErrNotFound)
	}

	return nil
}

func (r *EquipeRepository) fetch(ctx context.Context, q *Query) ([]equipe.Equipe, error) {
	var rows []equipeRow
	if err := r.client.do(ctx, request{method: fasthttp.MethodGet, table: equipesTable, query: q}, &rows); err != nil {
		return nil, err
	}
	if err := validateRows(r.client, rows); err != nil {
		return nil, err
	}

	out := make([]equipe.Equipe, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *EquipeRepository) single(rows []equipeRow, id string) (equipe.Equipe, error) {
	if len(rows) == 0 {
		return equipe.Equipe{}, fmt.Errorf("id=%s: %w", id, equipe.ErrNotFound)
	}
	if err := validateRows(r.client, rows[:1]); err != nil {
		return equipe.Equipe{}, err
	}
	return rows[0].toDomain(), nil
}

func (r *EquipeRepository) releaseMembers(ctx context.Context, equipeID string) error {
	err := r.client.do(ctx, request{
		method: fasthttp.MethodPatch,
		table:  funcionariosTable,
		query:  NewQuery().Eq("equipe_id", equipeID),
		body:   equipeIDWrite{EquipeID: nil},
		prefer: preferReturnMinimal,
	}, nil)
	if err != nil {
		return fmt.Errorf("release members of equipe id=%s: %w", equipeID, err)
	}
	return nil
}

func (r *EquipeRepository) assignMembers(ctx context.Context, equipeID string, memberIDs []string) error {
	if len(memberIDs) == 0 {
		return nil
	}
	err := r.client.do(ctx, request{
		method: fasthttp.MethodPatch,
		table:  funcionariosTable,
		query:  NewQuery().In("id", memberIDs),
		body:   equipeIDWrite{EquipeID: &equipeID},
		prefer: preferReturnMinimal,
	}, nil)
	if err != nil {
		return fmt.Errorf("assign members to equipe id=%s: %w", equipeID, err)
	}
	return nil
}

func wrapWriteError(op string, err error) error {
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%s: %w: %w", op, equipe.ErrUnknownFuncionario, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
