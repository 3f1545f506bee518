package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/equipe-service/internal/domain/equipe"
	qb "github.com/riskibarqy/equipe-service/internal/platform/querybuilder"
)

type EquipeRepository struct {
	db *sqlx.DB
}

func NewEquipeRepository(db *sqlx.DB) *EquipeRepository {
	return &EquipeRepository{db: db}
}

func selectEquipes() *qb.SelectBuilder {
	return qb.Select(equipeSelectColumns...).
		From(equipesTable+" e").
		LeftJoin(funcionariosTable+" enc", "enc.id = e.encarregado_id").
		LeftJoin(funcionariosTable+" apo", "apo.id = e.apontador_id")
}

func buildListEquipesQuery(filter equipe.Filter) (string, []any, error) {
	filter = filter.Normalize()

	conditions := make([]qb.Condition, 0, 3)
	if filter.Nome != "" {
		conditions = append(conditions, qb.ILikeContains("e.nome_equipe", filter.Nome))
	}
	if filter.EncarregadoID != "" {
		conditions = append(conditions, qb.Eq("e.encarregado_id", filter.EncarregadoID))
	}
	if filter.ApontadorID != "" {
		conditions = append(conditions, qb.Eq("e.apontador_id", filter.ApontadorID))
	}

	return selectEquipes().Where(conditions...).ToSQL()
}

func (r *EquipeRepository) List(ctx context.Context, filter equipe.Filter) ([]equipe.Equipe, error) {
	query, args, err := buildListEquipesQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("build list equipes query: %w", err)
	}

	var rows []equipeTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		if isInvalidUUID(err) {
			return []equipe.Equipe{}, nil
		}
		return nil, fmt.Errorf("list equipes: %w", err)
	}

	out := make([]equipe.Equipe, 0, len(rows))
	for _, row := range rows {
		out = append(out, equipeFromRow(row))
	}
	return out, nil
}

func (r *EquipeRepository) GetByID(ctx context.Context, id string) (equipe.Equipe, bool, error) {
	return r.getByID(ctx, r.db, id)
}

func (r *EquipeRepository) getByID(ctx context.Context, q sqlx.QueryerContext, id string) (equipe.Equipe, bool, error) {
	query, args, err := selectEquipes().Where(qb.Eq("e.id", id)).ToSQL()
	if err != nil {
		return equipe.Equipe{}, false, fmt.Errorf("build get equipe by id query: %w", err)
	}

	var row equipeTableModel
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if isNotFound(err) || isInvalidUUID(err) {
			return equipe.Equipe{}, false, nil
		}
		return equipe.Equipe{}, false, fmt.Errorf("get equipe by id: %w", err)
	}

	return equipeFromRow(row), true, nil
}

func (r *EquipeRepository) Create(ctx context.Context, item equipe.Equipe) (equipe.Equipe, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return equipe.Equipe{}, fmt.Errorf("begin tx create equipe: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.InsertModel(equipesTable, equipeInsertFromDomain(item), "")
	if err != nil {
		return equipe.Equipe{}, fmt.Errorf("build create equipe query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return equipe.Equipe{}, wrapWriteError("create equipe", err)
	}

	if err := assignMembers(ctx, tx, item.ID, item.MemberIDs); err != nil {
		return equipe.Equipe{}, err
	}

	created, found, err := r.getByID(ctx, tx, item.ID)
	if err != nil {
		return equipe.Equipe{}, err
	}
	if !found {
		return equipe.Equipe{}, fmt.Errorf("reload created equipe id=%s: %w", item.ID, equipe.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return equipe.Equipe{}, fmt.Errorf("commit create equipe tx: %w", err)
	}

	return created, nil
}

func (r *EquipeRepository) Update(ctx context.Context, item equipe.Equipe) (equipe.Equipe, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return equipe.Equipe{}, fmt.Errorf("begin tx update equipe: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	insert := equipeInsertFromDomain(item)
	query, args, err := qb.Update(equipesTable).
		Set("nome_equipe", insert.Nome).
		Set("encarregado_id", insert.EncarregadoID).
		Set("apontador_id", insert.ApontadorID).
		Set("equipe", insert.MemberIDs).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", item.ID)).
		ToSQL()
	if err != nil {
		return equipe.Equipe{}, fmt.Errorf("build update equipe query: %w", err)
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		if isInvalidUUID(err) {
			return equipe.Equipe{}, fmt.Errorf("update equipe id=%s: %w", item.ID, equipe.ErrNotFound)
		}
		return equipe.Equipe{}, wrapWriteError("update equipe", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return equipe.Equipe{}, fmt.Errorf("rows affected update equipe: %w", err)
	}
	if affected == 0 {
		return equipe.Equipe{}, fmt.Errorf("update equipe id=%s: %w", item.ID, equipe.ErrNotFound)
	}

	if err := releaseMembers(ctx, tx, item.ID); err != nil {
		return equipe.Equipe{}, err
	}
	if err := assignMembers(ctx, tx, item.ID, item.MemberIDs); err != nil {
		return equipe.Equipe{}, err
	}

	updated, found, err := r.getByID(ctx, tx, item.ID)
	if err != nil {
		return equipe.Equipe{}, err
	}
	if !found {
		return equipe.Equipe{}, fmt.Errorf("reload updated equipe id=%s: %w", item.ID, equipe.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return equipe.Equipe{}, fmt.Errorf("commit update equipe tx: %w", err)
	}

	return updated, nil
}

func (r *EquipeRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx delete equipe: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := releaseMembers(ctx, tx, id); err != nil {
		if isInvalidUUID(err) {
			return fmt.Errorf("delete equipe id=%s: %w", id, equipe.ErrNotFound)
		}
		return err
	}

	query, args, err := qb.DeleteFrom(equipesTable).Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete equipe query: %w", err)
	}
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete equipe: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected delete equipe: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete equipe id=%s: %w", id, equipe.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete equipe tx: %w", err)
	}

	return nil
}

// releaseMembers clears the equipe back-reference of every current member.
func releaseMembers(ctx context.Context, tx *sqlx.Tx, equipeID string) error {
	query, args, err := qb.Update(funcionariosTable).
		Set("equipe_id", nil).
		Where(qb.Eq("equipe_id", equipeID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build release members query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("release members of equipe id=%s: %w", equipeID, err)
	}
	return nil
}

func assignMembers(ctx context.Context, tx *sqlx.Tx, equipeID string, memberIDs []string) error {
	if len(memberIDs) == 0 {
		return nil
	}

	query, args, err := qb.Update(funcionariosTable).
		Set("equipe_id", equipeID).
		Where(qb.Expr("id = ANY(?)", pq.StringArray(memberIDs))).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build assign members query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("assign members to equipe id=%s: %w", equipeID, err)
	}
	return nil
}

func wrapWriteError(op string, err error) error {
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%s: %w", op, equipe.ErrUnknownFuncionario)
	}
	return fmt.Errorf("%s: %w", op, err)
}
