package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/riskibarqy/equipe-service/internal/domain/equipe"
	"github.com/riskibarqy/equipe-service/internal/domain/funcionario"
)

const (
	equipesTable      = "bd_equipes"
	funcionariosTable = "bd_funcionarios"
)

var equipeSelectColumns = []string{
	"e.id",
	"e.nome_equipe",
	"e.encarregado_id",
	"e.apontador_id",
	"e.equipe",
	"e.created_at",
	"e.updated_at",
	"enc.nome_completo AS encarregado_nome",
	"apo.nome_completo AS apontador_nome",
}

type equipeTableModel struct {
	ID              string         `db:"id"`
	Nome            string         `db:"nome_equipe"`
	EncarregadoID   sql.NullString `db:"encarregado_id"`
	ApontadorID     sql.NullString `db:"apontador_id"`
	MemberIDs       pq.StringArray `db:"equipe"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
	EncarregadoNome sql.NullString `db:"encarregado_nome"`
	ApontadorNome   sql.NullString `db:"apontador_nome"`
}

type equipeInsertModel struct {
	ID            string         `db:"id"`
	Nome          string         `db:"nome_equipe"`
	EncarregadoID sql.NullString `db:"encarregado_id"`
	ApontadorID   sql.NullString `db:"apontador_id"`
	MemberIDs     pq.StringArray `db:"equipe"`
}

type funcionarioTableModel struct {
	ID           string         `db:"id"`
	NomeCompleto string         `db:"nome_completo"`
	EquipeID     sql.NullString `db:"equipe_id"`
	Funcao       sql.NullString `db:"funcao"`
}

func equipeFromRow(row equipeTableModel) equipe.Equipe {
	out := equipe.Equipe{
		ID:            row.ID,
		Nome:          row.Nome,
		EncarregadoID: row.EncarregadoID.String,
		ApontadorID:   row.ApontadorID.String,
		MemberIDs:     []string(row.MemberIDs),
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
	if out.MemberIDs == nil {
		out.MemberIDs = []string{}
	}
	if row.EncarregadoID.Valid {
		out.Encarregado = &funcionario.Ref{ID: row.EncarregadoID.String, NomeCompleto: row.EncarregadoNome.String}
	}
	if row.ApontadorID.Valid {
		out.Apontador = &funcionario.Ref{ID: row.ApontadorID.String, NomeCompleto: row.ApontadorNome.String}
	}

	return out
}

func equipeInsertFromDomain(item equipe.Equipe) equipeInsertModel {
	members := pq.StringArray(item.MemberIDs)
	if members == nil {
		members = pq.StringArray{}
	}
	return equipeInsertModel{
		ID:            item.ID,
		Nome:          item.Nome,
		EncarregadoID: nullString(item.EncarregadoID),
		ApontadorID:   nullString(item.ApontadorID),
		MemberIDs:     members,
	}
}

func funcionarioFromRow(row funcionarioTableModel) funcionario.Funcionario {
	return funcionario.Funcionario{
		ID:           row.ID,
		NomeCompleto: row.NomeCompleto,
		EquipeID:     row.EquipeID.String,
		Funcao:       row.Funcao.String,
	}
}
