package postgrest

import (
	"time"

	"github.com/riskibarqy/equipe-service/internal/domain/equipe"
	"github.com/riskibarqy/equipe-service/internal/domain/funcionario"
)

const (
	equipesTable      = "bd_equipes"
	funcionariosTable = "bd_funcionarios"

	equipeSelect      = "*,encarregado:encarregado_id(id,nome_completo),apontador:apontador_id(id,nome_completo)"
	funcionarioSelect = "id,nome_completo,equipe_id,funcao"
	memberSelect      = "id,nome_completo"
)

type refRow struct {
	ID           string `json:"id" validate:"required"`
	NomeCompleto string `json:"nome_completo"`
}

type equipeRow struct {
	ID            string    `json:"id" validate:"required"`
	Nome          string    `json:"nome_equipe"`
	EncarregadoID *string   `json:"encarregado_id"`
	ApontadorID   *string   `json:"apontador_id"`
	Equipe        []string  `json:"equipe" validate:"omitempty,dive,required"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Encarregado   *refRow   `json:"encarregado" validate:"omitempty"`
	Apontador     *refRow   `json:"apontador" validate:"omitempty"`
}

type funcionarioRow struct {
	ID           string  `json:"id" validate:"required"`
	NomeCompleto string  `json:"nome_completo"`
	EquipeID     *string `json:"equipe_id"`
	Funcao       *string `json:"funcao"`
}

type equipeWrite struct {
	ID            string   `json:"id,omitempty"`
	Nome          string   `json:"nome_equipe"`
	EncarregadoID *string  `json:"encarregado_id"`
	ApontadorID   *string  `json:"apontador_id"`
	Equipe        []string `json:"equipe"`
}

type equipeIDWrite struct {
	EquipeID *string `json:"equipe_id"`
}

func (r equipeRow) toDomain() equipe.Equipe {
	out := equipe.Equipe{
		ID:            r.ID,
		Nome:          r.Nome,
		EncarregadoID: deref(r.EncarregadoID),
		ApontadorID:   deref(r.ApontadorID),
		MemberIDs:     append([]string{}, r.Equipe...),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if r.Encarregado != nil {
		out.Encarregado = &funcionario.Ref{ID: r.Encarregado.ID, NomeCompleto: r.Encarregado.NomeCompleto}
	}
	if r.Apontador != nil {
		out.Apontador = &funcionario.Ref{ID: r.Apontador.ID, NomeCompleto: r.Apontador.NomeCompleto}
	}
	return out
}

func (r funcionarioRow) toDomain() funcionario.Funcionario {
	return funcionario.Funcionario{
		ID:           r.ID,
		NomeCompleto: r.NomeCompleto,
		EquipeID:     deref(r.EquipeID),
		Funcao:       deref(r.Funcao),
	}
}

func equipeWriteFromDomain(item equipe.Equipe, withID bool) equipeWrite {
	out := equipeWrite{
		Nome:          item.Nome,
		EncarregadoID: optional(item.EncarregadoID),
		ApontadorID:   optional(item.ApontadorID),
		Equipe:        append([]string{}, item.MemberIDs...),
	}
	if withID {
		out.ID = item.ID
	}
	return out
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
