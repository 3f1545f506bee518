package httpapi

import (
	"time"

	"github.com/riskibarqy/equipe-service/internal/domain/equipe"
	"github.com/riskibarqy/equipe-service/internal/domain/funcionario"
	"github.com/riskibarqy/equipe-service/internal/platform/cache"
	"github.com/riskibarqy/equipe-service/internal/usecase"
)

type upsertEquipeRequest struct {
	NomeEquipe    string   `json:"nome_equipe" validate:"required,max=255"`
	EncarregadoID string   `json:"encarregado_id" validate:"omitempty,uuid"`
	ApontadorID   string   `json:"apontador_id" validate:"omitempty,uuid"`
	Equipe        []string `json:"equipe" validate:"omitempty,dive,required"`
}

func (r upsertEquipeRequest) toFormData() equipe.FormData {
	return equipe.FormData{
		Nome:          r.NomeEquipe,
		EncarregadoID: r.EncarregadoID,
		ApontadorID:   r.ApontadorID,
		MemberIDs:     r.Equipe,
	}
}

type funcionarioRefDTO struct {
	ID           string `json:"id"`
	NomeCompleto string `json:"nome_completo"`
}

type equipeDTO struct {
	ID            string              `json:"id"`
	NomeEquipe    string              `json:"nome_equipe"`
	EncarregadoID string              `json:"encarregado_id,omitempty"`
	ApontadorID   string              `json:"apontador_id,omitempty"`
	Equipe        []string            `json:"equipe"`
	Encarregado   *funcionarioRefDTO  `json:"encarregado"`
	Apontador     *funcionarioRefDTO  `json:"apontador"`
	Membros       []funcionarioRefDTO `json:"membros"`
	MembrosStatus string              `json:"membros_status,omitempty"`
	CreatedAt     string              `json:"created_at,omitempty"`
	UpdatedAt     string              `json:"updated_at,omitempty"`
}

type funcionarioDTO struct {
	ID           string `json:"id"`
	NomeCompleto string `json:"nome_completo"`
	EquipeID     string `json:"equipe_id,omitempty"`
	Funcao       string `json:"funcao,omitempty"`
}

type queryStateDTO struct {
	Status     string `json:"status"`
	IsLoading  bool   `json:"is_loading"`
	IsError    bool   `json:"is_error"`
	IsStale    bool   `json:"is_stale"`
	Error      string `json:"error,omitempty"`
	UpdatedAt  string `json:"updated_at,omitempty"`
	FetchCount int    `json:"fetch_count"`
}

type equipesQueryDTO struct {
	Data  []equipeDTO   `json:"data"`
	State queryStateDTO `json:"state"`
}

type funcionariosQueryDTO struct {
	Data  []funcionarioDTO `json:"data"`
	State queryStateDTO    `json:"state"`
}

type overviewDTO struct {
	Equipes      equipesQueryDTO      `json:"equipes"`
	Encarregados funcionariosQueryDTO `json:"encarregados"`
	Apontadores  funcionariosQueryDTO `json:"apontadores"`
	Funcionarios funcionariosQueryDTO `json:"funcionarios"`
	IsLoading    bool                 `json:"is_loading"`
}

func equipeToDTO(v equipe.Equipe) equipeDTO {
	out := equipeDTO{
		ID:            v.ID,
		NomeEquipe:    v.Nome,
		EncarregadoID: v.EncarregadoID,
		ApontadorID:   v.ApontadorID,
		Equipe:        append(make([]string, 0, len(v.MemberIDs)), v.MemberIDs...),
		Encarregado:   refToDTO(v.Encarregado),
		Apontador:     refToDTO(v.Apontador),
		Membros:       make([]funcionarioRefDTO, 0, len(v.Membros)),
		MembrosStatus: string(v.MembrosStatus),
		CreatedAt:     formatTime(v.CreatedAt),
		UpdatedAt:     formatTime(v.UpdatedAt),
	}
	for _, m := range v.Membros {
		out.Membros = append(out.Membros, funcionarioRefDTO{ID: m.ID, NomeCompleto: m.NomeCompleto})
	}

	return out
}

func equipesToDTO(items []equipe.Equipe) []equipeDTO {
	out := make([]equipeDTO, 0, len(items))
	for _, item := range items {
		out = append(out, equipeToDTO(item))
	}
	return out
}

func refToDTO(ref *funcionario.Ref) *funcionarioRefDTO {
	if ref == nil {
		return nil
	}
	return &funcionarioRefDTO{ID: ref.ID, NomeCompleto: ref.NomeCompleto}
}

func funcionariosToDTO(items []funcionario.Funcionario) []funcionarioDTO {
	out := make([]funcionarioDTO, 0, len(items))
	for _, f := range items {
		out = append(out, funcionarioDTO{
			ID:           f.ID,
			NomeCompleto: f.NomeCompleto,
			EquipeID:     f.EquipeID,
			Funcao:       f.Funcao,
		})
	}
	return out
}

func queryStateToDTO(state cache.QueryState) queryStateDTO {
	out := queryStateDTO{
		Status:     string(state.Status),
		IsLoading:  state.IsLoading(),
		IsError:    state.IsError(),
		IsStale:    state.IsStale,
		UpdatedAt:  formatTime(state.UpdatedAt),
		FetchCount: state.FetchCount,
	}
	if state.Err != nil {
		out.Error = state.Err.Error()
	}
	return out
}

func overviewToDTO(v usecase.Overview) overviewDTO {
	return overviewDTO{
		Equipes: equipesQueryDTO{
			Data:  equipesToDTO(v.Equipes.Data),
			State: queryStateToDTO(v.Equipes.State),
		},
		Encarregados: funcionariosQueryDTO{
			Data:  funcionariosToDTO(v.Encarregados.Data),
			State: queryStateToDTO(v.Encarregados.State),
		},
		Apontadores: funcionariosQueryDTO{
			Data:  funcionariosToDTO(v.Apontadores.Data),
			State: queryStateToDTO(v.Apontadores.State),
		},
		Funcionarios: funcionariosQueryDTO{
			Data:  funcionariosToDTO(v.Funcionarios.Data),
			State: queryStateToDTO(v.Funcionarios.State),
		},
		IsLoading: v.IsLoading(),
	}
}

func formatTime(v time.Time) string {
	if v.IsZero() {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}
