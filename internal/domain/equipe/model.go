package equipe

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/equipe-service/internal/domain/funcionario"
)

var (
	ErrNotFound           = errors.New("equipe not found")
	ErrUnknownFuncionario = errors.New("referenced funcionario does not exist")
)

type MembersStatus string

const (
	MembersPending MembersStatus = ""
	MembersLoaded  MembersStatus = "loaded"
	MembersEmpty   MembersStatus = "empty"
	MembersFailed  MembersStatus = "failed"
)

// Equipe is a work crew with a supervisor (encarregado), a scheduler
// (apontador) and an ordered list of member employees.
type Equipe struct {
	ID            string
	Nome          string
	EncarregadoID string
	ApontadorID   string
	MemberIDs     []string
	Encarregado   *funcionario.Ref
	Apontador     *funcionario.Ref
	Membros       []funcionario.Ref
	MembrosStatus MembersStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Enriched reports whether member names were resolved for this record.
func (e Equipe) Enriched() bool {
	return e.Membros != nil
}

func (e Equipe) Clone() Equipe {
	out := e
	if e.MemberIDs != nil {
		out.MemberIDs = append([]string(nil), e.MemberIDs...)
	}
	if e.Membros != nil {
		out.Membros = append(make([]funcionario.Ref, 0, len(e.Membros)), e.Membros...)
	}
	if e.Encarregado != nil {
		ref := *e.Encarregado
		out.Encarregado = &ref
	}
	if e.Apontador != nil {
		ref := *e.Apontador
		out.Apontador = &ref
	}

	return out
}

func CloneAll(items []Equipe) []Equipe {
	out := make([]Equipe, 0, len(items))
	for _, item := range items {
		out = append(out, item.Clone())
	}
	return out
}

// Filter narrows a team listing. Empty fields are not applied.
type Filter struct {
	Nome          string
	EncarregadoID string
	ApontadorID   string
}

func (f Filter) Normalize() Filter {
	return Filter{
		Nome:          strings.TrimSpace(f.Nome),
		EncarregadoID: strings.TrimSpace(f.EncarregadoID),
		ApontadorID:   strings.TrimSpace(f.ApontadorID),
	}
}

// CacheKey is stable for filters with the same content.
func (f Filter) CacheKey() string {
	n := f.Normalize()
	return fmt.Sprintf("nome=%q|encarregado=%q|apontador=%q", strings.ToLower(n.Nome), n.EncarregadoID, n.ApontadorID)
}

// Matches applies the filter semantics in memory.
func (f Filter) Matches(e Equipe) bool {
	n := f.Normalize()
	if n.Nome != "" && !strings.Contains(strings.ToLower(e.Nome), strings.ToLower(n.Nome)) {
		return false
	}
	if n.EncarregadoID != "" && e.EncarregadoID != n.EncarregadoID {
		return false
	}
	if n.ApontadorID != "" && e.ApontadorID != n.ApontadorID {
		return false
	}

	return true
}

// FormData is the writable part of a team.
type FormData struct {
	Nome          string   `validate:"required,max=255"`
	EncarregadoID string   `validate:"omitempty,uuid"`
	ApontadorID   string   `validate:"omitempty,uuid"`
	MemberIDs     []string `validate:"omitempty,unique,dive,required,uuid"`
}

func (d FormData) Normalize() FormData {
	out := FormData{
		Nome:          strings.TrimSpace(d.Nome),
		EncarregadoID: strings.TrimSpace(d.EncarregadoID),
		ApontadorID:   strings.TrimSpace(d.ApontadorID),
		MemberIDs:     make([]string, 0, len(d.MemberIDs)),
	}
	for _, id := range d.MemberIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		out.MemberIDs = append(out.MemberIDs, id)
	}

	return out
}

// Apply returns a record carrying the form values under the given id.
func (d FormData) Apply(id string) Equipe {
	n := d.Normalize()
	return Equipe{
		ID:            id,
		Nome:          n.Nome,
		EncarregadoID: n.EncarregadoID,
		ApontadorID:   n.ApontadorID,
		MemberIDs:     n.MemberIDs,
	}
}
