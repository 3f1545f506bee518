package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/equipe-service/internal/domain/equipe"
	"github.com/riskibarqy/equipe-service/internal/domain/funcionario"
)

// Database is the shared in-process store behind the memory repositories.
// Teams keep insertion order, which stands in for backend-defined order.
type Database struct {
	mu           sync.RWMutex
	equipes      []equipe.Equipe
	funcionarios []funcionario.Funcionario
	now          func() time.Time
}

func NewDatabase(funcionarios []funcionario.Funcionario, equipes []equipe.Equipe) *Database {
	db := &Database{
		funcionarios: append([]funcionario.Funcionario(nil), funcionarios...),
		equipes:      make([]equipe.Equipe, 0, len(equipes)),
		now:          time.Now,
	}
	for _, item := range equipes {
		stored := item.Clone()
		stored.Encarregado, stored.Apontador, stored.Membros = nil, nil, nil
		db.equipes = append(db.equipes, stored)
		db.assignMembersLocked(stored.ID, stored.MemberIDs)
	}

	return db
}

func NewSeededDatabase() *Database {
	return NewDatabase(SeedFuncionarios(), SeedEquipes())
}

func (d *Database) funcionarioIndexLocked(id string) int {
	for i := range d.funcionarios {
		if d.funcionarios[i].ID == id {
			return i
		}
	}
	return -1
}

func (d *Database) equipeIndexLocked(id string) int {
	for i := range d.equipes {
		if d.equipes[i].ID == id {
			return i
		}
	}
	return -1
}

func (d *Database) refLocked(id string) *funcionario.Ref {
	if id == "" {
		return nil
	}
	idx := d.funcionarioIndexLocked(id)
	if idx < 0 {
		// left join semantics: keep the id, name unresolved
		return &funcionario.Ref{ID: id}
	}
	ref := d.funcionarios[idx].Ref()
	return &ref
}

// joinedLocked returns a copy with the encarregado and apontador joined in.
func (d *Database) joinedLocked(item equipe.Equipe) equipe.Equipe {
	out := item.Clone()
	out.Encarregado = d.refLocked(item.EncarregadoID)
	out.Apontador = d.refLocked(item.ApontadorID)
	if out.MemberIDs == nil {
		out.MemberIDs = []string{}
	}
	return out
}

// checkReferencesLocked validates the leader columns only. Member ids are a
// plain array column and unknown entries are stored as given.
func (d *Database) checkReferencesLocked(item equipe.Equipe) error {
	for _, id := range []string{item.EncarregadoID, item.ApontadorID} {
		if id != "" && d.funcionarioIndexLocked(id) < 0 {
			return fmt.Errorf("funcionario id=%s: %w", id, equipe.ErrUnknownFuncionario)
		}
	}
	return nil
}

func (d *Database) releaseMembersLocked(equipeID string) {
	for i := range d.funcionarios {
		if d.funcionarios[i].EquipeID == equipeID {
			d.funcionarios[i].EquipeID = ""
		}
	}
}

func (d *Database) assignMembersLocked(equipeID string, memberIDs []string) {
	for _, id := range memberIDs {
		if idx := d.funcionarioIndexLocked(id); idx >= 0 {
			d.funcionarios[idx].EquipeID = equipeID
		}
	}
}
