package funcionario

import "fmt"

const (
	RoleEncarregado = "Encarregado"
	RoleApontador   = "Apontador"
)

// Funcionario is an employee that can lead, schedule or belong to a team.
type Funcionario struct {
	ID           string
	NomeCompleto string
	EquipeID     string
	Funcao       string
}

// Ref is the reduced employee shape embedded in team records.
type Ref struct {
	ID           string
	NomeCompleto string
}

func (f Funcionario) Ref() Ref {
	return Ref{ID: f.ID, NomeCompleto: f.NomeCompleto}
}

func (f Funcionario) Validate() error {
	if f.ID == "" {
		return fmt.Errorf("funcionario id is required")
	}
	if f.NomeCompleto == "" {
		return fmt.Errorf("funcionario nome_completo is required")
	}

	return nil
}
