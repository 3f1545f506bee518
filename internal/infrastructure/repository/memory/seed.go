package memory

import (
	"time"

	"github.com/riskibarqy/equipe-service/internal/domain/equipe"
	"github.com/riskibarqy/equipe-service/internal/domain/funcionario"
)

const (
	FuncionarioIDCarlos  = "6f1c2a6e-2d1b-4b1e-9a51-0c8a1f3e5b01"
	FuncionarioIDMarta   = "6f1c2a6e-2d1b-4b1e-9a51-0c8a1f3e5b02"
	FuncionarioIDJoao    = "6f1c2a6e-2d1b-4b1e-9a51-0c8a1f3e5b03"
	FuncionarioIDLucia   = "6f1c2a6e-2d1b-4b1e-9a51-0c8a1f3e5b04"
	FuncionarioIDPedro   = "6f1c2a6e-2d1b-4b1e-9a51-0c8a1f3e5b05"
	FuncionarioIDAna     = "6f1c2a6e-2d1b-4b1e-9a51-0c8a1f3e5b06"
	FuncionarioIDRafael  = "6f1c2a6e-2d1b-4b1e-9a51-0c8a1f3e5b07"
	FuncionarioIDBeatriz = "6f1c2a6e-2d1b-4b1e-9a51-0c8a1f3e5b08"

	EquipeIDAlvenaria = "a3d0c9e4-7f55-4a7a-8d0e-1b2c3d4e5f01"
	EquipeIDEletrica  = "a3d0c9e4-7f55-4a7a-8d0e-1b2c3d4e5f02"
)

func SeedFuncionarios() []funcionario.Funcionario {
	return []funcionario.Funcionario{
		{ID: FuncionarioIDCarlos, NomeCompleto: "Carlos Henrique Souza", Funcao: funcionario.RoleEncarregado},
		{ID: FuncionarioIDMarta, NomeCompleto: "Marta Regina Alves", Funcao: funcionario.RoleEncarregado},
		{ID: FuncionarioIDJoao, NomeCompleto: "João Pedro Lima", Funcao: funcionario.RoleApontador},
		{ID: FuncionarioIDLucia, NomeCompleto: "Lúcia Ferreira", Funcao: funcionario.RoleApontador},
		{ID: FuncionarioIDPedro, NomeCompleto: "Pedro Santos", Funcao: "Pedreiro"},
		{ID: FuncionarioIDAna, NomeCompleto: "Ana Clara Rocha", Funcao: "Servente"},
		{ID: FuncionarioIDRafael, NomeCompleto: "Rafael Gomes", Funcao: "Eletricista"},
		{ID: FuncionarioIDBeatriz, NomeCompleto: "Beatriz Nunes", Funcao: "Eletricista"},
	}
}

func SeedEquipes() []equipe.Equipe {
	createdAt := time.Date(2025, 3, 3, 7, 0, 0, 0, time.UTC)
	return []equipe.Equipe{
		{
			ID:            EquipeIDAlvenaria,
			Nome:          "Alvenaria Bloco A",
			EncarregadoID: FuncionarioIDCarlos,
			ApontadorID:   FuncionarioIDJoao,
			MemberIDs:     []string{FuncionarioIDPedro, FuncionarioIDAna},
			CreatedAt:     createdAt,
			UpdatedAt:     createdAt,
		},
		{
			ID:            EquipeIDEletrica,
			Nome:          "Instalações Elétricas",
			EncarregadoID: FuncionarioIDMarta,
			ApontadorID:   FuncionarioIDLucia,
			MemberIDs:     []string{FuncionarioIDRafael, FuncionarioIDBeatriz},
			CreatedAt:     createdAt,
			UpdatedAt:     createdAt,
		},
	}
}
