package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/equipe --output domain/equipe --outpkg equipemock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/funcionario --output domain/funcionario --outpkg funcionariomock --filename repository_mock.go
