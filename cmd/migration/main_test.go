package main

import (
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/riskibarqy/equipe-service/internal/platform/logging"
)

type fakeMigrator struct {
	upErr   error
	steps   []int
	forced  []int
	targets []uint
}

func (f *fakeMigrator) Up() error { return f.upErr }

func (f *fakeMigrator) Steps(n int) error {
	f.steps = append(f.steps, n)
	return nil
}

func (f *fakeMigrator) Migrate(version uint) error {
	f.targets = append(f.targets, version)
	return nil
}

func (f *fakeMigrator) Force(version int) error {
	f.forced = append(f.forced, version)
	return nil
}

func (f *fakeMigrator) Version() (uint, bool, error) { return 0, false, migrate.ErrNilVersion }

func TestExecute_Commands(t *testing.T) {
	logger := logging.NewNop()
	m := &fakeMigrator{upErr: migrate.ErrNoChange}

	if err := execute(m, logger, "up", nil); err != nil {
		t.Fatalf("up with no change should succeed: %v", err)
	}
	if err := execute(m, logger, "down", nil); err != nil {
		t.Fatalf("down: %v", err)
	}
	if err := execute(m, logger, "DOWN", []string{"3"}); err != nil {
		t.Fatalf("down 3: %v", err)
	}
	if len(m.steps) != 2 || m.steps[0] != -1 || m.steps[1] != -3 {
		t.Fatalf("unexpected down steps: %v", m.steps)
	}
	if err := execute(m, logger, "force", []string{"2026101701"}); err != nil {
		t.Fatalf("force: %v", err)
	}
	if err := execute(m, logger, "goto", []string{"2026101701"}); err != nil {
		t.Fatalf("goto: %v", err)
	}
	if len(m.forced) != 1 || m.forced[0] != 2026101701 || len(m.targets) != 1 || m.targets[0] != 2026101701 {
		t.Fatalf("unexpected forced=%v targets=%v", m.forced, m.targets)
	}
	if err := execute(m, logger, "version", nil); err != nil {
		t.Fatalf("version without migrations should succeed: %v", err)
	}
}

func TestExecute_BadArguments(t *testing.T) {
	logger := logging.NewNop()
	cases := []struct {
		command string
		args    []string
	}{
		{"down", []string{"0"}},
		{"down", []string{"x"}},
		{"force", nil},
		{"goto", []string{"-1"}},
		{"seed", nil},
	}
	for _, tc := range cases {
		if err := execute(&fakeMigrator{}, logger, tc.command, tc.args); !errors.Is(err, errUsage) {
			t.Fatalf("%s %v: expected usage error, got %v", tc.command, tc.args, err)
		}
	}
}

func TestExecute_PropagatesMigrationErrors(t *testing.T) {
	dirty := errors.New("dirty database version 2026101701")
	if err := execute(&fakeMigrator{upErr: dirty}, logging.NewNop(), "up", nil); !errors.Is(err, dirty) {
		t.Fatalf("expected migration error, got %v", err)
	}
}
