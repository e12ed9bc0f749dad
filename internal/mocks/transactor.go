package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dennisohere/quickform/internal/repository"
)

// Transactor runs fn against Repos. A non-nil error configured on WithTx
// short-circuits before fn, mimicking a failed BEGIN.
type Transactor struct {
	mock.Mock
	Repos repository.TxRepositories
}

func (m *Transactor) WithTx(ctx context.Context, fn func(repos repository.TxRepositories) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m.Repos)
}
