package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	User         UserRepository
	Survey       SurveyRepository
	Question     QuestionRepository
	Response     ResponseRepository
	Answer       AnswerRepository
	Notification NotificationRepository
	Tx           Transactor
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Survey:       NewSurveyRepository(db),
		Question:     NewQuestionRepository(db),
		Response:     NewResponseRepository(db),
		Answer:       NewAnswerRepository(db),
		Notification: NewNotificationRepository(db),
		Tx:           NewTransactor(db),
	}
}

// TxRepositories are bound to one open transaction.
type TxRepositories struct {
	Response     ResponseRepository
	Answer       AnswerRepository
	Notification NotificationRepository
}

type Transactor interface {
	WithTx(ctx context.Context, fn func(repos TxRepositories) error) error
}

type transactor struct {
	db *sqlx.DB
}

func NewTransactor(db *sqlx.DB) Transactor {
	return &transactor{db: db}
}

func (t *transactor) WithTx(ctx context.Context, fn func(repos TxRepositories) error) (err error) {
	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	repos := TxRepositories{
		Response:     NewResponseRepository(tx),
		Answer:       NewAnswerRepository(tx),
		Notification: NewNotificationRepository(tx),
	}

	if err := fn(repos); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
