package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
)

var (
	// ErrBeginTx возвращается, когда не удалось начать транзакцию
	ErrBeginTx = errors.New("txmanager: failed to begin transaction")

	// ErrCommitTx возвращается, когда не удалось закоммитить транзакцию
	ErrCommitTx = errors.New("txmanager: failed to commit transaction")
)

// Beginner источник транзакций (*dbmetrics.DB)
type Beginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// TransactionRecorder принимает результат транзакции для метрик
type TransactionRecorder interface {
	ObserveTransaction(isolation, result string)
}

// TransactionManager выполняет функции в транзакции, передавая её через context.
// Репозитории получают транзакцию через dbmetrics.GetExecutor.
type TransactionManager struct {
	db       Beginner
	recorder TransactionRecorder
}

// NewTransactionManager создает менеджер транзакций. recorder может быть nil.
func NewTransactionManager(db Beginner, recorder TransactionRecorder) *TransactionManager {
	return &TransactionManager{db: db, recorder: recorder}
}

// Do выполняет fn в транзакции READ COMMITTED
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, fn)
}

// DoSerializable выполняет fn в транзакции SERIALIZABLE.
// Ошибка сериализации (40001) возвращается вызывающему как есть, без повторов.
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
}

// DoReadOnly выполняет fn в read-only транзакции REPEATABLE READ (согласованный снимок)
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}, fn)
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	// Вложенный вызов переиспользует внешнюю транзакцию
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	isolation := opts.Isolation.String()

	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		m.observe(isolation, "error")
		return fmt.Errorf("%w: %w", ErrBeginTx, err)
	}

	if err := fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		m.observe(isolation, "rollback")
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		m.observe(isolation, "error")
		return fmt.Errorf("%w: %w", ErrCommitTx, err)
	}

	m.observe(isolation, "commit")
	return nil
}

func (m *TransactionManager) observe(isolation, result string) {
	if m.recorder != nil {
		m.recorder.ObserveTransaction(isolation, result)
	}
}
