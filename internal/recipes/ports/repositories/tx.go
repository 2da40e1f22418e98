package repositories

import (
	"context"
	"sync"
)

// TxManager выполняет fn в области транзакции хранилища.
// Репозитории, вызванные с переданным контекстом, участвуют в этой транзакции.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type onCommitKey struct{}

type onCommitHooks struct {
	mu  sync.Mutex
	fns []func(ctx context.Context)
}

// WithOnCommit возвращает контекст, в котором OnCommit накапливает действия, и функцию,
// выполняющую их. Функцию вызывают после успешной фиксации транзакции.
func WithOnCommit(ctx context.Context) (context.Context, func(ctx context.Context)) {
	hooks := &onCommitHooks{}
	run := func(ctx context.Context) {
		hooks.mu.Lock()
		fns := hooks.fns
		hooks.fns = nil
		hooks.mu.Unlock()

		for _, fn := range fns {
			fn(ctx)
		}
	}
	return context.WithValue(ctx, onCommitKey{}, hooks), run
}

// OnCommit откладывает fn до фиксации транзакции, начатой с контекстом из WithOnCommit.
// Вне такого контекста fn не вызывается.
func OnCommit(ctx context.Context, fn func(ctx context.Context)) {
	hooks, ok := ctx.Value(onCommitKey{}).(*onCommitHooks)
	if !ok {
		return
	}
	hooks.mu.Lock()
	hooks.fns = append(hooks.fns, fn)
	hooks.mu.Unlock()
}
