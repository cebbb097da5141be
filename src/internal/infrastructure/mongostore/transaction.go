package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jackyeh168/credit_ledger/src/internal/domain/shared"
)

// sessionContext 包裝 mongo.SessionContext
type sessionContext struct {
	ctx mongo.SessionContext
}

// Context 返回 session 綁定的 context（僅供倉儲使用）
func (s *sessionContext) Context() context.Context {
	return s.ctx
}

// TransactionManager 以 MongoDB 多文件交易實作 shared.TransactionManager
type TransactionManager struct {
	client  *mongo.Client
	timeout time.Duration
}

// InTransaction 在單一 session 交易中執行 fn
//
// fn 返回錯誤時中止交易；panic 時 EndSession 中止交易後繼續 panic。
// 暫時性錯誤（TransientTransactionError）由驅動重試整個 fn。
func (m *TransactionManager) InTransaction(fn func(ctx shared.TransactionContext) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	session, err := m.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(context.Background())

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(&sessionContext{ctx: sc})
	})
	return err
}

type contextCarrier interface {
	Context() context.Context
}

// operationContext 事務中使用 session context，否則建立帶逾時的背景 context
func operationContext(tc shared.TransactionContext, timeout time.Duration) (context.Context, context.CancelFunc) {
	if tc != nil {
		if carrier, ok := tc.(contextCarrier); ok {
			return carrier.Context(), func() {}
		}
	}
	return context.WithTimeout(context.Background(), timeout)
}
