package issuance

import (
	"slices"
	"time"

	"github.com/jackyeh168/credit_ledger/src/internal/domain/card"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/credit"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// ===========================
// Mocks
// ===========================

// MockCardRepository mock implementation of CardRepository
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) Save(ctx shared.TransactionContext, c *card.Card) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCardRepository) FindByID(ctx shared.TransactionContext, id card.CardID) (*card.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*card.Card), args.Error(1)
}

func (m *MockCardRepository) FindByCompanyID(ctx shared.TransactionContext, companyID card.CompanyID, includeExcluded bool) ([]*card.Card, error) {
	args := m.Called(ctx, companyID, includeExcluded)
	return args.Get(0).([]*card.Card), args.Error(1)
}

func (m *MockCardRepository) Update(ctx shared.TransactionContext, c *card.Card) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

// MockCreditRepository 記憶體版點數倉儲
type MockCreditRepository struct {
	credits map[string]*credit.Credit

	SaveAllCallCount   int
	SavedBatchSizes    []int
	TransitionCalls    int
	ExcludeCallCount   int
	SaveAllError       error
	TransitionOverride error
}

func NewMockCreditRepository() *MockCreditRepository {
	return &MockCreditRepository{credits: make(map[string]*credit.Credit)}
}

func (m *MockCreditRepository) put(c *credit.Credit) {
	m.credits[c.CreditID().String()] = c
}

func (m *MockCreditRepository) All() []*credit.Credit {
	var out []*credit.Credit
	for _, c := range m.credits {
		out = append(out, c)
	}
	return out
}

func (m *MockCreditRepository) SaveAll(ctx shared.TransactionContext, credits []*credit.Credit) error {
	m.SaveAllCallCount++
	if m.SaveAllError != nil {
		return m.SaveAllError
	}
	m.SavedBatchSizes = append(m.SavedBatchSizes, len(credits))
	for _, c := range credits {
		m.put(c)
	}
	return nil
}

func (m *MockCreditRepository) FindByID(ctx shared.TransactionContext, id credit.CreditID) (*credit.Credit, error) {
	c, ok := m.credits[id.String()]
	if !ok {
		return nil, credit.ErrCreditNotFound.WithContext("credit_id", id.String())
	}
	return c, nil
}

func (m *MockCreditRepository) Find(ctx shared.TransactionContext, filter credit.Filter) ([]*credit.Credit, error) {
	var out []*credit.Credit
	for _, c := range m.credits {
		if !filter.UserID.IsEmpty() && !c.UserID().Equals(filter.UserID) {
			continue
		}
		if !filter.CardID.IsEmpty() && !c.CardID().Equals(filter.CardID) {
			continue
		}
		if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, c.Status()) {
			continue
		}
		if !filter.IncludeExcluded && c.Excluded() {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *MockCreditRepository) MarkUsed(ctx shared.TransactionContext, ids []credit.CreditID, requestedAt time.Time) (int64, error) {
	panic("not used by issuance")
}

func (m *MockCreditRepository) TransitionStatus(ctx shared.TransactionContext, id credit.CreditID, from, to credit.Status, at time.Time) error {
	m.TransitionCalls++
	return m.TransitionOverride
}

func (m *MockCreditRepository) Exclude(ctx shared.TransactionContext, id credit.CreditID, at time.Time) error {
	m.ExcludeCallCount++
	return nil
}

// MockTransactionManager mock implementation of TransactionManager
type MockTransactionManager struct {
	InTransactionCallCount int
}

func (m *MockTransactionManager) InTransaction(fn func(ctx shared.TransactionContext) error) error {
	m.InTransactionCallCount++
	// Directly execute the function with nil context (for unit tests)
	return fn(nil)
}

// MockEventPublisher 記錄已發布的事件
type MockEventPublisher struct {
	Events []shared.DomainEvent
}

func (m *MockEventPublisher) Publish(event shared.DomainEvent) error {
	m.Events = append(m.Events, event)
	return nil
}

func (m *MockEventPublisher) PublishBatch(events []shared.DomainEvent) error {
	m.Events = append(m.Events, events...)
	return nil
}
