package redemption

import (
	"slices"
	"time"

	"github.com/jackyeh168/credit_ledger/src/internal/domain/card"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/credit"
	"github.com/jackyeh168/credit_ledger/src/internal/domain/shared"
)

// ===========================
// Mocks
// ===========================

// MockCardRepository 記憶體版卡片倉儲
type MockCardRepository struct {
	cards map[string]*card.Card
}

func NewMockCardRepository(cards ...*card.Card) *MockCardRepository {
	m := &MockCardRepository{cards: make(map[string]*card.Card)}
	for _, c := range cards {
		m.cards[c.CardID().String()] = c
	}
	return m
}

func (m *MockCardRepository) Save(ctx shared.TransactionContext, c *card.Card) error {
	m.cards[c.CardID().String()] = c
	return nil
}

func (m *MockCardRepository) FindByID(ctx shared.TransactionContext, id card.CardID) (*card.Card, error) {
	c, ok := m.cards[id.String()]
	if !ok {
		return nil, card.ErrCardNotFound
	}
	return c, nil
}

func (m *MockCardRepository) FindByCompanyID(ctx shared.TransactionContext, companyID card.CompanyID, includeExcluded bool) ([]*card.Card, error) {
	return nil, nil
}

func (m *MockCardRepository) Update(ctx shared.TransactionContext, c *card.Card) error {
	return nil
}

// MockCreditRepository 記憶體版點數倉儲
//
// 以值保存點數，讀取時返回副本，與資料庫相同：呼叫者修改實體不會影響已保存的資料。
// 支援事務：MarkUsed 修改前先記錄原值，MockTransactionManager 在 fn 返回錯誤時還原。
type MockCreditRepository struct {
	credits map[string]credit.Credit
	journal map[string]credit.Credit

	MarkUsedCallCount int
	// Loaded 記錄 Find 返回給呼叫者的實體
	Loaded []*credit.Credit
	// BeforeMarkUsed 在條件更新前執行（模擬並發兌換）
	BeforeMarkUsed func()
}

func NewMockCreditRepository(credits ...*credit.Credit) *MockCreditRepository {
	m := &MockCreditRepository{credits: make(map[string]credit.Credit)}
	for _, c := range credits {
		m.credits[c.CreditID().String()] = *c
	}
	return m
}

func (m *MockCreditRepository) begin() {
	m.journal = make(map[string]credit.Credit)
}

func (m *MockCreditRepository) rollback() {
	for k, original := range m.journal {
		m.credits[k] = original
	}
}

// Stored 返回目前保存的點數副本
func (m *MockCreditRepository) Stored(id credit.CreditID) *credit.Credit {
	c := m.credits[id.String()]
	return &c
}

func (m *MockCreditRepository) SaveAll(ctx shared.TransactionContext, credits []*credit.Credit) error {
	for _, c := range credits {
		m.credits[c.CreditID().String()] = *c
	}
	return nil
}

func (m *MockCreditRepository) FindByID(ctx shared.TransactionContext, id credit.CreditID) (*credit.Credit, error) {
	c, ok := m.credits[id.String()]
	if !ok {
		return nil, credit.ErrCreditNotFound
	}
	return &c, nil
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
		out = append(out, &c)
	}
	m.Loaded = append(m.Loaded, out...)
	return out, nil
}

func (m *MockCreditRepository) MarkUsed(ctx shared.TransactionContext, ids []credit.CreditID, requestedAt time.Time) (int64, error) {
	m.MarkUsedCallCount++
	if m.BeforeMarkUsed != nil {
		m.BeforeMarkUsed()
	}

	var affected int64
	for _, id := range ids {
		c, ok := m.credits[id.String()]
		if !ok || c.Status() != credit.StatusAvailable || c.Excluded() {
			continue
		}
		if m.journal != nil {
			m.journal[id.String()] = c
		}
		if err := c.MarkUsed(requestedAt); err != nil {
			return affected, err
		}
		m.credits[id.String()] = c
		affected++
	}
	return affected, nil
}

func (m *MockCreditRepository) TransitionStatus(ctx shared.TransactionContext, id credit.CreditID, from, to credit.Status, at time.Time) error {
	return nil
}

func (m *MockCreditRepository) Exclude(ctx shared.TransactionContext, id credit.CreditID, at time.Time) error {
	return nil
}

// MockTransactionManager 在 fn 失敗時回滾點數倉儲
type MockTransactionManager struct {
	repo                   *MockCreditRepository
	InTransactionCallCount int
	RollbackCount          int
}

func (m *MockTransactionManager) InTransaction(fn func(ctx shared.TransactionContext) error) error {
	m.InTransactionCallCount++
	m.repo.begin()
	if err := fn(nil); err != nil {
		m.RollbackCount++
		m.repo.rollback()
		return err
	}
	return nil
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
