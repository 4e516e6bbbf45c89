// Package memory provides an in-memory implementation of the expense
// persistence port. It honours the same contract as the gorm repositories
// (atomic units of work, unique invoice per card and reference month) and is
// used to test the allocation engine without a database.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/contacerta/backend/internal/application/adapter"
	"github.com/contacerta/backend/internal/domain/entity"
)

type invoiceKey struct {
	cardID uuid.UUID
	month  string
}

func keyOf(cardID uuid.UUID, referenceMonth time.Time) invoiceKey {
	return invoiceKey{cardID: cardID, month: referenceMonth.UTC().Format("2006-01")}
}

type state struct {
	expenses     map[uuid.UUID]entity.Expense
	installments map[uuid.UUID]entity.Installment
	invoices     map[uuid.UUID]entity.Invoice
	invoiceKeys  map[invoiceKey]uuid.UUID
	cards        map[uuid.UUID]entity.Card
	categories   map[uuid.UUID]entity.Category
}

func newState() *state {
	return &state{
		expenses:     make(map[uuid.UUID]entity.Expense),
		installments: make(map[uuid.UUID]entity.Installment),
		invoices:     make(map[uuid.UUID]entity.Invoice),
		invoiceKeys:  make(map[invoiceKey]uuid.UUID),
		cards:        make(map[uuid.UUID]entity.Card),
		categories:   make(map[uuid.UUID]entity.Category),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.expenses {
		c.expenses[k] = v
	}
	for k, v := range s.installments {
		c.installments[k] = v
	}
	for k, v := range s.invoices {
		c.invoices[k] = v
	}
	for k, v := range s.invoiceKeys {
		c.invoiceKeys[k] = v
	}
	for k, v := range s.cards {
		c.cards[k] = v
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	return c
}

// Store is an in-memory store implementing adapter.UnitOfWork and
// adapter.Repositories. Units of work are serialized; reads made outside a
// unit of work may observe its uncommitted writes.
type Store struct {
	txMu   sync.Mutex
	dataMu sync.Mutex
	data   *state

	faults       map[string]error
	invoiceRaces int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		data:   newState(),
		faults: make(map[string]error),
	}
}

// Do runs fn atomically: every write made through repos is discarded when
// fn returns an error or panics.
func (s *Store) Do(ctx context.Context, fn func(repos adapter.Repositories) error) (err error) {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.dataMu.Lock()
	snapshot := s.data.clone()
	s.dataMu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			s.restore(snapshot)
			panic(r)
		}
		if err != nil {
			s.restore(snapshot)
		}
	}()

	return fn(s)
}

func (s *Store) restore(snapshot *state) {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	s.data = snapshot
}

// FailOn makes the named operation (e.g. "Invoices.AddToTotal") return err
// until ClearFaults is called.
func (s *Store) FailOn(operation string, err error) {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	s.faults[operation] = err
}

// ClearFaults removes every injected failure.
func (s *Store) ClearFaults() {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	s.faults = make(map[string]error)
}

// RaceInvoiceCreation makes the next n invoice inserts lose a race: a
// competing invoice with the same card and reference month appears just
// before the insert, which then fails with a uniqueness conflict.
func (s *Store) RaceInvoiceCreation(n int) {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	s.invoiceRaces = n
}

// fault must be called with dataMu held.
func (s *Store) fault(operation string) error {
	if err, ok := s.faults[operation]; ok {
		return fmt.Errorf("%s: %w", operation, err)
	}
	return nil
}

// Expenses returns the expense repository.
func (s *Store) Expenses() adapter.ExpenseRepository { return &expenseRepository{s: s} }

// Installments returns the installment repository.
func (s *Store) Installments() adapter.InstallmentRepository { return &installmentRepository{s: s} }

// Invoices returns the invoice repository.
func (s *Store) Invoices() adapter.InvoiceRepository { return &invoiceRepository{s: s} }

// Cards returns the card repository.
func (s *Store) Cards() adapter.CardRepository { return &cardRepository{s: s} }

// Categories returns the category repository.
func (s *Store) Categories() adapter.CategoryRepository { return &categoryRepository{s: s} }

var (
	_ adapter.UnitOfWork   = (*Store)(nil)
	_ adapter.Repositories = (*Store)(nil)
)
