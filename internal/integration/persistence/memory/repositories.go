package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/contacerta/backend/internal/application/adapter"
	"github.com/contacerta/backend/internal/domain/entity"
	domainerror "github.com/contacerta/backend/internal/domain/error"
)

type expenseRepository struct{ s *Store }

func (r *expenseRepository) Create(_ context.Context, expense *entity.Expense) error {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	if err := r.s.fault("Expenses.Create"); err != nil {
		return err
	}
	r.s.data.expenses[expense.ID] = *expense
	return nil
}

func (r *expenseRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Expense, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	e, ok := r.s.data.expenses[id]
	if !ok {
		return nil, domainerror.ErrExpenseNotFound
	}
	return &e, nil
}

func (r *expenseRepository) FindByFilter(_ context.Context, filter entity.ExpenseFilter) ([]*entity.Expense, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()

	result := make([]*entity.Expense, 0)
	for _, e := range r.s.data.expenses {
		if e.OwnerID != filter.OwnerID {
			continue
		}
		if filter.StartDate != nil && e.Date.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && e.Date.After(*filter.EndDate) {
			continue
		}
		if filter.CardID != nil && (e.CardID == nil || *e.CardID != *filter.CardID) {
			continue
		}
		e := e
		result = append(result, &e)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Date.Equal(result[j].Date) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].Date.After(result[j].Date)
	})
	return result, nil
}

func (r *expenseRepository) Update(_ context.Context, expense *entity.Expense) error {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	if err := r.s.fault("Expenses.Update"); err != nil {
		return err
	}
	if _, ok := r.s.data.expenses[expense.ID]; !ok {
		return domainerror.ErrExpenseNotFound
	}
	r.s.data.expenses[expense.ID] = *expense
	return nil
}

func (r *expenseRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	if err := r.s.fault("Expenses.Delete"); err != nil {
		return err
	}
	if _, ok := r.s.data.expenses[id]; !ok {
		return domainerror.ErrExpenseNotFound
	}
	delete(r.s.data.expenses, id)
	return nil
}

func (r *expenseRepository) CountByCard(_ context.Context, cardID uuid.UUID) (int64, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	var n int64
	for _, e := range r.s.data.expenses {
		if e.CardID != nil && *e.CardID == cardID {
			n++
		}
	}
	return n, nil
}

type installmentRepository struct{ s *Store }

func (r *installmentRepository) CreateBatch(_ context.Context, installments []*entity.Installment) error {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	if err := r.s.fault("Installments.CreateBatch"); err != nil {
		return err
	}
	for _, in := range installments {
		r.s.data.installments[in.ID] = *in
	}
	return nil
}

func (r *installmentRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Installment, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	in, ok := r.s.data.installments[id]
	if !ok {
		return nil, domainerror.ErrInstallmentNotFound
	}
	return &in, nil
}

func (r *installmentRepository) FindByExpense(_ context.Context, expenseID uuid.UUID) ([]*entity.Installment, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	return r.collect(func(in entity.Installment) bool { return in.ExpenseID == expenseID }), nil
}

func (r *installmentRepository) FindByExpenses(_ context.Context, expenseIDs []uuid.UUID) ([]*entity.Installment, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	wanted := make(map[uuid.UUID]struct{}, len(expenseIDs))
	for _, id := range expenseIDs {
		wanted[id] = struct{}{}
	}
	return r.collect(func(in entity.Installment) bool {
		_, ok := wanted[in.ExpenseID]
		return ok
	}), nil
}

func (r *installmentRepository) FindByInvoice(_ context.Context, invoiceID uuid.UUID) ([]*entity.Installment, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	result := r.collect(func(in entity.Installment) bool {
		return in.InvoiceID != nil && *in.InvoiceID == invoiceID
	})
	sort.SliceStable(result, func(i, j int) bool { return result[i].DueDate.Before(result[j].DueDate) })
	return result, nil
}

// collect must be called with dataMu held. Results are ordered by expense then number.
func (r *installmentRepository) collect(match func(entity.Installment) bool) []*entity.Installment {
	result := make([]*entity.Installment, 0)
	for _, in := range r.s.data.installments {
		if match(in) {
			in := in
			result = append(result, &in)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].ExpenseID != result[j].ExpenseID {
			return result[i].ExpenseID.String() < result[j].ExpenseID.String()
		}
		return result[i].Number < result[j].Number
	})
	return result
}

func (r *installmentRepository) SetInvoice(_ context.Context, installmentID uuid.UUID, invoiceID *uuid.UUID) error {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	if err := r.s.fault("Installments.SetInvoice"); err != nil {
		return err
	}
	in, ok := r.s.data.installments[installmentID]
	if !ok {
		return domainerror.ErrExpenseNotFound
	}
	if invoiceID != nil {
		if _, ok := r.s.data.invoices[*invoiceID]; !ok {
			return domainerror.ErrInvoiceNotFound
		}
		id := *invoiceID
		in.InvoiceID = &id
	} else {
		in.InvoiceID = nil
	}
	r.s.data.installments[installmentID] = in
	return nil
}

func (r *installmentRepository) SetPaid(_ context.Context, installmentID uuid.UUID, paid bool) error {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	if err := r.s.fault("Installments.SetPaid"); err != nil {
		return err
	}
	in, ok := r.s.data.installments[installmentID]
	if !ok {
		return domainerror.ErrInstallmentNotFound
	}
	in.Paid = paid
	r.s.data.installments[installmentID] = in
	return nil
}

func (r *installmentRepository) CountByInvoice(_ context.Context, invoiceID uuid.UUID) (int64, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	var n int64
	for _, in := range r.s.data.installments {
		if in.InvoiceID != nil && *in.InvoiceID == invoiceID {
			n++
		}
	}
	return n, nil
}

func (r *installmentRepository) DeleteByExpense(_ context.Context, expenseID uuid.UUID) error {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	if err := r.s.fault("Installments.DeleteByExpense"); err != nil {
		return err
	}
	for id, in := range r.s.data.installments {
		if in.ExpenseID == expenseID {
			delete(r.s.data.installments, id)
		}
	}
	return nil
}

type invoiceRepository struct{ s *Store }

func (r *invoiceRepository) Create(_ context.Context, invoice *entity.Invoice) error {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	if err := r.s.fault("Invoices.Create"); err != nil {
		return err
	}
	key := keyOf(invoice.CardID, invoice.ReferenceMonth)
	if r.s.invoiceRaces > 0 {
		r.s.invoiceRaces--
		if _, taken := r.s.data.invoiceKeys[key]; !taken {
			rival := entity.NewInvoice(invoice.CardID, invoice.ReferenceMonth, invoice.DueDate)
			r.s.data.invoices[rival.ID] = *rival
			r.s.data.invoiceKeys[key] = rival.ID
		}
	}
	if _, taken := r.s.data.invoiceKeys[key]; taken {
		return domainerror.ErrInvoiceConflict
	}
	r.s.data.invoices[invoice.ID] = *invoice
	r.s.data.invoiceKeys[key] = invoice.ID
	return nil
}

func (r *invoiceRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Invoice, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	inv, ok := r.s.data.invoices[id]
	if !ok {
		return nil, domainerror.ErrInvoiceNotFound
	}
	return &inv, nil
}

func (r *invoiceRepository) FindByCardAndMonth(_ context.Context, cardID uuid.UUID, referenceMonth time.Time) (*entity.Invoice, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	id, ok := r.s.data.invoiceKeys[keyOf(cardID, referenceMonth)]
	if !ok {
		return nil, domainerror.ErrInvoiceNotFound
	}
	inv := r.s.data.invoices[id]
	return &inv, nil
}

func (r *invoiceRepository) FindByCard(_ context.Context, cardID uuid.UUID) ([]*entity.Invoice, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	result := make([]*entity.Invoice, 0)
	for _, inv := range r.s.data.invoices {
		if inv.CardID == cardID {
			inv := inv
			result = append(result, &inv)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DueDate.Before(result[j].DueDate) })
	return result, nil
}

func (r *invoiceRepository) AddToTotal(_ context.Context, id uuid.UUID, delta decimal.Decimal) error {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	if err := r.s.fault("Invoices.AddToTotal"); err != nil {
		return err
	}
	inv, ok := r.s.data.invoices[id]
	if !ok {
		return domainerror.ErrInvoiceNotFound
	}
	inv.TotalAmount = inv.TotalAmount.Add(delta)
	inv.UpdatedAt = time.Now().UTC()
	r.s.data.invoices[id] = inv
	return nil
}

func (r *invoiceRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	if err := r.s.fault("Invoices.Delete"); err != nil {
		return err
	}
	inv, ok := r.s.data.invoices[id]
	if !ok {
		return domainerror.ErrInvoiceNotFound
	}
	delete(r.s.data.invoiceKeys, keyOf(inv.CardID, inv.ReferenceMonth))
	delete(r.s.data.invoices, id)
	return nil
}

func (r *invoiceRepository) DeleteByCard(_ context.Context, cardID uuid.UUID) error {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	for id, inv := range r.s.data.invoices {
		if inv.CardID == cardID {
			delete(r.s.data.invoiceKeys, keyOf(inv.CardID, inv.ReferenceMonth))
			delete(r.s.data.invoices, id)
		}
	}
	return nil
}

type cardRepository struct{ s *Store }

func (r *cardRepository) Create(_ context.Context, card *entity.Card) error {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	r.s.data.cards[card.ID] = *card
	return nil
}

func (r *cardRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Card, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	c, ok := r.s.data.cards[id]
	if !ok {
		return nil, domainerror.ErrCardNotFound
	}
	return &c, nil
}

// FindByIDForUpdate needs no lock of its own: Do runs one unit of work at a time.
func (r *cardRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Card, error) {
	return r.FindByID(ctx, id)
}

func (r *cardRepository) FindByOwner(_ context.Context, ownerID uuid.UUID) ([]*entity.Card, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	result := make([]*entity.Card, 0)
	for _, c := range r.s.data.cards {
		if c.OwnerID == ownerID {
			c := c
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (r *cardRepository) UpdateDetails(_ context.Context, card *entity.Card) error {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	c, ok := r.s.data.cards[card.ID]
	if !ok {
		return domainerror.ErrCardNotFound
	}
	c.Bank = card.Bank
	c.LastFourDigits = card.LastFourDigits
	c.UpdatedAt = time.Now().UTC()
	r.s.data.cards[card.ID] = c
	return nil
}

func (r *cardRepository) AdjustLimits(_ context.Context, id uuid.UUID, adjustment adapter.LimitAdjustment, allowNegative bool) error {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	if err := r.s.fault("Cards.AdjustLimits"); err != nil {
		return err
	}
	c, ok := r.s.data.cards[id]
	if !ok {
		return domainerror.ErrCardNotFound
	}
	remaining := c.RemainingLimit.Add(adjustment.Remaining)
	if !allowNegative && adjustment.Remaining.IsNegative() && remaining.IsNegative() {
		return domainerror.ErrInsufficientLimit
	}
	c.RemainingLimit = remaining
	c.TotalLimit = c.TotalLimit.Add(adjustment.Total)
	c.UpdatedAt = time.Now().UTC()
	r.s.data.cards[id] = c
	return nil
}

func (r *cardRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	if _, ok := r.s.data.cards[id]; !ok {
		return domainerror.ErrCardNotFound
	}
	delete(r.s.data.cards, id)
	return nil
}

type categoryRepository struct{ s *Store }

func (r *categoryRepository) Create(_ context.Context, category *entity.Category) error {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	r.s.data.categories[category.ID] = *category
	return nil
}

func (r *categoryRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	c, ok := r.s.data.categories[id]
	if !ok {
		return nil, domainerror.ErrCategoryNotFound
	}
	return &c, nil
}

func (r *categoryRepository) FindByOwner(_ context.Context, ownerID uuid.UUID) ([]*entity.Category, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	result := make([]*entity.Category, 0)
	for _, c := range r.s.data.categories {
		if c.OwnerID == ownerID {
			c := c
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *categoryRepository) Update(_ context.Context, category *entity.Category) error {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	if _, ok := r.s.data.categories[category.ID]; !ok {
		return domainerror.ErrCategoryNotFound
	}
	r.s.data.categories[category.ID] = *category
	return nil
}

func (r *categoryRepository) ExistsByNameAndOwner(_ context.Context, name string, ownerID uuid.UUID) (bool, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	for _, c := range r.s.data.categories {
		if c.OwnerID == ownerID && c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *categoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	if _, ok := r.s.data.categories[id]; !ok {
		return domainerror.ErrCategoryNotFound
	}
	for eid, e := range r.s.data.expenses {
		if e.CategoryID != nil && *e.CategoryID == id {
			e.CategoryID = nil
			r.s.data.expenses[eid] = e
		}
	}
	delete(r.s.data.categories, id)
	return nil
}

func (r *categoryRepository) GetExpenseStats(_ context.Context, categoryIDs []uuid.UUID, startDate, endDate time.Time) (map[uuid.UUID]*adapter.CategoryStats, error) {
	r.s.dataMu.Lock()
	defer r.s.dataMu.Unlock()
	stats := make(map[uuid.UUID]*adapter.CategoryStats, len(categoryIDs))
	for _, id := range categoryIDs {
		stats[id] = &adapter.CategoryStats{PeriodTotal: decimal.Zero}
	}
	for _, e := range r.s.data.expenses {
		if e.CategoryID == nil {
			continue
		}
		st, ok := stats[*e.CategoryID]
		if !ok || e.Date.Before(startDate) || e.Date.After(endDate) {
			continue
		}
		st.ExpenseCount++
		st.PeriodTotal = st.PeriodTotal.Add(e.Amount)
	}
	return stats, nil
}
