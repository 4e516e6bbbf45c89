package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/contacerta/backend/internal/application/adapter"
	"github.com/contacerta/backend/internal/domain/entity"
	domainerror "github.com/contacerta/backend/internal/domain/error"
	"github.com/contacerta/backend/internal/integration/persistence/model"
)

// cardRepository implements the adapter.CardRepository interface.
type cardRepository struct {
	db *gorm.DB
}

// NewCardRepository creates a new card repository instance.
func NewCardRepository(db *gorm.DB) adapter.CardRepository {
	return &cardRepository{
		db: db,
	}
}

// Create creates a new card in the database.
func (r *cardRepository) Create(ctx context.Context, card *entity.Card) error {
	cardModel := model.CardFromEntity(card)
	result := r.db.WithContext(ctx).Create(cardModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID retrieves a card by its ID.
func (r *cardRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Card, error) {
	return r.findByID(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate retrieves a card with SELECT ... FOR UPDATE. SQLite has
// no row locks and drops the clause; its single connection serializes writers.
func (r *cardRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Card, error) {
	return r.findByID(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *cardRepository) findByID(query *gorm.DB, id uuid.UUID) (*entity.Card, error) {
	var cardModel model.CardModel
	result := query.Where("id = ?", id).First(&cardModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrCardNotFound
		}
		return nil, result.Error
	}
	return cardModel.ToEntity(), nil
}

// FindByOwner retrieves all cards of an owner in creation order.
func (r *cardRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Card, error) {
	var cardModels []model.CardModel
	result := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&cardModels)
	if result.Error != nil {
		return nil, result.Error
	}

	cards := make([]*entity.Card, len(cardModels))
	for i, cm := range cardModels {
		cards[i] = cm.ToEntity()
	}
	return cards, nil
}

// UpdateDetails updates bank and last four digits. Limits only change through AdjustLimits.
func (r *cardRepository) UpdateDetails(ctx context.Context, card *entity.Card) error {
	result := r.db.WithContext(ctx).
		Model(&model.CardModel{}).
		Where("id = ?", card.ID).
		Updates(map[string]interface{}{
			"bank":             card.Bank,
			"last_four_digits": card.LastFourDigits,
			"updated_at":       time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrCardNotFound
	}
	return nil
}

// AdjustLimits applies the adjustment in a single conditional UPDATE. Unless
// allowNegative is set, a decrease that would take the remaining limit below
// zero matches no row and is reported as ErrInsufficientLimit.
func (r *cardRepository) AdjustLimits(ctx context.Context, id uuid.UUID, adjustment adapter.LimitAdjustment, allowNegative bool) error {
	db := r.db.WithContext(ctx)
	query := db.Model(&model.CardModel{}).Where("id = ?", id)
	if !allowNegative && adjustment.Remaining.IsNegative() {
		query = query.Where("remaining_limit + ? >= 0", adjustment.Remaining)
	}

	result := query.Updates(map[string]interface{}{
		"total_limit":     gorm.Expr("total_limit + ?", adjustment.Total),
		"remaining_limit": gorm.Expr("remaining_limit + ?", adjustment.Remaining),
		"updated_at":      time.Now().UTC(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := db.Model(&model.CardModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return domainerror.ErrCardNotFound
	}
	return domainerror.ErrInsufficientLimit
}

// Delete removes a card from the database.
func (r *cardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.CardModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrCardNotFound
	}
	return nil
}
