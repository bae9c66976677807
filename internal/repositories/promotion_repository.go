package repositories

import (
	"database/sql"
	"fmt"
	"strings"

	"tiffin_backend/internal/models"
)

// PromotionRepository defines the interface for promotion records.
type PromotionRepository interface {
	NextPromoID(executor SQLExecutor) (string, error)
	CreatePromotion(executor SQLExecutor, promo *models.Promotion) error
	GetPromotions() ([]models.Promotion, error)
	UpdatePromotion(executor SQLExecutor, promoID string, updates []FieldUpdate) error
	DeletePromotion(executor SQLExecutor, promoID string) error
}

type promotionRepository struct {
	db *sql.DB
}

// NewPromotionRepository creates a new instance of PromotionRepository.
func NewPromotionRepository(db *sql.DB) PromotionRepository {
	return &promotionRepository{db: db}
}

func (r *promotionRepository) NextPromoID(executor SQLExecutor) (string, error) {
	return nextDisplayID(executor, "promo_id_seq", "promo")
}

func (r *promotionRepository) CreatePromotion(executor SQLExecutor, promo *models.Promotion) error {
	query := `INSERT INTO promotion (promo_id, pcode, discount, description, status, created_by)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := executor.Exec(query,
		promo.PromoID, promo.PCode, promo.Discount, promo.Description, promo.Status, promo.CreatedBy)
	if err != nil {
		return fmt.Errorf("%w: creating promotion %s: %v", ErrDatabaseError, promo.PromoID, err)
	}
	return nil
}

func (r *promotionRepository) GetPromotions() ([]models.Promotion, error) {
	promos := []models.Promotion{}
	query := `SELECT promo_id, pcode, discount, description, status, created_by, updated_by
	          FROM promotion ORDER BY promo_id DESC`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying promotions: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Promotion
		if err := rows.Scan(&p.PromoID, &p.PCode, &p.Discount, &p.Description, &p.Status,
			&p.CreatedBy, &p.UpdatedBy); err != nil {
			return nil, fmt.Errorf("%w: scanning promotion: %v", ErrDatabaseError, err)
		}
		promos = append(promos, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating promotion rows: %v", ErrDatabaseError, err)
	}
	return promos, nil
}

func (r *promotionRepository) UpdatePromotion(executor SQLExecutor, promoID string, updates []FieldUpdate) error {
	setClauses, args := buildSetClauses(updates)
	args = append(args, promoID)
	query := fmt.Sprintf("UPDATE promotion SET %s WHERE promo_id = $%d",
		strings.Join(setClauses, ", "), len(args))

	result, err := executor.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("%w: updating promotion %s: %v", ErrDatabaseError, promoID, err)
	}
	return requireRowsAffected(result, "promotion update")
}

func (r *promotionRepository) DeletePromotion(executor SQLExecutor, promoID string) error {
	result, err := executor.Exec(`DELETE FROM promotion WHERE promo_id = $1`, promoID)
	if err != nil {
		return fmt.Errorf("%w: deleting promotion %s: %v", ErrDatabaseError, promoID, err)
	}
	return requireRowsAffected(result, "promotion delete")
}
