package repositories

import (
	"database/sql"
	"fmt"
	"strings"

	"tiffin_backend/internal/models"
)

// TaxRepository defines the interface for tax/charge records.
type TaxRepository interface {
	NextTaxID(executor SQLExecutor) (string, error)
	CreateTax(executor SQLExecutor, tax *models.Tax) error
	GetTaxes() ([]models.Tax, error)
	UpdateTax(executor SQLExecutor, taxID string, updates []FieldUpdate) error
	DeleteTax(executor SQLExecutor, taxID string) error
}

type taxRepository struct {
	db *sql.DB
}

// NewTaxRepository creates a new instance of TaxRepository.
func NewTaxRepository(db *sql.DB) TaxRepository {
	return &taxRepository{db: db}
}

func (r *taxRepository) NextTaxID(executor SQLExecutor) (string, error) {
	return nextDisplayID(executor, "tax_id_seq", "tax")
}

func (r *taxRepository) CreateTax(executor SQLExecutor, tax *models.Tax) error {
	query := `INSERT INTO taxes (tax_id, name, type, value, value_type, created_by)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := executor.Exec(query, tax.TaxID, tax.Name, tax.Type, tax.Value, tax.ValueType, tax.CreatedBy)
	if err != nil {
		return fmt.Errorf("%w: creating tax %s: %v", ErrDatabaseError, tax.TaxID, err)
	}
	return nil
}

func (r *taxRepository) GetTaxes() ([]models.Tax, error) {
	taxes := []models.Tax{}
	query := `SELECT tax_id, name, type, value, value_type, created_by, updated_by
	          FROM taxes ORDER BY tax_id DESC`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying taxes: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var t models.Tax
		if err := rows.Scan(&t.TaxID, &t.Name, &t.Type, &t.Value, &t.ValueType,
			&t.CreatedBy, &t.UpdatedBy); err != nil {
			return nil, fmt.Errorf("%w: scanning tax: %v", ErrDatabaseError, err)
		}
		taxes = append(taxes, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating tax rows: %v", ErrDatabaseError, err)
	}
	return taxes, nil
}

func (r *taxRepository) UpdateTax(executor SQLExecutor, taxID string, updates []FieldUpdate) error {
	setClauses, args := buildSetClauses(updates)
	args = append(args, taxID)
	query := fmt.Sprintf("UPDATE taxes SET %s WHERE tax_id = $%d",
		strings.Join(setClauses, ", "), len(args))

	result, err := executor.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("%w: updating tax %s: %v", ErrDatabaseError, taxID, err)
	}
	return requireRowsAffected(result, "tax update")
}

func (r *taxRepository) DeleteTax(executor SQLExecutor, taxID string) error {
	result, err := executor.Exec(`DELETE FROM taxes WHERE tax_id = $1`, taxID)
	if err != nil {
		return fmt.Errorf("%w: deleting tax %s: %v", ErrDatabaseError, taxID, err)
	}
	return requireRowsAffected(result, "tax delete")
}
