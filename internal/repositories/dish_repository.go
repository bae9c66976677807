package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"tiffin_backend/internal/models"

	"github.com/lib/pq"
)

// DishRepository defines the interface for dish directory operations.
type DishRepository interface {
	NextDishID(executor SQLExecutor) (string, error)
	CreateDish(executor SQLExecutor, dish *models.Dish) error
	GetDishes() ([]models.Dish, error)
	GetDishByID(dishID string) (*models.Dish, error)
	// ExistsByNameAndCategory matches the way menus validate their dish
	// lineup: case-insensitive, whitespace-trimmed name within a category.
	ExistsByNameAndCategory(name, category string) (bool, error)
	UpdateDish(executor SQLExecutor, dish *models.Dish) error
	DeleteDish(executor SQLExecutor, dishID string) error
}

type dishRepository struct {
	db *sql.DB
}

// NewDishRepository creates a new instance of DishRepository.
func NewDishRepository(db *sql.DB) DishRepository {
	return &dishRepository{db: db}
}

const dishColumns = `dish_id, dishname, category, price, created_by, created_on, updated_by, updated_on`

func (r *dishRepository) NextDishID(executor SQLExecutor) (string, error) {
	return nextDisplayID(executor, "dish_id_seq", "dish")
}

func (r *dishRepository) CreateDish(executor SQLExecutor, dish *models.Dish) error {
	query := `INSERT INTO dishes (dish_id, dishname, category, price, created_by)
	          VALUES ($1, $2, $3, $4, $5)`
	_, err := executor.Exec(query, dish.DishID, dish.DishName, dish.Category, dish.Price, dish.CreatedBy)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateKey
		}
		return fmt.Errorf("%w: creating dish %s: %v", ErrDatabaseError, dish.DishID, err)
	}
	return nil
}

func scanDish(row interface{ Scan(...interface{}) error }, d *models.Dish) error {
	return row.Scan(&d.DishID, &d.DishName, &d.Category, &d.Price,
		&d.CreatedBy, &d.CreatedOn, &d.UpdatedBy, &d.UpdatedOn)
}

func (r *dishRepository) GetDishes() ([]models.Dish, error) {
	dishes := []models.Dish{}
	rows, err := r.db.Query(`SELECT ` + dishColumns + ` FROM dishes ORDER BY created_on DESC`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying dishes: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var d models.Dish
		if err := scanDish(rows, &d); err != nil {
			return nil, fmt.Errorf("%w: scanning dish: %v", ErrDatabaseError, err)
		}
		dishes = append(dishes, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating dish rows: %v", ErrDatabaseError, err)
	}
	return dishes, nil
}

func (r *dishRepository) GetDishByID(dishID string) (*models.Dish, error) {
	dish := &models.Dish{}
	query := `SELECT ` + dishColumns + ` FROM dishes WHERE dish_id = $1`
	err := scanDish(r.db.QueryRow(query, dishID), dish)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting dish %s: %v", ErrDatabaseError, dishID, err)
	}
	return dish, nil
}

func (r *dishRepository) ExistsByNameAndCategory(name, category string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (
	            SELECT 1 FROM dishes
	            WHERE LOWER(TRIM(dishname)) = LOWER(TRIM($1)) AND category = $2)`
	if err := r.db.QueryRow(query, name, category).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: checking dish %q in category %s: %v", ErrDatabaseError, name, category, err)
	}
	return exists, nil
}

func (r *dishRepository) UpdateDish(executor SQLExecutor, dish *models.Dish) error {
	query := `UPDATE dishes
	          SET dishname = $1, category = $2, price = $3, updated_by = $4, updated_on = now()
	          WHERE dish_id = $5`
	result, err := executor.Exec(query, dish.DishName, dish.Category, dish.Price, dish.UpdatedBy, dish.DishID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateKey
		}
		return fmt.Errorf("%w: updating dish %s: %v", ErrDatabaseError, dish.DishID, err)
	}
	return requireRowsAffected(result, "dish update")
}

func (r *dishRepository) DeleteDish(executor SQLExecutor, dishID string) error {
	result, err := executor.Exec(`DELETE FROM dishes WHERE dish_id = $1`, dishID)
	if err != nil {
		return fmt.Errorf("%w: deleting dish %s: %v", ErrDatabaseError, dishID, err)
	}
	return requireRowsAffected(result, "dish delete")
}
