package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"tiffin_backend/internal/models"

	"github.com/lib/pq"
)

// MenuRepository defines the interface for menu directory operations.
type MenuRepository interface {
	NextMenuID(executor SQLExecutor) (string, error)
	CreateMenu(executor SQLExecutor, menu *models.Menu) error
	GetMenuByID(menuID string) (*models.Menu, error)
	GetMenus() ([]models.Menu, error)
	// GetDeliverySlot resolves the week/day labels for a menu, used by the
	// order workflow's delivery-date resolver. Runs against the executor so
	// order creation can read it inside its own transaction.
	GetDeliverySlot(executor SQLExecutor, menuID string) (week string, day string, err error)
	UpdateMenu(executor SQLExecutor, menu *models.Menu) error
	DeleteMenu(executor SQLExecutor, menuID string) error
}

type menuRepository struct {
	db *sql.DB
}

// NewMenuRepository creates a new instance of MenuRepository.
func NewMenuRepository(db *sql.DB) MenuRepository {
	return &menuRepository{db: db}
}

const menuColumns = `menu_id, week, day, menu_name, veg, nonveg, vegan, extra, price,
	created_by, created_on, updated_by, updated_on`

func (r *menuRepository) NextMenuID(executor SQLExecutor) (string, error) {
	return nextDisplayID(executor, "menu_id_seq", "menu")
}

func (r *menuRepository) CreateMenu(executor SQLExecutor, menu *models.Menu) error {
	query := `INSERT INTO menu
	            (menu_id, week, day, menu_name, veg, nonveg, vegan, extra, price, created_by)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := executor.Exec(query,
		menu.MenuID, menu.Week, menu.Day, menu.MenuName,
		menu.Veg, menu.NonVeg, menu.Vegan, menu.Extra, menu.Price, menu.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("%w: creating menu %s: %v", ErrDatabaseError, menu.MenuID, err)
	}
	return nil
}

func scanMenu(row interface{ Scan(...interface{}) error }, m *models.Menu) error {
	return row.Scan(
		&m.MenuID, &m.Week, &m.Day, &m.MenuName, &m.Veg, &m.NonVeg, &m.Vegan, &m.Extra,
		&m.Price, &m.CreatedBy, &m.CreatedOn, &m.UpdatedBy, &m.UpdatedOn,
	)
}

func (r *menuRepository) GetMenuByID(menuID string) (*models.Menu, error) {
	menu := &models.Menu{}
	query := `SELECT ` + menuColumns + ` FROM menu WHERE menu_id = $1`
	err := scanMenu(r.db.QueryRow(query, menuID), menu)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting menu %s: %v", ErrDatabaseError, menuID, err)
	}
	return menu, nil
}

func (r *menuRepository) GetMenus() ([]models.Menu, error) {
	menus := []models.Menu{}
	rows, err := r.db.Query(`SELECT ` + menuColumns + ` FROM menu ORDER BY menu_id`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying menus: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.Menu
		if err := scanMenu(rows, &m); err != nil {
			return nil, fmt.Errorf("%w: scanning menu: %v", ErrDatabaseError, err)
		}
		menus = append(menus, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating menu rows: %v", ErrDatabaseError, err)
	}
	return menus, nil
}

func (r *menuRepository) GetDeliverySlot(executor SQLExecutor, menuID string) (string, string, error) {
	var week, day string
	err := executor.QueryRow(`SELECT week, day FROM menu WHERE menu_id = $1`, menuID).Scan(&week, &day)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", ErrNotFound
		}
		return "", "", fmt.Errorf("%w: getting delivery slot for menu %s: %v", ErrDatabaseError, menuID, err)
	}
	return week, day, nil
}

func (r *menuRepository) UpdateMenu(executor SQLExecutor, menu *models.Menu) error {
	query := `UPDATE menu
	          SET week = $1, day = $2, menu_name = $3, veg = $4, nonveg = $5, vegan = $6,
	              extra = $7, price = $8, updated_by = $9, updated_on = now()
	          WHERE menu_id = $10`
	result, err := executor.Exec(query,
		menu.Week, menu.Day, menu.MenuName, menu.Veg, menu.NonVeg, menu.Vegan,
		menu.Extra, menu.Price, menu.UpdatedBy, menu.MenuID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating menu %s: %v", ErrDatabaseError, menu.MenuID, err)
	}
	return requireRowsAffected(result, "menu update")
}

func (r *menuRepository) DeleteMenu(executor SQLExecutor, menuID string) error {
	result, err := executor.Exec(`DELETE FROM menu WHERE menu_id = $1`, menuID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return fmt.Errorf("%w: menu %s is referenced by order items (constraint: %s): %v", ErrDatabaseError, menuID, pqErr.Constraint, err)
		}
		return fmt.Errorf("%w: deleting menu %s: %v", ErrDatabaseError, menuID, err)
	}
	return requireRowsAffected(result, "menu delete")
}
