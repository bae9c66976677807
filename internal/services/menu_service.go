package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"tiffin_backend/internal/models"
	"tiffin_backend/internal/repositories"
	"tiffin_backend/pkg/utils"
)

var ErrInvalidDish = errors.New("dish is not valid for its category")

// CreateMenuRequest carries a new weekly menu slot. Dish names are validated
// against the dish directory by category before anything is written.
type CreateMenuRequest struct {
	Week      string  `json:"week" binding:"required"`
	Day       string  `json:"day" binding:"required"`
	MenuName  string  `json:"menu_name" binding:"required"`
	Veg       *string `json:"veg"`
	NonVeg    *string `json:"nonveg"`
	Vegan     *string `json:"vegan"`
	Extra     *string `json:"extra"`
	Price     float64 `json:"price" binding:"required"`
	CreatedBy string  `json:"created_by" binding:"required"`
}

// UpdateMenuRequest replaces a menu's fields wholesale, like the create shape.
type UpdateMenuRequest struct {
	Week      string  `json:"week" binding:"required"`
	Day       string  `json:"day" binding:"required"`
	MenuName  string  `json:"menu_name" binding:"required"`
	Veg       *string `json:"veg"`
	NonVeg    *string `json:"nonveg"`
	Vegan     *string `json:"vegan"`
	Extra     *string `json:"extra"`
	Price     float64 `json:"price" binding:"required"`
	UpdatedBy string  `json:"updated_by" binding:"required"`
}

type MenuService interface {
	CreateMenu(req CreateMenuRequest) (*models.Menu, error)
	GetMenus() ([]models.Menu, error)
	GetMenuByID(menuID string) (*models.Menu, error)
	UpdateMenu(menuID string, req UpdateMenuRequest) (*models.Menu, error)
	DeleteMenu(menuID string) error
}

type menuService struct {
	menuRepo repositories.MenuRepository
	dishRepo repositories.DishRepository
	db       *sql.DB
}

// NewMenuService creates a new instance of MenuService.
func NewMenuService(mr repositories.MenuRepository, dr repositories.DishRepository, db *sql.DB) MenuService {
	return &menuService{menuRepo: mr, dishRepo: dr, db: db}
}

func (s *menuService) CreateMenu(req CreateMenuRequest) (*models.Menu, error) {
	extra, err := s.validateLineup(req.Veg, req.NonVeg, req.Vegan, req.Extra)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	menuID, err := s.menuRepo.NextMenuID(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate menu id: %w", err)
	}

	menu := models.Menu{
		MenuID:    menuID,
		Week:      req.Week,
		Day:       req.Day,
		MenuName:  req.MenuName,
		Veg:       req.Veg,
		NonVeg:    req.NonVeg,
		Vegan:     req.Vegan,
		Extra:     extra,
		Price:     req.Price,
		CreatedBy: &req.CreatedBy,
	}
	if err := s.menuRepo.CreateMenu(tx, &menu); err != nil {
		return nil, fmt.Errorf("failed to create menu: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit menu transaction: %w", err)
	}
	return &menu, nil
}

func (s *menuService) GetMenus() ([]models.Menu, error) {
	menus, err := s.menuRepo.GetMenus()
	if err != nil {
		return nil, fmt.Errorf("failed to get menus: %w", err)
	}
	return menus, nil
}

func (s *menuService) GetMenuByID(menuID string) (*models.Menu, error) {
	menu, err := s.menuRepo.GetMenuByID(menuID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMenuNotFound
		}
		return nil, fmt.Errorf("failed to get menu %s: %w", menuID, err)
	}
	return menu, nil
}

func (s *menuService) UpdateMenu(menuID string, req UpdateMenuRequest) (*models.Menu, error) {
	if _, err := s.menuRepo.GetMenuByID(menuID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMenuNotFound
		}
		return nil, fmt.Errorf("failed to fetch menu for update: %w", err)
	}

	extra, err := s.validateLineup(req.Veg, req.NonVeg, req.Vegan, req.Extra)
	if err != nil {
		return nil, err
	}

	menu := models.Menu{
		MenuID:    menuID,
		Week:      req.Week,
		Day:       req.Day,
		MenuName:  req.MenuName,
		Veg:       req.Veg,
		NonVeg:    req.NonVeg,
		Vegan:     req.Vegan,
		Extra:     extra,
		Price:     req.Price,
		UpdatedBy: &req.UpdatedBy,
	}
	if err := s.menuRepo.UpdateMenu(s.db, &menu); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMenuNotFound
		}
		return nil, fmt.Errorf("failed to update menu %s: %w", menuID, err)
	}
	return &menu, nil
}

func (s *menuService) DeleteMenu(menuID string) error {
	if err := s.menuRepo.DeleteMenu(s.db, menuID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrMenuNotFound
		}
		return fmt.Errorf("failed to delete menu %s: %w", menuID, err)
	}
	return nil
}

// validateLineup checks each named dish against its category and normalises
// the comma-separated extras list. Returns the normalised extras value.
func (s *menuService) validateLineup(veg, nonveg, vegan, extra *string) (*string, error) {
	if err := s.checkDish(veg, "veg"); err != nil {
		return nil, err
	}
	if err := s.checkDish(nonveg, "nonveg"); err != nil {
		return nil, err
	}
	if err := s.checkDish(vegan, "vegan"); err != nil {
		return nil, err
	}

	if extra == nil || utils.IsEmpty(*extra) {
		return extra, nil
	}
	names := []string{}
	for _, name := range strings.Split(*extra, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		ok, err := s.dishRepo.ExistsByNameAndCategory(name, "extra")
		if err != nil {
			return nil, fmt.Errorf("failed to validate extra dish %q: %w", name, err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s is not a valid extra dish", ErrInvalidDish, name)
		}
		names = append(names, name)
	}
	return utils.NewNullString(strings.Join(names, ", ")), nil
}

func (s *menuService) checkDish(name *string, category string) error {
	if name == nil || utils.IsEmpty(*name) {
		return nil
	}
	ok, err := s.dishRepo.ExistsByNameAndCategory(*name, category)
	if err != nil {
		return fmt.Errorf("failed to validate %s dish %q: %w", category, *name, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s is not a valid %s dish", ErrInvalidDish, *name, category)
	}
	return nil
}
