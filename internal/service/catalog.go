package service

import (
	"fmt"

	"cashbackhelp/internal/domain"
	"cashbackhelp/internal/repository"

	"go.uber.org/zap"
)

// CatalogService reads the bank and category reference data
type CatalogService struct {
	banks      repository.BankRepository
	categories repository.CategoryRepository
	logger     *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(banks repository.BankRepository, categories repository.CategoryRepository, logger *zap.Logger) *CatalogService {
	return &CatalogService{banks: banks, categories: categories, logger: logger}
}

// GetActiveBanks returns banks available for selection
func (s *CatalogService) GetActiveBanks() ([]domain.Bank, error) {
	banks, err := s.banks.GetActive()
	if err != nil {
		return nil, fmt.Errorf("get active banks: %w", err)
	}
	return banks, nil
}

// GetAllBanks returns every bank including inactive ones
func (s *CatalogService) GetAllBanks() ([]domain.Bank, error) {
	banks, err := s.banks.GetAll()
	if err != nil {
		return nil, fmt.Errorf("get all banks: %w", err)
	}
	return banks, nil
}

// GetBankByCode looks up a bank by its short code
func (s *CatalogService) GetBankByCode(code string) (*domain.Bank, error) {
	bank, err := s.banks.GetByCode(code)
	if err != nil {
		return nil, fmt.Errorf("get bank by code: %w", err)
	}
	if bank == nil {
		return nil, domain.ErrNotFound
	}
	return bank, nil
}

// GetBank looks up a bank by ID
func (s *CatalogService) GetBank(bankID int) (*domain.Bank, error) {
	bank, err := s.banks.GetByID(bankID)
	if err != nil {
		return nil, fmt.Errorf("get bank: %w", err)
	}
	if bank == nil {
		return nil, domain.ErrNotFound
	}
	return bank, nil
}

// GetCategoriesByBank returns the bank's categories in name order
func (s *CatalogService) GetCategoriesByBank(bankID int) ([]domain.Category, error) {
	categories, err := s.categories.GetByBank(bankID)
	if err != nil {
		return nil, fmt.Errorf("get categories: %w", err)
	}
	return categories, nil
}

// GetCategory looks up a category by ID
func (s *CatalogService) GetCategory(categoryID int) (*domain.Category, error) {
	category, err := s.categories.GetByID(categoryID)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}
	return category, nil
}

// SearchCategories finds categories whose name contains the term,
// case-insensitive, optionally scoped to a bank (bankID 0 = all banks)
func (s *CatalogService) SearchCategories(term string, bankID int) ([]domain.Category, error) {
	categories, err := s.categories.SearchByName(term, bankID)
	if err != nil {
		return nil, fmt.Errorf("search categories: %w", err)
	}
	return categories, nil
}

// FindByMCC finds categories covering the MCC code
func (s *CatalogService) FindByMCC(code string, bankID int) ([]domain.Category, error) {
	categories, err := s.categories.FindByMCC(code, bankID)
	if err != nil {
		return nil, fmt.Errorf("find by mcc: %w", err)
	}
	return categories, nil
}
