package service

import (
	"fmt"

	"cashbackhelp/internal/domain"
	"cashbackhelp/internal/repository"

	"go.uber.org/zap"
)

// SearchService answers free-text queries: which categories cover an MCC
// code or match a name, and what rate the user has configured for them
type SearchService struct {
	catalog  *CatalogService
	cashback repository.CashbackRepository
	parser   IntentParser
	logger   *zap.Logger
}

// NewSearchService creates a new search service
func NewSearchService(catalog *CatalogService, cashback repository.CashbackRepository, parser IntentParser, logger *zap.Logger) *SearchService {
	return &SearchService{catalog: catalog, cashback: cashback, parser: parser, logger: logger}
}

// SearchMatch is one category hit, annotated with the user's configured
// rate for it when one exists
type SearchMatch struct {
	Category domain.Category
	Bank     *domain.Bank
	UserRate *int
}

// Search parses the query and returns matching categories. An empty result
// is not an error; the handler renders a "nothing found" message.
func (s *SearchService) Search(userID int64, query string) ([]SearchMatch, QueryIntent, error) {
	intent := s.parser.Parse(query)

	bankID := 0
	var hintedBank *domain.Bank
	if intent.BankCode != "" {
		bank, err := s.catalog.GetBankByCode(intent.BankCode)
		if err == nil {
			hintedBank = bank
			bankID = bank.ID
		}
	}

	var (
		categories []domain.Category
		err        error
	)
	if intent.IsMCC() {
		categories, err = s.catalog.FindByMCC(intent.MCC, bankID)
	} else {
		categories, err = s.catalog.SearchCategories(intent.Term, bankID)
	}
	if err != nil {
		return nil, intent, fmt.Errorf("search query %q: %w", query, err)
	}

	rates, err := s.userRates(userID)
	if err != nil {
		// rate annotation is decorative; log and return the hits bare
		s.logger.Warn("Failed to load user rates for search", zap.Error(err))
		rates = nil
	}

	matches := make([]SearchMatch, 0, len(categories))
	for _, category := range categories {
		match := SearchMatch{Category: category, Bank: hintedBank}
		if match.Bank == nil || match.Bank.ID != category.BankID {
			if bank, err := s.catalog.GetBank(category.BankID); err == nil {
				match.Bank = bank
			}
		}
		if rate, ok := rates[rateKey{category.BankID, category.ID}]; ok {
			r := rate
			match.UserRate = &r
		}
		matches = append(matches, match)
	}

	s.logger.Info("Search performed",
		zap.Int64("user_id", userID),
		zap.String("query", query),
		zap.Int("matches", len(matches)),
	)
	return matches, intent, nil
}

type rateKey struct {
	bankID     int
	categoryID int
}

func (s *SearchService) userRates(userID int64) (map[rateKey]int, error) {
	settings, err := s.cashback.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	rates := make(map[rateKey]int, len(settings))
	for _, setting := range settings {
		rates[rateKey{setting.BankID, setting.CategoryID}] = setting.Rate
	}
	return rates, nil
}
