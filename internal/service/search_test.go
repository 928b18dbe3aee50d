package service

import (
	"testing"

	"cashbackhelp/internal/domain"
	"cashbackhelp/internal/testutil"

	"github.com/stretchr/testify/assert"
)

func TestRegexIntentParser_Parse(t *testing.T) {
	parser := NewRegexIntentParser([]string{"sber", "tinkoff"})

	tests := []struct {
		name  string
		query string
		want  QueryIntent
	}{
		{
			name:  "four digit code is mcc",
			query: "5411",
			want:  QueryIntent{MCC: "5411"},
		},
		{
			name:  "mcc with bank hint",
			query: "sber 5411",
			want:  QueryIntent{MCC: "5411", BankCode: "sber"},
		},
		{
			name:  "plain term",
			query: "рестораны",
			want:  QueryIntent{Term: "рестораны"},
		},
		{
			name:  "term with bank hint",
			query: "Tinkoff рестораны",
			want:  QueryIntent{Term: "рестораны", BankCode: "tinkoff"},
		},
		{
			name:  "five digits is a term not mcc",
			query: "54112",
			want:  QueryIntent{Term: "54112"},
		},
		{
			name:  "unknown bank word stays in term",
			query: "втб аптеки",
			want:  QueryIntent{Term: "втб аптеки"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parser.Parse(tt.query))
		})
	}
}

func newSearchFixture() (*SearchService, *testutil.MockBankRepository, *testutil.MockCategoryRepository, *testutil.MockCashbackRepository) {
	banks := new(testutil.MockBankRepository)
	categories := new(testutil.MockCategoryRepository)
	cashback := new(testutil.MockCashbackRepository)

	logger := testutil.NewTestLogger()
	catalog := NewCatalogService(banks, categories, logger)
	svc := NewSearchService(catalog, cashback, NewRegexIntentParser([]string{"sber"}), logger)
	return svc, banks, categories, cashback
}

func TestSearchService_MCCQuery(t *testing.T) {
	svc, banks, categories, cashback := newSearchFixture()

	categories.On("FindByMCC", "5541", 0).Return([]domain.Category{
		*testutil.NewTestCategory(3, 1, "АЗС", "5541"),
	}, nil)
	banks.On("GetByID", 1).Return(testutil.NewTestBank(1, "sber", "Сбер"), nil)
	cashback.On("ListByUser", int64(123)).Return([]domain.CashbackSetting{
		{UserID: 123, BankID: 1, CategoryID: 3, Rate: 5},
	}, nil)

	matches, intent, err := svc.Search(123, "5541")
	assert.NoError(t, err)
	assert.True(t, intent.IsMCC())
	assert.Len(t, matches, 1)
	assert.Equal(t, "АЗС", matches[0].Category.Name)
	assert.Equal(t, "Сбер", matches[0].Bank.Name)
	assert.Equal(t, 5, *matches[0].UserRate)
}

func TestSearchService_TermQueryWithBankHint(t *testing.T) {
	svc, banks, categories, cashback := newSearchFixture()

	banks.On("GetByCode", "sber").Return(testutil.NewTestBank(1, "sber", "Сбер"), nil)
	categories.On("SearchByName", "рестораны", 1).Return([]domain.Category{
		*testutil.NewTestCategory(7, 1, "Рестораны", "5812"),
	}, nil)
	cashback.On("ListByUser", int64(123)).Return([]domain.CashbackSetting{}, nil)

	matches, intent, err := svc.Search(123, "sber рестораны")
	assert.NoError(t, err)
	assert.Equal(t, "sber", intent.BankCode)
	assert.Len(t, matches, 1)
	assert.Nil(t, matches[0].UserRate)
}

func TestSearchService_NoMatchesIsNotError(t *testing.T) {
	svc, _, categories, cashback := newSearchFixture()

	categories.On("SearchByName", "такси", 0).Return([]domain.Category{}, nil)
	cashback.On("ListByUser", int64(123)).Return([]domain.CashbackSetting{}, nil)

	matches, _, err := svc.Search(123, "такси")
	assert.NoError(t, err)
	assert.Empty(t, matches)
}
