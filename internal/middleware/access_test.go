package middleware

import (
	"testing"

	"cashbackhelp/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestServiceForCommand(t *testing.T) {
	tests := []struct {
		name string
		text string
		want domain.ServiceType
	}{
		{name: "plain command", text: "/search", want: domain.ServiceSearch},
		{name: "command with argument", text: "/search рестораны", want: domain.ServiceSearch},
		{name: "command with bot mention", text: "/favorites@cashback_bot", want: domain.ServiceFavorites},
		{name: "ungated command", text: "/start", want: ""},
		{name: "admin command is not gated", text: "/admin_services", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, serviceForCommand(tt.text))
		})
	}
}

func TestServiceForCallback(t *testing.T) {
	tests := []struct {
		name string
		data string
		want domain.ServiceType
	}{
		{name: "bank selection", data: "select_bank:sber", want: domain.ServiceSetCashback},
		{name: "category toggle", data: "toggle_category:7", want: domain.ServiceSetCashback},
		{name: "favorites add", data: "fav_cat:3", want: domain.ServiceFavorites},
		{name: "buy pro", data: "buy_pro", want: domain.ServiceSubscription},
		{name: "padded data", data: "  remove_cashback:1:2 ", want: domain.ServiceRemoveCashback},
		{name: "unknown prefix", data: "mystery:1", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, serviceForCallback(tt.data))
		})
	}
}

func TestServiceForState(t *testing.T) {
	tests := []struct {
		name  string
		state domain.State
		want  domain.ServiceType
	}{
		{name: "cashback rate entry", state: domain.StateSettingCashbackRates, want: domain.ServiceSetCashback},
		{name: "favorites search", state: domain.StateAddingFavoritesCategory, want: domain.ServiceFavorites},
		{name: "idle falls back to search", state: domain.StateIdle, want: domain.ServiceSearch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := domain.NewSession("1:1")
			session.SetState(tt.state, nil)
			assert.Equal(t, tt.want, serviceForState(session))
		})
	}
}
