package domain

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestVehicle_FormatPrice(t *testing.T) {
	tests := []struct {
		name     string
		price    int64
		currency string
		want     string
	}{
		{"ars_millions", 1500000, CurrencyARS, "$1.500.000"},
		{"usd", 25000, CurrencyUSD, "USD $25.000"},
		{"small_amount", 999, CurrencyARS, "$999"},
		{"exact_thousand", 1000, CurrencyARS, "$1.000"},
		{"single_digit", 5, CurrencyARS, "$5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &Vehicle{Price: tt.price, Currency: tt.currency}
			assert.Equal(t, tt.want, v.FormatPrice())
		})
	}
}

func TestVehicle_FormatPrice_Idempotent(t *testing.T) {
	// Re-parsing the grouped digits and formatting again must give the same
	// string back.
	v := &Vehicle{Price: 98765432, Currency: CurrencyARS}

	formatted := v.FormatPriceOnly()
	digits := strings.ReplaceAll(formatted, ".", "")
	reparsed, err := strconv.ParseInt(digits, 10, 64)
	require.NoError(t, err)

	again := &Vehicle{Price: reparsed, Currency: CurrencyARS}
	assert.Equal(t, formatted, again.FormatPriceOnly())
}

func TestVehicle_MainImage(t *testing.T) {
	t.Run("free_tier_never_exposes_images", func(t *testing.T) {
		v := &Vehicle{IsPlus: false}
		v.SetImagesList([]string{"uploads/a.jpg", "uploads/b.jpg"})
		assert.Nil(t, v.MainImage())
	})

	t.Run("plus_returns_selected_image", func(t *testing.T) {
		v := &Vehicle{IsPlus: true, MainImageIndex: 1}
		v.SetImagesList([]string{"uploads/a.jpg", "uploads/b.jpg"})
		require.NotNil(t, v.MainImage())
		assert.Equal(t, "uploads/b.jpg", *v.MainImage())
	})

	t.Run("out_of_range_index_clamps_to_first", func(t *testing.T) {
		v := &Vehicle{IsPlus: true, MainImageIndex: 7}
		v.SetImagesList([]string{"uploads/a.jpg", "uploads/b.jpg"})
		require.NotNil(t, v.MainImage())
		assert.Equal(t, "uploads/a.jpg", *v.MainImage())
	})

	t.Run("negative_index_clamps_to_first", func(t *testing.T) {
		v := &Vehicle{IsPlus: true, MainImageIndex: -1}
		v.SetImagesList([]string{"uploads/a.jpg"})
		require.NotNil(t, v.MainImage())
		assert.Equal(t, "uploads/a.jpg", *v.MainImage())
	})

	t.Run("no_images", func(t *testing.T) {
		v := &Vehicle{IsPlus: true}
		assert.Nil(t, v.MainImage())
	})
}

func TestVehicle_ImagesList_MalformedColumn(t *testing.T) {
	v := &Vehicle{Images: "{not json"}
	assert.Empty(t, v.ImagesList())

	v.Images = ""
	assert.Empty(t, v.ImagesList())
}

func TestVehicle_IsPremiumActive(t *testing.T) {
	future := time.Now().UTC().Add(time.Hour)
	past := time.Now().UTC().Add(-time.Hour)

	tests := []struct {
		name      string
		isPlus    bool
		expiresAt *time.Time
		want      bool
	}{
		{"free_never_premium", false, &future, false},
		{"plus_with_future_expiry", true, &future, true},
		{"plus_expired", true, &past, false},
		{"plus_without_expiry_is_perpetual", true, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &Vehicle{IsPlus: tt.isPlus, PremiumExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.want, v.IsPremiumActive())
		})
	}
}

func TestVehicle_ContactButtons(t *testing.T) {
	t.Run("whatsapp_then_call", func(t *testing.T) {
		v := &Vehicle{
			WhatsAppNumber: strPtr("+5491122334455"),
			CallNumber:     strPtr("+5493512345678"),
		}
		buttons := v.ContactButtons()
		require.Len(t, buttons, 2)
		assert.Equal(t, "whatsapp", buttons[0].Type)
		assert.Equal(t, "Contacto WhatsApp", buttons[0].Text)
		assert.Equal(t, "call", buttons[1].Type)
		assert.Equal(t, "Llamar Ahora", buttons[1].Text)
	})

	t.Run("empty_numbers_yield_no_buttons", func(t *testing.T) {
		v := &Vehicle{WhatsAppNumber: strPtr(""), CallNumber: nil}
		assert.Empty(t, v.ContactButtons())
	})
}

func TestVehicle_WhatsAppMessages(t *testing.T) {
	v := &Vehicle{
		ID:       7,
		Title:    "Toyota Corolla 2020",
		Price:    8500000,
		Currency: CurrencyARS,
	}

	msg := v.WhatsAppContactMessage("http://localhost:8080")
	assert.Contains(t, msg, "Toyota Corolla 2020")
	assert.Contains(t, msg, "$8.500.000")
	assert.Contains(t, msg, "http://localhost:8080/vehicle/7")

	offer := v.WhatsAppOfferMessage("http://localhost:8080", 8000000)
	assert.Contains(t, offer, "Mi oferta: $8.000.000")
	assert.Contains(t, offer, "Precio de venta: $8.500.000")
}

func TestVehicle_CurrencyClasses(t *testing.T) {
	ars := &Vehicle{Currency: CurrencyARS}
	usd := &Vehicle{Currency: CurrencyUSD}

	assert.Equal(t, "price-ars", ars.CurrencyClass())
	assert.Equal(t, "price-usd", usd.CurrencyClass())
	assert.Equal(t, "price-badge-ars", ars.CurrencyBadgeClass())
	assert.Equal(t, "price-badge-usd", usd.CurrencyBadgeClass())
}
