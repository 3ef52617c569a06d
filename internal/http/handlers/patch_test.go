package handlers

import (
	"testing"
	"time"

	"tiyende/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestDecodeRoutePatch_Presence(t *testing.T) {
	patch, err := decodeRoutePatch(gjson.Parse(`{"fare": 300, "estimatedArrival": null, "daysOfWeek": ["Monday"]}`))
	require.NoError(t, err)

	assert.True(t, patch.Fare.Set)
	assert.Equal(t, 300, patch.Fare.Value)
	assert.True(t, patch.EstimatedArrival.Set)
	assert.Nil(t, patch.EstimatedArrival.Value)
	assert.Equal(t, []string{"Monday"}, patch.DaysOfWeek.Value)
	assert.False(t, patch.Departure.Set)
	assert.False(t, patch.VendorID.Set)
}

func TestDecodeRoutePatch_TypeErrors(t *testing.T) {
	cases := map[string]string{
		"fare":        `{"fare": "cheap"}`,
		"fraction":    `{"capacity": 40.5}`,
		"vendorId":    `{"vendorId": "1"}`,
		"days":        `{"daysOfWeek": "Monday"}`,
		"days items":  `{"daysOfWeek": [1]}`,
		"null string": `{"departure": null}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := decodeRoutePatch(gjson.Parse(body))
			require.Error(t, err)
			assert.True(t, domain.IsValidation(err))
		})
	}
}

func TestDecodeTicketPatch(t *testing.T) {
	patch, err := decodeTicketPatch(gjson.Parse(`{"travelDate": "2024-05-02", "customerEmail": "a@b.co", "paymentReference": null}`))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, time.Local), patch.TravelDate.Value)
	require.NotNil(t, patch.CustomerEmail.Value)
	assert.Equal(t, "a@b.co", *patch.CustomerEmail.Value)
	assert.True(t, patch.PaymentReference.Set)
	assert.Nil(t, patch.PaymentReference.Value)

	_, err = decodeTicketPatch(gjson.Parse(`{"travelDate": "next week"}`))
	assert.Error(t, err)
}

func TestDecodeUserPatch(t *testing.T) {
	patch, err := decodeUserPatch(gjson.Parse(`{"active": false, "fullName": "Ruth Phiri"}`))
	require.NoError(t, err)
	assert.True(t, patch.Active.Set)
	assert.False(t, patch.Active.Value)
	assert.Equal(t, "Ruth Phiri", patch.FullName.Value)
	assert.False(t, patch.Password.Set)

	_, err = decodeUserPatch(gjson.Parse(`{"active": 0}`))
	assert.EqualError(t, err, "active must be a boolean")
}

func TestDecodeVendorPatch(t *testing.T) {
	patch, err := decodeVendorPatch(gjson.Parse(`{"logo": null, "name": "Juldan"}`))
	require.NoError(t, err)
	assert.True(t, patch.Logo.Set)
	assert.Nil(t, patch.Logo.Value)
	assert.False(t, patch.Address.Set)
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("2023-06-15T08:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, 2023, d.Year())

	_, err = parseDate("15/06/2023")
	assert.Error(t, err)
}
