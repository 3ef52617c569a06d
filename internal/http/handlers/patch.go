package handlers

import (
	"strings"
	"time"

	"tiyende/internal/domain"
	"tiyende/internal/domain/models"

	"github.com/tidwall/gjson"
)

// patchReader turns a PATCH body into models.Field values. A key that is absent stays unset,
// an explicit null clears a nullable field, and the first type mismatch is kept in err.
type patchReader struct {
	body gjson.Result
	err  error
}

func (p *patchReader) lookup(key string) (gjson.Result, bool) {
	v := p.body.Get(key)
	return v, v.Exists()
}

func (p *patchReader) fail(key, want string) {
	if p.err == nil {
		p.err = domain.ValidationError{Msg: key + " must be " + want}
	}
}

func (p *patchReader) str(key string) models.Field[string] {
	v, ok := p.lookup(key)
	if !ok {
		return models.Field[string]{}
	}
	if v.Type != gjson.String {
		p.fail(key, "a string")
		return models.Field[string]{}
	}
	return models.Some(v.String())
}

func (p *patchReader) optStr(key string) models.Field[*string] {
	v, ok := p.lookup(key)
	if !ok {
		return models.Field[*string]{}
	}
	switch v.Type {
	case gjson.Null:
		return models.Some[*string](nil)
	case gjson.String:
		s := v.String()
		return models.Some(&s)
	}
	p.fail(key, "a string or null")
	return models.Field[*string]{}
}

func (p *patchReader) integer(key string) models.Field[int] {
	v, ok := p.lookup(key)
	if !ok {
		return models.Field[int]{}
	}
	if v.Type != gjson.Number || v.Num != float64(int64(v.Num)) {
		p.fail(key, "an integer")
		return models.Field[int]{}
	}
	return models.Some(int(v.Int()))
}

func (p *patchReader) id(key string) models.Field[int64] {
	v, ok := p.lookup(key)
	if !ok {
		return models.Field[int64]{}
	}
	if v.Type != gjson.Number || v.Num != float64(int64(v.Num)) {
		p.fail(key, "an integer")
		return models.Field[int64]{}
	}
	return models.Some(v.Int())
}

func (p *patchReader) boolean(key string) models.Field[bool] {
	v, ok := p.lookup(key)
	if !ok {
		return models.Field[bool]{}
	}
	if v.Type != gjson.True && v.Type != gjson.False {
		p.fail(key, "a boolean")
		return models.Field[bool]{}
	}
	return models.Some(v.Bool())
}

func (p *patchReader) strs(key string) models.Field[[]string] {
	v, ok := p.lookup(key)
	if !ok {
		return models.Field[[]string]{}
	}
	if !v.IsArray() {
		p.fail(key, "an array of strings")
		return models.Field[[]string]{}
	}
	out := []string{}
	for _, item := range v.Array() {
		if item.Type != gjson.String {
			p.fail(key, "an array of strings")
			return models.Field[[]string]{}
		}
		out = append(out, item.String())
	}
	return models.Some(out)
}

func (p *patchReader) date(key string) models.Field[time.Time] {
	v, ok := p.lookup(key)
	if !ok {
		return models.Field[time.Time]{}
	}
	t, err := parseDate(v.String())
	if v.Type != gjson.String || err != nil {
		p.fail(key, "a date (YYYY-MM-DD or RFC 3339)")
		return models.Field[time.Time]{}
	}
	return models.Some(t)
}

// parseDate accepts a calendar date or a full RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func decodeUserPatch(body gjson.Result) (models.UserPatch, error) {
	p := &patchReader{body: body}
	patch := models.UserPatch{
		Username: p.str("username"),
		Password: p.str("password"),
		Email:    p.str("email"),
		FullName: p.str("fullName"),
		Role:     p.str("role"),
		Active:   p.boolean("active"),
	}
	return patch, p.err
}

func decodeVendorPatch(body gjson.Result) (models.VendorPatch, error) {
	p := &patchReader{body: body}
	patch := models.VendorPatch{
		Name:          p.str("name"),
		ContactPerson: p.str("contactPerson"),
		Email:         p.str("email"),
		Phone:         p.str("phone"),
		Address:       p.optStr("address"),
		Status:        p.str("status"),
		Logo:          p.optStr("logo"),
	}
	return patch, p.err
}

func decodeRoutePatch(body gjson.Result) (models.RoutePatch, error) {
	p := &patchReader{body: body}
	patch := models.RoutePatch{
		VendorID:         p.id("vendorId"),
		Departure:        p.str("departure"),
		Destination:      p.str("destination"),
		DepartureTime:    p.str("departureTime"),
		EstimatedArrival: p.optStr("estimatedArrival"),
		Fare:             p.integer("fare"),
		Capacity:         p.integer("capacity"),
		Status:           p.str("status"),
		DaysOfWeek:       p.strs("daysOfWeek"),
	}
	return patch, p.err
}

func decodeTicketPatch(body gjson.Result) (models.TicketPatch, error) {
	p := &patchReader{body: body}
	patch := models.TicketPatch{
		RouteID:          p.id("routeId"),
		VendorID:         p.id("vendorId"),
		CustomerName:     p.str("customerName"),
		CustomerPhone:    p.str("customerPhone"),
		CustomerEmail:    p.optStr("customerEmail"),
		SeatNumber:       p.integer("seatNumber"),
		Status:           p.str("status"),
		Amount:           p.integer("amount"),
		PaymentMethod:    p.optStr("paymentMethod"),
		PaymentReference: p.optStr("paymentReference"),
		TravelDate:       p.date("travelDate"),
	}
	return patch, p.err
}
