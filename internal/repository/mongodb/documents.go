package mongodb

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/barbershop/internal/domain/models"
)

type barberDocument struct {
	ID                 string               `bson:"_id"`
	Name               string               `bson:"name"`
	Phone              string               `bson:"phone,omitempty"`
	UnitID             string               `bson:"unit_id"`
	ServicesCommission primitive.Decimal128 `bson:"services_commission"`
	ProductsCommission primitive.Decimal128 `bson:"products_commission"`
	Active             bool                 `bson:"active"`
	CreatedAt          time.Time            `bson:"created_at"`
}

type unitDocument struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Active    bool      `bson:"active"`
	CreatedAt time.Time `bson:"created_at"`
}

type goalDocument struct {
	ID               string               `bson:"_id"`
	BarberID         string               `bson:"barber_id"`
	Year             int                  `bson:"year"`
	Month            int                  `bson:"month"`
	TargetCommission primitive.Decimal128 `bson:"target_commission"`
	WorkDays         int                  `bson:"work_days"`
	UpdatedAt        time.Time            `bson:"updated_at"`
}

type productionDocument struct {
	BarberID         string               `bson:"barber_id"`
	Date             time.Time            `bson:"date"`
	ServicesTotal    primitive.Decimal128 `bson:"services_total"`
	ProductsTotal    primitive.Decimal128 `bson:"products_total"`
	ServicesCount    int                  `bson:"services_count"`
	ProductsCount    int                  `bson:"products_count"`
	ClientsCount     int                  `bson:"clients_count"`
	CommissionEarned primitive.Decimal128 `bson:"commission_earned"`
	UpdatedAt        time.Time            `bson:"updated_at"`
}

// storedScale bounds the fraction digits persisted so values always fit the 34
// significant digits of Decimal128.
const storedScale = 8

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.Round(storedScale).String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("encode amount %s: %w", d.String(), err)
	}
	return v, nil
}

func fromDecimal128(v primitive.Decimal128) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("decode amount %s: %w", v.String(), err)
	}
	return d, nil
}

// amounts converts the money fields of one document and keeps the first failure.
type amounts struct {
	err error
}

func (a *amounts) encode(field string, d decimal.Decimal) primitive.Decimal128 {
	if a.err != nil {
		return primitive.Decimal128{}
	}
	v, err := toDecimal128(d)
	if err != nil {
		a.err = fmt.Errorf("%s: %w", field, err)
	}
	return v
}

func (a *amounts) decode(field string, v primitive.Decimal128) decimal.Decimal {
	if a.err != nil {
		return decimal.Zero
	}
	d, err := fromDecimal128(v)
	if err != nil {
		a.err = fmt.Errorf("%s: %w", field, err)
	}
	return d
}

func newBarberDocument(b models.Barber) (barberDocument, error) {
	var a amounts
	doc := barberDocument{
		ID:                 b.ID,
		Name:               b.Name,
		Phone:              b.Phone,
		UnitID:             b.UnitID,
		ServicesCommission: a.encode("services_commission", b.ServicesCommission),
		ProductsCommission: a.encode("products_commission", b.ProductsCommission),
		Active:             b.Active,
		CreatedAt:          b.CreatedAt,
	}
	return doc, a.err
}

func (d barberDocument) model() (models.Barber, error) {
	var a amounts
	b := models.Barber{
		ID:                 d.ID,
		Name:               d.Name,
		Phone:              d.Phone,
		UnitID:             d.UnitID,
		ServicesCommission: a.decode("services_commission", d.ServicesCommission),
		ProductsCommission: a.decode("products_commission", d.ProductsCommission),
		Active:             d.Active,
		CreatedAt:          d.CreatedAt,
	}
	if a.err != nil {
		return models.Barber{}, fmt.Errorf("barber %s: %w", d.ID, a.err)
	}
	return b, nil
}

func newUnitDocument(u models.Unit) unitDocument {
	return unitDocument{ID: u.ID, Name: u.Name, Active: u.Active, CreatedAt: u.CreatedAt}
}

func (d unitDocument) model() models.Unit {
	return models.Unit{ID: d.ID, Name: d.Name, Active: d.Active, CreatedAt: d.CreatedAt}
}

func newGoalDocument(g models.MonthlyGoal) (goalDocument, error) {
	var a amounts
	doc := goalDocument{
		ID:               g.ID,
		BarberID:         g.BarberID,
		Year:             g.Year,
		Month:            g.Month,
		TargetCommission: a.encode("target_commission", g.TargetCommission),
		WorkDays:         g.WorkDays,
		UpdatedAt:        g.UpdatedAt,
	}
	return doc, a.err
}

func (d goalDocument) model() (models.MonthlyGoal, error) {
	var a amounts
	g := models.MonthlyGoal{
		ID:               d.ID,
		BarberID:         d.BarberID,
		Year:             d.Year,
		Month:            d.Month,
		TargetCommission: a.decode("target_commission", d.TargetCommission),
		WorkDays:         d.WorkDays,
		UpdatedAt:        d.UpdatedAt,
	}
	if a.err != nil {
		return models.MonthlyGoal{}, fmt.Errorf("goal %s: %w", d.ID, a.err)
	}
	return g, nil
}

func newProductionDocument(p models.DailyProduction) (productionDocument, error) {
	var a amounts
	doc := productionDocument{
		BarberID:         p.BarberID,
		Date:             models.Day(p.Date),
		ServicesTotal:    a.encode("services_total", p.ServicesTotal),
		ProductsTotal:    a.encode("products_total", p.ProductsTotal),
		ServicesCount:    p.ServicesCount,
		ProductsCount:    p.ProductsCount,
		ClientsCount:     p.ClientsCount,
		CommissionEarned: a.encode("commission_earned", p.CommissionEarned),
		UpdatedAt:        p.UpdatedAt,
	}
	return doc, a.err
}

func (d productionDocument) model() (models.DailyProduction, error) {
	var a amounts
	p := models.DailyProduction{
		BarberID:         d.BarberID,
		Date:             d.Date.UTC(),
		ServicesTotal:    a.decode("services_total", d.ServicesTotal),
		ProductsTotal:    a.decode("products_total", d.ProductsTotal),
		ServicesCount:    d.ServicesCount,
		ProductsCount:    d.ProductsCount,
		ClientsCount:     d.ClientsCount,
		CommissionEarned: a.decode("commission_earned", d.CommissionEarned),
		UpdatedAt:        d.UpdatedAt,
	}
	if a.err != nil {
		return models.DailyProduction{}, fmt.Errorf("production %s %s: %w", d.BarberID, d.Date.UTC().Format(models.DateLayout), a.err)
	}
	return p, nil
}
