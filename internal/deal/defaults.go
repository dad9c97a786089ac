package deal

import (
	"github.com/oculusrep/commission-api/internal/models"
	"github.com/oculusrep/commission-api/internal/money"
	"github.com/shopspring/decimal"
)

// Defaults are the percentages given to organically created deals. They are
// passed in by the caller; nothing here reads configuration.
type Defaults struct {
	House       decimal.Decimal
	Origination decimal.Decimal
	Site        decimal.Decimal
	Deal        decimal.Decimal
}

// StandardDefaults is the 40/50/25/25 split.
var StandardDefaults = Defaults{
	House:       decimal.NewFromInt(40),
	Origination: decimal.NewFromInt(50),
	Site:        decimal.NewFromInt(25),
	Deal:        decimal.NewFromInt(25),
}

// Apply fills every unset percentage of d.
func (df Defaults) Apply(d *models.Deal) {
	if !d.HousePercent.Valid {
		d.HousePercent = money.Null(df.House)
	}
	if !d.OriginationPercent.Valid {
		d.OriginationPercent = money.Null(df.Origination)
	}
	if !d.SitePercent.Valid {
		d.SitePercent = money.Null(df.Site)
	}
	if !d.DealPercent.Valid {
		d.DealPercent = money.Null(df.Deal)
	}
}
