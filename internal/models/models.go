package models

// All lists every model managed by AutoMigrate, in dependency order.
func All() []interface{} {
	return []interface{}{
		&Broker{},
		&Deal{},
		&CommissionSplit{},
		&Payment{},
		&PaymentSplit{},
		&Note{},
		&RestaurantLocation{},
		&RestaurantTrend{},
	}
}
