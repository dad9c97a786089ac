package models

import "time"

// RestaurantLocation is one store from the yearly restaurant-trends workbook,
// keyed by its STORE_NO.
type RestaurantLocation struct {
	StoreNo    string   `gorm:"primaryKey;size:50" json:"storeNo"`
	ChainNo    *string  `gorm:"size:50" json:"chainNo"`
	Chain      *string  `gorm:"size:255;index" json:"chain"`
	GeoAddress *string  `gorm:"column:geoaddress;size:255" json:"geoaddress"`
	GeoCity    *string  `gorm:"column:geocity;size:100" json:"geocity"`
	GeoState   *string  `gorm:"column:geostate;size:10;index" json:"geostate"`
	GeoZip     *string  `gorm:"column:geozip;size:10" json:"geozip"`
	GeoZip4    *string  `gorm:"column:geozip4;size:10" json:"geozip4"`
	County     *string  `gorm:"size:100" json:"county"`
	DMAMarket  *string  `gorm:"column:dma_market;size:255" json:"dmaMarket"`
	DMANo      *string  `gorm:"column:dma_no;size:50" json:"dmaNo"`
	Segment    *string  `gorm:"size:100" json:"segment"`
	Subsegment *string  `gorm:"size:100" json:"subsegment"`
	Category   *string  `gorm:"size:100" json:"category"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	GeoQuality *string  `gorm:"column:geoquality;size:50" json:"geoquality"`
	YrBuilt    *int     `json:"yrBuilt"`
	CoFr       *string  `gorm:"column:co_fr;size:50" json:"coFr"`
	CoFrNo     *string  `gorm:"column:co_fr_no;size:50" json:"coFrNo"`
	SegNo      *string  `gorm:"column:seg_no;size:50" json:"segNo"`

	// Verified coordinates are maintained by hand and never come from the workbook.
	VerifiedLatitude  *float64 `json:"verifiedLatitude"`
	VerifiedLongitude *float64 `json:"verifiedLongitude"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (RestaurantLocation) TableName() string { return "restaurant_location" }

// RestaurantTrend is one store's survey figures for one year.
type RestaurantTrend struct {
	TrendID uint   `gorm:"primaryKey;column:trend_id" json:"trendId"`
	StoreNo string `gorm:"size:50;not null;uniqueIndex:idx_restaurant_trend_store_year" json:"storeNo"`
	Year    int    `gorm:"not null;uniqueIndex:idx_restaurant_trend_store_year" json:"year"`

	CurrNatlGrade  *string  `gorm:"size:10" json:"currNatlGrade"`
	CurrNatlIndex  *float64 `json:"currNatlIndex"`
	CurrAnnualSlsK *float64 `gorm:"column:curr_annual_sls_k" json:"currAnnualSlsK"`
	CurrMktGrade   *string  `gorm:"size:10" json:"currMktGrade"`
	LabelCngCmg    *string  `gorm:"column:label_cng_cmg;size:50" json:"labelCngCmg"`
	LabelCngLtPng  *string  `gorm:"column:label_cng_lt_png;size:50" json:"labelCngLtPng"`
	CurrMktIndex   *float64 `json:"currMktIndex"`
	SurveyYrLastC  *int     `gorm:"column:survey_yr_last_c" json:"surveyYrLastC"`
	SurveyYrNextC  *int     `gorm:"column:survey_yr_next_c" json:"surveyYrNextC"`
	TtlNoSurveysC  *int     `gorm:"column:ttl_no_surveys_c" json:"ttlNoSurveysC"`
	PastYrs        *int     `json:"pastYrs"`
	PastNatlGrade  *string  `gorm:"size:10" json:"pastNatlGrade"`
	LabelPng       *string  `gorm:"column:label_png;size:50" json:"labelPng"`
	PastNatlIndex  *float64 `json:"pastNatlIndex"`
	PastAnnualSlsK *float64 `gorm:"column:past_annual_sls_k" json:"pastAnnualSlsK"`
	PastMktGrade   *string  `gorm:"size:10" json:"pastMktGrade"`
	LabelPngPmg    *string  `gorm:"column:label_png_pmg;size:50" json:"labelPngPmg"`
	PastMktIndex   *float64 `json:"pastMktIndex"`
	SurveyYrLastP  *int     `gorm:"column:survey_yr_last_p" json:"surveyYrLastP"`
	SurveyYrNextP  *int     `gorm:"column:survey_yr_next_p" json:"surveyYrNextP"`
	TtlNoSurveysP  *int     `gorm:"column:ttl_no_surveys_p" json:"ttlNoSurveysP"`

	Location *RestaurantLocation `gorm:"foreignKey:StoreNo;references:StoreNo;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (RestaurantTrend) TableName() string { return "restaurant_trend" }
