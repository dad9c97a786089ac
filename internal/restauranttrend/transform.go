package restauranttrend

import (
	"strings"

	"github.com/oculusrep/commission-api/internal/models"
)

// Locations maps cleaned records onto location rows, one per store.
func Locations(records []Record) []models.RestaurantLocation {
	out := make([]models.RestaurantLocation, 0, len(records))
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		store := strings.TrimSpace(r["STORE_NO"])
		if seen[store] {
			continue
		}
		seen[store] = true
		out = append(out, models.RestaurantLocation{
			StoreNo:    store,
			ChainNo:    text(r["CHAIN_NO"]),
			Chain:      text(r["CHAIN"]),
			GeoAddress: text(r["GEOADDRESS"]),
			GeoCity:    text(r["GEOCITY"]),
			GeoState:   text(r["GEOSTATE"]),
			GeoZip:     text(r["GEOZIP"]),
			GeoZip4:    text(r["GEOZIP4"]),
			County:     text(r["COUNTY"]),
			DMAMarket:  text(r["DMA(MARKET)"]),
			DMANo:      text(r["DMA_NO"]),
			Segment:    text(r["SEGMENT"]),
			Subsegment: text(r["SUBSEGMENT"]),
			Category:   text(r["CATEGORY"]),
			Latitude:   number(r["LATITUDE"]),
			Longitude:  number(r["LONGITUDE"]),
			GeoQuality: text(r["GEOQUALITY"]),
			YrBuilt:    integer(r["YR_BUILT"]),
			CoFr:       text(r["CO/FR"]),
			CoFrNo:     text(r["CO/FR_NO"]),
			SegNo:      text(r["SEG_NO"]),
		})
	}
	return out
}

// Trends maps cleaned records onto trend rows for year.
func Trends(records []Record, year int) []models.RestaurantTrend {
	out := make([]models.RestaurantTrend, 0, len(records))
	for _, r := range records {
		out = append(out, models.RestaurantTrend{
			StoreNo:        strings.TrimSpace(r["STORE_NO"]),
			Year:           year,
			CurrNatlGrade:  text(r["CNG(CURR_NATL_GRADE)"]),
			CurrNatlIndex:  number(r["CNI(CURR_NATL_INDEX)"]),
			CurrAnnualSlsK: number(r["CURR_ANNUAL_SLS($000)"]),
			CurrMktGrade:   text(r["CMG(CURR_MKT_GRADE)"]),
			LabelCngCmg:    text(r["LABEL(CNG/CMG)"]),
			LabelCngLtPng:  text(r["LABEL(CNG<PNG)"]),
			CurrMktIndex:   number(r["CMI(CURR_MKT_INDEX)"]),
			SurveyYrLastC:  integer(r["SURVEY_YR(LAST/C)"]),
			SurveyYrNextC:  integer(r["SURVEY_YR(NEXT/C)"]),
			TtlNoSurveysC:  integer(r["TTL_NO_SURVEYS(C)"]),
			PastYrs:        integer(r["PAST_YRS"]),
			PastNatlGrade:  text(r["PNG(PAST_NATL_GRADE)"]),
			LabelPng:       text(r["LABEL(PNG)"]),
			PastNatlIndex:  number(r["PNI(PAST_NATL_INDEX)"]),
			PastAnnualSlsK: number(r["PAST_ANNUAL_SLS($000)"]),
			PastMktGrade:   text(r["PMG(PAST_MKT_GRADE)"]),
			LabelPngPmg:    text(r["LABEL(PNG/PMG)"]),
			PastMktIndex:   number(r["PMI(PAST_MKT_INDEX)"]),
			SurveyYrLastP:  integer(r["SURVEY_YR(LAST/P)"]),
			SurveyYrNextP:  integer(r["SURVEY_YR(NEXT/P)"]),
			TtlNoSurveysP:  integer(r["TTL_NO_SURVEYS(P)"]),
		})
	}
	return out
}
