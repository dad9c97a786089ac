// Package restauranttrend turns the yearly restaurant-trends workbook
// (YE##*.xlsx) into restaurant_location and restaurant_trend rows.
package restauranttrend

// Column pairs a workbook header with its database column.
type Column struct {
	Excel string
	DB    string
}

// LocationColumns is the workbook layout of restaurant_location, in export order.
var LocationColumns = []Column{
	{"STORE_NO", "store_no"},
	{"CHAIN_NO", "chain_no"},
	{"CHAIN", "chain"},
	{"GEOADDRESS", "geoaddress"},
	{"GEOCITY", "geocity"},
	{"GEOSTATE", "geostate"},
	{"GEOZIP", "geozip"},
	{"GEOZIP4", "geozip4"},
	{"COUNTY", "county"},
	{"DMA(MARKET)", "dma_market"},
	{"DMA_NO", "dma_no"},
	{"SEGMENT", "segment"},
	{"SUBSEGMENT", "subsegment"},
	{"CATEGORY", "category"},
	{"LATITUDE", "latitude"},
	{"LONGITUDE", "longitude"},
	{"GEOQUALITY", "geoquality"},
	{"YR_BUILT", "yr_built"},
	{"CO/FR", "co_fr"},
	{"CO/FR_NO", "co_fr_no"},
	{"SEG_NO", "seg_no"},
}

// TrendColumns is the workbook layout of restaurant_trend. The year column is
// not in the workbook; it comes from the file name.
var TrendColumns = []Column{
	{"STORE_NO", "store_no"},
	{"CNG(CURR_NATL_GRADE)", "curr_natl_grade"},
	{"CNI(CURR_NATL_INDEX)", "curr_natl_index"},
	{"CURR_ANNUAL_SLS($000)", "curr_annual_sls_k"},
	{"CMG(CURR_MKT_GRADE)", "curr_mkt_grade"},
	{"LABEL(CNG/CMG)", "label_cng_cmg"},
	{"LABEL(CNG<PNG)", "label_cng_lt_png"},
	{"CMI(CURR_MKT_INDEX)", "curr_mkt_index"},
	{"SURVEY_YR(LAST/C)", "survey_yr_last_c"},
	{"SURVEY_YR(NEXT/C)", "survey_yr_next_c"},
	{"TTL_NO_SURVEYS(C)", "ttl_no_surveys_c"},
	{"PAST_YRS", "past_yrs"},
	{"PNG(PAST_NATL_GRADE)", "past_natl_grade"},
	{"LABEL(PNG)", "label_png"},
	{"PNI(PAST_NATL_INDEX)", "past_natl_index"},
	{"PAST_ANNUAL_SLS($000)", "past_annual_sls_k"},
	{"PMG(PAST_MKT_GRADE)", "past_mkt_grade"},
	{"LABEL(PNG/PMG)", "label_png_pmg"},
	{"PMI(PAST_MKT_INDEX)", "past_mkt_index"},
	{"SURVEY_YR(LAST/P)", "survey_yr_last_p"},
	{"SURVEY_YR(NEXT/P)", "survey_yr_next_p"},
	{"TTL_NO_SURVEYS(P)", "ttl_no_surveys_p"},
}

const storeNoHeader = "STORE_NO"

// qualityColumns are checked for null share after cleaning.
var qualityColumns = []string{"STORE_NO", "CHAIN", "GEOSTATE", "LATITUDE", "LONGITUDE"}

// MissingColumns returns the expected headers absent from header.
func MissingColumns(header []string) []string {
	have := make(map[string]bool, len(header))
	for _, h := range header {
		have[h] = true
	}
	var missing []string
	seen := map[string]bool{}
	for _, set := range [][]Column{LocationColumns, TrendColumns} {
		for _, c := range set {
			if !have[c.Excel] && !seen[c.Excel] {
				missing = append(missing, c.Excel)
				seen[c.Excel] = true
			}
		}
	}
	return missing
}
