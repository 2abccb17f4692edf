package registrystub

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Meesho/BharatMLStack/company-export/pkg/workbook"
)

type provinceInfo struct {
	Code string
	Town string
	Zip  string
}

var (
	stubProvinces = []provinceInfo{
		{Code: "VR", Town: "Verona", Zip: "37100"},
		{Code: "MI", Town: "Milano", Zip: "20100"},
		{Code: "RM", Town: "Roma", Zip: "00100"},
		{Code: "TO", Town: "Torino", Zip: "10100"},
		{Code: "NA", Town: "Napoli", Zip: "80100"},
		{Code: "BO", Town: "Bologna", Zip: "40100"},
		{Code: "FI", Town: "Firenze", Zip: "50100"},
		{Code: "VE", Town: "Venezia", Zip: "30100"},
		{Code: "PD", Town: "Padova", Zip: "35100"},
		{Code: "BG", Town: "Bergamo", Zip: "24100"},
	}
	stubAtecoCodes = []string{
		"10.71.10",
		"10.71.20",
		"10.72.00",
		"47.24.10",
		"56.10.11",
		"62.01.00",
		"41.20.00",
		"46.90.00",
	}
	stubFirstRegistration = time.Date(1998, time.January, 2, 0, 0, 0, 0, time.UTC)
)

// GenerateCompanies builds n deterministic fake companies. Provinces cycle fastest, so every
// province gets every ATECO code once n is at least 80.
func GenerateCompanies(n int) []workbook.Record {
	companies := make([]workbook.Record, 0, n)
	for i := 0; i < n; i++ {
		province := stubProvinces[i%len(stubProvinces)]
		ateco := stubAtecoCodes[(i/len(stubProvinces))%len(stubAtecoCodes)]
		vat := fmt.Sprintf("%011d", (int64(i)+1)*7919%100000000000)

		var pec interface{}
		if i%5 != 0 {
			pec = fmt.Sprintf("azienda%04d@pec.it", i+1)
		}
		status := "ATTIVA"
		if i%11 == 0 {
			status = "CESSATA"
		}
		address, _ := json.Marshal(map[string]string{
			"street":  fmt.Sprintf("Via Roma %d", i%200+1),
			"zipCode": province.Zip,
		})

		company := workbook.NewRecord().
			Set("id", fmt.Sprintf("IT%08d", i+1)).
			Set("companyName", fmt.Sprintf("Azienda %04d S.r.l.", i+1)).
			Set("vatCode", vat).
			Set("taxCode", vat).
			Set("province", province.Code).
			Set("town", province.Town).
			Set("atecoCode", ateco).
			Set("activityStatus", status).
			Set("registrationDate", stubFirstRegistration.AddDate(0, 0, i*3).Format("2006-01-02")).
			Set("employees", json.Number(fmt.Sprintf("%d", (i*37)%250))).
			Set("turnover", json.Number(fmt.Sprintf("%d.%02d", (i*7717)%900000+10000, i%100))).
			Set("pec", pec).
			Set("address", json.RawMessage(address))
		companies = append(companies, *company)
	}
	return companies
}
