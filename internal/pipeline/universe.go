package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CompanyInfo is one tracked issuer.
type CompanyInfo struct {
	Name string `yaml:"name"`
	CIK  string `yaml:"cik"` // zero-padded to 10 digits
}

// Universe is the set of tracked issuers keyed by ticker.
type Universe map[string]CompanyInfo

// DefaultUniverse covers the semiconductor complex plus the two major EDA
// vendors. ONTO files under Nanometrics' legacy CIK; see cikAliases.
func DefaultUniverse() Universe {
	return Universe{
		"AMD":  {"Advanced Micro Devices Inc", "0000002488"},
		"ADI":  {"Analog Devices Inc", "0000006281"},
		"AMAT": {"Applied Materials Inc", "0000006951"},
		"AMKR": {"Amkor Technology Inc", "0001047127"},
		"ARM":  {"Arm Holdings PLC", "0001973239"},
		"ASML": {"ASML Holding NV", "0000937966"},
		"AVGO": {"Broadcom Inc", "0001730168"},
		"CDNS": {"Cadence Design Systems Inc", "0000813672"},
		"COHR": {"Coherent Corp", "0001562287"},
		"CRUS": {"Cirrus Logic Inc", "0000772406"},
		"ENTG": {"Entegris Inc", "0001101302"},
		"GFS":  {"GLOBALFOUNDRIES Inc", "0001709048"},
		"INTC": {"Intel Corp", "0000050863"},
		"KLAC": {"KLA Corp", "0000319201"},
		"LRCX": {"Lam Research Corp", "0000707549"},
		"LSCC": {"Lattice Semiconductor Corp", "0000855658"},
		"MCHP": {"Microchip Technology Inc", "0000827054"},
		"MPWR": {"Monolithic Power Systems Inc", "0001136640"},
		"MRVL": {"Marvell Technology Inc", "0001058057"},
		"MTSI": {"MACOM Technology Solutions Holdings Inc", "0001493594"},
		"MU":   {"Micron Technology Inc", "0000723125"},
		"NVDA": {"NVIDIA Corp", "0001045810"},
		"NXPI": {"NXP Semiconductors NV", "0001413447"},
		"ON":   {"ON Semiconductor Corp", "0001097864"},
		"ONTO": {"Onto Innovation Inc", "0000707388"},
		"QCOM": {"QUALCOMM Inc", "0000804328"},
		"QRVO": {"Qorvo Inc", "0001604778"},
		"SWKS": {"Skyworks Solutions Inc", "0000004127"},
		"TER":  {"Teradyne Inc", "0000097210"},
		"TSM":  {"Taiwan Semiconductor Manufacturing Co Ltd", "0001046179"},
		"TXN":  {"Texas Instruments Inc", "0000097476"},
		"SNPS": {"Synopsys Inc", "0000883241"},
	}
}

// cikAliases maps a tracked CIK to the legacy CIK the submissions API
// actually serves. ONTO inherits Nanometrics' submissions record.
var cikAliases = map[string]string{
	"0001784048": "0000707388",
}

// CIKs returns the set of tracked zero-padded CIKs.
func (u Universe) CIKs() map[string]bool {
	out := make(map[string]bool, len(u))
	for _, c := range u {
		out[c.CIK] = true
	}
	return out
}

// LoadUniverse reads a ticker-keyed issuer map from a YAML file, replacing
// the default universe. Every entry needs both a name and a 10-digit CIK.
func LoadUniverse(path string) (Universe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read universe file: %w", err)
	}
	var u Universe
	if err := yaml.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("parse universe file: %w", err)
	}
	if len(u) == 0 {
		return nil, fmt.Errorf("universe file %s defines no companies", path)
	}
	for ticker, c := range u {
		if c.Name == "" || len(c.CIK) != 10 {
			return nil, fmt.Errorf("universe entry %s needs a name and a 10-digit cik", ticker)
		}
	}
	return u, nil
}

// TickerFor resolves a CIK back to its ticker, or "UNKNOWN".
func (u Universe) TickerFor(cik string) string {
	for ticker, c := range u {
		if c.CIK == cik {
			return ticker
		}
	}
	return "UNKNOWN"
}
