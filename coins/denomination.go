package coins

import (
	"github.com/pkg/errors"
)

// Family groups denominations sharing alloy color
type Family int

const (
	FamilyUnknown Family = iota
	FamilyCopper
	FamilyGold
	FamilyBimetal
)

func (f Family) String() string {
	switch f {
	case FamilyCopper:
		return "copper"
	case FamilyGold:
		return "gold"
	case FamilyBimetal:
		return "bimetal"
	default:
		return "unknown"
	}
}

// Coin types used as tracker object types
const (
	Type1Cent  = 1
	Type2Cent  = 2
	Type5Cent  = 3
	Type10Cent = 4
	Type20Cent = 5
	Type50Cent = 6
	Type1Euro  = 7
	Type2Euro  = 8
)

// Denomination describes a coin kind
type Denomination struct {
	Type   int
	Code   string
	Cents  int
	Family Family
	// Reference diameter in pixels for the calibrated camera setup
	Diameter float32
}

// String returns human readable value, e.g. "20c" or "2€"
func (d Denomination) String() string {
	return d.Code
}

// Euros returns coin value in euros
func (d Denomination) Euros() float64 {
	return float64(d.Cents) / 100.0
}

var denominations = [...]Denomination{
	{Type: Type1Cent, Code: "1c", Cents: 1, Family: FamilyCopper, Diameter: 122},
	{Type: Type2Cent, Code: "2c", Cents: 2, Family: FamilyCopper, Diameter: 135},
	{Type: Type5Cent, Code: "5c", Cents: 5, Family: FamilyCopper, Diameter: 152},
	{Type: Type10Cent, Code: "10c", Cents: 10, Family: FamilyGold, Diameter: 143},
	{Type: Type20Cent, Code: "20c", Cents: 20, Family: FamilyGold, Diameter: 160},
	{Type: Type50Cent, Code: "50c", Cents: 50, Family: FamilyGold, Diameter: 174},
	{Type: Type1Euro, Code: "1€", Cents: 100, Family: FamilyBimetal, Diameter: 185},
	{Type: Type2Euro, Code: "2€", Cents: 200, Family: FamilyBimetal, Diameter: 195},
}

// Denominations returns all known denominations ordered by type
func Denominations() []Denomination {
	out := make([]Denomination, len(denominations))
	copy(out, denominations[:])
	return out
}

// DenominationOf returns denomination for given coin type
func DenominationOf(coinType int) (Denomination, error) {
	if coinType < Type1Cent || coinType > Type2Euro {
		return Denomination{}, errors.Errorf("unknown coin type %d", coinType)
	}
	return denominations[coinType-1], nil
}

// familyDenominations returns denominations of the family in type order
func familyDenominations(f Family) []Denomination {
	var out []Denomination
	for _, d := range denominations {
		if d.Family == f {
			out = append(out, d)
		}
	}
	return out
}
