package domain

// Quantity identifies one solar-wind measurement averaged into a snapshot.
type Quantity string

const (
	QuantityBz    Quantity = "Bz"
	QuantityRatio Quantity = "Ratio"
	QuantityV     Quantity = "V"
	QuantityLat   Quantity = "Lat"
	QuantityP     Quantity = "P"
	QuantityLon   Quantity = "Lon"
	QuantityBx    Quantity = "Bx"
	QuantityT     Quantity = "T"
)

// quantitySpec locates a quantity in an OMNI2 row.
type quantitySpec struct {
	column   int
	sentinel float64
}

// Quantities lists every snapshot quantity in a fixed order.
var Quantities = []Quantity{
	QuantityBz,
	QuantityRatio,
	QuantityV,
	QuantityLat,
	QuantityP,
	QuantityLon,
	QuantityBx,
	QuantityT,
}

var quantitySpecs = map[Quantity]quantitySpec{
	QuantityBx:    {column: 12, sentinel: 999},
	QuantityBz:    {column: 14, sentinel: 999},
	QuantityT:     {column: 22, sentinel: 9999999},
	QuantityV:     {column: 24, sentinel: 9999},
	QuantityLon:   {column: 25, sentinel: 999},
	QuantityLat:   {column: 26, sentinel: 999},
	QuantityRatio: {column: 27, sentinel: 9},
	QuantityP:     {column: 28, sentinel: 99},
}

// Column returns the 0-based OMNI2 column holding q.
func (q Quantity) Column() int {
	return quantitySpecs[q].column
}

// Sentinel returns the integer fill value for q.
func (q Quantity) Sentinel() float64 {
	return quantitySpecs[q].sentinel
}

// Feature names for solar-wind quantities. These are the only names that
// resolve against a Snapshot.
const (
	FeatureSWBz          = "sw_bz"
	FeatureSWRatio       = "sw_ratio"
	FeatureSWSpeed       = "sw_speed"
	FeatureSWLat         = "sw_lat"
	FeatureSWPressure    = "sw_pressure"
	FeatureSWLon         = "sw_lon"
	FeatureSWBx          = "sw_bx"
	FeatureSWTemperature = "sw_temperature"
)

// FeatureQuantity maps solar-wind feature names to snapshot quantities.
var FeatureQuantity = map[string]Quantity{
	FeatureSWBz:          QuantityBz,
	FeatureSWRatio:       QuantityRatio,
	FeatureSWSpeed:       QuantityV,
	FeatureSWLat:         QuantityLat,
	FeatureSWPressure:    QuantityP,
	FeatureSWLon:         QuantityLon,
	FeatureSWBx:          QuantityBx,
	FeatureSWTemperature: QuantityT,
}
