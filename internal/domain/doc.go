// Package domain models the conditioning of hourly solar-wind data and CME
// event parameters into regression features, and the conversion of a predicted
// transit time back into a calendar arrival time.
//
// # Data Source
//
// Solar-wind conditions come from the NASA SPDF low-resolution OMNI2 archive,
// one whitespace-delimited file per year at
// https://spdf.gsfc.nasa.gov/pub/data/omni/low_res_omni/omni2_YYYY.dat. Each
// line is one hour; row 0 is January 1, 00:00 UTC. See [HourIndex].
//
// # OMNI2 Conventions
//
// Columns used (0-based) and their fill values:
//
//	12  Bx GSE (nT)               999.9
//	14  Bz GSE (nT)               999.9
//	22  proton temperature (K)    9999999.
//	24  flow speed (km/s)         9999.
//	25  flow longitude (deg)      999.9
//	26  flow latitude (deg)       999.9
//	27  alpha/proton ratio        9.999
//	28  flow pressure (nPa)       99.99
//
// Fill values are compared after truncation to an integer, so 999.9 matches
// the sentinel 999 and 9.999 matches 9. A token that does not parse as a finite
// number is treated the same as a fill value.
//
// # Gap Filling
//
// [GapFilledMean] averages a closed row range. When every row in range is
// missing it widens the range by one row on each side and retries, giving up
// once the width passes 24 hours and returning [FallbackValue]. Snapshot values
// are therefore always finite.
//
// # Features
//
// A [FeatureRequest] names the features a model was trained on. Event scalars
// are looked up first, then solar-wind quantities through the fixed table in
// [FeatureQuantity]. Anything else is 0 so the vector length always matches
// the request.
//
// # Arrival
//
// Transit times are hours and may be fractional. [ComputeArrival] rejects
// non-finite and non-positive values with [ErrInvalidPrediction] instead of
// producing a date.
package domain
