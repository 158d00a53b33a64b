package core

// Category vocabularies are closed at training time and shipped with the
// serving code. Values absent from a table encode to 0 (see CategoryTable).

var SoilTypes = CategoryTable{
	"Sandy":  0,
	"Loamy":  1,
	"Black":  2,
	"Red":    3,
	"Clayey": 4,
}

var FertilizerCrops = CategoryTable{
	"Maize":       0,
	"Sugarcane":   1,
	"Cotton":      2,
	"Tobacco":     3,
	"Paddy":       4,
	"Barley":      5,
	"Wheat":       6,
	"Millets":     7,
	"Oil seeds":   8,
	"Pulses":      9,
	"Ground Nuts": 10,
}

var YieldCrops = CategoryTable{
	"Rice":      0,
	"Wheat":     1,
	"Maize":     2,
	"Sugarcane": 3,
	"Cotton":    4,
}

var Seasons = CategoryTable{
	"Kharif":     0,
	"Rabi":       1,
	"Summer":     2,
	"Whole Year": 3,
}

var States = CategoryTable{
	"Andhra Pradesh": 0,
	"Karnataka":      1,
	"Maharashtra":    2,
	"Tamil Nadu":     3,
	"Uttar Pradesh":  4,
	"West Bengal":    5,
	"Gujarat":        6,
	"Madhya Pradesh": 7,
	"Punjab":         8,
	"Haryana":        9,
}

// The fertilizer pipeline was trained with pH and rainfall columns the
// request does not carry; it expects these fixed placeholder values.
const (
	fertilizerDefaultPH       = 7.0
	fertilizerDefaultRainfall = 200.0
)

type CropInput struct {
	N           float64
	P           float64
	K           float64
	Temperature float64
	Humidity    float64
	PH          float64
	Rainfall    float64
}

type FertilizerInput struct {
	Temperature float64
	Humidity    float64
	Moisture    float64
	SoilType    string
	CropType    string
	Nitrogen    float64
	Phosphorous float64
	Potassium   float64
}

type YieldInput struct {
	Crop           string
	Season         string
	State          string
	Area           float64
	AnnualRainfall float64
	Fertilizer     float64
	Pesticide      float64
}

// Encode produces the crop pipeline's feature vector
// [N, P, K, temperature, humidity, ph, rainfall], all columns scaled.
func (m *CropModel) Encode(in CropInput) ([]float64, error) {
	features := []float64{in.N, in.P, in.K, in.Temperature, in.Humidity, in.PH, in.Rainfall}
	return m.Scaler.Transform(features)
}

// Encode produces the fertilizer pipeline's feature vector
// [nitrogen, phosphorous, potassium, ph, rainfall, temperature,
// crop_code, soil_code]; the first six columns are scaled, the two
// trailing categorical codes are raw.
func (m *FertilizerModel) Encode(in FertilizerInput) ([]float64, error) {
	features := []float64{
		in.Nitrogen, in.Phosphorous, in.Potassium,
		fertilizerDefaultPH, fertilizerDefaultRainfall, in.Temperature,
		float64(FertilizerCrops.Code(in.CropType)),
		float64(SoilTypes.Code(in.SoilType)),
	}
	return m.Scaler.Transform(features)
}

// Encode produces the yield pipeline's feature vector
// [area, annual_rainfall, fertilizer, pesticide, crop_code, state_code,
// season_code]; the four leading numeric columns are scaled.
func (m *YieldModel) Encode(in YieldInput) ([]float64, error) {
	features := []float64{
		in.Area, in.AnnualRainfall, in.Fertilizer, in.Pesticide,
		float64(YieldCrops.Code(in.Crop)),
		float64(States.Code(in.State)),
		float64(Seasons.Code(in.Season)),
	}
	return m.Scaler.Transform(features)
}
