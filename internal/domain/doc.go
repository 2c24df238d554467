// Package domain models disaster-risk prediction requests and the weather
// context shown alongside them.
//
// # Categories
//
// Three disaster categories are supported, each with its own input fields:
//
//	cyclone:    seaSurfaceTemp (°C), pressure (hPa), windSpeed (km/h), humidity (%)
//	earthquake: seismicActivity (magnitude), tectonicMovement (mm/year)
//	cloudburst: precipitationRate (mm/hour), cloudDensity (g/m³), pressure (hPa), humidity (%)
//
// Cyclone and cloudburst fields are all required. Earthquake fields are
// optional; a prompt built without them simply omits the corresponding lines.
//
// # Input Parsing
//
// Raw values arrive as text (form posts, CLI flags) or JSON numbers. [ParseInput]
// converts them into a [PredictionInput] and reports three distinct failures:
//
//	MissingRequiredField  the field is absent or blank
//	InvalidFieldType      the value is not a finite number
//	FieldOutOfRange       the value is outside the field's declared bounds
//
// Presence is tracked explicitly. A value of 0 is present, not missing.
//
// # Prediction Results
//
// A [PredictionResult] only exists after the model reply has been normalized,
// decoded and validated:
//
//	likelihood:      Low | Moderate | High
//	confidenceScore: integer percentage in [60, 100]
//	explanation:     non-empty text
//
// # Weather Units
//
// The weather provider is queried with metric units. Wind speed is converted
// from m/s to km/h (×3.6) and rounded; temperature is rounded to the nearest
// degree; missing precipitation reads as 0.
package domain
