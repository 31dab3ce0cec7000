package scoring

import "math"

// TimerType selects how a timed game counts down: one budget per round, or
// one budget for the whole game. Only per-round timers earn a speed bonus.
type TimerType string

const (
	TimerPerRound TimerType = "per-round"
	TimerTotal    TimerType = "total"
)

const (
	// DisplayMultiplier scales a raw 0-100 score to the 0-5000 range shown to players.
	DisplayMultiplier = 50
	// BonusPerSecond is the display points earned per second left on a per-round timer.
	BonusPerSecond = 2

	earthRadiusMiles = 3958.8
)

// Guess is one player's answer for one image.
type Guess struct {
	Year int     `json:"year"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// Actual is the ground truth carried by the catalog image.
type Actual struct {
	Year int     `json:"year"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// Breakdown is the full result of scoring one guess. Display scores are the
// user-facing numbers; DisplayTotal is always the plain sum of its parts.
type Breakdown struct {
	YearScore            int     `json:"year_score"`
	LocationScore        float64 `json:"location_score"`
	TimeBonus            int     `json:"time_bonus"`
	DisplayYearScore     int     `json:"display_year_score"`
	DisplayLocationScore int     `json:"display_location_score"`
	DisplayTotalScore    int     `json:"display_total_score"`
}

// YearScore grades a year guess on 1-100 by piecewise linear decay over the
// absolute difference. Only an exact match scores 100, and any finite guess
// scores at least 1.
func YearScore(actualYear, guessedYear int) int {
	d := actualYear - guessedYear
	if d < 0 {
		d = -d
	}

	var raw float64
	switch {
	case d == 0:
		return 100
	case d <= 3:
		raw = 100 - float64(d)*2.67
	case d <= 10:
		raw = 92 - float64(d-3)*3
	case d <= 25:
		raw = 71 - float64(d-10)*2
	case d <= 50:
		raw = 41 - float64(d-25)
	case d <= 100:
		raw = 16 - float64(d-50)*0.2
	default:
		raw = 6 - float64(d-100)*0.05
	}

	score := int(math.Round(raw))
	if score < 1 {
		score = 1
	}
	return score
}

// DistanceMiles is the great-circle distance between two points (Haversine).
func DistanceMiles(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMiles * c
}

// LocationScore grades a map guess on 0.5-100 by distance brackets. Anything
// under ten miles counts as a bullseye.
func LocationScore(actualLat, actualLng, guessLat, guessLng float64) float64 {
	return scoreFromMiles(DistanceMiles(actualLat, actualLng, guessLat, guessLng))
}

func scoreFromMiles(d float64) float64 {
	switch {
	case d < 10:
		return 100
	case d < 50:
		return 100 - 0.5*(d-10)
	case d < 150:
		return 80 - 0.3*(d-50)
	case d < 400:
		return 50 - 0.12*(d-150)
	case d < 1000:
		return 20 - 0.025*(d-400)
	case d < 3000:
		return 5 - 0.002*(d-1000)
	default:
		return math.Max(0.5, 1-0.0001*(d-3000))
	}
}

// TimeBonus converts seconds left on the clock into display points. Zero
// unless the game is timed with a per-round timer.
func TimeBonus(timeRemainingSeconds float64, isTimedMode bool, timerType TimerType) int {
	if !isTimedMode || timerType != TimerPerRound {
		return 0
	}
	return int(math.Floor(math.Max(0, timeRemainingSeconds) * BonusPerSecond))
}

// Complete scores a whole guess. The display total is the exact sum of the
// display year score, display location score and time bonus; no weighting
// happens at the display layer.
func Complete(actual Actual, guess Guess, timeRemainingSeconds float64, isTimedMode bool, timerType TimerType) Breakdown {
	yearScore := YearScore(actual.Year, guess.Year)
	locationScore := LocationScore(actual.Lat, actual.Lng, guess.Lat, guess.Lng)
	bonus := TimeBonus(timeRemainingSeconds, isTimedMode, timerType)

	displayYear := yearScore * DisplayMultiplier
	displayLocation := int(math.Round(locationScore * DisplayMultiplier))

	return Breakdown{
		YearScore:            yearScore,
		LocationScore:        locationScore,
		TimeBonus:            bonus,
		DisplayYearScore:     displayYear,
		DisplayLocationScore: displayLocation,
		DisplayTotalScore:    displayYear + displayLocation + bonus,
	}
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
