package ev

import (
	"math"
	"time"

	"energiesystem-sim/internal/calendar"
)

// Profile holds Phase A's precomputed per-timestep series, consumed by
// Dispatch in Phase B.
type Profile struct {
	DrivePowerKW   []float64
	PlugShare      []float64
	SOCMinShare    []float64
	PreloadFlag    []bool
	SOCTargetShare []*float64 // nil where undefined (driving window)
	TimeToDepartH  []float64
}

// BuildProfile runs Phase A over a timeline, per spec §4.5.
func BuildProfile(tl *calendar.Timeline, p Params) Profile {
	n := tl.Len()
	nEV := p.NCarsEffective()

	activity := make([]float64, n)
	for i, s := range tl.Samples {
		leisure := s.Day != calendar.Workday
		activity[i] = activityValue(hourOfDay(s.T), leisure)
	}

	prof := Profile{
		DrivePowerKW:   make([]float64, n),
		PlugShare:      make([]float64, n),
		SOCMinShare:    make([]float64, n),
		PreloadFlag:    make([]bool, n),
		SOCTargetShare: make([]*float64, n),
		TimeToDepartH:  make([]float64, n),
	}

	// Drive power: normalise activity so Σ activity(t)*Δt == n_EV*E_drive_car_year.
	var activitySum float64
	for _, a := range activity {
		activitySum += a * DtHours
	}
	targetDriveEnergyKWh := nEV * p.EDriveCarYear
	var driveScale float64
	if activitySum > 0 {
		driveScale = targetDriveEnergyKWh / activitySum
	}

	minA, maxA := activity[0], activity[0]
	for _, a := range activity {
		if a < minA {
			minA = a
		}
		if a > maxA {
			maxA = a
		}
	}
	activityRange := maxA - minA

	depart, _ := parseHHMM(p.TDepart)
	arrive, _ := parseHHMM(p.TArrive)
	preloadStart := depart - 2*time.Hour

	for i, s := range tl.Samples {
		prof.DrivePowerKW[i] = activity[i] * driveScale

		var activityNorm float64
		if activityRange > 0 {
			activityNorm = (activity[i] - minA) / activityRange
		}
		prof.PlugShare[i] = math.Max(0, 1-0.9*activityNorm) * p.PlugShareMax

		inDrivingWindow := timeOfDayInWindow(s.T, depart, arrive)
		if inDrivingWindow {
			prof.SOCMinShare[i] = p.SOCMinDay
		} else {
			prof.SOCMinShare[i] = p.SOCMinNight
		}

		prof.PreloadFlag[i] = timeOfDayInWindow(s.T, preloadStart, depart)

		if !inDrivingWindow {
			v := p.SOCTargetDepart
			prof.SOCTargetShare[i] = &v
		}

		prof.TimeToDepartH[i] = timeToDepartHours(s.T, depart, inDrivingWindow)
	}

	return prof
}

func hourOfDay(t time.Time) float64 {
	h, m, sec := t.Clock()
	return float64(h) + float64(m)/60 + float64(sec)/3600
}

// timeOfDayInWindow reports whether t's time-of-day falls in [from, to) on
// a wrapped 24h clock (from/to are durations since midnight; to < from
// means the window crosses midnight).
func timeOfDayInWindow(t time.Time, from, to time.Duration) bool {
	from = wrapDuration(from)
	to = wrapDuration(to)
	now := time.Duration(hourOfDay(t) * float64(time.Hour))
	if from <= to {
		return now >= from && now < to
	}
	return now >= from || now < to
}

func wrapDuration(d time.Duration) time.Duration {
	day := 24 * time.Hour
	d %= day
	if d < 0 {
		d += day
	}
	return d
}

// timeToDepartHours returns hours until the next occurrence of depart,
// zeroed while inside the driving window.
func timeToDepartHours(t time.Time, depart time.Duration, inDrivingWindow bool) float64 {
	if inDrivingWindow {
		return 0
	}
	now := wrapDuration(time.Duration(hourOfDay(t) * float64(time.Hour)))
	d := wrapDuration(depart)
	delta := d - now
	if delta < 0 {
		delta += 24 * time.Hour
	}
	return delta.Hours()
}

// activityValue evaluates the skewed-Gaussian activity profile at hour-of-day h.
func activityValue(h float64, leisure bool) float64 {
	if leisure {
		return 0.8*skewedGaussian(h, 13.0, 5.0, 5.0) + 0.1
	}
	am := skewedGaussian(h, 7.75, 1.5, 2.5)
	pm := skewedGaussian(h, 17.25, 2.5, 2.0)
	return 0.9*am + 1.1*pm + 0.1
}

// skewedGaussian evaluates a Gaussian centred at mu with a different sigma
// on each side of the peak, on a 24h wrapped hour-of-day axis.
func skewedGaussian(h, mu, sigmaLeft, sigmaRight float64) float64 {
	d := h - mu
	for d < -12 {
		d += 24
	}
	for d >= 12 {
		d -= 24
	}
	sigma := sigmaRight
	if d < 0 {
		sigma = sigmaLeft
	}
	return math.Exp(-(d * d) / (2 * sigma * sigma))
}
