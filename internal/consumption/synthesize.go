package consumption

import (
	"energiesystem-sim/internal/calendar"
	"energiesystem-sim/internal/data"
	"energiesystem-sim/internal/engine"
	"energiesystem-sim/internal/frame"
)

// Inputs bundles one target year's consumption-synthesis inputs.
type Inputs struct {
	Haushalte      SectorTarget
	Gewerbe        SectorTarget
	Landwirtschaft SectorTarget
	HeatPump       HeatPumpParams
	Temperature    *data.TemperatureSeries
	HeatPumpMatrix *data.HeatPumpMatrix
	DriveEnergyMWh []float64 // e_drive_MWh(t), from ev.BuildProfile
}

// EMobilityLossFactor is the fixed charging-loss share applied on top of
// drive energy (spec §4.2: "approximately 7.5% of drive").
const EMobilityLossFactor = 0.075

// Synthesize runs the full consumption synthesis of spec §4.2 and returns a
// populated ConsumptionFrame.
func Synthesize(tl *calendar.Timeline, in Inputs, kernel engine.Kernel) (*frame.ConsumptionFrame, error) {
	n := tl.Len()
	out := frame.NewConsumptionFrame(n)

	out.Haushalte = SynthesizeBDEW(tl, "Haushalte", in.Haushalte)
	out.Gewerbe = SynthesizeBDEW(tl, "Gewerbe", in.Gewerbe)
	out.Landwirtschaft = SynthesizeBDEW(tl, "Landwirtschaft", in.Landwirtschaft)

	if in.Temperature != nil && in.HeatPumpMatrix != nil {
		hp, err := SynthesizeHeatPump(tl, in.Temperature, in.HeatPumpMatrix, in.HeatPump, kernel)
		if err != nil {
			return nil, err
		}
		out.Waermepumpen = hp
	}

	if in.DriveEnergyMWh != nil {
		eMobility := make([]float64, n)
		for i, e := range in.DriveEnergyMWh {
			eMobility[i] = e * (1 + EMobilityLossFactor)
		}
		out.EMobility = eMobility
	}

	out.RecomputeGesamt()
	return out, nil
}
