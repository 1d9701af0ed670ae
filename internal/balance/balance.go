// Package balance implements the balance calculator (C4): aligning a
// GenerationFrame and a ConsumptionFrame onto a common timeline and
// computing the instantaneous residual.
package balance

import (
	"fmt"

	"energiesystem-sim/internal/frame"
	"energiesystem-sim/internal/simerr"
)

// Calculate aligns gen and cons (both already built against the same N-length
// timeline) and returns the initial BalanceFrame, with Rest_Bilanz equal to
// Bilanz (no flexibility stage has run yet).
func Calculate(gen *frame.GenerationFrame, cons *frame.ConsumptionFrame) (*frame.BalanceFrame, error) {
	if gen.N != cons.N {
		return nil, fmt.Errorf("generation has %d samples, consumption has %d: %w", gen.N, cons.N, simerr.ErrAlignment)
	}

	out := frame.NewBalanceFrame(gen.N)
	out.Produktion = gen.Total()

	if cons.Gesamt != nil && len(cons.Gesamt) == cons.N {
		copy(out.Verbrauch, cons.Gesamt)
	} else {
		for t := 0; t < cons.N; t++ {
			out.Verbrauch[t] = cons.Haushalte[t] + cons.Gewerbe[t] + cons.Landwirtschaft[t] + cons.Waermepumpen[t] + cons.EMobility[t]
		}
	}

	for t := 0; t < out.N; t++ {
		out.Bilanz[t] = out.Produktion[t] - out.Verbrauch[t]
		out.RestBilanz[t] = out.Bilanz[t]
	}
	return out, nil
}
