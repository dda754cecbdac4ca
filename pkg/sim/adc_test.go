package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/itohio/apelscan/pkg/adc"
)

func newSampler(src map[uint8]float32) (*adc.Sampler, *ADC) {
	a := NewADC(ADCConfig{Supply: 5.0, Bandgap: 1.1, External: 2.5, BusyPolls: 3})
	for ch, v := range src {
		v := v
		a.Connect(ch, func() float32 { return v })
	}
	return adc.New(a, 1_000_000), a
}

func TestADC_ConvertsAgainstReference(t *testing.T) {
	tests := []struct {
		name string
		init func(*adc.Sampler)
		vin  float32
		want uint16
	}{
		{name: "supply half scale", init: (*adc.Sampler).InitSupply, vin: 2.5, want: 511},
		{name: "bandgap half scale", init: (*adc.Sampler).InitBandgap, vin: 0.55, want: 511},
		{name: "bandgap saturates", init: (*adc.Sampler).InitBandgap, vin: 2.0, want: 1023},
		{name: "supply zero", init: (*adc.Sampler).InitSupply, vin: 0, want: 0},
		{name: "negative clamps", init: (*adc.Sampler).InitSupply, vin: -1, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newSampler(map[uint8]float32{7: tt.vin})
			tt.init(s)
			assert.Equal(t, tt.want, s.Read(7))
		})
	}
}

func TestADC_ReferenceMismatchIsSilent(t *testing.T) {
	// A 0.5V signal read against the supply loses resolution but is not
	// flagged.
	s, a := newSampler(map[uint8]float32{7: 0.5})
	s.InitSupply()
	assert.Equal(t, uint16(102), s.Read(7))
	assert.Equal(t, float32(5.0), a.Reference())
}

func TestADC_InternalChannels(t *testing.T) {
	s, _ := newSampler(nil)
	s.InitSupply()
	assert.Equal(t, uint16(225), s.Read(0x0E)) // 1.1V / 5V
	assert.Equal(t, uint16(0), s.Read(0x0F))
	assert.Equal(t, uint16(0), s.Read(3), "unconnected channel")
}

func TestADC_CountsConversions(t *testing.T) {
	s, a := newSampler(map[uint8]float32{1: 1, 7: 0.1})
	s.InitBandgap()
	s.Read(7)
	s.Read(7)
	s.InitSupply()
	s.Read(1)

	assert.Equal(t, 2, a.Conversions(7))
	assert.Equal(t, 1, a.Conversions(1))
	assert.Zero(t, a.Conversions(0))
}

func TestADC_DisabledDoesNotConvert(t *testing.T) {
	a := NewADC(ADCConfig{Supply: 5})
	a.SetMux(adc.REFS0 | 1)
	a.SetControl(adc.ADSC)

	assert.Zero(t, a.Control()&adc.ADSC)
	assert.Zero(t, a.Conversions(1))
}

func TestADC_CompletionSetsFlag(t *testing.T) {
	a := NewADC(ADCConfig{Supply: 5, BusyPolls: 1})
	a.SetMux(adc.REFS0)
	a.SetControl(adc.ADEN | adc.ADSC)

	assert.NotZero(t, a.Control()&adc.ADSC)
	c := a.Control()
	assert.Zero(t, c&adc.ADSC)
	assert.NotZero(t, c&adc.ADIF)
}

func TestADC_ReservedReference(t *testing.T) {
	a := NewADC(ADCConfig{Supply: 5, Bandgap: 1.1})
	a.Connect(0, func() float32 { return 1 })
	a.SetMux(adc.REFS1)
	a.SetControl(adc.ADEN | adc.ADSC)
	a.Control()

	assert.Zero(t, a.Reference())
	assert.Zero(t, a.Result())
}
