//go:build tinygo && avr

package main

import (
	"device/avr"

	"github.com/itohio/apelscan/pkg/lcd"
	"github.com/itohio/apelscan/pkg/scan"
)

const (
	// Buttons on PORTD, active high
	PIN_START = 1 << 0 // PD0
	PIN_STOP  = 1 << 1 // PD1
	PIN_BIAS  = 1 << 2 // PD2

	// LCD control lines on PORTD: RS=PD3, RW=PD4, EN=PD5
	LCD_CONTROL_SHIFT = 3
	LCD_CONTROL_MASK  = 0x07 << LCD_CONTROL_SHIFT

	// PORTB carries the LCD data bus, PD3..PD7 are outputs
	DDRB_OUTPUTS = 0xFF
	DDRD_OUTPUTS = 0xF8
)

// configurePorts sets pin directions. The button inputs are left without
// pull-ups; the fixture has external pull-downs.
func configurePorts() {
	avr.DDRB.Set(DDRB_OUTPUTS)
	avr.DDRD.Set(DDRD_OUTPUTS)
}

// lcdPort drives the display: data on PORTB, control on PORTD.
type lcdPort struct{}

func (lcdPort) SetData(b byte) {
	avr.PORTB.Set(b)
}

func (lcdPort) SetControl(c lcd.Control) {
	d := avr.PORTD.Get() &^ LCD_CONTROL_MASK
	avr.PORTD.Set(d | uint8(c)<<LCD_CONTROL_SHIFT)
}

// buttonPins reads the three buttons from PIND.
type buttonPins struct{}

func (buttonPins) ReadButtons() scan.Buttons {
	v := avr.PIND.Get()
	return scan.Buttons{
		Start:    v&PIN_START != 0,
		Stop:     v&PIN_STOP != 0,
		ReadBias: v&PIN_BIAS != 0,
	}
}

// adcRegisters exposes ADMUX, ADCSRA and the result registers.
type adcRegisters struct{}

func (adcRegisters) Mux() uint8         { return avr.ADMUX.Get() }
func (adcRegisters) SetMux(v uint8)     { avr.ADMUX.Set(v) }
func (adcRegisters) Control() uint8     { return avr.ADCSRA.Get() }
func (adcRegisters) SetControl(v uint8) { avr.ADCSRA.Set(v) }

// Result reads ADCL before ADCH; reading ADCL locks the pair.
func (adcRegisters) Result() uint16 {
	lo := avr.ADCL.Get()
	hi := avr.ADCH.Get()
	return uint16(lo) | uint16(hi)<<8
}
