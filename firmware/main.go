//go:build tinygo && avr

//go:generate tinygo flash -target=arduino

package main

import (
	"context"
	"machine"

	"github.com/itohio/apelscan/pkg/adc"
	"github.com/itohio/apelscan/pkg/lcd"
	"github.com/itohio/apelscan/pkg/scan"
)

func main() {
	configurePorts()

	display := lcd.New(lcdPort{}, lcd.Config{})
	sampler := adc.New(adcRegisters{}, machine.CPUFrequency())

	// Compiled-in calibration: there is no filesystem to load config.yaml from.
	ctrl := scan.New(buttonPins{}, sampler, display, scan.Options{})
	ctrl.Start()

	// Never returns: Background is never cancelled.
	ctrl.Run(context.Background())
}
