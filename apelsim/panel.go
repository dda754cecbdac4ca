package main

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/itohio/apelscan/pkg/sim"
)

// createPanel creates the fixture buttons and the analog front end controls.
func createPanel(state *appState) fyne.CanvasObject {
	press := func(b sim.Button) func() {
		return func() {
			if board := state.rig.Board(); board != nil {
				board.Buttons.Press(b)
			}
		}
	}

	startBtn := widget.NewButton("Start", press(sim.StartButton))
	startBtn.Importance = widget.HighImportance
	stopBtn := widget.NewButton("Stop", press(sim.StopButton))
	biasBtn := widget.NewButton("Read Bias", press(sim.BiasButton))

	signalLabel := widget.NewLabel("")
	state.signal = widget.NewSlider(0, float64(state.cfg.Calibration.Peak.Ratio()*state.cfg.Sim.Bandgap))
	state.signal.Step = 0.01
	state.signal.OnChanged = func(v float64) {
		signalLabel.SetText(fmt.Sprintf("Signal %.2f V", v))
		if board := state.rig.Board(); board != nil {
			board.Signal.SetTarget(float32(v))
		}
	}

	biasLabel := widget.NewLabel("")
	state.bias = widget.NewSlider(0, float64(state.cfg.Calibration.Bias.Ratio()*state.cfg.Sim.Supply))
	state.bias.Step = 0.05
	state.bias.OnChanged = func(v float64) {
		biasLabel.SetText(fmt.Sprintf("Bias %.2f V", v))
		if board := state.rig.Board(); board != nil {
			board.SetBias(float32(v))
		}
	}

	dischargeBtn := widget.NewButton("Discharge", func() {
		if board := state.rig.Board(); board != nil {
			board.Signal.Discharge()
		}
	})

	return container.NewVBox(
		container.NewGridWithColumns(3, startBtn, stopBtn, biasBtn),
		container.NewBorder(nil, nil, signalLabel, dischargeBtn, state.signal),
		container.NewBorder(nil, nil, biasLabel, nil, state.bias),
	)
}

// syncSliders moves the sliders to the levels of the current board.
func (s *appState) syncSliders() {
	board := s.rig.Board()
	if board == nil {
		return
	}
	s.signal.SetValue(float64(board.Signal.Target()))
	s.bias.SetValue(float64(board.Bias()))
}
