package main

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/itohio/apelscan/pkg/calib"
)

// showSettingsDialog displays the configuration tabs. Submitting a tab saves
// the configuration and power cycles the board.
func showSettingsDialog(state *appState) {
	tabs := container.NewAppTabs(
		createDividerTab(state, "Peak", &state.cfg.Calibration.Peak),
		createDividerTab(state, "Bias", &state.cfg.Calibration.Bias),
		createDisplayTab(state),
		createSimTab(state),
	)

	content := container.NewBorder(nil, nil, nil, nil, tabs)
	d := dialog.NewCustom("Settings", "Close", content, state.window)
	d.Resize(fyne.NewSize(480, 420))
	d.Show()
}

// apply saves the configuration and restarts the rig with it.
func (s *appState) apply() {
	if err := s.cfg.Validate(); err != nil {
		dialog.ShowError(err, s.window)
		return
	}
	if err := s.cfg.Save(s.configPath); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save config: %w", err), s.window)
		return
	}
	if err := s.rig.Restart(); err != nil {
		dialog.ShowError(err, s.window)
		return
	}
	s.syncSliders()
}

func floatEntry(v float32, prec int) *widget.Entry {
	e := widget.NewEntry()
	e.SetText(strconv.FormatFloat(float64(v), 'f', prec, 32))
	return e
}

func parseFloat32(e *widget.Entry, dst *float32) {
	if v, err := strconv.ParseFloat(e.Text, 32); err == nil {
		*dst = float32(v)
	}
}

func parseDuration(e *widget.Entry, dst *time.Duration) {
	if v, err := time.ParseDuration(e.Text); err == nil {
		*dst = v
	}
}

// createDividerTab edits one front end calibration.
func createDividerTab(state *appState, name string, d *calib.Divider) *container.TabItem {
	vrefEntry := floatEntry(d.VRef, 3)
	r1Entry := floatEntry(d.R1, 2)
	r2Entry := floatEntry(d.R2, 2)
	fullScaleEntry := floatEntry(d.FullScale, 1)

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "VRef (V)", Widget: vrefEntry},
			{Text: "R1 (kΩ)", Widget: r1Entry},
			{Text: "R2 (kΩ)", Widget: r2Entry},
			{Text: "Full Scale", Widget: fullScaleEntry},
		},
		OnSubmit: func() {
			parseFloat32(vrefEntry, &d.VRef)
			parseFloat32(r1Entry, &d.R1)
			parseFloat32(r2Entry, &d.R2)
			parseFloat32(fullScaleEntry, &d.FullScale)
			state.apply()
		},
	}

	return container.NewTabItem(name, form)
}

// createDisplayTab edits display timing and the welcome banner.
func createDisplayTab(state *appState) *container.TabItem {
	bannerEntry := widget.NewEntry()
	bannerEntry.SetText(state.cfg.Display.Banner)

	settleEntry := widget.NewEntry()
	settleEntry.SetText(state.cfg.Display.Settle.String())

	welcomeEntry := widget.NewEntry()
	welcomeEntry.SetText(state.cfg.Display.WelcomeDelay.String())

	speedEntry := widget.NewEntry()
	speedEntry.SetText(strconv.FormatFloat(state.cfg.Sim.DisplaySpeed, 'f', 2, 64))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Banner", Widget: bannerEntry},
			{Text: "Settle", Widget: settleEntry},
			{Text: "Welcome Delay", Widget: welcomeEntry},
			{Text: "Bus Speed (0=instant)", Widget: speedEntry},
		},
		OnSubmit: func() {
			if bannerEntry.Text != "" {
				state.cfg.Display.Banner = bannerEntry.Text
			}
			parseDuration(settleEntry, &state.cfg.Display.Settle)
			parseDuration(welcomeEntry, &state.cfg.Display.WelcomeDelay)
			if v, err := strconv.ParseFloat(speedEntry.Text, 64); err == nil {
				state.cfg.Sim.DisplaySpeed = v
			}
			state.apply()
		},
	}

	return container.NewTabItem("Display", form)
}

// createSimTab edits the simulated hardware.
func createSimTab(state *appState) *container.TabItem {
	sc := &state.cfg.Sim

	supplyEntry := floatEntry(sc.Supply, 3)
	bandgapEntry := floatEntry(sc.Bandgap, 3)
	riseEntry := widget.NewEntry()
	riseEntry.SetText(sc.RiseTime.String())
	rippleEntry := floatEntry(sc.Ripple, 4)
	periodEntry := widget.NewEntry()
	periodEntry.SetText(sc.LoopPeriod.String())
	pressEntry := widget.NewEntry()
	pressEntry.SetText(strconv.Itoa(sc.PressTicks))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "AVcc (V)", Widget: supplyEntry},
			{Text: "Bandgap (V)", Widget: bandgapEntry},
			{Text: "Integrator Rise Time", Widget: riseEntry},
			{Text: "Ripple (V)", Widget: rippleEntry},
			{Text: "Loop Period", Widget: periodEntry},
			{Text: "Press Length (loops)", Widget: pressEntry},
		},
		OnSubmit: func() {
			parseFloat32(supplyEntry, &sc.Supply)
			parseFloat32(bandgapEntry, &sc.Bandgap)
			parseDuration(riseEntry, &sc.RiseTime)
			parseFloat32(rippleEntry, &sc.Ripple)
			parseDuration(periodEntry, &sc.LoopPeriod)
			if n, err := strconv.Atoi(pressEntry.Text); err == nil && n > 0 {
				sc.PressTicks = n
			}
			state.apply()
		},
	}

	return container.NewTabItem("Simulation", form)
}
