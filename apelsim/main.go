package main

import (
	"flag"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/itohio/apelscan/pkg/config"
	"github.com/itohio/apelscan/pkg/lcdview"
)

// refreshInterval is how often the LCD view polls the simulated controller.
const refreshInterval = 33 * time.Millisecond

func main() {
	var (
		configFlag = flag.String("config", "config.yaml", "Configuration file path")
		periodFlag = flag.Duration("period", 0, "Loop period override (e.g. 5ms)")
	)
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *periodFlag > 0 {
		cfg.Sim.LoopPeriod = *periodFlag
	}

	application := app.NewWithID("com.itohio.apelscan")
	window := application.NewWindow("APEL Scan")
	window.Resize(fyne.NewSize(640, 360))
	window.CenterOnScreen()

	state := &appState{
		cfg:        cfg,
		configPath: *configFlag,
		rig:        newRig(cfg),
		window:     window,
		display:    lcdview.New(),
	}

	window.SetContent(container.NewBorder(
		createToolbar(state),
		createPanel(state),
		nil,
		nil,
		container.NewPadded(state.display),
	))
	window.SetOnClosed(state.rig.Close)

	if err := state.rig.Start(); err != nil {
		dialog.ShowError(err, window)
	}
	state.syncSliders()

	quit := make(chan struct{})
	application.Lifecycle().SetOnStopped(func() { close(quit) })
	go state.refreshLoop(quit)
	window.ShowAndRun()
}

// appState holds the application state.
type appState struct {
	cfg        *config.Config
	configPath string
	rig        *rig
	window     fyne.Window
	display    *lcdview.LCD

	signal *widget.Slider
	bias   *widget.Slider
	status *widget.Label
}

// createToolbar creates the power and settings buttons.
func createToolbar(state *appState) fyne.CanvasObject {
	powerBtn := widget.NewButtonWithIcon("", theme.ViewRefreshIcon(), func() {
		if err := state.rig.Restart(); err != nil {
			dialog.ShowError(err, state.window)
			return
		}
		state.syncSliders()
	})

	settingsBtn := widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
		showSettingsDialog(state)
	})

	state.status = widget.NewLabel("")

	return container.NewBorder(
		nil,
		nil,
		container.NewHBox(powerBtn, settingsBtn),
		nil,
		state.status,
	)
}

// refreshLoop copies the simulated screen into the view until the app quits.
func (s *appState) refreshLoop(quit <-chan struct{}) {
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-quit:
			return
		case <-ticker.C:
		}

		board := s.rig.Board()
		if board == nil {
			continue
		}
		screen := board.LCD.Screen()
		running := s.rig.Running()
		fyne.Do(func() {
			s.display.Update(screen)
			s.updateStatus(running)
		})
	}
}

func (s *appState) updateStatus(running bool) {
	if !running {
		s.status.SetText("Powered off")
		return
	}
	s.status.SetText("Powered")
}
